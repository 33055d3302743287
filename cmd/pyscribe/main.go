package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/pyscribe/pyscribe/internal/benchstore"
	"github.com/pyscribe/pyscribe/internal/config"
	"github.com/pyscribe/pyscribe/internal/lexer"
	"github.com/pyscribe/pyscribe/internal/parser"
	"github.com/pyscribe/pyscribe/internal/pipeline"
	"github.com/pyscribe/pyscribe/internal/prettyprinter"
)

var log = logrus.New()

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file> <iterations> <mode>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s dump <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s gen <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Modes: %v\n", config.BenchModes)
	flag.PrintDefaults()
}

func fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		color.New(color.FgRed).Fprintln(os.Stderr, msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

func runPipeline(source []byte, path string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = path
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
}

// handleDump parses a file and prints the AST tree or the regenerated
// source.
func handleDump(mode, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fail("error reading file: %s", err)
	}
	ctx := runPipeline(source, path)
	if err := ctx.FirstError(); err != nil {
		fail("%s", err)
	}
	switch mode {
	case "dump":
		fmt.Print(prettyprinter.NewTreePrinter().PrintNode(ctx.AstRoot))
	case "gen":
		fmt.Print(prettyprinter.NewCodePrinter().PrintNode(ctx.AstRoot))
	}
}

func main() {
	dbPath := flag.String("db", "", "record benchmark results in this SQLite database")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) == 2 && (args[0] == "dump" || args[0] == "gen") {
		handleDump(args[0], args[1])
		return
	}
	if len(args) != 3 {
		usage()
		os.Exit(1)
	}

	path := args[0]
	var iterations int
	if _, err := fmt.Sscanf(args[1], "%d", &iterations); err != nil || iterations <= 0 {
		fail("invalid iteration count: %s", args[1])
	}
	mode := args[2]

	valid := false
	for _, m := range config.BenchModes {
		if mode == m {
			valid = true
		}
	}
	if !valid {
		fail("invalid mode %q, expected one of %v", mode, config.BenchModes)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fail("error reading file: %s", err)
	}

	log.WithFields(logrus.Fields{
		"file":       path,
		"mode":       mode,
		"iterations": iterations,
	}).Debug("starting benchmark")

	durations := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := runIteration(mode, source, path); err != nil {
			fail("%s", err)
		}
		elapsed := time.Since(start).Seconds()
		durations = append(durations, elapsed)
		log.WithFields(logrus.Fields{"iteration": i, "seconds": elapsed}).Debug("iteration done")
	}

	if *dbPath != "" {
		store, err := benchstore.Open(*dbPath)
		if err != nil {
			fail("%s", err)
		}
		defer store.Close()
		runID, err := store.Record(path, mode, durations)
		if err != nil {
			fail("recording results: %s", err)
		}
		log.WithField("run", runID).Debug("results recorded")
	}

	out, err := json.Marshal(durations)
	if err != nil {
		fail("%s", err)
	}
	fmt.Println(string(out))
}

func runIteration(mode string, source []byte, path string) error {
	switch mode {
	case config.ModeTokenize:
		if _, err := lexer.Tokenize(source); err != nil {
			return err
		}
	case config.ModeParse:
		ctx := runPipeline(source, path)
		if err := ctx.FirstError(); err != nil {
			return err
		}
	case config.ModeCodegen:
		ctx := runPipeline(source, path)
		if err := ctx.FirstError(); err != nil {
			return err
		}
		prettyprinter.NewCodePrinter().PrintNode(ctx.AstRoot)
	case config.ModeRoundtrip:
		ctx := runPipeline(source, path)
		if err := ctx.FirstError(); err != nil {
			return err
		}
		regenerated := prettyprinter.NewCodePrinter().PrintNode(ctx.AstRoot)
		ctx2 := runPipeline([]byte(regenerated), path)
		if err := ctx2.FirstError(); err != nil {
			return fmt.Errorf("roundtrip reparse failed: %w", err)
		}
	}
	return nil
}
