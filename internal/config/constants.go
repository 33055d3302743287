package config

const SourceFileExt = ".py"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".py", ".pyi"}

// Formatting defaults used by the code printer.
const (
	DefaultIndentWidth = 4
	DefaultLineWidth   = 88
	DefaultQuote       = byte('"')
)

// Benchmark driver modes.
const (
	ModeTokenize  = "tokenize"
	ModeParse     = "parse"
	ModeRoundtrip = "roundtrip"
	ModeCodegen   = "codegen"
)

// BenchModes lists the accepted CLI benchmark modes.
var BenchModes = []string{ModeTokenize, ModeParse, ModeRoundtrip, ModeCodegen}
