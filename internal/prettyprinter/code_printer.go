package prettyprinter

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/config"
	"github.com/pyscribe/pyscribe/internal/token"
)

// --- Code Printer (regenerates Python source from the AST) ---

// Expression precedence levels (higher = binds tighter).
const (
	precNone    = 0
	precTest    = 1 // lambda, ternary, walrus
	precOr      = 2
	precAnd     = 3
	precNot     = 4
	precCmp     = 5
	precBitOr   = 6
	precBitXor  = 7
	precBitAnd  = 8
	precShift   = 9
	precArith   = 10
	precTerm    = 11
	precUnary   = 12
	precPower   = 13
	precAwait   = 14
	precTrailer = 15
	precAtom    = 16
)

var binOpPrecedence = map[string]int{
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"<<": precShift,
	">>": precShift,
	"+":  precArith,
	"-":  precArith,
	"*":  precTerm,
	"/":  precTerm,
	"//": precTerm,
	"%":  precTerm,
	"@":  precTerm,
	"**": precPower,
}

// Config is the formatting context for the code printer.
type Config struct {
	IndentWidth   int
	LineWidth     int  // advisory; callers pre-split long structures
	Quote         byte // preferred quote character
	TrailingComma bool // not read: the printer emits no multi-line structures
}

func DefaultConfig() Config {
	return Config{
		IndentWidth: config.DefaultIndentWidth,
		LineWidth:   config.DefaultLineWidth,
		Quote:       config.DefaultQuote,
	}
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
	cfg    Config
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{cfg: DefaultConfig()}
}

func NewCodePrinterWithConfig(cfg Config) *CodePrinter {
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = config.DefaultIndentWidth
	}
	if cfg.Quote != '\'' && cfg.Quote != '"' {
		cfg.Quote = config.DefaultQuote
	}
	return &CodePrinter{cfg: cfg}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

// PrintNode unparses any AST node and returns the accumulated text.
func (p *CodePrinter) PrintNode(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Module:
		for _, stmt := range n.Body {
			p.printStmt(stmt)
		}
	case ast.Statement:
		p.printStmt(n)
	case ast.Expression:
		p.printExpr(n, precNone)
	case ast.Pattern:
		p.printPattern(n)
	}
	return p.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	p.write(strings.Repeat(" ", p.indent*p.cfg.IndentWidth))
}

// --- statements ---

func (p *CodePrinter) printStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		p.printDecorators(s.Decorators)
		p.writeIndent()
		if s.IsAsync {
			p.write("async ")
		}
		p.write("def " + s.Name)
		p.printTypeParams(s.TypeParams)
		p.write("(")
		p.printParams(s.Args)
		p.write(")")
		if s.Returns != nil {
			p.write(" -> ")
			p.printExpr(s.Returns, precTest)
		}
		p.printSuite(s.Body)
	case *ast.ClassDef:
		p.printDecorators(s.Decorators)
		p.writeIndent()
		p.write("class " + s.Name)
		p.printTypeParams(s.TypeParams)
		if len(s.Bases) > 0 || len(s.Keywords) > 0 {
			p.write("(")
			first := true
			for _, base := range s.Bases {
				if !first {
					p.write(", ")
				}
				first = false
				p.printExpr(base, precTest)
			}
			for _, kw := range s.Keywords {
				if !first {
					p.write(", ")
				}
				first = false
				p.printKeyword(kw)
			}
			p.write(")")
		}
		p.printSuite(s.Body)
	case *ast.Return:
		p.writeIndent()
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value, precNone)
		}
		p.writeln()
	case *ast.Delete:
		p.writeIndent()
		p.write("del ")
		for i, target := range s.Targets {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(target, precTest)
		}
		p.writeln()
	case *ast.Assign:
		p.writeIndent()
		for _, target := range s.Targets {
			p.printExpr(target, precNone)
			p.write(" = ")
		}
		p.printExpr(s.Value, precNone)
		p.writeln()
	case *ast.AugAssign:
		p.writeIndent()
		p.printExpr(s.Target, precTrailer)
		p.write(" " + s.Op + "= ")
		p.printExpr(s.Value, precNone)
		p.writeln()
	case *ast.AnnAssign:
		p.writeIndent()
		p.printExpr(s.Target, precTrailer)
		p.write(": ")
		p.printExpr(s.Annotation, precTest)
		if s.Value != nil {
			p.write(" = ")
			p.printExpr(s.Value, precNone)
		}
		p.writeln()
	case *ast.TypeAlias:
		p.writeIndent()
		p.write("type ")
		p.printExpr(s.Name, precAtom)
		p.printTypeParams(s.TypeParams)
		p.write(" = ")
		p.printExpr(s.Value, precTest)
		p.writeln()
	case *ast.For:
		p.writeIndent()
		if s.IsAsync {
			p.write("async ")
		}
		p.write("for ")
		p.printExpr(s.Target, precNone)
		p.write(" in ")
		p.printExpr(s.Iter, precNone)
		p.printSuite(s.Body)
		p.printElse(s.OrElse)
	case *ast.While:
		p.writeIndent()
		p.write("while ")
		p.printExpr(s.Test, precNone)
		p.printSuite(s.Body)
		p.printElse(s.OrElse)
	case *ast.If:
		p.printIf(s, "if")
	case *ast.With:
		p.writeIndent()
		if s.IsAsync {
			p.write("async ")
		}
		p.write("with ")
		for i, item := range s.Items {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(item.ContextExpr, precTest)
			if item.OptionalVars != nil {
				p.write(" as ")
				p.printExpr(item.OptionalVars, precTrailer)
			}
		}
		p.printSuite(s.Body)
	case *ast.Match:
		p.writeIndent()
		p.write("match ")
		p.printExpr(s.Subject, precNone)
		p.write(":")
		p.writeln()
		p.indent++
		for _, mc := range s.Cases {
			p.writeIndent()
			p.write("case ")
			p.printPattern(mc.Pattern)
			if mc.Guard != nil {
				p.write(" if ")
				p.printExpr(mc.Guard, precNone)
			}
			p.printSuite(mc.Body)
		}
		p.indent--
	case *ast.Raise:
		p.writeIndent()
		p.write("raise")
		if s.Exc != nil {
			p.write(" ")
			p.printExpr(s.Exc, precTest)
			if s.Cause != nil {
				p.write(" from ")
				p.printExpr(s.Cause, precTest)
			}
		}
		p.writeln()
	case *ast.Try:
		p.writeIndent()
		p.write("try")
		p.printSuite(s.Body)
		for _, h := range s.Handlers {
			p.writeIndent()
			p.write("except")
			if s.IsStar {
				p.write("*")
			}
			if h.Type != nil {
				p.write(" ")
				p.printExpr(h.Type, precTest)
				if h.Name != "" {
					p.write(" as " + h.Name)
				}
			}
			p.printSuite(h.Body)
		}
		p.printElse(s.OrElse)
		if len(s.FinalBody) > 0 {
			p.writeIndent()
			p.write("finally")
			p.printSuite(s.FinalBody)
		}
	case *ast.Assert:
		p.writeIndent()
		p.write("assert ")
		p.printExpr(s.Test, precTest)
		if s.Msg != nil {
			p.write(", ")
			p.printExpr(s.Msg, precTest)
		}
		p.writeln()
	case *ast.Import:
		p.writeIndent()
		p.write("import ")
		p.printAliases(s.Names)
		p.writeln()
	case *ast.ImportFrom:
		p.writeIndent()
		p.write("from " + strings.Repeat(".", s.Level) + s.Module + " import ")
		p.printAliases(s.Names)
		p.writeln()
	case *ast.Global:
		p.writeIndent()
		p.write("global " + strings.Join(s.Names, ", "))
		p.writeln()
	case *ast.Nonlocal:
		p.writeIndent()
		p.write("nonlocal " + strings.Join(s.Names, ", "))
		p.writeln()
	case *ast.ExpressionStatement:
		p.writeIndent()
		p.printExpr(s.Expression, precNone)
		p.writeln()
	case *ast.Pass:
		p.writeIndent()
		p.write("pass")
		p.writeln()
	case *ast.Break:
		p.writeIndent()
		p.write("break")
		p.writeln()
	case *ast.Continue:
		p.writeIndent()
		p.write("continue")
		p.writeln()
	}
}

// printIf emits an if statement, folding a single nested If in the
// else branch back into an elif clause.
func (p *CodePrinter) printIf(s *ast.If, keyword string) {
	p.writeIndent()
	p.write(keyword + " ")
	p.printExpr(s.Test, precNone)
	p.printSuite(s.Body)
	if len(s.OrElse) == 1 {
		if nested, ok := s.OrElse[0].(*ast.If); ok {
			p.printIf(nested, "elif")
			return
		}
	}
	p.printElse(s.OrElse)
}

func (p *CodePrinter) printElse(orElse []ast.Statement) {
	if len(orElse) == 0 {
		return
	}
	p.writeIndent()
	p.write("else")
	p.printSuite(orElse)
}

// printSuite writes ":" and the indented statement block.
func (p *CodePrinter) printSuite(body []ast.Statement) {
	p.write(":")
	p.writeln()
	p.indent++
	if len(body) == 0 {
		p.writeIndent()
		p.write("pass")
		p.writeln()
	}
	for _, stmt := range body {
		p.printStmt(stmt)
	}
	p.indent--
}

func (p *CodePrinter) printDecorators(decorators []ast.Expression) {
	for _, d := range decorators {
		p.writeIndent()
		p.write("@")
		p.printExpr(d, precTest)
		p.writeln()
	}
}

func (p *CodePrinter) printAliases(aliases []*ast.Alias) {
	for i, al := range aliases {
		if i > 0 {
			p.write(", ")
		}
		p.write(al.Name)
		if al.AsName != "" {
			p.write(" as " + al.AsName)
		}
	}
}

func (p *CodePrinter) printTypeParams(tps []ast.TypeParam) {
	if len(tps) == 0 {
		return
	}
	p.write("[")
	for i, tp := range tps {
		if i > 0 {
			p.write(", ")
		}
		switch t := tp.(type) {
		case *ast.TypeVar:
			p.write(t.Name)
			if t.Bound != nil {
				p.write(": ")
				p.printExpr(t.Bound, precTest)
			}
		case *ast.TypeVarTuple:
			p.write("*" + t.Name)
		case *ast.ParamSpec:
			p.write("**" + t.Name)
		}
	}
	p.write("]")
}

// printParams emits a parameter list honoring the /, *, and ** segment
// markers and default alignment.
func (p *CodePrinter) printParams(args *ast.Arguments) {
	if args == nil {
		return
	}
	positional := len(args.PosOnlyArgs) + len(args.Args)
	firstDefault := positional - len(args.Defaults)

	first := true
	sep := func() {
		if !first {
			p.write(", ")
		}
		first = false
	}

	idx := 0
	printPositional := func(arg *ast.Arg) {
		sep()
		p.printParam(arg)
		if idx >= firstDefault {
			p.write("=")
			p.printExpr(args.Defaults[idx-firstDefault], precTest)
		}
		idx++
	}

	for _, arg := range args.PosOnlyArgs {
		printPositional(arg)
	}
	if len(args.PosOnlyArgs) > 0 {
		sep()
		p.write("/")
	}
	for _, arg := range args.Args {
		printPositional(arg)
	}
	if args.VarArg != nil {
		sep()
		p.write("*")
		p.printParam(args.VarArg)
	} else if len(args.KwOnlyArgs) > 0 {
		sep()
		p.write("*")
	}
	for i, arg := range args.KwOnlyArgs {
		sep()
		p.printParam(arg)
		if args.KwDefaults[i] != nil {
			p.write("=")
			p.printExpr(args.KwDefaults[i], precTest)
		}
	}
	if args.Kwarg != nil {
		sep()
		p.write("**")
		p.printParam(args.Kwarg)
	}
}

func (p *CodePrinter) printParam(arg *ast.Arg) {
	p.write(arg.Name)
	if arg.Annotation != nil {
		p.write(": ")
		p.printExpr(arg.Annotation, precTest)
	}
}

func (p *CodePrinter) printKeyword(kw *ast.Keyword) {
	if kw.Name == "" {
		p.write("**")
		p.printExpr(kw.Value, precTest)
		return
	}
	p.write(kw.Name + "=")
	p.printExpr(kw.Value, precTest)
}

// --- expressions ---

// exprPrecedence reports how tightly an expression binds; the printer
// parenthesizes a child whose precedence is below the context minimum.
func exprPrecedence(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.Lambda, *ast.IfExpression, *ast.NamedExpr:
		return precTest
	case *ast.BoolOp:
		if e.Op == "or" {
			return precOr
		}
		return precAnd
	case *ast.PrefixExpression:
		if e.Operator == "not" {
			return precNot
		}
		return precUnary
	case *ast.Compare:
		return precCmp
	case *ast.InfixExpression:
		if prec, ok := binOpPrecedence[e.Operator]; ok {
			return prec
		}
		return precArith
	case *ast.Await:
		return precAwait
	case *ast.Attribute, *ast.Subscript, *ast.Call:
		return precTrailer
	case *ast.Yield, *ast.YieldFrom:
		return precNone
	case *ast.TupleLiteral:
		return precNone
	default:
		return precAtom
	}
}

// printExpr emits an expression, parenthesizing it iff it binds looser
// than the context requires.
func (p *CodePrinter) printExpr(expr ast.Expression, minPrec int) {
	prec := exprPrecedence(expr)
	needParens := prec < minPrec
	if needParens {
		p.write("(")
	}
	p.printExprInner(expr)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printExprInner(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.NumberLiteral:
		p.printNumber(e)
	case *ast.StringLiteral:
		p.printString(e.Value, e.Raw, e.Triple)
	case *ast.BytesLiteral:
		p.printBytes(e)
	case *ast.BooleanLiteral:
		if e.Value {
			p.write("True")
		} else {
			p.write("False")
		}
	case *ast.NoneLiteral:
		p.write("None")
	case *ast.EllipsisLiteral:
		p.write("...")
	case *ast.TupleLiteral:
		p.printTupleElements(e)
	case *ast.ListLiteral:
		p.write("[")
		p.printExprList(e.Elements)
		p.write("]")
	case *ast.SetLiteral:
		p.write("{")
		p.printExprList(e.Elements)
		p.write("}")
	case *ast.DictLiteral:
		p.write("{")
		for i := range e.Keys {
			if i > 0 {
				p.write(", ")
			}
			if e.Keys[i] == nil {
				p.write("**")
				p.printExpr(e.Values[i], precBitOr)
			} else {
				p.printExpr(e.Keys[i], precTest)
				p.write(": ")
				p.printExpr(e.Values[i], precTest)
			}
		}
		p.write("}")
	case *ast.ListComp:
		p.write("[")
		p.printExpr(e.Element, precTest)
		p.printComprehensions(e.Generators)
		p.write("]")
	case *ast.SetComp:
		p.write("{")
		p.printExpr(e.Element, precTest)
		p.printComprehensions(e.Generators)
		p.write("}")
	case *ast.DictComp:
		p.write("{")
		p.printExpr(e.Key, precTest)
		p.write(": ")
		p.printExpr(e.Value, precTest)
		p.printComprehensions(e.Generators)
		p.write("}")
	case *ast.GeneratorExp:
		p.write("(")
		p.printGeneratorBody(e)
		p.write(")")
	case *ast.Lambda:
		p.write("lambda")
		if hasParams(e.Args) {
			p.write(" ")
			p.printParams(e.Args)
		}
		p.write(": ")
		p.printExpr(e.Body, precTest)
	case *ast.Yield:
		p.write("yield")
		if e.Value != nil {
			p.write(" ")
			p.printExpr(e.Value, precNone)
		}
	case *ast.YieldFrom:
		p.write("yield from ")
		p.printExpr(e.Value, precTest)
	case *ast.Await:
		p.write("await ")
		p.printExpr(e.Value, precAwait)
	case *ast.Attribute:
		if needsTrailerParens(e.Value) {
			p.write("(")
			p.printExprInner(e.Value)
			p.write(")")
		} else {
			p.printExpr(e.Value, precTrailer)
		}
		p.write("." + e.Attr)
	case *ast.Subscript:
		p.printExpr(e.Value, precTrailer)
		p.write("[")
		p.printSubscriptIndex(e.Index)
		p.write("]")
	case *ast.Call:
		p.printExpr(e.Func, precTrailer)
		p.write("(")
		if gen, ok := soleGenerator(e); ok {
			p.printGeneratorBody(gen)
		} else {
			first := true
			for _, arg := range e.Args {
				if !first {
					p.write(", ")
				}
				first = false
				p.printExpr(arg, precTest)
			}
			for _, kw := range e.Keywords {
				if !first {
					p.write(", ")
				}
				first = false
				p.printKeyword(kw)
			}
		}
		p.write(")")
	case *ast.Slice:
		if e.Lower != nil {
			p.printExpr(e.Lower, precTest)
		}
		p.write(":")
		if e.Upper != nil {
			p.printExpr(e.Upper, precTest)
		}
		if e.Step != nil {
			p.write(":")
			p.printExpr(e.Step, precTest)
		}
	case *ast.Starred:
		p.write("*")
		p.printExpr(e.Value, precBitOr)
	case *ast.NamedExpr:
		p.printExpr(e.Target, precAtom)
		p.write(" := ")
		p.printExpr(e.Value, precOr)
	case *ast.InfixExpression:
		prec := exprPrecedence(e)
		if e.Operator == "**" {
			// ** is right-associative and binds tighter than unary on
			// its right operand only.
			p.printExpr(e.Left, precPower+1)
			p.write(" ** ")
			p.printExpr(e.Right, precUnary)
		} else {
			p.printExpr(e.Left, prec)
			p.write(" " + e.Operator + " ")
			p.printExpr(e.Right, prec+1)
		}
	case *ast.PrefixExpression:
		if e.Operator == "not" {
			p.write("not ")
			p.printExpr(e.Right, precNot)
		} else {
			p.write(e.Operator)
			p.printExpr(e.Right, precUnary)
		}
	case *ast.BoolOp:
		prec := exprPrecedence(e)
		for i, v := range e.Values {
			if i > 0 {
				p.write(" " + e.Op + " ")
			}
			p.printExpr(v, prec+1)
		}
	case *ast.Compare:
		p.printExpr(e.Left, precCmp+1)
		for i, op := range e.Ops {
			p.write(" " + op + " ")
			p.printExpr(e.Comparators[i], precCmp+1)
		}
	case *ast.IfExpression:
		p.printExpr(e.Body, precOr)
		p.write(" if ")
		p.printExpr(e.Test, precOr)
		p.write(" else ")
		p.printExpr(e.OrElse, precTest)
	case *ast.JoinedStr:
		p.printFString(e)
	case *ast.FormattedValue:
		// A formatted value outside a JoinedStr renders as a one-part
		// f-string.
		p.printFString(&ast.JoinedStr{Parts: []ast.Expression{e}})
	default:
		p.write(fmt.Sprintf("<unknown expression %T>", expr))
	}
}

// needsTrailerParens reports whether an attribute base must be wrapped
// to avoid lexical ambiguity (1 .attr).
func needsTrailerParens(expr ast.Expression) bool {
	if num, ok := expr.(*ast.NumberLiteral); ok {
		return num.Kind == token.NumberInt // 1.attr would lex as a float
	}
	return false
}

func hasParams(args *ast.Arguments) bool {
	if args == nil {
		return false
	}
	return len(args.PosOnlyArgs) > 0 || len(args.Args) > 0 || args.VarArg != nil ||
		len(args.KwOnlyArgs) > 0 || args.Kwarg != nil
}

func soleGenerator(call *ast.Call) (*ast.GeneratorExp, bool) {
	if len(call.Args) == 1 && len(call.Keywords) == 0 {
		if gen, ok := call.Args[0].(*ast.GeneratorExp); ok {
			return gen, true
		}
	}
	return nil, false
}

func (p *CodePrinter) printGeneratorBody(gen *ast.GeneratorExp) {
	p.printExpr(gen.Element, precTest)
	p.printComprehensions(gen.Generators)
}

func (p *CodePrinter) printComprehensions(gens []*ast.Comprehension) {
	for _, gen := range gens {
		if gen.IsAsync {
			p.write(" async for ")
		} else {
			p.write(" for ")
		}
		p.printExpr(gen.Target, precNone)
		p.write(" in ")
		p.printExpr(gen.Iter, precOr)
		for _, guard := range gen.Ifs {
			p.write(" if ")
			p.printExpr(guard, precOr)
		}
	}
}

// printTupleElements writes a tuple's elements; the surrounding parens
// come from the precedence wrapper, so a statement-level tuple stays
// bare while nested ones are wrapped.
func (p *CodePrinter) printTupleElements(tup *ast.TupleLiteral) {
	if len(tup.Elements) == 0 {
		p.write("()")
		return
	}
	p.printExprList(tup.Elements)
	if len(tup.Elements) == 1 {
		p.write(",")
	}
}

func (p *CodePrinter) printExprList(elements []ast.Expression) {
	for i, el := range elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, precTest)
	}
}

// printSubscriptIndex renders an index with subscript tuple rules:
// a[b, c] keeps the bare comma form.
func (p *CodePrinter) printSubscriptIndex(index ast.Expression) {
	if tup, ok := index.(*ast.TupleLiteral); ok && len(tup.Elements) > 0 {
		p.printExprList(tup.Elements)
		if len(tup.Elements) == 1 {
			p.write(",")
		}
		return
	}
	p.printExpr(index, precNone)
}

// --- literals ---

// printNumber round-trips the stored representation when the token
// lexeme survives, falling back to formatting the value.
func (p *CodePrinter) printNumber(num *ast.NumberLiteral) {
	if num.Token.Lexeme != "" {
		p.write(num.Token.Lexeme)
		return
	}
	switch v := num.Value.(type) {
	case int64:
		p.write(strconv.FormatInt(v, 10))
	case *big.Int:
		p.write(v.String())
	case float64:
		p.write(strconv.FormatFloat(v, 'g', -1, 64))
	case complex128:
		p.write(strconv.FormatFloat(imag(v), 'g', -1, 64) + "j")
	default:
		p.write("0")
	}
}

func (p *CodePrinter) printString(value string, raw, triple bool) {
	quote := p.cfg.Quote
	if raw && isRawSafe(value, quote, triple) {
		p.write("r")
		p.writeQuoted(value, quote, triple, false)
		return
	}
	p.writeQuoted(value, quote, triple, true)
}

// isRawSafe reports whether a decoded value can be reproduced inside a
// raw literal with the chosen quoting.
func isRawSafe(value string, quote byte, triple bool) bool {
	if strings.HasSuffix(value, "\\") {
		return false
	}
	if triple {
		return !strings.Contains(value, strings.Repeat(string(quote), 3))
	}
	return !strings.ContainsAny(value, string(quote)+"\n")
}

func (p *CodePrinter) writeQuoted(value string, quote byte, triple, escape bool) {
	q := string(quote)
	if triple {
		q = strings.Repeat(string(quote), 3)
	}
	p.write(q)
	if !escape {
		p.write(value)
	} else {
		p.write(escapeString(value, quote, triple))
	}
	p.write(q)
}

func escapeString(value string, quote byte, triple bool) string {
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch == '\\':
			sb.WriteString("\\\\")
		case ch == quote:
			sb.WriteString("\\" + string(ch))
		case ch == '\n':
			if triple {
				sb.WriteByte(ch)
			} else {
				sb.WriteString("\\n")
			}
		case ch == '\t':
			sb.WriteString("\\t")
		case ch == '\r':
			sb.WriteString("\\r")
		case ch < 0x20:
			sb.WriteString(fmt.Sprintf("\\x%02x", ch))
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

func (p *CodePrinter) printBytes(b *ast.BytesLiteral) {
	quote := p.cfg.Quote
	p.write("b")
	q := string(quote)
	if b.Triple {
		q = strings.Repeat(string(quote), 3)
	}
	p.write(q)
	for _, ch := range b.Value {
		switch {
		case ch == '\\':
			p.write("\\\\")
		case ch == quote:
			p.write("\\" + string(ch))
		case ch == '\n':
			if b.Triple {
				p.write("\n")
			} else {
				p.write("\\n")
			}
		case ch == '\t':
			p.write("\\t")
		case ch == '\r':
			p.write("\\r")
		case ch < 0x20 || ch >= 0x7f:
			p.write(fmt.Sprintf("\\x%02x", ch))
		default:
			p.write(string(ch))
		}
	}
	p.write(q)
}

// printFString renders a JoinedStr back into f-string syntax.
func (p *CodePrinter) printFString(js *ast.JoinedStr) {
	quote := p.cfg.Quote
	p.write("f" + string(quote))
	p.printFStringParts(js.Parts, quote)
	p.write(string(quote))
}

func (p *CodePrinter) printFStringParts(parts []ast.Expression, quote byte) {
	for _, part := range parts {
		switch pt := part.(type) {
		case *ast.StringLiteral:
			text := escapeString(pt.Value, quote, false)
			text = strings.ReplaceAll(text, "{", "{{")
			text = strings.ReplaceAll(text, "}", "}}")
			p.write(text)
		case *ast.FormattedValue:
			p.write("{")
			// A leading brace would read as an escaped {{.
			inner := NewCodePrinterWithConfig(p.cfg)
			rendered := inner.PrintNode(pt.Value)
			if strings.HasPrefix(rendered, "{") {
				p.write(" ")
			}
			p.write(rendered)
			if pt.Conversion != 0 {
				p.write("!" + string(pt.Conversion))
			}
			if pt.FormatSpec != nil {
				p.write(":")
				p.printFStringParts(pt.FormatSpec.Parts, quote)
			}
			p.write("}")
		}
	}
}

// --- patterns ---

func (p *CodePrinter) printPattern(pat ast.Pattern) {
	switch pt := pat.(type) {
	case *ast.MatchValue:
		p.printExpr(pt.Value, precTest)
	case *ast.MatchSingleton:
		p.printExpr(pt.Value, precTest)
	case *ast.MatchSequence:
		p.write("[")
		for i, sub := range pt.Patterns {
			if i > 0 {
				p.write(", ")
			}
			p.printPattern(sub)
		}
		p.write("]")
	case *ast.MatchMapping:
		p.write("{")
		for i := range pt.Keys {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(pt.Keys[i], precTest)
			p.write(": ")
			p.printPattern(pt.Patterns[i])
		}
		if pt.Rest != "" {
			if len(pt.Keys) > 0 {
				p.write(", ")
			}
			p.write("**" + pt.Rest)
		}
		p.write("}")
	case *ast.MatchClass:
		p.printExpr(pt.Cls, precTrailer)
		p.write("(")
		first := true
		for _, sub := range pt.Patterns {
			if !first {
				p.write(", ")
			}
			first = false
			p.printPattern(sub)
		}
		for i, name := range pt.KwdNames {
			if !first {
				p.write(", ")
			}
			first = false
			p.write(name + "=")
			p.printPattern(pt.KwdPatterns[i])
		}
		p.write(")")
	case *ast.MatchStar:
		if pt.Name == "" {
			p.write("*_")
		} else {
			p.write("*" + pt.Name)
		}
	case *ast.MatchAs:
		switch {
		case pt.Pattern == nil && pt.Name == "":
			p.write("_")
		case pt.Pattern == nil:
			p.write(pt.Name)
		default:
			p.printMatchAsOperand(pt.Pattern)
			p.write(" as " + pt.Name)
		}
	case *ast.MatchOr:
		for i, alt := range pt.Patterns {
			if i > 0 {
				p.write(" | ")
			}
			p.printOrOperand(alt)
		}
	}
}

// printMatchAsOperand wraps or-patterns bound by `as`, which need
// grouping to keep their parse shape.
func (p *CodePrinter) printMatchAsOperand(pat ast.Pattern) {
	if _, ok := pat.(*ast.MatchOr); ok {
		p.write("(")
		p.printPattern(pat)
		p.write(")")
		return
	}
	p.printPattern(pat)
}

// printOrOperand wraps as-patterns inside an or-chain.
func (p *CodePrinter) printOrOperand(pat ast.Pattern) {
	if ma, ok := pat.(*ast.MatchAs); ok && ma.Pattern != nil {
		p.write("(")
		p.printPattern(pat)
		p.write(")")
		return
	}
	p.printPattern(pat)
}
