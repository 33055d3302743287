package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pyscribe/pyscribe/internal/ast"
)

// --- Tree Printer (structural AST dump) ---

type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *TreePrinter) line(s string) {
	p.write(strings.Repeat("  ", p.indent))
	p.write(s)
	p.write("\n")
}

func (p *TreePrinter) nested(header string, fn func()) {
	p.line(header)
	p.indent++
	fn()
	p.indent--
}

// PrintNode dumps any AST node as an indented tree and returns the
// accumulated text.
func (p *TreePrinter) PrintNode(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Module:
		p.nested("Module", func() {
			for _, stmt := range n.Body {
				p.printStmt(stmt)
			}
		})
	case ast.Statement:
		p.printStmt(n)
	case ast.Expression:
		p.printExpr("", n)
	case ast.Pattern:
		p.printPattern("", n)
	}
	return p.String()
}

func (p *TreePrinter) printStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		head := "FunctionDef: " + s.Name
		if s.IsAsync {
			head = "AsyncFunctionDef: " + s.Name
		}
		p.nested(head, func() {
			for _, d := range s.Decorators {
				p.printExpr("decorator: ", d)
			}
			p.printArguments(s.Args)
			if s.Returns != nil {
				p.printExpr("returns: ", s.Returns)
			}
			p.printBody("body", s.Body)
		})
	case *ast.ClassDef:
		p.nested("ClassDef: "+s.Name, func() {
			for _, d := range s.Decorators {
				p.printExpr("decorator: ", d)
			}
			for _, b := range s.Bases {
				p.printExpr("base: ", b)
			}
			for _, kw := range s.Keywords {
				p.printExpr("keyword "+kw.Name+": ", kw.Value)
			}
			p.printBody("body", s.Body)
		})
	case *ast.Return:
		if s.Value == nil {
			p.line("Return")
		} else {
			p.nested("Return", func() { p.printExpr("", s.Value) })
		}
	case *ast.Delete:
		p.nested("Delete", func() {
			for _, t := range s.Targets {
				p.printExpr("", t)
			}
		})
	case *ast.Assign:
		p.nested("Assign", func() {
			for _, t := range s.Targets {
				p.printExpr("target: ", t)
			}
			p.printExpr("value: ", s.Value)
		})
	case *ast.AugAssign:
		p.nested("AugAssign: "+s.Op+"=", func() {
			p.printExpr("target: ", s.Target)
			p.printExpr("value: ", s.Value)
		})
	case *ast.AnnAssign:
		p.nested(fmt.Sprintf("AnnAssign (simple=%v)", s.Simple), func() {
			p.printExpr("target: ", s.Target)
			p.printExpr("annotation: ", s.Annotation)
			if s.Value != nil {
				p.printExpr("value: ", s.Value)
			}
		})
	case *ast.TypeAlias:
		p.nested("TypeAlias", func() {
			p.printExpr("name: ", s.Name)
			p.printExpr("value: ", s.Value)
		})
	case *ast.For:
		head := "For"
		if s.IsAsync {
			head = "AsyncFor"
		}
		p.nested(head, func() {
			p.printExpr("target: ", s.Target)
			p.printExpr("iter: ", s.Iter)
			p.printBody("body", s.Body)
			if len(s.OrElse) > 0 {
				p.printBody("orelse", s.OrElse)
			}
		})
	case *ast.While:
		p.nested("While", func() {
			p.printExpr("test: ", s.Test)
			p.printBody("body", s.Body)
			if len(s.OrElse) > 0 {
				p.printBody("orelse", s.OrElse)
			}
		})
	case *ast.If:
		p.nested("If", func() {
			p.printExpr("test: ", s.Test)
			p.printBody("body", s.Body)
			if len(s.OrElse) > 0 {
				p.printBody("orelse", s.OrElse)
			}
		})
	case *ast.With:
		head := "With"
		if s.IsAsync {
			head = "AsyncWith"
		}
		p.nested(head, func() {
			for _, item := range s.Items {
				p.printExpr("context: ", item.ContextExpr)
				if item.OptionalVars != nil {
					p.printExpr("as: ", item.OptionalVars)
				}
			}
			p.printBody("body", s.Body)
		})
	case *ast.Match:
		p.nested("Match", func() {
			p.printExpr("subject: ", s.Subject)
			for _, mc := range s.Cases {
				p.nested("Case", func() {
					p.printPattern("pattern: ", mc.Pattern)
					if mc.Guard != nil {
						p.printExpr("guard: ", mc.Guard)
					}
					p.printBody("body", mc.Body)
				})
			}
		})
	case *ast.Raise:
		p.nested("Raise", func() {
			if s.Exc != nil {
				p.printExpr("exc: ", s.Exc)
			}
			if s.Cause != nil {
				p.printExpr("cause: ", s.Cause)
			}
		})
	case *ast.Try:
		head := "Try"
		if s.IsStar {
			head = "TryStar"
		}
		p.nested(head, func() {
			p.printBody("body", s.Body)
			for _, h := range s.Handlers {
				p.nested("ExceptHandler "+h.Name, func() {
					if h.Type != nil {
						p.printExpr("type: ", h.Type)
					}
					p.printBody("body", h.Body)
				})
			}
			if len(s.OrElse) > 0 {
				p.printBody("orelse", s.OrElse)
			}
			if len(s.FinalBody) > 0 {
				p.printBody("finalbody", s.FinalBody)
			}
		})
	case *ast.Assert:
		p.nested("Assert", func() {
			p.printExpr("test: ", s.Test)
			if s.Msg != nil {
				p.printExpr("msg: ", s.Msg)
			}
		})
	case *ast.Import:
		p.nested("Import", func() {
			for _, al := range s.Names {
				p.line(aliasLine(al))
			}
		})
	case *ast.ImportFrom:
		p.nested(fmt.Sprintf("ImportFrom: %s (level=%d)", s.Module, s.Level), func() {
			for _, al := range s.Names {
				p.line(aliasLine(al))
			}
		})
	case *ast.Global:
		p.line("Global: " + strings.Join(s.Names, ", "))
	case *ast.Nonlocal:
		p.line("Nonlocal: " + strings.Join(s.Names, ", "))
	case *ast.ExpressionStatement:
		p.nested("ExpressionStatement", func() { p.printExpr("", s.Expression) })
	case *ast.Pass:
		p.line("Pass")
	case *ast.Break:
		p.line("Break")
	case *ast.Continue:
		p.line("Continue")
	default:
		p.line(fmt.Sprintf("<unknown statement %T>", stmt))
	}
}

func aliasLine(al *ast.Alias) string {
	if al.AsName != "" {
		return "Alias: " + al.Name + " as " + al.AsName
	}
	return "Alias: " + al.Name
}

func (p *TreePrinter) printBody(label string, body []ast.Statement) {
	p.nested(label+":", func() {
		for _, stmt := range body {
			p.printStmt(stmt)
		}
	})
}

func (p *TreePrinter) printArguments(args *ast.Arguments) {
	if args == nil {
		return
	}
	p.nested("arguments:", func() {
		for _, a := range args.PosOnlyArgs {
			p.printArg("posonly ", a)
		}
		for _, a := range args.Args {
			p.printArg("", a)
		}
		if args.VarArg != nil {
			p.printArg("*", args.VarArg)
		}
		for _, a := range args.KwOnlyArgs {
			p.printArg("kwonly ", a)
		}
		if args.Kwarg != nil {
			p.printArg("**", args.Kwarg)
		}
		for _, d := range args.Defaults {
			p.printExpr("default: ", d)
		}
		for _, d := range args.KwDefaults {
			if d != nil {
				p.printExpr("kwdefault: ", d)
			} else {
				p.line("kwdefault: <none>")
			}
		}
	})
}

func (p *TreePrinter) printArg(prefix string, a *ast.Arg) {
	if a.Annotation != nil {
		p.nested("Arg: "+prefix+a.Name, func() {
			p.printExpr("annotation: ", a.Annotation)
		})
	} else {
		p.line("Arg: " + prefix + a.Name)
	}
}

func (p *TreePrinter) printExpr(label string, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.line(label + "Name: " + e.Value)
	case *ast.NumberLiteral:
		p.line(label + "Number: " + e.Token.Lexeme)
	case *ast.StringLiteral:
		p.line(label + fmt.Sprintf("String: %q", e.Value))
	case *ast.BytesLiteral:
		p.line(label + fmt.Sprintf("Bytes: %q", string(e.Value)))
	case *ast.BooleanLiteral:
		p.line(label + fmt.Sprintf("Bool: %v", e.Value))
	case *ast.NoneLiteral:
		p.line(label + "None")
	case *ast.EllipsisLiteral:
		p.line(label + "Ellipsis")
	case *ast.TupleLiteral:
		p.nested(label+"Tuple", func() {
			for _, el := range e.Elements {
				p.printExpr("", el)
			}
		})
	case *ast.ListLiteral:
		p.nested(label+"List", func() {
			for _, el := range e.Elements {
				p.printExpr("", el)
			}
		})
	case *ast.SetLiteral:
		p.nested(label+"Set", func() {
			for _, el := range e.Elements {
				p.printExpr("", el)
			}
		})
	case *ast.DictLiteral:
		p.nested(label+"Dict", func() {
			for i := range e.Keys {
				if e.Keys[i] == nil {
					p.printExpr("**: ", e.Values[i])
				} else {
					p.printExpr("key: ", e.Keys[i])
					p.printExpr("value: ", e.Values[i])
				}
			}
		})
	case *ast.ListComp:
		p.nested(label+"ListComp", func() {
			p.printExpr("element: ", e.Element)
			p.printComprehensions(e.Generators)
		})
	case *ast.SetComp:
		p.nested(label+"SetComp", func() {
			p.printExpr("element: ", e.Element)
			p.printComprehensions(e.Generators)
		})
	case *ast.DictComp:
		p.nested(label+"DictComp", func() {
			p.printExpr("key: ", e.Key)
			p.printExpr("value: ", e.Value)
			p.printComprehensions(e.Generators)
		})
	case *ast.GeneratorExp:
		p.nested(label+"GeneratorExp", func() {
			p.printExpr("element: ", e.Element)
			p.printComprehensions(e.Generators)
		})
	case *ast.Lambda:
		p.nested(label+"Lambda", func() {
			p.printArguments(e.Args)
			p.printExpr("body: ", e.Body)
		})
	case *ast.Yield:
		if e.Value == nil {
			p.line(label + "Yield")
		} else {
			p.nested(label+"Yield", func() { p.printExpr("", e.Value) })
		}
	case *ast.YieldFrom:
		p.nested(label+"YieldFrom", func() { p.printExpr("", e.Value) })
	case *ast.Await:
		p.nested(label+"Await", func() { p.printExpr("", e.Value) })
	case *ast.Attribute:
		p.nested(label+"Attribute: ."+e.Attr, func() { p.printExpr("", e.Value) })
	case *ast.Subscript:
		p.nested(label+"Subscript", func() {
			p.printExpr("value: ", e.Value)
			p.printExpr("index: ", e.Index)
		})
	case *ast.Call:
		p.nested(label+"Call", func() {
			p.printExpr("func: ", e.Func)
			for _, arg := range e.Args {
				p.printExpr("arg: ", arg)
			}
			for _, kw := range e.Keywords {
				if kw.Name == "" {
					p.printExpr("**: ", kw.Value)
				} else {
					p.printExpr("keyword "+kw.Name+": ", kw.Value)
				}
			}
		})
	case *ast.Slice:
		p.nested(label+"Slice", func() {
			if e.Lower != nil {
				p.printExpr("lower: ", e.Lower)
			}
			if e.Upper != nil {
				p.printExpr("upper: ", e.Upper)
			}
			if e.Step != nil {
				p.printExpr("step: ", e.Step)
			}
		})
	case *ast.Starred:
		p.nested(label+"Starred", func() { p.printExpr("", e.Value) })
	case *ast.NamedExpr:
		p.nested(label+"NamedExpr", func() {
			p.printExpr("target: ", e.Target)
			p.printExpr("value: ", e.Value)
		})
	case *ast.InfixExpression:
		p.nested(label+"BinOp: "+e.Operator, func() {
			p.printExpr("", e.Left)
			p.printExpr("", e.Right)
		})
	case *ast.PrefixExpression:
		p.nested(label+"UnaryOp: "+e.Operator, func() { p.printExpr("", e.Right) })
	case *ast.BoolOp:
		p.nested(label+"BoolOp: "+e.Op, func() {
			for _, v := range e.Values {
				p.printExpr("", v)
			}
		})
	case *ast.Compare:
		p.nested(label+"Compare: "+strings.Join(e.Ops, " "), func() {
			p.printExpr("", e.Left)
			for _, c := range e.Comparators {
				p.printExpr("", c)
			}
		})
	case *ast.IfExpression:
		p.nested(label+"IfExp", func() {
			p.printExpr("body: ", e.Body)
			p.printExpr("test: ", e.Test)
			p.printExpr("orelse: ", e.OrElse)
		})
	case *ast.JoinedStr:
		p.nested(label+"JoinedStr", func() {
			for _, part := range e.Parts {
				p.printExpr("", part)
			}
		})
	case *ast.FormattedValue:
		head := label + "FormattedValue"
		if e.Conversion != 0 {
			head += " !" + string(e.Conversion)
		}
		p.nested(head, func() {
			p.printExpr("", e.Value)
			if e.FormatSpec != nil {
				p.printExpr("format: ", e.FormatSpec)
			}
		})
	default:
		p.line(label + fmt.Sprintf("<unknown expression %T>", expr))
	}
}

func (p *TreePrinter) printComprehensions(gens []*ast.Comprehension) {
	for _, gen := range gens {
		head := "for"
		if gen.IsAsync {
			head = "async for"
		}
		p.nested(head+":", func() {
			p.printExpr("target: ", gen.Target)
			p.printExpr("iter: ", gen.Iter)
			for _, guard := range gen.Ifs {
				p.printExpr("if: ", guard)
			}
		})
	}
}

func (p *TreePrinter) printPattern(label string, pat ast.Pattern) {
	switch pt := pat.(type) {
	case *ast.MatchValue:
		p.printExpr(label+"MatchValue: ", pt.Value)
	case *ast.MatchSingleton:
		p.printExpr(label+"MatchSingleton: ", pt.Value)
	case *ast.MatchSequence:
		p.nested(label+"MatchSequence", func() {
			for _, sub := range pt.Patterns {
				p.printPattern("", sub)
			}
		})
	case *ast.MatchMapping:
		p.nested(label+"MatchMapping rest="+pt.Rest, func() {
			for i := range pt.Keys {
				p.printExpr("key: ", pt.Keys[i])
				p.printPattern("pattern: ", pt.Patterns[i])
			}
		})
	case *ast.MatchClass:
		p.nested(label+"MatchClass", func() {
			p.printExpr("cls: ", pt.Cls)
			for _, sub := range pt.Patterns {
				p.printPattern("", sub)
			}
			for i, name := range pt.KwdNames {
				p.printPattern(name+"=", pt.KwdPatterns[i])
			}
		})
	case *ast.MatchStar:
		p.line(label + "MatchStar: " + pt.Name)
	case *ast.MatchAs:
		if pt.Pattern == nil {
			p.line(label + "MatchAs: " + pt.Name)
		} else {
			p.nested(label+"MatchAs: "+pt.Name, func() {
				p.printPattern("", pt.Pattern)
			})
		}
	case *ast.MatchOr:
		p.nested(label+"MatchOr", func() {
			for _, alt := range pt.Patterns {
				p.printPattern("", alt)
			}
		})
	}
}
