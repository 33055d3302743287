package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/lexer"
)

func parseSource(t *testing.T, source string) *ast.Module {
	t.Helper()
	tokens, lexErr := lexer.Tokenize([]byte(source))
	require.Nil(t, lexErr, "tokenize failed: %v", lexErr)
	p := New(tokens)
	module := p.ParseModule()
	require.Empty(t, p.Errors(), "parse failed: %v", p.Errors())
	require.NotNil(t, module)
	return module
}

func parseError(t *testing.T, source string) *diagnostics.DiagnosticError {
	t.Helper()
	tokens, lexErr := lexer.Tokenize([]byte(source))
	require.Nil(t, lexErr)
	p := New(tokens)
	module := p.ParseModule()
	require.NotEmpty(t, p.Errors(), "expected a parse error, got module %+v", module)
	assert.Nil(t, module)
	return p.Errors()[0]
}

func TestPassStatement(t *testing.T) {
	module := parseSource(t, "pass\n")
	require.Len(t, module.Body, 1)
	assert.IsType(t, &ast.Pass{}, module.Body[0])
}

func TestAnnAssignSimple(t *testing.T) {
	module := parseSource(t, "x: int = 5\n")
	require.Len(t, module.Body, 1)
	aa, ok := module.Body[0].(*ast.AnnAssign)
	require.True(t, ok)
	assert.True(t, aa.Simple)
	target, ok := aa.Target.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", target.Value)
	ann, ok := aa.Annotation.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "int", ann.Value)
	value, ok := aa.Value.(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(5), value.Value)
}

func TestAnnAssignAttributeTarget(t *testing.T) {
	module := parseSource(t, "self.x: int = 5\n")
	aa, ok := module.Body[0].(*ast.AnnAssign)
	require.True(t, ok)
	assert.False(t, aa.Simple)
	attr, ok := aa.Target.(*ast.Attribute)
	require.True(t, ok)
	assert.Equal(t, "x", attr.Attr)
	base, ok := attr.Value.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "self", base.Value)
}

func TestAnnAssignWithoutValue(t *testing.T) {
	module := parseSource(t, "x: int\n")
	aa, ok := module.Body[0].(*ast.AnnAssign)
	require.True(t, ok)
	assert.Nil(t, aa.Value)
}

func TestFunctionParameters(t *testing.T) {
	module := parseSource(t, "def f(a, b=1, *c, d, e=2, **f): pass\n")
	fd, ok := module.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	args := fd.Args

	require.Len(t, args.Args, 2)
	assert.Equal(t, "a", args.Args[0].Name)
	assert.Equal(t, "b", args.Args[1].Name)

	require.Len(t, args.Defaults, 1)
	def, ok := args.Defaults[0].(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), def.Value)

	require.NotNil(t, args.VarArg)
	assert.Equal(t, "c", args.VarArg.Name)

	require.Len(t, args.KwOnlyArgs, 2)
	assert.Equal(t, "d", args.KwOnlyArgs[0].Name)
	assert.Equal(t, "e", args.KwOnlyArgs[1].Name)

	require.Len(t, args.KwDefaults, 2)
	assert.Nil(t, args.KwDefaults[0])
	kwDef, ok := args.KwDefaults[1].(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(2), kwDef.Value)

	require.NotNil(t, args.Kwarg)
	assert.Equal(t, "f", args.Kwarg.Name)
}

func TestPositionalOnlyParameters(t *testing.T) {
	module := parseSource(t, "def f(a, b, /, c, *, d): pass\n")
	fd := module.Body[0].(*ast.FunctionDef)
	require.Len(t, fd.Args.PosOnlyArgs, 2)
	require.Len(t, fd.Args.Args, 1)
	assert.Equal(t, "c", fd.Args.Args[0].Name)
	require.Len(t, fd.Args.KwOnlyArgs, 1)
	assert.Equal(t, "d", fd.Args.KwOnlyArgs[0].Name)
	assert.Nil(t, fd.Args.VarArg)
}

func TestComparisonChain(t *testing.T) {
	module := parseSource(t, "a < b < c\n")
	es, ok := module.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	cmp, ok := es.Expression.(*ast.Compare)
	require.True(t, ok)
	assert.Equal(t, []string{"<", "<"}, cmp.Ops)
	require.Len(t, cmp.Comparators, 2)
	left, ok := cmp.Left.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "a", left.Value)
}

func TestNotInAndIsNot(t *testing.T) {
	module := parseSource(t, "a not in b\nc is not d\n")
	first := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Compare)
	assert.Equal(t, []string{"not in"}, first.Ops)
	second := module.Body[1].(*ast.ExpressionStatement).Expression.(*ast.Compare)
	assert.Equal(t, []string{"is not"}, second.Ops)
}

func TestPrecedence(t *testing.T) {
	module := parseSource(t, "a + b * c\n")
	es := module.Body[0].(*ast.ExpressionStatement)
	add, ok := es.Expression.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, "+", add.Operator)
	mul, ok := add.Right.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Operator)
}

func TestPowerRightAssociative(t *testing.T) {
	module := parseSource(t, "a ** b ** c\n")
	es := module.Body[0].(*ast.ExpressionStatement)
	outer := es.Expression.(*ast.InfixExpression)
	assert.Equal(t, "**", outer.Operator)
	_, leftIsName := outer.Left.(*ast.Identifier)
	assert.True(t, leftIsName)
	inner, ok := outer.Right.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, "**", inner.Operator)
}

func TestUnaryPowerAsymmetry(t *testing.T) {
	// -a ** b parses as -(a ** b)
	module := parseSource(t, "-a ** b\n")
	neg := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.PrefixExpression)
	assert.Equal(t, "-", neg.Operator)
	_, ok := neg.Right.(*ast.InfixExpression)
	assert.True(t, ok)

	// 2 ** -3 keeps the unary on the right
	module = parseSource(t, "2 ** -3\n")
	pow := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.InfixExpression)
	_, ok = pow.Right.(*ast.PrefixExpression)
	assert.True(t, ok)
}

func TestAssignChain(t *testing.T) {
	module := parseSource(t, "a = b = 5\n")
	as, ok := module.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, as.Targets, 2)
	value, ok := as.Value.(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(5), value.Value)
}

func TestTupleAssignment(t *testing.T) {
	module := parseSource(t, "x, y = y, x\n")
	as := module.Body[0].(*ast.Assign)
	require.Len(t, as.Targets, 1)
	target, ok := as.Targets[0].(*ast.TupleLiteral)
	require.True(t, ok)
	assert.Len(t, target.Elements, 2)
	value, ok := as.Value.(*ast.TupleLiteral)
	require.True(t, ok)
	assert.Len(t, value.Elements, 2)
}

func TestStarredTarget(t *testing.T) {
	module := parseSource(t, "a, *rest = items\n")
	as := module.Body[0].(*ast.Assign)
	target := as.Targets[0].(*ast.TupleLiteral)
	require.Len(t, target.Elements, 2)
	_, ok := target.Elements[1].(*ast.Starred)
	assert.True(t, ok)
}

func TestAugAssign(t *testing.T) {
	module := parseSource(t, "x //= 2\n")
	aa, ok := module.Body[0].(*ast.AugAssign)
	require.True(t, ok)
	assert.Equal(t, "//", aa.Op)
}

func TestFStringSeeded(t *testing.T) {
	module := parseSource(t, `f"hi {name!r:>{w}}"`+"\n")
	es := module.Body[0].(*ast.ExpressionStatement)
	js, ok := es.Expression.(*ast.JoinedStr)
	require.True(t, ok)
	require.Len(t, js.Parts, 2)

	constant, ok := js.Parts[0].(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "hi ", constant.Value)

	fv, ok := js.Parts[1].(*ast.FormattedValue)
	require.True(t, ok)
	name, ok := fv.Value.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "name", name.Value)
	assert.Equal(t, byte('r'), fv.Conversion)

	require.NotNil(t, fv.FormatSpec)
	require.Len(t, fv.FormatSpec.Parts, 2)
	specText, ok := fv.FormatSpec.Parts[0].(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, ">", specText.Value)
	nested, ok := fv.FormatSpec.Parts[1].(*ast.FormattedValue)
	require.True(t, ok)
	width, ok := nested.Value.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "w", width.Value)
}

func TestImplicitStringConcat(t *testing.T) {
	module := parseSource(t, `x = "a" "b"`+"\n")
	as := module.Body[0].(*ast.Assign)
	sl, ok := as.Value.(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "ab", sl.Value)
}

func TestMatchSeeded(t *testing.T) {
	module := parseSource(t, "match p:\n  case [1, *rest]: pass\n")
	m, ok := module.Body[0].(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 1)
	seq, ok := m.Cases[0].Pattern.(*ast.MatchSequence)
	require.True(t, ok)
	require.Len(t, seq.Patterns, 2)
	val, ok := seq.Patterns[0].(*ast.MatchValue)
	require.True(t, ok)
	num, ok := val.Value.(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), num.Value)
	star, ok := seq.Patterns[1].(*ast.MatchStar)
	require.True(t, ok)
	assert.Equal(t, "rest", star.Name)
}

func TestMatchPatterns(t *testing.T) {
	source := `match command:
    case "quit":
        pass
    case Point(x=0, y=0):
        pass
    case [Point(x=0, y=0)] | Point():
        pass
    case {"key": value, **rest}:
        pass
    case p.ORIGIN:
        pass
    case str() as s if s:
        pass
    case _:
        pass
`
	module := parseSource(t, source)
	m := module.Body[0].(*ast.Match)
	require.Len(t, m.Cases, 7)

	_, ok := m.Cases[0].Pattern.(*ast.MatchValue)
	assert.True(t, ok)

	cls, ok := m.Cases[1].Pattern.(*ast.MatchClass)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, cls.KwdNames)

	or, ok := m.Cases[2].Pattern.(*ast.MatchOr)
	require.True(t, ok)
	assert.Len(t, or.Patterns, 2)

	mapping, ok := m.Cases[3].Pattern.(*ast.MatchMapping)
	require.True(t, ok)
	assert.Equal(t, "rest", mapping.Rest)
	require.Len(t, mapping.Keys, 1)

	value, ok := m.Cases[4].Pattern.(*ast.MatchValue)
	require.True(t, ok)
	_, ok = value.Value.(*ast.Attribute)
	assert.True(t, ok)

	as, ok := m.Cases[5].Pattern.(*ast.MatchAs)
	require.True(t, ok)
	assert.Equal(t, "s", as.Name)
	require.NotNil(t, m.Cases[5].Guard)

	wildcard, ok := m.Cases[6].Pattern.(*ast.MatchAs)
	require.True(t, ok)
	assert.Nil(t, wildcard.Pattern)
	assert.Equal(t, "", wildcard.Name)
}

func TestMatchAsIdentifier(t *testing.T) {
	module := parseSource(t, "match = 5\nmatch(1)\n")
	_, ok := module.Body[0].(*ast.Assign)
	assert.True(t, ok)
	es, ok := module.Body[1].(*ast.ExpressionStatement)
	require.True(t, ok)
	_, ok = es.Expression.(*ast.Call)
	assert.True(t, ok)
}

func TestIfElifElse(t *testing.T) {
	source := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	module := parseSource(t, source)
	stmt := module.Body[0].(*ast.If)
	require.Len(t, stmt.OrElse, 1)
	nested, ok := stmt.OrElse[0].(*ast.If)
	require.True(t, ok)
	assert.Len(t, nested.OrElse, 1)
}

func TestWhileElse(t *testing.T) {
	module := parseSource(t, "while x:\n    pass\nelse:\n    pass\n")
	stmt := module.Body[0].(*ast.While)
	assert.Len(t, stmt.OrElse, 1)
}

func TestForLoop(t *testing.T) {
	module := parseSource(t, "for i, v in enumerate(items):\n    total += v\n")
	stmt := module.Body[0].(*ast.For)
	_, ok := stmt.Target.(*ast.TupleLiteral)
	assert.True(t, ok)
	_, ok = stmt.Iter.(*ast.Call)
	assert.True(t, ok)
}

func TestAsyncConstructs(t *testing.T) {
	source := `async def f():
    async with lock as l:
        pass
    async for x in gen():
        await handle(x)
`
	module := parseSource(t, source)
	fd := module.Body[0].(*ast.FunctionDef)
	assert.True(t, fd.IsAsync)
	with, ok := fd.Body[0].(*ast.With)
	require.True(t, ok)
	assert.True(t, with.IsAsync)
	loop, ok := fd.Body[1].(*ast.For)
	require.True(t, ok)
	assert.True(t, loop.IsAsync)
	es := loop.Body[0].(*ast.ExpressionStatement)
	_, ok = es.Expression.(*ast.Await)
	assert.True(t, ok)
}

func TestTryExceptStar(t *testing.T) {
	source := "try:\n    pass\nexcept* ValueError as e:\n    pass\nfinally:\n    pass\n"
	module := parseSource(t, source)
	stmt := module.Body[0].(*ast.Try)
	assert.True(t, stmt.IsStar)
	require.Len(t, stmt.Handlers, 1)
	assert.Equal(t, "e", stmt.Handlers[0].Name)
	assert.Len(t, stmt.FinalBody, 1)
}

func TestImports(t *testing.T) {
	source := "import os.path as p, sys\nfrom ..pkg import (a as b, c)\nfrom . import mod\n"
	module := parseSource(t, source)

	imp := module.Body[0].(*ast.Import)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "os.path", imp.Names[0].Name)
	assert.Equal(t, "p", imp.Names[0].AsName)

	imf := module.Body[1].(*ast.ImportFrom)
	assert.Equal(t, 2, imf.Level)
	assert.Equal(t, "pkg", imf.Module)
	require.Len(t, imf.Names, 2)
	assert.Equal(t, "b", imf.Names[0].AsName)

	rel := module.Body[2].(*ast.ImportFrom)
	assert.Equal(t, 1, rel.Level)
	assert.Equal(t, "", rel.Module)
}

func TestComprehensions(t *testing.T) {
	source := "m = {k: v for k, v in pairs if k}\ng = (x*x for x in range(10))\ns = {x for x in seen}\n"
	module := parseSource(t, source)

	dc := module.Body[0].(*ast.Assign).Value.(*ast.DictComp)
	require.Len(t, dc.Generators, 1)
	assert.Len(t, dc.Generators[0].Ifs, 1)

	_, ok := module.Body[1].(*ast.Assign).Value.(*ast.GeneratorExp)
	assert.True(t, ok)
	_, ok = module.Body[2].(*ast.Assign).Value.(*ast.SetComp)
	assert.True(t, ok)
}

func TestCallArguments(t *testing.T) {
	module := parseSource(t, "f(a, *b, key=1, **c)\n")
	call := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Call)
	require.Len(t, call.Args, 2)
	_, ok := call.Args[1].(*ast.Starred)
	assert.True(t, ok)
	require.Len(t, call.Keywords, 2)
	assert.Equal(t, "key", call.Keywords[0].Name)
	assert.Equal(t, "", call.Keywords[1].Name)
}

func TestBareGeneratorArgument(t *testing.T) {
	module := parseSource(t, "sum(x for x in y)\n")
	call := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Call)
	require.Len(t, call.Args, 1)
	_, ok := call.Args[0].(*ast.GeneratorExp)
	assert.True(t, ok)
}

func TestDictDisplay(t *testing.T) {
	module := parseSource(t, "d = {1: 'a', **extra}\n")
	dict := module.Body[0].(*ast.Assign).Value.(*ast.DictLiteral)
	require.Len(t, dict.Keys, 2)
	assert.NotNil(t, dict.Keys[0])
	assert.Nil(t, dict.Keys[1])
}

func TestSlices(t *testing.T) {
	module := parseSource(t, "a[:]\na[1:2:3]\na[1:2, ::2]\n")

	s1 := module.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Subscript)
	sl1 := s1.Index.(*ast.Slice)
	assert.Nil(t, sl1.Lower)
	assert.Nil(t, sl1.Upper)
	assert.Nil(t, sl1.Step)

	s2 := module.Body[1].(*ast.ExpressionStatement).Expression.(*ast.Subscript)
	sl2 := s2.Index.(*ast.Slice)
	assert.NotNil(t, sl2.Lower)
	assert.NotNil(t, sl2.Upper)
	assert.NotNil(t, sl2.Step)

	s3 := module.Body[2].(*ast.ExpressionStatement).Expression.(*ast.Subscript)
	tup := s3.Index.(*ast.TupleLiteral)
	assert.Len(t, tup.Elements, 2)
}

func TestWalrus(t *testing.T) {
	module := parseSource(t, "if (n := len(a)) > 10:\n    pass\n")
	stmt := module.Body[0].(*ast.If)
	cmp := stmt.Test.(*ast.Compare)
	_, ok := cmp.Left.(*ast.NamedExpr)
	assert.True(t, ok)
}

func TestTernaryAndLambda(t *testing.T) {
	module := parseSource(t, "x = a if cond else b\nf = lambda a, b=1: a + b\n")
	_, ok := module.Body[0].(*ast.Assign).Value.(*ast.IfExpression)
	assert.True(t, ok)
	lam, ok := module.Body[1].(*ast.Assign).Value.(*ast.Lambda)
	require.True(t, ok)
	assert.Len(t, lam.Args.Args, 2)
	assert.Len(t, lam.Args.Defaults, 1)
}

func TestYieldForms(t *testing.T) {
	source := "def g():\n    yield\n    yield 1, 2\n    x = yield from other()\n"
	module := parseSource(t, source)
	fd := module.Body[0].(*ast.FunctionDef)
	y0 := fd.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Yield)
	assert.Nil(t, y0.Value)
	y1 := fd.Body[1].(*ast.ExpressionStatement).Expression.(*ast.Yield)
	_, ok := y1.Value.(*ast.TupleLiteral)
	assert.True(t, ok)
	_, ok = fd.Body[2].(*ast.Assign).Value.(*ast.YieldFrom)
	assert.True(t, ok)
}

func TestTypeStatement(t *testing.T) {
	module := parseSource(t, "type Vector = list[float]\ntype Pair[T] = tuple[T, T]\n")
	ta := module.Body[0].(*ast.TypeAlias)
	name := ta.Name.(*ast.Identifier)
	assert.Equal(t, "Vector", name.Value)
	ta2 := module.Body[1].(*ast.TypeAlias)
	require.Len(t, ta2.TypeParams, 1)
}

func TestTypeParams(t *testing.T) {
	module := parseSource(t, "def first[T, *Ts, **P](x: T) -> T: return x\n")
	fd := module.Body[0].(*ast.FunctionDef)
	require.Len(t, fd.TypeParams, 3)
	_, ok := fd.TypeParams[0].(*ast.TypeVar)
	assert.True(t, ok)
	_, ok = fd.TypeParams[1].(*ast.TypeVarTuple)
	assert.True(t, ok)
	_, ok = fd.TypeParams[2].(*ast.ParamSpec)
	assert.True(t, ok)
}

func TestDecorators(t *testing.T) {
	source := "@decorator\n@mod.wrap(arg)\ndef f(): pass\n"
	module := parseSource(t, source)
	fd := module.Body[0].(*ast.FunctionDef)
	require.Len(t, fd.Decorators, 2)
	_, ok := fd.Decorators[1].(*ast.Call)
	assert.True(t, ok)
}

func TestClassDef(t *testing.T) {
	module := parseSource(t, "class A(Base, metaclass=Meta):\n    x: int = 0\n")
	cd := module.Body[0].(*ast.ClassDef)
	require.Len(t, cd.Bases, 1)
	require.Len(t, cd.Keywords, 1)
	assert.Equal(t, "metaclass", cd.Keywords[0].Name)
}

func TestSemicolons(t *testing.T) {
	module := parseSource(t, "a = 1; b = 2; c = 3\n")
	assert.Len(t, module.Body, 3)
}

func TestGlobalAndDelete(t *testing.T) {
	source := "def f():\n    global a, b\n    nonlocal_check = 1\n    del a, b\n"
	module := parseSource(t, source)
	fd := module.Body[0].(*ast.FunctionDef)
	g := fd.Body[0].(*ast.Global)
	assert.Equal(t, []string{"a", "b"}, g.Names)
	d := fd.Body[2].(*ast.Delete)
	assert.Len(t, d.Targets, 2)
}

func TestParseExpressionSource(t *testing.T) {
	tokens, lexErr := lexer.Tokenize([]byte("a + b\n"))
	require.Nil(t, lexErr)
	p := New(tokens)
	expr := p.ParseExpressionSource()
	require.Empty(t, p.Errors())
	_, ok := expr.(*ast.InfixExpression)
	assert.True(t, ok)
}

func TestErrorAssignToLiteral(t *testing.T) {
	err := parseError(t, "3 = x\n")
	assert.Equal(t, diagnostics.ErrP005, err.Code)
}

func TestErrorDuplicateKeyword(t *testing.T) {
	err := parseError(t, "f(a=1, a=2)\n")
	assert.Equal(t, diagnostics.ErrP005, err.Code)
}

func TestErrorPositionalAfterKeyword(t *testing.T) {
	err := parseError(t, "f(a=1, 2)\n")
	assert.Equal(t, diagnostics.ErrP005, err.Code)
}

func TestErrorInParameterList(t *testing.T) {
	err := parseError(t, "def f(:\n    pass\n")
	assert.Equal(t, diagnostics.PhaseParser, err.Phase)
}

func TestErrorUnexpectedToken(t *testing.T) {
	err := parseError(t, "x = )\n")
	assert.Equal(t, diagnostics.ErrP004, err.Code)
}

func TestErrorBareTryWithoutHandlers(t *testing.T) {
	err := parseError(t, "try:\n    pass\n")
	assert.Equal(t, diagnostics.ErrP005, err.Code)
}

func TestErrorNonDefaultAfterDefault(t *testing.T) {
	err := parseError(t, "def f(a=1, b): pass\n")
	assert.Equal(t, diagnostics.ErrP005, err.Code)
}

func TestFirstErrorAborts(t *testing.T) {
	tokens, lexErr := lexer.Tokenize([]byte("x = )\ny = (\n"))
	require.Nil(t, lexErr)
	p := New(tokens)
	module := p.ParseModule()
	assert.Nil(t, module)
	assert.Len(t, p.Errors(), 1)
}
