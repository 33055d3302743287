package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

func kinds(tokens []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	tokens, err := Tokenize([]byte("pass\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{token.PASS, token.NEWLINE, token.ENDMARKER}, kinds(tokens))
}

func TestMissingFinalNewline(t *testing.T) {
	tokens, err := Tokenize([]byte("x = 1"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.NAME, token.ASSIGN, token.NUMBER, token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
}

func TestOperators(t *testing.T) {
	tokens, err := Tokenize([]byte("a **= b // c << d != e := f\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.NAME, token.POWER_ASSIGN, token.NAME, token.DOUBLESLASH, token.NAME,
		token.LSHIFT, token.NAME, token.NOT_EQ, token.NAME, token.WALRUS,
		token.NAME, token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
}

func TestIndentDedentBalance(t *testing.T) {
	source := "def f():\n    if x:\n        y = 1\n    return y\n\nclass A:\n    pass\n"
	tokens, err := Tokenize([]byte(source))
	require.Nil(t, err)
	indents, dedents := 0, 0
	for _, tok := range tokens {
		switch tok.Type {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
	assert.Equal(t, 3, indents)
}

func TestBlankAndCommentLines(t *testing.T) {
	source := "x = 1\n\n# a comment\n   \ny = 2\n"
	tokens, err := Tokenize([]byte(source))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.NAME, token.ASSIGN, token.NUMBER, token.NEWLINE,
		token.NAME, token.ASSIGN, token.NUMBER, token.NEWLINE,
		token.ENDMARKER,
	}, kinds(tokens))
}

func TestBracketSuppression(t *testing.T) {
	source := "x = (1,\n     2,\n     3)\n"
	tokens, err := Tokenize([]byte(source))
	require.Nil(t, err)
	newlines := 0
	for _, tok := range tokens {
		switch tok.Type {
		case token.INDENT, token.DEDENT:
			t.Fatalf("unexpected %s inside brackets", tok.Type)
		case token.NEWLINE:
			newlines++
		}
	}
	assert.Equal(t, 1, newlines)
}

func TestBackslashContinuation(t *testing.T) {
	tokens, err := Tokenize([]byte("x = 1 + \\\n    2\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.NAME, token.ASSIGN, token.NUMBER, token.PLUS, token.NUMBER,
		token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
}

func TestNumbers(t *testing.T) {
	testCases := []struct {
		input   string
		literal interface{}
	}{
		{"42", int64(42)},
		{"1_000_000", int64(1000000)},
		{"0x_ff", int64(255)},
		{"0o755", int64(493)},
		{"0b1010", int64(10)},
		{"3.14", 3.14},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"2.5e-1", 0.25},
		{"2j", complex(0, 2)},
		{"3.5J", complex(0, 3.5)},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize([]byte(tc.input + "\n"))
			require.Nil(t, err)
			require.Equal(t, token.NUMBER, tokens[0].Type)
			assert.Equal(t, tc.input, tokens[0].Lexeme)
			assert.Equal(t, tc.literal, tokens[0].Literal)
		})
	}
}

func TestNumberErrors(t *testing.T) {
	for _, input := range []string{"1_", "1__2", "0x", "012", "1x", "0b102"} {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize([]byte(input + "\n"))
			require.NotNil(t, err)
			assert.Equal(t, diagnostics.ErrL003, err.Code)
		})
	}
}

func TestStrings(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		value string
	}{
		{"double", `"hi"`, "hi"},
		{"single", `'hi'`, "hi"},
		{"escapes", `"a\nb\tc"`, "a\nb\tc"},
		{"hex_escape", `"\x41"`, "A"},
		{"unicode_escape", `"\u00e9"`, "\u00e9"},
		{"raw", `r"a\nb"`, `a\nb`},
		{"triple", "\"\"\"a\nb\"\"\"", "a\nb"},
		{"quote_inside", `"it's"`, "it's"},
		{"unknown_escape", `"\q"`, `\q`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize([]byte(tc.input + "\n"))
			require.Nil(t, err)
			require.Equal(t, token.STRING, tokens[0].Type)
			assert.Equal(t, tc.value, tokens[0].Literal)
			assert.Equal(t, tc.input, tokens[0].Lexeme)
		})
	}
}

func TestBytes(t *testing.T) {
	tokens, err := Tokenize([]byte(`b"ab\x00"` + "\n"))
	require.Nil(t, err)
	require.Equal(t, token.BYTES, tokens[0].Type)
	assert.Equal(t, []byte{'a', 'b', 0}, tokens[0].Literal)
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize([]byte(`x = "abc`))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrL002, err.Code)
}

func TestInvalidEscape(t *testing.T) {
	_, err := Tokenize([]byte(`"\xZZ"` + "\n"))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrL006, err.Code)
}

func TestInconsistentDedent(t *testing.T) {
	_, err := Tokenize([]byte("if x:\n    pass\n  bad\n"))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrL004, err.Code)
}

func TestTabAfterSpaceIndent(t *testing.T) {
	_, err := Tokenize([]byte("if x:\n \tpass\n"))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrL005, err.Code)
}

func TestStrayCharacter(t *testing.T) {
	_, err := Tokenize([]byte("x = 1 $ 2\n"))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrL001, err.Code)
}

func TestFStringTokens(t *testing.T) {
	tokens, err := Tokenize([]byte(`f"hi {name}"` + "\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.FSTRING_START, token.FSTRING_MIDDLE, token.LBRACE, token.NAME,
		token.RBRACE, token.FSTRING_END, token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
	assert.Equal(t, "hi ", tokens[1].Literal)
	assert.Equal(t, "name", tokens[3].Lexeme)
}

func TestFStringEscapedBraces(t *testing.T) {
	tokens, err := Tokenize([]byte(`f"a{{b}}c"` + "\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.FSTRING_START, token.FSTRING_MIDDLE, token.FSTRING_END,
		token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
	assert.Equal(t, "a{b}c", tokens[1].Literal)
}

func TestFStringFormatSpec(t *testing.T) {
	tokens, err := Tokenize([]byte(`f"{x:>10}"` + "\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.FSTRING_START, token.LBRACE, token.NAME, token.COLON,
		token.FSTRING_MIDDLE, token.RBRACE, token.FSTRING_END,
		token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
	assert.Equal(t, ">10", tokens[4].Literal)
}

func TestFStringNestedSpec(t *testing.T) {
	tokens, err := Tokenize([]byte(`f"{x:>{w}}"` + "\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.FSTRING_START, token.LBRACE, token.NAME, token.COLON,
		token.FSTRING_MIDDLE, token.LBRACE, token.NAME, token.RBRACE,
		token.RBRACE, token.FSTRING_END, token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
}

func TestFStringNestedBracesInExpression(t *testing.T) {
	tokens, err := Tokenize([]byte(`f"{d['k']}"` + "\n"))
	require.Nil(t, err)
	assert.Equal(t, []token.TokenType{
		token.FSTRING_START, token.LBRACE, token.NAME, token.LBRACKET,
		token.STRING, token.RBRACKET, token.RBRACE, token.FSTRING_END,
		token.NEWLINE, token.ENDMARKER,
	}, kinds(tokens))
}

func TestUnicodeIdentifier(t *testing.T) {
	tokens, err := Tokenize([]byte("π = 3.14\n"))
	require.Nil(t, err)
	require.Equal(t, token.NAME, tokens[0].Type)
	assert.Equal(t, "π", tokens[0].Lexeme)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, token.ASSIGN, tokens[1].Type)
	assert.Equal(t, 3, tokens[1].Column)
}

func TestSoftKeywordsLexAsNames(t *testing.T) {
	tokens, err := Tokenize([]byte("match = 1\ntype = 2\n"))
	require.Nil(t, err)
	assert.Equal(t, token.NAME, tokens[0].Type)
	assert.Equal(t, token.NAME, tokens[4].Type)
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize([]byte("x = 10\n"))
	require.Nil(t, err)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 3, tokens[1].Column)
	assert.Equal(t, 5, tokens[2].Column)
	assert.Equal(t, 7, tokens[2].EndColumn)
}

func TestDeterminism(t *testing.T) {
	source := []byte("def f(a, b=1):\n    return a + b\n")
	first, err := Tokenize(source)
	require.Nil(t, err)
	second, err := Tokenize(source)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}
