package prettyprinter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unparse(t *testing.T, source string) string {
	t.Helper()
	return NewCodePrinter().PrintNode(mustParse(t, source))
}

func TestPrecedencePreservation(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"a + b * c\n", "a + b * c\n"},
		{"(a + b) * c\n", "(a + b) * c\n"},
		{"a < b < c\n", "a < b < c\n"},
		{"a ** b ** c\n", "a ** b ** c\n"},
		{"(a ** b) ** c\n", "(a ** b) ** c\n"},
		{"-a ** b\n", "-a ** b\n"},
		{"2 ** -3\n", "2 ** -3\n"},
		{"not a or b\n", "not a or b\n"},
		{"not (a or b)\n", "not (a or b)\n"},
		{"a - (b - c)\n", "a - (b - c)\n"},
		{"a - b - c\n", "a - b - c\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, unparse(t, tc.input))
		})
	}
}

func TestEdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty_tuple", "x = ()\n", "x = ()\n"},
		{"one_tuple", "x = (1,)\n", "x = 1,\n"},
		{"empty_dict", "x = {}\n", "x = {}\n"},
		{"dict_unpack", "x = {**a}\n", "x = {**a}\n"},
		{"bare_generator", "sum(x for x in y)\n", "sum(x for x in y)\n"},
		{"slice_all_absent", "a[:]\n", "a[:]\n"},
		{"subscript_tuple", "a[1, 2]\n", "a[1, 2]\n"},
		{"starred_call", "f(*args, **kwargs)\n", "f(*args, **kwargs)\n"},
		{"int_attr", "(1).bit_length()\n", "(1).bit_length()\n"},
		{"chained_assign", "a = b = 5\n", "a = b = 5\n"},
		{"return_tuple", "def f():\n    return 1, 2\n", "def f():\n    return 1, 2\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, unparse(t, tc.input))
		})
	}
}

func TestSuiteIndentation(t *testing.T) {
	got := unparse(t, "if x:\n    if y:\n        pass\n")
	assert.Equal(t, "if x:\n    if y:\n        pass\n", got)
}

func TestElifChain(t *testing.T) {
	source := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	assert.Equal(t, source, unparse(t, source))
}

func TestQuotePreference(t *testing.T) {
	module := mustParse(t, "x = \"hi\"\n")
	single := NewCodePrinterWithConfig(Config{Quote: '\''}).PrintNode(module)
	assert.Equal(t, "x = 'hi'\n", single)
	double := NewCodePrinter().PrintNode(module)
	assert.Equal(t, "x = \"hi\"\n", double)
}

func TestIndentWidthConfig(t *testing.T) {
	module := mustParse(t, "if x:\n    pass\n")
	got := NewCodePrinterWithConfig(Config{IndentWidth: 2, Quote: '"'}).PrintNode(module)
	assert.Equal(t, "if x:\n  pass\n", got)
}

func TestNumberRepresentationRoundTrip(t *testing.T) {
	source := "x = 0xFF\ny = 1_000\nz = 1e10\n"
	assert.Equal(t, source, unparse(t, source))
}

func TestDecoratorOutput(t *testing.T) {
	source := "@wrap(arg)\ndef f():\n    pass\n"
	assert.Equal(t, source, unparse(t, source))
}

func TestFStringOutput(t *testing.T) {
	assert.Equal(t, "x = f\"hi {name!r:>{w}}\"\n", unparse(t, "x = f'hi {name!r:>{w}}'\n"))
}

func TestTreePrinterSmoke(t *testing.T) {
	module := mustParse(t, "def f(a):\n    return a + 1\n")
	out := NewTreePrinter().PrintNode(module)
	assert.Contains(t, out, "Module")
	assert.Contains(t, out, "FunctionDef: f")
	assert.Contains(t, out, "BinOp: +")
}
