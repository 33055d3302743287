package lexer

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

// scanString scans a string, bytes, or f-string literal. pfx holds the
// already-consumed prefix letters ("", "r", "b", "rb", "f", "rf", ...);
// the cursor sits on the opening quote.
func (l *Lexer) scanString(pfx string) token.Token {
	startPos := l.position - len(pfx)

	raw, isBytes, isF := false, false, false
	for i := 0; i < len(pfx); i++ {
		switch lower(pfx[i]) {
		case 'r':
			raw = true
		case 'b':
			isBytes = true
		case 'f':
			isF = true
		}
	}

	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharAt(2) == quote
	l.readChar()
	if triple {
		l.readChar()
		l.readChar()
	}

	if isF {
		l.fstrings = append(l.fstrings, fstringFrame{
			quote:  quote,
			triple: triple,
			raw:    raw,
		})
		return l.makeToken(token.FSTRING_START, l.input[startPos:l.position], nil)
	}

	var buf []byte
	for {
		if l.ch == 0 {
			l.setError(diagnostics.ErrL002, literalName(isBytes))
			return l.makeToken(token.ILLEGAL, l.input[startPos:l.position], nil)
		}
		if l.ch == '\n' && !triple {
			l.setError(diagnostics.ErrL002, literalName(isBytes))
			return l.makeToken(token.ILLEGAL, l.input[startPos:l.position], nil)
		}
		if l.ch == quote {
			if !triple {
				l.readChar()
				break
			}
			if l.peekChar() == quote && l.peekCharAt(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
			buf = append(buf, l.ch)
			l.readChar()
			continue
		}
		if l.ch == '\\' {
			if raw {
				buf = append(buf, l.ch)
				l.readChar()
				if l.ch == 0 {
					continue
				}
				buf = append(buf, l.ch)
				l.readChar()
				continue
			}
			var ok bool
			buf, ok = l.decodeEscape(buf, isBytes)
			if !ok {
				return l.makeToken(token.ILLEGAL, l.input[startPos:l.position], nil)
			}
			continue
		}
		buf = append(buf, l.ch)
		l.readChar()
	}

	lexeme := l.input[startPos:l.position]
	if isBytes {
		return l.makeToken(token.BYTES, lexeme, buf)
	}
	return l.makeToken(token.STRING, lexeme, string(buf))
}

func literalName(isBytes bool) string {
	if isBytes {
		return "bytes"
	}
	return "string"
}

// decodeEscape processes one backslash escape starting at the cursor's
// '\\'. Unknown single-character escapes keep both characters, matching
// the literal value; malformed \x, \u, \U escapes are errors.
func (l *Lexer) decodeEscape(buf []byte, isBytes bool) ([]byte, bool) {
	l.readChar() // consume backslash
	switch l.ch {
	case 'n':
		buf = append(buf, '\n')
	case 't':
		buf = append(buf, '\t')
	case 'r':
		buf = append(buf, '\r')
	case 'a':
		buf = append(buf, 7)
	case 'b':
		buf = append(buf, 8)
	case 'f':
		buf = append(buf, 12)
	case 'v':
		buf = append(buf, 11)
	case '\\':
		buf = append(buf, '\\')
	case '\'':
		buf = append(buf, '\'')
	case '"':
		buf = append(buf, '"')
	case '\n':
		// line continuation inside the literal
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(l.ch - '0')
		for n := 1; n < 3 && l.peekChar() >= '0' && l.peekChar() <= '7'; n++ {
			l.readChar()
			val = val*8 + int(l.ch-'0')
		}
		buf = append(buf, byte(val))
	case 'x':
		hi, okHi := hexVal(l.peekChar())
		lo, okLo := hexVal(l.peekCharAt(2))
		if !okHi || !okLo {
			l.setError(diagnostics.ErrL006, "x")
			return buf, false
		}
		l.readChar()
		l.readChar()
		buf = append(buf, byte(hi<<4|lo))
	case 'u', 'U':
		if isBytes {
			buf = append(buf, '\\', l.ch)
			break
		}
		digits := 4
		if l.ch == 'U' {
			digits = 8
		}
		esc := l.ch
		val := 0
		for i := 1; i <= digits; i++ {
			v, ok := hexVal(l.peekCharAt(i))
			if !ok {
				l.setError(diagnostics.ErrL006, string(esc))
				return buf, false
			}
			val = val<<4 | v
		}
		for i := 0; i < digits; i++ {
			l.readChar()
		}
		buf = utf8.AppendRune(buf, rune(val))
	case 0:
		l.setError(diagnostics.ErrL002, literalName(isBytes))
		return buf, false
	default:
		// Unknown escape: keep backslash and character.
		buf = append(buf, '\\', l.ch)
	}
	l.readChar()
	return buf, true
}

func hexVal(ch byte) (int, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0'), true
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10, true
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 10, true
	}
	return 0, false
}

// --- f-string scanning ---

// lexFStringText scans the literal-text portion of an f-string, pushing
// FSTRING_MIDDLE / LBRACE / FSTRING_END tokens onto the pending queue
// and switching the frame into expression mode at a replacement field.
func (l *Lexer) lexFStringText(fr *fstringFrame) {
	l.markStart()
	startPos := l.position
	var buf []byte

	flushMiddle := func() {
		if l.position > startPos {
			l.push(l.makeToken(token.FSTRING_MIDDLE, l.input[startPos:l.position], string(buf)))
		}
	}

	for {
		if l.ch == 0 {
			l.setError(diagnostics.ErrL002, "f-string")
			return
		}
		if l.ch == '\n' && !fr.triple {
			l.setError(diagnostics.ErrL002, "f-string")
			return
		}
		if l.ch == fr.quote && !fr.inSpec {
			if !fr.triple {
				flushMiddle()
				l.markStart()
				l.readChar()
				l.push(l.makeToken(token.FSTRING_END, string(fr.quote), nil))
				l.fstrings = l.fstrings[:len(l.fstrings)-1]
				return
			}
			if l.peekChar() == fr.quote && l.peekCharAt(2) == fr.quote {
				flushMiddle()
				l.markStart()
				l.readChar()
				l.readChar()
				l.readChar()
				l.push(l.makeToken(token.FSTRING_END, strings.Repeat(string(fr.quote), 3), nil))
				l.fstrings = l.fstrings[:len(l.fstrings)-1]
				return
			}
			buf = append(buf, l.ch)
			l.readChar()
			continue
		}
		if l.ch == fr.quote && fr.inSpec {
			// The closing quote ends the whole f-string even from
			// inside a format spec; the parser reports the missing '}'.
			flushMiddle()
			l.markStart()
			l.readChar()
			l.push(l.makeToken(token.FSTRING_END, string(fr.quote), nil))
			l.fstrings = l.fstrings[:len(l.fstrings)-1]
			return
		}
		if l.ch == '{' {
			if l.peekChar() == '{' && !fr.inSpec {
				buf = append(buf, '{')
				l.readChar()
				l.readChar()
				continue
			}
			flushMiddle()
			l.markStart()
			l.readChar()
			l.push(l.makeToken(token.LBRACE, "{", nil))
			fr.inExpr = true
			fr.braceDepth++
			fr.nest = 0
			return
		}
		if l.ch == '}' {
			if fr.inSpec {
				flushMiddle()
				fr.inExpr = true
				return
			}
			if l.peekChar() == '}' {
				buf = append(buf, '}')
				l.readChar()
				l.readChar()
				continue
			}
			l.setError(diagnostics.ErrL007, "single '}' is not allowed")
			return
		}
		if l.ch == '\\' && !fr.raw {
			var ok bool
			buf, ok = l.decodeEscape(buf, false)
			if !ok {
				return
			}
			continue
		}
		buf = append(buf, l.ch)
		l.readChar()
	}
}

// lexFStringExprSpecial handles the tokens that terminate or structure
// a replacement field: the closing '}', the format-spec ':', and the
// '!' conversion marker. Everything else flows through the normal
// scanner.
func (l *Lexer) lexFStringExprSpecial(fr *fstringFrame) (token.Token, bool) {
	switch l.ch {
	case '}':
		if fr.nest > 0 {
			return token.Token{}, false
		}
		l.readChar()
		fr.braceDepth--
		if fr.braceDepth == 0 {
			fr.inExpr = false
			fr.inSpec = false
		} else if fr.inSpec {
			fr.inExpr = false
		}
		return l.makeToken(token.RBRACE, "}", nil), true
	case ':':
		if fr.nest > 0 || fr.braceDepth != 1 || fr.inSpec || l.peekChar() == '=' {
			return token.Token{}, false
		}
		l.readChar()
		fr.inSpec = true
		fr.inExpr = false
		return l.makeToken(token.COLON, ":", nil), true
	case '!':
		if l.peekChar() == '=' || fr.nest > 0 || fr.braceDepth != 1 || fr.inSpec {
			return token.Token{}, false
		}
		conv := l.peekChar()
		after := l.peekCharAt(2)
		if (conv == 's' || conv == 'r' || conv == 'a') && (after == '}' || after == ':') {
			l.readChar()
			return l.makeToken(token.BANG, "!", nil), true
		}
		return token.Token{}, false
	case '{':
		// Dict or set display inside the expression.
		fr.nest++
		return token.Token{}, false
	case '(', '[':
		fr.nest++
		return token.Token{}, false
	}
	return token.Token{}, false
}

// --- numeric literals ---

// scanNumber reads an integer, float, or imaginary literal, validating
// underscore placement (never leading, trailing, or doubled).
func (l *Lexer) scanNumber() token.Token {
	startPos := l.position
	kind := token.NumberInt
	base := 10

	if l.ch == '0' {
		switch lower(l.peekChar()) {
		case 'x':
			base = 16
			l.readChar()
			l.readChar()
			if !l.readDigits(isHexDigit, true) {
				return l.numberError(startPos)
			}
		case 'o':
			base = 8
			l.readChar()
			l.readChar()
			if !l.readDigits(isOctDigit, true) {
				return l.numberError(startPos)
			}
		case 'b':
			base = 2
			l.readChar()
			l.readChar()
			if !l.readDigits(isBinDigit, true) {
				return l.numberError(startPos)
			}
		}
	}

	if base == 10 {
		if !l.readDigits(isDigit, false) {
			return l.numberError(startPos)
		}
		if l.ch == '.' {
			kind = token.NumberFloat
			l.readChar()
			if isDigit(l.ch) {
				if !l.readDigits(isDigit, false) {
					return l.numberError(startPos)
				}
			}
		}
		if lower(l.ch) == 'e' && (isDigit(l.peekChar()) ||
			((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharAt(2)))) {
			kind = token.NumberFloat
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !l.readDigits(isDigit, false) {
				return l.numberError(startPos)
			}
		}
		if lower(l.ch) == 'j' {
			kind = token.NumberComplex
			l.readChar()
		}
	} else if lower(l.ch) == 'j' {
		// 0x1j is invalid: imaginary literals are decimal only.
		return l.numberError(startPos)
	}

	// A trailing identifier character means a malformed literal (1x, 1e).
	if isIdentByte(l.ch) || l.ch >= utf8.RuneSelf {
		l.readChar()
		return l.numberError(startPos)
	}

	lexeme := l.input[startPos:l.position]
	digits := strings.ReplaceAll(lexeme, "_", "")

	switch kind {
	case token.NumberComplex:
		v, err := strconv.ParseFloat(digits[:len(digits)-1], 64)
		if err != nil {
			return l.numberError(startPos)
		}
		return l.makeToken(token.NUMBER, lexeme, complex(0, v))
	case token.NumberFloat:
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return l.numberError(startPos)
		}
		return l.makeToken(token.NUMBER, lexeme, v)
	default:
		if base == 10 && len(digits) > 1 && digits[0] == '0' && strings.TrimLeft(digits, "0") != "" {
			return l.numberError(startPos)
		}
		if v, err := strconv.ParseInt(digits, 0, 64); err == nil {
			return l.makeToken(token.NUMBER, lexeme, v)
		}
		bi := new(big.Int)
		if _, ok := bi.SetString(digits, 0); !ok {
			return l.numberError(startPos)
		}
		return l.makeToken(token.NUMBER, lexeme, bi)
	}
}

// readDigits consumes a run of digits in the given alphabet with
// underscore separators. Reports false when an underscore is misplaced
// or the run is empty, except that an empty decimal run directly before
// '.' (as in .5) is accepted.
func (l *Lexer) readDigits(valid func(byte) bool, allowLeadingUnderscore bool) bool {
	count := 0
	prevDigit := allowLeadingUnderscore
	for {
		if valid(l.ch) {
			count++
			prevDigit = true
			l.readChar()
			continue
		}
		if l.ch == '_' {
			if !prevDigit || !valid(l.peekChar()) {
				return false
			}
			prevDigit = false
			l.readChar()
			continue
		}
		break
	}
	return count > 0 || (count == 0 && !allowLeadingUnderscore && l.ch == '.')
}

func (l *Lexer) numberError(startPos int) token.Token {
	lexeme := l.input[startPos:l.position]
	l.setError(diagnostics.ErrL003, lexeme)
	return l.makeToken(token.ILLEGAL, lexeme, nil)
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isOctDigit(ch byte) bool { return '0' <= ch && ch <= '7' }

func isBinDigit(ch byte) bool { return ch == '0' || ch == '1' }
