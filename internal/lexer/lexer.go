package lexer

import (
	"strings"

	"github.com/xirelogy/go-exprvm/internal/token"
)

// Lexer converts source text into a stream of tokens.
type Lexer struct {
	input        string
	pos          int  // current position in bytes
	readPos      int  // next read position
	ch           byte // current char
	line         int
	column       int
	parenDepth   int
	bracketDepth int
	lastToken    token.Type
	pending      []token.Token
}

var _ token.Stream = (*Lexer)(nil)

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:     input,
		line:      1,
		column:    0,
		lastToken: token.Newline, // treat start as newline boundary
	}
	l.readChar()
	return l
}

// UnreadToken pushes tok back; pushed tokens are returned last-in first-out.
func (l *Lexer) UnreadToken(tok token.Token) {
	l.pending = append(l.pending, tok)
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	if n := len(l.pending); n > 0 {
		tok := l.pending[n-1]
		l.pending = l.pending[:n-1]
		return tok
	}
	for {
		l.skipWhitespace()

		if l.ch == '\n' {
			if tok, ok := l.consumeNewline(); ok {
				return tok
			}
			continue
		}

		if l.ch == 0 {
			return l.makeToken(token.EOF, "")
		}

		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.skipLineComment()
				continue
			}
			if l.peekChar() == '*' {
				l.skipBlockComment()
				continue
			}
		}

		switch l.ch {
		case '=':
			if l.peekChar() == '=' {
				return l.twoCharToken(token.Equal)
			}
			return l.oneCharToken(token.Illegal)
		case '+':
			return l.oneCharToken(token.Plus)
		case '-':
			return l.oneCharToken(token.Minus)
		case '*':
			return l.oneCharToken(token.Star)
		case '/':
			return l.oneCharToken(token.Slash)
		case '%':
			return l.oneCharToken(token.Percent)
		case '!':
			if l.peekChar() == '=' {
				return l.twoCharToken(token.NotEqual)
			}
			return l.oneCharToken(token.Bang)
		case '<':
			if l.peekChar() == '=' {
				return l.twoCharToken(token.LessEqual)
			}
			return l.oneCharToken(token.Less)
		case '>':
			if l.peekChar() == '=' {
				return l.twoCharToken(token.GreaterEqual)
			}
			return l.oneCharToken(token.Greater)
		case '&':
			if l.peekChar() == '&' {
				return l.twoCharToken(token.AndAnd)
			}
			return l.oneCharToken(token.Illegal)
		case '|':
			if l.peekChar() == '|' {
				return l.twoCharToken(token.OrOr)
			}
			return l.oneCharToken(token.Illegal)
		case ',':
			return l.oneCharToken(token.Comma)
		case ';':
			return l.oneCharToken(token.Semicolon)
		case '(':
			l.parenDepth++
			return l.oneCharToken(token.LParen)
		case ')':
			if l.parenDepth > 0 {
				l.parenDepth--
			}
			return l.oneCharToken(token.RParen)
		case '[':
			l.bracketDepth++
			return l.oneCharToken(token.LBracket)
		case ']':
			if l.bracketDepth > 0 {
				l.bracketDepth--
			}
			return l.oneCharToken(token.RBracket)
		case '{':
			return l.oneCharToken(token.LBrace)
		case '}':
			return l.oneCharToken(token.RBrace)
		case '"':
			return l.readString()
		case '.':
			if isDigit(l.peekChar()) {
				return l.readNumber()
			}
			return l.oneCharToken(token.Illegal)
		default:
			if isLetter(l.ch) {
				return l.readIdentifier()
			}
			if isDigit(l.ch) {
				return l.readNumber()
			}
			return l.oneCharToken(token.Illegal)
		}
	}
}

func (l *Lexer) oneCharToken(t token.Type) token.Token {
	tok := l.makeToken(t, string(l.ch))
	l.readChar()
	return l.finishToken(tok)
}

func (l *Lexer) twoCharToken(t token.Type) token.Token {
	tok := l.makeToken(t, "")
	ch := l.ch
	l.readChar()
	tok.Literal = string(ch) + string(l.ch)
	l.readChar()
	return l.finishToken(tok)
}

func (l *Lexer) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos: token.Position{
			Offset: l.pos,
			Line:   l.line,
			Column: l.column,
		},
	}
}

func (l *Lexer) finishToken(tok token.Token) token.Token {
	l.lastToken = tok.Type
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) consumeNewline() (token.Token, bool) {
	pos := l.makeToken(token.Newline, "")
	l.readChar()

	if l.parenDepth == 0 && l.bracketDepth == 0 && newlineEligible(l.lastToken) {
		l.lastToken = token.Newline
		return pos, true
	}
	return token.Token{}, false
}

func (l *Lexer) skipLineComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // '*'
			l.readChar() // '/'
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.makeToken(token.Ident, "")
	var sb strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	start.Literal = sb.String()
	return l.finishToken(start)
}

// readNumber scans digits, an optional fraction and exponent, then swallows any
// trailing identifier characters so that suffixes such as "0.5f" (and garbage
// such as "12ab") stay in one literal for the compiler to validate.
func (l *Lexer) readNumber() token.Token {
	start := l.makeToken(token.Number, "")
	var sb strings.Builder
	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		sb.WriteByte(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (l.peekChar() == '+' || l.peekChar() == '-') {
		sb.WriteByte(l.ch)
		l.readChar()
		sb.WriteByte(l.ch)
		l.readChar()
	}
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	start.Literal = sb.String()
	return l.finishToken(start)
}

// readString scans a double-quoted string. Strings are never operands, so
// the contents are kept verbatim for error messages.
func (l *Lexer) readString() token.Token {
	start := l.makeToken(token.String, "")
	l.readChar()
	begin := l.pos
	for l.ch != '"' {
		if l.ch == 0 {
			l.lastToken = token.Illegal
			return l.makeToken(token.Illegal, "unterminated string")
		}
		l.readChar()
	}
	start.Literal = l.input[begin:l.pos]
	l.readChar()
	return l.finishToken(start)
}

func newlineEligible(t token.Type) bool {
	switch t {
	case token.Ident, token.Number, token.String,
		token.RParen, token.RBracket, token.RBrace:
		return true
	default:
		return false
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.pos = l.readPos
		l.ch = 0
		return
	}

	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}
