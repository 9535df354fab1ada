package token

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Position describes a byte offset and 1-based line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

const (
	Illegal Type = "ILLEGAL"
	EOF     Type = "EOF"
	Newline Type = "NEWLINE"

	// identifiers and literals
	Ident  Type = "IDENT"
	Number Type = "NUMBER"
	String Type = "STRING"

	// operators
	Plus         Type = "PLUS"         // +
	Minus        Type = "MINUS"        // -
	Star         Type = "STAR"         // *
	Slash        Type = "SLASH"        // /
	Percent      Type = "PERCENT"      // %
	Bang         Type = "BANG"         // !
	Equal        Type = "EQUAL"        // ==
	NotEqual     Type = "NOTEQUAL"     // !=
	Less         Type = "LESS"         // <
	LessEqual    Type = "LESSEQUAL"    // <=
	Greater      Type = "GREATER"      // >
	GreaterEqual Type = "GREATEREQUAL" // >=
	AndAnd       Type = "ANDAND"       // &&
	OrOr         Type = "OROR"         // ||

	// delimiters
	Comma     Type = "COMMA"
	Semicolon Type = "SEMICOLON"
	LParen    Type = "LPAREN"
	RParen    Type = "RPAREN"
	LBracket  Type = "LBRACKET"
	RBracket  Type = "RBRACKET"
	LBrace    Type = "LBRACE"
	RBrace    Type = "RBRACE"
)

// Stream is the token source consumed by the expression compiler.
// UnreadToken pushes a token back so the next NextToken returns it again.
type Stream interface {
	NextToken() Token
	UnreadToken(tok Token)
}

// IsOperator reports whether t is an arithmetic, relational or logical operator.
func IsOperator(t Type) bool {
	switch t {
	case Plus, Minus, Star, Slash, Percent, Bang,
		Equal, NotEqual, Less, LessEqual, Greater, GreaterEqual,
		AndAnd, OrOr:
		return true
	default:
		return false
	}
}
