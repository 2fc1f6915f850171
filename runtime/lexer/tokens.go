package lexer

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Unknown

	Ident
	Int
	String // HasFlag(Unterminated) set when the closing quote was never found

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	// Keywords
	Fun
	Type
	Struct
	Enum
	Let
	Const
	If
	Else
	Return
	Raise
	Assert
	Nil
	True
	False
	As
	Is

	// Punctuation
	Dot
	Comma
	Colon
	Semicolon
	Arrow

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Not
	Lt
	Gt
	LtEq
	GtEq
	EqEq
	NotEq
	Assign

	// Trivia
	Whitespace
	Newline
	LineComment
	BlockComment // HasFlag(Unterminated) set when "*/" was never found
)

// Flag carries auxiliary per-token facts that do not change the Kind but
// affect how downstream stages should treat the token (e.g. whether a
// string was properly closed).
type Flag uint8

const (
	FlagNone         Flag = 0
	FlagUnterminated Flag = 1 << iota
)

// Range is a half-open byte interval [Start, End) into the source.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Token is a single lexical unit: a kind, the exact source range it
// covers, and any flags discovered while scanning it.
type Token struct {
	Kind  Kind
	Range Range
	Flags Flag
}

// HasFlag reports whether f is set on the token.
func (t Token) HasFlag(f Flag) bool { return t.Flags&f != 0 }

// Text returns the exact source substring the token covers.
func (t Token) Text(source []byte) []byte {
	return source[t.Range.Start:t.Range.End]
}

// IsTrivia reports whether the token is whitespace or a comment: the
// parser skips these but the CST keeps them so ranges stay reconstructible.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, LineComment, BlockComment:
		return true
	default:
		return false
	}
}

// Keywords maps reserved identifiers to their keyword Kind.
var Keywords = map[string]Kind{
	"fun":    Fun,
	"type":   Type,
	"struct": Struct,
	"enum":   Enum,
	"let":    Let,
	"const":  Const,
	"if":     If,
	"else":   Else,
	"return": Return,
	"raise":  Raise,
	"assert": Assert,
	"nil":    Nil,
	"true":   True,
	"false":  False,
	"as":     As,
	"is":     Is,
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Unknown:
		return "unknown byte"
	case Ident:
		return "identifier"
	case Int:
		return "integer"
	case String:
		return "string"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Fun:
		return "'fun'"
	case Type:
		return "'type'"
	case Struct:
		return "'struct'"
	case Enum:
		return "'enum'"
	case Let:
		return "'let'"
	case Const:
		return "'const'"
	case If:
		return "'if'"
	case Else:
		return "'else'"
	case Return:
		return "'return'"
	case Raise:
		return "'raise'"
	case Assert:
		return "'assert'"
	case Nil:
		return "'nil'"
	case True:
		return "'true'"
	case False:
		return "'false'"
	case As:
		return "'as'"
	case Is:
		return "'is'"
	case Dot:
		return "'.'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Semicolon:
		return "';'"
	case Arrow:
		return "'->'"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case Percent:
		return "'%'"
	case Not:
		return "'!'"
	case Lt:
		return "'<'"
	case Gt:
		return "'>'"
	case LtEq:
		return "'<='"
	case GtEq:
		return "'>='"
	case EqEq:
		return "'=='"
	case NotEq:
		return "'!='"
	case Assign:
		return "'='"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	default:
		return "unrecognized token"
	}
}
