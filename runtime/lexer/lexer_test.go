package lexer

import "testing"

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexLosslessConcat(t *testing.T) {
	src := []byte("fun main() -> Int {\n  1 + 2 // add\n}\n")
	tokens := Lex(src)

	var rebuilt []byte
	for _, tok := range tokens {
		rebuilt = append(rebuilt, tok.Text(src)...)
	}
	if string(rebuilt) != string(src) {
		t.Fatalf("lossless reconstruction failed:\n got: %q\nwant: %q", rebuilt, src)
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	src := []byte("fun add let const if else return raise assert nil true false as is foo")
	tokens := Lex(src)
	var got []Kind
	for _, tok := range tokens {
		if tok.Kind != Whitespace {
			got = append(got, tok.Kind)
		}
	}
	want := []Kind{Fun, Ident, Let, Const, If, Else, Return, Raise, Assert, Nil, True, False, As, Is, Ident, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexUnterminatedString(t *testing.T) {
	tokens := Lex([]byte(`"hello`))
	if tokens[0].Kind != String || !tokens[0].HasFlag(FlagUnterminated) {
		t.Fatalf("expected unterminated string, got %+v", tokens[0])
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	tokens := Lex([]byte(`/* never closed`))
	if tokens[0].Kind != BlockComment || !tokens[0].HasFlag(FlagUnterminated) {
		t.Fatalf("expected unterminated block comment, got %+v", tokens[0])
	}
}

func TestLexUnknownByte(t *testing.T) {
	tokens := Lex([]byte("a `b"))
	var sawUnknown bool
	for _, tok := range tokens {
		if tok.Kind == Unknown {
			sawUnknown = true
		}
	}
	if !sawUnknown {
		t.Fatalf("expected an Unknown token for backtick, got %v", kinds(tokens))
	}
}

func TestLexComparisonOperators(t *testing.T) {
	tokens := Lex([]byte("< > <= >= == !="))
	var got []Kind
	for _, tok := range tokens {
		if tok.Kind != Whitespace && tok.Kind != EOF {
			got = append(got, tok.Kind)
		}
	}
	want := []Kind{Lt, Gt, LtEq, GtEq, EqEq, NotEq}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operator %d: got %v want %v", i, got[i], want[i])
		}
	}
}
