package lexer

import "testing"

func collectTokens(input string) []Token {
	l := New("<test>", input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestNextTokenPunctuatorsAndOperators(t *testing.T) {
	toks := collectTokens("let x = 1 + 2 * 3;")
	want := []Type{LET, IDENT, ASSIGN, NUMBER, PLUS, NUMBER, STAR, NUMBER, SEMICOLON, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenDistinguishesLookalikeOperators(t *testing.T) {
	cases := []struct {
		input string
		want  Type
	}{
		{"=", ASSIGN}, {"==", EQ}, {"===", STRICT_EQ},
		{"!", BANG}, {"!=", NOT_EQ}, {"!==", STRICT_NOT_EQ},
		{"+", PLUS}, {"++", INCR}, {"+=", PLUS_ASSIGN},
		{"=>", ARROW},
		{">>>", USHR}, {">>", SHR}, {">", GT},
	}
	for _, c := range cases {
		l := New("<test>", c.input)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("input %q: got %s, want %s", c.input, tok.Type, c.want)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New("<test>", `"a\nb\tc\\d"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	want := "a\nb\tc\\d"
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestNextTokenNumberFormats(t *testing.T) {
	cases := []string{"42", "3.14", "0x1F", "0b101", "0o17", "1e10", "1.5e-3"}
	for _, in := range cases {
		l := New("<test>", in)
		tok := l.NextToken()
		if tok.Type != NUMBER {
			t.Errorf("input %q: expected NUMBER, got %s", in, tok.Type)
		}
		if tok.Literal != in {
			t.Errorf("input %q: literal = %q", in, tok.Literal)
		}
	}
}

func TestNextTokenIllegalCharacterIsReported(t *testing.T) {
	l := New("<test>", "@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	toks := collectTokens("1 // a comment\n/* block\ncomment */ 2")
	want := []Type{NUMBER, NUMBER, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
}

func TestNextTokenKeywordsVsIdentifiers(t *testing.T) {
	toks := collectTokens("let letter")
	if toks[0].Type != LET {
		t.Errorf("expected LET, got %s", toks[0].Type)
	}
	if toks[1].Type != IDENT {
		t.Errorf("expected IDENT for \"letter\", got %s", toks[1].Type)
	}
}

func TestReadTemplateChunkStopsAtSubstitutionOrBacktick(t *testing.T) {
	l := New("<test>", "hello ${name}, bye`")
	chunk, exprStart, _ := l.ReadTemplateChunk()
	if chunk != "hello " || !exprStart {
		t.Fatalf("got chunk=%q exprStart=%v", chunk, exprStart)
	}
}

func TestTypeStringRendersKnownAndUnknownTypes(t *testing.T) {
	if LPAREN.String() != "LPAREN" {
		t.Errorf("got %q, want LPAREN", LPAREN.String())
	}
	if got := Type(9999).String(); got != "UNKNOWN" {
		t.Errorf("got %q, want UNKNOWN", got)
	}
}
