package pipeline

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokCommand
	tokArg
	tokOpen
	tokComma
	tokClose
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

const eofText = "<EOF>"

// tokenize splits input into classified tokens.
func tokenize(input string) ([]token, error) {
	var (
		tokens  []token
		b       strings.Builder
		start   = -1
		quote   rune
		quoted  bool
		escaped bool
	)

	flush := func() {
		text := b.String()
		kind := tokArg
		if !quoted {
			kind = classify(text)
		}
		tokens = append(tokens, token{kind: kind, text: text, pos: start})
		b.Reset()
		start, quote, quoted = -1, 0, false
	}

	for i, r := range input {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			if start < 0 {
				start = i
			}
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			b.WriteRune(r)
		case unicode.IsSpace(r):
			if start >= 0 {
				flush()
			}
		case r == '\'' || r == '"':
			if start < 0 {
				start = i
			}
			quote, quoted = r, true
		default:
			if start < 0 {
				start = i
			}
			b.WriteRune(r)
		}
	}

	if quote != 0 {
		return nil, &SyntaxError{Pos: start, Expected: "closing quote", Found: eofText}
	}
	if escaped {
		b.WriteRune('\\')
	}
	if start >= 0 {
		flush()
	}
	tokens = append(tokens, token{kind: tokEOF, text: eofText, pos: len(input)})
	return tokens, nil
}

func classify(text string) tokenKind {
	switch {
	case strings.HasPrefix(text, "@"):
		return tokCommand
	case strings.HasPrefix(text, "}"):
		return tokClose
	case text == "{":
		return tokOpen
	case text == ",":
		return tokComma
	default:
		return tokArg
	}
}
