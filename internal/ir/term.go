package ir

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TermError reports a term that could not be parsed.
type TermError struct {
	Input   string
	Message string
}

func (e *TermError) Error() string {
	return fmt.Sprintf("invalid term %q: %s", e.Input, e.Message)
}

// FormatTerm returns the N-Triples form of v: <iri>, _:label or a quoted
// literal with its language tag or datatype suffix. xsd:string datatypes are
// left implicit.
func FormatTerm(v Value) string {
	switch t := v.(type) {
	case IRI:
		return "<" + escapeIRI(string(t)) + ">"
	case BNode:
		return "_:" + string(t)
	case Literal:
		var b strings.Builder
		b.Grow(len(t.Lexical) + 2)
		b.WriteByte('"')
		writeEscapedString(&b, t.Lexical)
		b.WriteByte('"')
		switch {
		case t.Lang != "":
			b.WriteByte('@')
			b.WriteString(t.Lang)
		case t.Datatype != "" && t.Datatype != xsdString:
			b.WriteString("^^<")
			b.WriteString(escapeIRI(string(t.Datatype)))
			b.WriteByte('>')
		}
		return b.String()
	default:
		return ""
	}
}

func escapeIRI(s string) string {
	if !strings.ContainsFunc(s, iriNeedsEscape) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if iriNeedsEscape(r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func iriNeedsEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`\\", r)
}

func writeEscapedString(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}

// ParseTerm parses a single term in N-Triples syntax.
func ParseTerm(s string) (Value, error) {
	return ParseTermNS(s, nil)
}

// ParseTermNS parses a single term in N-Triples syntax extended with the
// Turtle shorthands used on command lines and in rule files: prefixed names
// resolved against ns, the keyword "a", bare integers, decimals and booleans,
// and prefixed literal datatypes. ns may be nil.
func ParseTermNS(s string, ns *Namespaces) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &TermError{Input: s, Message: "empty term"}
	}

	switch {
	case s[0] == '<':
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return nil, &TermError{Input: s, Message: "unterminated IRI"}
		}
		iri, err := unescape(s[1:len(s)-1], false)
		if err != nil {
			return nil, &TermError{Input: s, Message: err.Error()}
		}
		return IRI(iri), nil

	case strings.HasPrefix(s, "_:"):
		label := s[2:]
		if label == "" || strings.ContainsFunc(label, func(r rune) bool { return r <= 0x20 || r == '<' || r == '"' }) {
			return nil, &TermError{Input: s, Message: "invalid blank node label"}
		}
		return BNode(label), nil

	case s[0] == '"' || s[0] == '\'':
		return parseLiteral(s, ns)

	case s == "a":
		return IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), nil

	case s == "true" || s == "false":
		return NewTypedLiteral(s, "http://www.w3.org/2001/XMLSchema#boolean"), nil
	}

	if isNumber(s) {
		if strings.ContainsAny(s, "eE") {
			return NewTypedLiteral(s, "http://www.w3.org/2001/XMLSchema#double"), nil
		}
		if strings.Contains(s, ".") {
			return NewTypedLiteral(s, "http://www.w3.org/2001/XMLSchema#decimal"), nil
		}
		return NewTypedLiteral(s, "http://www.w3.org/2001/XMLSchema#integer"), nil
	}

	if ns != nil {
		if iri, ok := ns.Expand(s); ok {
			return iri, nil
		}
	}
	return nil, &TermError{Input: s, Message: "unrecognized term syntax"}
}

func parseLiteral(s string, ns *Namespaces) (Value, error) {
	quote := s[0]
	end := -1
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == quote {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, &TermError{Input: s, Message: "unterminated literal"}
	}
	lex, err := unescape(s[1:end], true)
	if err != nil {
		return nil, &TermError{Input: s, Message: err.Error()}
	}

	suffix := s[end+1:]
	switch {
	case suffix == "":
		return NewLiteral(lex), nil
	case suffix[0] == '@':
		if len(suffix) == 1 {
			return nil, &TermError{Input: s, Message: "empty language tag"}
		}
		return NewLangLiteral(lex, suffix[1:]), nil
	case strings.HasPrefix(suffix, "^^"):
		dt, err := ParseTermNS(suffix[2:], ns)
		if err != nil {
			return nil, err
		}
		iri, ok := dt.(IRI)
		if !ok {
			return nil, &TermError{Input: s, Message: "datatype must be an IRI"}
		}
		return NewTypedLiteral(lex, iri), nil
	default:
		return nil, &TermError{Input: s, Message: "unexpected text after literal"}
	}
}

func unescape(s string, literal bool) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		if !utf8.ValidString(s) {
			return "", fmt.Errorf("invalid UTF-8")
		}
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		switch s[i] {
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+width >= len(s) {
				return "", fmt.Errorf("short unicode escape")
			}
			n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape: %w", err)
			}
			b.WriteRune(rune(n))
			i += width
		case 't', 'n', 'r', 'b', 'f', '"', '\'', '\\':
			if !literal && s[i] != '\\' {
				return "", fmt.Errorf("escape \\%c not allowed in IRI", s[i])
			}
			b.WriteByte(unescapeChar(s[i]))
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

func unescapeChar(c byte) byte {
	switch c {
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	default:
		return c
	}
}

func isNumber(s string) bool {
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	digits, dot, exp := 0, false, false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && !exp && digits > 0:
			exp = true
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
			}
			digits = 0
		default:
			return false
		}
	}
	return digits > 0
}
