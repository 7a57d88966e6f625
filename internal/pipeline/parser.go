package pipeline

import "strings"

// Registry tells the parser which processor names exist.
type Registry interface {
	Has(name string) bool
}

// Parse parses a pipeline expression into its composition tree.
// Processor names are matched case-insensitively and validated against
// reg; a nil reg accepts every name.
func Parse(input string, reg Registry) (Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	return parseTokens(tokens, reg)
}

func parseTokens(tokens []token, reg Registry) (Node, error) {
	p := &parser{tokens: tokens, reg: reg}
	n, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.syntaxError(eofText)
	}
	return n, nil
}

// ParseArgs parses an expression already split into words, as received
// from a shell. A single word is tokenized like inline text; several words
// are taken as tokens verbatim, without further quote processing.
func ParseArgs(args []string, reg Registry) (Node, error) {
	if len(args) == 1 {
		return Parse(args[0], reg)
	}
	tokens := make([]token, 0, len(args)+1)
	offset := 0
	for _, a := range args {
		if a != "" {
			tokens = append(tokens, token{kind: classify(a), text: a, pos: offset})
		}
		offset += len(a) + 1
	}
	tokens = append(tokens, token{kind: tokEOF, text: eofText, pos: max(offset-1, 0)})
	return parseTokens(tokens, reg)
}

type parser struct {
	tokens []token
	pos    int
	reg    Registry
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) syntaxError(expected string) error {
	t := p.peek()
	return &SyntaxError{Pos: t.pos, Expected: expected, Found: t.text}
}

// parseSequence: one or more commands or parallel groups.
func (p *parser) parseSequence() (Node, error) {
	var stages []Node
	for {
		var (
			n   Node
			err error
		)
		switch p.peek().kind {
		case tokCommand:
			n, err = p.parseCommand()
		case tokOpen:
			n, err = p.parseParallel()
		default:
			if len(stages) == 0 {
				return nil, p.syntaxError("'@command' or '{'")
			}
			if len(stages) == 1 {
				return stages[0], nil
			}
			return &Sequence{Stages: stages}, nil
		}
		if err != nil {
			return nil, err
		}
		stages = append(stages, n)
	}
}

func (p *parser) parseParallel() (Node, error) {
	var branches []Node
	for {
		p.next() // '{' or ','
		branch, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.peek().kind != tokComma {
			break
		}
	}

	closing := p.peek()
	if closing.kind != tokClose {
		return nil, p.syntaxError("'}' followed by a combinator")
	}
	comb, err := ParseCombinator(closing.text[1:])
	if err != nil {
		if ce, ok := err.(*UnknownCombinatorError); ok {
			ce.Pos = closing.pos + 1
		}
		return nil, err
	}
	p.next()
	return &Parallel{Branches: branches, Combinator: comb}, nil
}

func (p *parser) parseCommand() (Node, error) {
	t := p.next()
	name := strings.ToLower(t.text[1:])
	if name == "" {
		return nil, &SyntaxError{Pos: t.pos, Expected: "processor name after '@'", Found: t.text}
	}
	if p.reg != nil && !p.reg.Has(name) {
		return nil, &UnknownProcessorError{Name: name, Pos: t.pos}
	}
	call := &Call{Name: name, Pos: t.pos}
	for p.peek().kind == tokArg {
		call.Args = append(call.Args, p.next().text)
	}
	return call, nil
}
