package pipeline

import "strings"

// Node is a sealed interface for composition tree nodes.
// Only *Call, *Sequence and *Parallel implement it.
type Node interface {
	node()
	String() string
}

// Call invokes a single named processor with its raw arguments.
type Call struct {
	Name string
	Args []string
	Pos  int // byte offset of the '@name' token
}

// Sequence chains stages in declaration order. Always has two or more
// stages; a one-stage sequence is represented by the stage itself.
type Sequence struct {
	Stages []Node
}

// Parallel replicates its input to every branch and merges the branch
// outputs with Combinator.
type Parallel struct {
	Branches   []Node
	Combinator Combinator
}

func (*Call) node()     {}
func (*Sequence) node() {}
func (*Parallel) node() {}

func (c *Call) String() string {
	if len(c.Args) == 0 {
		return "@" + c.Name
	}
	quoted := make([]string, len(c.Args))
	for i, a := range c.Args {
		quoted[i] = quoteArg(a)
	}
	return "@" + c.Name + " " + strings.Join(quoted, " ")
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Stages))
	for i, st := range s.Stages {
		parts[i] = st.String()
	}
	return strings.Join(parts, " ")
}

func (p *Parallel) String() string {
	parts := make([]string, len(p.Branches))
	for i, b := range p.Branches {
		parts[i] = b.String()
	}
	return "{ " + strings.Join(parts, " , ") + " }" + p.Combinator.String()
}

// quoteArg renders an argument so that the lexer reads it back unchanged.
func quoteArg(a string) string {
	plain := a != "" && !strings.ContainsAny(a, " \t\r\n'\"\\") &&
		a[0] != '@' && a[0] != '}' && a != "{" && a != ","
	if plain {
		return a
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range a {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// Walk calls fn for n and every descendant in depth-first order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch t := n.(type) {
	case *Sequence:
		for _, st := range t.Stages {
			Walk(st, fn)
		}
	case *Parallel:
		for _, b := range t.Branches {
			Walk(b, fn)
		}
	}
}
