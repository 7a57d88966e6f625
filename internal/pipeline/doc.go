// Package pipeline parses rdfpipe pipeline expressions into an immutable
// composition tree.
//
// Grammar:
//
//	CMD ::= @name ARGS                 single processor
//	      | CMD CMD                    sequence (juxtaposition)
//	      | '{' CMD (',' CMD)* '}' S   parallel group with combinator S
//	S   ::= a | u | U | i | I | d | D | s | S | INT+ | INT-
//
// Tokens are whitespace separated. A token starting with '@' names a
// processor, "{" opens a group, "," separates branches and a token starting
// with '}' closes a group, the rest of the token selecting the combinator
// (a bare "}" means 'a'). Any other token is an argument of the preceding
// processor. Single or double quotes group whitespace into one argument and
// a backslash escapes the next character.
//
// Unknown processor names and combinators are rejected here, before any
// data is read.
package pipeline
