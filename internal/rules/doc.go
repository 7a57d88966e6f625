// Package rules implements forward-chaining closure over quad streams.
//
// A RuleSet is a list of Horn rules whose bodies and heads are triple
// patterns. Rulesets are CUE documents:
//
//	prefixes: ex: "http://example.org/"
//	rules: {
//		"rdfs9": {
//			body: ["?c rdfs:subClassOf ?d", "?x rdf:type ?c"]
//			head: ["?x rdf:type ?d"]
//		}
//	}
//
// Every ruleset is safety-checked when loaded: each head variable must occur
// in the body. Evaluation is a semi-naive fixpoint, optionally run per
// partition of the data or of the rules, with a graph mode deciding the
// context of inferred quads.
package rules
