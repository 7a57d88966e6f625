// Emits every quad plus an English rdfs:label for IRI subjects.
package main

import "strings"

func Process(s, p, o, c string) [][4]string {
	out := [][4]string{{s, p, o, c}}
	if strings.HasPrefix(s, "<") {
		i := strings.LastIndexAny(s, "/#")
		label := strings.TrimSuffix(s[i+1:], ">")
		out = append(out, [4]string{s, "<http://www.w3.org/2000/01/rdf-schema#label>", "\"" + label + "\"@en", c})
	}
	return out
}
