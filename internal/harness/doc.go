// Package harness runs pipeline scenarios: a pipeline expression, the
// quads fed to it and assertions over what it emits.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	pipeline: "@rdfs ${dir}/tbox.jsonl @unique"
//	prefixes:
//	  ex: http://example.org/
//	input:
//	  - [ex:ann, rdf:type, ex:Student]
//	  - [ex:ann, foaf:name, '"Ann"@en', ex:g1]
//	spill_threshold: 1
//	golden: true
//	assertions:
//	  - type: contains
//	    quad: [ex:ann, rdf:type, ex:Person]
//	  - type: count
//	    count: 3
//
// Terms use N-Triples syntax or prefixed names; a fourth term names the
// graph. A scenario that must fail names the error kind instead:
//
//	expect_error: unknown_processor
//
// # Assertion Types
//
//   - contains: the quad occurs in the output
//   - excludes: the quad does not occur in the output
//   - count: the output holds exactly count quads
//   - multiplicity: the quad occurs exactly count times
//   - namespace: a prefix/namespace declaration was emitted
//
// # Golden Files
//
// With golden: true the output is compared against
// testdata/golden/{name}.golden, written as sorted N-Quads (see Snapshot).
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/smush.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
