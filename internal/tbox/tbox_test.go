package tbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func TestTBoxKeepsSchemaStatements(t *testing.T) {
	schema := []ir.Quad{
		testutil.Q(t, "ex:Student", "rdfs:subClassOf", "ex:Person"),
		testutil.Q(t, "ex:Person", "rdf:type", "owl:Class"),
		testutil.QC(t, "ex:knows", "rdf:type", "owl:ObjectProperty", "ex:g"),
	}
	data := []ir.Quad{
		testutil.Q(t, "ex:ann", "rdf:type", "ex:Student"),
		testutil.Q(t, "ex:ann", "ex:knows", "ex:bob"),
	}

	sink := testutil.NewCollector()
	_, err := processor.Run(context.Background(), New(),
		&processor.SliceSource{Quads: append(append([]ir.Quad(nil), data...), schema...)}, sink)
	require.NoError(t, err)

	assert.Equal(t, testutil.Keys(schema), testutil.Keys(sink.Quads()))
}
