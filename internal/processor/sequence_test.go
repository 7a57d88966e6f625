package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func TestSequenceComposesInOrder(t *testing.T) {
	in := []ir.Quad{
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.Q(t, "ex:a", "ex:q", "ex:b"),
	}
	sink := testutil.NewCollector()

	seq := Sequence(keep(testutil.IRI("p")), buffering{}, Identity)
	_, err := Run(context.Background(), seq, &SliceSource{Quads: in}, sink)
	require.NoError(t, err)

	assert.Equal(t, in[:1], sink.Quads())
}

func TestSequenceOfOneIsTheStage(t *testing.T) {
	p := buffering{}
	assert.Equal(t, Processor(p), Sequence(p))
}

func TestSequenceAbortsLaterStagesWhenCloseFails(t *testing.T) {
	var aborted bool
	in := []ir.Quad{testutil.Q(t, "ex:a", "ex:p", "ex:b")}
	sink := testutil.NewCollector()

	// The buffering stage re-emits on Close into a stage that fails.
	seq := Sequence(buffering{}, failAfter(1), buffering{aborted: &aborted})
	_, err := Run(context.Background(), seq, &SliceSource{Quads: in}, sink)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, aborted)
	assert.Empty(t, sink.Quads())
}
