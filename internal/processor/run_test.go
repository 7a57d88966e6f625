package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func TestRunIdentity(t *testing.T) {
	in := []ir.Quad{
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.QC(t, "ex:a", "ex:q", `"x"`, "ex:g"),
	}
	sink := testutil.NewCollector()

	res, err := Run(context.Background(), Identity, &SliceSource{Quads: in}, sink)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Read)
	assert.Equal(t, in, sink.Quads())
	assert.Equal(t, 1, sink.Closed())
	assert.Zero(t, sink.Aborted())
}

func TestRunForwardsNamespaces(t *testing.T) {
	input := `{"prefix":"ex","namespace":"http://example.org/"}
{"s":"<http://example.org/a>","p":"<http://example.org/p>","o":"<http://example.org/b>"}
`
	sink := testutil.NewCollector()

	_, err := Run(context.Background(), Identity, ir.NewDecoder(strings.NewReader(input)), sink)
	require.NoError(t, err)

	assert.Equal(t, []ir.NamespaceDecl{{Prefix: "ex", Namespace: "http://example.org/"}}, sink.Namespaces())
	assert.Len(t, sink.Quads(), 1)
}

func TestRunAbortsOnStageError(t *testing.T) {
	in := []ir.Quad{
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.Q(t, "ex:b", "ex:p", "ex:c"),
		testutil.Q(t, "ex:c", "ex:p", "ex:d"),
	}
	sink := testutil.NewCollector()

	_, err := Run(context.Background(), Named("@fail (offset 0)", failAfter(2)), &SliceSource{Quads: in}, sink)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.True(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "@fail (offset 0)")

	assert.Zero(t, sink.Closed())
	assert.Equal(t, 1, sink.Aborted())
}

func TestRunAbortsOnDecodeError(t *testing.T) {
	input := `{"s":"<http://example.org/a>","p":"<http://example.org/p>","o":"<http://example.org/b>"}
not json
`
	var aborted bool
	sink := testutil.NewCollector()

	_, err := Run(context.Background(), buffering{aborted: &aborted}, ir.NewDecoder(strings.NewReader(input)), sink)
	var de *ir.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Line)
	assert.True(t, aborted)
	assert.Empty(t, sink.Quads())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := testutil.NewCollector()

	_, err := Run(ctx, Identity, &SliceSource{Quads: []ir.Quad{testutil.Q(t, "ex:a", "ex:p", "ex:b")}}, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.Quads())
}

func TestEncoderSinkWritesNQuads(t *testing.T) {
	var buf bytes.Buffer
	sink := EncoderSink(ir.NewEncoder(&buf, ir.FormatNQuads))
	in := []ir.Quad{testutil.QC(t, "ex:a", "ex:p", "ex:b", "ex:g")}

	_, err := Run(context.Background(), Identity, &SliceSource{Quads: in}, sink)
	require.NoError(t, err)
	assert.Equal(t, "<http://example.org/a> <http://example.org/p> <http://example.org/b> <http://example.org/g> .\n", buf.String())
}
