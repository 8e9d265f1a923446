package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorDeterministic(t *testing.T) {
	a := Vector("doc-1")
	b := Vector("doc-1")
	assert.Equal(t, a, b, "same document id must yield identical vectors")
}

func TestVectorShapeAndRange(t *testing.T) {
	for _, id := range []string{"doc-1", "doc-42", "", "a", "some/long/document/path.pdf"} {
		vec := Vector(id)
		require.Len(t, vec, Size)
		for i, v := range vec {
			assert.GreaterOrEqual(t, v, -1.0, "id %q element %d", id, i)
			assert.Less(t, v, 1.0, "id %q element %d", id, i)
		}
	}
}

func TestVectorKnownValues(t *testing.T) {
	// Reference values for the seed-fold plus LCG recurrence.
	assert.Equal(t, []float64{
		0.4763, 0.3614, 0.2693, 0.8768, 0.1247, 0.165, -0.8247, 0.5044,
		0.9923, 0.215, -0.5523, 0.244, 0.7687, -0.5414, -0.8847, 0.966,
	}, Vector("doc-1"))

	assert.Equal(t, []float64{
		0.967, 0.6733, 0.836, 0.9799, -0.7078, -0.4783, 0.1052, -0.3029,
		-0.6386, 0.6645, 0.7248, 0.7823, -0.3934, -0.8071, -0.7388, 0.9715,
	}, Vector("doc-42"))
}

func TestVectorDiffersAcrossDocuments(t *testing.T) {
	assert.NotEqual(t, Vector("doc-1"), Vector("doc-2"))
}
