package store

import (
	"testing"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentColumns_Setup(t *testing.T) {
	doc := coach.NewState(coach.DefaultProfile()).Document()
	cols, err := encodeDocument(doc)
	require.NoError(t, err)
	assert.Nil(t, cols.Recommendation)
	assert.JSONEq(t, `[]`, string(cols.WeeklyAverages))

	back, err := decodeDocument(cols)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestDocumentColumns_Tracking(t *testing.T) {
	s, _, err := coach.Start(coach.NewState(coach.DefaultProfile()))
	require.NoError(t, err)
	doc := s.Document()

	cols, err := encodeDocument(doc)
	require.NoError(t, err)
	back, err := decodeDocument(cols)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

// pgx may hand back a NULL jsonb column as the literal null.
func TestDecodeDocument_NullRecommendation(t *testing.T) {
	cols, err := encodeDocument(coach.NewState(coach.DefaultProfile()).Document())
	require.NoError(t, err)
	cols.Recommendation = []byte("null")
	doc, err := decodeDocument(cols)
	require.NoError(t, err)
	assert.Nil(t, doc.Recommendation)
}
