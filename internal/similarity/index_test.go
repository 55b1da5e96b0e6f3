package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeNgari/FirebaseScripts/internal/hashutil"
)

func TestFindSimilarEmpty(t *testing.T) {
	ix := NewIndex()
	assert.Nil(t, ix.FindSimilar(hashutil.FingerprintFromBits(0), 5))
	assert.Equal(t, 0, ix.Len())
}

func TestFindSimilarThreshold(t *testing.T) {
	ix := NewIndex()
	ix.Add(hashutil.FingerprintFromBits(0), "https://a/base.png", "p1")

	// Three bits set: distance 3, inside the threshold of 5.
	rec := ix.FindSimilar(hashutil.FingerprintFromBits(0b111), 5)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a/base.png", rec.URL)
	assert.Equal(t, "p1", rec.PaperDocID)

	// Eight bits set: distance 8, outside.
	assert.Nil(t, ix.FindSimilar(hashutil.FingerprintFromBits(0b11111111), 5))
}

func TestFindSimilarReturnsEarliestMatch(t *testing.T) {
	ix := NewIndex()
	ix.Add(hashutil.FingerprintFromBits(0b11), "https://a/first.png", "p1")
	ix.Add(hashutil.FingerprintFromBits(0b1), "https://a/closer.png", "p2")

	// Query 0b1: first record is at distance 1, second at distance 0.
	// The earliest-inserted record within the threshold wins, not the
	// closest one.
	rec := ix.FindSimilar(hashutil.FingerprintFromBits(0b1), 5)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a/first.png", rec.URL)
	assert.Equal(t, 2, ix.Len())
}
