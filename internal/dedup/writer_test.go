package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeNgari/FirebaseScripts/internal/hashutil"
	"github.com/LeeNgari/FirebaseScripts/internal/similarity"
)

func sampleResult() Result {
	return Result{
		Unit: Unit{
			FileURL:    "https://cdn/1.pdf",
			CourseID:   "swe2020",
			Category:   "end-semester",
			PaperDocID: "paper1",
			PaperData:  map[string]interface{}{"year": "2023", "uploadedBy": "u1"},
		},
		FileHash: "abc123",
	}
}

func TestHashEntry(t *testing.T) {
	res := sampleResult()
	doc := hashEntry(res)

	// Paper metadata is flattened alongside the hash fields.
	assert.Equal(t, "2023", doc["year"])
	assert.Equal(t, "u1", doc["uploadedBy"])
	assert.Equal(t, "https://cdn/1.pdf", doc["fileUrl"])
	assert.Equal(t, "abc123", doc["fileHash"])
	assert.Equal(t, "swe2020", doc["courseId"])
	assert.Equal(t, "end-semester", doc["subcollection"])
	assert.Equal(t, "paper1", doc["paperDocId"])
	assert.Nil(t, doc["pHash"])
}

func TestHashEntryWithFingerprint(t *testing.T) {
	res := sampleResult()
	res.Fingerprint = hashutil.FingerprintFromBits(0b101)

	doc := hashEntry(res)
	assert.Equal(t, res.Fingerprint.String(), doc["pHash"])
}

func TestDuplicateEntryNoMatch(t *testing.T) {
	assert.Nil(t, duplicateEntry(sampleResult()))
}

func TestDuplicateEntryExact(t *testing.T) {
	res := sampleResult()
	res.ExactMatch = &ExactRef{URL: "https://cdn/orig.pdf", PaperDocID: "paper0"}

	doc := duplicateEntry(res)
	require.NotNil(t, doc)
	assert.Equal(t, "exact", doc["type"])
	assert.Equal(t, "https://cdn/1.pdf", doc["duplicateFileUrl"])
	assert.Equal(t, "https://cdn/orig.pdf", doc["matchedFileUrl"])
	assert.Equal(t, "abc123", doc["fileHash"])
	assert.Equal(t, "paper0", doc["matchedPaperDocId"])
	assert.Equal(t, "swe2020", doc["courseId"])
	assert.NotContains(t, doc, "pHash")
}

func TestDuplicateEntrySimilar(t *testing.T) {
	res := sampleResult()
	res.Fingerprint = hashutil.FingerprintFromBits(0b111)
	res.SimilarMatch = &similarity.Record{
		Fingerprint: hashutil.FingerprintFromBits(0b110),
		URL:         "https://cdn/orig.png",
		PaperDocID:  "paper0",
	}

	doc := duplicateEntry(res)
	require.NotNil(t, doc)
	assert.Equal(t, "similar", doc["type"])
	assert.Equal(t, "https://cdn/orig.png", doc["matchedFileUrl"])
	assert.Equal(t, res.Fingerprint.String(), doc["pHash"])
	assert.Equal(t, res.SimilarMatch.Fingerprint.String(), doc["similarToPHash"])
	assert.Equal(t, "paper0", doc["matchedPaperDocId"])
	assert.NotContains(t, doc, "fileHash")
}

func TestDuplicateEntryExactWinsOverSimilar(t *testing.T) {
	res := sampleResult()
	res.ExactMatch = &ExactRef{URL: "https://cdn/orig.pdf", PaperDocID: "paper0"}
	res.SimilarMatch = &similarity.Record{
		Fingerprint: hashutil.FingerprintFromBits(0),
		URL:         "https://cdn/other.png",
		PaperDocID:  "paper9",
	}

	doc := duplicateEntry(res)
	require.NotNil(t, doc)
	assert.Equal(t, "exact", doc["type"])
	assert.Equal(t, "https://cdn/orig.pdf", doc["matchedFileUrl"])
}
