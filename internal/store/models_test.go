package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileURLs(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]interface{}
		expected []string
	}{
		{
			name:     "absent",
			data:     map[string]interface{}{"uploadedBy": "u1"},
			expected: nil,
		},
		{
			name:     "strings",
			data:     map[string]interface{}{"fileUrls": []interface{}{"https://a/1.pdf", "https://a/2.pdf"}},
			expected: []string{"https://a/1.pdf", "https://a/2.pdf"},
		},
		{
			name:     "skips non-strings",
			data:     map[string]interface{}{"fileUrls": []interface{}{"https://a/1.pdf", int64(7), nil}},
			expected: []string{"https://a/1.pdf"},
		},
		{
			name:     "wrong type",
			data:     map[string]interface{}{"fileUrls": "https://a/1.pdf"},
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileURLs(tt.data))
		})
	}
}

func TestDuplicateDocIncomplete(t *testing.T) {
	complete := DuplicateDoc{
		DuplicateFileURL: "https://a/1.pdf",
		CourseID:         "swe2020",
		Subcollection:    "mid-semester",
		PaperDocID:       "paper1",
	}
	assert.False(t, complete.Incomplete())

	for _, strip := range []func(d *DuplicateDoc){
		func(d *DuplicateDoc) { d.DuplicateFileURL = "" },
		func(d *DuplicateDoc) { d.CourseID = "" },
		func(d *DuplicateDoc) { d.Subcollection = "" },
		func(d *DuplicateDoc) { d.PaperDocID = "" },
	} {
		d := complete
		strip(&d)
		assert.True(t, d.Incomplete())
	}
}
