package dedup

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeeNgari/FirebaseScripts/internal/fetch"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type file struct {
	body        []byte
	contentType string
}

func fileServer(files map[string]file) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", f.contentType)
		w.Write(f.body)
	}))
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	fetcher := fetch.New(5*time.Second, 1, zap.NewNop())
	return NewProcessor(fetcher, NewSharedState(), 5)
}

func TestProcessExactDuplicate(t *testing.T) {
	srv := fileServer(map[string]file{
		"/a.pdf": {body: []byte("identical paper"), contentType: "application/pdf"},
		"/b.pdf": {body: []byte("identical paper"), contentType: "application/pdf"},
	})
	defer srv.Close()

	p := newTestProcessor(t)
	ctx := context.Background()

	first := p.Process(ctx, Unit{FileURL: srv.URL + "/a.pdf", CourseID: "c1", Category: "quizzes", PaperDocID: "p1"})
	require.NoError(t, first.Err)
	assert.Nil(t, first.ExactMatch)
	assert.Nil(t, first.Fingerprint)

	second := p.Process(ctx, Unit{FileURL: srv.URL + "/b.pdf", CourseID: "c1", Category: "quizzes", PaperDocID: "p2"})
	require.NoError(t, second.Err)
	require.NotNil(t, second.ExactMatch)
	assert.Equal(t, srv.URL+"/a.pdf", second.ExactMatch.URL)
	assert.Equal(t, "p1", second.ExactMatch.PaperDocID)
	assert.Equal(t, first.FileHash, second.FileHash)
}

func TestProcessSimilarImages(t *testing.T) {
	// Two flat single-color images at different colors: different bytes, so
	// no exact match, but their perceptual hashes coincide.
	srv := fileServer(map[string]file{
		"/red.png":  {body: solidPNG(t, color.RGBA{R: 220, A: 255}), contentType: "image/png"},
		"/blue.png": {body: solidPNG(t, color.RGBA{B: 220, A: 255}), contentType: "image/png"},
	})
	defer srv.Close()

	p := newTestProcessor(t)
	ctx := context.Background()

	first := p.Process(ctx, Unit{FileURL: srv.URL + "/red.png", PaperDocID: "p1"})
	require.NoError(t, first.Err)
	require.NotNil(t, first.Fingerprint)
	assert.Nil(t, first.SimilarMatch)

	second := p.Process(ctx, Unit{FileURL: srv.URL + "/blue.png", PaperDocID: "p2"})
	require.NoError(t, second.Err)
	assert.Nil(t, second.ExactMatch)
	require.NotNil(t, second.SimilarMatch)
	assert.Equal(t, srv.URL+"/red.png", second.SimilarMatch.URL)
	assert.Equal(t, "p1", second.SimilarMatch.PaperDocID)
}

func TestProcessIdenticalImageMatchesBothWays(t *testing.T) {
	img := solidPNG(t, color.RGBA{G: 180, A: 255})
	srv := fileServer(map[string]file{
		"/orig.png": {body: img, contentType: "image/png"},
		"/copy.png": {body: img, contentType: "image/png"},
	})
	defer srv.Close()

	p := newTestProcessor(t)
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, Unit{FileURL: srv.URL + "/orig.png", PaperDocID: "p1"}).Err)
	res := p.Process(ctx, Unit{FileURL: srv.URL + "/copy.png", PaperDocID: "p2"})
	require.NoError(t, res.Err)

	// A byte-identical image reports both an exact and a similar match; the
	// exact one takes priority when persisted.
	require.NotNil(t, res.ExactMatch)
	require.NotNil(t, res.SimilarMatch)
	assert.Equal(t, "exact", duplicateEntry(res)["type"])
}

func TestProcessFetchFailure(t *testing.T) {
	srv := fileServer(nil)
	defer srv.Close()

	p := newTestProcessor(t)
	res := p.Process(context.Background(), Unit{FileURL: srv.URL + "/missing.pdf", PaperDocID: "p1"})
	require.Error(t, res.Err)
	assert.Empty(t, res.FileHash)
}
