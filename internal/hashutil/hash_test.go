package hashutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestContentDigest(t *testing.T) {
	d1 := ContentDigest([]byte("past paper body"))
	d2 := ContentDigest([]byte("past paper body"))
	d3 := ContentDigest([]byte("past paper bodz"))

	assert.Len(t, d1, 64)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}

func TestPerceptualFingerprintNonImage(t *testing.T) {
	assert.Nil(t, PerceptualFingerprint([]byte("%PDF-1.4"), "application/pdf"))
	// Image content type but bytes that do not decode.
	assert.Nil(t, PerceptualFingerprint([]byte("not a png"), "image/png"))
}

func TestPerceptualFingerprintImage(t *testing.T) {
	data := solidPNG(t, color.RGBA{R: 200, G: 30, B: 30, A: 255})

	fp := PerceptualFingerprint(data, "image/png")
	require.NotNil(t, fp)

	again := PerceptualFingerprint(data, "image/png")
	require.NotNil(t, again)
	assert.Equal(t, 0, fp.Distance(again))
	assert.Contains(t, fp.String(), "p:")
}

func TestFingerprintDistance(t *testing.T) {
	a := FingerprintFromBits(0b1011)
	b := FingerprintFromBits(0b0010)

	// Hamming distance of 1011 vs 0010 is 2, in both directions.
	assert.Equal(t, 2, a.Distance(b))
	assert.Equal(t, 2, b.Distance(a))
	assert.Equal(t, 0, a.Distance(a))
}
