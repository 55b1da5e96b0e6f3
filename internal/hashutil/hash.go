// Package hashutil computes the two hashes duplicate detection runs on: a
// SHA-256 content digest for exact matches and a 64-bit perceptual hash
// for near-identical images.
package hashutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// fingerprintSize is the canonical edge length images are normalized to
// before hashing, so recompressed or resized copies fingerprint the same.
const fingerprintSize = 256

// ContentDigest returns the SHA-256 hex digest of a byte blob.
func ContentDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint is a perceptual hash of an image.
type Fingerprint struct {
	hash *goimagehash.ImageHash
}

// PerceptualFingerprint computes a perceptual hash for image content.
// Returns nil, without error, when the content type is not an image MIME
// type or the bytes do not decode; exact-hash comparison still applies to
// such files.
func PerceptualFingerprint(data []byte, contentType string) *Fingerprint {
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	normalized := imaging.Resize(img, fingerprintSize, fingerprintSize, imaging.Lanczos)
	h, err := goimagehash.PerceptionHash(normalized)
	if err != nil {
		return nil
	}
	return &Fingerprint{hash: h}
}

// FingerprintFromBits builds a fingerprint from raw hash bits, for
// reloading stored ledger values.
func FingerprintFromBits(bits uint64) *Fingerprint {
	return &Fingerprint{hash: goimagehash.NewImageHash(bits, goimagehash.PHash)}
}

// Distance returns the Hamming distance between two fingerprints. It is
// commutative and zero for identical fingerprints.
func (f *Fingerprint) Distance(other *Fingerprint) int {
	d, err := f.hash.Distance(other.hash)
	if err != nil {
		// Only reachable if hash kinds disagree, which this package never
		// produces. Report maximum distance so nothing matches.
		return math.MaxInt
	}
	return d
}

// String renders the fingerprint in goimagehash's "p:<hex>" form, the
// representation stored in ledger entries.
func (f *Fingerprint) String() string { return f.hash.ToString() }
