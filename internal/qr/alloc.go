// Package qr allocates QR reference filenames for pieces. Allocation is pure:
// rendering and serving the image artifact is an external collaborator's job,
// keyed by the reference returned here.
package qr

import (
	"strings"

	"github.com/google/uuid"
)

// Allocator derives a stable reference filename from a piece identifiant.
type Allocator struct{}

// Allocate returns the reference for identifiant: the normalized code plus a
// .png suffix. Uniqueness of identifiant makes the reference unique for every
// identifiant that survives normalization intact; callers detecting a
// collision (two codes collapsing to the same normal form) disambiguate with
// Disambiguate.
func (Allocator) Allocate(identifiant string) string {
	norm := normalize(identifiant)
	if norm == "" {
		norm = "P-" + randomFragment()
	}
	return norm + ".png"
}

// Disambiguate returns a reference for identifiant extended with a random
// fragment, for the rare case where two identifiants normalize identically.
func (Allocator) Disambiguate(identifiant string) string {
	norm := normalize(identifiant)
	if norm != "" {
		norm += "-"
	}
	return norm + randomFragment() + ".png"
}

// normalize keeps [A-Z0-9-] of the uppercased input; runs of anything else
// collapse to a single dash.
func normalize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomFragment() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
