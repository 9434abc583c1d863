// Package domain contains entity without logic, just meta-data
package domain

import "image"

// Identity is one detected face: bounding region in frame
// coordinates, an opaque embedding produced by the detector, and the
// detector's confidence. The embedding is never interpreted here.
type Identity struct {
	Region    image.Rectangle
	Embedding []float32
	Score     float32
}

// BestIdentity picks the candidate with the highest score; ties go to
// the earlier entry in detector output order. ok is false for an
// empty slice.
func BestIdentity(faces []Identity) (Identity, bool) {
	if len(faces) == 0 {
		return Identity{}, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Score > best.Score {
			best = f
		}
	}
	return best, true
}
