package pml

import (
	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/lcs"
)

// slidePair associates an older slide with its matched newer
// counterpart, or leaves one side absent for Added/Deleted.
type slidePair struct {
	oldIdx, newIdx int
	kind           SlideMatchKind
}

// matchSlides aligns older and newer slide sequences. With
// settings.AlignSlidesByLCS it correlates by each slide's identity hash
// (the hash of its entire spTree), falling back to straight index
// pairing when disabled or when the LCS kernel can find no anchors.
func matchSlides(older, newer []slide, settings *ComparerSettings, opts canon.Options) []slidePair {
	if !settings.AlignSlidesByLCS {
		return indexPairSlides(older, newer)
	}

	oldHashes := make([]string, len(older))
	for i, s := range older {
		oldHashes[i] = canon.IdentityHash(s.tree, s.tree.Root(), opts)
	}
	newHashes := make([]string, len(newer))
	for i, s := range newer {
		newHashes[i] = canon.IdentityHash(s.tree, s.tree.Root(), opts)
	}

	correlation := lcs.Correlate(oldHashes, newHashes, lcs.DefaultSettings())
	var pairs []slidePair
	for _, e := range correlation {
		switch e.Status {
		case lcs.Equal:
			for i := 0; i < e.ALen; i++ {
				pairs = append(pairs, slidePair{oldIdx: e.AStart + i, newIdx: e.BStart + i, kind: SlideMatched})
			}
		case lcs.Deleted:
			for i := 0; i < e.ALen; i++ {
				pairs = append(pairs, slidePair{oldIdx: e.AStart + i, newIdx: -1, kind: SlideDeleted})
			}
		case lcs.Inserted:
			for i := 0; i < e.BLen; i++ {
				pairs = append(pairs, slidePair{oldIdx: -1, newIdx: e.BStart + i, kind: SlideAdded})
			}
		case lcs.Unknown:
			n := e.ALen
			if e.BLen < n {
				n = e.BLen
			}
			for i := 0; i < n; i++ {
				pairs = append(pairs, slidePair{oldIdx: e.AStart + i, newIdx: e.BStart + i, kind: SlideReordered})
			}
			for i := n; i < e.ALen; i++ {
				pairs = append(pairs, slidePair{oldIdx: e.AStart + i, newIdx: -1, kind: SlideDeleted})
			}
			for i := n; i < e.BLen; i++ {
				pairs = append(pairs, slidePair{oldIdx: -1, newIdx: e.BStart + i, kind: SlideAdded})
			}
		}
	}
	return pairs
}

func indexPairSlides(older, newer []slide) []slidePair {
	var pairs []slidePair
	n := len(older)
	if len(newer) < n {
		n = len(newer)
	}
	for i := 0; i < n; i++ {
		pairs = append(pairs, slidePair{oldIdx: i, newIdx: i, kind: SlideMatched})
	}
	for i := n; i < len(older); i++ {
		pairs = append(pairs, slidePair{oldIdx: i, newIdx: -1, kind: SlideDeleted})
	}
	for i := n; i < len(newer); i++ {
		pairs = append(pairs, slidePair{oldIdx: -1, newIdx: i, kind: SlideAdded})
	}
	return pairs
}

// shapeMatch pairs one older shape with its newer counterpart.
type shapeMatch struct {
	oldIdx, newIdx int
}

// matchShapes pairs shapes on a matched slide by a strict priority
// order: stable id (p:cNvPr/@id, stable across saves unless the author
// deletes and re-adds), then identity hash (byte-for-byte-equivalent
// shape), then kind+text-hash (same shape type and same text, formatting
// or position differs), then coarse-hash similarity above
// settings.CoarseHashThreshold. Each priority tier is matched
// greedily before falling through to the next.
func matchShapes(older, newer []shape, settings *ComparerSettings) []shapeMatch {
	usedOld := make([]bool, len(older))
	usedNew := make([]bool, len(newer))
	var matches []shapeMatch

	matchBy := func(key func(shape) string, filter func(shape) bool) {
		for i := range older {
			if usedOld[i] || (filter != nil && !filter(older[i])) {
				continue
			}
			ok := key(older[i])
			if ok == "" {
				continue
			}
			for j := range newer {
				if usedNew[j] || (filter != nil && !filter(newer[j])) {
					continue
				}
				if key(newer[j]) == ok {
					matches = append(matches, shapeMatch{oldIdx: i, newIdx: j})
					usedOld[i] = true
					usedNew[j] = true
					break
				}
			}
		}
	}

	matchBy(func(s shape) string { return s.stableID }, func(s shape) bool { return s.stableID != "" })
	matchBy(func(s shape) string { return s.identityHash }, nil)
	matchBy(func(s shape) string {
		if s.text == "" {
			return ""
		}
		return s.kind + "|" + s.text
	}, nil)

	for i := range older {
		if usedOld[i] {
			continue
		}
		bestJ, bestScore := -1, settings.CoarseHashThreshold
		for j := range newer {
			if usedNew[j] || older[i].kind != newer[j].kind {
				continue
			}
			score := coarseSimilarity(older[i].coarseHash, newer[j].coarseHash)
			if score >= bestScore {
				bestScore = score
				bestJ = j
			}
		}
		if bestJ >= 0 {
			matches = append(matches, shapeMatch{oldIdx: i, newIdx: bestJ})
			usedOld[i] = true
			usedNew[bestJ] = true
		}
	}
	return matches
}

// coarseSimilarity returns 1.0 for an exact coarse-hash match (the
// pipeline has no finer-grained text-similarity metric between an exact
// hash match and none at all) and 0.0 otherwise.
func coarseSimilarity(a, b string) float64 {
	if a != "" && a == b {
		return 1.0
	}
	return 0.0
}
