package pml

import "testing"

func TestWithinToleranceAcceptsSmallDrift(t *testing.T) {
	if !withinTolerance(1000000, 1005000, 0.01) {
		t.Fatalf("expected 0.5%% drift to be within 1%% tolerance")
	}
	if withinTolerance(1000000, 1200000, 0.01) {
		t.Fatalf("expected 20%% drift to exceed 1%% tolerance")
	}
}

func TestMatchShapesPrefersStableID(t *testing.T) {
	older := []shape{{stableID: "2", kind: "sp", text: "a", identityHash: "h1", coarseHash: "c1"}}
	newer := []shape{{stableID: "2", kind: "sp", text: "a-changed", identityHash: "h2", coarseHash: "c1"}}
	matches := matchShapes(older, newer, NewSettings())
	if len(matches) != 1 || matches[0].oldIdx != 0 || matches[0].newIdx != 0 {
		t.Fatalf("expected stable-id match, got %+v", matches)
	}
}

func TestDiffShapePairDetectsZOrderChange(t *testing.T) {
	o := shape{kind: "sp", text: "a", identityHash: "h", coarseHash: "c", zOrder: 0}
	n := shape{kind: "sp", text: "a", identityHash: "h", coarseHash: "c", zOrder: 1}
	changes := diffShapePair(o, n)
	var saw bool
	for _, c := range changes {
		if c.Type == ShapeZOrderChanged {
			saw = true
		}
	}
	if !saw {
		t.Fatalf("expected ShapeZOrderChanged, got %+v", changes)
	}
}

func TestDiffSlideDetectsLayoutAndBackgroundChange(t *testing.T) {
	old := slide{layoutFingerprint: "a", backgroundFingerprint: "x"}
	new := slide{layoutFingerprint: "b", backgroundFingerprint: "y"}
	changes := diffSlide(old, new, NewSettings())
	var sawLayout, sawBackground bool
	for _, c := range changes {
		if c.Type == SlideLayoutChanged {
			sawLayout = true
		}
		if c.Type == SlideBackgroundChanged {
			sawBackground = true
		}
	}
	if !sawLayout || !sawBackground {
		t.Fatalf("expected both layout and background changes, got %+v", changes)
	}
}

func TestMatchSlidesIndexFallback(t *testing.T) {
	older := []slide{{}, {}}
	newer := []slide{{}, {}, {}}
	pairs := indexPairSlides(older, newer)
	added := 0
	matched := 0
	for _, p := range pairs {
		switch p.kind {
		case SlideAdded:
			added++
		case SlideMatched:
			matched++
		}
	}
	if added != 1 || matched != 2 {
		t.Fatalf("expected 2 matched + 1 added, got matched=%d added=%d", matched, added)
	}
}
