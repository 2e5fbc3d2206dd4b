package lcs

import "testing"

func coverageCheck(t *testing.T, a, b []string, seq CorrelatedSequence) {
	t.Helper()
	wantA, wantB := 0, 0
	for _, e := range seq {
		if e.AStart != wantA {
			t.Fatalf("gap in A coverage: expected AStart %d, got %d in %+v", wantA, e.AStart, e)
		}
		if e.BStart != wantB {
			t.Fatalf("gap in B coverage: expected BStart %d, got %d in %+v", wantB, e.BStart, e)
		}
		wantA += e.ALen
		wantB += e.BLen
	}
	if wantA != len(a) {
		t.Fatalf("A coverage ended at %d, want %d", wantA, len(a))
	}
	if wantB != len(b) {
		t.Fatalf("B coverage ended at %d, want %d", wantB, len(b))
	}
}

func TestCorrelateIdenticalSequencesAreOneEqualRun(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"x", "y", "z"}
	seq := Correlate(a, b, DefaultSettings())
	coverageCheck(t, a, b, seq)
	if len(seq) != 1 || seq[0].Status != Equal || seq[0].ALen != 3 {
		t.Fatalf("expected a single Equal run, got %+v", seq)
	}
}

func TestCorrelateDetectsInsertion(t *testing.T) {
	a := []string{"x", "z"}
	b := []string{"x", "y", "z"}
	seq := Correlate(a, b, DefaultSettings())
	coverageCheck(t, a, b, seq)

	var sawInsert bool
	for _, e := range seq {
		if e.Status == Inserted {
			sawInsert = true
			if e.BLen != 1 || e.ALen != 0 {
				t.Fatalf("expected a single-atom insertion, got %+v", e)
			}
		}
	}
	if !sawInsert {
		t.Fatalf("expected an Inserted entry, got %+v", seq)
	}
}

func TestCorrelateDetectsDeletion(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"x", "z"}
	seq := Correlate(a, b, DefaultSettings())
	coverageCheck(t, a, b, seq)

	var sawDelete bool
	for _, e := range seq {
		if e.Status == Deleted {
			sawDelete = true
			if e.ALen != 1 || e.BLen != 0 {
				t.Fatalf("expected a single-atom deletion, got %+v", e)
			}
		}
	}
	if !sawDelete {
		t.Fatalf("expected a Deleted entry, got %+v", seq)
	}
}

func TestCorrelateEmptySequences(t *testing.T) {
	seq := Correlate([]string{}, []string{}, DefaultSettings())
	if len(seq) != 0 {
		t.Fatalf("expected no entries for two empty sequences, got %+v", seq)
	}
}

func TestCorrelateTotalReplacement(t *testing.T) {
	a := []string{"a", "b"}
	b := []string{"c", "d"}
	seq := Correlate(a, b, DefaultSettings())
	coverageCheck(t, a, b, seq)
	for _, e := range seq {
		if e.Status == Equal {
			t.Fatalf("expected no Equal entries for disjoint sequences, got %+v", seq)
		}
	}
}

func TestFindLongestMatchEarliestTieBreak(t *testing.T) {
	// Two equally long runs of length 1 ("x" at A[0]/B[0] and A[2]/B[2]);
	// the earliest-in-A (then earliest-in-B) run must win.
	a := []string{"x", "m", "x"}
	b := []string{"x", "n", "x"}
	m := findLongestMatch(a, b, 0, len(a), 0, len(b), DefaultSettings())
	if m.length != 1 || m.aOffset != 0 || m.bOffset != 0 {
		t.Fatalf("expected earliest-start tie-break to pick offset (0,0), got %+v", m)
	}
}

func TestFlattenMergesContiguousRuns(t *testing.T) {
	seq := CorrelatedSequence{
		{Status: Deleted, AStart: 0, ALen: 1, BStart: 0, BLen: 0},
		{Status: Deleted, AStart: 1, ALen: 2, BStart: 0, BLen: 0},
		{Status: Equal, AStart: 3, ALen: 1, BStart: 0, BLen: 1},
	}
	flat := Flatten(seq)
	if len(flat) != 2 {
		t.Fatalf("expected two entries after flattening, got %+v", flat)
	}
	if flat[0].Status != Deleted || flat[0].ALen != 3 {
		t.Fatalf("expected merged Deleted run of length 3, got %+v", flat[0])
	}
}

func TestProfileCounters(t *testing.T) {
	ResetProfile()
	Correlate([]string{"a", "b", "c"}, []string{"a", "b", "c"}, DefaultSettings())
	p := ReadProfile()
	if p.LongestMatchCalls == 0 {
		t.Fatalf("expected LongestMatchCalls to be incremented, got %+v", p)
	}
}
