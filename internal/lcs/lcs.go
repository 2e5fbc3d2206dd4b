// Package lcs implements the generic longest-common-subsequence alignment
// kernel shared by the WML/SML/PML pipelines. It operates over any
// sequence of comparable "atoms" (a hash, a cell signature, a shape
// signature — whatever each pipeline reduces its content to) rather than
// being tied to text, so the same divide-and-conquer algorithm backs
// paragraph-run alignment, row alignment, and slide alignment alike.
package lcs

import "sync/atomic"

// Hashable is anything the LCS kernel can compare for equality by a
// single comparable key — typically a content hash string, but any
// comparable type works.
type Hashable interface {
	comparable
}

// CorrelationStatus tags one entry of a CorrelatedSequence.
type CorrelationStatus int

const (
	// Equal means the atom matched between A and B at this position.
	Equal CorrelationStatus = iota
	// Inserted means the atom exists only in B (the newer sequence).
	Inserted
	// Deleted means the atom exists only in A (the older sequence).
	Deleted
	// Unknown means the region could not be aligned by the LCS pass and
	// is left for the caller's pairwise fallback (e.g. coarse-hash
	// threshold matching).
	Unknown
)

func (s CorrelationStatus) String() string {
	switch s {
	case Equal:
		return "Equal"
	case Inserted:
		return "Inserted"
	case Deleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// CorrelatedEntry is one run of aligned (or unaligned) atoms. AStart/ALen
// and BStart/BLen index into the original A and B sequences; for
// Inserted entries ALen is 0, for Deleted entries BLen is 0.
type CorrelatedEntry struct {
	Status CorrelationStatus
	AStart int
	ALen   int
	BStart int
	BLen   int
}

// CorrelatedSequence is an ordered, disjoint list of CorrelatedEntry that
// together cover every position of both A and B exactly once, in order —
// the cover invariant the comparer pipelines depend on to walk both
// sequences in lockstep.
type CorrelatedSequence []CorrelatedEntry

// Settings tunes the recursive correlation search.
type Settings struct {
	// RecursionDepthCap bounds divide-and-conquer recursion; beyond this
	// depth a remaining region is emitted as a single Unknown entry
	// rather than recursing further, bounding worst-case cost on
	// pathological inputs.
	RecursionDepthCap int
	// MinimumAnchorRunLength is the shortest run of matching atoms the
	// kernel will accept as an alignment anchor; shorter coincidental
	// matches are treated as noise and left Unknown.
	MinimumAnchorRunLength int
}

// DefaultSettings returns the kernel's default tuning.
func DefaultSettings() Settings {
	return Settings{RecursionDepthCap: 64, MinimumAnchorRunLength: 1}
}

// profiling counters, process-wide and resettable. Stored as int64 to
// stay overflow-safe under atomic.AddInt64 wraparound semantics rather
// than panicking.
var (
	comparisonsPerformed int64
	longestMatchCalls    int64
)

// Profile is a snapshot of the process-wide kernel counters.
type Profile struct {
	ComparisonsPerformed int64
	LongestMatchCalls    int64
}

// ReadProfile returns the current counter values.
func ReadProfile() Profile {
	return Profile{
		ComparisonsPerformed: atomic.LoadInt64(&comparisonsPerformed),
		LongestMatchCalls:    atomic.LoadInt64(&longestMatchCalls),
	}
}

// ResetProfile zeroes the process-wide counters, e.g. between test cases.
func ResetProfile() {
	atomic.StoreInt64(&comparisonsPerformed, 0)
	atomic.StoreInt64(&longestMatchCalls, 0)
}

// match describes the longest run of equal atoms found between two
// ranges, expressed as offsets from the start of each range.
type match struct {
	aOffset int
	bOffset int
	length  int
}

// findLongestMatch scans a[aLo:aHi) and b[bLo:bHi) for the longest run of
// equal elements, breaking ties by earliest start in A, then earliest
// start in B for deterministic results. It returns length 0 if no run
// meets MinimumAnchorRunLength.
func findLongestMatch[T Hashable](a, b []T, aLo, aHi, bLo, bHi int, settings Settings) match {
	atomic.AddInt64(&longestMatchCalls, 1)

	// index positions of each B atom within [bLo, bHi) for O(1) candidate
	// lookup, matching the classic "positions map" LCS anchor search.
	positions := make(map[T][]int, bHi-bLo)
	for j := bLo; j < bHi; j++ {
		positions[b[j]] = append(positions[b[j]], j)
	}

	var best match
	// runLen[j] = length of the run of equal atoms ending at (i-1, j);
	// rebuilt per row to keep memory at O(rangeB) instead of O(rangeA*rangeB).
	runLen := make(map[int]int, bHi-bLo)
	for i := aLo; i < aHi; i++ {
		next := make(map[int]int, bHi-bLo)
		for _, j := range positions[a[i]] {
			atomic.AddInt64(&comparisonsPerformed, 1)
			prev := runLen[j-1]
			cur := prev + 1
			next[j] = cur
			if cur > best.length {
				best = match{aOffset: i - cur + 1 - aLo, bOffset: j - cur + 1 - bLo, length: cur}
			} else if cur == best.length && cur > 0 {
				aStart := i - cur + 1
				bStart := j - cur + 1
				curBestAStart := best.aOffset + aLo
				curBestBStart := best.bOffset + bLo
				if aStart < curBestAStart || (aStart == curBestAStart && bStart < curBestBStart) {
					best = match{aOffset: aStart - aLo, bOffset: bStart - bLo, length: cur}
				}
			}
		}
		runLen = next
	}
	if best.length < settings.MinimumAnchorRunLength {
		return match{}
	}
	return best
}

// Correlate computes a CorrelatedSequence aligning a and b by recursive
// longest-common-subsequence anchoring: find the longest matching run,
// emit it as Equal, then recurse on the atoms before and after the
// anchor in both sequences. Regions with no qualifying anchor, or beyond
// settings.RecursionDepthCap, are emitted as a single Unknown entry
// spanning both sides for the caller's pairwise fallback to resolve.
func Correlate[T Hashable](a, b []T, settings Settings) CorrelatedSequence {
	var out CorrelatedSequence
	var recurse func(aLo, aHi, bLo, bHi, depth int)
	recurse = func(aLo, aHi, bLo, bHi, depth int) {
		aLen, bLen := aHi-aLo, bHi-bLo
		if aLen == 0 && bLen == 0 {
			return
		}
		if aLen == 0 {
			out = append(out, CorrelatedEntry{Status: Inserted, AStart: aLo, ALen: 0, BStart: bLo, BLen: bLen})
			return
		}
		if bLen == 0 {
			out = append(out, CorrelatedEntry{Status: Deleted, AStart: aLo, ALen: aLen, BStart: bLo, BLen: 0})
			return
		}
		if depth >= settings.RecursionDepthCap {
			out = append(out, CorrelatedEntry{Status: Unknown, AStart: aLo, ALen: aLen, BStart: bLo, BLen: bLen})
			return
		}

		m := findLongestMatch(a, b, aLo, aHi, bLo, bHi, settings)
		if m.length == 0 {
			out = append(out, CorrelatedEntry{Status: Unknown, AStart: aLo, ALen: aLen, BStart: bLo, BLen: bLen})
			return
		}

		anchorAStart := aLo + m.aOffset
		anchorBStart := bLo + m.bOffset

		recurse(aLo, anchorAStart, bLo, anchorBStart, depth+1)
		out = append(out, CorrelatedEntry{
			Status: Equal,
			AStart: anchorAStart, ALen: m.length,
			BStart: anchorBStart, BLen: m.length,
		})
		recurse(anchorAStart+m.length, aHi, anchorBStart+m.length, bHi, depth+1)
	}
	recurse(0, len(a), 0, len(b), 0)
	return Flatten(out)
}

// Flatten merges adjacent entries that share a status and are
// contiguous in both A and B, collapsing recursion artifacts (e.g. two
// adjacent Unknown entries produced by sibling recursive calls) into a
// single run.
func Flatten(seq CorrelatedSequence) CorrelatedSequence {
	if len(seq) == 0 {
		return seq
	}
	out := make(CorrelatedSequence, 0, len(seq))
	cur := seq[0]
	for _, e := range seq[1:] {
		if e.Status == cur.Status &&
			e.AStart == cur.AStart+cur.ALen &&
			e.BStart == cur.BStart+cur.BLen {
			cur.ALen += e.ALen
			cur.BLen += e.BLen
			continue
		}
		out = append(out, cur)
		cur = e
	}
	out = append(out, cur)
	return out
}
