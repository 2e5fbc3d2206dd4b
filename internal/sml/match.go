package sml

// sheetPair associates an older sheet with its matched newer
// counterpart, or leaves one side absent for Added/Deleted.
type sheetPair struct {
	old  *sheet
	new  *sheet
	kind SheetMatchKind
}

// matchSheets pairs older and newer sheets: exact name matches first,
// then unmatched sheets are paired by Jaccard similarity of their
// cell-value sets above settings.RenameSimilarityThreshold, taken
// greedily strongest-pair-first. Ties (equal similarity scores) are
// broken by earliest declaration order in the older workbook.
func matchSheets(older, newer []sheet, settings *ComparerSettings) []sheetPair {
	usedOld := make([]bool, len(older))
	usedNew := make([]bool, len(newer))
	var pairs []sheetPair

	for i := range older {
		for j := range newer {
			if usedNew[j] {
				continue
			}
			if older[i].name == newer[j].name {
				pairs = append(pairs, sheetPair{old: &older[i], new: &newer[j], kind: SheetMatched})
				usedOld[i] = true
				usedNew[j] = true
				break
			}
		}
	}

	type candidate struct {
		oi, nj int
		score  float64
	}
	var candidates []candidate
	for i := range older {
		if usedOld[i] {
			continue
		}
		for j := range newer {
			if usedNew[j] {
				continue
			}
			score := jaccardSimilarity(older[i].cells, newer[j].cells)
			if score >= settings.RenameSimilarityThreshold {
				candidates = append(candidates, candidate{oi: i, nj: j, score: score})
			}
		}
	}
	for {
		bestIdx := -1
		for k, c := range candidates {
			if usedOld[c.oi] || usedNew[c.nj] {
				continue
			}
			if bestIdx == -1 {
				bestIdx = k
				continue
			}
			b := candidates[bestIdx]
			if c.score > b.score ||
				(c.score == b.score && c.oi < b.oi) ||
				(c.score == b.score && c.oi == b.oi && c.nj < b.nj) {
				bestIdx = k
			}
		}
		if bestIdx == -1 {
			break
		}
		c := candidates[bestIdx]
		pairs = append(pairs, sheetPair{old: &older[c.oi], new: &newer[c.nj], kind: SheetRenamed})
		usedOld[c.oi] = true
		usedNew[c.nj] = true
	}

	for i := range older {
		if !usedOld[i] {
			pairs = append(pairs, sheetPair{old: &older[i], kind: SheetDeleted})
		}
	}
	for j := range newer {
		if !usedNew[j] {
			pairs = append(pairs, sheetPair{new: &newer[j], kind: SheetAdded})
		}
	}
	return pairs
}

// jaccardSimilarity compares two sheets' cell-value sets: |A∩B| / |A∪B|
// over the set of distinct non-empty cell values each sheet contains.
func jaccardSimilarity(a, b map[string]cell) float64 {
	setA := map[string]bool{}
	for _, c := range a {
		if c.value != "" {
			setA[c.value] = true
		}
	}
	setB := map[string]bool{}
	for _, c := range b {
		if c.value != "" {
			setB[c.value] = true
		}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for v := range setA {
		if setB[v] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
