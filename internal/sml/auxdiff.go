package sml

// diffKeyedStrings compares two address-keyed string maps (hyperlink
// targets, data-validation signatures, comment text, named-range
// formulas) as an unordered set keyed by anchor address.
func diffKeyedStrings(kind string, old, new map[string]string) []AuxChange {
	var changes []AuxChange
	seen := map[string]bool{}
	for addr, ov := range old {
		seen[addr] = true
		nv, ok := new[addr]
		if !ok {
			changes = append(changes, AuxChange{Kind: kind, Anchor: addr, Type: CellDeleted, OldValue: ov})
			continue
		}
		if ov != nv {
			changes = append(changes, AuxChange{Kind: kind, Anchor: addr, Type: CellValueChanged, OldValue: ov, NewValue: nv})
		}
	}
	for addr, nv := range new {
		if seen[addr] {
			continue
		}
		changes = append(changes, AuxChange{Kind: kind, Anchor: addr, Type: CellAdded, NewValue: nv})
	}
	return changes
}

// diffMergedCells compares two sets of merge ranges; a merge range has
// no separate "value" beyond its extent, so ranges are either present or
// not, never changed in place.
func diffMergedCells(old, new []string) []AuxChange {
	oldSet := map[string]bool{}
	for _, r := range old {
		oldSet[r] = true
	}
	newSet := map[string]bool{}
	for _, r := range new {
		newSet[r] = true
	}
	var changes []AuxChange
	for r := range oldSet {
		if !newSet[r] {
			changes = append(changes, AuxChange{Kind: "mergedCell", Anchor: r, Type: CellDeleted})
		}
	}
	for r := range newSet {
		if !oldSet[r] {
			changes = append(changes, AuxChange{Kind: "mergedCell", Anchor: r, Type: CellAdded})
		}
	}
	return changes
}
