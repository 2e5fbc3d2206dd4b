package sml

import "testing"

func TestJaccardSimilarityIdenticalSets(t *testing.T) {
	a := map[string]cell{"A1": {value: "x"}, "A2": {value: "y"}}
	b := map[string]cell{"A1": {value: "x"}, "A2": {value: "y"}}
	if s := jaccardSimilarity(a, b); s != 1 {
		t.Fatalf("expected similarity 1, got %v", s)
	}
}

func TestJaccardSimilarityDisjointSets(t *testing.T) {
	a := map[string]cell{"A1": {value: "x"}}
	b := map[string]cell{"A1": {value: "z"}}
	if s := jaccardSimilarity(a, b); s != 0 {
		t.Fatalf("expected similarity 0, got %v", s)
	}
}

func TestMatchSheetsExactNameWins(t *testing.T) {
	older := []sheet{{name: "Sheet1", cells: map[string]cell{"A1": {value: "a"}}}}
	newer := []sheet{{name: "Sheet1", cells: map[string]cell{"A1": {value: "a"}}}}
	pairs := matchSheets(older, newer, NewSettings())
	if len(pairs) != 1 || pairs[0].kind != SheetMatched {
		t.Fatalf("expected one exact match, got %+v", pairs)
	}
}

func TestDiffSheetDetectsValueChange(t *testing.T) {
	old := &sheet{cells: map[string]cell{"A1": {address: "A1", value: "1"}}}
	new := &sheet{cells: map[string]cell{"A1": {address: "A1", value: "2"}}}
	changes, _ := diffSheet(old, new, NewSettings())
	if len(changes) != 1 || changes[0].Type != CellValueChanged {
		t.Fatalf("expected one value change, got %+v", changes)
	}
}

func TestDiffSheetNumericToleranceSuppressesNoise(t *testing.T) {
	old := &sheet{cells: map[string]cell{"A1": {address: "A1", value: "1.0000"}}}
	new := &sheet{cells: map[string]cell{"A1": {address: "A1", value: "1.0001"}}}
	settings := NewSettings(WithNumericTolerance(0.001))
	changes, _ := diffSheet(old, new, settings)
	if len(changes) != 0 {
		t.Fatalf("expected no changes within tolerance, got %+v", changes)
	}
}

func TestDiffSheetReportsRowAddedWithoutCellCascade(t *testing.T) {
	old := &sheet{cells: map[string]cell{
		"A1": {address: "A1", value: "h1"},
		"A2": {address: "A2", value: "keep"},
	}}
	new := &sheet{cells: map[string]cell{
		"A1": {address: "A1", value: "h1"},
		"A2": {address: "A2", value: "new row"},
		"A3": {address: "A3", value: "keep"},
	}}
	changes, _ := diffSheet(old, new, NewSettings())
	var sawAdded bool
	for _, c := range changes {
		switch c.Type {
		case RowAdded:
			sawAdded = true
		case CellDeleted, CellValueChanged:
			t.Fatalf("row insertion cascaded into a spurious cell change: %+v", c)
		}
	}
	if !sawAdded {
		t.Fatalf("expected a RowAdded change, got %+v", changes)
	}
}

func TestDiffKeyedStringsDetectsAddRemoveChange(t *testing.T) {
	old := map[string]string{"A1": "http://old", "A2": "http://gone"}
	new := map[string]string{"A1": "http://new", "A3": "http://added"}
	changes := diffKeyedStrings("hyperlink", old, new)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %+v", changes)
	}
}

func TestColumnLetterWrapsPastZ(t *testing.T) {
	if columnLetter(0) != "A" || columnLetter(25) != "Z" || columnLetter(26) != "AA" {
		t.Fatalf("unexpected column letters: %q %q %q", columnLetter(0), columnLetter(25), columnLetter(26))
	}
}
