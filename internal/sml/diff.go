package sml

import (
	"math"
	"strconv"
	"strings"

	"github.com/oxmlredline/redline/internal/canon"
)

// diffSheet compares a matched sheet pair. Rows are aligned first via
// alignRows (LCS over row-content hashes): rows with no counterpart are
// reported whole (RowAdded/RowDeleted) instead of cascading into
// spurious per-cell changes, and only the remaining matched row pairs
// are diffed cell-by-cell. Auxiliary anchors (merged cells, data
// validations, hyperlinks, comments) are diffed as unordered sets keyed
// by anchor address, gated behind their respective settings.
func diffSheet(old, new *sheet, settings *ComparerSettings) ([]CellChange, []AuxChange) {
	matched, changes := alignRows(old.cells, new.cells)
	_, oldRows := groupByRow(old.cells)
	_, newRows := groupByRow(new.cells)
	for _, pair := range matched {
		changes = append(changes, diffRow(oldRows[pair[0]], newRows[pair[1]], settings)...)
	}

	var aux []AuxChange
	if settings.CompareMergedCells {
		aux = append(aux, diffMergedCells(old.mergedCells, new.mergedCells)...)
	}
	if settings.CompareDataValidations {
		aux = append(aux, diffKeyedStrings("dataValidation", old.dataValidations, new.dataValidations)...)
	}
	if settings.CompareHyperlinks {
		aux = append(aux, diffKeyedStrings("hyperlink", old.hyperlinks, new.hyperlinks)...)
	}
	if settings.CompareComments {
		aux = append(aux, diffKeyedStrings("comment", old.comments, new.comments)...)
	}
	return changes, aux
}

// diffRow compares two same-row cell sets by column letter rather than
// full address, so a row that shifted line number (its counterpart
// matched by content, not by position) still diffs its cells correctly.
func diffRow(oldRow, newRow map[string]cell, settings *ComparerSettings) []CellChange {
	oldByCol := map[string]cell{}
	for _, c := range oldRow {
		oldByCol[columnOf(c.address)] = c
	}
	newByCol := map[string]cell{}
	for _, c := range newRow {
		newByCol[columnOf(c.address)] = c
	}

	var changes []CellChange
	seen := map[string]bool{}
	for col, oc := range oldByCol {
		seen[col] = true
		nc, ok := newByCol[col]
		if !ok {
			changes = append(changes, CellChange{Address: oc.address, Type: CellDeleted, OldValue: oc.value})
			continue
		}
		if oc.formula != nc.formula && (oc.formula != "" || nc.formula != "") {
			changes = append(changes, CellChange{Address: nc.address, Type: CellFormulaChanged, OldValue: oc.formula, NewValue: nc.formula})
			continue
		}
		if !valuesEqual(oc.value, nc.value, settings) {
			changes = append(changes, CellChange{Address: nc.address, Type: CellValueChanged, OldValue: oc.value, NewValue: nc.value})
		}
	}
	for col, nc := range newByCol {
		if seen[col] {
			continue
		}
		changes = append(changes, CellChange{Address: nc.address, Type: CellAdded, NewValue: nc.value})
	}
	return changes
}

func valuesEqual(a, b string, settings *ComparerSettings) bool {
	if fa, erra := strconv.ParseFloat(a, 64); erra == nil {
		if fb, errb := strconv.ParseFloat(b, 64); errb == nil {
			tol := settings.NumericTolerance
			return math.Abs(fa-fb) <= tol
		}
	}
	if settings.CaseInsensitive {
		return canon.ToUpperInvariant(strings.TrimSpace(a)) == canon.ToUpperInvariant(strings.TrimSpace(b))
	}
	return a == b
}
