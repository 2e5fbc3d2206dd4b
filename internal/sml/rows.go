package sml

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/lcs"
)

// rowNumberOf extracts the 1-based row number from a cell address like
// "B12" (0 if the address carries no trailing digits).
func rowNumberOf(address string) int {
	i := len(address)
	for i > 0 && address[i-1] >= '0' && address[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(address[i:])
	if err != nil {
		return 0
	}
	return n
}

// columnOf strips the trailing row number off a cell address, leaving
// the column letters ("B12" -> "B").
func columnOf(address string) string {
	i := len(address)
	for i > 0 && address[i-1] >= '0' && address[i-1] <= '9' {
		i--
	}
	return address[:i]
}

// groupByRow buckets cells by row number, returning the sorted list of
// row numbers present and each row's cells keyed by address.
func groupByRow(cells map[string]cell) ([]int, map[int]map[string]cell) {
	rows := map[int]map[string]cell{}
	for addr, c := range cells {
		n := rowNumberOf(addr)
		if rows[n] == nil {
			rows[n] = map[string]cell{}
		}
		rows[n][addr] = c
	}
	nums := make([]int, 0, len(rows))
	for n := range rows {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums, rows
}

// rowHash returns a content-addressed signature for one row's cells,
// independent of map iteration order, for use as an LCS alignment atom.
func rowHash(row map[string]cell) string {
	addrs := make([]string, 0, len(row))
	for addr := range row {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	var b strings.Builder
	for _, addr := range addrs {
		c := row[addr]
		b.WriteString(columnOf(addr))
		b.WriteByte('=')
		b.WriteString(c.value)
		b.WriteByte(';')
		b.WriteString(c.formula)
		b.WriteByte('|')
	}
	return canon.SHA1(b.String())
}

// alignRows aligns old and new sheet rows by LCS over row-content
// hashes, reporting whole-row RowAdded/RowDeleted changes for rows with
// no counterpart and returning the row-number pairs that should still
// be diffed cell-by-cell.
func alignRows(oldCells, newCells map[string]cell) (matched [][2]int, changes []CellChange) {
	oldNums, oldRows := groupByRow(oldCells)
	newNums, newRows := groupByRow(newCells)

	oldHashes := make([]string, len(oldNums))
	for i, n := range oldNums {
		oldHashes[i] = rowHash(oldRows[n])
	}
	newHashes := make([]string, len(newNums))
	for i, n := range newNums {
		newHashes[i] = rowHash(newRows[n])
	}

	seq := lcs.Correlate(oldHashes, newHashes, lcs.DefaultSettings())
	for _, e := range seq {
		switch e.Status {
		case lcs.Equal:
			for i := 0; i < e.ALen; i++ {
				matched = append(matched, [2]int{oldNums[e.AStart+i], newNums[e.BStart+i]})
			}
		case lcs.Deleted:
			for i := 0; i < e.ALen; i++ {
				changes = append(changes, CellChange{Address: rowAddress(oldNums[e.AStart+i]), Type: RowDeleted})
			}
		case lcs.Inserted:
			for i := 0; i < e.BLen; i++ {
				changes = append(changes, CellChange{Address: rowAddress(newNums[e.BStart+i]), Type: RowAdded})
			}
		default: // lcs.Unknown: pair what we can by position, report the rest as whole-row add/delete
			n := e.ALen
			if e.BLen < n {
				n = e.BLen
			}
			for i := 0; i < n; i++ {
				matched = append(matched, [2]int{oldNums[e.AStart+i], newNums[e.BStart+i]})
			}
			for i := n; i < e.ALen; i++ {
				changes = append(changes, CellChange{Address: rowAddress(oldNums[e.AStart+i]), Type: RowDeleted})
			}
			for i := n; i < e.BLen; i++ {
				changes = append(changes, CellChange{Address: rowAddress(newNums[e.BStart+i]), Type: RowAdded})
			}
		}
	}
	return matched, changes
}

func rowAddress(rowNum int) string {
	return "R" + strconv.Itoa(rowNum)
}
