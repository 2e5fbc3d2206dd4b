package sml

import (
	"fmt"
	"strconv"

	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

const opCompare = "sml.Compare"

// Compare diffs olderBytes against newerBytes (both complete .xlsx
// packages) and returns the marked-up newer workbook plus a structured
// per-sheet change list.
func Compare(olderBytes, newerBytes []byte, settings *ComparerSettings) (*Result, error) {
	if settings == nil {
		settings = NewSettings()
	}

	older, err := loadWorkbook(olderBytes)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	newer, err := loadWorkbook(newerBytes)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}

	pairs := matchSheets(older.sheets, newer.sheets, settings)
	result := &Result{}

	for _, p := range pairs {
		var sd SheetDiff
		switch p.kind {
		case SheetAdded:
			sd = SheetDiff{NewName: p.new.name, MatchKind: SheetAdded}
			result.TotalChanges++
		case SheetDeleted:
			sd = SheetDiff{OldName: p.old.name, MatchKind: SheetDeleted}
			result.TotalChanges++
		default:
			sd = SheetDiff{OldName: p.old.name, NewName: p.new.name, MatchKind: p.kind}
			sd.CellChanges, sd.AuxChanges = diffSheet(p.old, p.new, settings)
			result.TotalChanges += len(sd.CellChanges) + len(sd.AuxChanges)
		}
		result.Sheets = append(result.Sheets, sd)
	}

	if settings.CompareNamedRanges {
		result.NamedRangeChanges = diffKeyedStrings("namedRange", older.namedRanges, newer.namedRanges)
		result.TotalChanges += len(result.NamedRangeChanges)
	}

	if settings.EmitSummarySheet {
		if err := appendSummarySheet(newer.pkg, result); err != nil {
			return nil, rerr.Wrap(err, opCompare)
		}
	}

	out, err := ooxml.Save(newer.pkg)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	result.MarkedDocument = out
	return result, nil
}

// appendSummarySheet adds a "RedlineChanges" worksheet to pkg enumerating
// every reported change, wired through the workbook's sheet list,
// relationships, and content-types table the same way a new sheet added
// by Excel itself would be.
func appendSummarySheet(pkg *ooxml.Package, result *Result) error {
	const partPath = "xl/worksheets/sheetRedline.xml"
	const opAppend = "sml.appendSummarySheet"

	rows := [][]string{{"Sheet", "Address/Kind", "Change", "Old Value", "New Value"}}
	for _, sd := range result.Sheets {
		switch sd.MatchKind {
		case SheetAdded:
			rows = append(rows, []string{sd.NewName, "", "SheetAdded", "", ""})
		case SheetDeleted:
			rows = append(rows, []string{sd.OldName, "", "SheetDeleted", "", ""})
		case SheetRenamed:
			rows = append(rows, []string{sd.NewName, "", "SheetRenamed(" + sd.OldName + ")", "", ""})
		}
		for _, c := range sd.CellChanges {
			rows = append(rows, []string{sd.NewName, c.Address, c.Type.String(), c.OldValue, c.NewValue})
		}
		for _, ac := range sd.AuxChanges {
			rows = append(rows, []string{sd.NewName, ac.Kind + ":" + ac.Anchor, ac.Type.String(), ac.OldValue, ac.NewValue})
		}
	}
	for _, nr := range result.NamedRangeChanges {
		rows = append(rows, []string{"", "namedRange:" + nr.Anchor, nr.Type.String(), nr.OldValue, nr.NewValue})
	}

	sheetTree := buildInlineStringSheet(rows)
	if err := pkg.PutXMLPart(opAppend, partPath, sheetTree); err != nil {
		return err
	}

	pkg.Overrides = append(pkg.Overrides, ooxml.Override{
		PartName:    "/" + partPath,
		ContentType: constants.ContentTypeExcelWorksheet,
	})

	wbRels := pkg.Relationships[constants.SMLWorkbookPart]
	newID := nextRelID(wbRels)
	wbRels = append(wbRels, ooxml.Relationship{
		ID:     newID,
		Type:   constants.RelTypeWorksheet,
		Target: "worksheets/sheetRedline.xml",
	})
	pkg.Relationships[constants.SMLWorkbookPart] = wbRels

	wbTree, err := pkg.GetXMLPart(opAppend, constants.SMLWorkbookPart)
	if err != nil {
		return err
	}
	sheetsEl := wbTree.FindFirst(wbTree.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == ns && n.Name.Local == "sheets"
	})
	if sheetsEl == xmltree.NoNode {
		return rerr.XMLParse(opAppend, constants.SMLWorkbookPart, "workbook has no <sheets>")
	}
	maxSheetID := 0
	for _, c := range wbTree.Children(sheetsEl) {
		n := wbTree.Get(c)
		for _, a := range n.Attrs {
			if a.Name.Local == "sheetId" {
				if v, err := strconv.Atoi(a.Value); err == nil && v > maxSheetID {
					maxSheetID = v
				}
			}
		}
	}
	wbTree.AddElement(sheetsEl, sname("sheet"), []xmltree.Attr{
		{Name: xmltree.QName{Local: "name"}, Value: "RedlineChanges"},
		{Name: xmltree.QName{Local: "sheetId"}, Value: strconv.Itoa(maxSheetID + 1)},
		{Name: xmltree.QName{Space: relNS, Local: "id"}, Value: newID},
	})
	return pkg.PutXMLPart(opAppend, constants.SMLWorkbookPart, wbTree)
}

func nextRelID(rels []ooxml.Relationship) string {
	max := 0
	for _, r := range rels {
		var n int
		if _, err := fmt.Sscanf(r.ID, "rId%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

func buildInlineStringSheet(rows [][]string) *xmltree.Tree {
	t := xmltree.New()
	root := t.AddRoot(sname("worksheet"), nil)
	sheetData := t.AddElement(root, sname("sheetData"), nil)
	for r, row := range rows {
		rowEl := t.AddElement(sheetData, sname("row"), []xmltree.Attr{
			{Name: xmltree.QName{Local: "r"}, Value: strconv.Itoa(r + 1)},
		})
		for c, val := range row {
			addr := columnLetter(c) + strconv.Itoa(r+1)
			cellEl := t.AddElement(rowEl, sname("c"), []xmltree.Attr{
				{Name: xmltree.QName{Local: "r"}, Value: addr},
				{Name: xmltree.QName{Local: "t"}, Value: "inlineStr"},
			})
			is := t.AddElement(cellEl, sname("is"), nil)
			tEl := t.AddElement(is, sname("t"), nil)
			t.AddText(tEl, val)
		}
	}
	return t
}

func columnLetter(index int) string {
	s := ""
	for {
		s = string(rune('A'+index%26)) + s
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return s
}
