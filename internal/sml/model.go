package sml

import (
	"path"
	"strconv"
	"strings"

	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

var ns = constants.NamespaceSpreadsheetML
var relNS = constants.NamespaceRelationships

func sname(local string) xmltree.QName { return xmltree.QName{Space: ns, Local: local} }

// cell is one parsed <c> entry: its address, resolved display value, and
// formula text if present.
type cell struct {
	address string
	value   string
	formula string
}

// sheet is one parsed worksheet: its declared name (from workbook.xml),
// every <c> that carries an address (empty values included) keyed by
// that address, and its auxiliary anchors
// (merges, validations, hyperlinks, comments) kept as unordered sets
// keyed by anchor address.
type sheet struct {
	name  string
	order int
	cells map[string]cell

	mergedCells     []string          // merge ranges, e.g. "A1:B2"
	dataValidations map[string]string // sqref -> "type:formula1"
	hyperlinks      map[string]string // cell address -> resolved target
	comments        map[string]string // cell address -> comment text
}

// workbook is the parsed signature of an entire .xlsx package.
type workbook struct {
	pkg         *ooxml.Package
	sheets      []sheet
	namedRanges map[string]string // name -> formula/ref
}

const opLoad = "sml.loadWorkbook"

func loadWorkbook(data []byte) (*workbook, error) {
	pkg, err := ooxml.Open(data)
	if err != nil {
		return nil, rerr.Wrap(err, opLoad)
	}

	wbTree, err := pkg.GetXMLPart(opLoad, constants.SMLWorkbookPart)
	if err != nil {
		return nil, err
	}

	sheetsEl := wbTree.FindFirst(wbTree.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == ns && n.Name.Local == "sheets"
	})
	if sheetsEl == xmltree.NoNode {
		return nil, rerr.XMLParse(opLoad, constants.SMLWorkbookPart, "workbook has no <sheets>")
	}

	rels := pkg.RelationshipsFor(constants.SMLWorkbookPart)
	relTarget := map[string]string{}
	for _, r := range rels {
		relTarget[r.ID] = resolveRelTarget(constants.SMLWorkbookPart, r.Target)
	}

	sharedStrings := loadSharedStrings(pkg)

	var sheets []sheet
	for i, c := range wbTree.Children(sheetsEl) {
		n := wbTree.Get(c)
		if !n.IsElement() || n.Name.Local != "sheet" {
			continue
		}
		var name, rid string
		for _, a := range n.Attrs {
			if a.Name.Local == "name" {
				name = a.Value
			}
			if a.Name.Space == relNS && a.Name.Local == "id" {
				rid = a.Value
			}
		}
		target := relTarget[rid]
		aux, err := loadWorksheet(pkg, target, sharedStrings)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet{
			name:            name,
			order:           i,
			cells:           aux.cells,
			mergedCells:     aux.mergedCells,
			dataValidations: aux.dataValidations,
			hyperlinks:      aux.hyperlinks,
			comments:        aux.comments,
		})
	}

	return &workbook{pkg: pkg, sheets: sheets, namedRanges: loadNamedRanges(wbTree)}, nil
}

// loadNamedRanges reads every <definedName> declared at workbook scope;
// sheet-scoped names (attribute localSheetId) are kept under their bare
// name since named ranges are compared at workbook level only.
func loadNamedRanges(wbTree *xmltree.Tree) map[string]string {
	dn := wbTree.FindFirst(wbTree.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "definedNames"
	})
	if dn == xmltree.NoNode {
		return nil
	}
	out := map[string]string{}
	for _, c := range wbTree.Children(dn) {
		n := wbTree.Get(c)
		if !n.IsElement() || n.Name.Local != "definedName" {
			continue
		}
		var name string
		for _, a := range n.Attrs {
			if a.Name.Local == "name" {
				name = a.Value
			}
		}
		if name == "" {
			continue
		}
		out[name] = wbTree.TextContent(c, nil)
	}
	return out
}

func resolveRelTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(sourcePart), target)
}

func loadSharedStrings(pkg *ooxml.Package) []string {
	t, err := pkg.GetXMLPart(opLoad, constants.SMLSharedStrings)
	if err != nil {
		return nil
	}
	var out []string
	for _, si := range t.Children(t.Root()) {
		n := t.Get(si)
		if !n.IsElement() || n.Name.Local != "si" {
			continue
		}
		out = append(out, t.TextContent(si, nil))
	}
	return out
}

// sheetAux bundles everything extracted from one worksheet part: its
// cells plus its auxiliary anchors.
type sheetAux struct {
	cells           map[string]cell
	mergedCells     []string
	dataValidations map[string]string
	hyperlinks      map[string]string
	comments        map[string]string
}

func loadWorksheet(pkg *ooxml.Package, partPath string, sharedStrings []string) (sheetAux, error) {
	if partPath == "" {
		return sheetAux{cells: map[string]cell{}}, nil
	}
	t, err := pkg.GetXMLPart(opLoad, partPath)
	if err != nil {
		return sheetAux{}, err
	}
	cells, err := extractCells(t, sharedStrings)
	if err != nil {
		return sheetAux{}, err
	}
	return sheetAux{
		cells:           cells,
		mergedCells:     mergedCellRanges(t),
		dataValidations: dataValidationSignatures(t),
		hyperlinks:      hyperlinkTargets(t, pkg, partPath),
		comments:        commentsFor(pkg, partPath),
	}, nil
}

func extractCells(t *xmltree.Tree, sharedStrings []string) (map[string]cell, error) {
	cells := map[string]cell{}
	sheetData := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "sheetData"
	})
	if sheetData == xmltree.NoNode {
		return cells, nil
	}
	for _, rowID := range t.Children(sheetData) {
		row := t.Get(rowID)
		if !row.IsElement() || row.Name.Local != "row" {
			continue
		}
		for _, cID := range t.Children(rowID) {
			cn := t.Get(cID)
			if !cn.IsElement() || cn.Name.Local != "c" {
				continue
			}
			addr, cellType := "", ""
			for _, a := range cn.Attrs {
				if a.Name.Local == "r" {
					addr = a.Value
				}
				if a.Name.Local == "t" {
					cellType = a.Value
				}
			}
			if addr == "" {
				continue
			}
			var formula, raw string
			for _, c2 := range t.Children(cID) {
				n2 := t.Get(c2)
				if !n2.IsElement() {
					continue
				}
				switch n2.Name.Local {
				case "f":
					formula = t.TextContent(c2, nil)
				case "v":
					raw = t.TextContent(c2, nil)
				case "is":
					raw = t.TextContent(c2, nil)
				}
			}
			value := raw
			if cellType == "s" {
				if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(sharedStrings) {
					value = sharedStrings[idx]
				}
			}
			cells[addr] = cell{address: addr, value: value, formula: formula}
		}
	}
	return cells, nil
}

// mergedCellRanges returns every <mergeCell ref="..."/> range declared on
// the worksheet.
func mergedCellRanges(t *xmltree.Tree) []string {
	mc := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "mergeCells"
	})
	if mc == xmltree.NoNode {
		return nil
	}
	var ranges []string
	for _, c := range t.Children(mc) {
		n := t.Get(c)
		if !n.IsElement() || n.Name.Local != "mergeCell" {
			continue
		}
		for _, a := range n.Attrs {
			if a.Name.Local == "ref" {
				ranges = append(ranges, a.Value)
			}
		}
	}
	return ranges
}

// dataValidationSignatures returns, per sqref range, a "type:formula1"
// signature describing the worksheet's declared validations.
func dataValidationSignatures(t *xmltree.Tree) map[string]string {
	dv := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "dataValidations"
	})
	if dv == xmltree.NoNode {
		return nil
	}
	out := map[string]string{}
	for _, c := range t.Children(dv) {
		n := t.Get(c)
		if !n.IsElement() || n.Name.Local != "dataValidation" {
			continue
		}
		var sqref, typ string
		for _, a := range n.Attrs {
			if a.Name.Local == "sqref" {
				sqref = a.Value
			}
			if a.Name.Local == "type" {
				typ = a.Value
			}
		}
		if sqref == "" {
			continue
		}
		formula := ""
		for _, fc := range t.Children(c) {
			fn := t.Get(fc)
			if fn.IsElement() && fn.Name.Local == "formula1" {
				formula = t.TextContent(fc, nil)
			}
		}
		out[sqref] = typ + ":" + formula
	}
	return out
}

// hyperlinkTargets returns, per cell address, the resolved hyperlink
// target declared on the worksheet, resolving each r:id against the
// worksheet's own relationships part.
func hyperlinkTargets(t *xmltree.Tree, pkg *ooxml.Package, partPath string) map[string]string {
	hl := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "hyperlinks"
	})
	if hl == xmltree.NoNode {
		return nil
	}
	relTarget := map[string]string{}
	for _, r := range pkg.RelationshipsFor(partPath) {
		relTarget[r.ID] = r.Target
	}
	out := map[string]string{}
	for _, c := range t.Children(hl) {
		n := t.Get(c)
		if !n.IsElement() || n.Name.Local != "hyperlink" {
			continue
		}
		var ref, rid string
		for _, a := range n.Attrs {
			if a.Name.Local == "ref" {
				ref = a.Value
			}
			if a.Name.Space == relNS && a.Name.Local == "id" {
				rid = a.Value
			}
		}
		if ref == "" {
			continue
		}
		out[ref] = relTarget[rid]
	}
	return out
}

// commentsFor loads per-cell comment text from the worksheet's comments
// part, if it declares a relationship to one.
func commentsFor(pkg *ooxml.Package, partPath string) map[string]string {
	var commentsPart string
	for _, r := range pkg.RelationshipsFor(partPath) {
		if r.Type == constants.RelTypeComments {
			commentsPart = resolveRelTarget(partPath, r.Target)
		}
	}
	if commentsPart == "" {
		return nil
	}
	t, err := pkg.GetXMLPart(opLoad, commentsPart)
	if err != nil {
		return nil
	}
	cl := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "commentList"
	})
	if cl == xmltree.NoNode {
		return nil
	}
	out := map[string]string{}
	for _, c := range t.Children(cl) {
		n := t.Get(c)
		if !n.IsElement() || n.Name.Local != "comment" {
			continue
		}
		var ref string
		for _, a := range n.Attrs {
			if a.Name.Local == "ref" {
				ref = a.Value
			}
		}
		if ref == "" {
			continue
		}
		out[ref] = t.TextContent(c, nil)
	}
	return out
}
