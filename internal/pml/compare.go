package pml

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

const opCompare = "pml.Compare"

// Compare diffs olderBytes against newerBytes (both complete .pptx
// packages) and returns the marked-up newer deck plus a structured
// per-slide change list.
func Compare(olderBytes, newerBytes []byte, settings *ComparerSettings) (*Result, error) {
	if settings == nil {
		settings = NewSettings()
	}
	opts := canon.DefaultOptions()

	older, err := loadDeck(olderBytes, opts)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	newer, err := loadDeck(newerBytes, opts)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}

	pairs := matchSlides(older.slides, newer.slides, settings, opts)
	result := &Result{SlideCount: len(newer.slides)}

	for _, p := range pairs {
		sd := SlideDiff{OldIndex: p.oldIdx, NewIndex: p.newIdx, MatchKind: p.kind}
		if p.kind == SlideMatched || p.kind == SlideReordered {
			sd.Changes = diffSlide(older.slides[p.oldIdx], newer.slides[p.newIdx], settings)
			result.ShapeChanges += len(sd.Changes)
		}
		result.Slides = append(result.Slides, sd)

		if settings.AnnotateSlides && p.kind == SlideMatched && len(sd.Changes) > 0 {
			annotateSlide(newer.slides[p.newIdx].tree, len(sd.Changes))
		}
	}

	for _, sl := range newer.slides {
		if err := newer.pkg.PutXMLPart(opCompare, sl.partPath, sl.tree); err != nil {
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

// annotateSlide appends a small text-box shape to the slide's spTree
// noting how many changes were detected, so the marked deck shows
// redlines at a glance without requiring a side-by-side report.
func annotateSlide(t *xmltree.Tree, changeCount int) {
	spTree := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == pns && n.Name.Local == "spTree"
	})
	if spTree == xmltree.NoNode {
		return
	}

	// The annotation's display name carries a uuid suffix so it never
	// collides with an author-given shape name when a slide already has
	// its own "RedlineAnnotation" text box from a prior comparison pass.
	annotationName := "RedlineAnnotation-" + uuid.NewString()

	sp := t.AddElement(spTree, pname("sp"), nil)
	nvSpPr := t.AddElement(sp, pname("nvSpPr"), nil)
	t.AddElement(nvSpPr, pname("cNvPr"), []xmltree.Attr{
		{Name: xmltree.QName{Local: "id"}, Value: "9001"},
		{Name: xmltree.QName{Local: "name"}, Value: annotationName},
	})
	t.AddElement(nvSpPr, pname("cNvSpPr"), nil)
	t.AddElement(nvSpPr, pname("nvPr"), nil)

	spPr := t.AddElement(sp, pname("spPr"), nil)
	xfrm := t.AddElement(spPr, dname("xfrm"), nil)
	t.AddElement(xfrm, dname("off"), []xmltree.Attr{
		{Name: xmltree.QName{Local: "x"}, Value: "0"},
		{Name: xmltree.QName{Local: "y"}, Value: "0"},
	})
	t.AddElement(xfrm, dname("ext"), []xmltree.Attr{
		{Name: xmltree.QName{Local: "cx"}, Value: "2743200"},
		{Name: xmltree.QName{Local: "cy"}, Value: "457200"},
	})
	t.AddElement(spPr, dname("prstGeom"), []xmltree.Attr{
		{Name: xmltree.QName{Local: "prst"}, Value: "rect"},
	})

	txBody := t.AddElement(sp, pname("txBody"), nil)
	t.AddElement(txBody, dname("bodyPr"), nil)
	para := t.AddElement(txBody, dname("p"), nil)
	run := t.AddElement(para, dname("r"), nil)
	text := t.AddElement(run, dname("t"), nil)
	t.AddText(text, strconv.Itoa(changeCount)+" change(s)")
}
