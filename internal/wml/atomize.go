package wml

import (
	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
)

var ns = constants.NamespaceWordprocessingML

func wname(local string) xmltree.QName { return xmltree.QName{Space: ns, Local: local} }

// atomKind distinguishes the two granularities the comparer aligns on:
// whole runs (w:r) and paragraph marks (the w:pPr/rPr that trails a
// paragraph, which carries formatting but no text of its own).
type atomKind int

const (
	atomRun atomKind = iota
	atomParagraphMark
)

// atom is one alignment unit: a run or a paragraph mark, reduced to the
// hashes the LCS kernel and coarse-hash fallback compare by.
type atom struct {
	kind           atomKind
	node           xmltree.NodeID
	paragraph      xmltree.NodeID
	paragraphIndex int
	text           string
	identityHash   string
	coarseHash     string
}

// isTrackedWrapper reports whether n is a tracked-revision wrapper
// element (w:ins, w:del, w:moveFrom, w:moveTo) that atomization must
// look through: its children are real content, the wrapper itself is
// markup the comparer produced or the input document already carried
// from a prior round-trip through Word.
func isTrackedWrapper(n *xmltree.Node) bool {
	if !n.IsElement() || n.Name.Space != ns {
		return false
	}
	switch n.Name.Local {
	case "ins", "del", "moveFrom", "moveTo":
		return true
	}
	return false
}

// atomize walks body (the w:body element) and produces one atom per run
// and paragraph mark, in document order, looking through tracked-revision
// wrappers so a document that already contains accepted-looking markup
// still atomizes to the same sequence as its plain-text equivalent.
func atomize(t *xmltree.Tree, body xmltree.NodeID, opts canon.Options) []atom {
	var atoms []atom
	paragraphs := t.FindAll(body, func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == ns && n.Name.Local == "p"
	})
	for pi, p := range paragraphs {
		runs := findRuns(t, p)
		for _, r := range runs {
			atoms = append(atoms, atom{
				kind:           atomRun,
				node:           r,
				paragraph:      p,
				paragraphIndex: pi,
				text:           t.TextContent(r, nil),
				identityHash:   canon.IdentityHash(t, r, opts),
				coarseHash:     canon.CoarseHash(t, r, opts),
			})
		}
		mark := findParagraphMark(t, p)
		markIdentity, markCoarse := markHashes(t, p, opts)
		atoms = append(atoms, atom{
			kind:           atomParagraphMark,
			node:           mark,
			paragraph:      p,
			paragraphIndex: pi,
			identityHash:   markIdentity,
			coarseHash:     markCoarse,
		})
	}
	return atoms
}

// findRuns returns the direct w:r children of paragraph p, looking
// through one level of tracked-revision wrapper.
func findRuns(t *xmltree.Tree, p xmltree.NodeID) []xmltree.NodeID {
	var runs []xmltree.NodeID
	for _, c := range t.Children(p) {
		n := t.Get(c)
		if !n.IsElement() {
			continue
		}
		if n.Name.Space == ns && n.Name.Local == "r" {
			runs = append(runs, c)
			continue
		}
		if isTrackedWrapper(n) {
			for _, gc := range t.Children(c) {
				gn := t.Get(gc)
				if gn.IsElement() && gn.Name.Space == ns && gn.Name.Local == "r" {
					runs = append(runs, gc)
				}
			}
		}
	}
	return runs
}

// findParagraphMark returns p itself, used as the identity anchor for
// the paragraph-mark atom; the mark's formatting lives in w:pPr/w:rPr.
func findParagraphMark(t *xmltree.Tree, p xmltree.NodeID) xmltree.NodeID {
	return p
}

// markHashes hashes only the paragraph's w:pPr child (the paragraph
// mark's formatting), not the paragraph's content, so a paragraph-mark
// atom reflects formatting changes without also flagging every text
// edit in the paragraph as a paragraph-mark change. A paragraph with no
// w:pPr hashes to a fixed "no properties" sentinel instead of falling
// back to the whole paragraph.
func markHashes(t *xmltree.Tree, p xmltree.NodeID, opts canon.Options) (identity, coarse string) {
	for _, c := range t.Children(p) {
		n := t.Get(c)
		if n.IsElement() && n.Name.Space == ns && n.Name.Local == "pPr" {
			return canon.IdentityHash(t, c, opts), canon.CoarseHash(t, c, opts)
		}
	}
	const noProperties = "no-paragraph-properties"
	return canon.SHA1(noProperties), canon.SHA256(noProperties)
}
