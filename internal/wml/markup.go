package wml

import (
	"strconv"

	"github.com/oxmlredline/redline/internal/xmltree"
)

// markupBuilder splices tracked-revision wrapper elements into
// markedTree (a clone of the newer document) as the correlation pass
// classifies each atom. revisionID is a monotonic per-comparison
// counter, not process-wide — every Compare call starts a fresh
// sequence.
type markupBuilder struct {
	settings   *ComparerSettings
	olderTree  *xmltree.Tree
	newerTree  *xmltree.Tree
	markedTree *xmltree.Tree
	revisionID int
}

func (b *markupBuilder) nextRevisionID() int {
	b.revisionID++
	return b.revisionID
}

func (b *markupBuilder) wrapAttrs(id int) []xmltree.Attr {
	attrs := []xmltree.Attr{
		{Name: wname("id"), Value: strconv.Itoa(id)},
		{Name: wname("author"), Value: b.settings.Author},
	}
	if b.settings.DateTime != "" {
		attrs = append(attrs, xmltree.Attr{Name: wname("date"), Value: b.settings.DateTime})
	}
	return attrs
}

// markInserted wraps the run (or, for a paragraph mark, records an
// insertion marker on the paragraph's w:rPr under w:pPr) in the newer
// document's clone in a w:ins element, since the node already lives in
// markedTree at the same NodeID the newer document's own tree assigned
// it — both were built by the same pre-order traversal (Parse, then
// Clone), so positions line up without needing a lookup table.
func (b *markupBuilder) markInserted(a atom) {
	id := b.nextRevisionID()
	if a.kind == atomParagraphMark {
		markParagraphMarkInsertion(b.markedTree, a.node, b.wrapAttrs(id))
		return
	}
	wrapper := b.markedTree.InsertElementBefore(a.node, wname("ins"), b.wrapAttrs(id))
	b.markedTree.Reparent(a.node, wrapper)
}

// markDeleted clones the run (or paragraph, for a paragraph-mark
// deletion) from the older document into markedTree, wrapped in w:del,
// and converts any w:t children to w:delText per the tracked-deletion
// convention. It is appended as the last child of the paragraph at the
// same paragraphIndex in the marked tree, after that paragraph's own
// runs, so deleted and retained content of one logical paragraph stay
// adjacent in the rendered markup.
func (b *markupBuilder) markDeleted(a atom, markedBody xmltree.NodeID) {
	id := b.nextRevisionID()
	target := paragraphAt(b.markedTree, markedBody, a.paragraphIndex)
	if target == xmltree.NoNode {
		target = markedBody
	}
	if a.kind == atomParagraphMark {
		markParagraphMarkDeletion(b.markedTree, target, b.wrapAttrs(id))
		return
	}
	del := b.markedTree.AddElement(target, wname("del"), b.wrapAttrs(id))
	cloneIntoAsDeleted(b.olderTree, a.node, b.markedTree, del)
}

// markParagraphMarkDeletion records that a paragraph mark was deleted
// (the paragraph break itself, not its text content) by adding w:del
// inside the paragraph's w:pPr/w:rPr — the mirror of
// markParagraphMarkInsertion.
func markParagraphMarkDeletion(t *xmltree.Tree, paragraph xmltree.NodeID, attrs []xmltree.Attr) {
	pPr := findOrCreateChild(t, paragraph, "pPr")
	rPr := findOrCreateChild(t, pPr, "rPr")
	t.AddElement(rPr, wname("del"), attrs)
}

// markFormatChanged appends a w:rPrChange to the newer run's rPr (creating
// the rPr if needed), holding a copy of the older run's w:rPr, per the
// tracked-format-change convention
// (no w:ins/w:del — text content is unchanged).
func (b *markupBuilder) markFormatChanged(older, newer atom) {
	id := b.nextRevisionID()
	n := b.markedTree.Get(newer.node)
	if n == nil {
		return
	}
	rPr := findOrCreateChild(b.markedTree, newer.node, "rPr")
	change := b.markedTree.AddElement(rPr, wname("rPrChange"), b.wrapAttrs(id))
	oldRPr := findChild(b.olderTree, older.node, "rPr")
	if oldRPr != xmltree.NoNode {
		cloneInto(b.olderTree, oldRPr, b.markedTree, change)
	}
}

// markParagraphMarkInsertion records that a paragraph mark itself (not
// its content) was inserted, by adding w:ins inside the paragraph's
// w:pPr/w:rPr — the convention Word uses so accepting the revision
// removes the paragraph break rather than any run.
func markParagraphMarkInsertion(t *xmltree.Tree, paragraph xmltree.NodeID, attrs []xmltree.Attr) {
	pPr := findOrCreateChild(t, paragraph, "pPr")
	rPr := findOrCreateChild(t, pPr, "rPr")
	t.AddElement(rPr, wname("ins"), attrs)
}

func findChild(t *xmltree.Tree, parent xmltree.NodeID, local string) xmltree.NodeID {
	for _, c := range t.Children(parent) {
		n := t.Get(c)
		if n.IsElement() && n.Name.Space == ns && n.Name.Local == local {
			return c
		}
	}
	return xmltree.NoNode
}

func findOrCreateChild(t *xmltree.Tree, parent xmltree.NodeID, local string) xmltree.NodeID {
	if id := findChild(t, parent, local); id != xmltree.NoNode {
		return id
	}
	return t.AddElement(parent, wname(local), nil)
}

// paragraphAt returns the index-th w:p element under body in doc tree t.
func paragraphAt(t *xmltree.Tree, body xmltree.NodeID, index int) xmltree.NodeID {
	paragraphs := t.FindAll(body, func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == ns && n.Name.Local == "p"
	})
	if index < 0 || index >= len(paragraphs) {
		return xmltree.NoNode
	}
	return paragraphs[index]
}

// cloneInto deep-copies the subtree rooted at src (in tree srcTree) as a
// new last child of dstParent in dstTree.
func cloneInto(srcTree *xmltree.Tree, src xmltree.NodeID, dstTree *xmltree.Tree, dstParent xmltree.NodeID) xmltree.NodeID {
	n := srcTree.Get(src)
	switch n.Kind {
	case xmltree.KindText:
		return dstTree.AddText(dstParent, n.Data)
	case xmltree.KindCData:
		return dstTree.AddCData(dstParent, n.Data)
	case xmltree.KindComment:
		return dstTree.AddComment(dstParent, n.Data)
	case xmltree.KindProcInst:
		return dstTree.AddProcInst(dstParent, n.Target, n.Data)
	}
	id := dstTree.AddElement(dstParent, n.Name, append([]xmltree.Attr(nil), n.Attrs...))
	for _, c := range n.Children {
		cloneInto(srcTree, c, dstTree, id)
	}
	return id
}

// cloneIntoAsDeleted is cloneInto plus the w:t -> w:delText rename every
// deleted run requires: retaining w:t inside a w:del is not round-trip
// valid OOXML.
func cloneIntoAsDeleted(srcTree *xmltree.Tree, src xmltree.NodeID, dstTree *xmltree.Tree, dstParent xmltree.NodeID) xmltree.NodeID {
	n := srcTree.Get(src)
	if n.Kind == xmltree.KindText || n.Kind == xmltree.KindCData {
		return cloneInto(srcTree, src, dstTree, dstParent)
	}
	name := n.Name
	if name.Space == ns && name.Local == "t" {
		name = wname("delText")
	}
	id := dstTree.AddElement(dstParent, name, append([]xmltree.Attr(nil), n.Attrs...))
	for _, c := range n.Children {
		cloneIntoAsDeleted(srcTree, c, dstTree, id)
	}
	return id
}
