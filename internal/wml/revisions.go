package wml

import "github.com/oxmlredline/redline/internal/xmltree"

// AcceptRevisions returns a new tree with the tracked revisions in ids
// resolved as accepted: w:ins wrappers are unwrapped (their content kept
// in place), w:del wrappers (and their content) are removed entirely,
// and w:rPrChange/w:pPrChange markers are dropped, leaving the newer
// formatting in place. If ids is empty, every tracked revision in the
// tree is accepted.
func AcceptRevisions(t *xmltree.Tree, ids []int) *xmltree.Tree {
	return resolveRevisions(t, ids, true)
}

// RejectRevisions returns a new tree with the tracked revisions in ids
// resolved as rejected: w:ins wrappers (and their content) are removed,
// w:del wrappers are unwrapped with w:delText converted back to w:t, and
// w:rPrChange/w:pPrChange markers are applied (the recorded older
// formatting replaces the current rPr/pPr). If ids is empty, every
// tracked revision in the tree is rejected.
func RejectRevisions(t *xmltree.Tree, ids []int) *xmltree.Tree {
	return resolveRevisions(t, ids, false)
}

func resolveRevisions(t *xmltree.Tree, ids []int, accept bool) *xmltree.Tree {
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	matches := func(n *xmltree.Node) bool {
		if len(ids) == 0 {
			return true
		}
		for _, a := range n.Attrs {
			if a.Name.Space == ns && a.Name.Local == "id" {
				if v, ok := parseRevisionID(a.Value); ok {
					return wanted[v]
				}
			}
		}
		return false
	}

	out := xmltree.New()
	var walk func(src xmltree.NodeID, dstParent xmltree.NodeID)
	walk = func(src xmltree.NodeID, dstParent xmltree.NodeID) {
		n := t.Get(src)
		switch n.Kind {
		case xmltree.KindText, xmltree.KindCData, xmltree.KindComment, xmltree.KindProcInst:
			copyLeaf(out, dstParent, n)
			return
		}

		if n.Name.Space == ns && (n.Name.Local == "ins" || n.Name.Local == "del") && matches(n) {
			keep := (n.Name.Local == "ins") == accept
			if !keep {
				return
			}
			for _, c := range n.Children {
				walkUnwrapped(t, c, out, dstParent)
			}
			return
		}

		if n.Name.Space == ns && (n.Name.Local == "rPrChange" || n.Name.Local == "pPrChange") && matches(n) {
			if !accept {
				// Rejecting a format change restores the recorded older
				// properties in place of the parent's current ones.
				parent := out.Get(dstParent)
				parent.Attrs = nil
				parent.Children = nil
				for _, c := range n.Children {
					// The recorded properties sit in a w:rPr/w:pPr child;
					// its children become the parent's own.
					cn := t.Get(c)
					if cn.IsElement() && cn.Name.Space == ns && (cn.Name.Local == "rPr" || cn.Name.Local == "pPr") {
						for _, gc := range cn.Children {
							walk(gc, dstParent)
						}
						continue
					}
					walk(c, dstParent)
				}
			}
			return
		}

		var id xmltree.NodeID
		if dstParent == xmltree.NoNode {
			id = out.AddRoot(n.Name, append([]xmltree.Attr(nil), n.Attrs...))
		} else {
			id = out.AddElement(dstParent, n.Name, append([]xmltree.Attr(nil), n.Attrs...))
		}
		for _, c := range n.Children {
			walk(c, id)
		}
	}
	walk(t.Root(), xmltree.NoNode)
	return out
}

// walkUnwrapped copies src's subtree into dstParent without re-entering
// the ins/del-specific branch (the wrapper itself has already been
// decided), converting any w:delText back to w:t (only a w:del's content
// carries w:delText, so this is what restores plain text when rejecting
// a w:del).
func walkUnwrapped(srcTree *xmltree.Tree, src xmltree.NodeID, out *xmltree.Tree, dstParent xmltree.NodeID) {
	n := srcTree.Get(src)
	switch n.Kind {
	case xmltree.KindText, xmltree.KindCData, xmltree.KindComment, xmltree.KindProcInst:
		copyLeaf(out, dstParent, n)
		return
	}
	name := n.Name
	if name.Space == ns && name.Local == "delText" {
		name = wname("t")
	}
	id := out.AddElement(dstParent, name, append([]xmltree.Attr(nil), n.Attrs...))
	for _, c := range n.Children {
		walkUnwrapped(srcTree, c, out, id)
	}
}

func copyLeaf(out *xmltree.Tree, dstParent xmltree.NodeID, n *xmltree.Node) {
	switch n.Kind {
	case xmltree.KindText:
		out.AddText(dstParent, n.Data)
	case xmltree.KindCData:
		out.AddCData(dstParent, n.Data)
	case xmltree.KindComment:
		out.AddComment(dstParent, n.Data)
	case xmltree.KindProcInst:
		out.AddProcInst(dstParent, n.Target, n.Data)
	}
}

func parseRevisionID(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
