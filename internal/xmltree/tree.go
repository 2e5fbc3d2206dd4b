// Package xmltree implements the arena-backed XML tree shared by every
// format pipeline. Nodes are addressed by a stable, opaque NodeID rather
// than by owning parent/child pointers, so the tree can be traversed,
// cloned, and partially rewritten without introducing reference cycles,
// the way docxgo's reader.Element sketch models read-only DOCX parsing,
// generalized here to a mutable, round-trippable tree that also models
// Text/CData/Comment/ProcessingInstruction nodes.
package xmltree

import "fmt"

// NodeID is a stable, opaque identifier into a Tree's arena. The zero
// value NoNode never identifies a real node.
type NodeID int

// NoNode is the sentinel "no node" identifier.
const NoNode NodeID = -1

// Kind tags a Node's variant.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindCData
	KindComment
	KindProcInst
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindCData:
		return "CData"
	case KindComment:
		return "Comment"
	case KindProcInst:
		return "ProcessingInstruction"
	default:
		return "Unknown"
	}
}

// QName is a namespace-URI-qualified name. Space is the resolved
// namespace URI (never a prefix) — prefixes are a serialization detail
// and are never consulted for identity or equality.
type QName struct {
	Space string
	Local string
}

func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return fmt.Sprintf("{%s}%s", q.Space, q.Local)
}

// Attr is an element attribute. Order within Attrs is preserved for
// round-trip; canonicalization sorts a copy, never the original.
type Attr struct {
	Name  QName
	Value string
}

// Node is one arena entry. Which fields are meaningful depends on Kind:
// Element uses Name/Attrs/Children; Text/CData use Data; Comment uses
// Data; ProcInst uses Target/Data.
type Node struct {
	ID       NodeID
	Kind     Kind
	Name     QName
	Attrs    []Attr
	Data     string
	Target   string
	Parent   NodeID
	Children []NodeID
}

// IsElement reports whether n is an Element node.
func (n *Node) IsElement() bool { return n.Kind == KindElement }

// Tree is the arena. The zero value is not usable; use New.
type Tree struct {
	nodes []*Node
	root  NodeID
}

// New returns an empty tree with no root.
func New() *Tree {
	return &Tree{root: NoNode}
}

func (t *Tree) alloc(n *Node) NodeID {
	id := NodeID(len(t.nodes))
	n.ID = id
	n.Parent = NoNode
	t.nodes = append(t.nodes, n)
	return id
}

// AddRoot installs the tree's single root element and returns its id.
// AddRoot panics if the tree already has a root — every tree has exactly
// one, per the data-model invariant.
func (t *Tree) AddRoot(name QName, attrs []Attr) NodeID {
	if t.root != NoNode {
		panic("xmltree: tree already has a root")
	}
	id := t.alloc(&Node{Kind: KindElement, Name: name, Attrs: attrs})
	t.root = id
	return id
}

// Root returns the tree's root id, or NoNode if the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// Get returns the node for id, or nil if id is out of range.
func (t *Tree) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// AddElement appends a new element child under parent and returns its id.
func (t *Tree) AddElement(parent NodeID, name QName, attrs []Attr) NodeID {
	return t.addChild(parent, &Node{Kind: KindElement, Name: name, Attrs: attrs})
}

// AddText appends a text child under parent.
func (t *Tree) AddText(parent NodeID, data string) NodeID {
	return t.addChild(parent, &Node{Kind: KindText, Data: data})
}

// AddCData appends a CDATA child under parent.
func (t *Tree) AddCData(parent NodeID, data string) NodeID {
	return t.addChild(parent, &Node{Kind: KindCData, Data: data})
}

// AddComment appends a comment child under parent.
func (t *Tree) AddComment(parent NodeID, data string) NodeID {
	return t.addChild(parent, &Node{Kind: KindComment, Data: data})
}

// AddProcInst appends a processing-instruction child under parent.
func (t *Tree) AddProcInst(parent NodeID, target, data string) NodeID {
	return t.addChild(parent, &Node{Kind: KindProcInst, Target: target, Data: data})
}

func (t *Tree) addChild(parent NodeID, n *Node) NodeID {
	id := t.alloc(n)
	p := t.Get(parent)
	if p == nil {
		panic("xmltree: parent node not found")
	}
	p.Children = append(p.Children, id)
	t.nodes[id].Parent = parent
	return id
}

// InsertElementBefore inserts a new element as a sibling of ref, placed
// immediately before it in ref's parent's child order, and returns its
// id. Used by the WML materializer to splice tracked-change wrapper
// elements in without disturbing existing sibling order.
func (t *Tree) InsertElementBefore(ref NodeID, name QName, attrs []Attr) NodeID {
	refNode := t.Get(ref)
	if refNode == nil || refNode.Parent == NoNode {
		panic("xmltree: ref node has no parent")
	}
	parent := t.Get(refNode.Parent)
	id := t.alloc(&Node{Kind: KindElement, Name: name, Attrs: attrs})
	t.nodes[id].Parent = refNode.Parent
	idx := indexOf(parent.Children, ref)
	parent.Children = insertAt(parent.Children, idx, id)
	return id
}

// Reparent moves node (and its subtree) to become the last child of
// newParent, detaching it from its current parent. Used to wrap an
// existing node in a freshly inserted tracked-revision element.
func (t *Tree) Reparent(node, newParent NodeID) {
	n := t.Get(node)
	if n == nil {
		return
	}
	if n.Parent != NoNode {
		old := t.Get(n.Parent)
		old.Children = removeValue(old.Children, node)
	}
	np := t.Get(newParent)
	np.Children = append(np.Children, node)
	n.Parent = newParent
}

// Remove detaches node (and its subtree) from its parent. The node
// remains addressable in the arena but is no longer reachable from Root.
func (t *Tree) Remove(node NodeID) {
	n := t.Get(node)
	if n == nil || n.Parent == NoNode {
		return
	}
	p := t.Get(n.Parent)
	p.Children = removeValue(p.Children, node)
	n.Parent = NoNode
}

func indexOf(ids []NodeID, v NodeID) int {
	for i, x := range ids {
		if x == v {
			return i
		}
	}
	return len(ids)
}

func insertAt(ids []NodeID, idx int, v NodeID) []NodeID {
	ids = append(ids, NoNode)
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = v
	return ids
}

func removeValue(ids []NodeID, v NodeID) []NodeID {
	out := ids[:0]
	for _, x := range ids {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Children returns the child ids of id, or nil if id is not a valid node.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	return n.Children
}

// Parent returns the parent id of id, or NoNode for the root or an
// invalid id.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNode
	}
	return n.Parent
}

// Descendants returns, in document (pre-)order, id and every node beneath
// it.
func (t *Tree) Descendants(id NodeID) []NodeID {
	return t.DescendantsTrimmed(id, func(*Node) bool { return false })
}

// DescendantsTrimmed walks the subtree rooted at id in pre-order, but
// skips (does not visit, does not descend into) any node for which trim
// returns true. TextContent walks the tree through it, so a trim
// predicate (such as canon.Options.Trim) excludes whole subtrees from
// extracted text.
func (t *Tree) DescendantsTrimmed(id NodeID, trim func(*Node) bool) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		n := t.Get(cur)
		if n == nil || trim(n) {
			return
		}
		out = append(out, cur)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// TextContent concatenates the text of Text/CData descendants of id,
// skipping trimmed subtrees, in document order. Adjacent text/CDATA
// nodes are concatenated with no separator, per canonicalization rules.
func (t *Tree) TextContent(id NodeID, trim func(*Node) bool) string {
	var s string
	for _, d := range t.DescendantsTrimmed(id, trim) {
		n := t.Get(d)
		if n.Kind == KindText || n.Kind == KindCData {
			s += n.Data
		}
	}
	return s
}

// Clone returns a deep, independent copy of t. The copy allocates ids in
// pre-order from the root, so they match t's ids only when t's own ids
// were allocated in pre-order with no detached nodes (as in a tree fresh
// from Parse); otherwise only relative structure is preserved. Used to
// produce the "marked" derivative document so markup
// can be spliced in without mutating the caller's input tree.
func (t *Tree) Clone() *Tree {
	out := New()
	if t.root == NoNode {
		return out
	}
	var copyNode func(src NodeID, dstParent NodeID) NodeID
	copyNode = func(src NodeID, dstParent NodeID) NodeID {
		n := t.Get(src)
		clone := &Node{
			Kind:   n.Kind,
			Name:   n.Name,
			Attrs:  append([]Attr(nil), n.Attrs...),
			Data:   n.Data,
			Target: n.Target,
		}
		var id NodeID
		if dstParent == NoNode {
			id = out.alloc(clone)
			out.root = id
		} else {
			id = out.alloc(clone)
			out.nodes[id].Parent = dstParent
			p := out.Get(dstParent)
			p.Children = append(p.Children, id)
		}
		for _, c := range n.Children {
			copyNode(c, id)
		}
		return id
	}
	copyNode(t.root, NoNode)
	return out
}

// FindFirst returns the first descendant of id (pre-order, including id
// itself) satisfying pred, or NoNode if none matches.
func (t *Tree) FindFirst(id NodeID, pred func(*Node) bool) NodeID {
	for _, d := range t.Descendants(id) {
		if pred(t.Get(d)) {
			return d
		}
	}
	return NoNode
}

// FindAll returns every descendant of id (pre-order, including id
// itself) satisfying pred.
func (t *Tree) FindAll(id NodeID, pred func(*Node) bool) []NodeID {
	var out []NodeID
	for _, d := range t.Descendants(id) {
		if pred(t.Get(d)) {
			out = append(out, d)
		}
	}
	return out
}
