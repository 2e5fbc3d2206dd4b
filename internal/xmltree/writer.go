package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	rerr "github.com/oxmlredline/redline/pkg/errors"
)

const opWrite = "xmltree.Serialize"

// wellKnownPrefixes maps common OOXML namespace URIs to their conventional
// prefixes so serialized output reads the way hand-authored OOXML parts
// do. Any namespace not listed here gets a generated "nsN" prefix; this
// is a serialization-only concern that never affects node identity.
var wellKnownPrefixes = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":          "w",
	"http://schemas.openxmlformats.org/spreadsheetml/2006/main":             "x",
	"http://schemas.openxmlformats.org/presentationml/2006/main":            "p",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                 "a",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":   "r",
	"http://schemas.openxmlformats.org/package/2006/relationships":          "",
	"http://schemas.openxmlformats.org/package/2006/content-types":         "",
	"http://schemas.microsoft.com/office/word/2010/wordml":                  "w14",
	"http://purl.org/dc/elements/1.1/":                                      "dc",
	"http://purl.org/dc/terms/":                                             "dcterms",
	"http://www.w3.org/2001/XMLSchema-instance":                             "xsi",
}

// collectNamespaces walks t once, in document order, and assigns a
// serialization-only prefix to every namespace URI used by an element or
// attribute name anywhere in the tree. The full set is declared once on
// the root element rather than lazily at first use: a namespace
// declaration's scope is that element's subtree only, so a namespace
// reused in two non-nested places (e.g. "r" on more than one hyperlink or
// image relationship, which is virtually every real WML/PML/SML main
// part) would otherwise come out with an undeclared prefix the second
// time it appears.
func collectNamespaces(t *Tree) (prefixes map[string]string, order []string) {
	prefixes = map[string]string{}
	next := 0
	assign := func(uri string) {
		if uri == "" {
			return
		}
		if _, ok := prefixes[uri]; ok {
			return
		}
		if p, ok := wellKnownPrefixes[uri]; ok {
			prefixes[uri] = p
		} else {
			next++
			prefixes[uri] = fmt.Sprintf("ns%d", next)
		}
		order = append(order, uri)
	}

	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := t.Get(id)
		if n == nil || !n.IsElement() {
			return
		}
		assign(n.Name.Space)
		for _, a := range n.Attrs {
			assign(a.Name.Space)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root())
	return prefixes, order
}

// Serialize renders t as a complete XML document, starting with the
// standard `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
// declaration OOXML parts use.
func Serialize(t *Tree) ([]byte, error) {
	if t.Root() == NoNode {
		return nil, rerr.XMLWrite(opWrite, "tree has no root")
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	prefixes, order := collectNamespaces(t)

	qnameOf := func(name QName) string {
		if p := prefixes[name.Space]; p != "" {
			return p + ":" + name.Local
		}
		return name.Local
	}

	var writeNode func(id NodeID, root bool) error
	writeNode = func(id NodeID, root bool) error {
		n := t.Get(id)
		if n == nil {
			return rerr.XMLWrite(opWrite, "dangling node reference")
		}
		switch n.Kind {
		case KindText:
			return xml.EscapeText(&buf, []byte(n.Data))
		case KindCData:
			buf.WriteString("<![CDATA[")
			buf.WriteString(n.Data)
			buf.WriteString("]]>")
			return nil
		case KindComment:
			buf.WriteString("<!--")
			buf.WriteString(n.Data)
			buf.WriteString("-->")
			return nil
		case KindProcInst:
			buf.WriteString("<?")
			buf.WriteString(n.Target)
			if n.Data != "" {
				buf.WriteByte(' ')
				buf.WriteString(n.Data)
			}
			buf.WriteString("?>")
			return nil
		}

		qname := qnameOf(n.Name)

		buf.WriteByte('<')
		buf.WriteString(qname)

		if root {
			for _, uri := range order {
				p := prefixes[uri]
				if p == "" {
					buf.WriteString(` xmlns="`)
				} else {
					buf.WriteString(` xmlns:`)
					buf.WriteString(p)
					buf.WriteString(`="`)
				}
				_ = xml.EscapeText(&buf, []byte(uri))
				buf.WriteByte('"')
			}
		}

		for _, a := range n.Attrs {
			buf.WriteByte(' ')
			buf.WriteString(qnameOf(a.Name))
			buf.WriteString(`="`)
			_ = xml.EscapeText(&buf, []byte(a.Value))
			buf.WriteByte('"')
		}

		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return nil
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			if err := writeNode(c, false); err != nil {
				return err
			}
		}
		buf.WriteString("</")
		buf.WriteString(qname)
		buf.WriteByte('>')
		return nil
	}

	if err := writeNode(t.Root(), true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SortedAttrs returns a copy of attrs sorted by (namespace URI, local
// name), the order canonicalization requires. Ties are impossible
// since (Space, Local) is a valid attribute key, mirroring the comparator
// in ucarion/c14n's internal/sortattr, adapted to QName instead of
// encoding/xml.Name plus a namespace stack.
func SortedAttrs(attrs []Attr) []Attr {
	out := append([]Attr(nil), attrs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name.Space != out[j].Name.Space {
			return out[i].Name.Space < out[j].Name.Space
		}
		return out[i].Name.Local < out[j].Name.Local
	})
	return out
}
