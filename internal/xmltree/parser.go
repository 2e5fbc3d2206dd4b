package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	rerr "github.com/oxmlredline/redline/pkg/errors"
)

const opParse = "xmltree.Parse"

// Parse decodes namespace-aware XML bytes into a Tree. Processing
// instructions, comments and character data outside the root element
// are discarded; the tree holds only the root element's subtree.
// Whitespace-only CharData between elements is preserved as-is, and
// canon.Canonicalize keeps it as well.
func Parse(data []byte) (*Tree, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	t := New()

	var stack []NodeID
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rerr.XMLParse(opParse, fmt.Sprintf("offset %d", dec.InputOffset()), err.Error())
		}

		switch tk := tok.(type) {
		case xml.StartElement:
			name := QName{Space: tk.Name.Space, Local: tk.Name.Local}
			attrs := make([]Attr, 0, len(tk.Attr))
			for _, a := range tk.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				attrs = append(attrs, Attr{Name: QName{Space: a.Name.Space, Local: a.Name.Local}, Value: a.Value})
			}
			var id NodeID
			if len(stack) == 0 {
				if t.root != NoNode {
					return nil, rerr.XMLParse(opParse, "root", "multiple root elements")
				}
				id = t.AddRoot(name, attrs)
			} else {
				id = t.AddElement(stack[len(stack)-1], name, attrs)
			}
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, rerr.XMLParse(opParse, "root", "unbalanced end element")
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			t.AddText(stack[len(stack)-1], string(tk))

		case xml.Comment:
			if len(stack) == 0 {
				continue
			}
			t.AddComment(stack[len(stack)-1], string(tk))

		case xml.ProcInst:
			if len(stack) == 0 {
				continue
			}
			t.AddProcInst(stack[len(stack)-1], tk.Target, string(tk.Inst))

		case xml.Directive:
			// Ignored: DOCTYPEs etc. never appear in OOXML parts.
		}
	}

	if t.root == NoNode {
		return nil, rerr.XMLParse(opParse, "root", "document has no root element")
	}
	return t, nil
}
