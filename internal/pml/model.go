package pml

import (
	"path"
	"strconv"
	"strings"

	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

var pns = constants.NamespacePresentationML
var dns = constants.NamespaceDrawingML
var relNS = constants.NamespaceRelationships

func pname(local string) xmltree.QName { return xmltree.QName{Space: pns, Local: local} }
func dname(local string) xmltree.QName { return xmltree.QName{Space: dns, Local: local} }

// transform is a shape's EMU-space geometry.
type transform struct {
	x, y, cx, cy int64
	rotDegrees   float64
	hasXfrm      bool
}

// shape is one parsed shape/picture/graphicFrame on a slide.
type shape struct {
	node         xmltree.NodeID
	stableID     string
	name         string
	kind         string // "sp", "pic", "graphicFrame", "table", "chart", "cxnSp", "grpSp"
	xfrm         transform
	text         string
	identityHash string
	coarseHash   string
	zOrder       int // document-order index within the slide's spTree
}

// slide is one parsed slide: its path, shapes, notes text, and
// identity fingerprints for its layout and background. Both fall back
// to "0" when the slide has no resolvable slideLayout relationship or
// declares no background of its own to inherit one from.
type slide struct {
	partPath              string
	tree                  *xmltree.Tree
	shapes                []shape
	notes                 string
	layoutFingerprint     string
	backgroundFingerprint string
}

// deck is the parsed signature of an entire .pptx package.
type deck struct {
	pkg    *ooxml.Package
	slides []slide
}

const opLoad = "pml.loadDeck"

func loadDeck(data []byte, opts canon.Options) (*deck, error) {
	pkg, err := ooxml.Open(data)
	if err != nil {
		return nil, rerr.Wrap(err, opLoad)
	}

	presTree, err := pkg.GetXMLPart(opLoad, constants.PMLPresentationPart)
	if err != nil {
		return nil, err
	}

	sldIdLst := presTree.FindFirst(presTree.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == pns && n.Name.Local == "sldIdLst"
	})
	if sldIdLst == xmltree.NoNode {
		return nil, rerr.XMLParse(opLoad, constants.PMLPresentationPart, "presentation has no <p:sldIdLst>")
	}

	rels := pkg.RelationshipsFor(constants.PMLPresentationPart)
	relTarget := map[string]string{}
	for _, r := range rels {
		relTarget[r.ID] = resolveRelTarget(constants.PMLPresentationPart, r.Target)
	}

	var slides []slide
	for _, c := range presTree.Children(sldIdLst) {
		n := presTree.Get(c)
		if !n.IsElement() || n.Name.Local != "sldId" {
			continue
		}
		var rid string
		for _, a := range n.Attrs {
			if a.Name.Space == relNS && a.Name.Local == "id" {
				rid = a.Value
			}
		}
		target := relTarget[rid]
		sl, err := loadSlide(pkg, target, opts)
		if err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}

	return &deck{pkg: pkg, slides: slides}, nil
}

func resolveRelTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(sourcePart), target)
}

func loadSlide(pkg *ooxml.Package, partPath string, opts canon.Options) (slide, error) {
	t, err := pkg.GetXMLPart(opLoad, partPath)
	if err != nil {
		return slide{}, err
	}

	cSld := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == pns && n.Name.Local == "cSld"
	})
	spTree := t.FindFirst(t.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == pns && n.Name.Local == "spTree"
	})

	var shapes []shape
	if spTree != xmltree.NoNode {
		order := 0
		for _, c := range t.Children(spTree) {
			n := t.Get(c)
			if !n.IsElement() {
				continue
			}
			kind := shapeKind(n.Name)
			if kind == "" {
				continue
			}
			s := buildShape(t, c, kind, opts)
			s.zOrder = order
			order++
			shapes = append(shapes, s)
		}
	}

	backgroundFingerprint := slideBackground(t, cSld, opts)

	notes := ""
	layoutFingerprint := "0"
	rels := pkg.RelationshipsFor(partPath)
	for _, r := range rels {
		if strings.HasSuffix(r.Type, "/notesSlide") {
			notesPath := resolveRelTarget(partPath, r.Target)
			if nt, err := pkg.GetXMLPart(opLoad, notesPath); err == nil {
				notes = nt.TextContent(nt.Root(), nil)
			}
		}
		if strings.HasSuffix(r.Type, "/slideLayout") {
			layoutPath := resolveRelTarget(partPath, r.Target)
			lt, err := pkg.GetXMLPart(opLoad, layoutPath)
			if err != nil {
				continue
			}
			layoutFingerprint = canon.IdentityHash(lt, lt.Root(), opts)
			if backgroundFingerprint == "0" {
				lcSld := lt.FindFirst(lt.Root(), func(n *xmltree.Node) bool {
					return n.IsElement() && n.Name.Space == pns && n.Name.Local == "cSld"
				})
				backgroundFingerprint = slideBackground(lt, lcSld, opts)
			}
		}
	}

	return slide{
		partPath:              partPath,
		tree:                  t,
		shapes:                shapes,
		notes:                 notes,
		layoutFingerprint:     layoutFingerprint,
		backgroundFingerprint: backgroundFingerprint,
	}, nil
}

// slideBackground returns the identity-hash fingerprint of a <p:bg>
// declared directly under cSld, or "0" if it declares none of its own
// (the caller falls back to the referenced slide layout's background).
func slideBackground(t *xmltree.Tree, cSld xmltree.NodeID, opts canon.Options) string {
	if cSld == xmltree.NoNode {
		return "0"
	}
	bg := t.FindFirst(cSld, func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == pns && n.Name.Local == "bg"
	})
	if bg == xmltree.NoNode {
		return "0"
	}
	return canon.IdentityHash(t, bg, opts)
}

func shapeKind(name xmltree.QName) string {
	if name.Space != pns {
		return ""
	}
	switch name.Local {
	case "sp":
		return "sp"
	case "pic":
		return "pic"
	case "graphicFrame":
		return "graphicFrame"
	case "cxnSp", "grpSp":
		return name.Local
	}
	return ""
}

func buildShape(t *xmltree.Tree, node xmltree.NodeID, kind string, opts canon.Options) shape {
	s := shape{node: node, kind: kind}
	nvPr := t.FindFirst(node, func(n *xmltree.Node) bool {
		return n.IsElement() && (n.Name.Local == "cNvPr")
	})
	if nvPr != xmltree.NoNode {
		n := t.Get(nvPr)
		for _, a := range n.Attrs {
			if a.Name.Local == "id" {
				s.stableID = a.Value
			}
			if a.Name.Local == "name" {
				s.name = a.Value
			}
		}
	}
	xfrm := t.FindFirst(node, func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Space == dns && n.Name.Local == "xfrm"
	})
	if xfrm != xmltree.NoNode {
		s.xfrm = parseTransform(t, xfrm)
	}

	if kind == "graphicFrame" {
		if t.FindFirst(node, func(n *xmltree.Node) bool { return n.IsElement() && n.Name.Local == "tbl" }) != xmltree.NoNode {
			s.kind = "table"
		} else if t.FindFirst(node, func(n *xmltree.Node) bool { return n.IsElement() && n.Name.Local == "chart" }) != xmltree.NoNode {
			s.kind = "chart"
		}
	}

	s.text = t.TextContent(node, nil)
	s.identityHash = canon.IdentityHash(t, node, opts)
	s.coarseHash = canon.CoarseHash(t, node, opts)
	return s
}

func parseTransform(t *xmltree.Tree, xfrm xmltree.NodeID) transform {
	tr := transform{hasXfrm: true}
	for _, a := range t.Get(xfrm).Attrs {
		if a.Name.Local == "rot" {
			if v, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
				tr.rotDegrees = float64(v) / 60000.0
			}
		}
	}
	for _, c := range t.Children(xfrm) {
		n := t.Get(c)
		if !n.IsElement() {
			continue
		}
		switch n.Name.Local {
		case "off":
			tr.x, tr.y = attrInt64(n, "x"), attrInt64(n, "y")
		case "ext":
			tr.cx, tr.cy = attrInt64(n, "cx"), attrInt64(n, "cy")
		}
	}
	return tr
}

func attrInt64(n *xmltree.Node, local string) int64 {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			v, _ := strconv.ParseInt(a.Value, 10, 64)
			return v
		}
	}
	return 0
}
