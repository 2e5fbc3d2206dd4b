// Package ooxml implements the format-agnostic OOXML package layer: ZIP
// I/O, the [Content_Types].xml table, and the relationship graph every
// WML/SML/PML part hangs off of. Format pipelines build on top of this
// package rather than touching archive/zip directly, mirroring the
// reader/writer split docxgo used for DOCX-only access, generalized here
// to any OOXML package and to read-modify-write instead of read-only.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
	"github.com/oxmlredline/redline/internal/xmltree"
)

// Default is one <Default Extension="..." ContentType="..."/> entry.
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override is one <Override PartName="..." ContentType="..."/> entry.
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypesXML mirrors [Content_Types].xml for decode/encode.
type contentTypesXML struct {
	XMLName   xml.Name   `xml:"Types"`
	Xmlns     string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Relationship is one <Relationship .../> entry from a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationshipsXML struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Xmlns         string         `xml:"xmlns,attr"`
	Relationships []Relationship `xml:"Relationship"`
}

// Package is an in-memory OOXML package: every part's raw bytes, the
// content-types table, and the relationship graph keyed by the path of
// the .rels part that declares them (e.g. "word/_rels/document.xml.rels"
// holds the relationships whose source part is "word/document.xml").
type Package struct {
	Parts         map[string][]byte
	Defaults      []Default
	Overrides     []Override
	Relationships map[string][]Relationship
}

const (
	opOpen = "ooxml.Open"
	opSave = "ooxml.Save"
)

// Open parses a ZIP-encoded OOXML package, validating the two required
// package roots exist: [Content_Types].xml and _rels/.rels.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, rerr.InvalidPackage(opOpen, "not a valid ZIP archive: "+err.Error())
	}

	pkg := &Package{
		Parts:         map[string][]byte{},
		Relationships: map[string][]Relationship{},
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, rerr.IO(opOpen, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, rerr.IO(opOpen, err)
		}
		pkg.Parts[normalizePath(f.Name)] = data
	}

	ctBytes, ok := pkg.Parts[constants.ContentTypesPart]
	if !ok {
		return nil, rerr.MissingPart(opOpen, constants.ContentTypesPart, "package")
	}
	var ct contentTypesXML
	if err := xml.Unmarshal(ctBytes, &ct); err != nil {
		return nil, rerr.XMLParse(opOpen, constants.ContentTypesPart, err.Error())
	}
	pkg.Defaults = ct.Defaults
	pkg.Overrides = ct.Overrides

	if _, ok := pkg.Parts[constants.RootRelsPart]; !ok {
		return nil, rerr.MissingPart(opOpen, constants.RootRelsPart, "package")
	}

	for p, data := range pkg.Parts {
		if !strings.HasSuffix(p, ".rels") {
			continue
		}
		var rx relationshipsXML
		if err := xml.Unmarshal(data, &rx); err != nil {
			return nil, rerr.XMLParse(opOpen, p, err.Error())
		}
		source := relsSourcePart(p)
		pkg.Relationships[source] = rx.Relationships
	}

	if err := pkg.validateRelationships(); err != nil {
		return nil, err
	}

	return pkg, nil
}

// relsSourcePart maps a .rels part path to the path of the part it
// describes relationships for: "word/_rels/document.xml.rels" ->
// "word/document.xml", and "_rels/.rels" -> "" (the package root).
func relsSourcePart(relsPath string) string {
	dir := path.Dir(relsPath)
	base := strings.TrimSuffix(path.Base(relsPath), ".rels")
	if base == "." {
		base = ""
	}
	parent := path.Dir(dir)
	if parent == "." {
		if base == "" {
			return ""
		}
		return base
	}
	return path.Join(parent, base)
}

// validateRelationships checks that every relationship's target resolves
// to a part actually present in the package, unless it is external
// (TargetMode="External").
func (p *Package) validateRelationships() error {
	for source, rels := range p.Relationships {
		base := path.Dir(source)
		for _, r := range rels {
			if r.TargetMode == "External" {
				continue
			}
			target := resolveTarget(base, r.Target)
			if _, ok := p.Parts[target]; !ok {
				return rerr.InvalidRelationship("ooxml.validateRelationships",
					"relationship "+r.ID+" in "+source+" targets missing part "+target)
			}
		}
	}
	return nil
}

func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return normalizePath(target)
	}
	if base == "." || base == "" {
		return normalizePath(target)
	}
	return normalizePath(path.Join(base, target))
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	return p
}

// GetPart returns the raw bytes of path, or a MissingPart error.
func (p *Package) GetPart(op, path string) ([]byte, error) {
	data, ok := p.Parts[path]
	if !ok {
		return nil, rerr.MissingPart(op, path, "package")
	}
	return data, nil
}

// SetPart stores raw bytes for path, overwriting any existing content.
func (p *Package) SetPart(path string, data []byte) {
	p.Parts[path] = data
}

// DeletePart removes path from the package.
func (p *Package) DeletePart(path string) {
	delete(p.Parts, path)
}

// GetXMLPart loads and parses path as an xmltree.Tree.
func (p *Package) GetXMLPart(op, path string) (*xmltree.Tree, error) {
	data, err := p.GetPart(op, path)
	if err != nil {
		return nil, err
	}
	t, err := xmltree.Parse(data)
	if err != nil {
		return nil, rerr.Wrap(err, op)
	}
	return t, nil
}

// PutXMLPart serializes t and stores it at path.
func (p *Package) PutXMLPart(op, path string, t *xmltree.Tree) error {
	data, err := xmltree.Serialize(t)
	if err != nil {
		return rerr.Wrap(err, op)
	}
	p.SetPart(path, data)
	return nil
}

// RelationshipsFor returns the relationships declared for sourcePart
// (the part whose .rels file would carry them).
func (p *Package) RelationshipsFor(sourcePart string) []Relationship {
	return p.Relationships[sourcePart]
}

// Save re-encodes the package as ZIP bytes, regenerating
// [Content_Types].xml and every .rels part from Defaults/Overrides and
// Relationships so callers only need to mutate Parts/Relationships.
func Save(p *Package) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	ctBytes, err := marshalContentTypes(p)
	if err != nil {
		return nil, rerr.Wrap(err, opSave)
	}
	if err := writeEntry(zw, constants.ContentTypesPart, ctBytes); err != nil {
		return nil, rerr.IO(opSave, err)
	}

	for source, rels := range p.Relationships {
		relsPath := relsPartPath(source)
		data, err := marshalRelationships(rels)
		if err != nil {
			return nil, rerr.Wrap(err, opSave)
		}
		if err := writeEntry(zw, relsPath, data); err != nil {
			return nil, rerr.IO(opSave, err)
		}
	}

	names := maps.Keys(p.Parts)
	names = slicesFilterOut(names, func(name string) bool {
		return name == constants.ContentTypesPart || strings.HasSuffix(name, ".rels")
	})
	sort.Strings(names)
	for _, name := range names {
		if err := writeEntry(zw, name, p.Parts[name]); err != nil {
			return nil, rerr.IO(opSave, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, rerr.IO(opSave, err)
	}
	return buf.Bytes(), nil
}

func relsPartPath(source string) string {
	if source == "" {
		return constants.RootRelsPart
	}
	dir := path.Dir(source)
	base := path.Base(source)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

func marshalContentTypes(p *Package) ([]byte, error) {
	ct := contentTypesXML{
		Xmlns:     constants.NamespaceContentTypes,
		Defaults:  p.Defaults,
		Overrides: p.Overrides,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(ct); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalRelationships(rels []Relationship) ([]byte, error) {
	rx := relationshipsXML{Xmlns: constants.NamespacePackageRels, Relationships: rels}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(rx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// slicesFilterOut returns the elements of in for which drop returns
// false, preserving order.
func slicesFilterOut(in []string, drop func(string) bool) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
