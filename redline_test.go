package redline

import (
	"strings"
	"testing"

	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
)

// buildMinimalDocx constructs an in-memory .docx package containing a
// single paragraph with the given text, with just enough package
// plumbing (content types, root relationships) to satisfy ooxml.Open.
func buildMinimalDocx(t *testing.T, text string) []byte {
	t.Helper()

	wns := constants.NamespaceWordprocessingML
	tree := xmltree.New()
	doc := tree.AddRoot(xmltree.QName{Space: wns, Local: "document"}, nil)
	body := tree.AddElement(doc, xmltree.QName{Space: wns, Local: "body"}, nil)
	p := tree.AddElement(body, xmltree.QName{Space: wns, Local: "p"}, nil)
	r := tree.AddElement(p, xmltree.QName{Space: wns, Local: "r"}, nil)
	tn := tree.AddElement(r, xmltree.QName{Space: wns, Local: "t"}, nil)
	tree.AddText(tn, text)

	docBytes, err := xmltree.Serialize(tree)
	if err != nil {
		t.Fatalf("serialize document: %v", err)
	}

	pkg := &ooxml.Package{
		Parts: map[string][]byte{
			constants.WMLMainDocumentPart: docBytes,
		},
		Defaults: []ooxml.Default{
			{Extension: "rels", ContentType: constants.ContentTypeRelationships},
			{Extension: "xml", ContentType: constants.ContentTypeXML},
		},
		Overrides: []ooxml.Override{
			{PartName: "/" + constants.WMLMainDocumentPart, ContentType: constants.ContentTypeWordDocument},
		},
		Relationships: map[string][]ooxml.Relationship{
			"": {{ID: "rId1", Type: constants.RelTypeOfficeDocument, Target: constants.WMLMainDocumentPart}},
		},
	}

	out, err := ooxml.Save(pkg)
	if err != nil {
		t.Fatalf("save package: %v", err)
	}
	return out
}

func TestCompareWordDocumentsDetectsInsertedText(t *testing.T) {
	older := buildMinimalDocx(t, "Hello world")
	newer := buildMinimalDocx(t, "Hello brave world")

	result, err := CompareWordDocuments(older, newer, nil)
	if err != nil {
		t.Fatalf("CompareWordDocuments: %v", err)
	}
	if result.Insertions == 0 {
		t.Fatalf("expected at least one insertion, got %+v", result)
	}
	if len(result.MarkedDocument) == 0 {
		t.Fatalf("expected non-empty marked document")
	}

	markedPkg, err := ooxml.Open(result.MarkedDocument)
	if err != nil {
		t.Fatalf("reopen marked document: %v", err)
	}
	markedTree, err := markedPkg.GetXMLPart("test", constants.WMLMainDocumentPart)
	if err != nil {
		t.Fatalf("load marked document part: %v", err)
	}
	if markedTree.FindFirst(markedTree.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "ins"
	}) == xmltree.NoNode {
		t.Fatalf("expected a w:ins wrapper in the marked document")
	}
}

func TestCompareWordDocumentsIdenticalProducesNoChanges(t *testing.T) {
	same := buildMinimalDocx(t, "No changes here")
	result, err := CompareWordDocuments(same, same, nil)
	if err != nil {
		t.Fatalf("CompareWordDocuments: %v", err)
	}
	if result.Insertions != 0 || result.Deletions != 0 || result.FormatChanges != 0 {
		t.Fatalf("expected no changes for identical documents, got %+v", result)
	}
}

func TestAcceptWordRevisionsRemovesMarkup(t *testing.T) {
	older := buildMinimalDocx(t, "Hello world")
	newer := buildMinimalDocx(t, "Hello brave world")

	result, err := CompareWordDocuments(older, newer, nil)
	if err != nil {
		t.Fatalf("CompareWordDocuments: %v", err)
	}

	accepted, err := AcceptWordRevisions(result.MarkedDocument, nil)
	if err != nil {
		t.Fatalf("AcceptWordRevisions: %v", err)
	}
	acceptedPkg, err := ooxml.Open(accepted)
	if err != nil {
		t.Fatalf("reopen accepted document: %v", err)
	}
	acceptedTree, err := acceptedPkg.GetXMLPart("test", constants.WMLMainDocumentPart)
	if err != nil {
		t.Fatalf("load accepted document part: %v", err)
	}
	text := acceptedTree.TextContent(acceptedTree.Root(), nil)
	if !strings.Contains(text, "brave") {
		t.Fatalf("expected accepted document to retain inserted text, got %q", text)
	}
}
