package ooxml

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

// buildRawZip assembles a ZIP archive directly from name/content pairs,
// bypassing Save, so a test can omit a required part Save would otherwise
// always regenerate.
func buildRawZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

func buildMinimalPackage() *Package {
	return &Package{
		Parts: map[string][]byte{
			constants.WMLMainDocumentPart: []byte(`<w:document xmlns:w="` + constants.NamespaceWordprocessingML + `"><w:body/></w:document>`),
		},
		Defaults: []Default{
			{Extension: "rels", ContentType: constants.ContentTypeRelationships},
			{Extension: "xml", ContentType: constants.ContentTypeXML},
		},
		Overrides: []Override{
			{PartName: "/" + constants.WMLMainDocumentPart, ContentType: constants.ContentTypeWordDocument},
		},
		Relationships: map[string][]Relationship{
			"": {{ID: "rId1", Type: constants.RelTypeOfficeDocument, Target: constants.WMLMainDocumentPart}},
		},
	}
}

func TestSaveThenOpenRoundTrips(t *testing.T) {
	pkg := buildMinimalPackage()
	data, err := Save(pkg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := reopened.Parts[constants.WMLMainDocumentPart]; !ok {
		t.Fatalf("expected %s to survive the round trip", constants.WMLMainDocumentPart)
	}
	if len(reopened.Overrides) != 1 || reopened.Overrides[0].ContentType != constants.ContentTypeWordDocument {
		t.Fatalf("expected the content-type override to survive, got %+v", reopened.Overrides)
	}
	rels := reopened.RelationshipsFor("")
	if len(rels) != 1 || rels[0].Target != constants.WMLMainDocumentPart {
		t.Fatalf("expected the root relationship to survive, got %+v", rels)
	}
}

func TestOpenRejectsMissingContentTypes(t *testing.T) {
	data := buildRawZip(t, map[string]string{
		constants.RootRelsPart: `<Relationships xmlns="` + constants.NamespacePackageRels + `"/>`,
	})
	_, err := Open(data)
	if err == nil {
		t.Fatalf("expected Open to reject an archive missing %s", constants.ContentTypesPart)
	}
	if kind, ok := rerr.KindOf(err); !ok || kind != rerr.KindMissingPart {
		t.Fatalf("expected a MissingPart error, got %v", err)
	}
}

func TestOpenRejectsMissingRootRels(t *testing.T) {
	data := buildRawZip(t, map[string]string{
		constants.ContentTypesPart: `<Types xmlns="` + constants.NamespaceContentTypes + `"/>`,
	})
	_, err := Open(data)
	if err == nil {
		t.Fatalf("expected Open to reject an archive missing %s", constants.RootRelsPart)
	}
	if kind, ok := rerr.KindOf(err); !ok || kind != rerr.KindMissingPart {
		t.Fatalf("expected a MissingPart error, got %v", err)
	}
}

func TestOpenRejectsDanglingRelationship(t *testing.T) {
	pkg := buildMinimalPackage()
	pkg.Relationships[""] = append(pkg.Relationships[""], Relationship{
		ID: "rId2", Type: constants.RelTypeStyles, Target: "word/styles.xml",
	})
	data, err := Save(pkg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err = Open(data)
	if err == nil {
		t.Fatalf("expected Open to reject a relationship targeting a missing part")
	}
	if kind, ok := rerr.KindOf(err); !ok || kind != rerr.KindInvalidRelationship {
		t.Fatalf("expected an InvalidRelationship error, got %v", err)
	}
}

func TestGetPartMissing(t *testing.T) {
	pkg := buildMinimalPackage()
	_, err := pkg.GetPart("test", "word/missing.xml")
	if err == nil {
		t.Fatalf("expected an error for a missing part")
	}
	if kind, ok := rerr.KindOf(err); !ok || kind != rerr.KindMissingPart {
		t.Fatalf("expected a MissingPart error, got %v", err)
	}
}

func TestGetXMLPartRoundTrips(t *testing.T) {
	pkg := buildMinimalPackage()
	tree, err := pkg.GetXMLPart("test", constants.WMLMainDocumentPart)
	if err != nil {
		t.Fatalf("GetXMLPart: %v", err)
	}
	if err := pkg.PutXMLPart("test", constants.WMLMainDocumentPart, tree); err != nil {
		t.Fatalf("PutXMLPart: %v", err)
	}
	if _, err := pkg.GetXMLPart("test", constants.WMLMainDocumentPart); err != nil {
		t.Fatalf("GetXMLPart after PutXMLPart: %v", err)
	}
}
