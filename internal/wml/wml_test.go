package wml

import (
	"testing"

	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/xmltree"
)

func buildDoc(paragraphs ...string) *xmltree.Tree {
	t := xmltree.New()
	doc := t.AddRoot(wname("document"), nil)
	body := t.AddElement(doc, wname("body"), nil)
	for _, text := range paragraphs {
		p := t.AddElement(body, wname("p"), nil)
		r := t.AddElement(p, wname("r"), nil)
		run := t.AddElement(r, wname("t"), nil)
		t.AddText(run, text)
	}
	return t
}

func TestAtomizeProducesOneMarkPerParagraph(t *testing.T) {
	tree := buildDoc("hello", "world")
	body := findBody(tree)
	atoms := atomize(tree, body, canon.DefaultOptions())

	marks := 0
	for _, a := range atoms {
		if a.kind == atomParagraphMark {
			marks++
		}
	}
	if marks != 2 {
		t.Fatalf("expected 2 paragraph marks, got %d", marks)
	}
}

func TestAtomizeIdenticalParagraphsShareIdentityHash(t *testing.T) {
	tree := buildDoc("same text")
	body := findBody(tree)
	atoms := atomize(tree, body, canon.DefaultOptions())

	tree2 := buildDoc("same text")
	body2 := findBody(tree2)
	atoms2 := atomize(tree2, body2, canon.DefaultOptions())

	if atoms[0].identityHash != atoms2[0].identityHash {
		t.Fatalf("expected matching identity hashes for identical runs")
	}
}

func TestAcceptRevisionsUnwrapsInsertions(t *testing.T) {
	tree := xmltree.New()
	doc := tree.AddRoot(wname("document"), nil)
	body := tree.AddElement(doc, wname("body"), nil)
	p := tree.AddElement(body, wname("p"), nil)
	ins := tree.AddElement(p, wname("ins"), []xmltree.Attr{{Name: wname("id"), Value: "1"}})
	r := tree.AddElement(ins, wname("r"), nil)
	tNode := tree.AddElement(r, wname("t"), nil)
	tree.AddText(tNode, "new text")

	accepted := AcceptRevisions(tree, nil)
	found := accepted.FindFirst(accepted.Root(), func(n *xmltree.Node) bool {
		return n.IsElement() && n.Name.Local == "ins"
	})
	if found != xmltree.NoNode {
		t.Fatalf("expected w:ins wrapper to be removed on accept")
	}
	text := accepted.TextContent(accepted.Root(), nil)
	if text != "new text" {
		t.Fatalf("expected content to survive accept, got %q", text)
	}
}

func paragraphMarkAtom(atoms []atom) atom {
	for _, a := range atoms {
		if a.kind == atomParagraphMark {
			return a
		}
	}
	return atom{}
}

func TestResolveUnknownGatesParagraphMarkFormatting(t *testing.T) {
	older := buildDoc("same text")
	newer := buildDoc("same text")
	oAtoms := atomize(older, findBody(older), canon.DefaultOptions())
	nAtoms := atomize(newer, findBody(newer), canon.DefaultOptions())
	oMark, nMark := paragraphMarkAtom(oAtoms), paragraphMarkAtom(nAtoms)

	marked := newer.Clone()
	settings := NewSettings(WithParagraphMarkFormatting(false))
	builder := &markupBuilder{settings: settings, olderTree: older, newerTree: newer, markedTree: marked}
	result := &Result{}

	resolveUnknown(builder, []atom{oMark}, []atom{nMark}, findBody(marked), result, settings)

	if result.FormatChanges != 0 || len(result.Changes) != 0 {
		t.Fatalf("expected paragraph-mark formatting change to be suppressed when disabled, got %+v", result)
	}
}

func TestResolveUnknownReportsParagraphMarkFormattingByDefault(t *testing.T) {
	older := buildDoc("same text")
	newer := buildDoc("same text")
	oAtoms := atomize(older, findBody(older), canon.DefaultOptions())
	nAtoms := atomize(newer, findBody(newer), canon.DefaultOptions())
	oMark, nMark := paragraphMarkAtom(oAtoms), paragraphMarkAtom(nAtoms)

	marked := newer.Clone()
	settings := NewSettings()
	builder := &markupBuilder{settings: settings, olderTree: older, newerTree: newer, markedTree: marked}
	result := &Result{}

	resolveUnknown(builder, []atom{oMark}, []atom{nMark}, findBody(marked), result, settings)

	if result.FormatChanges != 1 {
		t.Fatalf("expected one paragraph-mark format change by default, got %+v", result)
	}
}

func TestRejectRevisionsRemovesInsertions(t *testing.T) {
	tree := xmltree.New()
	doc := tree.AddRoot(wname("document"), nil)
	body := tree.AddElement(doc, wname("body"), nil)
	p := tree.AddElement(body, wname("p"), nil)
	ins := tree.AddElement(p, wname("ins"), []xmltree.Attr{{Name: wname("id"), Value: "1"}})
	r := tree.AddElement(ins, wname("r"), nil)
	tNode := tree.AddElement(r, wname("t"), nil)
	tree.AddText(tNode, "new text")

	rejected := RejectRevisions(tree, nil)
	text := rejected.TextContent(rejected.Root(), nil)
	if text != "" {
		t.Fatalf("expected inserted content to be removed on reject, got %q", text)
	}
}
