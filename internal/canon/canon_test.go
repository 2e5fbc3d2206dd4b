package canon

import (
	"testing"

	"github.com/oxmlredline/redline/internal/xmltree"
)

func buildSample(attrs []xmltree.Attr) *xmltree.Tree {
	ns := "urn:test"
	t := xmltree.New()
	root := t.AddRoot(xmltree.QName{Space: ns, Local: "p"}, attrs)
	r := t.AddElement(root, xmltree.QName{Space: ns, Local: "r"}, nil)
	txt := t.AddElement(r, xmltree.QName{Space: ns, Local: "t"}, nil)
	t.AddText(txt, "hello")
	return t
}

func TestCanonicalizeIgnoresAttributeOrder(t *testing.T) {
	ns := "urn:test"
	a := buildSample([]xmltree.Attr{
		{Name: xmltree.QName{Local: "b"}, Value: "2"},
		{Name: xmltree.QName{Local: "a"}, Value: "1"},
	})
	b := buildSample([]xmltree.Attr{
		{Name: xmltree.QName{Local: "a"}, Value: "1"},
		{Name: xmltree.QName{Local: "b"}, Value: "2"},
	})
	_ = ns

	opts := DefaultOptions()
	if Canonicalize(a, a.Root(), opts) != Canonicalize(b, b.Root(), opts) {
		t.Fatalf("expected attribute order not to affect canonical form")
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	tree := buildSample(nil)
	opts := DefaultOptions()
	canonical := Canonicalize(tree, tree.Root(), opts)

	reparsed, err := xmltree.Parse([]byte(canonical))
	if err != nil {
		t.Fatalf("reparse canonical form: %v", err)
	}
	again := Canonicalize(reparsed, reparsed.Root(), opts)
	if canonical != again {
		t.Fatalf("canonical(canonical(T)) != canonical(T):\nfirst:  %q\nsecond: %q", canonical, again)
	}
}

func TestIdentityHashMatchesForEquivalentTrees(t *testing.T) {
	a := buildSample(nil)
	b := buildSample(nil)
	opts := DefaultOptions()
	if IdentityHash(a, a.Root(), opts) != IdentityHash(b, b.Root(), opts) {
		t.Fatalf("expected identical trees to share an identity hash")
	}
}

func TestCoarseHashIgnoresFormatting(t *testing.T) {
	ns := "urn:test"
	a := xmltree.New()
	ra := a.AddRoot(xmltree.QName{Space: ns, Local: "p"}, nil)
	ta := a.AddElement(ra, xmltree.QName{Space: ns, Local: "t"}, []xmltree.Attr{
		{Name: xmltree.QName{Local: "bold"}, Value: "true"},
	})
	a.AddText(ta, "same text")

	b := xmltree.New()
	rb := b.AddRoot(xmltree.QName{Space: ns, Local: "p"}, nil)
	tb := b.AddElement(rb, xmltree.QName{Space: ns, Local: "t"}, nil)
	b.AddText(tb, "same text")

	opts := DefaultOptions()
	if IdentityHash(a, ra, opts) == IdentityHash(b, rb, opts) {
		t.Fatalf("expected differing attributes to change the identity hash")
	}
	if CoarseHash(a, ra, opts) != CoarseHash(b, rb, opts) {
		t.Fatalf("expected coarse hash to depend only on text content")
	}
}

func TestNormalizeTextConflatesNBSP(t *testing.T) {
	got := NormalizeText("a b")
	if got != "a b" {
		t.Fatalf("expected NBSP conflated to a regular space, got %q", got)
	}
}

func TestToUpperInvariant(t *testing.T) {
	if got := ToUpperInvariant("straße"); got == "straße" {
		t.Fatalf("expected upper-casing to change the input")
	}
}

func TestMakeValidXMLReplacesControlCharacters(t *testing.T) {
	got := MakeValidXML("a\x00b\x01c")
	want := "a�b�c"
	if got != want {
		t.Fatalf("MakeValidXML(%q) = %q, want %q", "a\x00b\x01c", got, want)
	}
}

func TestMakeValidXMLPreservesWhitespaceControlCharacters(t *testing.T) {
	got := MakeValidXML("a\tb\nc\rd")
	if got != "a\tb\nc\rd" {
		t.Fatalf("expected tab/LF/CR preserved, got %q", got)
	}
}
