// Package canon implements the content-addressed hashing and XML
// canonicalization the comparison engine uses to decide whether two atoms
// are identical without comparing byte-for-byte serialized XML (prefixes
// and attribute order do not affect the comparison; text nodes, including
// whitespace-only ones, are kept verbatim). Canonical form uses namespace-URI-qualified names, sorts
// attributes by (namespace URI, local name) the way ucarion/c14n's
// internal/sortattr does, concatenates adjacent text, and optionally
// applies Unicode NFC normalization and invariant-culture upper-casing.
package canon

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/oxmlredline/redline/internal/xmltree"
)

// SHA1 returns the 40-character hex identity-hash of s.
func SHA1(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA256 returns the 64-character hex coarse-hash of s.
func SHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// nbsp is U+00A0 NO-BREAK SPACE, conflated with a regular space before
// hashing or comparing text content.
const nbsp = ' '

// NormalizeText applies the text-identity normalization rules: NFC
// normalization, then NBSP-to-space conflation. Invariant-culture
// upper-casing is applied separately by ToUpperInvariant, only where the
// pipeline's settings call for case-insensitive comparison.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	if strings.ContainsRune(s, nbsp) {
		s = strings.ReplaceAll(s, string(nbsp), " ")
	}
	return s
}

var invariantCaser = cases.Upper(language.Und)

// ToUpperInvariant upper-cases s the way invariant-culture comparison
// does: independent of any particular locale's casing rules (e.g. Turkish
// dotless-i). Used where a pipeline's settings request case-insensitive
// cell or text comparison.
func ToUpperInvariant(s string) string {
	return invariantCaser.String(s)
}

// MakeValidXML replaces characters that are not legal in XML 1.0 text
// (C0 control characters other than tab/LF/CR, and unpaired surrogates)
// with U+FFFD REPLACEMENT CHARACTER, mirroring validator behavior upstream
// XML writers apply defensively before serialization.
func MakeValidXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isValidXMLChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(utf8.RuneError)
		}
	}
	return b.String()
}

func isValidXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

// Options controls how Canonicalize treats text content.
type Options struct {
	// NormalizeUnicode applies NFC normalization and NBSP conflation to
	// text content before hashing.
	NormalizeUnicode bool
	// Trim skips node content for any node it reports true for
	// (tracked-revision wrapper elements, bookmarks, etc.) — same
	// predicate shape as xmltree.DescendantsTrimmed.
	Trim func(*xmltree.Node) bool
}

// DefaultOptions returns the canonicalization options the comparer
// pipelines use by default: Unicode normalization on, nothing trimmed.
func DefaultOptions() Options {
	return Options{NormalizeUnicode: true, Trim: func(*xmltree.Node) bool { return false }}
}

// Canonicalize renders the subtree rooted at id as a canonical string
// suitable for hashing: namespace-URI-qualified element and attribute
// names, attributes sorted by (namespace URI, local name), and adjacent
// text/CDATA nodes concatenated with no separator. It satisfies
// canonical(canonical(T)) == canonical(T) because the output never
// carries a prefix or attribute-order dependency to begin with.
// Whitespace-only text nodes are written like any other text, so
// whitespace between elements does change the canonical form.
func Canonicalize(t *xmltree.Tree, id xmltree.NodeID, opts Options) string {
	var b strings.Builder
	writeCanonical(&b, t, id, opts)
	return b.String()
}

func writeCanonical(b *strings.Builder, t *xmltree.Tree, id xmltree.NodeID, opts Options) {
	n := t.Get(id)
	if n == nil || (opts.Trim != nil && opts.Trim(n)) {
		return
	}
	switch n.Kind {
	case xmltree.KindText, xmltree.KindCData:
		data := n.Data
		if opts.NormalizeUnicode {
			data = NormalizeText(data)
		}
		b.WriteString(data)
		return
	case xmltree.KindComment, xmltree.KindProcInst:
		// Comments and processing instructions never affect document
		// identity.
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Name.String())
	for _, a := range xmltree.SortedAttrs(n.Attrs) {
		b.WriteByte(' ')
		b.WriteString(a.Name.String())
		b.WriteByte('=')
		b.WriteByte('"')
		val := a.Value
		if opts.NormalizeUnicode {
			val = NormalizeText(val)
		}
		b.WriteString(val)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		writeCanonical(b, t, c, opts)
	}
	b.WriteString("</")
	b.WriteString(n.Name.String())
	b.WriteByte('>')
}

// IdentityHash returns the SHA-1 identity-hash of the canonical form of
// the subtree rooted at id: two subtrees with the same IdentityHash are
// considered identical regardless of prefix or attribute order.
func IdentityHash(t *xmltree.Tree, id xmltree.NodeID, opts Options) string {
	return SHA1(Canonicalize(t, id, opts))
}

// CoarseHash returns the SHA-256 coarse-hash of the subtree's text
// content alone (ignoring markup), used as a similarity fallback when an
// exact IdentityHash match isn't found — two atoms with matching text but
// differing formatting still share a CoarseHash.
func CoarseHash(t *xmltree.Tree, id xmltree.NodeID, opts Options) string {
	text := t.TextContent(id, opts.Trim)
	if opts.NormalizeUnicode {
		text = NormalizeText(text)
	}
	return SHA256(text)
}
