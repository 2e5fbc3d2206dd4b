package wml

import (
	"github.com/oxmlredline/redline/internal/canon"
	"github.com/oxmlredline/redline/internal/lcs"
	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

const opCompare = "wml.Compare"

// Compare diffs olderBytes against newerBytes (both complete .docx
// packages) and returns the marked-up newer document plus a structured
// change list.
func Compare(olderBytes, newerBytes []byte, settings *ComparerSettings) (*Result, error) {
	if settings == nil {
		settings = NewSettings()
	}

	olderPkg, err := ooxml.Open(olderBytes)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	newerPkg, err := ooxml.Open(newerBytes)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}

	olderTree, err := olderPkg.GetXMLPart(opCompare, constants.WMLMainDocumentPart)
	if err != nil {
		return nil, err
	}
	newerTree, err := newerPkg.GetXMLPart(opCompare, constants.WMLMainDocumentPart)
	if err != nil {
		return nil, err
	}

	olderBody := findBody(olderTree)
	newerBody := findBody(newerTree)
	if olderBody == xmltree.NoNode {
		return nil, rerr.MissingPart(opCompare, "w:body", "WML/older")
	}
	if newerBody == xmltree.NoNode {
		return nil, rerr.MissingPart(opCompare, "w:body", "WML/newer")
	}

	opts := canon.DefaultOptions()
	olderAtoms := atomize(olderTree, olderBody, opts)
	newerAtoms := atomize(newerTree, newerBody, opts)

	olderKeys := make([]string, len(olderAtoms))
	for i, a := range olderAtoms {
		olderKeys[i] = a.identityHash
	}
	newerKeys := make([]string, len(newerAtoms))
	for i, a := range newerAtoms {
		newerKeys[i] = a.identityHash
	}

	lcsSettings := lcs.Settings{
		RecursionDepthCap:      settings.lcsRecursionDepthCap,
		MinimumAnchorRunLength: settings.lcsMinimumAnchorRunLength,
	}
	correlation := lcs.Correlate(olderKeys, newerKeys, lcsSettings)

	markedTree := newerTree.Clone()
	markedBody := findBody(markedTree)

	builder := &markupBuilder{
		settings:   settings,
		olderTree:  olderTree,
		newerTree:  newerTree,
		markedTree: markedTree,
	}

	result := &Result{}
	for _, entry := range correlation {
		switch entry.Status {
		case lcs.Equal:
			continue
		case lcs.Inserted:
			for i := 0; i < entry.BLen; i++ {
				a := newerAtoms[entry.BStart+i]
				builder.markInserted(a)
				result.Insertions++
				result.RevisionCount++
				result.Changes = append(result.Changes, Change{
					Type: classifyInsert(a), RevisionID: builder.revisionID, Text: a.text, ParagraphIndex: a.paragraphIndex,
				})
			}
		case lcs.Deleted:
			for i := 0; i < entry.ALen; i++ {
				a := olderAtoms[entry.AStart+i]
				builder.markDeleted(a, markedBody)
				result.Deletions++
				result.RevisionCount++
				result.Changes = append(result.Changes, Change{
					Type: classifyDelete(a), RevisionID: builder.revisionID, Text: a.text, ParagraphIndex: a.paragraphIndex,
				})
			}
		case lcs.Unknown:
			resolveUnknown(builder, olderAtoms[entry.AStart:entry.AStart+entry.ALen],
				newerAtoms[entry.BStart:entry.BStart+entry.BLen], markedBody, result, settings)
		}
	}

	markedBytes, err := xmltree.Serialize(markedTree)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	newerPkg.SetPart(constants.WMLMainDocumentPart, markedBytes)
	out, err := ooxml.Save(newerPkg)
	if err != nil {
		return nil, rerr.Wrap(err, opCompare)
	}
	result.MarkedDocument = out
	return result, nil
}

// resolveUnknown pairs atoms a pairwise by position within an Unknown
// run: same-kind atoms with matching coarse hash (text equal but
// formatting differs) are reported as FormatChanged in place; everything
// else is a straight delete-then-insert, the LCS kernel's fallback for
// regions no exact anchor run covered.
func resolveUnknown(b *markupBuilder, older, newer []atom, markedBody xmltree.NodeID, result *Result, settings *ComparerSettings) {
	n := len(older)
	if len(newer) < n {
		n = len(newer)
	}
	for i := 0; i < n; i++ {
		o, nw := older[i], newer[i]
		if o.kind == nw.kind && o.coarseHash == nw.coarseHash && o.coarseHash != "" {
			if o.kind == atomParagraphMark && !settings.CompareParagraphMarkFormatting {
				continue
			}
			b.markFormatChanged(o, nw)
			result.FormatChanges++
			result.RevisionCount++
			result.Changes = append(result.Changes, Change{Type: FormatChanged, RevisionID: b.revisionID, Text: nw.text, ParagraphIndex: nw.paragraphIndex})
			continue
		}
		b.markDeleted(o, markedBody)
		result.Deletions++
		result.RevisionCount++
		result.Changes = append(result.Changes, Change{Type: classifyDelete(o), RevisionID: b.revisionID, Text: o.text, ParagraphIndex: o.paragraphIndex})
		b.markInserted(nw)
		result.Insertions++
		result.RevisionCount++
		result.Changes = append(result.Changes, Change{Type: classifyInsert(nw), RevisionID: b.revisionID, Text: nw.text, ParagraphIndex: nw.paragraphIndex})
	}
	for i := n; i < len(older); i++ {
		o := older[i]
		b.markDeleted(o, markedBody)
		result.Deletions++
		result.RevisionCount++
		result.Changes = append(result.Changes, Change{Type: classifyDelete(o), RevisionID: b.revisionID, Text: o.text, ParagraphIndex: o.paragraphIndex})
	}
	for i := n; i < len(newer); i++ {
		nw := newer[i]
		b.markInserted(nw)
		result.Insertions++
		result.RevisionCount++
		result.Changes = append(result.Changes, Change{Type: classifyInsert(nw), RevisionID: b.revisionID, Text: nw.text, ParagraphIndex: nw.paragraphIndex})
	}
}

func classifyInsert(a atom) ChangeType {
	if a.kind == atomParagraphMark {
		return ParagraphInserted
	}
	return TextInserted
}

func classifyDelete(a atom) ChangeType {
	if a.kind == atomParagraphMark {
		return ParagraphDeleted
	}
	return TextDeleted
}

func findBody(t *xmltree.Tree) xmltree.NodeID {
	root := t.Root()
	for _, c := range t.Children(root) {
		n := t.Get(c)
		if n.IsElement() && n.Name.Space == ns && n.Name.Local == "body" {
			return c
		}
	}
	return xmltree.NoNode
}
