package redline

import (
	"github.com/oxmlredline/redline/internal/ooxml"
	"github.com/oxmlredline/redline/internal/pml"
	"github.com/oxmlredline/redline/internal/sml"
	"github.com/oxmlredline/redline/internal/wml"
	"github.com/oxmlredline/redline/internal/xmltree"
	"github.com/oxmlredline/redline/pkg/constants"
	rerr "github.com/oxmlredline/redline/pkg/errors"
)

// WordResult is the outcome of comparing two .docx packages.
type WordResult = wml.Result

// CompareWordDocuments diffs olderBytes against newerBytes, both complete
// .docx package bytes, and returns the newer document with tracked
// revisions recording every detected change plus a structured change
// list. Pass nil settings to use NewWordSettings()'s defaults.
func CompareWordDocuments(olderBytes, newerBytes []byte, settings *WordSettings) (*WordResult, error) {
	return wml.Compare(olderBytes, newerBytes, settings)
}

// AcceptWordRevisions returns a copy of docBytes (a complete .docx
// package) with the tracked revisions in ids resolved as accepted, or
// every tracked revision if ids is empty.
func AcceptWordRevisions(docBytes []byte, ids []int) ([]byte, error) {
	return resolveWordRevisions(docBytes, ids, wml.AcceptRevisions)
}

// RejectWordRevisions returns a copy of docBytes (a complete .docx
// package) with the tracked revisions in ids resolved as rejected, or
// every tracked revision if ids is empty.
func RejectWordRevisions(docBytes []byte, ids []int) ([]byte, error) {
	return resolveWordRevisions(docBytes, ids, wml.RejectRevisions)
}

const opResolveRevisions = "redline.resolveWordRevisions"

func resolveWordRevisions(docBytes []byte, ids []int, resolve func(*xmltree.Tree, []int) *xmltree.Tree) ([]byte, error) {
	pkg, err := ooxml.Open(docBytes)
	if err != nil {
		return nil, rerr.Wrap(err, opResolveRevisions)
	}
	tree, err := pkg.GetXMLPart(opResolveRevisions, constants.WMLMainDocumentPart)
	if err != nil {
		return nil, err
	}
	resolved := resolve(tree, ids)
	if err := pkg.PutXMLPart(opResolveRevisions, constants.WMLMainDocumentPart, resolved); err != nil {
		return nil, err
	}
	out, err := ooxml.Save(pkg)
	if err != nil {
		return nil, rerr.Wrap(err, opResolveRevisions)
	}
	return out, nil
}

// SpreadsheetResult is the outcome of comparing two .xlsx packages.
type SpreadsheetResult = sml.Result

// CompareSpreadsheets diffs olderBytes against newerBytes, both complete
// .xlsx package bytes, and returns the newer workbook (optionally with an
// appended summary sheet) plus a structured per-sheet change list. Pass
// nil settings to use NewSpreadsheetSettings()'s defaults.
func CompareSpreadsheets(olderBytes, newerBytes []byte, settings *SpreadsheetSettings) (*SpreadsheetResult, error) {
	return sml.Compare(olderBytes, newerBytes, settings)
}

// PresentationResult is the outcome of comparing two .pptx packages.
type PresentationResult = pml.Result

// ComparePresentations diffs olderBytes against newerBytes, both complete
// .pptx package bytes, and returns the newer deck (optionally annotated
// with per-slide change counts) plus a structured per-slide change list.
// Pass nil settings to use NewPresentationSettings()'s defaults.
func ComparePresentations(olderBytes, newerBytes []byte, settings *PresentationSettings) (*PresentationResult, error) {
	return pml.Compare(olderBytes, newerBytes, settings)
}
