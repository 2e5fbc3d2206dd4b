package redline

import (
	"github.com/oxmlredline/redline/internal/pml"
	"github.com/oxmlredline/redline/internal/sml"
	"github.com/oxmlredline/redline/internal/wml"
)

// WordSettings re-exports the WML comparer's option type so callers never
// import an internal package directly.
type WordSettings = wml.ComparerSettings

// WordOption configures WordSettings.
type WordOption = wml.Option

// NewWordSettings builds the default Word comparison settings.
func NewWordSettings(opts ...WordOption) *WordSettings { return wml.NewSettings(opts...) }

// SpreadsheetSettings re-exports the SML comparer's option type.
type SpreadsheetSettings = sml.ComparerSettings

// SpreadsheetOption configures SpreadsheetSettings.
type SpreadsheetOption = sml.Option

// NewSpreadsheetSettings builds the default Excel comparison settings.
func NewSpreadsheetSettings(opts ...SpreadsheetOption) *SpreadsheetSettings { return sml.NewSettings(opts...) }

// PresentationSettings re-exports the PML comparer's option type.
type PresentationSettings = pml.ComparerSettings

// PresentationOption configures PresentationSettings.
type PresentationOption = pml.Option

// NewPresentationSettings builds the default PowerPoint comparison settings.
func NewPresentationSettings(opts ...PresentationOption) *PresentationSettings {
	return pml.NewSettings(opts...)
}

var (
	WithAuthor                  = wml.WithAuthor
	WithDateTime                = wml.WithDateTime
	WithParagraphMarkFormatting = wml.WithParagraphMarkFormatting
	WithMoveDetection           = wml.WithMoveDetection
	WithCaseInsensitiveText     = wml.WithCaseInsensitiveText

	WithSpreadsheetCaseInsensitive     = sml.WithCaseInsensitive
	WithNumericTolerance               = sml.WithNumericTolerance
	WithRenameSimilarityThreshold      = sml.WithRenameSimilarityThreshold
	WithCompareComments                = sml.WithCompareComments
	WithCompareDataValidations         = sml.WithCompareDataValidations
	WithCompareMergedCells             = sml.WithCompareMergedCells
	WithCompareHyperlinks              = sml.WithCompareHyperlinks
	WithCompareNamedRanges             = sml.WithCompareNamedRanges
	WithSummarySheet                   = sml.WithSummarySheet

	WithGeometryTolerance    = pml.WithGeometryTolerance
	WithCoarseHashThreshold  = pml.WithCoarseHashThreshold
	WithSlideAlignmentByLCS  = pml.WithSlideAlignmentByLCS
	WithAnnotateSlides       = pml.WithAnnotateSlides
)
