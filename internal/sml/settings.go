package sml

// ComparerSettings tunes spreadsheet comparison. Each auxiliary diff
// (comments, data validations, merged cells, hyperlinks, named ranges) is
// independently toggleable since computing them requires walking parts
// most callers comparing raw cell values don't need.
type ComparerSettings struct {
	CaseInsensitive           bool
	NumericTolerance          float64
	RenameSimilarityThreshold float64
	CompareComments           bool
	CompareDataValidations    bool
	CompareMergedCells        bool
	CompareHyperlinks         bool
	CompareNamedRanges        bool
	EmitSummarySheet          bool
}

// Option configures a ComparerSettings.
type Option func(*ComparerSettings)

// NewSettings builds the default SML comparer settings: exact numeric
// comparison, sheet renames detected above 0.70 Jaccard similarity of
// cell-value sets (the threshold redline-rs's sml::settings documents),
// every auxiliary diff on, and the summary sheet emitted.
func NewSettings(opts ...Option) *ComparerSettings {
	s := &ComparerSettings{
		RenameSimilarityThreshold: 0.70,
		CompareComments:           true,
		CompareDataValidations:    true,
		CompareMergedCells:        true,
		CompareHyperlinks:         true,
		CompareNamedRanges:        true,
		EmitSummarySheet:          true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func WithCaseInsensitive(enabled bool) Option {
	return func(s *ComparerSettings) { s.CaseInsensitive = enabled }
}

func WithNumericTolerance(tol float64) Option {
	return func(s *ComparerSettings) { s.NumericTolerance = tol }
}

func WithRenameSimilarityThreshold(t float64) Option {
	return func(s *ComparerSettings) { s.RenameSimilarityThreshold = t }
}

func WithCompareComments(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareComments = enabled }
}

func WithCompareDataValidations(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareDataValidations = enabled }
}

func WithCompareMergedCells(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareMergedCells = enabled }
}

func WithCompareHyperlinks(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareHyperlinks = enabled }
}

func WithCompareNamedRanges(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareNamedRanges = enabled }
}

// WithSummarySheet toggles whether the marked workbook gains an appended
// "RedlineChanges" sheet enumerating every detected change.
func WithSummarySheet(enabled bool) Option {
	return func(s *ComparerSettings) { s.EmitSummarySheet = enabled }
}
