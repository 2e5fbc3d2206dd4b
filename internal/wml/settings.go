package wml

import "github.com/oxmlredline/redline/pkg/constants"

// ComparerSettings tunes word-processing comparison. Constructed via
// NewSettings and the functional options below, the same pattern
// docxgo's document builder used for optional construction.
type ComparerSettings struct {
	Author                        string
	DateTime                      string
	CompareParagraphMarkFormatting bool
	DetectMoves                    bool
	CaseInsensitive                 bool
	lcsRecursionDepthCap            int
	lcsMinimumAnchorRunLength        int
}

// Option configures a ComparerSettings.
type Option func(*ComparerSettings)

// NewSettings builds the default WML comparer settings: author tagged
// "redline", paragraph-mark-only property changes reported as
// FormatChanged (Open Question resolved in favor of the richer report),
// DetectMoves and CaseInsensitive off.
func NewSettings(opts ...Option) *ComparerSettings {
	s := &ComparerSettings{
		Author:                         constants.DefaultAuthor,
		CompareParagraphMarkFormatting: true,
		lcsRecursionDepthCap:           64,
		lcsMinimumAnchorRunLength:      1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithAuthor sets the author attribute stamped on inserted w:ins/w:del
// wrappers.
func WithAuthor(author string) Option {
	return func(s *ComparerSettings) { s.Author = author }
}

// WithDateTime overrides the w:date attribute (RFC3339); if unset the
// engine omits the attribute rather than sampling the current time, to
// keep comparison output reproducible.
func WithDateTime(dt string) Option {
	return func(s *ComparerSettings) { s.DateTime = dt }
}

// WithParagraphMarkFormatting toggles whether a paragraph-mark-only
// run-properties change is reported as FormatChanged.
func WithParagraphMarkFormatting(enabled bool) Option {
	return func(s *ComparerSettings) { s.CompareParagraphMarkFormatting = enabled }
}

// WithMoveDetection sets DetectMoves. Compare does not read this field:
// a paragraph deleted in one location and inserted elsewhere is always
// reported as a delete+insert pair, and there is no move change type.
func WithMoveDetection(enabled bool) Option {
	return func(s *ComparerSettings) { s.DetectMoves = enabled }
}

// WithCaseInsensitiveText sets CaseInsensitive. Compare does not read
// this field: run text is always compared case-sensitively.
func WithCaseInsensitiveText(enabled bool) Option {
	return func(s *ComparerSettings) { s.CaseInsensitive = enabled }
}
