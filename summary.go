package redline

import (
	"github.com/oxmlredline/redline/internal/pml"
	"github.com/oxmlredline/redline/internal/report"
	"github.com/oxmlredline/redline/internal/sml"
	"github.com/oxmlredline/redline/internal/wml"
)

// ChangeSummary is one counted bucket of a report grouped by change kind.
type ChangeSummary = report.Entry

// SummarizeWordChanges buckets a WordResult's changes by ChangeType,
// preserving the order each kind first appears in.
func SummarizeWordChanges(result *WordResult) []ChangeSummary {
	if result == nil {
		return nil
	}
	return report.GroupBy(result.Changes, func(c wml.Change) string {
		return c.Type.String()
	})
}

// SummarizeSpreadsheetChanges buckets a SpreadsheetResult's cell changes by
// CellChangeType across every sheet, preserving first-seen order.
func SummarizeSpreadsheetChanges(result *SpreadsheetResult) []ChangeSummary {
	if result == nil {
		return nil
	}
	var cells []sml.CellChange
	for _, sheet := range result.Sheets {
		cells = append(cells, sheet.CellChanges...)
	}
	return report.GroupBy(cells, func(c sml.CellChange) string {
		return c.Type.String()
	})
}

// SummarizePresentationChanges buckets a PresentationResult's shape changes
// by ChangeType across every slide, preserving first-seen order.
func SummarizePresentationChanges(result *PresentationResult) []ChangeSummary {
	if result == nil {
		return nil
	}
	var changes []pml.Change
	for _, slide := range result.Slides {
		changes = append(changes, slide.Changes...)
	}
	return report.GroupBy(changes, func(c pml.Change) string {
		return c.Type.String()
	})
}

// TotalChanges sums every bucket's count, for callers that only want one
// number rather than the full breakdown.
func TotalChanges(summary []ChangeSummary) int {
	return report.Total(summary)
}
