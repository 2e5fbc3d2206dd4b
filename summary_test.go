package redline

import "testing"

func TestSummarizeWordChangesGroupsByType(t *testing.T) {
	older := buildMinimalDocx(t, "Hello world")
	newer := buildMinimalDocx(t, "Hello brave world")

	result, err := CompareWordDocuments(older, newer, nil)
	if err != nil {
		t.Fatalf("CompareWordDocuments: %v", err)
	}

	summary := SummarizeWordChanges(result)
	if len(summary) == 0 {
		t.Fatalf("expected at least one summary bucket, got none")
	}
	if TotalChanges(summary) != len(result.Changes) {
		t.Fatalf("expected total %d to match change count %d", TotalChanges(summary), len(result.Changes))
	}
}

func TestSummarizeWordChangesNilResult(t *testing.T) {
	if got := SummarizeWordChanges(nil); got != nil {
		t.Fatalf("expected nil summary for nil result, got %+v", got)
	}
}
