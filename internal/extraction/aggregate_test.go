package extraction

import (
	"testing"
	"time"
)

func strPtr(s string) *string     { return &s }
func scorePtr(f float64) *float64 { return &f }

func TestFormatValueDates(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "1/15/2024"},
		{"2024-01-15T10:30:00Z", "1/15/2024"},
		{"2024-01-15T10:30:00", "1/15/2024"},
		{"2024-01-15 10:30:00", "1/15/2024"},
		{"03/09/2024", "3/9/2024"},
		{"next Tuesday", "next Tuesday"},
	}
	for _, tc := range cases {
		if got := FormatValue(strPtr(tc.in), "date"); got != tc.want {
			t.Errorf("FormatValue(%q, date) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatValueBooleans(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"true", "Yes"},
		{"TRUE", "Yes"},
		{" true ", "Yes"},
		{"false", "No"},
		{"yes", "No"},
		{"", "No"},
	}
	for _, tc := range cases {
		if got := FormatValue(strPtr(tc.in), "boolean"); got != tc.want {
			t.Errorf("FormatValue(%q, boolean) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatValueMissingAndPassthrough(t *testing.T) {
	if got := FormatValue(nil, "text"); got != "N/A" {
		t.Errorf("nil value = %q, want N/A", got)
	}
	if got := FormatValue(strPtr("$1,200.50"), "number"); got != "$1,200.50" {
		t.Errorf("number passthrough = %q", got)
	}
	if got := FormatValue(strPtr("Acme Corp"), "text"); got != "Acme Corp" {
		t.Errorf("text passthrough = %q", got)
	}
}

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{scorePtr(0.87), "87%"},
		{scorePtr(0.875), "88%"},
		{scorePtr(0), "0%"},
		{scorePtr(1), "100%"},
	}
	for _, tc := range cases {
		if got := FormatConfidence(tc.in); got != tc.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfidenceBucketBoundaries(t *testing.T) {
	cases := []struct {
		in   *float64
		want string
	}{
		{nil, "low"},
		{scorePtr(0.95), "high"},
		{scorePtr(0.81), "high"},
		{scorePtr(0.8), "medium"},
		{scorePtr(0.51), "medium"},
		{scorePtr(0.5), "low"},
		{scorePtr(0.1), "low"},
	}
	for _, tc := range cases {
		if got := ConfidenceBucket(tc.in); got != tc.want {
			t.Errorf("ConfidenceBucket(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAggregateKeepsLatestPerDocumentField(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	results := []Result{
		{ID: "r1", DocumentID: "d1", ExtractionFieldID: "f1", ExtractedValue: strPtr("old"), ExtractedAt: earlier},
		{ID: "r2", DocumentID: "d1", ExtractionFieldID: "f1", ExtractedValue: strPtr("new"), ExtractedAt: later},
	}
	info := map[string]FieldInfo{
		"f1": {Name: "Vendor", DataType: "text"},
	}

	rows := Aggregate(results, info, nil)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].ResultID != "r2" || rows[0].Value != "new" {
		t.Fatalf("kept %+v, want the later result", rows[0])
	}
}

func TestAggregateDropsUnknownFields(t *testing.T) {
	results := []Result{
		{ID: "r1", DocumentID: "d1", ExtractionFieldID: "f1", ExtractedValue: strPtr("x")},
		{ID: "r2", DocumentID: "d1", ExtractionFieldID: "deleted-field", ExtractedValue: strPtr("y")},
	}
	info := map[string]FieldInfo{
		"f1": {Name: "Vendor", DataType: "text"},
	}

	rows := Aggregate(results, info, nil)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].ExtractionFieldID != "f1" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}

func TestAggregateSortsByDocumentThenField(t *testing.T) {
	results := []Result{
		{ID: "r1", DocumentID: "d2", ExtractionFieldID: "f2", ExtractedValue: strPtr("a")},
		{ID: "r2", DocumentID: "d1", ExtractionFieldID: "f2", ExtractedValue: strPtr("b")},
		{ID: "r3", DocumentID: "d1", ExtractionFieldID: "f1", ExtractedValue: strPtr("c")},
	}
	info := map[string]FieldInfo{
		"f1": {Name: "Amount", DataType: "number"},
		"f2": {Name: "Vendor", DataType: "text"},
	}
	docNames := map[string]string{"d1": "alpha.pdf", "d2": "beta.pdf"}

	rows := Aggregate(results, info, docNames)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	got := []string{
		rows[0].DocumentName + "/" + rows[0].FieldName,
		rows[1].DocumentName + "/" + rows[1].FieldName,
		rows[2].DocumentName + "/" + rows[2].FieldName,
	}
	want := []string{"alpha.pdf/Amount", "alpha.pdf/Vendor", "beta.pdf/Vendor"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSummarizeCountsBuckets(t *testing.T) {
	rows := []Row{
		{ConfidenceBucket: "high"},
		{ConfidenceBucket: "high"},
		{ConfidenceBucket: "medium"},
		{ConfidenceBucket: "low"},
	}
	s := Summarize(rows)
	if s.Total != 4 || s.High != 2 || s.Medium != 1 || s.Low != 1 {
		t.Fatalf("summary = %+v", s)
	}
}
