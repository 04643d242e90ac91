package extraction

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const notAvailable = "N/A"

// FieldInfo carries the display attributes of a field for aggregation.
type FieldInfo struct {
	Name     string
	DataType string
}

// Row is one display-ready extraction result. DocumentName is empty in
// single-document views.
type Row struct {
	ResultID          string   `json:"resultId"`
	DocumentID        string   `json:"documentId"`
	DocumentName      string   `json:"documentName,omitempty"`
	ExtractionFieldID string   `json:"extractionFieldId"`
	FieldName         string   `json:"fieldName"`
	DataType          string   `json:"dataType"`
	RawValue          *string  `json:"rawValue"`
	Value             string   `json:"value"`
	ConfidenceScore   *float64 `json:"confidenceScore"`
	Confidence        string   `json:"confidence"`
	ConfidenceBucket  string   `json:"confidenceBucket"`
}

// Summary aggregates confidence counts over a set of rows.
type Summary struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Aggregate merges raw results with field attributes into display rows.
// Results for the same document/field pair are de-duplicated, keeping the
// most recent. Results whose field is no longer defined are dropped.
// docNames may be nil for single-document views.
func Aggregate(results []Result, fieldInfo map[string]FieldInfo, docNames map[string]string) []Row {
	deduped := dedupeLatest(results)

	rows := make([]Row, 0, len(deduped))
	for _, res := range deduped {
		info, ok := fieldInfo[res.ExtractionFieldID]
		if !ok {
			continue
		}
		row := Row{
			ResultID:          res.ID,
			DocumentID:        res.DocumentID,
			ExtractionFieldID: res.ExtractionFieldID,
			FieldName:         info.Name,
			DataType:          info.DataType,
			RawValue:          res.ExtractedValue,
			Value:             FormatValue(res.ExtractedValue, info.DataType),
			ConfidenceScore:   res.ConfidenceScore,
			Confidence:        FormatConfidence(res.ConfidenceScore),
			ConfidenceBucket:  ConfidenceBucket(res.ConfidenceScore),
		}
		if docNames != nil {
			row.DocumentName = docNames[res.DocumentID]
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DocumentName != rows[j].DocumentName {
			return rows[i].DocumentName < rows[j].DocumentName
		}
		return rows[i].FieldName < rows[j].FieldName
	})
	return rows
}

// Summarize counts rows per confidence bucket.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, row := range rows {
		switch row.ConfidenceBucket {
		case "high":
			s.High++
		case "medium":
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// FormatValue renders a raw extracted value for display. Missing values
// render as "N/A". Dates render as a short date; values that do not parse
// pass through unchanged. Booleans render as Yes/No, anything other than
// "true" counting as No. Text and number values pass through.
func FormatValue(value *string, dataType string) string {
	if value == nil {
		return notAvailable
	}
	switch dataType {
	case "date":
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, *value); err == nil {
				return t.Format("1/2/2006")
			}
		}
		return *value
	case "boolean":
		if strings.EqualFold(strings.TrimSpace(*value), "true") {
			return "Yes"
		}
		return "No"
	default:
		return *value
	}
}

// FormatConfidence renders a confidence score as a whole percentage, or
// "N/A" when the provider reported none.
func FormatConfidence(score *float64) string {
	if score == nil {
		return notAvailable
	}
	return strconv.Itoa(int(math.Round(*score*100))) + "%"
}

// ConfidenceBucket classifies a score: above 0.8 is high, above 0.5 is
// medium, everything else including a missing score is low.
func ConfidenceBucket(score *float64) string {
	switch {
	case score == nil:
		return "low"
	case *score > 0.8:
		return "high"
	case *score > 0.5:
		return "medium"
	default:
		return "low"
	}
}

func dedupeLatest(results []Result) []Result {
	type key struct{ doc, field string }
	latest := make(map[key]Result, len(results))
	order := make([]key, 0, len(results))
	for _, res := range results {
		k := key{res.DocumentID, res.ExtractionFieldID}
		existing, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = res
			continue
		}
		if res.ExtractedAt.After(existing.ExtractedAt) {
			latest[k] = res
		}
	}
	out := make([]Result, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}
