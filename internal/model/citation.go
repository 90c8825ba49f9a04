package model

import "time"

// SourceType tags where a citation's underlying document came from.
type SourceType string

const (
	SourceUpload SourceType = "upload"
	SourceEDGAR  SourceType = "edgar"
)

// DefaultConfidence is assigned to citations produced by the deterministic
// extractor; curated sources may override it downstream.
const DefaultConfidence = 0.7

// CitationRecord is the provenance for exactly one MetricRecord, linked by
// SourceID. AccessDate is assigned once at creation and never mutated.
type CitationRecord struct {
	SourceID   string     `json:"source_id"`
	SourceType SourceType `json:"source_type"`
	URLOrPath  string     `json:"url_or_path"`
	Excerpt    string     `json:"excerpt"`
	AccessDate time.Time  `json:"access_date"`
	Confidence float64    `json:"confidence"`
}

// NewCitation builds a citation with the default confidence and the current
// UTC time as the access date.
func NewCitation(sourceID string, sourceType SourceType, urlOrPath, excerpt string) CitationRecord {
	return CitationRecord{
		SourceID:   sourceID,
		SourceType: sourceType,
		URLOrPath:  urlOrPath,
		Excerpt:    excerpt,
		AccessDate: time.Now().UTC(),
		Confidence: DefaultConfidence,
	}
}

// Truncate bounds a text excerpt to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
