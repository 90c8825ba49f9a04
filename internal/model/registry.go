package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RegistryEntry is one row of the append-only curated-source ledger. It is
// structurally close to CitationRecord but lives its own lifecycle: created
// once per approval action, appended to the ledger file, never updated or
// deleted in place.
type RegistryEntry struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Publisher       string    `json:"publisher"`
	SourceType      string    `json:"source_type"`
	AccessType      string    `json:"access_type"`
	CoveragePeriod  string    `json:"coverage_period"`
	RelevanceNote   string    `json:"relevance_note"`
	AccessDate      time.Time `json:"access_date"`
	Parser          string    `json:"parser"`
	ParserVersion   string    `json:"parser_version"`
	ReliabilityFlag string    `json:"reliability_flag"`
	Checksum        string    `json:"checksum"`
	RowsParsed      int       `json:"rows_parsed"`
}

// Checksum digests a curated source's identity fields. Any one-character
// change in title, relevance note, or URL yields a different digest, which
// is how the ledger detects duplicate or altered entries without a
// secondary index.
func Checksum(title, relevanceNote, url string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s %s %s", title, relevanceNote, url))
	return hex.EncodeToString(sum[:])
}
