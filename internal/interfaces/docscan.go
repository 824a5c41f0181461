package interfaces

import "context"

// DocumentAnalysis is what the external OCR collaborator hands back; the
// core stores it verbatim and never blocks the lifecycle on it.
type DocumentAnalysis struct {
	ExtractedText   string   `json:"extracted_text"`
	Summary         string   `json:"summary"`
	ConfidenceScore float64  `json:"confidence_score"`
	Keywords        []string `json:"keywords"`
	Verified        bool     `json:"verified"`
}

type DocumentScanner interface {
	Analyze(ctx context.Context, filename string, contentType string, b []byte) (*DocumentAnalysis, error)
}
