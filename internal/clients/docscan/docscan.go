package docscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"exam_portal/internal/interfaces"
)

type analyzeResponse struct {
	ExtractedText   string   `json:"extracted_text"`
	Summary         string   `json:"summary"`
	ConfidenceScore float64  `json:"confidence_score"`
	Keywords        []string `json:"keywords"`
	Verified        bool     `json:"verified"`
	// some failures come back as json with 2xx
	ErrorMessage string `json:"error_message,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Analyze submits the supporting document for OCR and keyword screening.
// Endpoint: POST /v1/documents/analyze
func (c *Client) Analyze(ctx context.Context, filename string, contentType string, b []byte) (*interfaces.DocumentAnalysis, error) {
	if c.baseURL == "" {
		return nil, errors.New("missing ocr service url")
	}
	if c.apiKey == "" {
		return nil, errors.New("missing ocr api key")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	fw, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	url := c.baseURL + "/v1/documents/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e analyzeResponse
		if json.Unmarshal(body, &e) == nil && e.ErrorMessage != "" {
			return nil, fmt.Errorf("ocr error (%d): %s", resp.StatusCode, e.ErrorMessage)
		}
		return nil, fmt.Errorf("ocr http error (%d): %s", resp.StatusCode, string(body))
	}

	var out analyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ErrorMessage != "" {
		return nil, errors.New(out.ErrorMessage)
	}

	return &interfaces.DocumentAnalysis{
		ExtractedText:   out.ExtractedText,
		Summary:         out.Summary,
		ConfidenceScore: out.ConfidenceScore,
		Keywords:        out.Keywords,
		Verified:        out.Verified,
	}, nil
}
