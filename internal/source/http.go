// Package source provides RowSource implementations for the catalog loader.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/hcl/internal/core"
)

// DefaultBaseURL is the public sheet-to-JSON gateway.
const DefaultBaseURL = "https://opensheet.elk.sh"

// MaxPayloadSize bounds a single sheet response (32MB).
const MaxPayloadSize = 32 * 1024 * 1024

// HTTPSource fetches sheets as JSON arrays of row objects from
// <BaseURL>/<SpreadsheetID>/<sheet>.
type HTTPSource struct {
	baseURL       string
	spreadsheetID string
	client        *http.Client
}

// NewHTTPSource creates a source for one spreadsheet. timeout bounds each
// sheet request; zero means no client-side timeout.
func NewHTTPSource(baseURL, spreadsheetID string, timeout time.Duration) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPSource{
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		client:        &http.Client{Timeout: timeout},
	}
}

// FetchSheet implements core.RowSource.
func (s *HTTPSource) FetchSheet(ctx context.Context, name string) ([]core.RawRow, error) {
	endpoint := s.baseURL + "/" + url.PathEscape(s.spreadsheetID) + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", name, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return DecodeRows(body)
}

// DecodeRows parses a JSON array of row objects. Scalar values are coerced
// to strings and nulls or nested values are dropped. A non-object element
// becomes an empty row so row positions are preserved.
// A payload that is not an array yields core.ErrInvalidPayload.
func DecodeRows(data []byte) ([]core.RawRow, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: got %s", core.ErrInvalidPayload, preview(trimmed))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
	}

	rows := make([]core.RawRow, 0, len(items))
	for _, item := range items {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			rows = append(rows, core.RawRow{})
			continue
		}
		row := make(core.RawRow, len(obj))
		for k, v := range obj {
			if s, ok := coerce(v); ok {
				row[k] = s
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// preview returns the start of a payload for error messages.
func preview(data []byte) string {
	const limit = 64
	if len(data) == 0 {
		return "empty body"
	}
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// coerce converts a decoded JSON scalar to its string form.
func coerce(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
