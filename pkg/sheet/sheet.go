// Package sheet loads rule tables from published spreadsheets.
//
// The expected format is tab-separated values, which is what "publish to the
// web" spreadsheet exports produce. Sources can be HTTP(S) URLs or local file
// paths; failures to reach or parse the source are fatal, unlike the
// fail-soft handling of individual rule rows further down the pipeline.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/modelcheck/modelcheck/pkg/rule"
)

const fetchTimeout = 30 * time.Second

// Fetch retrieves the rule table from an HTTP(S) URL or a local file path.
func Fetch(ctx context.Context, source string) (*rule.Table, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchURL(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open rule sheet: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func fetchURL(ctx context.Context, url string) (*rule.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch rule sheet: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rule sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rule sheet: %s returned %s", url, resp.Status)
	}

	return Parse(resp.Body)
}

// Parse reads tab-separated rule rows. The first record is the header; rows
// shorter than the header are padded with empty cells rather than rejected,
// since spreadsheet exports trim trailing tabs.
func Parse(r io.Reader) (*rule.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse rule sheet: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("parse rule sheet: no header row")
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = strings.TrimSpace(h)
	}

	t := &rule.Table{Columns: columns}
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func blankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
