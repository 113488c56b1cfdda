// Package ingest imports the country reference table used to seed the
// atlas.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/httputil"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Importer fetches and parses the HTML country reference table.
// ⭐ SSOT: reference-table fetches happen only through this importer.
type Importer struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewImporter creates a new importer
func NewImporter(httpClient *httputil.Client, log *logger.Logger) *Importer {
	return &Importer{
		httpClient: httpClient,
		logger:     log.WithField("module", "ingest"),
	}
}

// FetchCountries downloads the reference table and parses its rows.
func (i *Importer) FetchCountries(ctx context.Context, url string) ([]domain.Country, error) {
	resp, err := i.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	countries, err := ParseCountryTable(resp.Body)
	if err != nil {
		return nil, err
	}

	i.logger.WithFields(map[string]interface{}{
		"url":   url,
		"count": len(countries),
	}).Debug("Fetched country reference table")

	return countries, nil
}

var isoCellRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// ParseCountryTable extracts country rows from an HTML document. Rows
// are matched by shape: a three-letter code cell, a name cell, and an
// optional region cell. Header rows, footnotes, and other non-matching
// rows are skipped; duplicate codes keep the first occurrence.
func ParseCountryTable(r io.Reader) ([]domain.Country, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	var countries []domain.Country
	seen := make(map[string]bool)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		code := strings.TrimSpace(cells.Eq(0).Text())
		if !isoCellRe.MatchString(code) {
			return
		}
		code = strings.ToUpper(code)
		if seen[code] {
			return
		}

		name := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" {
			return
		}

		country := domain.Country{ISOCode: code, Name: name}
		if cells.Length() >= 3 {
			country.Region = strings.TrimSpace(cells.Eq(2).Text())
		}

		seen[code] = true
		countries = append(countries, country)
	})

	if len(countries) == 0 {
		return nil, fmt.Errorf("no country rows found")
	}

	return countries, nil
}
