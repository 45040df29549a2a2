// Package core wires the pipeline: fetch the license list, extract raw
// entries, apply the correction tables, publish the dataset. Strictly
// linear; any stage error aborts the run.
package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/licensedb/fsf-api/internal/config"
	"github.com/licensedb/fsf-api/internal/fsf"
	"github.com/licensedb/fsf-api/internal/httpx"
	"github.com/licensedb/fsf-api/internal/observability"
	"github.com/licensedb/fsf-api/internal/publish"
)

type Pipeline struct {
	settings *config.Settings
	fetcher  *httpx.Fetcher
	tables   *fsf.Tables
}

func NewPipeline(settings *config.Settings, opts ...httpx.Option) *Pipeline {
	opts = append([]httpx.Option{httpx.WithTimeout(settings.Source.Timeout)}, opts...)
	return &Pipeline{
		settings: settings,
		fetcher:  httpx.NewFetcher(settings.Source.UserAgent, opts...),
		tables:   fsf.DefaultTables(),
	}
}

// Run executes one full pull. Either the complete dataset lands in the
// output directory or an error comes back and nothing new is published.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.tables.Validate(); err != nil {
		observability.IncError()
		return err
	}

	sourceURL := p.settings.Source.URL
	slog.Info("fetching license list", "url", sourceURL)
	body, err := p.fetcher.FetchBytes(ctx, sourceURL)
	if err != nil {
		observability.IncError()
		return err
	}
	observability.IncPagesFetched()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		observability.IncError()
		return fmt.Errorf("parse license list: %w", err)
	}

	extraction, err := fsf.Extract(doc, sourceURL, p.tables.SectionTags)
	if err != nil {
		observability.IncError()
		return err
	}
	observability.AddEntriesExtracted(len(extraction.Entries))
	slog.Info("extracted entries", "count", len(extraction.Entries))

	records, err := fsf.Normalize(extraction, p.tables)
	if err != nil {
		observability.IncError()
		return err
	}
	observability.AddRecordsProduced(len(records))

	writer, err := publish.NewWriter(p.settings.Output.Dir, p.settings.Output.BaseURI)
	if err != nil {
		observability.IncError()
		return err
	}
	written, err := writer.Write(records)
	observability.AddFilesWritten(written)
	if err != nil {
		observability.IncError()
		return fmt.Errorf("publish dataset: %w", err)
	}

	slog.Info("published dataset",
		"dir", p.settings.Output.Dir,
		"records", len(records),
		"files", written,
	)
	return nil
}
