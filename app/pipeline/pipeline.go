// Package pipeline implements the two-stage concurrent ingestion run:
// feed fetch/parse, then entry filter/enrich.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/outbreakwatch/newswire/app/extract"
	"github.com/outbreakwatch/newswire/app/feed"
	"github.com/outbreakwatch/newswire/app/registry"
)

// Extractor is the content-extraction collaborator invoked per accepted
// entry. It is the dominant cost of stage 2 and the reason that stage is
// parallelized.
type Extractor interface {
	Extract(ctx context.Context, url string) (*extract.Result, error)
}

// SeenSet is the dedup surface stage 2 uses. CheckAndAdd must treat
// check and insert as one critical section.
type SeenSet interface {
	CheckAndAdd(url string) (bool, error)
}

// Options wires a Pipeline. Seen may be nil, which runs in cache-bypass
// mode: every entry is treated as unseen and nothing is persisted.
type Options struct {
	Sources        []registry.Source
	Keywords       *Keywords
	Fetcher        *feed.Fetcher
	Parser         *feed.Parser
	Extractor      Extractor
	Seen           SeenSet
	WorkerCount    int
	FetchTimeout   time.Duration
	ExtractTimeout time.Duration
}

type Pipeline struct {
	sources        []registry.Source
	keywords       *Keywords
	fetcher        *feed.Fetcher
	parser         *feed.Parser
	extractor      Extractor
	seen           SeenSet
	workerCount    int
	fetchTimeout   time.Duration
	extractTimeout time.Duration
}

func New(opts Options) *Pipeline {
	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	return &Pipeline{
		sources:        opts.Sources,
		keywords:       opts.Keywords,
		fetcher:        opts.Fetcher,
		parser:         opts.Parser,
		extractor:      opts.Extractor,
		seen:           opts.Seen,
		workerCount:    opts.WorkerCount,
		fetchTimeout:   opts.FetchTimeout,
		extractTimeout: opts.ExtractTimeout,
	}
}

// Run executes both stages to completion and returns the per-language
// records. The stages run sequentially with a hard barrier in between:
// every entry is discovered before filtering starts, which keeps the
// aggregate counts exact for reporting. Per-source and per-entry
// failures reduce the output; only cache I/O failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (map[string][]feed.Record, error) {
	entries := p.runFetchStage(ctx)
	slog.Info("Fetch stage complete", "sources", len(p.sources), "entries", len(entries))

	aggregator, err := p.runEnrichStage(ctx, entries)
	if err != nil {
		return nil, err
	}
	slog.Info("Enrich stage complete", "records", aggregator.Total())

	return aggregator.Records(), nil
}

func (p *Pipeline) runFetchStage(ctx context.Context) []feed.EntryItem {
	srcCh := make(chan registry.Source, len(p.sources))
	for _, src := range p.sources {
		srcCh <- src
	}
	close(srcCh)

	var (
		mu      sync.Mutex
		entries []feed.EntryItem
		wg      sync.WaitGroup
	)

	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range srcCh {
				items, err := p.fetchSource(ctx, src)
				if err != nil {
					// One failed source must not take down the others.
					slog.Warn("Skipping source", "url", src.URL, "error", err)
					continue
				}
				slog.Debug("Source fetched", "url", src.URL, "entries", len(items))

				mu.Lock()
				entries = append(entries, items...)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return entries
}

func (p *Pipeline) fetchSource(ctx context.Context, src registry.Source) ([]feed.EntryItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	data, err := p.fetcher.Fetch(fetchCtx, src.URL)
	if err != nil {
		return nil, err
	}

	doc, err := p.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	nodes := doc.Entries()
	items := make([]feed.EntryItem, 0, len(nodes))
	for _, entry := range nodes {
		items = append(items, feed.EntryItem{
			Language:  src.Language,
			SourceURL: src.URL,
			Document:  doc,
			Entry:     entry,
			Schema:    src.Schema,
		})
	}

	return items, nil
}

func (p *Pipeline) runEnrichStage(ctx context.Context, entries []feed.EntryItem) (*Aggregator, error) {
	itemCh := make(chan feed.EntryItem, len(entries))
	for _, item := range entries {
		itemCh <- item
	}
	close(itemCh)

	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		aggregator = NewAggregator()
		wg         sync.WaitGroup
		errOnce    sync.Once
		fatalErr   error
	)

	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				if stageCtx.Err() != nil {
					continue
				}

				record, err := p.processEntry(stageCtx, item)
				if err != nil {
					errOnce.Do(func() {
						fatalErr = err
						cancel()
					})
					continue
				}
				if record != nil {
					aggregator.Add(item.Language, *record)
				}
			}
		}()
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	return aggregator, nil
}

// processEntry produces at most one record. A nil record with a nil
// error means the entry was dropped; a non-nil error is fatal to the
// run (cache I/O).
func (p *Pipeline) processEntry(ctx context.Context, item feed.EntryItem) (*feed.Record, error) {
	title, err := item.Entry.Field(item.Schema.Title)
	if err != nil {
		slog.Debug("Dropping entry", "source", item.SourceURL, "reason", err)
		return nil, nil
	}
	description, err := item.Entry.Field(item.Schema.Description)
	if err != nil {
		slog.Debug("Dropping entry", "source", item.SourceURL, "reason", err)
		return nil, nil
	}

	// Relevance gate before any expensive work.
	if !p.keywords.Match(title) && !p.keywords.Match(description) {
		return nil, nil
	}

	url, err := item.Entry.Field(item.Schema.URL)
	if err != nil {
		slog.Debug("Dropping entry", "source", item.SourceURL, "reason", err)
		return nil, nil
	}

	if p.seen != nil {
		dup, err := p.seen.CheckAndAdd(url)
		if err != nil {
			return nil, fmt.Errorf("cache update for %s: %w", url, err)
		}
		if dup {
			slog.Debug("Dropping entry", "url", url, "reason", "already seen")
			return nil, nil
		}
	}

	record := feed.Record{
		Title:   title,
		URL:     url,
		AddedOn: feed.FormatUTC(time.Now()),
	}

	extractCtx, cancel := context.WithTimeout(ctx, p.extractTimeout)
	defer cancel()

	result, err := p.extractor.Extract(extractCtx, url)
	if err != nil {
		// The URL stays marked as seen so a consistently failing article
		// is not re-fetched on every run.
		slog.Warn("Extraction failed, dropping entry", "url", url, "error", err)
		return nil, nil
	}

	if result.Description != "" {
		record.Description = result.Description
	} else {
		record.Description = description
	}

	record.Language = result.Language
	if record.Language == "" {
		record.Language = item.Language
	}
	record.SiteName = siteName(result.SourceURL)
	record.Author = strings.Join(result.Authors, ", ")
	record.Content = result.Text
	record.URLToImage = result.TopImage
	record.PublishedAt = p.resolvePublishedAt(item, result)

	return &record, nil
}

// resolvePublishedAt walks the publish-date fallback chain in strict
// priority order; the first non-empty candidate wins.
func (p *Pipeline) resolvePublishedAt(item feed.EntryItem, result *extract.Result) string {
	if item.Schema.PublishDate != "" {
		if raw, err := item.Entry.Field(item.Schema.PublishDate); err == nil {
			return feed.NormalizeDate(raw)
		}
	}
	if raw, err := item.Entry.Field("pubDate"); err == nil {
		return feed.NormalizeDate(raw)
	}
	if result.PublishDate != nil {
		return feed.FormatUTC(*result.PublishDate)
	}
	if result.ModifiedTime != "" {
		return feed.NormalizeDate(result.ModifiedTime)
	}
	if raw := item.Document.LastBuildDate(); raw != "" {
		return feed.NormalizeDate(raw)
	}
	return ""
}

// siteName strips the scheme and an optional www. prefix from the
// resolved source URL.
func siteName(sourceURL string) string {
	rest, ok := strings.CutPrefix(sourceURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(sourceURL, "http://")
	}
	if !ok {
		return sourceURL
	}
	rest, _ = strings.CutPrefix(rest, "www.")
	return rest
}
