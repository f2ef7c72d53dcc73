// Package enrich resolves installed content files to catalog
// identities: it generates queries per file, searches every configured
// catalog, scores the hits, and persists accepted matches.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lodestone/internal/catalog"
	"lodestone/internal/contentcache"
	"lodestone/internal/instances"
	"lodestone/internal/logging"
	"lodestone/internal/matchscore"
	"lodestone/internal/querygen"
)

var titleCaser = cases.Title(language.Und)

// FallbackName derives a display name from a file name for items that
// have no resolved identity.
func FallbackName(fileName string) string {
	normalized := querygen.Normalize(querygen.StripExtensions(fileName))
	if normalized == "" {
		return fileName
	}
	return titleCaser.String(strings.ReplaceAll(normalized, "-", " "))
}

// ItemOutcome reports what happened to one file during a refresh.
type ItemOutcome struct {
	FileName   string
	Identified bool
	FromCache  bool
	Identity   *contentcache.Identity
	Err        error
}

// Summary aggregates a refresh over one instance and content type.
type Summary struct {
	CorrelationID string
	Items         []ItemOutcome
	Identified    int
	Unidentified  int
	Failed        int
	SweptOrphans  int
}

// Enricher orchestrates identity resolution across catalogs.
type Enricher struct {
	searchers []catalog.Searcher
	cache     *contentcache.Store
	registry  *instances.Registry
	logger    *slog.Logger
}

// New creates an Enricher. Searchers are queried in the given order.
func New(searchers []catalog.Searcher, cache *contentcache.Store, registry *instances.Registry, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enricher{
		searchers: searchers,
		cache:     cache,
		registry:  registry,
		logger:    logging.NewComponentLogger(logger, "enrich"),
	}
}

// RefreshInstance identifies every file of one content type in the
// instance, sequentially and with per-item failure isolation, then
// sweeps cache records for files no longer present. Already-identified
// items are served from cache without a network call; a failed
// re-check never discards an existing identity.
func (e *Enricher) RefreshInstance(ctx context.Context, instance instances.Instance, contentType catalog.ContentType) (Summary, error) {
	items, err := e.registry.ListContent(instance, contentType)
	if err != nil {
		return Summary{}, fmt.Errorf("list content: %w", err)
	}

	summary := Summary{CorrelationID: uuid.NewString()}
	logger := e.logger.With(
		logging.String(logging.FieldCorrelationID, summary.CorrelationID),
		logging.String(logging.FieldInstanceID, instance.ID),
		logging.String(logging.FieldContentType, string(contentType)))

	fileNames := make([]string, 0, len(items))
	for _, item := range items {
		fileNames = append(fileNames, item.FileName)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := e.refreshItem(ctx, logger, instance.ID, contentType, item.FileName)
		summary.Items = append(summary.Items, outcome)
		switch {
		case outcome.Err != nil:
			summary.Failed++
		case outcome.Identified:
			summary.Identified++
		default:
			summary.Unidentified++
		}
	}

	swept, err := e.cache.RemoveOrphans(instance.ID, contentType, fileNames)
	if err != nil {
		logging.WarnWithContext(logger, "failed to sweep orphaned cache records", "enrich_orphan_sweep_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "orphaned records persist until the next refresh"))
	}
	summary.SweptOrphans = swept

	logger.Info("content refresh complete",
		logging.String(logging.FieldEventType, "enrich_refresh_complete"),
		logging.Int("identified", summary.Identified),
		logging.Int("unidentified", summary.Unidentified),
		logging.Int("failed", summary.Failed),
		logging.Int("swept", summary.SweptOrphans))
	return summary, nil
}

func (e *Enricher) refreshItem(ctx context.Context, logger *slog.Logger, scope string, contentType catalog.ContentType, fileName string) ItemOutcome {
	outcome := ItemOutcome{FileName: fileName}

	if record, ok := e.cache.Get(scope, contentType, fileName); ok && record.Identity != nil {
		outcome.Identified = true
		outcome.FromCache = true
		outcome.Identity = record.Identity
		return outcome
	}

	queries := querygen.Generate(fileName)
	if len(queries) == 0 {
		return outcome
	}

	hits, err := e.searchAll(ctx, queries, contentType)
	if err != nil {
		// A search failure leaves any prior cached state untouched.
		logging.WarnWithContext(logger, "catalog search failed", "enrich_search_failed",
			logging.String(logging.FieldFileName, fileName),
			logging.Error(err),
			logging.String(logging.FieldImpact, "item stays unidentified until the next refresh"))
		outcome.Err = err
		return outcome
	}

	selection, ok := matchscore.SelectBest(queries, hits)
	if !ok {
		logger.Debug("no confident match",
			logging.String(logging.FieldFileName, fileName),
			logging.Int("queries", len(queries)),
			logging.Int("hits", len(hits)))
		return outcome
	}

	identity := contentcache.Identity{
		ProjectID:   selection.Hit.ID,
		Slug:        selection.Hit.Slug,
		Title:       selection.Hit.Title,
		Author:      selection.Hit.Author,
		IconURL:     selection.Hit.IconURL,
		Source:      selection.Hit.Source,
		ProjectType: selection.Hit.ProjectType,
	}
	if err := e.cache.SetIdentity(scope, contentType, fileName, identity); err != nil {
		outcome.Err = err
		return outcome
	}

	logger.Info("identified content",
		logging.String(logging.FieldEventType, "enrich_identified"),
		logging.String(logging.FieldFileName, fileName),
		logging.String("project_id", identity.ProjectID),
		logging.String("slug", identity.Slug),
		logging.Int("score", selection.Score))
	outcome.Identified = true
	outcome.Identity = &identity
	return outcome
}

// searchAll runs every query variant against every catalog and merges
// the hits, deduplicated by source and project id. One catalog failing
// does not discard another catalog's hits unless nothing succeeded.
func (e *Enricher) searchAll(ctx context.Context, queries []string, contentType catalog.ContentType) ([]catalog.Hit, error) {
	var (
		hits     []catalog.Hit
		seen     = make(map[string]struct{})
		firstErr error
		succeed  bool
	)
	for _, searcher := range e.searchers {
		for _, variant := range searchVariants(queries) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			found, err := searcher.Search(ctx, variant, contentType)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s search: %w", searcher.Platform(), err)
				}
				continue
			}
			succeed = true
			for _, hit := range found {
				key := string(hit.Source) + "::" + hit.ID
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				hits = append(hits, hit)
			}
		}
	}
	if !succeed && firstErr != nil {
		return nil, firstErr
	}
	return hits, nil
}

// searchVariants widens each query with a space-separated form, since
// some catalogs tokenize on whitespace rather than hyphens.
func searchVariants(queries []string) []string {
	variants := make([]string, 0, len(queries)*2)
	seen := make(map[string]struct{}, len(queries)*2)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	for _, query := range queries {
		add(query)
		add(strings.ReplaceAll(query, "-", " "))
	}
	return variants
}
