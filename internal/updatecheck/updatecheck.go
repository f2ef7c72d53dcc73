// Package updatecheck decides, per installed item, whether a newer
// compatible file exists on its catalog, using the content cache to
// bound how often the catalog is consulted.
package updatecheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"lodestone/internal/catalog"
	"lodestone/internal/compat"
	"lodestone/internal/contentcache"
	"lodestone/internal/instances"
	"lodestone/internal/logging"
	"lodestone/internal/querygen"
)

// ErrUnidentified marks items that have no resolved identity yet and
// therefore cannot be checked.
var ErrUnidentified = errors.New("content is not identified")

// Verdict is the outcome of one update check.
type Verdict struct {
	FileName  string
	Update    contentcache.Update
	FromCache bool
}

// Summary aggregates a batch check over one instance and content type.
type Summary struct {
	CorrelationID string
	Verdicts      []Verdict
	UpdatesFound  int
	Skipped       int
	Failed        int
}

// Checker performs update checks against catalogs that expose version
// listings.
type Checker struct {
	listers  map[catalog.Platform]catalog.VersionLister
	cache    *contentcache.Store
	registry *instances.Registry
	logger   *slog.Logger
}

// New creates a Checker. Platforms without a lister fall back to the
// manual-update path.
func New(listers map[catalog.Platform]catalog.VersionLister, cache *contentcache.Store, registry *instances.Registry, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{
		listers:  listers,
		cache:    cache,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "updatecheck"),
	}
}

// CheckItem returns the update verdict for a single identified file.
// A fresh cached verdict is returned without a network call. Items on
// catalogs without version listings are recorded as up to date, since
// their updates are applied manually.
func (c *Checker) CheckItem(ctx context.Context, instance instances.Instance, contentType catalog.ContentType, fileName string) (Verdict, error) {
	record, ok := c.cache.Get(instance.ID, contentType, fileName)
	if !ok || record.Identity == nil {
		return Verdict{}, fmt.Errorf("%s: %w", fileName, ErrUnidentified)
	}
	if record.Update != nil {
		return Verdict{FileName: fileName, Update: *record.Update, FromCache: true}, nil
	}

	identity := record.Identity
	if !identity.Source.SupportsVersionListing() {
		update := contentcache.Update{Available: false}
		if err := c.cache.SetUpdate(instance.ID, contentType, fileName, update); err != nil {
			return Verdict{}, err
		}
		return Verdict{FileName: fileName, Update: update}, nil
	}

	lister, ok := c.listers[identity.Source]
	if !ok {
		update := contentcache.Update{Available: false}
		if err := c.cache.SetUpdate(instance.ID, contentType, fileName, update); err != nil {
			return Verdict{}, err
		}
		return Verdict{FileName: fileName, Update: update}, nil
	}

	filters := catalog.VersionFilters{GameVersions: []string{instance.MinecraftVersion}}
	if contentType == catalog.ContentTypeMod {
		if loader := instance.Loader(); compat.ListableLoader(loader) {
			filters.Loaders = []string{loader}
		}
	}

	versions, err := lister.ListVersions(ctx, identity.ProjectID, filters)
	if err != nil {
		// The previous cached state, if any, stays untouched.
		return Verdict{}, fmt.Errorf("list versions for %s: %w", fileName, err)
	}

	update := contentcache.Update{Available: false}
	if len(versions) > 0 {
		newest := versions[0]
		if file := primaryOrFirst(newest.Files); file != nil {
			installed := strings.TrimSuffix(strings.ToLower(fileName), querygen.DisabledSuffix)
			if !strings.EqualFold(file.Filename, installed) {
				update = contentcache.Update{
					Available:     true,
					LatestVersion: newest.VersionNumber,
					FileName:      file.Filename,
					DownloadURL:   file.URL,
				}
			}
		}
	}

	if err := c.cache.SetUpdate(instance.ID, contentType, fileName, update); err != nil {
		return Verdict{}, err
	}
	return Verdict{FileName: fileName, Update: update}, nil
}

// CheckInstance checks every identified file of one content type,
// sequentially. Unidentified items are skipped; per-item failures are
// logged and counted without aborting the batch.
func (c *Checker) CheckInstance(ctx context.Context, instance instances.Instance, contentType catalog.ContentType) (Summary, error) {
	items, err := c.registry.ListContent(instance, contentType)
	if err != nil {
		return Summary{}, fmt.Errorf("list content: %w", err)
	}

	summary := Summary{CorrelationID: uuid.NewString()}
	logger := c.logger.With(
		logging.String(logging.FieldCorrelationID, summary.CorrelationID),
		logging.String(logging.FieldInstanceID, instance.ID),
		logging.String(logging.FieldContentType, string(contentType)))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		verdict, err := c.CheckItem(ctx, instance, contentType, item.FileName)
		if err != nil {
			if errors.Is(err, ErrUnidentified) {
				summary.Skipped++
				continue
			}
			summary.Failed++
			logging.WarnWithContext(logger, "update check failed", "updatecheck_item_failed",
				logging.String(logging.FieldFileName, item.FileName),
				logging.Error(err),
				logging.String(logging.FieldImpact, "previous verdict, if any, remains in effect"))
			continue
		}
		summary.Verdicts = append(summary.Verdicts, verdict)
		if verdict.Update.Available {
			summary.UpdatesFound++
		}
	}

	logger.Info("update check complete",
		logging.String(logging.FieldEventType, "updatecheck_complete"),
		logging.Int("checked", len(summary.Verdicts)),
		logging.Int("updates", summary.UpdatesFound),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func primaryOrFirst(files []catalog.File) *catalog.File {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		if files[i].Primary {
			return &files[i]
		}
	}
	return &files[0]
}
