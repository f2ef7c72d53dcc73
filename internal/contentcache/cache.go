package contentcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"lodestone/internal/catalog"
	"lodestone/internal/logging"
)

// Namespace guards the persisted root object against unrelated files
// on disk. A file carrying a different namespace reads as empty.
const Namespace = "lodestone:content-cache:v1"

const (
	// DefaultIdentityTTL bounds how long a resolved identity is
	// trusted without re-resolution.
	DefaultIdentityTTL = 30 * 24 * time.Hour
	// DefaultUpdateTTL bounds how often update checks hit the catalog.
	DefaultUpdateTTL = 6 * time.Hour
)

// Identity is the catalog project a local file resolved to.
type Identity struct {
	ProjectID   string              `json:"project_id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Author      string              `json:"author"`
	IconURL     string              `json:"icon_url,omitempty"`
	Source      catalog.Platform    `json:"source"`
	ProjectType catalog.ContentType `json:"project_type"`
}

// Update is a persisted update-check verdict.
type Update struct {
	Available     bool   `json:"available"`
	LatestVersion string `json:"latest_version,omitempty"`
	FileName      string `json:"file_name,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
}

// Record joins the identity and update sections under one key. Each
// section carries its own timestamp; an expired section reads as
// absent without being deleted.
type Record struct {
	Identity   *Identity `json:"identity,omitempty"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`
	Update     *Update   `json:"update,omitempty"`
	CheckedAt  time.Time `json:"checked_at,omitempty"`
}

type rootObject struct {
	Namespace string            `json:"namespace"`
	Entries   map[string]Record `json:"entries"`
}

// Stats summarizes the store for CLI display.
type Stats struct {
	Path            string
	Records         int
	FreshIdentities int
	FreshUpdates    int
}

// Store persists records keyed by (scope, content type, file name)
// with per-section TTLs. Safe for concurrent use; writes additionally
// take a file lock so separate processes do not clobber each other.
type Store struct {
	path        string
	logger      *slog.Logger
	identityTTL time.Duration
	updateTTL   time.Duration
	now         func() time.Time

	fileLock *flock.Flock

	mu      sync.RWMutex
	entries map[string]Record
}

// Option configures a Store.
type Option func(*Store)

// WithTTLs overrides the identity and update windows. Non-positive
// values keep the defaults.
func WithTTLs(identity, update time.Duration) Option {
	return func(s *Store) {
		if identity > 0 {
			s.identityTTL = identity
		}
		if update > 0 {
			s.updateTTL = update
		}
	}
}

// WithClock injects the time source. Tests use this to cross TTL
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore opens the cache at path, loading any existing file. A
// corrupt or foreign file logs a warning and starts empty. An empty
// path yields a store whose operations are no-ops.
func NewStore(path string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "contentcache")

	s := &Store{
		path:        path,
		logger:      logger,
		identityTTL: DefaultIdentityTTL,
		updateTTL:   DefaultUpdateTTL,
		now:         time.Now,
		entries:     make(map[string]Record),
	}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		return s
	}
	s.fileLock = flock.New(path + ".lock")

	if err := s.load(); err != nil {
		logger.Warn("failed to load content cache",
			logging.String(logging.FieldEventType, "contentcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "identities and update verdicts will be re-fetched"))
	}

	return s
}

// Key builds the composite cache key. File names are lowercased and
// the disabled marker is ignored so an item keeps its record across
// enable and disable.
func Key(scope string, contentType catalog.ContentType, fileName string) string {
	fileName = strings.ToLower(strings.TrimSpace(fileName))
	fileName = strings.TrimSuffix(fileName, ".disabled")
	return scope + "::" + string(contentType) + "::" + fileName
}

// Get returns the record for the key with expired sections blanked.
// The second return is false when no unexpired section remains.
func (s *Store) Get(scope string, contentType catalog.ContentType, fileName string) (Record, bool) {
	if s.path == "" {
		return Record{}, false
	}

	s.mu.RLock()
	record, found := s.entries[Key(scope, contentType, fileName)]
	s.mu.RUnlock()
	if !found {
		return Record{}, false
	}

	now := s.now()
	if record.Identity != nil && now.After(record.ResolvedAt.Add(s.identityTTL)) {
		record.Identity = nil
		record.ResolvedAt = time.Time{}
	}
	if record.Update != nil && now.After(record.CheckedAt.Add(s.updateTTL)) {
		record.Update = nil
		record.CheckedAt = time.Time{}
	}
	if record.Identity == nil && record.Update == nil {
		return Record{}, false
	}
	return record, true
}

// SetIdentity merges an identity into the record and stamps its
// timestamp, leaving any update verdict untouched.
func (s *Store) SetIdentity(scope string, contentType catalog.ContentType, fileName string, identity Identity) error {
	if s.path == "" {
		return nil
	}
	if strings.TrimSpace(identity.ProjectID) == "" {
		return errors.New("identity requires a project id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(scope, contentType, fileName)
	record := s.entries[key]
	record.Identity = &identity
	record.ResolvedAt = s.now()
	s.entries[key] = record

	if err := s.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	s.logger.Debug("cached identity",
		logging.String("key", key),
		logging.String("project_id", identity.ProjectID),
		logging.String("slug", identity.Slug))
	return nil
}

// SetUpdate merges an update verdict into the record and stamps its
// timestamp, leaving any identity untouched.
func (s *Store) SetUpdate(scope string, contentType catalog.ContentType, fileName string, update Update) error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(scope, contentType, fileName)
	record := s.entries[key]
	record.Update = &update
	record.CheckedAt = s.now()
	s.entries[key] = record

	if err := s.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	s.logger.Debug("cached update verdict",
		logging.String("key", key),
		logging.Bool("update_available", update.Available))
	return nil
}

// RemoveOne deletes a single record.
func (s *Store) RemoveOne(scope string, contentType catalog.ContentType, fileName string) error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(scope, contentType, fileName)
	if _, exists := s.entries[key]; !exists {
		return nil
	}
	delete(s.entries, key)

	if err := s.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// RemoveOrphans deletes every record under the scope and content type
// whose file name is not in the current listing. Call after each
// content listing refresh. Returns the number of removed records.
func (s *Store) RemoveOrphans(scope string, contentType catalog.ContentType, currentFileNames []string) (int, error) {
	if s.path == "" {
		return 0, nil
	}

	current := make(map[string]struct{}, len(currentFileNames))
	for _, name := range currentFileNames {
		current[Key(scope, contentType, name)] = struct{}{}
	}
	prefix := scope + "::" + string(contentType) + "::"

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if _, keep := current[key]; keep {
			continue
		}
		delete(s.entries, key)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		return removed, fmt.Errorf("persist cache: %w", err)
	}

	s.logger.Debug("swept orphaned cache records",
		logging.String("scope", scope),
		logging.String(logging.FieldContentType, string(contentType)),
		logging.Int("removed", removed))
	return removed, nil
}

// RemoveScope deletes every record belonging to the scope. Call when
// an instance is deleted. Returns the number of removed records.
func (s *Store) RemoveScope(scope string) (int, error) {
	if s.path == "" {
		return 0, nil
	}

	prefix := scope + "::"

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		return removed, fmt.Errorf("persist cache: %w", err)
	}
	return removed, nil
}

// Sweep deletes records whose sections have all expired. Returns the
// number of removed records.
func (s *Store) Sweep() (int, error) {
	if s.path == "" {
		return 0, nil
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, record := range s.entries {
		identityFresh := record.Identity != nil && !now.After(record.ResolvedAt.Add(s.identityTTL))
		updateFresh := record.Update != nil && !now.After(record.CheckedAt.Add(s.updateTTL))
		if !identityFresh && !updateFresh {
			delete(s.entries, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		return removed, fmt.Errorf("persist cache: %w", err)
	}
	return removed, nil
}

// Clear removes every record and persists the empty store.
func (s *Store) Clear() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Record)
	if err := s.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Stats reports record counts with freshness evaluated now.
func (s *Store) Stats() Stats {
	if s.path == "" {
		return Stats{}
	}

	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Path: s.path, Records: len(s.entries)}
	for _, record := range s.entries {
		if record.Identity != nil && !now.After(record.ResolvedAt.Add(s.identityTTL)) {
			stats.FreshIdentities++
		}
		if record.Update != nil && !now.After(record.CheckedAt.Add(s.updateTTL)) {
			stats.FreshUpdates++
		}
	}
	return stats
}

// load reads the persisted root object into memory.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var root rootObject
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	if root.Namespace != Namespace {
		return fmt.Errorf("unexpected cache namespace %q", root.Namespace)
	}

	s.entries = make(map[string]Record, len(root.Entries))
	for key, record := range root.Entries {
		if strings.TrimSpace(key) != "" {
			s.entries[key] = record
		}
	}

	s.logger.Debug("loaded content cache",
		logging.Int("entry_count", len(s.entries)),
		logging.String("path", s.path))
	return nil
}

// save writes the store atomically under the cross-process file lock.
// Callers must hold s.mu.
func (s *Store) save() error {
	root := rootObject{Namespace: Namespace, Entries: s.entries}
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() {
		_ = s.fileLock.Unlock()
	}()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
