// Package instances reads the local instance registry: one directory
// per instance, each described by an instance.json file, with content
// folders underneath for mods, resource packs, and shaders.
package instances

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lodestone/internal/catalog"
	"lodestone/internal/compat"
	"lodestone/internal/logging"
	"lodestone/internal/querygen"
)

const manifestName = "instance.json"

// Instance describes one installed game instance.
type Instance struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	MinecraftVersion string    `json:"minecraft_version"`
	LoaderType       string    `json:"loader_type,omitempty"`
	LoaderVersion    string    `json:"loader_version,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`

	// Path is the instance directory on disk, derived at load time.
	Path string `json:"-"`
}

// Loader returns the instance's normalized loader, empty for vanilla.
func (i Instance) Loader() string {
	return compat.NormalizeLoader(i.LoaderType)
}

// ContentItem is one file observed in an instance's content folder.
type ContentItem struct {
	// FileName is the on-disk name with any disabled marker stripped.
	FileName string
	// DiskName is the exact on-disk name, marker included.
	DiskName string
	Enabled  bool
}

// Registry lists instances under a root directory.
type Registry struct {
	dir    string
	logger *slog.Logger
}

// NewRegistry creates a registry over the given instances directory.
func NewRegistry(dir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "instances"),
	}
}

// LoadAll returns every readable instance, sorted by name. Directories
// without a manifest or with a malformed one are skipped with a
// warning; a duplicated instance id keeps the first occurrence.
func (r *Registry) LoadAll() ([]Instance, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read instances directory: %w", err)
	}

	seen := make(map[string]struct{})
	instances := make([]Instance, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		instance, err := loadManifest(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				r.logger.Warn("skipping unreadable instance",
					logging.String(logging.FieldEventType, "instance_manifest_invalid"),
					logging.String("path", path),
					logging.Error(err))
			}
			continue
		}
		if _, dup := seen[instance.ID]; dup {
			r.logger.Warn("skipping duplicate instance id",
				logging.String(logging.FieldEventType, "instance_duplicate_id"),
				logging.String(logging.FieldInstanceID, instance.ID),
				logging.String("path", path))
			continue
		}
		seen[instance.ID] = struct{}{}
		instances = append(instances, instance)
	}

	sort.Slice(instances, func(a, b int) bool {
		if instances[a].Name != instances[b].Name {
			return instances[a].Name < instances[b].Name
		}
		return instances[a].ID < instances[b].ID
	})
	return instances, nil
}

// ByID returns the instance with the given id.
func (r *Registry) ByID(id string) (Instance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Instance{}, errors.New("instance id required")
	}
	all, err := r.LoadAll()
	if err != nil {
		return Instance{}, err
	}
	for _, instance := range all {
		if instance.ID == id {
			return instance, nil
		}
	}
	return Instance{}, fmt.Errorf("instance %q not found", id)
}

func loadManifest(path string) (Instance, error) {
	data, err := os.ReadFile(filepath.Join(path, manifestName))
	if err != nil {
		return Instance{}, err
	}
	var instance Instance
	if err := json.Unmarshal(data, &instance); err != nil {
		return Instance{}, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	if strings.TrimSpace(instance.ID) == "" {
		return Instance{}, errors.New("instance id missing from manifest")
	}
	instance.Path = path
	return instance, nil
}

// ContentDir maps a content type to its folder inside the instance.
// Modpacks are whole instances, not files inside one.
func ContentDir(instance Instance, contentType catalog.ContentType) (string, error) {
	switch contentType {
	case catalog.ContentTypeMod:
		return filepath.Join(instance.Path, "mods"), nil
	case catalog.ContentTypeResourcePack:
		return filepath.Join(instance.Path, "resourcepacks"), nil
	case catalog.ContentTypeShader:
		return filepath.Join(instance.Path, "shaderpacks"), nil
	default:
		return "", fmt.Errorf("content type %q has no instance folder", contentType)
	}
}

// ListContent returns the current files of one content type, sorted by
// name. A missing content folder is an empty listing, not an error.
func (r *Registry) ListContent(instance Instance, contentType catalog.ContentType) ([]ContentItem, error) {
	dir, err := ContentDir(instance, contentType)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	items := make([]ContentItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		diskName := entry.Name()
		enabled := !strings.HasSuffix(strings.ToLower(diskName), querygen.DisabledSuffix)
		fileName := diskName
		if !enabled {
			fileName = diskName[:len(diskName)-len(querygen.DisabledSuffix)]
		}
		items = append(items, ContentItem{FileName: fileName, DiskName: diskName, Enabled: enabled})
	}

	sort.Slice(items, func(a, b int) bool { return items[a].FileName < items[b].FileName })
	return items, nil
}

// SetEnabled renames a content file to add or remove the disabled
// marker. Renaming to the current state is a no-op.
func (r *Registry) SetEnabled(instance Instance, contentType catalog.ContentType, fileName string, enabled bool) error {
	dir, err := ContentDir(instance, contentType)
	if err != nil {
		return err
	}
	fileName = strings.TrimSuffix(fileName, querygen.DisabledSuffix)

	enabledPath := filepath.Join(dir, fileName)
	disabledPath := enabledPath + querygen.DisabledSuffix

	from, to := disabledPath, enabledPath
	if !enabled {
		from, to = enabledPath, disabledPath
	}
	if _, err := os.Stat(to); err == nil {
		return nil
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("toggle content file: %w", err)
	}
	return nil
}
