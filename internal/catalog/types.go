package catalog

import (
	"context"
	"strings"
	"time"
)

// Platform identifies a remote content catalog.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseForge Platform = "curseforge"
)

// SupportsVersionListing reports whether the platform offers a lightweight
// per-project version listing. CurseForge does not; its installed content is
// update-checked manually only.
func (p Platform) SupportsVersionListing() bool {
	return p == PlatformModrinth
}

// NormalizePlatform maps arbitrary input to a known platform, defaulting to
// Modrinth.
func NormalizePlatform(value string) Platform {
	if strings.EqualFold(strings.TrimSpace(value), string(PlatformCurseForge)) {
		return PlatformCurseForge
	}
	return PlatformModrinth
}

// ContentType classifies installable content.
type ContentType string

const (
	ContentTypeMod          ContentType = "mod"
	ContentTypeResourcePack ContentType = "resourcepack"
	ContentTypeShader       ContentType = "shader"
	ContentTypeModpack      ContentType = "modpack"
)

// NormalizeContentType maps arbitrary input to a known content type,
// defaulting to mod.
func NormalizeContentType(value string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(value))) {
	case ContentTypeModpack:
		return ContentTypeModpack
	case ContentTypeResourcePack:
		return ContentTypeResourcePack
	case ContentTypeShader:
		return ContentTypeShader
	default:
		return ContentTypeMod
	}
}

// Hit is a single candidate returned by a catalog search. Hits are transient
// scoring input and are never persisted directly.
type Hit struct {
	ID            string
	Slug          string
	Title         string
	Author        string
	IconURL       string
	Source        Platform
	ProjectType   ContentType
	LatestVersion string
	Downloads     int64
}

// Version is one released version of a catalog project, newest-first as
// returned by the catalog.
type Version struct {
	ID            string
	VersionNumber string
	GameVersions  []string
	Loaders       []string
	DatePublished time.Time
	Files         []File
}

// File is a downloadable artifact attached to a version. Primary flags the
// canonical artifact.
type File struct {
	URL      string
	Filename string
	Primary  bool
}

// VersionFilters narrows a version listing to compatible releases.
type VersionFilters struct {
	GameVersions []string
	Loaders      []string
}

// Searcher is the catalog search operation used during identity resolution.
type Searcher interface {
	Platform() Platform
	Search(ctx context.Context, query string, contentType ContentType) ([]Hit, error)
}

// VersionLister is the per-project version listing operation, available only
// on platforms for which SupportsVersionListing is true.
type VersionLister interface {
	ListVersions(ctx context.Context, projectID string, filters VersionFilters) ([]Version, error)
}
