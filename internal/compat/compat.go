// Package compat selects the best remote version and file for a target
// game version and loader, or reports a typed incompatibility reason.
package compat

import (
	"strings"

	"lodestone/internal/catalog"
)

// Reason explains why no version could be selected.
type Reason string

const (
	// ReasonNone means a version and file were selected.
	ReasonNone Reason = ""
	// ReasonNoCompatibleVersion means no version supports the target
	// game version.
	ReasonNoCompatibleVersion Reason = "no_compatible_version"
	// ReasonNoCompatibleLoader means versions exist for the game
	// version but none supports the target loader.
	ReasonNoCompatibleLoader Reason = "no_compatible_loader"
	// ReasonNoInstallableFile means a compatible version exists but
	// carries no selectable file.
	ReasonNoInstallableFile Reason = "no_installable_file"
)

// String renders the reason for logs and CLI output.
func (r Reason) String() string {
	switch r {
	case ReasonNoCompatibleVersion:
		return "no compatible game version"
	case ReasonNoCompatibleLoader:
		return "no compatible mod loader"
	case ReasonNoInstallableFile:
		return "no installable file"
	default:
		return ""
	}
}

// Result holds the selected version and file, or the reason nothing
// was selected. Version and File are nil exactly when Reason is set.
type Result struct {
	Version *catalog.Version
	File    *catalog.File
	Reason  Reason
}

// NormalizeLoader lowercases a loader name and maps vanilla to the
// empty string, which means "no loader". Any other loader passes
// through and is matched against a version's declared list as is.
func NormalizeLoader(loader string) string {
	loader = strings.ToLower(strings.TrimSpace(loader))
	if loader == "vanilla" {
		return ""
	}
	return loader
}

// listableLoaders are the loaders catalogs accept as version listing
// filters. Anything else lists unfiltered and is narrowed by Resolve.
var listableLoaders = map[string]bool{
	"fabric":   true,
	"forge":    true,
	"quilt":    true,
	"neoforge": true,
}

// ListableLoader reports whether a normalized loader can be used as a
// version listing filter.
func ListableLoader(loader string) bool {
	return listableLoaders[loader]
}

// Resolve walks the version list in the given order, which is assumed
// newest-first, and returns the first version that matches the target
// game version and loader together with its preferred file. When the
// walk exhausts, exactly one reason is reported: the first failure
// stage encountered wins over later, more specific ones.
func Resolve(contentType catalog.ContentType, versions []catalog.Version, gameVersion, loader string) Result {
	loader = NormalizeLoader(loader)
	enforceLoader := contentType == catalog.ContentTypeMod

	foundGameVersion := false
	foundLoader := false

	for i := range versions {
		version := &versions[i]
		if !matchesGameVersion(version.GameVersions, gameVersion) {
			continue
		}
		foundGameVersion = true
		if enforceLoader && !matchesLoader(version.Loaders, loader) {
			continue
		}
		foundLoader = true
		if file := SelectFile(contentType, version.Files); file != nil {
			return Result{Version: version, File: file}
		}
	}

	switch {
	case !foundGameVersion:
		return Result{Reason: ReasonNoCompatibleVersion}
	case enforceLoader && !foundLoader:
		return Result{Reason: ReasonNoCompatibleLoader}
	default:
		return Result{Reason: ReasonNoInstallableFile}
	}
}

// matchesGameVersion reports whether any tag matches the target. A tag
// matches when identical, or when it is a two-component numeric prefix
// of the target ("1.20" matches "1.20.4"). An empty tag list matches
// everything.
func matchesGameVersion(tags []string, target string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if tag == target {
			return true
		}
		if isTwoComponentNumeric(tag) && strings.HasPrefix(target, tag+".") {
			return true
		}
	}
	return false
}

func isTwoComponentNumeric(tag string) bool {
	parts := strings.Split(tag, ".")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// matchesLoader reports whether a version's declared loaders admit the
// target. An empty declaration matches any loader; a vanilla target
// rejects any version that declares loaders.
func matchesLoader(declared []string, target string) bool {
	if len(declared) == 0 {
		return true
	}
	if target == "" {
		return false
	}
	for _, loader := range declared {
		if strings.EqualFold(loader, target) {
			return true
		}
	}
	return false
}

// preferredExtension maps a content type to its canonical artifact
// extension.
func preferredExtension(contentType catalog.ContentType) string {
	switch contentType {
	case catalog.ContentTypeModpack:
		return ".mrpack"
	case catalog.ContentTypeMod:
		return ".jar"
	default:
		return ".zip"
	}
}

// SelectFile picks the file to install from a version: the primary
// file with the expected extension, else the first file with that
// extension, else the first file. Nil when the version has no files.
func SelectFile(contentType catalog.ContentType, files []catalog.File) *catalog.File {
	if len(files) == 0 {
		return nil
	}
	ext := preferredExtension(contentType)
	for i := range files {
		if files[i].Primary && strings.HasSuffix(strings.ToLower(files[i].Filename), ext) {
			return &files[i]
		}
	}
	for i := range files {
		if strings.HasSuffix(strings.ToLower(files[i].Filename), ext) {
			return &files[i]
		}
	}
	return &files[0]
}
