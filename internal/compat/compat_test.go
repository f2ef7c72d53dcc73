package compat

import (
	"testing"

	"lodestone/internal/catalog"
)

func version(id string, gameVersions, loaders []string, files ...catalog.File) catalog.Version {
	return catalog.Version{
		ID:            id,
		VersionNumber: id,
		GameVersions:  gameVersions,
		Loaders:       loaders,
		Files:         files,
	}
}

func jar(name string, primary bool) catalog.File {
	return catalog.File{URL: "https://cdn.example/" + name, Filename: name, Primary: primary}
}

func TestResolveTwoComponentPrefixMatches(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.20"}, []string{"fabric"}, jar("mod-1.20.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "fabric")
	if result.Reason != ReasonNone {
		t.Fatalf("expected match, got reason %q", result.Reason)
	}
	if result.Version.ID != "v1" || result.File.Filename != "mod-1.20.jar" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestResolveNoCompatibleVersion(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.19"}, []string{"fabric"}, jar("mod.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20", "fabric")
	if result.Reason != ReasonNoCompatibleVersion {
		t.Fatalf("expected NoCompatibleVersion, got %q", result.Reason)
	}
	if result.Version != nil || result.File != nil {
		t.Fatalf("expected nil version and file, got %#v", result)
	}
}

func TestResolveNoCompatibleLoader(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.20.4"}, []string{"forge"}, jar("mod.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "fabric")
	if result.Reason != ReasonNoCompatibleLoader {
		t.Fatalf("expected NoCompatibleLoader, got %q", result.Reason)
	}
}

func TestResolveResourcePackIgnoresLoaders(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.20.4"}, []string{"fabric"}, catalog.File{URL: "u", Filename: "pack.zip", Primary: true}),
	}
	result := Resolve(catalog.ContentTypeResourcePack, versions, "1.20.4", "")
	if result.Reason != ReasonNone {
		t.Fatalf("resource packs must never fail on loaders, got %q", result.Reason)
	}
	if result.File.Filename != "pack.zip" {
		t.Fatalf("unexpected file: %#v", result.File)
	}
}

func TestResolveVanillaRejectsDeclaredLoaders(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.20.4"}, []string{"fabric"}, jar("mod.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "vanilla")
	if result.Reason != ReasonNoCompatibleLoader {
		t.Fatalf("expected NoCompatibleLoader for vanilla target, got %q", result.Reason)
	}
}

func TestResolveMatchesUncommonLoader(t *testing.T) {
	// A loader outside the usual four still matches a version that
	// declares it.
	versions := []catalog.Version{
		version("v1", []string{"1.12.2"}, []string{"liteloader"}, jar("mod.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.12.2", "LiteLoader")
	if result.Reason != ReasonNone {
		t.Fatalf("expected match, got %q", result.Reason)
	}
	if result.Version.ID != "v1" {
		t.Fatalf("unexpected version %q", result.Version.ID)
	}
}

func TestResolveEmptyTagListMatchesAnything(t *testing.T) {
	versions := []catalog.Version{
		version("v1", nil, nil, jar("mod.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "fabric")
	if result.Reason != ReasonNone {
		t.Fatalf("expected match, got %q", result.Reason)
	}
}

func TestResolveFirstFoundWins(t *testing.T) {
	versions := []catalog.Version{
		version("newest", []string{"1.20.4"}, []string{"fabric"}, jar("newest.jar", true)),
		version("older", []string{"1.20.4"}, []string{"fabric"}, jar("older.jar", true)),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "fabric")
	if result.Version.ID != "newest" {
		t.Fatalf("expected first compatible version, got %q", result.Version.ID)
	}
}

func TestResolveNoInstallableFile(t *testing.T) {
	versions := []catalog.Version{
		version("v1", []string{"1.20.4"}, []string{"fabric"}),
	}
	result := Resolve(catalog.ContentTypeMod, versions, "1.20.4", "fabric")
	if result.Reason != ReasonNoInstallableFile {
		t.Fatalf("expected NoInstallableFile, got %q", result.Reason)
	}
}

func TestSelectFilePreference(t *testing.T) {
	files := []catalog.File{
		{URL: "a", Filename: "sources.zip", Primary: false},
		{URL: "b", Filename: "mod-extra.jar", Primary: false},
		{URL: "c", Filename: "mod.jar", Primary: true},
	}
	if got := SelectFile(catalog.ContentTypeMod, files); got.Filename != "mod.jar" {
		t.Fatalf("expected primary jar, got %q", got.Filename)
	}

	noPrimary := []catalog.File{
		{URL: "a", Filename: "sources.zip"},
		{URL: "b", Filename: "mod.jar"},
	}
	if got := SelectFile(catalog.ContentTypeMod, noPrimary); got.Filename != "mod.jar" {
		t.Fatalf("expected first jar, got %q", got.Filename)
	}

	noMatch := []catalog.File{{URL: "a", Filename: "readme.txt"}}
	if got := SelectFile(catalog.ContentTypeMod, noMatch); got.Filename != "readme.txt" {
		t.Fatalf("expected fallback to first file, got %q", got.Filename)
	}

	if got := SelectFile(catalog.ContentTypeModpack, []catalog.File{{URL: "a", Filename: "pack.mrpack", Primary: true}}); got.Filename != "pack.mrpack" {
		t.Fatalf("expected mrpack, got %q", got.Filename)
	}

	if got := SelectFile(catalog.ContentTypeMod, nil); got != nil {
		t.Fatalf("expected nil for empty file list, got %#v", got)
	}
}

func TestNormalizeLoader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fabric", "fabric"},
		{"NEOFORGE", "neoforge"},
		{"vanilla", ""},
		{"", ""},
		{"LiteLoader", "liteloader"},
	}
	for _, tt := range tests {
		if got := NormalizeLoader(tt.input); got != tt.want {
			t.Fatalf("NormalizeLoader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestListableLoader(t *testing.T) {
	for _, loader := range []string{"fabric", "forge", "quilt", "neoforge"} {
		if !ListableLoader(loader) {
			t.Fatalf("expected %q to be listable", loader)
		}
	}
	for _, loader := range []string{"", "liteloader", "rift"} {
		if ListableLoader(loader) {
			t.Fatalf("expected %q not to be listable", loader)
		}
	}
}
