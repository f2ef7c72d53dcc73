package contentcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lodestone/internal/catalog"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	return NewStore(path, nil, opts...), path
}

func identity(projectID string) Identity {
	return Identity{
		ProjectID:   projectID,
		Slug:        "sodium",
		Title:       "Sodium",
		Author:      "jellysquid3",
		Source:      catalog.PlatformModrinth,
		ProjectType: catalog.ContentTypeMod,
	}
}

func TestSetIdentityAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "Sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	record, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar")
	if !ok {
		t.Fatal("expected record")
	}
	if record.Identity == nil || record.Identity.ProjectID != "P1" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if record.ResolvedAt.IsZero() {
		t.Fatal("expected resolved timestamp")
	}
}

func TestKeyIgnoresDisabledMarkerAndCase(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "Sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar.disabled"); !ok {
		t.Fatal("expected disabled variant to share the record")
	}
}

func TestIdentityTTLBoundary(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store, _ := newTestStore(t,
		WithTTLs(30*24*time.Hour, 6*time.Hour),
		WithClock(func() time.Time { return now }),
	)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	now = base.Add(30*24*time.Hour - time.Millisecond)
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar"); !ok {
		t.Fatal("expected record just before expiry")
	}

	now = base.Add(30*24*time.Hour + time.Millisecond)
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar"); ok {
		t.Fatal("expected record absent just after expiry")
	}
}

func TestUpdateExpiresIndependentlyOfIdentity(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store, _ := newTestStore(t, WithClock(func() time.Time { return now }))

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}
	if err := store.SetUpdate("inst", catalog.ContentTypeMod, "sodium.jar", Update{Available: true, FileName: "sodium-new.jar"}); err != nil {
		t.Fatalf("SetUpdate returned error: %v", err)
	}

	now = base.Add(7 * time.Hour)
	record, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar")
	if !ok {
		t.Fatal("expected record while identity is fresh")
	}
	if record.Update != nil {
		t.Fatal("expected update verdict to have expired")
	}
	if record.Identity == nil || record.Identity.ProjectID != "P1" {
		t.Fatalf("expected identity to survive, got %#v", record)
	}
}

func TestSetUpdatePreservesIdentity(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}
	if err := store.SetUpdate("inst", catalog.ContentTypeMod, "sodium.jar", Update{Available: false}); err != nil {
		t.Fatalf("SetUpdate returned error: %v", err)
	}

	record, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar")
	if !ok || record.Identity == nil || record.Update == nil {
		t.Fatalf("expected both sections, got %#v", record)
	}
}

func TestRemoveOrphans(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"keep.jar", "gone.jar"} {
		if err := store.SetIdentity("inst", catalog.ContentTypeMod, name, identity("P-"+name)); err != nil {
			t.Fatalf("SetIdentity returned error: %v", err)
		}
	}
	if err := store.SetIdentity("other", catalog.ContentTypeMod, "gone.jar", identity("P-other")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	removed, err := store.RemoveOrphans("inst", catalog.ContentTypeMod, []string{"keep.jar"})
	if err != nil {
		t.Fatalf("RemoveOrphans returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "gone.jar"); ok {
		t.Fatal("expected orphan to be absent")
	}
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "keep.jar"); !ok {
		t.Fatal("expected listed file to survive")
	}
	if _, ok := store.Get("other", catalog.ContentTypeMod, "gone.jar"); !ok {
		t.Fatal("expected other scope to be untouched")
	}
}

func TestRemoveScope(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "a.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}
	if err := store.SetIdentity("inst", catalog.ContentTypeResourcePack, "b.zip", identity("P2")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}
	if err := store.SetIdentity("other", catalog.ContentTypeMod, "c.jar", identity("P3")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	removed, err := store.RemoveScope("inst")
	if err != nil {
		t.Fatalf("RemoveScope returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if _, ok := store.Get("other", catalog.ContentTypeMod, "c.jar"); !ok {
		t.Fatal("expected other scope to survive")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	reopened := NewStore(path, nil)
	record, ok := reopened.Get("inst", catalog.ContentTypeMod, "sodium.jar")
	if !ok || record.Identity.ProjectID != "P1" {
		t.Fatalf("expected persisted record, got %#v", record)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store := NewStore(path, nil)
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar"); ok {
		t.Fatal("expected empty store after corrupt load")
	}
	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("expected store to remain writable: %v", err)
	}
}

func TestForeignNamespaceStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte(`{"namespace":"something-else","entries":{}}`), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := NewStore(path, nil)
	if stats := store.Stats(); stats.Records != 0 {
		t.Fatalf("expected empty store, got %d records", stats.Records)
	}
}

func TestSweepDropsFullyExpiredRecords(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store, _ := newTestStore(t, WithClock(func() time.Time { return now }))

	if err := store.SetUpdate("inst", catalog.ContentTypeMod, "stale.jar", Update{Available: false}); err != nil {
		t.Fatalf("SetUpdate returned error: %v", err)
	}
	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "fresh.jar", identity("P1")); err != nil {
		t.Fatalf("SetIdentity returned error: %v", err)
	}

	now = base.Add(24 * time.Hour)
	removed, err := store.Sweep()
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if stats := store.Stats(); stats.Records != 1 || stats.FreshIdentities != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestEmptyPathIsNoop(t *testing.T) {
	store := NewStore("", nil)
	if err := store.SetIdentity("inst", catalog.ContentTypeMod, "sodium.jar", identity("P1")); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if _, ok := store.Get("inst", catalog.ContentTypeMod, "sodium.jar"); ok {
		t.Fatal("expected empty-path store to hold nothing")
	}
}
