package matchscore

import (
	"testing"

	"lodestone/internal/catalog"
)

func hit(slug, title string) catalog.Hit {
	return catalog.Hit{ID: "p-" + slug, Slug: slug, Title: title}
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name  string
		query string
		hit   catalog.Hit
		want  int
	}{
		{"slug exact", "journeymap", hit("journeymap", "JourneyMap"), 100},
		{"title exact", "journeymap", hit("jmap", "JourneyMap"), 95},
		{"compact slug", "iron-chests", hit("ironchests", "Other"), 92},
		{"compact title", "iron-chests", hit("other", "IronChests"), 90},
		{"slug prefix", "sodium", hit("sodium-extra", "Sodium Extra"), 84},
		{"title prefix", "sodium", hit("other", "Sodium-Extras"), 80},
		{"full token coverage", "iron-chests-restocked", hit("restocked-iron-chests-plus", "x"), 74},
		{"partial token coverage", "iron-chests-gold-extra", hit("iron-chests-gold", "x"), 62},
		{"coverage split across slug and title", "iron-chests", hit("ironworks", "Many Chests"), 0},
		{"coverage reached within title alone", "iron-chests", hit("other", "Big Iron Chests"), 74},
		{"long single token substring", "journey", hit("xjourneyx", "x"), 45},
		{"short single token substring ignored", "iris", hit("irisshaders", "x"), 0},
		{"no match", "sodium", hit("lithium", "Lithium"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, tt.hit); got != tt.want {
				t.Fatalf("Score(%q, %q/%q) = %d, want %d", tt.query, tt.hit.Slug, tt.hit.Title, got, tt.want)
			}
		})
	}
}

func TestSelectBestAcceptsExactSlug(t *testing.T) {
	selection, ok := SelectBest([]string{"journeymap"}, []catalog.Hit{hit("journeymap", "JourneyMap")})
	if !ok {
		t.Fatal("expected selection to be accepted")
	}
	if selection.Score != 100 || selection.Hit.Slug != "journeymap" {
		t.Fatalf("unexpected selection: %#v", selection)
	}
}

func TestSelectBestRejectsSingleTokenSubstring(t *testing.T) {
	// 45 points from the substring rule never clears the single-token bar.
	if _, ok := SelectBest([]string{"journey"}, []catalog.Hit{hit("xjourneyx", "x")}); ok {
		t.Fatal("expected substring-only single-token match to be rejected")
	}
}

func TestSelectBestAcceptsMultiTokenCoverage(t *testing.T) {
	selection, ok := SelectBest(
		[]string{"iron-chests-restocked"},
		[]catalog.Hit{hit("restocked-iron-chests", "x")},
	)
	if !ok {
		t.Fatal("expected multi-token coverage match to be accepted")
	}
	if selection.Score != 74 {
		t.Fatalf("unexpected score %d", selection.Score)
	}
}

func TestSelectBestRejectsCoverageSplitAcrossFields(t *testing.T) {
	// Neither field covers enough tokens on its own; evidence spread over
	// slug and title must not be pooled into an acceptance.
	if _, ok := SelectBest([]string{"iron-chests"}, []catalog.Hit{hit("ironworks", "Many Chests")}); ok {
		t.Fatal("expected split-field coverage to be rejected")
	}
}

func TestSelectBestPrefersGlobalMaximum(t *testing.T) {
	queries := []string{"sodium-fabric-mc1-20-1-0-5-3", "sodium"}
	hits := []catalog.Hit{
		hit("sodium-extra", "Sodium Extra"),
		hit("sodium", "Sodium"),
	}
	selection, ok := SelectBest(queries, hits)
	if !ok {
		t.Fatal("expected a winner")
	}
	if selection.Hit.Slug != "sodium" || selection.Score != 100 || selection.Query != "sodium" {
		t.Fatalf("unexpected selection: %#v", selection)
	}
}

func TestSelectBestDeterministic(t *testing.T) {
	queries := []string{"iron-chests", "iron"}
	hits := []catalog.Hit{hit("ironchests", "Iron Chests"), hit("iron-chests", "Iron Chests")}
	first, okFirst := SelectBest(queries, hits)
	for i := 0; i < 5; i++ {
		again, okAgain := SelectBest(queries, hits)
		if okFirst != okAgain || first != again {
			t.Fatalf("selection changed between runs: %#v vs %#v", first, again)
		}
	}
}

func TestSelectBestEmptyInputs(t *testing.T) {
	if _, ok := SelectBest(nil, nil); ok {
		t.Fatal("expected no selection for empty inputs")
	}
	if _, ok := SelectBest([]string{"sodium"}, nil); ok {
		t.Fatal("expected no selection without hits")
	}
}
