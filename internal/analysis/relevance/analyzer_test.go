package relevance

import (
	"testing"

	"github.com/zhouzirui/medchat/internal/model/medical"
)

func TestScoreWeights(t *testing.T) {
	doc := medical.Document{
		Title:    "Migraine",
		Content:  "Intense throbbing headaches with nausea.",
		Keywords: []string{"migraine", "headache"},
	}

	// "migraine" keyword in query: +10, partial with term "migraine": +5,
	// "headache" keyword not in query, no partial hit.
	// title contains "migraine": +8. content does not contain "migraine".
	// term "bad" is too short for content matching.
	if got := Score("Bad MIGRAINE", doc); got != 23 {
		t.Fatalf("unexpected score: got %d want 23", got)
	}
}

func TestScorePartialKeywordMatch(t *testing.T) {
	doc := medical.Document{Title: "Cold", Keywords: []string{"sore throat"}}

	// "sore" and "throat" are each contained in the keyword: 2 x 5.
	// the keyword itself is not in "throat sore".
	if got := Score("throat sore", doc); got != 10 {
		t.Fatalf("unexpected score: got %d want 10", got)
	}
}

func TestScoreContentTermsNeedFourRunes(t *testing.T) {
	doc := medical.Document{Title: "X", Content: "rest and fluids"}

	if got := Score("and", doc); got != 0 {
		t.Fatalf("short term should not score, got %d", got)
	}
	if got := Score("fluids", doc); got != 2 {
		t.Fatalf("unexpected content score: got %d want 2", got)
	}
}

func TestScoreBlankQuery(t *testing.T) {
	if got := Score("   ", medical.Seed()[0]); got != 0 {
		t.Fatalf("blank query should score 0, got %d", got)
	}
}

func TestRankOrdersAndTruncates(t *testing.T) {
	docs := []medical.Document{
		{ID: "a", Title: "Alpha", Content: "fever"},
		{ID: "b", Title: "Fever", Keywords: []string{"fever"}},
		{ID: "c", Title: "Gamma", Content: "nothing relevant"},
		{ID: "d", Title: "Delta", Content: "fever"},
	}

	matches := Rank("fever", docs, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Document.ID != "b" {
		t.Fatalf("expected best match b, got %s", matches[0].Document.ID)
	}
	// a and d tie; dataset order wins.
	if matches[1].Document.ID != "a" {
		t.Fatalf("expected tie broken by dataset order, got %s", matches[1].Document.ID)
	}
}

func TestRankDropsZeroScores(t *testing.T) {
	if matches := Rank("weather tomorrow", medical.Seed(), 0); len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestRankSeedHeadache(t *testing.T) {
	matches := Rank("I have a headache", medical.Seed(), DefaultTopK)
	if len(matches) == 0 || matches[0].Document.ID != "migraine" {
		t.Fatalf("expected migraine first, got %+v", matches)
	}
}
