package retrieval

import (
	"testing"

	"github.com/ternarybob/colligo/internal/models"
)

func TestRankImagesWeightsHeading(t *testing.T) {
	images := []models.Image{
		{URL: "a", AltText: "office building"},             // alt overlap: 1*2 = 2
		{URL: "b", Heading: "Office Tour"},                 // heading overlap: 1*3 = 3
		{URL: "c", SurroundingText: "our office is large"}, // surrounding overlap: 1*1 = 1
	}

	ranked := RankImages("show me the office", images, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked images, got %d", len(ranked))
	}
	if ranked[0].URL != "b" {
		t.Errorf("heading match should rank first, got %s", ranked[0].URL)
	}
	if ranked[1].URL != "a" {
		t.Errorf("alt match should rank second, got %s", ranked[1].URL)
	}
}

func TestRankImagesExcludesZeroScores(t *testing.T) {
	images := []models.Image{
		{URL: "a", AltText: "sunset over mountains"},
		{URL: "b", AltText: "quarterly revenue chart"},
	}

	ranked := RankImages("revenue chart", images, 3)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 relevant image, got %d", len(ranked))
	}
	if ranked[0].URL != "b" {
		t.Errorf("expected revenue image, got %s", ranked[0].URL)
	}
}

func TestRankImagesRespectsLimit(t *testing.T) {
	images := []models.Image{
		{URL: "a", AltText: "product"},
		{URL: "b", AltText: "product"},
		{URL: "c", AltText: "product"},
		{URL: "d", AltText: "product"},
	}

	ranked := RankImages("product", images, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(ranked))
	}
	// Equal scores keep harvest order.
	if ranked[0].URL != "a" || ranked[1].URL != "b" || ranked[2].URL != "c" {
		t.Errorf("ties should keep original order, got %v", []string{ranked[0].URL, ranked[1].URL, ranked[2].URL})
	}
}

func TestRankImagesNoImages(t *testing.T) {
	if got := RankImages("anything", nil, 3); got != nil {
		t.Errorf("expected nil for no images, got %v", got)
	}
}
