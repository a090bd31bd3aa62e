package retrieval

import (
	"sort"
	"strings"

	"github.com/ternarybob/colligo/internal/models"
)

// RankImages scores a source's images against the question by word overlap
// with each image's context, weighting the nearest heading highest. Images
// with no overlap are excluded; at most limit images are returned, ordered by
// descending score with the original harvest order breaking ties.
func RankImages(question string, images []models.Image, limit int) []models.Image {
	if limit <= 0 || len(images) == 0 {
		return nil
	}

	queryTerms := wordSet(question)
	if len(queryTerms) == 0 {
		return nil
	}

	type scored struct {
		image models.Image
		score int
	}

	var ranked []scored
	for _, img := range images {
		score := 2*overlap(queryTerms, img.AltText) +
			2*overlap(queryTerms, img.Caption) +
			3*overlap(queryTerms, img.Heading) +
			overlap(queryTerms, img.SurroundingText)
		if score > 0 {
			ranked = append(ranked, scored{image: img, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]models.Image, len(ranked))
	for i, s := range ranked {
		result[i] = s.image
	}
	return result
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}

func overlap(queryTerms map[string]bool, text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for word := range wordSet(text) {
		if queryTerms[word] {
			count++
		}
	}
	return count
}
