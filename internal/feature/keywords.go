// Package feature derives the compact feature set (keywords, mood
// tags, director, actors) used for similarity computation. Keyword
// extraction is a frequency heuristic and mood tagging a seeded
// simulation; both stand in for richer tagging, deliberately.
package feature

import (
	"sort"
	"strings"
	"unicode/utf8"

	"movie-personalization-service/internal/models"
)

// DefaultKeywordCount is the number of synopsis keywords retained.
const DefaultKeywordCount = 10

const punctuation = ".,!?\"'()"

// stopwords are domain function words that carry no content signal.
var stopwords = map[string]bool{
	"영화": true, "자신": true, "위해": true, "모든": true, "것을": true,
	"대한": true, "그의": true, "그녀의": true, "그리고": true, "하지만": true,
	"자신의": true, "그는": true, "그녀는": true, "에게": true, "에서": true,
	"이다": true, "위한": true, "있는": true, "없는": true, "같은": true,
	"시작한다": true, "된다": true, "만든다": true, "알게": true, "속에서": true,
	"점점": true, "서로를": true, "다시": true, "결심한다": true,
}

// ExtractKeywords returns the k most frequent content words of a
// synopsis. Tokens are split on whitespace, stripped of surrounding
// punctuation, and dropped when a single character or a stop word.
// Ties in frequency keep first-encountered order; there is no
// secondary alphabetic tie-break.
func ExtractKeywords(synopsis string, k int) []string {
	if synopsis == "" {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(synopsis) {
		word := strings.Trim(token, punctuation)
		if utf8.RuneCountInString(word) <= 1 || stopwords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > k {
		order = order[:k]
	}
	return order
}

// ExtractFeatures derives the feature set of one movie record.
func ExtractFeatures(rec *models.MovieRecord) models.FeatureSet {
	fs := models.FeatureSet{
		Genres:   rec.Genres,
		Actors:   rec.Actors,
		Keywords: rec.Keywords,
	}
	if len(fs.Keywords) == 0 {
		fs.Keywords = ExtractKeywords(rec.Synopsis, DefaultKeywordCount)
	}
	if len(rec.Directors) > 0 {
		fs.Director = rec.Directors[0]
	}
	return fs
}
