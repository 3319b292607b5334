package feature

import (
	"math/rand"
	"strings"
)

// emotionTagPools holds the tag pool per emotion category.
var emotionTagPools = map[string][]string{
	"happy":  {"#기분_UP", "#신나는", "#활기찬", "#긍정적인"},
	"sad":    {"#눈물", "#감성적인", "#위로가_필요해", "#쓸쓸한"},
	"angry":  {"#스트레스_해소", "#통쾌한", "#복수"},
	"relax":  {"#힐링", "#차분한", "#잔잔한", "#생각이_많을때"},
	"love":   {"#로맨틱", "#설레는", "#사랑스러운"},
	"thrill": {"#스릴넘치는", "#손에_땀을_쥐는", "#긴장감"},
}

// titleCues maps title substrings to emotion categories. Kept as an
// ordered slice so detection walks in a fixed order.
var titleCues = []struct {
	cue     string
	emotion string
}{
	{"사랑", "love"}, {"로맨스", "love"}, {"연인", "love"},
	{"전쟁", "angry"}, {"복수", "angry"}, {"범죄", "angry"}, {"액션", "angry"},
	{"슬픔", "sad"}, {"이별", "sad"}, {"눈물", "sad"}, {"죽음", "sad"},
	{"코미디", "happy"}, {"웃음", "happy"}, {"축제", "happy"},
	{"스릴러", "thrill"}, {"공포", "thrill"}, {"미스터리", "thrill"},
	{"드라마", "relax"}, {"가족", "relax"}, {"자연", "relax"},
}

// fallbackEmotions are picked from when no title cue matches.
var fallbackEmotions = []string{"relax", "thrill"}

// MoodTags generates mood tags for a movie title. Title substrings
// select emotion categories; 1-2 tags are sampled from each matched
// category's pool. The sampling is intentionally non-deterministic in
// production; tests inject a fixed source.
func MoodTags(title string, rng *rand.Rand) []string {
	var emotions []string
	seen := make(map[string]bool)
	for _, c := range titleCues {
		if strings.Contains(title, c.cue) && !seen[c.emotion] {
			seen[c.emotion] = true
			emotions = append(emotions, c.emotion)
		}
	}
	if len(emotions) == 0 {
		emotions = append(emotions, fallbackEmotions[rng.Intn(len(fallbackEmotions))])
	}

	var tags []string
	tagSeen := make(map[string]bool)
	for _, emotion := range emotions {
		pool := emotionTagPools[emotion]
		count := 1 + rng.Intn(2)
		for _, idx := range rng.Perm(len(pool))[:count] {
			tag := pool[idx]
			if !tagSeen[tag] {
				tagSeen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
