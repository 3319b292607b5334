package catalog

// GenreIDs maps display genre names to catalog provider genre ids.
var GenreIDs = map[string]int{
	"액션":    28,
	"모험":    12,
	"애니메이션": 16,
	"코미디":   35,
	"드라마":   18,
	"가족":    10751,
	"판타지":   14,
	"역사":    36,
	"음악":    10402,
	"미스터리":  9648,
	"로맨스":   10749,
	"SF":    878,
	"스릴러":   53,
	"다큐멘터리": 99,
}

// MoodGenreMap maps mood keywords to the genre ids that serve them.
var MoodGenreMap = map[string][]int{
	"신나는":     {GenreIDs["액션"], GenreIDs["모험"], GenreIDs["코미디"]},
	"행복한":     {GenreIDs["코미디"], GenreIDs["로맨스"], GenreIDs["음악"], GenreIDs["가족"]},
	"위로가 필요한": {GenreIDs["드라마"], GenreIDs["로맨스"], GenreIDs["애니메이션"]},
	"생각이 많은":  {GenreIDs["SF"], GenreIDs["미스터리"], GenreIDs["드라마"], GenreIDs["다큐멘터리"]},
}

// DefaultOnboardingGenres is the genre spread used when no mood is given.
var DefaultOnboardingGenres = []int{
	GenreIDs["액션"], GenreIDs["로맨스"], GenreIDs["코미디"],
	GenreIDs["SF"], GenreIDs["애니메이션"], GenreIDs["스릴러"],
}

// GenreNameByID returns the display name for a genre id.
func GenreNameByID(id int) string {
	for name, gid := range GenreIDs {
		if gid == id {
			return name
		}
	}
	return "기타"
}

// GenreIDsForMood resolves mood keywords to a de-duplicated genre id
// set, falling back to the default onboarding spread when none match.
func GenreIDsForMood(moods []string) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, mood := range moods {
		for _, id := range MoodGenreMap[mood] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		// Mood keywords may also name a genre directly.
		if id, ok := GenreIDs[mood]; ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return DefaultOnboardingGenres
	}
	return ids
}
