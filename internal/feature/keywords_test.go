package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movie-personalization-service/internal/models"
)

func TestExtractKeywordsOrdersByFrequency(t *testing.T) {
	synopsis := "용사는 전설의 검을 찾아 전설 속 전설 섬으로 떠난다"

	got := ExtractKeywords(synopsis, 10)

	assert.NotEmpty(t, got)
	assert.Equal(t, "전설", got[0])
}

func TestExtractKeywordsTiesKeepFirstSeenOrder(t *testing.T) {
	synopsis := "바다 하늘 바다 하늘 산책"

	got := ExtractKeywords(synopsis, 10)

	assert.Equal(t, []string{"바다", "하늘", "산책"}, got)
}

func TestExtractKeywordsDropsStopwordsAndShortTokens(t *testing.T) {
	synopsis := "그는 위해 영화 속 긴 모험을 꿈꾼다"

	got := ExtractKeywords(synopsis, 10)

	assert.NotContains(t, got, "그는")
	assert.NotContains(t, got, "위해")
	assert.NotContains(t, got, "영화")
	assert.NotContains(t, got, "속")
	assert.Contains(t, got, "모험을")
}

func TestExtractKeywordsStripsPunctuation(t *testing.T) {
	got := ExtractKeywords("\"운명\" 운명, 운명!", 10)

	assert.Equal(t, []string{"운명"}, got)
}

func TestExtractKeywordsTruncatesToK(t *testing.T) {
	got := ExtractKeywords("모험 여행 우정 학교 가족 음악", 3)

	assert.Len(t, got, 3)
}

func TestExtractKeywordsEmptySynopsis(t *testing.T) {
	assert.Nil(t, ExtractKeywords("", 10))
}

func TestExtractFeaturesUsesFirstDirector(t *testing.T) {
	rec := &models.MovieRecord{
		Genres:    []string{"드라마"},
		Directors: []string{"봉준호", "박찬욱"},
		Actors:    []string{"송강호"},
		Keywords:  []string{"가족"},
	}

	fs := ExtractFeatures(rec)

	assert.Equal(t, "봉준호", fs.Director)
	assert.Equal(t, []string{"가족"}, fs.Keywords)
}

func TestExtractFeaturesDerivesKeywordsFromSynopsis(t *testing.T) {
	rec := &models.MovieRecord{
		Synopsis: "기억을 잃은 남자가 기억을 찾아 나선다",
	}

	fs := ExtractFeatures(rec)

	assert.Contains(t, fs.Keywords, "기억을")
}
