package content_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

func TestParseThreadDelimited(t *testing.T) {
	raw := "tweet one\n---\ntweet two\n---\ntweet three"
	tweets := content.ParseThread(raw)
	require.Len(t, tweets, 3)
	assert.Equal(t, "tweet one", tweets[0])
	assert.Equal(t, "tweet two", tweets[1])
	assert.Equal(t, "tweet three", tweets[2])
}

func TestParseThreadNumberedFallback(t *testing.T) {
	raw := "1/3 this is the first tweet\n2/3 this is the second tweet\n3/3 this is the third tweet"
	tweets := content.ParseThread(raw)
	require.Len(t, tweets, 3)
	assert.Equal(t, "this is the first tweet", tweets[0])
	assert.Equal(t, "this is the second tweet", tweets[1])
	assert.Equal(t, "this is the third tweet", tweets[2])
}

func TestParseThreadNumberedFallbackWithDotStyle(t *testing.T) {
	raw := "1. first point here\n2. second point here"
	tweets := content.ParseThread(raw)
	require.Len(t, tweets, 2)
	assert.Equal(t, "first point here", tweets[0])
	assert.Equal(t, "second point here", tweets[1])
}

func TestParseThreadNoMarkersReturnsSingleTweet(t *testing.T) {
	raw := "just one plain paragraph with no markers at all"
	tweets := content.ParseThread(raw)
	require.Len(t, tweets, 1)
	assert.Equal(t, raw, tweets[0])
}

func TestParseThreadTweetsStayWithinWeightedLimit(t *testing.T) {
	long := strings.Repeat("word ", 100) + "end."
	raw := long + "\n---\nshort one"
	for _, tw := range content.ParseThread(raw) {
		assert.LessOrEqual(t, toolkit.WeightedLength(tw), 280)
	}
}

func TestTruncateToWeightedLimitLeavesShortTextAlone(t *testing.T) {
	short := "a short tweet that fits easily."
	assert.Equal(t, short, content.TruncateToWeightedLimit(short))
}

func TestTruncateToWeightedLimitCutsAtSentenceBoundary(t *testing.T) {
	sentence := "This is a sentence that repeats itself many times over. "
	raw := strings.Repeat(sentence, 10)
	truncated := content.TruncateToWeightedLimit(raw)

	assert.LessOrEqual(t, toolkit.WeightedLength(truncated), 280)
	assert.True(t, strings.HasSuffix(truncated, "."), "expected truncation to end on a sentence boundary, got %q", truncated)
}
