package safety_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/safety"
)

func TestCheckBannedPhrasesFindsFirstMatch(t *testing.T) {
	match := safety.CheckBannedPhrases("this is definitely a scam offer", []string{"giveaway", "scam"})
	assert.Equal(t, "scam", match)
}

func TestCheckBannedPhrasesIsCaseInsensitiveSubstring(t *testing.T) {
	match := safety.CheckBannedPhrases("ask me about CRYPTOcurrency gains", []string{"crypto"})
	assert.Equal(t, "crypto", match)
}

func TestCheckBannedPhrasesNoMatch(t *testing.T) {
	match := safety.CheckBannedPhrases("a perfectly ordinary tweet", []string{"giveaway", "scam"})
	assert.Equal(t, "", match)
}

type fakeReplySource struct {
	texts []string
}

func (f fakeReplySource) RecentReplyTexts(context.Context, int) ([]string, error) {
	return f.texts, nil
}

func TestCheckRecentPhrasingFlagsNearDuplicate(t *testing.T) {
	source := fakeReplySource{texts: []string{"totally agree rust async is genuinely hard to get right"}}
	result, err := safety.CheckRecentPhrasing(context.Background(), source, "totally agree rust async is genuinely hard to get", 10)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.GreaterOrEqual(t, result.Similarity, 0.8)
}

func TestCheckRecentPhrasingAllowsDistinctText(t *testing.T) {
	source := fakeReplySource{texts: []string{"completely different topic about gardening tips"}}
	result, err := safety.CheckRecentPhrasing(context.Background(), source, "rust async runtimes are interesting", 10)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
}

func TestCheckRecentPhrasingEmptyHistory(t *testing.T) {
	source := fakeReplySource{}
	result, err := safety.CheckRecentPhrasing(context.Background(), source, "anything at all", 10)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 0.0, result.Similarity)
}

func TestRedactScrubsBearerToken(t *testing.T) {
	out := safety.Redact(`Authorization: Bearer abc123.def-456_ghi`)
	assert.NotContains(t, out, "abc123")
	assert.Contains(t, out, "***REDACTED***")
}

func TestRedactScrubsTokenPairs(t *testing.T) {
	out := safety.Redact("refresh_token=supersecretvalue&other=fine")
	assert.NotContains(t, out, "supersecretvalue")
	assert.Contains(t, out, "other=fine")
	assert.Contains(t, out, "refresh_token=***REDACTED***")
}
