package content_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/llmprovider"
)

type fakeProvider struct {
	text    string
	lastSys string
	lastUsr string
	err     error
}

func (f *fakeProvider) Complete(_ context.Context, system, user string, _ llmprovider.CompleteParams) (llmprovider.Response, error) {
	f.lastSys = system
	f.lastUsr = user
	if f.err != nil {
		return llmprovider.Response{}, f.err
	}
	return llmprovider.Response{Text: f.text, Model: "fake-model"}, nil
}

func (f *fakeProvider) HealthCheck(context.Context) error { return nil }
func (f *fakeProvider) Name() string                      { return "fake" }

func testProfile() content.BusinessProfile {
	return content.BusinessProfile{
		ProductName: "Tuitbot",
		Description: "an autonomous social growth assistant",
		Audience:    "indie founders",
		Keywords:    []string{"automation", "twitter"},
		VoiceStyle:  "direct, a little dry",
	}
}

func TestGenerateReplyUsesRequestedArchetype(t *testing.T) {
	provider := &fakeProvider{text: "Totally agree, and here's why that matters."}
	gen := content.NewGenerator(provider, testProfile())

	result, err := gen.GenerateReply(context.Background(), "hot take about scaling", "someuser", false, content.ArchetypeAddData)
	require.NoError(t, err)
	assert.Equal(t, content.ArchetypeAddData, result.Archetype)
	assert.Contains(t, provider.lastUsr, "AddData")
	assert.Contains(t, provider.lastUsr, "someuser")
	assert.NotEmpty(t, result.Text)
}

func TestGenerateReplyPicksRandomArchetypeWhenUnset(t *testing.T) {
	provider := &fakeProvider{text: "Sure, makes sense."}
	gen := content.NewGenerator(provider, testProfile())

	result, err := gen.GenerateReply(context.Background(), "tweet text", "author", false, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Archetype)
}

func TestGenerateReplyPropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: assert.AnError}
	gen := content.NewGenerator(provider, testProfile())

	_, err := gen.GenerateReply(context.Background(), "x", "y", false, content.ArchetypeAskQuestion)
	assert.Error(t, err)
}

func TestGenerateTweetTruncatesOverLongCompletion(t *testing.T) {
	long := strings.Repeat("word ", 100) + "end."
	provider := &fakeProvider{text: long}
	gen := content.NewGenerator(provider, testProfile())

	tweet, err := gen.GenerateTweet(context.Background(), "scaling a solo product")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(tweet)), len([]rune(long)))
}

func TestGenerateThreadWithStructureParsesDelimitedTweets(t *testing.T) {
	provider := &fakeProvider{text: "first tweet in the thread\n---\nsecond tweet in the thread\n---\nthird tweet in the thread"}
	gen := content.NewGenerator(provider, testProfile())

	result, err := gen.GenerateThreadWithStructure(context.Background(), "how we scaled", content.StructureFramework)
	require.NoError(t, err)
	assert.Equal(t, content.StructureFramework, result.Structure)
	require.Len(t, result.Tweets, 3)
	assert.Equal(t, "first tweet in the thread", result.Tweets[0])
}

func TestGenerateThreadWithStructurePicksRandomStructureWhenUnset(t *testing.T) {
	provider := &fakeProvider{text: "only tweet"}
	gen := content.NewGenerator(provider, testProfile())

	result, err := gen.GenerateThreadWithStructure(context.Background(), "topic", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Structure)
}
