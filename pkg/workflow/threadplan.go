package workflow

import (
	"context"
	"strings"

	"github.com/tuitbot/tuitbot/pkg/content"
)

// ThreadPlan drafts a thread about topic, classifies its opening hook,
// and scores its relevance against the business profile's topics.
func (w *Workflow) ThreadPlan(ctx context.Context, topic string, structure content.ThreadStructure) (ThreadPlanOutput, error) {
	result, err := w.generator.GenerateThreadWithStructure(ctx, topic, structure)
	if err != nil {
		return ThreadPlanOutput{}, err
	}

	hook := ""
	if len(result.Tweets) > 0 {
		hook = classifyHook(result.Tweets[0])
	}

	return ThreadPlanOutput{
		Tweets:    result.Tweets,
		Structure: result.Structure,
		Hook:      hook,
		Relevance: topicRelevance(topic, w.profile.Topics),
	}, nil
}

// classifyHook labels the rhetorical shape of a thread's opening tweet.
func classifyHook(first string) string {
	trimmed := strings.TrimSpace(first)
	switch {
	case strings.HasSuffix(trimmed, "?"):
		return "question"
	case containsAny(trimmed, "but", "actually", "wrong", "myth", "unpopular"):
		return "contrarian"
	case containsAny(trimmed, "i ", "we ", "last year", "years ago", "when i"):
		return "story"
	default:
		return "statement"
	}
}

func containsAny(text string, needles ...string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// topicRelevance is the fraction of the profile's topics mentioned in
// topic, a cheap proxy for "is this thread on-brand".
func topicRelevance(topic string, profileTopics []string) float64 {
	if len(profileTopics) == 0 {
		return 0
	}
	lower := strings.ToLower(topic)
	matches := 0
	for _, t := range profileTopics {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			matches++
		}
	}
	return float64(matches) / float64(len(profileTopics))
}
