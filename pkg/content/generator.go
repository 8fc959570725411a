package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	langchainprompts "github.com/tmc/langchaingo/prompts"

	"github.com/tuitbot/tuitbot/pkg/llmprovider"
)

// Generator produces reply, tweet, and thread text for a BusinessProfile
// via an llmprovider.Provider.
type Generator struct {
	provider llmprovider.Provider
	profile  BusinessProfile
}

// NewGenerator wires a provider and the business profile driving its prompts.
func NewGenerator(provider llmprovider.Provider, profile BusinessProfile) *Generator {
	return &Generator{provider: provider, profile: profile}
}

func (p BusinessProfile) section() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n%s\n", p.ProductName, p.Description)
	if p.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", p.Audience)
	}
	if len(p.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(p.Keywords, ", "))
	}
	if len(p.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(p.Topics, ", "))
	}
	if p.VoiceStyle != "" {
		fmt.Fprintf(&b, "Voice: %s\n", p.VoiceStyle)
	}
	for _, opinion := range p.PersonaOpinions {
		fmt.Fprintf(&b, "Opinion: %s\n", opinion)
	}
	if len(p.Pillars) > 0 {
		fmt.Fprintf(&b, "Content pillars: %s\n", strings.Join(p.Pillars, ", "))
	}
	return b.String()
}

const replyPromptTemplate = `You are replying to a tweet on behalf of a product account.

{{.profile}}

Tweet from @{{.author}}: {{.tweet}}

Reply posture: {{.archetype}}
{{if .mentionProduct}}Work a natural mention of the product into the reply.{{end}}

Requirements:
1. Your reply MUST stay under 280 weighted characters.
2. Match the posture above.
3. Sound like a person, not a press release.
4. Respond directly to what the tweet actually says.

Reply:`

// GenerateReply drafts a reply to tweetText from author, in the given
// archetype (a random one is chosen if archetype is "").
func (g *Generator) GenerateReply(ctx context.Context, tweetText, author string, mentionProduct bool, archetype Archetype) (ReplyResult, error) {
	if archetype == "" {
		archetype = allArchetypes[rand.Intn(len(allArchetypes))]
	}

	tmpl := langchainprompts.NewPromptTemplate(replyPromptTemplate,
		[]string{"profile", "author", "tweet", "archetype", "mentionProduct"})
	prompt, err := tmpl.Format(map[string]any{
		"profile":        g.profile.section(),
		"author":         author,
		"tweet":          tweetText,
		"archetype":      string(archetype),
		"mentionProduct": mentionProduct,
	})
	if err != nil {
		return ReplyResult{}, fmt.Errorf("content: format reply prompt: %w", err)
	}

	resp, err := g.provider.Complete(ctx, "You write concise, human social media replies.", prompt, llmprovider.CompleteParams{
		Temperature: 0.8,
		MaxTokens:   200,
	})
	if err != nil {
		return ReplyResult{}, fmt.Errorf("content: generate reply: %w", err)
	}

	return ReplyResult{Text: TruncateToWeightedLimit(strings.TrimSpace(resp.Text)), Archetype: archetype}, nil
}

const tweetPromptTemplate = `You write original tweets on behalf of a product account.

{{.profile}}

Topic: {{.topic}}

Requirements:
1. Must stay under 280 weighted characters.
2. Sound like a person, not a press release.
3. Be concrete — no vague platitudes.

Tweet:`

// GenerateTweet drafts a standalone tweet about topic.
func (g *Generator) GenerateTweet(ctx context.Context, topic string) (string, error) {
	tmpl := langchainprompts.NewPromptTemplate(tweetPromptTemplate, []string{"profile", "topic"})
	prompt, err := tmpl.Format(map[string]any{
		"profile": g.profile.section(),
		"topic":   topic,
	})
	if err != nil {
		return "", fmt.Errorf("content: format tweet prompt: %w", err)
	}

	resp, err := g.provider.Complete(ctx, "You write concise, human social media posts.", prompt, llmprovider.CompleteParams{
		Temperature: 0.8,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("content: generate tweet: %w", err)
	}

	return TruncateToWeightedLimit(strings.TrimSpace(resp.Text)), nil
}

const threadPromptTemplate = `You write Twitter threads on behalf of a product account.

{{.profile}}

Topic: {{.topic}}
Structure: {{.structure}}

Write each tweet of the thread on its own, separated by a line containing only "---".
Each tweet must stay under 280 weighted characters on its own.

Thread:`

// GenerateThreadWithStructure drafts a thread about topic using the
// given structure (a random one is chosen if structure is "").
func (g *Generator) GenerateThreadWithStructure(ctx context.Context, topic string, structure ThreadStructure) (ThreadResult, error) {
	if structure == "" {
		structure = allStructures[rand.Intn(len(allStructures))]
	}

	tmpl := langchainprompts.NewPromptTemplate(threadPromptTemplate, []string{"profile", "topic", "structure"})
	prompt, err := tmpl.Format(map[string]any{
		"profile":   g.profile.section(),
		"topic":     topic,
		"structure": string(structure),
	})
	if err != nil {
		return ThreadResult{}, fmt.Errorf("content: format thread prompt: %w", err)
	}

	resp, err := g.provider.Complete(ctx, "You write structured, human Twitter threads.", prompt, llmprovider.CompleteParams{
		Temperature: 0.85,
		MaxTokens:   1200,
	})
	if err != nil {
		return ThreadResult{}, fmt.Errorf("content: generate thread: %w", err)
	}

	tweets := ParseThread(resp.Text)
	return ThreadResult{Tweets: tweets, Structure: structure}, nil
}
