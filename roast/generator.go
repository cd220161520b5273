package roast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xiaot623/roastbattle/domain"
	"github.com/xiaot623/roastbattle/llm"
)

// maxExtraAttempts bounds the retry policy. Retries reuse the same prompt, so
// they are idempotent; the cap keeps latency bounded.
const maxExtraAttempts = 2

// Generator produces roasts through a chat completion client.
type Generator struct {
	client     llm.ChatClient
	model      string
	maxRetries int
}

// NewGenerator creates a generator. maxRetries is the number of extra
// attempts after the first, clamped to [0,2].
func NewGenerator(client llm.ChatClient, model string, maxRetries int) *Generator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > maxExtraAttempts {
		maxRetries = maxExtraAttempts
	}
	return &Generator{client: client, model: model, maxRetries: maxRetries}
}

// difficultyParams maps a difficulty to sampling temperature and an extra
// instruction line, as tuned in the original prompt set.
func difficultyParams(d domain.Difficulty) (float64, string) {
	switch d {
	case domain.DifficultyEasy:
		return 0.6, "Keep it simple and straightforward."
	case domain.DifficultyHard:
		return 1.0, "Be exceptionally creative and cutting-edge with your roast."
	default:
		return 0.8, "Be creative but not over the top."
	}
}

// GenerateRoast generates one roast for the request. Unknown styles fall back
// to clever and unknown difficulties to medium. The returned text is trimmed
// and never empty; failures surface as ErrAuthentication, *GenerationError or
// ErrEmptyResponse.
func (g *Generator) GenerateRoast(ctx context.Context, req domain.RoastRequest) (string, error) {
	style := req.Style
	if !style.Valid() {
		style = domain.StyleClever
	}
	difficulty := req.Difficulty
	if !difficulty.Valid() {
		difficulty = domain.DifficultyMedium
	}
	target := strings.TrimSpace(req.Target)
	if target == "" {
		target = "opponent"
	}

	info := styles[style]
	temperature, instruction := difficultyParams(difficulty)

	systemPrompt := fmt.Sprintf(`You are a master roast comedian participating in a roast battle.
Your style is %s.

Rules:
- Generate ONE roast only (1-2 sentences max)
- Be %s
- %s
- NO racism, sexism, or discriminatory content
- Focus on personality, choices, or general characteristics
- Make it funny and entertaining
- Do not use asterisks or emojis`,
		info.tone, strings.ToLower(info.description), instruction)

	userPrompt := fmt.Sprintf("Roast %s. Style: %s.", target, style)

	return g.complete(ctx, systemPrompt, userPrompt, temperature)
}

// GenerateComeback generates a counter-roast to the opponent's line.
func (g *Generator) GenerateComeback(ctx context.Context, opponentRoast string, style domain.Style) (string, error) {
	if !style.Valid() {
		style = domain.StyleClever
	}

	systemPrompt := fmt.Sprintf(`You are a master roast comedian. Someone just roasted you with: %q

Generate a COMEBACK roast that:
- Turns their roast against them
- Is %s
- Is 1-2 sentences max
- Is witty and funny
- Does NOT simply repeat their insult
- NO discriminatory content`,
		opponentRoast, styles[style].tone)

	return g.complete(ctx, systemPrompt, "Generate your comeback roast now.", 0.9)
}

// complete runs the chat completion with the bounded retry policy.
func (g *Generator) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	maxTokens := 150
	topP := 0.9
	req := &llm.ChatCompletionRequest{
		Model: g.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		TopP:        &topP,
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			var apiErr *llm.APIError
			if errors.As(err, &apiErr) {
				if apiErr.IsAuth() {
					return "", fmt.Errorf("%w: %v", ErrAuthentication, apiErr)
				}
				lastErr = &GenerationError{StatusCode: apiErr.StatusCode, Err: apiErr}
			} else {
				lastErr = &GenerationError{Err: err}
			}
			continue
		}

		text := firstChoiceText(resp)
		if text == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return text, nil
	}

	return "", lastErr
}

// firstChoiceText extracts and cleans the first candidate reply.
func firstChoiceText(resp *llm.ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return ""
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	text = strings.Trim(text, `"'`)
	return strings.TrimSpace(text)
}
