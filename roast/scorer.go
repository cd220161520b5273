package roast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/xiaot623/roastbattle/domain"
	"github.com/xiaot623/roastbattle/llm"
)

// Grade thresholds over the overall score. These are part of the public
// contract: S >= 9.5, A >= 8.5, B >= 7, C >= 5, D >= 4, else F. The C floor
// sits at 5.0 so the neutral fallback score grades C.
const (
	gradeSMin = 9.5
	gradeAMin = 8.5
	gradeBMin = 7.0
	gradeCMin = 5.0
	gradeDMin = 4.0
)

const judgePrompt = `You are an expert roast battle judge. Evaluate the given roast on these criteria:

1. creativity (1-10): How original and unexpected is it?
2. humor (1-10): How funny is it?
3. impact (1-10): How cutting/effective is it?
4. delivery (1-10): How well-written and punchy is it?

Respond ONLY with a JSON object in exactly this shape, no other text:
{"creativity": 8, "humor": 7, "impact": 9, "delivery": 8, "feedback": "one sentence of constructive feedback"}`

// Scorer judges roasts through a chat completion client.
type Scorer struct {
	client llm.ChatClient
	model  string
}

// NewScorer creates a scorer.
func NewScorer(client llm.ChatClient, model string) *Scorer {
	return &Scorer{client: client, model: model}
}

// ScoreRoast scores one roast. Empty input returns ErrInvalidInput before any
// remote call and an authentication failure returns ErrAuthentication; every
// other failure resolves to the neutral fallback score so a round can always
// complete.
func (s *Scorer) ScoreRoast(ctx context.Context, text string) (domain.ScoreResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ScoreResult{}, ErrInvalidInput
	}

	temperature := 0.3
	maxTokens := 200
	req := &llm.ChatCompletionRequest{
		Model: s.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: judgePrompt},
			{Role: "user", Content: fmt.Sprintf("Roast to evaluate: %q", text)},
		},
		Temperature:    &temperature,
		MaxTokens:      &maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) && apiErr.IsAuth() {
			return domain.ScoreResult{}, fmt.Errorf("%w: %v", ErrAuthentication, apiErr)
		}
		log.Printf("WARN: judge call failed, using neutral score: %v", err)
		return NeutralScore(), nil
	}

	reply := firstChoiceText(resp)
	result, err := parseJudgeReply(reply)
	if err != nil {
		log.Printf("WARN: unparsable judge reply, using neutral score: %v", err)
		return NeutralScore(), nil
	}

	return result, nil
}

// judgeReply is the strict shape the judge must return. Pointers distinguish
// a missing dimension from a legitimate zero (which is out of range anyway).
type judgeReply struct {
	Creativity *float64 `json:"creativity"`
	Humor      *float64 `json:"humor"`
	Impact     *float64 `json:"impact"`
	Delivery   *float64 `json:"delivery"`
	Feedback   string   `json:"feedback"`
}

// parseJudgeReply validates the judge's JSON reply. Out-of-range values are
// clamped; missing or non-numeric dimensions are a parse failure.
func parseJudgeReply(reply string) (domain.ScoreResult, error) {
	reply = stripCodeFence(reply)
	if reply == "" {
		return domain.ScoreResult{}, fmt.Errorf("empty judge reply")
	}

	var parsed judgeReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return domain.ScoreResult{}, fmt.Errorf("invalid judge JSON: %w", err)
	}
	if parsed.Creativity == nil || parsed.Humor == nil || parsed.Impact == nil || parsed.Delivery == nil {
		return domain.ScoreResult{}, fmt.Errorf("judge reply missing dimensions: %s", reply)
	}

	result := Compute(
		int(math.Round(*parsed.Creativity)),
		int(math.Round(*parsed.Humor)),
		int(math.Round(*parsed.Impact)),
		int(math.Round(*parsed.Delivery)),
	)
	result.Feedback = strings.TrimSpace(parsed.Feedback)
	return result, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// wrap around JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Compute builds a ScoreResult from the four dimensions. Each dimension is
// clamped to [1,10]; overall is the exact arithmetic mean; the grade follows
// from overall alone.
func Compute(creativity, humor, impact, delivery int) domain.ScoreResult {
	creativity = clampScore(creativity)
	humor = clampScore(humor)
	impact = clampScore(impact)
	delivery = clampScore(delivery)

	overall := float64(creativity+humor+impact+delivery) / 4.0

	return domain.ScoreResult{
		Creativity: creativity,
		Humor:      humor,
		Impact:     impact,
		Delivery:   delivery,
		Overall:    overall,
		Grade:      GradeFor(overall),
	}
}

// GradeFor derives the letter grade from an overall score.
func GradeFor(overall float64) domain.Grade {
	switch {
	case overall >= gradeSMin:
		return domain.GradeS
	case overall >= gradeAMin:
		return domain.GradeA
	case overall >= gradeBMin:
		return domain.GradeB
	case overall >= gradeCMin:
		return domain.GradeC
	case overall >= gradeDMin:
		return domain.GradeD
	default:
		return domain.GradeF
	}
}

// NeutralScore is the deterministic fallback assigned when the judge reply
// cannot be obtained or parsed.
func NeutralScore() domain.ScoreResult {
	result := Compute(5, 5, 5, 5)
	result.Feedback = "Score unavailable, neutral rating applied."
	result.Fallback = true
	return result
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
