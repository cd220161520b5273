// Package battle orchestrates roast battle rounds and session statistics.
package battle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/roastbattle/domain"
	"github.com/xiaot623/roastbattle/policy"
	"github.com/xiaot623/roastbattle/roast"
	"github.com/xiaot623/roastbattle/store"
)

// WinnerEpsilon is the tie window: overall scores closer than this are a tie.
// It is part of the public contract.
const WinnerEpsilon = 0.01

// ErrSessionNotFound means the session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// RejectedError means the submitted roast was denied by policy before any
// remote call.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("roast rejected: %s", e.Reason)
}

// RoundInput is the caller's input for one round.
type RoundInput struct {
	UserRoast  string            `json:"user_roast"`
	Target     string            `json:"target,omitempty"`
	Style      domain.Style      `json:"style,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	// Comeback makes the AI answer the user's roast directly instead of
	// roasting the configured target.
	Comeback bool `json:"comeback,omitempty"`
}

// Service sequences rounds and exposes history and stats. One round runs
// start to finish before the next; the store append is the only shared write.
type Service struct {
	store       store.Store
	generator   *roast.Generator
	scorer      *roast.Scorer
	policy      *policy.Engine
	callTimeout time.Duration
}

// New creates a battle service. callTimeout bounds each remote model call.
func New(st store.Store, generator *roast.Generator, scorer *roast.Scorer, policyEngine *policy.Engine, callTimeout time.Duration) *Service {
	if callTimeout <= 0 {
		callTimeout = 20 * time.Second
	}
	return &Service{
		store:       st,
		generator:   generator,
		scorer:      scorer,
		policy:      policyEngine,
		callTimeout: callTimeout,
	}
}

// CreateSession starts a new battle session.
func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String()[:8],
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession returns the session, or ErrSessionNotFound.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

type scoreOutcome struct {
	score domain.ScoreResult
	err   error
}

// PlayRound runs one full round: gate the user roast, score it and generate
// the AI roast concurrently, score the AI roast, decide the winner and append
// the record. A generation failure downgrades to a canned roast rather than
// aborting; only authentication failures and policy rejections abort, in
// which case nothing is recorded.
func (s *Service) PlayRound(ctx context.Context, sessionID string, input RoundInput) (*domain.RoundRecord, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	userRoast := strings.TrimSpace(input.UserRoast)
	allowed, reason, err := s.policy.Evaluate(ctx, policy.Input{Roast: userRoast})
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}
	if !allowed {
		return nil, &RejectedError{Reason: reason}
	}

	style := input.Style
	if !style.Valid() {
		style = domain.StyleClever
	}
	target := strings.TrimSpace(input.Target)
	if target == "" {
		target = "you"
	}

	// The user-score call and the AI generation are independent; run them
	// concurrently. The AI-score call needs the generated roast and waits.
	userCh := make(chan scoreOutcome, 1)
	go func() {
		sctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		score, err := s.scorer.ScoreRoast(sctx, userRoast)
		userCh <- scoreOutcome{score: score, err: err}
	}()

	aiRoast, aiFallback := s.generateAIRoast(ctx, userRoast, target, style, input.Difficulty, input.Comeback)

	userOutcome := <-userCh
	if userOutcome.err != nil {
		return nil, userOutcome.err
	}

	actx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	aiScore, err := s.scorer.ScoreRoast(actx, aiRoast)
	if err != nil {
		return nil, err
	}

	record := &domain.RoundRecord{
		RoundID:    "rnd_" + uuid.New().String()[:8],
		SessionID:  sessionID,
		UserRoast:  userRoast,
		AIRoast:    aiRoast,
		UserScore:  userOutcome.score,
		AIScore:    aiScore,
		Winner:     DecideWinner(userOutcome.score.Overall, aiScore.Overall),
		AIFallback: aiFallback,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.AppendRound(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append round: %w", err)
	}
	return record, nil
}

// generateAIRoast produces the AI's line for the round, falling back to a
// canned roast when generation fails. The fallback keeps the round alive;
// authentication failures are not swallowed here because the following score
// call will surface them.
func (s *Service) generateAIRoast(ctx context.Context, userRoast, target string, style domain.Style, difficulty domain.Difficulty, comeback bool) (string, bool) {
	gctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	var aiRoast string
	var err error
	if comeback {
		aiRoast, err = s.generator.GenerateComeback(gctx, userRoast, style)
	} else {
		aiRoast, err = s.generator.GenerateRoast(gctx, domain.RoastRequest{
			Target:     target,
			Style:      style,
			Difficulty: difficulty,
		})
	}
	if err != nil {
		log.Printf("WARN: AI roast generation failed, using canned fallback: %v", err)
		return roast.FallbackRoast(style), true
	}
	return aiRoast, false
}

// DecideWinner compares two overall scores. Scores within WinnerEpsilon of
// each other are a tie.
func DecideWinner(userOverall, aiOverall float64) domain.Winner {
	diff := userOverall - aiOverall
	if diff > -WinnerEpsilon && diff < WinnerEpsilon {
		return domain.WinnerTie
	}
	if diff > 0 {
		return domain.WinnerUser
	}
	return domain.WinnerAI
}

// History returns the session's rounds in round order. A positive limit
// returns only the most recent rounds.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rounds, err := s.store.GetRounds(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	return rounds, nil
}

// Stats recomputes the session's statistics from its history.
func (s *Service) Stats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	counts, err := s.store.WinnerCounts(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count winners: %w", err)
	}

	stats := &domain.SessionStats{
		UserWins: counts[domain.WinnerUser],
		AIWins:   counts[domain.WinnerAI],
		Ties:     counts[domain.WinnerTie],
	}
	stats.Rounds = stats.UserWins + stats.AIWins + stats.Ties
	if stats.Rounds > 0 {
		stats.WinRate = float64(stats.UserWins) / float64(stats.Rounds)
	}
	return stats, nil
}

// Reset clears the session's history so the battle starts over.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.DeleteRounds(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}
