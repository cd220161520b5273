package roast

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/xiaot623/roastbattle/domain"
	"github.com/xiaot623/roastbattle/llm"
)

func TestScoreRoastEmptyInput(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		t.Fatal("no remote call expected for empty input")
		return nil, nil
	}}
	scorer := NewScorer(stub, "test")

	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := scorer.ScoreRoast(context.Background(), text); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ScoreRoast(%q): expected ErrInvalidInput, got %v", text, err)
		}
	}
}

func TestScoreRoastValidReply(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		if req.ResponseFormat["type"] != "json_object" {
			t.Fatalf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		return textResponse(`{"creativity":8,"humor":7,"impact":9,"delivery":8,"feedback":"Great use of metaphor."}`), nil
	}}
	scorer := NewScorer(stub, "test")

	got, err := scorer.ScoreRoast(context.Background(), "You're like a cloud - when you disappear, it's a beautiful day.")
	if err != nil {
		t.Fatalf("ScoreRoast failed: %v", err)
	}
	if got.Creativity != 8 || got.Humor != 7 || got.Impact != 9 || got.Delivery != 8 {
		t.Fatalf("unexpected dimensions: %+v", got)
	}
	if got.Overall != 8.0 {
		t.Fatalf("expected overall 8.0, got %v", got.Overall)
	}
	if got.Grade != domain.GradeB {
		t.Fatalf("expected grade B, got %s", got.Grade)
	}
	if got.Fallback {
		t.Fatalf("valid reply must not be flagged as fallback")
	}
	if got.Feedback != "Great use of metaphor." {
		t.Fatalf("unexpected feedback: %q", got.Feedback)
	}
}

func TestScoreRoastClampsOutOfRange(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		return textResponse(`{"creativity":0,"humor":12,"impact":5,"delivery":-3,"feedback":""}`), nil
	}}
	scorer := NewScorer(stub, "test")

	got, err := scorer.ScoreRoast(context.Background(), "barely a roast")
	if err != nil {
		t.Fatalf("ScoreRoast failed: %v", err)
	}
	if got.Creativity != 1 || got.Humor != 10 || got.Impact != 5 || got.Delivery != 1 {
		t.Fatalf("expected clamped scores, got %+v", got)
	}
	if got.Overall != 4.25 {
		t.Fatalf("expected overall 4.25, got %v", got.Overall)
	}
	if got.Fallback {
		t.Fatalf("clamped reply is not a fallback")
	}
}

func TestScoreRoastFencedReply(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		return textResponse("```json\n{\"creativity\":6,\"humor\":6,\"impact\":6,\"delivery\":6,\"feedback\":\"ok\"}\n```"), nil
	}}
	scorer := NewScorer(stub, "test")

	got, err := scorer.ScoreRoast(context.Background(), "fenced")
	if err != nil {
		t.Fatalf("ScoreRoast failed: %v", err)
	}
	if got.Overall != 6.0 || got.Fallback {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestScoreRoastMalformedReplies(t *testing.T) {
	replies := []string{
		`{"creativity":8,"humor":7,"impact":9}`,
		`{"creativity":"high","humor":7,"impact":9,"delivery":8}`,
		`not json at all`,
		``,
	}

	for _, reply := range replies {
		stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			return textResponse(reply), nil
		}}
		scorer := NewScorer(stub, "test")

		got, err := scorer.ScoreRoast(context.Background(), "some roast")
		if err != nil {
			t.Fatalf("ScoreRoast(%q) must not error: %v", reply, err)
		}
		if !got.Fallback {
			t.Fatalf("ScoreRoast(%q): expected fallback flag", reply)
		}
		if got.Creativity != 5 || got.Humor != 5 || got.Impact != 5 || got.Delivery != 5 {
			t.Fatalf("ScoreRoast(%q): expected neutral dimensions, got %+v", reply, got)
		}
		if got.Overall != 5.0 || got.Grade != domain.GradeC {
			t.Fatalf("ScoreRoast(%q): expected overall 5.0 grade C, got %+v", reply, got)
		}
	}
}

func TestScoreRoastTransportFailureFallsBack(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		return nil, errors.New("connection reset")
	}}
	scorer := NewScorer(stub, "test")

	got, err := scorer.ScoreRoast(context.Background(), "some roast")
	if err != nil {
		t.Fatalf("transport failure must not abort scoring: %v", err)
	}
	if !got.Fallback || got.Overall != 5.0 {
		t.Fatalf("expected neutral fallback, got %+v", got)
	}
}

func TestScoreRoastAuthFailureIsFatal(t *testing.T) {
	stub := &stubChat{fn: func(req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		return nil, &llm.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid api key"}
	}}
	scorer := NewScorer(stub, "test")

	if _, err := scorer.ScoreRoast(context.Background(), "some roast"); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestGradeTable(t *testing.T) {
	cases := []struct {
		overall float64
		want    domain.Grade
	}{
		{9.6, domain.GradeS},
		{9.5, domain.GradeS},
		{9.4, domain.GradeA},
		{8.7, domain.GradeA},
		{8.5, domain.GradeA},
		{7.0, domain.GradeB},
		{5.5, domain.GradeC},
		{5.0, domain.GradeC},
		{4.9, domain.GradeD},
		{4.0, domain.GradeD},
		{3.9, domain.GradeF},
		{1.0, domain.GradeF},
		{10.0, domain.GradeS},
	}

	for _, tc := range cases {
		if got := GradeFor(tc.overall); got != tc.want {
			t.Fatalf("GradeFor(%v) = %s, want %s", tc.overall, got, tc.want)
		}
		// Pure function: a second call must agree.
		if got := GradeFor(tc.overall); got != tc.want {
			t.Fatalf("GradeFor(%v) is not idempotent", tc.overall)
		}
	}
}

func TestComputeMean(t *testing.T) {
	got := Compute(7, 8, 9, 8)
	if got.Overall != 8.0 {
		t.Fatalf("expected overall 8.0, got %v", got.Overall)
	}

	got = Compute(10, 10, 10, 9)
	if got.Overall != 9.75 || got.Grade != domain.GradeS {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestNeutralScore(t *testing.T) {
	got := NeutralScore()
	if got.Creativity != 5 || got.Humor != 5 || got.Impact != 5 || got.Delivery != 5 {
		t.Fatalf("unexpected neutral dimensions: %+v", got)
	}
	if got.Overall != 5.0 || got.Grade != domain.GradeC || !got.Fallback {
		t.Fatalf("unexpected neutral score: %+v", got)
	}
}
