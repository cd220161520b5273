package domain

import "time"

// Session represents one battle session. History and stats are scoped to it.
type Session struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RoastRequest describes one roast to generate. Immutable, built per round.
type RoastRequest struct {
	Target     string     `json:"target"`
	Style      Style      `json:"style"`
	Difficulty Difficulty `json:"difficulty"`
}

// ScoreResult is the judged score for a single roast.
//
// The four dimensions are always within [1,10]; Overall is their exact
// arithmetic mean and Grade is derived from Overall alone. Fallback marks
// scores assigned by the neutral fallback when the judge reply could not be
// parsed.
type ScoreResult struct {
	Creativity int     `json:"creativity"`
	Humor      int     `json:"humor"`
	Impact     int     `json:"impact"`
	Delivery   int     `json:"delivery"`
	Overall    float64 `json:"overall"`
	Grade      Grade   `json:"grade"`
	Feedback   string  `json:"feedback,omitempty"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// RoundRecord is one completed round. Records are append-only: once stored
// they are never edited or deleted for the lifetime of the session.
type RoundRecord struct {
	RoundID    string      `json:"round_id"`
	SessionID  string      `json:"session_id"`
	UserRoast  string      `json:"user_roast"`
	AIRoast    string      `json:"ai_roast"`
	UserScore  ScoreResult `json:"user_score"`
	AIScore    ScoreResult `json:"ai_score"`
	Winner     Winner      `json:"winner"`
	AIFallback bool        `json:"ai_fallback,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SessionStats is a derived view over a session's history. It is recomputed
// on demand and never stored.
type SessionStats struct {
	Rounds   int     `json:"rounds"`
	UserWins int     `json:"user_wins"`
	AIWins   int     `json:"ai_wins"`
	Ties     int     `json:"ties"`
	WinRate  float64 `json:"win_rate"`
}
