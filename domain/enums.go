// Package domain defines the core domain models for the roast battle service.
package domain

// Style represents a roast style.
type Style string

const (
	StyleSavage   Style = "savage"
	StyleClever   Style = "clever"
	StylePlayful  Style = "playful"
	StyleCreative Style = "creative"
	StyleCringe   Style = "cringe"
)

// Valid reports whether the style is one of the known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleSavage, StyleClever, StylePlayful, StyleCreative, StyleCringe:
		return true
	}
	return false
}

// AllStyles lists the known styles in display order.
func AllStyles() []Style {
	return []Style{StyleSavage, StyleClever, StylePlayful, StyleCreative, StyleCringe}
}

// Difficulty represents how hard the AI opponent tries.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Grade is the letter classification derived from an overall score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Winner identifies who won a round.
type Winner string

const (
	WinnerUser Winner = "user"
	WinnerAI   Winner = "ai"
	WinnerTie  Winner = "tie"
)
