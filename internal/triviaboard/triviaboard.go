// Package triviaboard implements the turn-based trivia board game engine:
// board setup, per-question lifecycle, turn rotation, and scoring.
// It has zero external dependencies; everything here is pure Go.
//
// Every operation takes a Session value and returns a new one, so the
// engine can be driven and tested deterministically without any rendering
// or transport environment.
package triviaboard

// Board dimensions. A playable board is always full: exactly BoardCategories
// categories of QuestionsPerCategory questions each.
const (
	BoardCategories      = 5
	QuestionsPerCategory = 5
)

// Team count bounds enforced at setup. Out-of-range requests are clamped,
// never rejected.
const (
	MinTeams = 1
	MaxTeams = 6
)

// QuestionValues are the fixed point values per category, increasing with
// question index.
var QuestionValues = [QuestionsPerCategory]int{200, 400, 600, 800, 1000}

// SessionState is the top-level state of a game session.
type SessionState string

const (
	// StateSetup is the initial state: no teams, no board.
	StateSetup SessionState = "setup"
	// StateGenerating means a board-generation call is outstanding.
	// Board interaction is rejected until it completes or fails.
	StateGenerating SessionState = "generating"
	// StatePlaying is the composite state hosting the question lifecycle.
	StatePlaying SessionState = "playing"
)

// Team is one scoring unit. Score is mutated only through question
// resolution and never goes negative (no deduction path exists).
type Team struct {
	ID    int
	Name  string
	Score int
}

// QuestionID addresses a question by its position on the board.
type QuestionID struct {
	Category int
	Question int
}

// Question is a single board cell.
type Question struct {
	Value  int
	Prompt string
	Answer string
}

// Category is a named column of questions with increasing values.
type Category struct {
	Name      string
	Questions []Question
}

// Board is the full set of categories and questions for one session.
type Board struct {
	Categories []Category
}

// Session is the complete state of one play-through, from setup to reset.
// The zero value is not usable; start from NewSession.
type Session struct {
	State          SessionState
	Teams          []Team
	CurrentTeam    int
	Board          Board
	Selection      *QuestionID
	AnswerRevealed bool
	Answered       map[QuestionID]bool
}
