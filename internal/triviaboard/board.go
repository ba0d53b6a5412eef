package triviaboard

import "fmt"

// ValidateBoard checks that b is a complete, playable board: exactly
// BoardCategories categories of QuestionsPerCategory questions each, every
// category named, every question with a positive value and non-empty prompt
// and answer. A board that fails validation must never be installed into a
// session; there are no partial boards.
func ValidateBoard(b Board) error {
	if got := len(b.Categories); got != BoardCategories {
		return fmt.Errorf("expected %d categories, got %d", BoardCategories, got)
	}
	for ci, c := range b.Categories {
		if c.Name == "" {
			return fmt.Errorf("category %d has no name", ci+1)
		}
		if got := len(c.Questions); got != QuestionsPerCategory {
			return fmt.Errorf("category %q: expected %d questions, got %d", c.Name, QuestionsPerCategory, got)
		}
		for qi, q := range c.Questions {
			if q.Value <= 0 {
				return fmt.Errorf("category %q question %d has no value", c.Name, qi+1)
			}
			if q.Prompt == "" {
				return fmt.Errorf("category %q question %d has no prompt", c.Name, qi+1)
			}
			if q.Answer == "" {
				return fmt.Errorf("category %q question %d has no answer", c.Name, qi+1)
			}
		}
	}
	return nil
}

// QuestionAt returns the question addressed by id, or an error if id is off
// the board.
func (b Board) QuestionAt(id QuestionID) (Question, error) {
	if id.Category < 0 || id.Category >= len(b.Categories) {
		return Question{}, ErrOutOfRange
	}
	c := b.Categories[id.Category]
	if id.Question < 0 || id.Question >= len(c.Questions) {
		return Question{}, ErrOutOfRange
	}
	return c.Questions[id.Question], nil
}
