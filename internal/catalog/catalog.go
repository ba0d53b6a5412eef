// Package catalog serves the built-in, fixed question catalog from SQLite.
// It is the static board strategy: deterministic, with no failure mode once
// the process has started.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

// Store reads boards from the seeded question catalog.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Board loads the full static board, ordered by category and question
// position, and validates it before returning. A malformed catalog is a
// deployment defect, not a session-level condition.
func (s *Store) Board(ctx context.Context) (triviaboard.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, q.value, q.prompt, q.answer
		FROM questions q
		JOIN categories c ON c.id = q.category_id
		ORDER BY c.position, q.position
	`)
	if err != nil {
		return triviaboard.Board{}, fmt.Errorf("loading catalog: %w", err)
	}
	defer rows.Close()

	var board triviaboard.Board
	for rows.Next() {
		var name string
		var q triviaboard.Question
		if err := rows.Scan(&name, &q.Value, &q.Prompt, &q.Answer); err != nil {
			return triviaboard.Board{}, fmt.Errorf("scanning catalog row: %w", err)
		}
		n := len(board.Categories)
		if n == 0 || board.Categories[n-1].Name != name {
			board.Categories = append(board.Categories, triviaboard.Category{Name: name})
			n++
		}
		board.Categories[n-1].Questions = append(board.Categories[n-1].Questions, q)
	}
	if err := rows.Err(); err != nil {
		return triviaboard.Board{}, fmt.Errorf("reading catalog: %w", err)
	}

	if err := triviaboard.ValidateBoard(board); err != nil {
		return triviaboard.Board{}, fmt.Errorf("catalog is not a playable board: %w", err)
	}
	return board, nil
}
