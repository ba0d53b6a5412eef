package generate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

var errNoJSON = errors.New("no JSON object found in service response")

// boardPayload is the embedded JSON shape the service is asked to produce.
type boardPayload struct {
	Categories []struct {
		Name      string `json:"name"`
		Questions []struct {
			Value    int    `json:"value"`
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"questions"`
	} `json:"categories"`
}

// parseBoard extracts the first balanced JSON object from the free-text
// payload, decodes it, and validates the resulting board. Either a complete
// board comes back, or an error. Never anything partial.
func parseBoard(text string) (triviaboard.Board, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return triviaboard.Board{}, err
	}

	var payload boardPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return triviaboard.Board{}, fmt.Errorf("parsing board JSON: %w", err)
	}
	if payload.Categories == nil {
		return triviaboard.Board{}, errors.New("board JSON has no categories array")
	}

	var board triviaboard.Board
	for _, c := range payload.Categories {
		cat := triviaboard.Category{Name: c.Name}
		for _, q := range c.Questions {
			cat.Questions = append(cat.Questions, triviaboard.Question{
				Value:  q.Value,
				Prompt: q.Question,
				Answer: q.Answer,
			})
		}
		board.Categories = append(board.Categories, cat)
	}

	if err := triviaboard.ValidateBoard(board); err != nil {
		return triviaboard.Board{}, fmt.Errorf("generated board rejected: %w", err)
	}
	return board, nil
}

// extractJSONObject returns the first balanced {...} substring of s. The
// scan is string-aware: braces inside JSON strings (and escaped quotes) do
// not count toward the balance.
func extractJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errNoJSON
}
