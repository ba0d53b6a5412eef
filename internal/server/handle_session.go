package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

// Board modes selectable at setup.
const (
	ModeStatic     = "static"
	ModeGenerative = "generative"
)

type CreateSessionRequest struct {
	// NumTeams is taken as raw text: non-numeric coerces to 1, numeric is
	// clamped to [1,6]. There is no rejection path.
	NumTeams string `json:"numTeams"`
	Mode     string `json:"mode"`
}

type TeamInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type QuestionCell struct {
	Value    int  `json:"value"`
	Answered bool `json:"answered"`
}

type CategoryInfo struct {
	Name      string         `json:"name"`
	Questions []QuestionCell `json:"questions"`
}

type SelectionInfo struct {
	Category int    `json:"category"`
	Question int    `json:"question"`
	Value    int    `json:"value"`
	Prompt   string `json:"prompt"`
	Revealed bool   `json:"revealed"`
	// Answer is only present once revealed.
	Answer string `json:"answer,omitempty"`
}

type SessionResponse struct {
	ID          string         `json:"id"`
	State       string         `json:"state"`
	Teams       []TeamInfo     `json:"teams"`
	CurrentTeam int            `json:"currentTeam"`
	Board       []CategoryInfo `json:"board,omitempty"`
	Selection   *SelectionInfo `json:"selection,omitempty"`
	LastError   string         `json:"lastError,omitempty"`
}

func handleCreateSession(logger *slog.Logger, reg *Registry, broker *Broker, static, generative BoardProvider, genTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		teams := triviaboard.NewTeams(triviaboard.ParseTeamCount(req.NumTeams))

		switch req.Mode {
		case ModeStatic:
			board, err := static.Board(r.Context())
			if err != nil {
				logger.Error("loading static board", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			sess := reg.Create()
			sess.mu.Lock()
			sess.game, err = sess.game.Start(teams, board)
			resp := snapshot(sess)
			sess.mu.Unlock()
			if err != nil {
				logger.Error("starting session", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusCreated, resp)

		case ModeGenerative:
			sess := reg.Create()
			sess.mu.Lock()
			game, err := sess.game.BeginGenerating(teams)
			if err != nil {
				sess.mu.Unlock()
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			sess.game = game

			ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
			sess.cancelGen = cancel
			resp := snapshot(sess)
			sess.mu.Unlock()

			go generateBoard(ctx, logger, broker, generative, sess)

			writeJSON(w, http.StatusAccepted, resp)

		default:
			writeError(w, http.StatusBadRequest, "mode must be \"static\" or \"generative\"")
		}
	}
}

// generateBoard runs the sole suspending operation of a session: one
// outstanding generation call. On success the board is installed and play
// begins; on any failure the session returns to setup with the error
// surfaced, and nothing partial survives. A reset while generating wins:
// the session has left Generating and the result is discarded.
func generateBoard(ctx context.Context, logger *slog.Logger, broker *Broker, provider BoardProvider, sess *gameSession) {
	board, err := provider.Board(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.cancelGen != nil {
		sess.cancelGen()
		sess.cancelGen = nil
	}

	if sess.game.State != triviaboard.StateGenerating {
		return
	}

	if err == nil {
		var game triviaboard.Session
		if game, err = sess.game.Start(sess.game.Teams, board); err == nil {
			sess.game = game
			broker.Publish(sess.id, Event{Type: EventBoardReady})
			return
		}
	}

	logger.Error("board generation failed", "session", sess.id, "error", err)
	sess.game, _ = sess.game.FailGenerating()
	sess.lastError = err.Error()
	broker.Publish(sess.id, Event{Type: EventGenerationFailed, Message: err.Error()})
}

func handleSessionState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		resp := snapshot(sess)
		sess.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

// snapshot renders the session for the wire. Callers must hold sess.mu.
// Answers stay hidden until revealed; answered flags are derived from the
// engine's answered set.
func snapshot(sess *gameSession) SessionResponse {
	game := sess.game

	resp := SessionResponse{
		ID:          sess.id,
		State:       string(game.State),
		Teams:       []TeamInfo{},
		CurrentTeam: game.CurrentTeam,
		LastError:   sess.lastError,
	}
	for _, team := range game.Teams {
		resp.Teams = append(resp.Teams, TeamInfo{ID: team.ID, Name: team.Name, Score: team.Score})
	}

	for ci, c := range game.Board.Categories {
		info := CategoryInfo{Name: c.Name}
		for qi, q := range c.Questions {
			info.Questions = append(info.Questions, QuestionCell{
				Value:    q.Value,
				Answered: game.IsAnswered(triviaboard.QuestionID{Category: ci, Question: qi}),
			})
		}
		resp.Board = append(resp.Board, info)
	}

	if game.Selection != nil {
		q, err := game.Board.QuestionAt(*game.Selection)
		if err == nil {
			sel := &SelectionInfo{
				Category: game.Selection.Category,
				Question: game.Selection.Question,
				Value:    q.Value,
				Prompt:   q.Prompt,
				Revealed: game.AnswerRevealed,
			}
			if game.AnswerRevealed {
				sel.Answer = q.Answer
			}
			resp.Selection = sel
		}
	}

	return resp
}
