package server

import (
	"errors"
	"net/http"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

type SelectRequest struct {
	Category int `json:"category"`
	Question int `json:"question"`
}

type ResolveRequest struct {
	Correct bool `json:"correct"`
}

// lifecycleStatus maps engine errors onto HTTP statuses: off-board
// references are the client's fault, everything else is a state conflict
// (wrong session state, selection already in flight, nothing selected).
func lifecycleStatus(err error) int {
	if errors.Is(err, triviaboard.ErrOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

func handleSelect(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id := triviaboard.QuestionID{Category: req.Category, Question: req.Question}

		sess := sessionFrom(r)
		sess.mu.Lock()
		hadSelection := sess.game.Selection != nil
		game, err := sess.game.Select(id)
		if err != nil {
			sess.mu.Unlock()
			writeError(w, lifecycleStatus(err), err.Error())
			return
		}
		selected := !hadSelection && game.Selection != nil
		sess.game = game
		resp := snapshot(sess)
		sess.mu.Unlock()

		// Selecting an answered question is a silent no-op: 200, no event.
		if selected {
			broker.Publish(sess.id, Event{
				Type:     EventQuestionSelected,
				Category: id.Category,
				Question: id.Question,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleReveal(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		game, err := sess.game.Reveal()
		if err != nil {
			sess.mu.Unlock()
			writeError(w, lifecycleStatus(err), err.Error())
			return
		}
		sess.game = game
		id := *game.Selection
		resp := snapshot(sess)
		sess.mu.Unlock()

		broker.Publish(sess.id, Event{
			Type:     EventAnswerRevealed,
			Category: id.Category,
			Question: id.Question,
		})
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleResolve(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResolveRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := sessionFrom(r)
		sess.mu.Lock()
		var (
			id   triviaboard.QuestionID
			team int
			q    triviaboard.Question
		)
		if sess.game.Selection != nil {
			id = *sess.game.Selection
			team = sess.game.CurrentTeam
			q, _ = sess.game.Board.QuestionAt(id)
		}
		game, err := sess.game.Resolve(req.Correct)
		if err != nil {
			sess.mu.Unlock()
			writeError(w, lifecycleStatus(err), err.Error())
			return
		}
		sess.game = game
		resp := snapshot(sess)
		sess.mu.Unlock()

		broker.Publish(sess.id, Event{
			Type:     EventQuestionResolved,
			Category: id.Category,
			Question: id.Question,
			Team:     team,
			Value:    q.Value,
			Correct:  req.Correct,
		})
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCancel(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		game, err := sess.game.Cancel()
		if err != nil {
			sess.mu.Unlock()
			writeError(w, lifecycleStatus(err), err.Error())
			return
		}
		sess.game = game
		resp := snapshot(sess)
		sess.mu.Unlock()

		broker.Publish(sess.id, Event{Type: EventSelectionCancelled})
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleReset(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		// A reset during generation abandons the in-flight call.
		if sess.cancelGen != nil {
			sess.cancelGen()
			sess.cancelGen = nil
		}
		sess.game = sess.game.Reset()
		sess.lastError = ""
		resp := snapshot(sess)
		sess.mu.Unlock()

		broker.Publish(sess.id, Event{Type: EventSessionReset})
		writeJSON(w, http.StatusOK, resp)
	}
}
