package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

// providerFunc adapts a function to BoardProvider.
type providerFunc func(ctx context.Context) (triviaboard.Board, error)

func (f providerFunc) Board(ctx context.Context) (triviaboard.Board, error) { return f(ctx) }

// fullBoard builds a deterministic 5x5 board for tests.
func fullBoard() triviaboard.Board {
	var b triviaboard.Board
	for ci := 0; ci < triviaboard.BoardCategories; ci++ {
		c := triviaboard.Category{Name: fmt.Sprintf("Category %d", ci+1)}
		for qi := 0; qi < triviaboard.QuestionsPerCategory; qi++ {
			c.Questions = append(c.Questions, triviaboard.Question{
				Value:  triviaboard.QuestionValues[qi],
				Prompt: fmt.Sprintf("Clue %d-%d", ci+1, qi+1),
				Answer: fmt.Sprintf("What is answer %d-%d?", ci+1, qi+1),
			})
		}
		b.Categories = append(b.Categories, c)
	}
	return b
}

func staticProvider() BoardProvider {
	return providerFunc(func(ctx context.Context) (triviaboard.Board, error) {
		return fullBoard(), nil
	})
}

func testRouter(t *testing.T, generative BoardProvider) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	addRoutes(r, logger, nil, NewRegistry(), NewBroker(), staticProvider(), generative, 5*time.Second)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding session response: %v", err)
	}
	return resp
}

func createSession(t *testing.T, r http.Handler, numTeams, mode string) SessionResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/sessions", CreateSessionRequest{NumTeams: numTeams, Mode: mode})
	if w.Code != http.StatusCreated && w.Code != http.StatusAccepted {
		t.Fatalf("create session: status %d: %s", w.Code, w.Body.String())
	}
	return decodeSession(t, w)
}

// waitForState polls the session until it leaves the generating state.
func waitForState(t *testing.T, r http.Handler, id string, want string) SessionResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		w := do(t, r, http.MethodGet, "/api/sessions/"+id, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("state: status %d: %s", w.Code, w.Body.String())
		}
		resp := decodeSession(t, w)
		if resp.State == want {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never reached state %q, still %q", want, resp.State)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCreateStaticSession(t *testing.T) {
	r := testRouter(t, staticProvider())

	resp := createSession(t, r, "3", ModeStatic)

	if resp.State != string(triviaboard.StatePlaying) {
		t.Fatalf("state = %q, want playing", resp.State)
	}
	wantNames := []string{"Team 1", "Team 2", "Team 3"}
	if len(resp.Teams) != 3 {
		t.Fatalf("teams = %d, want 3", len(resp.Teams))
	}
	for i, team := range resp.Teams {
		if team.Name != wantNames[i] || team.Score != 0 {
			t.Errorf("team %d = %+v, want name %q score 0", i, team, wantNames[i])
		}
	}
	if resp.CurrentTeam != 0 {
		t.Errorf("currentTeam = %d, want 0", resp.CurrentTeam)
	}
	if len(resp.Board) != 5 {
		t.Fatalf("board categories = %d, want 5", len(resp.Board))
	}
	for _, c := range resp.Board {
		if len(c.Questions) != 5 {
			t.Fatalf("category %q has %d cells, want 5", c.Name, len(c.Questions))
		}
	}
}

func TestCreateSessionClampsTeamCount(t *testing.T) {
	r := testRouter(t, staticProvider())

	tests := []struct {
		numTeams string
		want     int
	}{
		{"0", 1},
		{"9", 6},
		{"banana", 1},
		{"", 1},
		{"4", 4},
	}

	for _, tt := range tests {
		resp := createSession(t, r, tt.numTeams, ModeStatic)
		if len(resp.Teams) != tt.want {
			t.Errorf("numTeams=%q: got %d teams, want %d", tt.numTeams, len(resp.Teams), tt.want)
		}
	}
}

func TestCreateSessionInvalidMode(t *testing.T) {
	r := testRouter(t, staticProvider())

	w := do(t, r, http.MethodPost, "/api/sessions", CreateSessionRequest{NumTeams: "2", Mode: "telepathic"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSessionNotFound(t *testing.T) {
	r := testRouter(t, staticProvider())

	w := do(t, r, http.MethodGet, "/api/sessions/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCorrectAnswerFlow(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "3", ModeStatic)
	base := "/api/sessions/" + sess.ID

	// Select category 0 question 0 (value 200).
	w := do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	if w.Code != http.StatusOK {
		t.Fatalf("select: status %d: %s", w.Code, w.Body.String())
	}
	resp := decodeSession(t, w)
	if resp.Selection == nil || resp.Selection.Value != 200 {
		t.Fatalf("selection = %+v, want value 200", resp.Selection)
	}
	if resp.Selection.Answer != "" {
		t.Error("answer must stay hidden before reveal")
	}

	// Reveal.
	w = do(t, r, http.MethodPost, base+"/reveal", nil)
	resp = decodeSession(t, w)
	if resp.Selection == nil || !resp.Selection.Revealed {
		t.Fatal("selection should be revealed")
	}
	if resp.Selection.Answer != "What is answer 1-1?" {
		t.Errorf("answer = %q, want the stored answer", resp.Selection.Answer)
	}

	// Mark correct.
	w = do(t, r, http.MethodPost, base+"/resolve", ResolveRequest{Correct: true})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: status %d: %s", w.Code, w.Body.String())
	}
	resp = decodeSession(t, w)

	if resp.Teams[0].Score != 200 {
		t.Errorf("team 1 score = %d, want 200", resp.Teams[0].Score)
	}
	if resp.CurrentTeam != 1 {
		t.Errorf("currentTeam = %d, want 1", resp.CurrentTeam)
	}
	if !resp.Board[0].Questions[0].Answered {
		t.Error("question (0,0) should be marked answered")
	}
	if resp.Selection != nil {
		t.Error("selection should be cleared after resolution")
	}
}

func TestIncorrectAnswerFlow(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "3", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	do(t, r, http.MethodPost, base+"/reveal", nil)
	w := do(t, r, http.MethodPost, base+"/resolve", ResolveRequest{Correct: false})
	resp := decodeSession(t, w)

	if resp.Teams[0].Score != 0 {
		t.Errorf("team 1 score = %d, want 0", resp.Teams[0].Score)
	}
	if resp.CurrentTeam != 1 {
		t.Errorf("currentTeam = %d, want 1 (turn advances win or lose)", resp.CurrentTeam)
	}
	if !resp.Board[0].Questions[0].Answered {
		t.Error("question (0,0) should be marked answered")
	}
}

func TestCancelFlow(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "2", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 1, Question: 2})
	w := do(t, r, http.MethodPost, base+"/cancel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d: %s", w.Code, w.Body.String())
	}
	resp := decodeSession(t, w)

	if resp.Selection != nil {
		t.Error("selection should be nil after cancel")
	}
	if resp.CurrentTeam != 0 {
		t.Errorf("currentTeam = %d, want 0 (cancel never rotates)", resp.CurrentTeam)
	}
	if resp.Board[1].Questions[2].Answered {
		t.Error("cancelled question must stay unanswered")
	}
}

func TestSelectAnsweredQuestionIsNoOp(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "2", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	do(t, r, http.MethodPost, base+"/reveal", nil)
	do(t, r, http.MethodPost, base+"/resolve", ResolveRequest{Correct: true})

	w := do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	if w.Code != http.StatusOK {
		t.Fatalf("re-select answered: status %d, want 200 (silent no-op)", w.Code)
	}
	resp := decodeSession(t, w)
	if resp.Selection != nil {
		t.Error("no-op select must not put a question in flight")
	}
	if resp.CurrentTeam != 1 {
		t.Errorf("currentTeam = %d, want 1 (unchanged)", resp.CurrentTeam)
	}
}

func TestSelectConflicts(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "2", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})

	// Second selection while one is in flight.
	w := do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 1, Question: 1})
	if w.Code != http.StatusConflict {
		t.Errorf("select while in flight: status %d, want 409", w.Code)
	}

	// Off-board reference.
	w = do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 7, Question: 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("off-board select: status %d, want 400", w.Code)
	}
}

func TestResolveWithoutReveal(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "2", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	w := do(t, r, http.MethodPost, base+"/resolve", ResolveRequest{Correct: true})
	if w.Code != http.StatusConflict {
		t.Fatalf("resolve before reveal: status %d, want 409", w.Code)
	}
}

func TestResetReturnsToSetup(t *testing.T) {
	r := testRouter(t, staticProvider())
	sess := createSession(t, r, "3", ModeStatic)
	base := "/api/sessions/" + sess.ID

	do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	do(t, r, http.MethodPost, base+"/reveal", nil)
	do(t, r, http.MethodPost, base+"/resolve", ResolveRequest{Correct: true})

	w := do(t, r, http.MethodPost, base+"/reset", nil)
	resp := decodeSession(t, w)

	if resp.State != string(triviaboard.StateSetup) {
		t.Errorf("state = %q, want setup", resp.State)
	}
	if len(resp.Teams) != 0 || len(resp.Board) != 0 {
		t.Error("reset must discard teams and board")
	}
}

func TestGenerativeSessionSuccess(t *testing.T) {
	release := make(chan struct{})
	generative := providerFunc(func(ctx context.Context) (triviaboard.Board, error) {
		select {
		case <-release:
			return fullBoard(), nil
		case <-ctx.Done():
			return triviaboard.Board{}, ctx.Err()
		}
	})

	r := testRouter(t, generative)
	sess := createSession(t, r, "2", ModeGenerative)
	base := "/api/sessions/" + sess.ID

	if sess.State != string(triviaboard.StateGenerating) {
		t.Fatalf("state = %q, want generating", sess.State)
	}

	// Board interaction is rejected while the generation call is outstanding.
	w := do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	if w.Code != http.StatusConflict {
		t.Fatalf("select while generating: status %d, want 409", w.Code)
	}

	close(release)
	resp := waitForState(t, r, sess.ID, string(triviaboard.StatePlaying))

	if len(resp.Board) != 5 {
		t.Fatalf("board categories = %d, want 5", len(resp.Board))
	}
	if resp.LastError != "" {
		t.Errorf("lastError = %q, want empty", resp.LastError)
	}

	// And the board is live.
	w = do(t, r, http.MethodPost, base+"/select", SelectRequest{Category: 0, Question: 0})
	if w.Code != http.StatusOK {
		t.Fatalf("select after generation: status %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerativeSessionFailure(t *testing.T) {
	generative := providerFunc(func(ctx context.Context) (triviaboard.Board, error) {
		return triviaboard.Board{}, fmt.Errorf("generation service returned status 529")
	})

	r := testRouter(t, generative)
	sess := createSession(t, r, "2", ModeGenerative)

	resp := waitForState(t, r, sess.ID, string(triviaboard.StateSetup))

	if resp.LastError == "" {
		t.Error("expected a human-readable generation error")
	}
	if len(resp.Board) != 0 {
		t.Error("no partial board may be installed on failure")
	}
	if len(resp.Teams) != 0 {
		t.Error("no partial state may survive a failed generation")
	}
}

func TestResetDuringGeneration(t *testing.T) {
	started := make(chan struct{})
	generative := providerFunc(func(ctx context.Context) (triviaboard.Board, error) {
		close(started)
		<-ctx.Done()
		return triviaboard.Board{}, ctx.Err()
	})

	r := testRouter(t, generative)
	sess := createSession(t, r, "2", ModeGenerative)
	base := "/api/sessions/" + sess.ID
	<-started

	w := do(t, r, http.MethodPost, base+"/reset", nil)
	resp := decodeSession(t, w)
	if resp.State != string(triviaboard.StateSetup) {
		t.Fatalf("state = %q, want setup", resp.State)
	}

	// The abandoned generation result must not resurrect the session.
	time.Sleep(50 * time.Millisecond)
	final := waitForState(t, r, sess.ID, string(triviaboard.StateSetup))
	if final.State != string(triviaboard.StateSetup) {
		t.Errorf("state = %q, want setup after abandoned generation", final.State)
	}
}
