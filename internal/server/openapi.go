package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TriviaBoard API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Turn-based trivia board game engine.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Creates a game session. Static mode starts playing immediately; generative mode returns 202 and generates the board in the background.")
	createSession.AddReqStructure(CreateSessionRequest{})
	createSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{sessionID}
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the full session snapshot: state, teams, board grid, and current selection. Answers appear only once revealed.")
	getState.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/sessions/{sessionID}/select
	postSelect, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/select")
	postSelect.SetSummary("Select question")
	postSelect.SetDescription("Puts a question in flight. Selecting an already-answered question is a no-op.")
	postSelect.AddReqStructure(SelectRequest{})
	postSelect.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSelect)

	// POST /api/sessions/{sessionID}/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/reveal")
	postReveal.SetSummary("Reveal answer")
	postReveal.SetDescription("Exposes the selected question's answer. Does not change score or turn.")
	postReveal.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReveal)

	// POST /api/sessions/{sessionID}/resolve
	postResolve, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/resolve")
	postResolve.SetSummary("Resolve question")
	postResolve.SetDescription("Marks the revealed question correct or incorrect, scores it, and rotates the turn.")
	postResolve.AddReqStructure(ResolveRequest{})
	postResolve.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postResolve.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postResolve)

	// POST /api/sessions/{sessionID}/cancel
	postCancel, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/cancel")
	postCancel.SetSummary("Cancel selection")
	postCancel.SetDescription("Backs out of the current selection. The question stays answerable; nothing is scored.")
	postCancel.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCancel.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postCancel)

	// POST /api/sessions/{sessionID}/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/reset")
	postReset.SetSummary("Reset session")
	postReset.SetDescription("Returns the session to setup from any state, discarding teams, board, and answers. Cancels an in-flight generation.")
	postReset.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// GET /api/sessions/{sessionID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game events for the session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
