package triviaboard

import "errors"

// Lifecycle misuse errors. Selecting an already-answered question is NOT an
// error, it is a silent no-op.
var (
	ErrNotSetup          = errors.New("session is not in setup")
	ErrNotGenerating     = errors.New("session is not generating a board")
	ErrNotPlaying        = errors.New("session is not in play")
	ErrSelectionInFlight = errors.New("another question is already selected")
	ErrNoSelection       = errors.New("no question is selected")
	ErrAnswerHidden      = errors.New("answer has not been revealed")
	ErrOutOfRange        = errors.New("question is not on the board")
)

// NewSession returns a fresh session in Setup: no teams, no board.
func NewSession() Session {
	return Session{
		State:    StateSetup,
		Answered: map[QuestionID]bool{},
	}
}

// Start installs teams and a validated board and enters Playing. Allowed
// from Setup (static provider) or Generating (generative provider success).
// A board that fails validation is never installed.
func (s Session) Start(teams []Team, b Board) (Session, error) {
	if s.State != StateSetup && s.State != StateGenerating {
		return s, ErrNotSetup
	}
	if len(teams) < MinTeams || len(teams) > MaxTeams {
		teams = NewTeams(len(teams))
	}
	if err := ValidateBoard(b); err != nil {
		return s, err
	}
	next := NewSession()
	next.State = StatePlaying
	next.Teams = append([]Team(nil), teams...)
	next.Board = b
	return next, nil
}

// BeginGenerating records that a board-generation call is outstanding.
// The roster is fixed now; the board arrives via Start or never, via
// FailGenerating. Only one generation may be in flight per session.
func (s Session) BeginGenerating(teams []Team) (Session, error) {
	if s.State != StateSetup {
		return s, ErrNotSetup
	}
	next := NewSession()
	next.State = StateGenerating
	next.Teams = append([]Team(nil), teams...)
	return next, nil
}

// FailGenerating returns the session to Setup after a failed generation
// call. No partial state survives.
func (s Session) FailGenerating() (Session, error) {
	if s.State != StateGenerating {
		return s, ErrNotGenerating
	}
	return NewSession(), nil
}

// Select puts a question in flight. Selecting a question that was already
// resolved is an idempotent no-op: the session comes back unchanged, with
// no error. Only one question may be in flight at a time.
func (s Session) Select(id QuestionID) (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if _, err := s.Board.QuestionAt(id); err != nil {
		return s, err
	}
	if s.Answered[id] {
		return s, nil
	}
	if s.Selection != nil {
		if *s.Selection == id {
			return s, nil
		}
		return s, ErrSelectionInFlight
	}
	next := s
	next.Selection = &QuestionID{Category: id.Category, Question: id.Question}
	next.AnswerRevealed = false
	return next, nil
}

// Reveal exposes the stored answer for the selected question. It does not
// touch score, turn, or the answered set.
func (s Session) Reveal() (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if s.Selection == nil {
		return s, ErrNoSelection
	}
	next := s
	next.AnswerRevealed = true
	return next, nil
}

// Resolve marks the selected, revealed question correct or incorrect. This
// is terminal for the question: it joins the answered set, the selection is
// cleared, the current team scores the question's value iff correct, and the
// turn rotates to the next team unconditionally.
func (s Session) Resolve(correct bool) (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if s.Selection == nil {
		return s, ErrNoSelection
	}
	if !s.AnswerRevealed {
		return s, ErrAnswerHidden
	}
	id := *s.Selection
	q, err := s.Board.QuestionAt(id)
	if err != nil {
		return s, err
	}

	next := s
	next.Teams = applyScore(s.Teams, s.CurrentTeam, q.Value, correct)
	next.Answered = make(map[QuestionID]bool, len(s.Answered)+1)
	for k := range s.Answered {
		next.Answered[k] = true
	}
	next.Answered[id] = true
	next.Selection = nil
	next.AnswerRevealed = false
	next.CurrentTeam = (s.CurrentTeam + 1) % len(s.Teams)
	return next, nil
}

// Cancel backs out of a selected (or revealed) question without resolving
// it. The question stays answerable; score, turn, and the answered set are
// untouched.
func (s Session) Cancel() (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if s.Selection == nil {
		return s, ErrNoSelection
	}
	next := s
	next.Selection = nil
	next.AnswerRevealed = false
	return next, nil
}

// Reset discards everything (teams, board, selection, answered set) and
// returns a fresh Setup session. Allowed from any state; there is no other
// way for a game to end.
func (s Session) Reset() Session {
	return NewSession()
}

// IsAnswered reports whether the question has been resolved this session.
func (s Session) IsAnswered(id QuestionID) bool {
	return s.Answered[id]
}

// applyScore is the only score-mutating operation in the engine. It returns
// a new roster with value added to the team at idx iff correct.
func applyScore(teams []Team, idx, value int, correct bool) []Team {
	next := append([]Team(nil), teams...)
	if correct {
		next[idx].Score += value
	}
	return next
}
