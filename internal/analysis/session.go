// Package analysis owns the 5 Whys interview: one session per problem, a
// sequence of why-steps, and the state machine that decides when to advance,
// when to re-ask, and when the root cause has been reached.
package analysis

import (
	"sync"
	"time"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusInProgress means the session is awaiting an answer to the
	// current step.
	StatusInProgress Status = "in_progress"

	// StatusNeedsClarification means the last answer was rejected or judged
	// ambiguous; the same step is re-asked with a clarifying note.
	StatusNeedsClarification Status = "needs_clarification"

	// StatusRootFound is terminal: root cause and recommendations are set.
	StatusRootFound Status = "root_found"

	// StatusMaxDepthReached is declared for depth-exhaustion reporting but
	// the depth-cap path currently reports StatusRootFound, matching the
	// behavior this service replaces.
	StatusMaxDepthReached Status = "max_depth_reached"
)

// Terminal reports whether no further answers are accepted.
func (s Status) Terminal() bool {
	return s == StatusRootFound || s == StatusMaxDepthReached
}

// WhyStep is one interview turn. StepNumber is 1-based and strictly
// increasing with no gaps. Answer, IsValid and ClarificationNote are mutated
// exactly once per submission cycle; steps are never deleted individually.
type WhyStep struct {
	StepNumber        int    `json:"step_number"`
	Question          string `json:"question"`
	Answer            string `json:"answer,omitempty"`
	IsValid           bool   `json:"is_valid"`
	ClarificationNote string `json:"clarification_note,omitempty"`
}

// Session is the aggregate root for one analysis. CurrentStep always equals
// len(Steps) outside an in-flight submission.
type Session struct {
	ID              string    `json:"session_id"`
	Problem         string    `json:"original_problem"`
	Steps           []WhyStep `json:"steps"`
	CurrentStep     int       `json:"current_step"`
	Status          Status    `json:"status"`
	RootCause       string    `json:"root_cause,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// mu serializes submissions racing on the same session id. The store
	// assumes one client per session but does not enforce it.
	mu sync.Mutex
}

// Snapshot returns a copy safe to serialize while a submission is in
// flight. Readers must never marshal the live session.
func (s *Session) Snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Session{
		ID:              s.ID,
		Problem:         s.Problem,
		Steps:           append([]WhyStep(nil), s.Steps...),
		CurrentStep:     s.CurrentStep,
		Status:          s.Status,
		RootCause:       s.RootCause,
		Recommendations: append([]string(nil), s.Recommendations...),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// lastStep returns the current step record. Sessions always hold at least
// one step after creation.
func (s *Session) lastStep() *WhyStep {
	return &s.Steps[len(s.Steps)-1]
}

// answeredHistory returns question/answer pairs for every answered step, in
// ordinal order.
func (s *Session) answeredHistory() []WhyStep {
	out := make([]WhyStep, 0, len(s.Steps))
	for _, st := range s.Steps {
		if st.Answer != "" {
			out = append(out, st)
		}
	}
	return out
}
