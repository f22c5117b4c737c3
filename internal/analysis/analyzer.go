package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fivewhys/fivewhys-ai/internal/interpret"
	"github.com/fivewhys/fivewhys-ai/internal/llm"
	"github.com/fivewhys/fivewhys-ai/internal/metrics"
)

const (
	// DefaultMaxDepth is the hard ceiling on why-steps. It forces
	// termination even when the oracle's judgment never converges.
	DefaultMaxDepth = 7

	// Minimum content constraints, in runes.
	minProblemLen = 10
	minAnswerLen  = 3

	defaultClarification = "لطفاً پاسخ واضح‌تری بدهید"
)

// NextQuestion is the non-terminal reply to a start or answer submission.
type NextQuestion struct {
	SessionID            string `json:"session_id"`
	Step                 int    `json:"current_step"`
	Question             string `json:"question"`
	Status               Status `json:"status"`
	NeedsClarification   bool   `json:"needs_clarification,omitempty"`
	ClarificationMessage string `json:"clarification_message,omitempty"`
}

// FinalResult is the terminal reply once the root cause is reached or depth
// is exhausted.
type FinalResult struct {
	SessionID       string    `json:"session_id"`
	Problem         string    `json:"original_problem"`
	Steps           []WhyStep `json:"steps"`
	RootCause       string    `json:"root_cause"`
	Recommendations []string  `json:"recommendations"`
	TotalSteps      int       `json:"total_steps"`
}

// SubmitResult carries exactly one of Next or Final.
type SubmitResult struct {
	Next  *NextQuestion
	Final *FinalResult
}

// Analyzer drives the interview: it owns step sequencing, validity and
// clarification handling, termination detection and depth capping, and
// orchestrates the oracle round trips for each decision.
type Analyzer struct {
	oracle   llm.Client
	store    *Store
	broker   *Broker
	log      *zap.Logger
	maxDepth int
}

// NewAnalyzer wires the state machine to its collaborators. maxDepth <= 0
// selects DefaultMaxDepth.
func NewAnalyzer(oracle llm.Client, store *Store, broker *Broker, log *zap.Logger, maxDepth int) *Analyzer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		oracle:   oracle,
		store:    store,
		broker:   broker,
		log:      log,
		maxDepth: maxDepth,
	}
}

// Start creates a session for problem with its first why-question. No
// session is created when the oracle is unreachable.
func (a *Analyzer) Start(ctx context.Context, problem string) (*NextQuestion, error) {
	problem = strings.TrimSpace(problem)
	if utf8.RuneCountInString(problem) < minProblemLen {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrProblemTooShort, minProblemLen)
	}

	question, err := a.ask(ctx, "first_why", firstWhySystemPrompt, firstWhyUserPrompt(problem))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	now := time.Now()
	s := &Session{
		ID:          NewSessionID(),
		Problem:     problem,
		Steps:       []WhyStep{{StepNumber: 1, Question: question, IsValid: true}},
		CurrentStep: 1,
		Status:      StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	a.store.Create(s)

	metrics.SessionsStarted.Inc()
	metrics.ActiveSessions.Set(float64(a.store.Len()))
	a.log.Info("session started",
		zap.String("session_id", s.ID),
		zap.Int("problem_len", utf8.RuneCountInString(problem)))
	a.publish(Event{SessionID: s.ID, Type: EventQuestion, Step: 1, Question: question, Status: StatusInProgress})

	return &NextQuestion{
		SessionID: s.ID,
		Step:      1,
		Question:  question,
		Status:    StatusInProgress,
	}, nil
}

// SubmitAnswer records answer on the session's current step and advances,
// stalls, or terminates the interview according to the oracle's decision.
func (a *Analyzer) SubmitAnswer(ctx context.Context, sessionID, answer string) (*SubmitResult, error) {
	answer = strings.TrimSpace(answer)
	if utf8.RuneCountInString(answer) < minAnswerLen {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrAnswerTooShort, minAnswerLen)
	}

	s := a.store.Get(sessionID)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrSessionComplete, sessionID)
	}

	// Recording the raw answer is the only mutation before a possible
	// oracle failure; retrying the same submission just overwrites it.
	step := s.lastStep()
	step.Answer = answer

	raw, err := a.ask(ctx, "decision", decisionSystemPrompt,
		decisionUserPrompt(s.Problem, s.Steps, step.Question, answer, s.CurrentStep))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	decision := interpret.Interpret(raw, answer)
	s.UpdatedAt = time.Now()

	switch {
	case !decision.IsValid || decision.Clarification != "":
		return a.requestClarification(s, step, decision)

	case decision.IsRootFound || s.CurrentStep >= a.maxDepth:
		return a.finish(ctx, s, step, decision)

	default:
		return a.advance(s, decision)
	}
}

// requestClarification re-asks the current step: the pointer does not move
// and no step is appended.
func (a *Analyzer) requestClarification(s *Session, step *WhyStep, d interpret.Decision) (*SubmitResult, error) {
	note := d.Clarification
	if note == "" {
		note = defaultClarification
	}
	step.IsValid = false
	step.ClarificationNote = note
	s.Status = StatusNeedsClarification

	metrics.ClarificationsRequested.Inc()
	a.log.Info("clarification requested",
		zap.String("session_id", s.ID),
		zap.Int("step", s.CurrentStep))
	a.publish(Event{
		SessionID:            s.ID,
		Type:                 EventClarification,
		Step:                 s.CurrentStep,
		Question:             step.Question,
		Status:               StatusNeedsClarification,
		ClarificationMessage: note,
	})

	return &SubmitResult{Next: &NextQuestion{
		SessionID:            s.ID,
		Step:                 s.CurrentStep,
		Question:             step.Question,
		Status:               StatusNeedsClarification,
		NeedsClarification:   true,
		ClarificationMessage: note,
	}}, nil
}

// finish terminates the session. When the decision carried no root cause
// (the usual case for depth exhaustion) a summary round trip produces one.
func (a *Analyzer) finish(ctx context.Context, s *Session, step *WhyStep, d interpret.Decision) (*SubmitResult, error) {
	step.IsValid = true
	step.ClarificationNote = ""

	rootCause := d.RootCause
	recommendations := d.Recommendations
	if rootCause == "" {
		raw, err := a.ask(ctx, "summary", summarySystemPrompt, summaryUserPrompt(s.Problem, s.answeredHistory()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
		}
		rootCause, recommendations = interpret.InterpretSummary(raw)
	}

	// The depth cap reports root_found as well; see the status enum note.
	reason := "root_found"
	if !d.IsRootFound {
		reason = "max_depth"
	}

	s.Status = StatusRootFound
	s.RootCause = rootCause
	s.Recommendations = recommendations

	metrics.SessionsCompleted.WithLabelValues(reason).Inc()
	a.log.Info("session completed",
		zap.String("session_id", s.ID),
		zap.String("reason", reason),
		zap.Int("total_steps", s.CurrentStep))
	a.publish(Event{
		SessionID: s.ID,
		Type:      EventComplete,
		Step:      s.CurrentStep,
		Status:    StatusRootFound,
		RootCause: rootCause,
	})

	return &SubmitResult{Final: &FinalResult{
		SessionID:       s.ID,
		Problem:         s.Problem,
		Steps:           s.Steps,
		RootCause:       rootCause,
		Recommendations: recommendations,
		TotalSteps:      s.CurrentStep,
	}}, nil
}

// advance appends the next why-step and moves the pointer with it.
func (a *Analyzer) advance(s *Session, d interpret.Decision) (*SubmitResult, error) {
	// A valid answer after a clarification round clears the stall.
	step := s.lastStep()
	step.IsValid = true
	step.ClarificationNote = ""

	s.CurrentStep++
	s.Steps = append(s.Steps, WhyStep{
		StepNumber: s.CurrentStep,
		Question:   d.NextQuestion,
		IsValid:    true,
	})
	s.Status = StatusInProgress

	metrics.StepsAdvanced.Inc()
	a.publish(Event{
		SessionID: s.ID,
		Type:      EventQuestion,
		Step:      s.CurrentStep,
		Question:  d.NextQuestion,
		Status:    StatusInProgress,
	})

	return &SubmitResult{Next: &NextQuestion{
		SessionID: s.ID,
		Step:      s.CurrentStep,
		Question:  d.NextQuestion,
		Status:    StatusInProgress,
	}}, nil
}

// GetSession returns the session for id, or nil if absent.
func (a *Analyzer) GetSession(id string) *Session {
	return a.store.Get(id)
}

// DeleteSession removes the session for id, reporting whether it existed.
func (a *Analyzer) DeleteSession(id string) bool {
	ok := a.store.Delete(id)
	if ok {
		metrics.SessionsDeleted.Inc()
		metrics.ActiveSessions.Set(float64(a.store.Len()))
		a.publish(Event{SessionID: id, Type: EventDeleted})
	}
	return ok
}

// ask is the instrumented oracle round trip.
func (a *Analyzer) ask(ctx context.Context, purpose, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	reply, err := a.oracle.Ask(ctx, systemPrompt, userPrompt)
	metrics.OracleRequestDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		a.log.Warn("oracle request failed",
			zap.String("purpose", purpose),
			zap.Error(err))
	}
	metrics.OracleRequests.WithLabelValues(purpose, status).Inc()
	return reply, err
}

// publish is a nil-safe broker publish.
func (a *Analyzer) publish(ev Event) {
	if a.broker != nil {
		a.broker.Publish(ev)
	}
}
