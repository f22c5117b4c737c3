package analysis

import "errors"

var (
	// ErrSessionNotFound means no session exists for the given id.
	ErrSessionNotFound = errors.New("analysis: session not found")

	// ErrSessionComplete means the session already reached its terminal
	// state and accepts no further answers.
	ErrSessionComplete = errors.New("analysis: session already complete")

	// ErrOracleUnavailable wraps an oracle transport failure. The session,
	// if any, is left in a consistent state and the caller may retry the
	// same submission.
	ErrOracleUnavailable = errors.New("analysis: oracle unavailable")

	// ErrProblemTooShort rejects problem statements without enough content
	// to analyze.
	ErrProblemTooShort = errors.New("analysis: problem statement too short")

	// ErrAnswerTooShort rejects answers without enough content to judge.
	ErrAnswerTooShort = errors.New("analysis: answer too short")
)
