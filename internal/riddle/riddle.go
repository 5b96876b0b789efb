// Package riddle implements the per-chat riddle game session:
// who is playing, which riddle is active, who answered first.
package riddle

import (
	"context"
	"errors"
)

// Riddle is a single puzzle served to a chat.
type Riddle struct {
	ID       int64  `json:"riddleId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// valid reports whether the record carries everything the game needs.
func (r Riddle) valid() bool {
	return r.ID != 0 && r.Question != "" && r.Answer != ""
}

// Source supplies fresh riddles. Implementations live in internal/source.
type Source interface {
	Fetch(ctx context.Context) (Riddle, error)
}

// Claim carries the winner data forwarded to the prize backend.
type Claim struct {
	Username string `json:"username"`
	Wallet   string `json:"wallet"`
	RiddleID int64  `json:"riddleId"`
}

// Registrar records a winner's wallet with the prize backend.
type Registrar interface {
	Register(ctx context.Context, claim Claim) error
}

// AnswerOutcome describes the result of a SubmitAnswer call.
type AnswerOutcome int

const (
	// AnswerIncorrect means the answer did not match.
	AnswerIncorrect AnswerOutcome = iota
	// AnswerAlreadyAnswered means the user already earned a prize for this riddle.
	AnswerAlreadyAnswered
	// AnswerFirstWinner means this was the first correct answer; big prize.
	AnswerFirstWinner
	// AnswerRepeatWinner means a correct answer after the first; small prize.
	AnswerRepeatWinner
)

// String returns the log-friendly name of the outcome.
func (o AnswerOutcome) String() string {
	switch o {
	case AnswerIncorrect:
		return "incorrect"
	case AnswerAlreadyAnswered:
		return "already_answered"
	case AnswerFirstWinner:
		return "first_winner"
	case AnswerRepeatWinner:
		return "repeat_winner"
	}
	return "unknown"
}

// Error taxonomy. All are user-recoverable; none is fatal to the process.
var (
	// ErrUnauthorized is returned when the requester is not on the allow-list.
	ErrUnauthorized = errors.New("riddle: user not authorized")
	// ErrSourceUnavailable is returned when the riddle source fails or returns a malformed record.
	ErrSourceUnavailable = errors.New("riddle: source unavailable")
	// ErrNoActiveRiddle is returned when an operation needs a riddle but none is set.
	ErrNoActiveRiddle = errors.New("riddle: no active riddle")
	// ErrNoWinnerYet is returned when a wallet claim arrives before any correct answer.
	ErrNoWinnerYet = errors.New("riddle: no winner yet")
	// ErrNotTheWinner is returned when someone other than the first winner claims the prize.
	ErrNotTheWinner = errors.New("riddle: not the first winner")
	// ErrRegistrationFailed wraps a wallet backend failure; the cause is preserved.
	ErrRegistrationFailed = errors.New("riddle: wallet registration failed")
)
