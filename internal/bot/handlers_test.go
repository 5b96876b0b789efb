package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/umutdv/riddlebot/internal/riddle"
)

func TestCommandArgs(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/an moon", "moon"},
		{"/an  deep blue sea ", "deep blue sea"},
		{"@wal 0xABC", "0xABC"},
		{"/ge", ""},
		{"/an@riddlebot moon", "moon"},
		{"plain text stays", "plain text stays"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := commandArgs(tc.text); got != tc.want {
			t.Errorf("commandArgs(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestParseTargetChat(t *testing.T) {
	cases := []struct {
		name        string
		arg         string
		defaultChat int64
		current     int64
		want        int64
	}{
		{"explicit argument wins", "-100123", 55, 7, -100123},
		{"default chat when no argument", "", 55, 7, 55},
		{"current chat as last resort", "", 0, 7, 7},
		{"garbage argument falls through", "soon", 55, 7, 55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseTargetChat(tc.arg, tc.defaultChat, tc.current); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAnswerMessage(t *testing.T) {
	if got := answerMessage(riddle.AnswerFirstWinner, "alice", "@"); got != fmt.Sprintf(fmtFirstWinner, "alice", "@") {
		t.Errorf("first winner message: %q", got)
	}
	if !strings.Contains(answerMessage(riddle.AnswerFirstWinner, "alice", "@"), "@wal") {
		t.Error("first winner message should mention the wallet command with the configured prefix")
	}
	if got := answerMessage(riddle.AnswerRepeatWinner, "bob", "/"); got != fmt.Sprintf(fmtRepeatWinner, "bob") {
		t.Errorf("repeat winner message: %q", got)
	}
	if got := answerMessage(riddle.AnswerAlreadyAnswered, "bob", "/"); got != msgAlreadyAnswered {
		t.Errorf("already answered message: %q", got)
	}
	if got := answerMessage(riddle.AnswerIncorrect, "bob", "/"); got != msgIncorrect {
		t.Errorf("incorrect message: %q", got)
	}
}

func TestErrorMessages(t *testing.T) {
	if got := generateErrorMessage(riddle.ErrUnauthorized); got != msgUnauthorized {
		t.Errorf("unauthorized: %q", got)
	}
	wrapped := fmt.Errorf("%w: backend down", riddle.ErrSourceUnavailable)
	if got := generateErrorMessage(wrapped); got != msgSourceUnavailable {
		t.Errorf("source unavailable: %q", got)
	}

	if got := claimErrorMessage(riddle.ErrNoWinnerYet); got != msgNoWinnerYet {
		t.Errorf("no winner yet: %q", got)
	}
	if got := claimErrorMessage(riddle.ErrNotTheWinner); got != msgNotTheWinner {
		t.Errorf("not the winner: %q", got)
	}
	regErr := fmt.Errorf("%w: %v", riddle.ErrRegistrationFailed, errors.New("boom"))
	if got := claimErrorMessage(regErr); got != msgRegistrationFailed {
		t.Errorf("registration failed: %q", got)
	}
}
