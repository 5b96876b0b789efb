package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	coreconfig "github.com/umutdv/riddlebot/core/config"
	tghelpers "github.com/umutdv/riddlebot/core/telegram/helpers"
	"github.com/umutdv/riddlebot/internal/riddle"

	tele "gopkg.in/telebot.v4"
)

// Handlers implements the bot's command surface on top of the game manager.
type Handlers struct {
	game        *riddle.Manager
	prefix      string
	defaultChat int64
}

// NewHandlers builds the command handlers.
func NewHandlers(game *riddle.Manager, cfg *coreconfig.Config) *Handlers {
	return &Handlers{
		game:        game,
		prefix:      cfg.Game.Prefix,
		defaultChat: cfg.Game.DefaultChatID,
	}
}

// Generate starts a new riddle round. An optional numeric argument selects
// the target chat; otherwise the configured default chat or, failing that,
// the chat the command came from is used. When the riddle lands in another
// chat the issuer gets a short confirmation.
func (h *Handlers) Generate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	current := c.Chat().ID
	target := parseTargetChat(commandArgs(c.Text()), h.defaultChat, current)

	question, err := h.game.GenerateRiddle(ctx, target, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, generateErrorMessage(err))
	}

	if target == current {
		return tghelpers.SendText(c, question)
	}
	if err := tghelpers.SendTextTo(c, target, question); err != nil {
		return err
	}
	return tghelpers.SendText(c, msgRiddlePosted)
}

// Show replies with the active riddle of the current chat.
func (h *Handlers) Show(c tele.Context) error {
	question, err := h.game.ShowRiddle(c.Chat().ID)
	if err != nil {
		return tghelpers.SendText(c, msgNoActiveRiddle)
	}
	return tghelpers.SendText(c, question)
}

// Answer checks the sender's guess against the active riddle.
func (h *Handlers) Answer(c tele.Context) error {
	answer := commandArgs(c.Text())
	if answer == "" {
		return tghelpers.SendText(c, fmt.Sprintf(fmtMissingAnswer, h.prefix))
	}

	ctx := tghelpers.BuildContext(c)
	user := tghelpers.UserKey(c.Sender())
	outcome, err := h.game.SubmitAnswer(ctx, c.Chat().ID, user, answer)
	if err != nil {
		return tghelpers.SendText(c, msgNoActiveRiddle)
	}
	return tghelpers.SendText(c, answerMessage(outcome, user, h.prefix))
}

// Wallet registers the first winner's wallet address with the prize backend.
func (h *Handlers) Wallet(c tele.Context) error {
	address := commandArgs(c.Text())
	if address == "" {
		return tghelpers.SendText(c, fmt.Sprintf(fmtMissingWallet, h.prefix))
	}

	ctx := tghelpers.BuildContext(c)
	user := tghelpers.UserKey(c.Sender())
	if err := h.game.ClaimWallet(ctx, c.Chat().ID, user, address); err != nil {
		return tghelpers.SendText(c, claimErrorMessage(err))
	}
	return tghelpers.SendText(c, msgRegistered)
}

// AutoReply echoes non-command text back to the chat.
func (h *Handlers) AutoReply(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}
	return tghelpers.SendText(c, text)
}

// Unknown handles prefixed text that matches no registered command.
func (h *Handlers) Unknown(c tele.Context) error {
	return tghelpers.SendText(c, msgUnknownCommand)
}

// Unauthorized rejects allow-listed commands issued by other users.
func (h *Handlers) Unauthorized(c tele.Context) error {
	return tghelpers.SendText(c, msgUnauthorized)
}

// RateLimited notifies users that send commands too quickly.
func (h *Handlers) RateLimited(c tele.Context) error {
	return tghelpers.SendText(c, msgRateLimited)
}

// commandArgs strips the leading command token ("/an", "@an", "/an@bot")
// from a message and returns the remaining text. Non-command text is
// returned unchanged.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if text[0] != '/' && text[0] != '@' {
		return text
	}
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// parseTargetChat resolves where a new riddle should be posted: an explicit
// numeric argument wins, then the configured default chat, then the chat the
// command was issued in.
func parseTargetChat(arg string, defaultChat, currentChat int64) int64 {
	if arg != "" {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id != 0 {
			return id
		}
	}
	if defaultChat != 0 {
		return defaultChat
	}
	return currentChat
}

func answerMessage(outcome riddle.AnswerOutcome, user, prefix string) string {
	switch outcome {
	case riddle.AnswerFirstWinner:
		return fmt.Sprintf(fmtFirstWinner, user, prefix)
	case riddle.AnswerRepeatWinner:
		return fmt.Sprintf(fmtRepeatWinner, user)
	case riddle.AnswerAlreadyAnswered:
		return msgAlreadyAnswered
	default:
		return msgIncorrect
	}
}

func generateErrorMessage(err error) string {
	switch {
	case errors.Is(err, riddle.ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, riddle.ErrSourceUnavailable):
		return msgSourceUnavailable
	default:
		return msgSourceUnavailable
	}
}

func claimErrorMessage(err error) string {
	switch {
	case errors.Is(err, riddle.ErrNoWinnerYet):
		return msgNoWinnerYet
	case errors.Is(err, riddle.ErrNotTheWinner):
		return msgNotTheWinner
	default:
		return msgRegistrationFailed
	}
}
