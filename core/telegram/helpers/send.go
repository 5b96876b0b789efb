package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/umutdv/riddlebot/core/logger"
	"github.com/umutdv/riddlebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendTextTo sends raw text to an arbitrary chat, not necessarily the one
// the current update came from. Used when a command issued in one chat
// targets another, such as posting a riddle into the game chat.
func SendTextTo(c tele.Context, chatID int64, text string) error {
	bot := c.Bot()
	if bot == nil {
		return errors.New("telegram helpers: no bot on context")
	}
	recipient := &tele.Chat{ID: chatID}
	return sendAsync(c, "send.text_to", "sendMessage", func() error {
		_, err := bot.Send(recipient, text)
		return err
	})
}
