package helpers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// UserKey returns the stable identity key for a Telegram user: the username
// when one is set, otherwise a synthetic key derived from the numeric ID.
// Winner and answer bookkeeping use this key, so a user without a username
// still gets credited consistently.
func UserKey(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user_%d", u.ID)
}
