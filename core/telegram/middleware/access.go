package middleware

import tele "gopkg.in/telebot.v4"

// AccessOptions defines how authorized-only checks should behave.
type AccessOptions struct {
	Authorized map[int64]struct{}
	OnReject   tele.HandlerFunc
}

// WithAccessCheck wraps a handler enforcing the allow-list when required.
// An empty allow-list rejects everyone, which keeps a misconfigured bot from
// silently opening a restricted command to the whole chat.
func WithAccessCheck(opts AccessOptions, authorizedOnly bool, h tele.HandlerFunc) tele.HandlerFunc {
	if !authorizedOnly {
		return h
	}
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if _, ok := opts.Authorized[sender.ID]; !ok {
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
		return h(c)
	}
}
