// Package source provides the riddle suppliers the game manager draws from:
// a Postgres-backed rotation, a remote backend, and a built-in list.
package source

import "errors"

// ErrNoRiddles indicates the source has nothing to serve.
var ErrNoRiddles = errors.New("source: no riddles available")
