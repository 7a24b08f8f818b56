package database

import "errors"

// ErrNotReady wraps every failed Ping, so callers can tell an unreachable
// cutoff store apart from query errors.
var ErrNotReady = errors.New("cutoff database unreachable")
