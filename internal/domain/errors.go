package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("upstream failure")
)

// ErrNoMatch means a lookup resolved to no data at all. Unlike ErrNotFound, which
// upstream clients return, it is the only error surfaced to callers as 404.
var ErrNoMatch = errors.New("no match")
