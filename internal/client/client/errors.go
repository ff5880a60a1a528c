package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrNotFound        = errors.New("not found")
	ErrRejected        = errors.New("rejected")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("already exists")
)
