package uc

import "errors"

// ErrUserNotFound is returned when a user is not found in the repository
var ErrUserNotFound = errors.New("user not found")

// ErrAPIKeyNotFound is returned when no API key matches the given id or hash
var ErrAPIKeyNotFound = errors.New("api key not found")

// ErrSessionNotFound is returned when no user holds the given session token
var ErrSessionNotFound = errors.New("session not found")
