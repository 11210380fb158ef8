package tui

import "errors"

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("tui: aborted")

// ErrSubmitDeclined signals the user answered no to the submit confirmation.
var ErrSubmitDeclined = errors.New("tui: submission declined")
