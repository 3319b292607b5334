package repository

import "errors"

// ErrNotFound signals an absent row. It is a normal lookup outcome,
// not a fault; callers branch on it with errors.Is.
var ErrNotFound = errors.New("record not found")
