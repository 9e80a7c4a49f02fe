package store

import "errors"

// Sentinel errors surfaced by stores so the service layer can translate
// constraint violations into user-facing reasons.
var (
	ErrNotFound     = errors.New("row not found")
	ErrDuplicatePin = errors.New("pin already bound to an open room")
	ErrSeatTaken    = errors.New("seat already occupied")
	ErrEmptyLibrary = errors.New("library is empty")
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"
