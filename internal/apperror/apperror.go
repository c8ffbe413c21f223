// Package apperror classifies storage and domain failures into a closed set
// of kinds, and translates known low-level messages into user-facing
// Indonesian text.
package apperror

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind discriminates application error categories.
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindCapacity     Kind = "capacity"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation"
	KindUnknown      Kind = "unknown"
)

// Error is the single tagged error type used above the repository boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with an explicit kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error carrying an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from any error. Unclassified errors are unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Classify maps a raw repository error onto the taxonomy. PostgreSQL error
// codes are inspected once here so handlers and services never touch pgconn.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err // Already classified.
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(KindNotFound, "", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return Wrap(KindConflict, pgErr.Message, err)
		case "23503", "23502": // foreign_key_violation, not_null_violation
			return Wrap(KindValidation, pgErr.Message, err)
		case "42501": // insufficient_privilege
			return Wrap(KindForbidden, pgErr.Message, err)
		}
	}

	return Wrap(KindUnknown, "", err)
}

// translations maps lowercase substrings of raw error messages to localized
// user-facing text. Checked in order; first match wins.
var translations = []struct {
	substr string
	text   string
}{
	{"duplicate key value violates unique constraint", "Data sudah ada"},
	{"violates foreign key constraint", "Data terkait tidak ditemukan"},
	{"violates not-null constraint", "Data wajib tidak boleh kosong"},
	{"permission denied", "Tidak memiliki izin untuk aksi ini"},
	{"kelas sudah penuh", "Kelas sudah mencapai batas maksimal anggota"},
}

// Translate returns a localized message for a raw error. Unknown messages
// pass through unchanged; nil returns an empty string.
func Translate(err error) string {
	if err == nil {
		return ""
	}

	message := err.Error()
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}

	lower := strings.ToLower(message)
	for _, t := range translations {
		if strings.Contains(lower, t.substr) {
			return t.text
		}
	}
	if message == "" {
		return "Terjadi kesalahan"
	}
	return message
}
