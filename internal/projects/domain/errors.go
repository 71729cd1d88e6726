package domain

import "errors"

var (
	ErrNotFound           = errors.New("project not found")
	ErrStorageUnavailable = errors.New("project storage unavailable")
	ErrInvalidTitle       = errors.New("invalid project title")
)

// ErrCorruptPayload is returned when persisted data cannot be decoded.
// It matches ErrStorageUnavailable with errors.Is.
var ErrCorruptPayload = &storageError{msg: "project storage payload is corrupt"}

type storageError struct{ msg string }

func (e *storageError) Error() string { return e.msg }

func (e *storageError) Is(target error) bool { return target == ErrStorageUnavailable }
