package vfs

import "fmt"

// Error kinds. These are sentinel values so callers can
// use errors.Is; richer context is added by wrapping with %w, in the
// same style as internal/tree/error.go's errorf helper in the teacher
// repository.
type baseErr string

func (e baseErr) Error() string { return string(e) }

const (
	ErrInvalidArg         = baseErr("invalid argument")
	ErrOutOfRange         = baseErr("out of range")
	ErrNotFound           = baseErr("not found")
	ErrAccessDenied       = baseErr("access denied")
	ErrIsADirectory       = baseErr("is a directory")
	ErrNotADirectory      = baseErr("not a directory")
	ErrExist              = baseErr("exists")
	ErrDirNotEmpty        = baseErr("directory not empty")
	ErrInvalidName        = baseErr("invalid name")
	ErrNegativeSeek       = baseErr("negative seek")
	ErrArithmeticOverflow = baseErr("arithmetic overflow")
	ErrCancelled          = baseErr("cancelled")
	ErrPartialCopy        = baseErr("partial copy")
	ErrInternal           = baseErr("internal error")
)

func errorf(method, format string, a ...interface{}) error {
	return fmt.Errorf("vfs."+method+": "+format, a...)
}

func errorv(method string, err error) error {
	return fmt.Errorf("vfs."+method+": %w", err)
}
