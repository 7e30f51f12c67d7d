package colmap

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode core. Callers should test with errors.Is;
// the concrete error chain also carries the file name and byte offset via
// DecodeError.
var (
	// ErrUnknownCameraModel indicates a camera record referenced a model id
	// (or a caller referenced a model name) outside the 11-entry model table.
	ErrUnknownCameraModel = errors.New("unknown camera model")

	// ErrRecordCountMismatch indicates the record count declared in a file
	// header does not match the number of records actually decoded.
	ErrRecordCountMismatch = errors.New("record count mismatch")

	// ErrBufferTruncated indicates a read ran past the end of the input
	// buffer. Truncated files, corrupt counts and unterminated strings all
	// surface as this error.
	ErrBufferTruncated = errors.New("buffer truncated")

	// ErrUnsupportedModel indicates a camera model that decodes fine but is
	// outside the pinhole family supported by frustum construction.
	ErrUnsupportedModel = errors.New("unsupported camera model")
)

// DecodeError wraps a decode failure with the source file name and the byte
// offset at which decoding stopped. Offset is the cursor position when the
// failure was detected, not the start of the failed record.
type DecodeError struct {
	File   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.File, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(file string, offset int, err error) error {
	return &DecodeError{File: file, Offset: offset, Err: err}
}
