package codec

import (
	"errors"
	"fmt"
)

// DecodeError reports a file that is not a readable image. Contact sheets
// abort on it; the retina processor skips the file and continues.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// PixelLimitError reports an image larger than the configured decode guard.
// It is always returned wrapped in a DecodeError.
type PixelLimitError struct {
	Width  int
	Height int
	Limit  int64
}

func (e *PixelLimitError) Error() string {
	return fmt.Sprintf("%dx%d exceeds the %d pixel limit", e.Width, e.Height, e.Limit)
}

// IsPixelLimit reports whether err is (or wraps) a PixelLimitError.
func IsPixelLimit(err error) bool {
	var e *PixelLimitError
	return errors.As(err, &e)
}

// EncodeError reports a failed encode or write. The destination is left as
// it was before the attempt.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %q: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// IsEncode reports whether err is (or wraps) an EncodeError.
func IsEncode(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}
