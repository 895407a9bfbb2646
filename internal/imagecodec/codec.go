// Package imagecodec maps raw profile image bytes to the text form kept in
// the contact record and back.
package imagecodec

import (
	"encoding/base64"
	"errors"
)

var ErrDecode = errors.New("imagecodec: invalid encoded image")

// DecodeError reports a stored image value that is not valid base64.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "imagecodec: decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Encode returns the padded standard base64 form of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return b, nil
}

// DecodeOrNil treats a malformed image as no image.
func DecodeOrNil(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		return nil
	}
	return b
}
