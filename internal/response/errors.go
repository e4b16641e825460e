package response

import (
	"errors"
	"fmt"
)

// ErrSerialization is matched by every SerializationError
var ErrSerialization = errors.New("body serialization failed")

// SerializationError reports a body that could not be converted to JSON
type SerializationError struct {
	Err   error       // encoder error, if the encoder returned one
	Panic interface{} // recovered value, if the encoder panicked
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", ErrSerialization, e.Err)
	}
	return fmt.Sprintf("%v: panic: %v", ErrSerialization, e.Panic)
}

// Unwrap returns the underlying encoder error
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSerialization) hold for any SerializationError
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// IsSerializationError returns true if err is or wraps a SerializationError
func IsSerializationError(err error) bool {
	var serr *SerializationError
	return errors.As(err, &serr)
}
