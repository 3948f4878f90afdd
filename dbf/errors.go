package dbf

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeader = errors.New("invalid dbf header")
	ErrFieldIndex    = errors.New("field index out of range")
	ErrValueTooLong  = errors.New("value too long for field")
)

func invalidHeaderError(reason string) error {
	return fmt.Errorf("%w, %s", ErrInvalidHeader, reason)
}

func fieldIndexError(index, count int) error {
	return fmt.Errorf("%w, field %d of %d", ErrFieldIndex, index, count)
}

func valueTooLongError(field Field, value string) error {
	return fmt.Errorf("%w, %s holds %d bytes, got %q", ErrValueTooLong, field.Name, field.Length, value)
}
