package report

import (
	"errors"
	"fmt"
)

var ErrNotDocx = errors.New("not a docx document")

func notDocxError(reason string) error {
	return fmt.Errorf("%w, %s", ErrNotDocx, reason)
}
