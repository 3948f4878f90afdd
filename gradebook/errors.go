package gradebook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSheetNotFound  = errors.New("worksheet not found")
	ErrHeaderNotFound = errors.New("header not found")
)

func sheetNotFoundError(sheet string, available []string) error {
	return fmt.Errorf("%w, '%s' (available sheets: %s)", ErrSheetNotFound, sheet, strings.Join(available, ", "))
}

func headerNotFoundError(header string, row int) error {
	return fmt.Errorf("%w, column with '%s' header not found in row %d", ErrHeaderNotFound, header, row)
}
