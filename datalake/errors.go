package datalake

import (
	"errors"
	"fmt"
)

var (
	errInvalidFileName = errors.New("file name escapes the unprocessed directory")
	errFileTooLarge    = errors.New("file exceeds the size limit")
	errUnsupported     = errors.New("unsupported data source")
)

func invalidFileNameError(name string) error {
	return fmt.Errorf("%w, %s", errInvalidFileName, name)
}

func fileTooLargeError(name string, size, limit int64) error {
	return fmt.Errorf("%w, %s is %d bytes, limit %d", errFileTooLarge, name, size, limit)
}

func unsupportedError(source string) error {
	return fmt.Errorf("%w, %s", errUnsupported, source)
}
