package datasource

import (
	"errors"

	"eclass/reconciler/jle"
)

// SourceInfo holds what a file name says about its contents.
type SourceInfo struct {
	DataSource   DataSource
	Organization string
	Term         jle.Term
}

// InfoExtractor defines the interface for extracting source information from a filename.
type InfoExtractor interface {
	ExtractInfo(filename string) (*SourceInfo, error)
}

// ErrUnableToExtractInfo is returned when the extractor cannot parse the filename.
var ErrUnableToExtractInfo = errors.New("unable to extract source info from filename")
