package datalake

import (
	"context"

	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/datalake/repository"
)

// Client runs ingestion. Callers depend on it so that runs can be faked in
// tests.
type Client interface {
	IngestJLEFiles(
		ctx context.Context,
		repo repository.Repository,
		extractor datasource.InfoExtractor,
		opts Options,
	) (*Stats, error)
}

type client struct{}

func NewClient() Client {
	return &client{}
}

// IngestJLEFiles processes all JLE files in a given directory and uploads them to the repository.
func (c *client) IngestJLEFiles(
	ctx context.Context,
	repo repository.Repository,
	extractor datasource.InfoExtractor,
	opts Options,
) (*Stats, error) {
	return IngestJLEFiles(ctx, repo, extractor, opts)
}
