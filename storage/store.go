package storage

import (
	"context"
	"errors"
	"fmt"

	"eclass/reconciler/datalake/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

var errUnknownDriver = errors.New("unknown storage driver")

// Drivers accepted by Open.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Store is a course repository that holds a connection.
type Store interface {
	repository.Repository
	Close(ctx context.Context) error
}

// ConnectToMongoDBFunc is the connector used by Open; tests replace it.
var ConnectToMongoDBFunc = ConnectToMongoDB

type mongoStore struct {
	*MongoRepository
	client *mongo.Client
}

func (s *mongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// Open connects to the store selected by driver. target is the MongoDB URI
// or the SQLite file path.
func Open(ctx context.Context, driver, target string) (Store, error) {
	switch driver {
	case DriverMongo:
		client, err := ConnectToMongoDBFunc(ctx, target)
		if err != nil {
			return nil, err
		}
		db := client.Database(DatabaseName(target))
		if err := EnsureCourseIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &mongoStore{
			MongoRepository: NewMongoRepository(NewMongoProvider(db)),
			client:          client,
		}, nil
	case DriverSQLite:
		repo, err := NewSQLiteRepository(ctx, target)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w, %s", errUnknownDriver, driver)
	}
}
