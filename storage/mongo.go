package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"eclass/reconciler/appcontext"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// defaultDatabase holds the catalog when the URI names no database.
const defaultDatabase = "eclass"

// DataStore is the part of a collection the course repository writes through.
type DataStore interface {
	BulkWrite(
		ctx context.Context,
		models []mongo.WriteModel,
		opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	InsertOne(
		ctx context.Context,
		document any,
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// CollectionProvider hands out the collections of the course catalog.
type CollectionProvider interface {
	Collection(name string) DataStore
}

type catalogCollection struct {
	coll *mongo.Collection
}

func (c *catalogCollection) BulkWrite(
	ctx context.Context,
	models []mongo.WriteModel,
	opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	result, err := c.coll.BulkWrite(ctx, models, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", c.coll.Name(), err)
	}
	return result, nil
}

func (c *catalogCollection) InsertOne(
	ctx context.Context,
	document any,
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	result, err := c.coll.InsertOne(ctx, document, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}
	return result, nil
}

// MongoProvider serves collections of one catalog database.
type MongoProvider struct {
	db *mongo.Database
}

// NewMongoProvider creates a new MongoProvider over db.
func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{db: db}
}

// Collection returns a DataStore for the given collection name.
func (p *MongoProvider) Collection(name string) DataStore {
	return &catalogCollection{coll: p.db.Collection(name)}
}

// courseKeyIndex makes the course key unique, so concurrent upserts of one
// course cannot insert it twice.
var courseKeyIndex = mongo.IndexModel{
	Keys: bson.D{
		{Key: "organization", Value: 1},
		{Key: "academicYear", Value: 1},
		{Key: "semester", Value: 1},
		{Key: "subjectNumber", Value: 1},
		{Key: "subjectCode", Value: 1},
	},
	Options: options.Index().SetUnique(true).SetName("course_key"),
}

// EnsureCourseIndexes creates the course key index when it is missing.
func EnsureCourseIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(CoursesCollection).Indexes().CreateOne(ctx, courseKeyIndex); err != nil {
		return fmt.Errorf("failed to create course index: %w", err)
	}
	return nil
}

// DatabaseName returns the database named in the URI path, or the default
// catalog database.
func DatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}

// redactURI drops the credentials of uri for logging.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparsable uri>"
	}
	return u.Redacted()
}

// ConnectToMongoDB establishes a connection to MongoDB.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Attempting to connect to MongoDB", "uri", redactURI(uri))

	clientOptions := options.Client().ApplyURI(uri).SetAppName("eclass-reconciler")

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.InfoContext(ctx, "Successfully established connection to MongoDB")
	return client, nil
}
