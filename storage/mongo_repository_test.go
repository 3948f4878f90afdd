package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/datalake/model"
	"eclass/reconciler/storage"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mock for DataStore interface.
type mockDataStore struct {
	bulkWriteFunc func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	insertOneFunc func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

func (m *mockDataStore) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	if m.bulkWriteFunc != nil {
		return m.bulkWriteFunc(ctx, models, opts...)
	}
	return &mongo.BulkWriteResult{}, nil
}

func (m *mockDataStore) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, document, opts...)
	}
	return &mongo.InsertOneResult{}, nil
}

// Mock for CollectionProvider interface.
type mockCollectionProvider struct {
	collectionFunc func(name string) storage.DataStore
}

func (m *mockCollectionProvider) Collection(name string) storage.DataStore {
	if m.collectionFunc != nil {
		return m.collectionFunc(name)
	}
	return &mockDataStore{}
}

func TestNewMongoRepository(t *testing.T) {
	provider := &mockCollectionProvider{}
	repo := storage.NewMongoRepository(provider)
	if repo == nil {
		t.Error("NewMongoRepository returned nil")
	}
}

func sampleCourses() []model.Course {
	return []model.Course{
		{Organization: "DSO", SubjectNumber: "2506F", SubjectCode: "BACC104", AcademicYear: "2024-2025", Semester: "Summer", SourceFile: "DSO_20243_565.JLE"},
		{Organization: "DSO", SubjectNumber: "1002B", SubjectCode: "ENG102", AcademicYear: "2024-2025", Semester: "Summer", SourceFile: "DSO_20243_565.JLE"},
	}
}

func TestBulkUpsertCourses_Success(t *testing.T) {
	ctx := appcontext.WithRunID(context.Background(), "run-42")
	courses := sampleCourses()

	mockDS := &mockDataStore{
		bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
			if len(models) != 2 {
				t.Errorf("Expected 2 write models, got %d", len(models))
			}
			update, ok := models[0].(*mongo.UpdateOneModel)
			if !ok {
				t.Fatalf("Expected *mongo.UpdateOneModel, got %T", models[0])
			}
			if update.Upsert == nil || !*update.Upsert {
				t.Errorf("Expected upsert to be enabled")
			}
			return &mongo.BulkWriteResult{UpsertedCount: 2}, nil
		},
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			syncLog, ok := document.(model.SyncLog)
			if !ok {
				t.Errorf("Expected SyncLog document, got %T", document)
			}
			if syncLog.CollectionName != storage.CoursesCollection {
				t.Errorf("Expected CollectionName %s, got %s", storage.CoursesCollection, syncLog.CollectionName)
			}
			if syncLog.RunID != "run-42" {
				t.Errorf("Expected RunID run-42, got %s", syncLog.RunID)
			}
			if syncLog.SourceFile != "DSO_20243_565.JLE" {
				t.Errorf("Expected SourceFile DSO_20243_565.JLE, got %s", syncLog.SourceFile)
			}
			if syncLog.RecordsUploaded != int64(len(courses)) {
				t.Errorf("Expected RecordsUploaded %d, got %d", len(courses), syncLog.RecordsUploaded)
			}
			return &mongo.InsertOneResult{}, nil
		},
	}

	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.DataStore {
			if name != storage.CoursesCollection && name != "dataSync" {
				t.Errorf("Expected collection name %s or dataSync, got %s", storage.CoursesCollection, name)
			}
			return mockDS
		},
	}

	repo := storage.NewMongoRepository(provider)
	err := repo.BulkUpsertCourses(ctx, courses)
	if err != nil {
		t.Errorf("BulkUpsertCourses failed: %v", err)
	}
}

func TestBulkUpsertCourses_EmptyCourses(t *testing.T) {
	ctx := context.Background()
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.DataStore {
			t.Errorf("Collection %s requested for an empty batch", name)
			return &mockDataStore{}
		},
	}
	repo := storage.NewMongoRepository(provider)
	err := repo.BulkUpsertCourses(ctx, []model.Course{})
	if err != nil {
		t.Errorf("BulkUpsertCourses failed for empty courses: %v", err)
	}
}

func TestBulkUpsertCourses_BulkWriteError(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("bulk write error")

	mockDS := &mockDataStore{
		bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
			return nil, expectedErr
		},
	}

	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.DataStore {
			return mockDS
		},
	}

	repo := storage.NewMongoRepository(provider)
	err := repo.BulkUpsertCourses(ctx, sampleCourses())
	if err == nil || !strings.Contains(err.Error(), expectedErr.Error()) {
		t.Errorf("Expected bulk write error, got: %v", err)
	}
}

func TestBulkUpsertCourses_SyncLogError(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("sync log error")

	mockDS := &mockDataStore{
		bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
			return &mongo.BulkWriteResult{UpsertedCount: 1}, nil
		},
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			return nil, expectedErr
		},
	}

	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.DataStore {
			return mockDS
		},
	}

	repo := storage.NewMongoRepository(provider)
	err := repo.BulkUpsertCourses(ctx, sampleCourses())
	if err == nil || !strings.Contains(err.Error(), expectedErr.Error()) {
		t.Errorf("Expected sync log error, got: %v", err)
	}
}
