package storage

import (
	"context"
	"fmt"
	"time"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/datalake/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CoursesCollection = "courses"
	syncTableName     = "dataSync"
)

// MongoRepository implements the datalake.Repository interface for MongoDB.
type MongoRepository struct {
	provider CollectionProvider
	now      func() time.Time
}

// NewMongoRepository creates a new MongoRepository.
func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{
		provider: provider,
		now:      time.Now,
	}
}

// BulkUpsertCourses bulk upserts courses into the MongoDB "courses" collection.
// A course is identified by its organisation, term, subject number and
// subject code; re-ingesting a file replaces its courses in place.
func (r *MongoRepository) BulkUpsertCourses(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil // Nothing to upsert
	}

	var models []mongo.WriteModel
	for _, doc := range courses {
		filter := bson.M{
			"organization":  doc.Organization,
			"academicYear":  doc.AcademicYear,
			"semester":      doc.Semester,
			"subjectNumber": doc.SubjectNumber,
			"subjectCode":   doc.SubjectCode,
		}
		update := bson.M{"$set": doc}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	collection := r.provider.Collection(CoursesCollection)
	_, err := collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to perform bulk write for collection %s: %w", CoursesCollection, err)
	}

	// Update sync log
	syncCollection := r.provider.Collection(syncTableName)
	syncLog := model.SyncLog{
		RunID:           appcontext.RunIDFromContext(ctx),
		CollectionName:  CoursesCollection,
		SourceFile:      courses[0].SourceFile,
		SyncTimestamp:   r.now(),
		RecordsUploaded: int64(len(courses)),
	}
	_, err = syncCollection.InsertOne(ctx, syncLog)
	if err != nil {
		return fmt.Errorf("failed to insert into dataSync collection: %w", err)
	}

	return nil
}
