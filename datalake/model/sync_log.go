package model

import "time"

// SyncLog represents a record in the dataSync collection.
type SyncLog struct {
	RunID           string    `bson:"run_id"`
	CollectionName  string    `bson:"collection_name"`
	SourceFile      string    `bson:"source_file"`
	SyncTimestamp   time.Time `bson:"sync_timestamp"`
	RecordsUploaded int64     `bson:"records_uploaded"`
}
