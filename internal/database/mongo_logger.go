package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"kgrelay-bot/internal/database/models"
)

// PostLogsCollection is the collection published posts are written to.
const PostLogsCollection = "post_logs"

const writeTimeout = 5 * time.Second

// MongoLogger implements PostLogger using MongoDB.
type MongoLogger struct {
	db *mongo.Database
}

// NewMongoLogger creates a MongoLogger on a connected database.
func NewMongoLogger(db *mongo.Database) *MongoLogger {
	return &MongoLogger{db: db}
}

// LogPublishedPost inserts one post log document.
func (m *MongoLogger) LogPublishedPost(ctx context.Context, entry models.PostLog) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := m.db.Collection(PostLogsCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert post log into collection '%s': %w", PostLogsCollection, err)
	}
	return nil
}
