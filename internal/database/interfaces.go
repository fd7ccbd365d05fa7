package database

import (
	"context"

	"kgrelay-bot/internal/database/models"
)

// PostLogger defines the interface for logging published posts.
type PostLogger interface {
	// LogPublishedPost logs information about a post published to the channel.
	LogPublishedPost(ctx context.Context, entry models.PostLog) error
}

// NopPostLogger discards entries. Used when MongoDB is not configured.
type NopPostLogger struct{}

func (NopPostLogger) LogPublishedPost(context.Context, models.PostLog) error { return nil }
