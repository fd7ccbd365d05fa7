package models

import "time"

// PostLog stores information about a post published to the channel.
type PostLog struct {
	SenderID             int64     `bson:"sender_id"`
	SenderUsername       string    `bson:"sender_username,omitempty"`
	Caption              string    `bson:"caption,omitempty"`
	TranslatedCaption    string    `bson:"translated_caption,omitempty"`
	MessageType          string    `bson:"message_type"` // "media_group" or "text"
	ItemCount            int       `bson:"item_count"`
	ReceivedAt           time.Time `bson:"received_at"`
	PublishedAt          time.Time `bson:"published_at"`
	ChannelID            int64     `bson:"channel_id"`
	ChannelPostID        int       `bson:"channel_post_id"`
	OriginalMediaGroupID string    `bson:"original_media_group_id,omitempty"`
}
