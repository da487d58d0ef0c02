package pubsub

import "fmt"

// Channel naming conventions for search index events.
const (
	// ChannelIndexUpdated is published by the indexing pipeline after documents
	// of an index changed.
	ChannelIndexUpdated = "search:index:%s:updated"

	// PatternIndexUpdated matches ChannelIndexUpdated for every index.
	PatternIndexUpdated = "search:index:*:updated"
)

// Event types.
const (
	EventIndexUpdated = "index_updated"
)

// IndexUpdatedChannel returns the channel name for updates of the given index.
func IndexUpdatedChannel(index string) string {
	return fmt.Sprintf(ChannelIndexUpdated, index)
}

// IndexUpdatedPayload is carried by EventIndexUpdated events.
type IndexUpdatedPayload struct {
	Index string `json:"index"`
	// Tags are extra cache tags to invalidate besides the index list tag.
	Tags []string `json:"tags,omitempty"`
}
