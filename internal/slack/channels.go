package slack

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/slack-go/slack"
)

// ChannelResolver maps channel names to channel IDs, caching lookups so the
// notifier does not list conversations on every post
type ChannelResolver struct {
	client *slack.Client
	cache  map[string]string // name -> id
	mu     sync.RWMutex
}

// NewChannelResolver creates a new channel resolver
func NewChannelResolver(client *slack.Client) *ChannelResolver {
	return &ChannelResolver{
		client: client,
		cache:  make(map[string]string),
	}
}

// ResolveChannel accepts a channel ID (C01234567890), "#name" or "name" and
// returns the channel ID
func (r *ChannelResolver) ResolveChannel(nameOrID string) (string, error) {
	if nameOrID == "" {
		return "", fmt.Errorf("channel name/ID is empty")
	}

	// IDs pass through untouched
	if isChannelID(nameOrID) {
		return nameOrID, nil
	}

	channelName := strings.TrimPrefix(nameOrID, "#")

	r.mu.RLock()
	if id, ok := r.cache[channelName]; ok {
		r.mu.RUnlock()
		return id, nil
	}
	r.mu.RUnlock()

	id, err := r.lookupChannel(channelName)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[channelName] = id
	r.mu.Unlock()

	log.Printf("Resolved Slack channel '%s' to '%s'", channelName, id)
	return id, nil
}

// lookupChannel searches public then private conversations for a channel
// with the given name
func (r *ChannelResolver) lookupChannel(name string) (string, error) {
	for _, channelType := range []string{"public_channel", "private_channel"} {
		channels, _, err := r.client.GetConversations(&slack.GetConversationsParameters{
			ExcludeArchived: true,
			Limit:           1000,
			Types:           []string{channelType},
		})
		if err != nil {
			if channelType == "public_channel" {
				return "", fmt.Errorf("failed to list public channels: %w", err)
			}
			// Bots without the groups scope cannot list private channels
			log.Printf("Warning: Failed to list private channels: %v", err)
			break
		}
		for _, channel := range channels {
			if channel.Name == name {
				return channel.ID, nil
			}
		}
	}
	return "", fmt.Errorf("channel '%s' not found", name)
}

// ClearCache drops all cached name resolutions
func (r *ChannelResolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]string)
}

// isChannelID reports whether a string looks like a Slack channel ID:
// a leading C followed by 8 to 14 uppercase alphanumerics
func isChannelID(s string) bool {
	if len(s) < 9 || len(s) > 15 {
		return false
	}
	if !strings.HasPrefix(s, "C") {
		return false
	}
	for _, c := range s[1:] {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
