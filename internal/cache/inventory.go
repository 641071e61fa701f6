package cache

import (
	"fmt"
	"time"
)

const (
	collabKeyPrefix = "collab:%s"

	FeaturedKey    = "collabs:featured"
	LeaderboardKey = "collabs:leaderboard"
)

const (
	CollabTTL      = 10 * time.Minute
	FeaturedTTL    = 5 * time.Minute
	LeaderboardTTL = 1 * time.Minute
)

// CollabKey is the cache key for a single collab detail payload, by slug.
func CollabKey(slug string) string {
	return fmt.Sprintf(collabKeyPrefix, slug)
}
