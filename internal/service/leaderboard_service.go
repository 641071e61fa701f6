package service

import (
	"context"
	"sort"

	"collabhub/internal/cache"
	"collabhub/internal/models"
	"collabhub/internal/repository"
)

// leaderboardTopN is the depth of each per-metric candidate list.
const leaderboardTopN = 10

// absentRank is the sentinel for a collab missing from a top list: one worse
// than the worst possible in-list rank.
const absentRank = leaderboardTopN + 1

// LeaderboardEntry is one row of the leaderboard read model.
type LeaderboardEntry struct {
	Collab       *models.Collab `json:"collab"`
	UpvotesRank  int            `json:"upvotes_rank"`
	ViewsRank    int            `json:"views_rank"`
	CommentsRank int            `json:"comments_rank"`
	OverallScore int            `json:"overall_score"`
}

// LeaderboardService computes the cross-metric leaderboard.
type LeaderboardService struct {
	collabRepo repository.CollabRepository
	cache      *cache.Cache
}

// NewLeaderboardService returns a new LeaderboardService.
func NewLeaderboardService(collabRepo repository.CollabRepository, c *cache.Cache) *LeaderboardService {
	return &LeaderboardService{collabRepo: collabRepo, cache: c}
}

// Leaderboard ranks the upvotes top-10 by rank-sum over three independent
// metrics: position in the upvotes, views, and comment-count top-10 lists,
// with 11 substituted when a collab is absent from a list. Lower sums rank
// higher; ties keep upvotes order. Candidates outside the upvotes top-10 are
// not considered, a deliberate scoring policy.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.cache.Aside(ctx, cache.LeaderboardKey, &entries, cache.LeaderboardTTL, func() error {
		var fetchErr error
		entries, fetchErr = s.compute(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *LeaderboardService) compute(ctx context.Context) ([]LeaderboardEntry, error) {
	topByUpvotes, err := s.collabRepo.TopByUpvotes(ctx, leaderboardTopN)
	if err != nil {
		return nil, err
	}
	topByViews, err := s.collabRepo.TopByViews(ctx, leaderboardTopN)
	if err != nil {
		return nil, err
	}
	topByComments, err := s.collabRepo.TopByComments(ctx, leaderboardTopN)
	if err != nil {
		return nil, err
	}

	viewsRank := rankByID(topByViews)
	commentsRank := rankByID(topByComments)

	entries := make([]LeaderboardEntry, 0, len(topByUpvotes))
	for i, collab := range topByUpvotes {
		entry := LeaderboardEntry{
			Collab:       collab,
			UpvotesRank:  i + 1,
			ViewsRank:    rankOr(viewsRank, collab.ID),
			CommentsRank: rankOr(commentsRank, collab.ID),
		}
		entry.OverallScore = entry.UpvotesRank + entry.ViewsRank + entry.CommentsRank
		entries = append(entries, entry)
	}

	// Stable: ties keep upvotes order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OverallScore < entries[j].OverallScore
	})

	return entries, nil
}

// rankByID maps collab ID to its 1-based position in the list.
func rankByID(collabs []*models.Collab) map[string]int {
	ranks := make(map[string]int, len(collabs))
	for i, c := range collabs {
		ranks[c.ID] = i + 1
	}
	return ranks
}

func rankOr(ranks map[string]int, id string) int {
	if r, ok := ranks[id]; ok {
		return r
	}
	return absentRank
}
