// Package matching ranks candidate partners over the bipartite skill graph.
//
// The score between two users counts both directions of a potential
// exchange: skills the candidate teaches that the user wants, plus skills
// the user teaches that the candidate wants. The original system buried
// this in a store query; here it is an explicit function so the exact
// ordering, tie-break, and percentage math are unit-testable.
package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/cache"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

// DefaultTopN is how many candidates /predict returns.
const DefaultTopN = 5

// Percentage converts a raw match score to the display percentage.
// Each overlapping skill is worth 20 points; five or more saturate at 100.
func Percentage(score int) int {
	p := score * 20
	if p > 100 {
		return 100
	}
	return p
}

// intersect returns the sorted intersection of two slug sets.
func intersect(a, b []string) []string {
	in := make(map[string]bool, len(a))
	for _, s := range a {
		in[s] = true
	}
	out := make([]string, 0)
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		if in[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Rank scores every other user against self and returns the top topN,
// ordered by score descending with candidate id ascending as the
// tie-break. Pure function of its inputs: same snapshot, same ranking.
func Rank(self models.UserSkillSet, others []models.UserSkillSet, topN int) []models.CandidateMatch {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]models.CandidateMatch, 0, len(others))
	for _, other := range others {
		if other.UserID == self.UserID {
			continue
		}
		// What they can teach me, and what I can teach them.
		matchingSkills := intersect(self.Wants, other.Teaches)
		matchingGoals := intersect(self.Teaches, other.Wants)
		score := len(matchingSkills) + len(matchingGoals)

		allSkills := append([]string(nil), other.Teaches...)
		allGoals := append([]string(nil), other.Wants...)
		sort.Strings(allSkills)
		sort.Strings(allGoals)

		ranked = append(ranked, models.CandidateMatch{
			UserID:          other.UserID,
			Username:        other.Username,
			MatchScore:      score,
			MatchingSkills:  matchingSkills,
			MatchingGoals:   matchingGoals,
			AllSkills:       allSkills,
			AllGoals:        allGoals,
			MatchPercentage: Percentage(score),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].UserID.String() < ranked[j].UserID.String()
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Scorer loads skill-set snapshots through the repository and ranks
// candidates, with a short-TTL cache in front of the full scan.
type Scorer struct {
	graph  repository.SkillGraphRepository
	cache  *cache.RankCache
	logger *zap.Logger
}

func NewScorer(graph repository.SkillGraphRepository, rankCache *cache.RankCache, logger *zap.Logger) *Scorer {
	return &Scorer{graph: graph, cache: rankCache, logger: logger}
}

// RankCandidates returns the topN best partners for a user.
func (s *Scorer) RankCandidates(ctx context.Context, userID uuid.UUID, topN int) ([]models.CandidateMatch, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	// Only the default ranking is cached; a caller asking for a different
	// depth bypasses the cache rather than polluting it.
	if topN == DefaultTopN {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	snapshot, err := s.graph.SkillSetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	self, ok := findUser(snapshot, userID)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}

	ranked := Rank(self, snapshot, topN)
	if topN == DefaultTopN {
		s.cache.Set(ctx, userID, ranked)
	}
	return ranked, nil
}

// DescribePending annotates pending likers with username and match
// percentage for the pending-matches list. Likers missing from the
// snapshot (deleted users) are skipped.
func (s *Scorer) DescribePending(ctx context.Context, userID uuid.UUID, likerIDs []uuid.UUID) ([]models.PendingMatch, error) {
	snapshot, err := s.graph.SkillSetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	self, ok := findUser(snapshot, userID)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}

	byID := make(map[uuid.UUID]models.UserSkillSet, len(snapshot))
	for _, u := range snapshot {
		byID[u.UserID] = u
	}

	pending := make([]models.PendingMatch, 0, len(likerIDs))
	for _, id := range likerIDs {
		other, ok := byID[id]
		if !ok {
			continue
		}
		score := len(intersect(self.Wants, other.Teaches)) + len(intersect(self.Teaches, other.Wants))
		pending = append(pending, models.PendingMatch{
			UserID:          id,
			Username:        other.Username,
			MatchPercentage: Percentage(score),
		})
	}
	return pending, nil
}

func findUser(snapshot []models.UserSkillSet, userID uuid.UUID) (models.UserSkillSet, bool) {
	for _, u := range snapshot {
		if u.UserID == userID {
			return u, true
		}
	}
	return models.UserSkillSet{}, false
}
