package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/models"
)

func userSet(id byte, username string, teaches, wants []string) models.UserSkillSet {
	return models.UserSkillSet{
		UserID:   uuid.UUID{id},
		Username: username,
		Teaches:  teaches,
		Wants:    wants,
	}
}

func TestRankComplementaryPair(t *testing.T) {
	u1 := userSet(1, "u1", []string{"python"}, []string{"react"})
	u2 := userSet(2, "u2", []string{"react"}, []string{"python"})

	ranked := Rank(u1, []models.UserSkillSet{u1, u2}, DefaultTopN)
	require.Len(t, ranked, 1)

	got := ranked[0]
	assert.Equal(t, u2.UserID, got.UserID)
	assert.Equal(t, "u2", got.Username)
	assert.Equal(t, 2, got.MatchScore)
	assert.Equal(t, 40, got.MatchPercentage)
	assert.Equal(t, []string{"react"}, got.MatchingSkills)
	assert.Equal(t, []string{"python"}, got.MatchingGoals)
	assert.Equal(t, []string{"react"}, got.AllSkills)
	assert.Equal(t, []string{"python"}, got.AllGoals)
}

func TestRankExcludesSelf(t *testing.T) {
	u1 := userSet(1, "u1", []string{"go"}, nil)

	ranked := Rank(u1, []models.UserSkillSet{u1}, DefaultTopN)
	assert.Empty(t, ranked)
}

func TestRankTieBreakByIDAscending(t *testing.T) {
	self := userSet(9, "self", []string{"go"}, []string{"rust"})
	// All three candidates score 1 the same way.
	c3 := userSet(3, "c3", []string{"rust"}, nil)
	c1 := userSet(1, "c1", []string{"rust"}, nil)
	c2 := userSet(2, "c2", []string{"rust"}, nil)

	others := []models.UserSkillSet{c3, c1, c2}
	first := Rank(self, others, DefaultTopN)
	require.Len(t, first, 3)
	assert.Equal(t, c1.UserID, first[0].UserID)
	assert.Equal(t, c2.UserID, first[1].UserID)
	assert.Equal(t, c3.UserID, first[2].UserID)

	// Same snapshot, same ordering, every time.
	for i := 0; i < 10; i++ {
		again := Rank(self, others, DefaultTopN)
		assert.Equal(t, first, again)
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	self := userSet(9, "self", []string{"go", "sql"}, []string{"rust", "haskell"})
	strong := userSet(2, "strong", []string{"rust", "haskell"}, []string{"go"})
	weak := userSet(1, "weak", []string{"rust"}, nil)

	ranked := Rank(self, []models.UserSkillSet{weak, strong}, DefaultTopN)
	require.Len(t, ranked, 2)
	assert.Equal(t, strong.UserID, ranked[0].UserID)
	assert.Equal(t, 3, ranked[0].MatchScore)
	assert.Equal(t, weak.UserID, ranked[1].UserID)
	assert.Equal(t, 1, ranked[1].MatchScore)
}

func TestRankTruncatesToTopN(t *testing.T) {
	self := userSet(0, "self", nil, []string{"go"})
	others := make([]models.UserSkillSet, 0, 8)
	for i := byte(1); i <= 8; i++ {
		others = append(others, userSet(i, "c", []string{"go"}, nil))
	}

	ranked := Rank(self, others, DefaultTopN)
	assert.Len(t, ranked, DefaultTopN)
}

func TestPercentageSaturatesAt100(t *testing.T) {
	assert.Equal(t, 0, Percentage(0))
	assert.Equal(t, 20, Percentage(1))
	assert.Equal(t, 100, Percentage(5))
	assert.Equal(t, 100, Percentage(7))
}

// fakeGraph serves a fixed snapshot; the write methods are unused here.
type fakeGraph struct {
	snapshot []models.UserSkillSet
}

func (f *fakeGraph) UpsertSkill(ctx context.Context, name, category string, overwriteCategory bool) (string, error) {
	return models.Slugify(name), nil
}

func (f *fakeGraph) Link(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind, proficiency int) error {
	return nil
}

func (f *fakeGraph) Unlink(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind) error {
	return nil
}

func (f *fakeGraph) ReplaceAll(ctx context.Context, userID uuid.UUID, kind models.EdgeKind, slug string, proficiency int) error {
	return nil
}

func (f *fakeGraph) SkillsOf(ctx context.Context, userID uuid.UUID, kind models.EdgeKind) ([]models.Skill, error) {
	return nil, nil
}

func (f *fakeGraph) SkillSetSnapshot(ctx context.Context) ([]models.UserSkillSet, error) {
	return f.snapshot, nil
}

func TestScorerRankCandidates(t *testing.T) {
	u1 := userSet(1, "u1", []string{"python"}, []string{"react"})
	u2 := userSet(2, "u2", []string{"react"}, []string{"python"})
	scorer := NewScorer(&fakeGraph{snapshot: []models.UserSkillSet{u1, u2}}, nil, zap.NewNop())

	ranked, err := scorer.RankCandidates(context.Background(), u1.UserID, DefaultTopN)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, u2.UserID, ranked[0].UserID)
	assert.Equal(t, 40, ranked[0].MatchPercentage)
}

func TestScorerUnknownUser(t *testing.T) {
	scorer := NewScorer(&fakeGraph{}, nil, zap.NewNop())

	_, err := scorer.RankCandidates(context.Background(), uuid.UUID{7}, DefaultTopN)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDescribePending(t *testing.T) {
	self := userSet(1, "self", []string{"python"}, []string{"react"})
	liker := userSet(2, "liker", []string{"react"}, nil)
	gone := uuid.UUID{9}
	scorer := NewScorer(&fakeGraph{snapshot: []models.UserSkillSet{self, liker}}, nil, zap.NewNop())

	pending, err := scorer.DescribePending(context.Background(), self.UserID, []uuid.UUID{liker.UserID, gone})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, liker.UserID, pending[0].UserID)
	assert.Equal(t, "liker", pending[0].Username)
	assert.Equal(t, 20, pending[0].MatchPercentage)
}
