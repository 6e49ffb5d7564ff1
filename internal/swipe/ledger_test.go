package swipe

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

// memSwipes keeps one current decision per (actor, target), matching the
// store's upsert semantics.
type memSwipes struct {
	decisions map[[2]uuid.UUID]bool
}

func newMemSwipes() *memSwipes {
	return &memSwipes{decisions: make(map[[2]uuid.UUID]bool)}
}

func (m *memSwipes) Record(ctx context.Context, actor, target uuid.UUID, liked bool) (bool, error) {
	m.decisions[[2]uuid.UUID{actor, target}] = liked
	if !liked {
		return false, nil
	}
	return m.decisions[[2]uuid.UUID{target, actor}], nil
}

func (m *memSwipes) IsMutual(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return m.decisions[[2]uuid.UUID{a, b}] && m.decisions[[2]uuid.UUID{b, a}], nil
}

func (m *memSwipes) MutualPartners(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	partners := make([]uuid.UUID, 0)
	for pair, liked := range m.decisions {
		if pair[0] == userID && liked && m.decisions[[2]uuid.UUID{pair[1], userID}] {
			partners = append(partners, pair[1])
		}
	}
	return partners, nil
}

func (m *memSwipes) PendingLikers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	likers := make([]uuid.UUID, 0)
	for pair, liked := range m.decisions {
		if pair[1] == userID && liked && !m.decisions[[2]uuid.UUID{userID, pair[0]}] {
			likers = append(likers, pair[0])
		}
	}
	return likers, nil
}

type memUsers struct {
	users map[uuid.UUID]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.users[id], nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	return nil
}

type stubMessages struct {
	stats map[[2]uuid.UUID]*models.ConversationStats
}

func (m *stubMessages) CreateWithQuota(ctx context.Context, sender, receiver uuid.UUID, text string, maxMessages int) (*models.Message, error) {
	return nil, nil
}

func (m *stubMessages) ListAndMarkRead(ctx context.Context, caller, peer uuid.UUID) ([]models.Message, error) {
	return nil, nil
}

func (m *stubMessages) PairStats(ctx context.Context, userID, partnerID uuid.UUID) (*models.ConversationStats, error) {
	if s, ok := m.stats[[2]uuid.UUID{userID, partnerID}]; ok {
		return s, nil
	}
	return &models.ConversationStats{}, nil
}

func newTestLedger(t *testing.T) (*Ledger, *memSwipes, *memUsers, *stubMessages) {
	t.Helper()
	swipes := newMemSwipes()
	users := &memUsers{users: make(map[uuid.UUID]*models.User)}
	messages := &stubMessages{stats: make(map[[2]uuid.UUID]*models.ConversationStats)}
	return NewLedger(swipes, users, messages, zap.NewNop()), swipes, users, messages
}

func addUser(users *memUsers, id byte, name string) uuid.UUID {
	uid := uuid.UUID{id}
	users.users[uid] = &models.User{ID: uid, Username: name}
	return uid
}

func TestRecordSwipeMutualSymmetry(t *testing.T) {
	ctx := context.Background()

	// A likes first, B completes the match.
	ledger, _, users, _ := newTestLedger(t)
	a := addUser(users, 1, "a")
	b := addUser(users, 2, "b")

	first, err := ledger.RecordSwipe(ctx, a, b, true)
	require.NoError(t, err)
	assert.False(t, first.IsMutualMatch)
	assert.Nil(t, first.Partner)

	second, err := ledger.RecordSwipe(ctx, b, a, true)
	require.NoError(t, err)
	assert.True(t, second.IsMutualMatch)
	require.NotNil(t, second.Partner)
	assert.Equal(t, a, second.Partner.ID)
	assert.Equal(t, "a", second.Partner.Username)

	// Opposite order: same final truth, the reporting call flips.
	ledger2, _, users2, _ := newTestLedger(t)
	a2 := addUser(users2, 1, "a")
	b2 := addUser(users2, 2, "b")

	first, err = ledger2.RecordSwipe(ctx, b2, a2, true)
	require.NoError(t, err)
	assert.False(t, first.IsMutualMatch)

	second, err = ledger2.RecordSwipe(ctx, a2, b2, true)
	require.NoError(t, err)
	assert.True(t, second.IsMutualMatch)
}

func TestRecordSwipePassNeverMatches(t *testing.T) {
	ctx := context.Background()
	ledger, _, users, _ := newTestLedger(t)
	a := addUser(users, 1, "a")
	b := addUser(users, 2, "b")

	_, err := ledger.RecordSwipe(ctx, b, a, true)
	require.NoError(t, err)

	// Even with B's like waiting, A's pass is not a match.
	outcome, err := ledger.RecordSwipe(ctx, a, b, false)
	require.NoError(t, err)
	assert.False(t, outcome.IsMutualMatch)
}

func TestRecordSwipeOverwritesPriorDecision(t *testing.T) {
	ctx := context.Background()
	ledger, _, users, _ := newTestLedger(t)
	a := addUser(users, 1, "a")
	b := addUser(users, 2, "b")

	_, err := ledger.RecordSwipe(ctx, b, a, true)
	require.NoError(t, err)

	outcome, err := ledger.RecordSwipe(ctx, a, b, false)
	require.NoError(t, err)
	assert.False(t, outcome.IsMutualMatch)

	// Changing the pass to a like completes the match.
	outcome, err = ledger.RecordSwipe(ctx, a, b, true)
	require.NoError(t, err)
	assert.True(t, outcome.IsMutualMatch)
}

func TestRecordSwipeValidation(t *testing.T) {
	ctx := context.Background()
	ledger, _, users, _ := newTestLedger(t)
	a := addUser(users, 1, "a")

	_, err := ledger.RecordSwipe(ctx, a, a, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = ledger.RecordSwipe(ctx, a, uuid.UUID{9}, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = ledger.RecordSwipe(ctx, a, uuid.Nil, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPendingLikers(t *testing.T) {
	ctx := context.Background()
	ledger, _, users, _ := newTestLedger(t)
	a := addUser(users, 1, "a")
	b := addUser(users, 2, "b")

	_, err := ledger.RecordSwipe(ctx, b, a, true)
	require.NoError(t, err)

	pending, err := ledger.PendingLikers(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, pending)

	// Liking back clears the pending entry.
	_, err = ledger.RecordSwipe(ctx, a, b, true)
	require.NoError(t, err)
	pending, err = ledger.PendingLikers(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMutualMatchesSummaries(t *testing.T) {
	ctx := context.Background()
	ledger, _, users, messages := newTestLedger(t)
	a := addUser(users, 1, "a")
	b := addUser(users, 2, "b")

	_, err := ledger.RecordSwipe(ctx, a, b, true)
	require.NoError(t, err)
	_, err = ledger.RecordSwipe(ctx, b, a, true)
	require.NoError(t, err)

	last := "see you then"
	messages.stats[[2]uuid.UUID{a, b}] = &models.ConversationStats{
		MessageCount: 3,
		UnreadCount:  1,
		LastMessage:  &last,
	}

	summaries, err := ledger.MutualMatches(ctx, a)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, b, summaries[0].ID)
	assert.Equal(t, "b", summaries[0].Username)
	assert.Equal(t, 3, summaries[0].MessageCount)
	assert.Equal(t, 1, summaries[0].UnreadCount)
	assert.Equal(t, &last, summaries[0].LastMessage)
	assert.Equal(t, 5, summaries[0].MaxMessages)
}
