package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/swipe"
)

type fakeSwipeRepo struct {
	decisions map[[2]uuid.UUID]bool
}

func (f *fakeSwipeRepo) Record(ctx context.Context, actor, target uuid.UUID, liked bool) (bool, error) {
	f.decisions[[2]uuid.UUID{actor, target}] = liked
	return liked && f.decisions[[2]uuid.UUID{target, actor}], nil
}

func (f *fakeSwipeRepo) IsMutual(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.decisions[[2]uuid.UUID{a, b}] && f.decisions[[2]uuid.UUID{b, a}], nil
}

func (f *fakeSwipeRepo) MutualPartners(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeSwipeRepo) PendingLikers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	return nil
}

type fakeMessageRepo struct{}

func (fakeMessageRepo) CreateWithQuota(ctx context.Context, sender, receiver uuid.UUID, text string, maxMessages int) (*models.Message, error) {
	return nil, nil
}

func (fakeMessageRepo) ListAndMarkRead(ctx context.Context, caller, peer uuid.UUID) ([]models.Message, error) {
	return nil, nil
}

func (fakeMessageRepo) PairStats(ctx context.Context, userID, partnerID uuid.UUID) (*models.ConversationStats, error) {
	return &models.ConversationStats{}, nil
}

// swipeTestServer wires the handler behind a stub identity, standing in
// for the auth middleware.
func swipeTestServer(t *testing.T, callerID uuid.UUID, swipes *fakeSwipeRepo, users *fakeUserRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger := swipe.NewLedger(swipes, users, fakeMessageRepo{}, zap.NewNop())
	handler := NewSwipeHandler(ledger, zap.NewNop())

	r := gin.New()
	r.POST("/swipe", func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, callerID)
	}, handler.Record)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestSwipeEndpoint(t *testing.T) {
	caller := uuid.UUID{1}
	target := uuid.UUID{2}
	swipes := &fakeSwipeRepo{decisions: make(map[[2]uuid.UUID]bool)}
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{
		target: {ID: target, Username: "taylor"},
	}}
	r := swipeTestServer(t, caller, swipes, users)

	w, resp := postJSON(t, r, "/swipe", `{"target_user_id":"`+target.String()+`","liked":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["is_match"])
	assert.Nil(t, resp["match_details"])

	// With the reverse like already recorded, the swipe reports the match.
	swipes.decisions[[2]uuid.UUID{target, caller}] = true
	w, resp = postJSON(t, r, "/swipe", `{"target_user_id":"`+target.String()+`","liked":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["is_match"])
	details, ok := resp["match_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "taylor", details["username"])
}

func TestSwipeEndpointMissingFields(t *testing.T) {
	swipes := &fakeSwipeRepo{decisions: make(map[[2]uuid.UUID]bool)}
	users := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	r := swipeTestServer(t, uuid.UUID{1}, swipes, users)

	w, resp := postJSON(t, r, "/swipe", `{"target_user_id":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", resp["error"])
}

func TestSwipeEndpointSelfSwipe(t *testing.T) {
	caller := uuid.UUID{1}
	swipes := &fakeSwipeRepo{decisions: make(map[[2]uuid.UUID]bool)}
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{
		caller: {ID: caller, Username: "me"},
	}}
	r := swipeTestServer(t, caller, swipes, users)

	w, resp := postJSON(t, r, "/swipe", `{"target_user_id":"`+caller.String()+`","liked":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot swipe on yourself", resp["error"])
}
