package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/cache"
	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

type ProfileHandler struct {
	users  repository.UserRepository
	graph  repository.SkillGraphRepository
	ranks  *cache.RankCache
	logger *zap.Logger
}

func NewProfileHandler(
	users repository.UserRepository,
	graph repository.SkillGraphRepository,
	ranks *cache.RankCache,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{users: users, graph: graph, ranks: ranks, logger: logger}
}

// Get handles GET /profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if user == nil {
		respondError(c, h.logger, apperr.New(apperr.KindNotFound, "User not found"))
		return
	}

	skills, err := h.graph.SkillsOf(c.Request.Context(), userID, models.EdgeTeaches)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	goals, err := h.graph.SkillsOf(c.Request.Context(), userID, models.EdgeWants)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"skills":         skills,
		"learning_goals": goals,
	})
}

type updateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	PrimarySkill   *string `json:"primary_skill"`
	SecondarySkill *string `json:"secondary_skill"`
	LearningGoal   *string `json:"learning_goal"`
}

// Update handles PUT /profile
//
// Setting primary_skill or learning_goal here REPLACES the corresponding
// edge set (the profile holds one primary teaching skill and one goal).
// Additive changes go through /add-skill instead.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	fields := make(map[string]string)
	for key, val := range map[string]*string{
		"username":        req.Username,
		"email":           req.Email,
		"primary_skill":   req.PrimarySkill,
		"secondary_skill": req.SecondarySkill,
		"learning_goal":   req.LearningGoal,
	} {
		if val != nil {
			fields[key] = *val
		}
	}
	if err := h.users.UpdateProfile(c.Request.Context(), userID, fields); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.PrimarySkill != nil && *req.PrimarySkill != "" {
		slug, err := h.graph.UpsertSkill(c.Request.Context(), *req.PrimarySkill, "Technical", false)
		if err == nil {
			err = h.graph.ReplaceAll(c.Request.Context(), userID, models.EdgeTeaches, slug, models.DefaultProficiency)
		}
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if req.LearningGoal != nil && *req.LearningGoal != "" {
		slug, err := h.graph.UpsertSkill(c.Request.Context(), *req.LearningGoal, "Technical", false)
		if err == nil {
			err = h.graph.ReplaceAll(c.Request.Context(), userID, models.EdgeWants, slug, 0)
		}
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	h.ranks.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
