package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/cache"
	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

type SkillHandler struct {
	graph  repository.SkillGraphRepository
	ranks  *cache.RankCache
	logger *zap.Logger
}

func NewSkillHandler(graph repository.SkillGraphRepository, ranks *cache.RankCache, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{graph: graph, ranks: ranks, logger: logger}
}

type addSkillRequest struct {
	SkillName  string `json:"skill_name" binding:"required"`
	SkillType  string `json:"skill_type" binding:"required"`
	SkillLevel string `json:"skill_level"`
}

type removeSkillRequest struct {
	SkillID   string `json:"skill_id" binding:"required"`
	SkillType string `json:"skill_type" binding:"required"`
}

func edgeKindFor(skillType string) (models.EdgeKind, bool) {
	switch skillType {
	case "teaching":
		return models.EdgeTeaches, true
	case "learning":
		return models.EdgeWants, true
	default:
		return "", false
	}
}

// Add handles POST /add-skill — the additive path. Unlike the profile
// update, it links one more skill without disturbing existing edges.
func (h *SkillHandler) Add(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req addSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	kind, ok := edgeKindFor(req.SkillType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill type. Must be 'teaching' or 'learning'"})
		return
	}

	level := req.SkillLevel
	if level == "" {
		level = "Intermediate"
	}

	// A teaching add carries the user's skill level and is the one path
	// allowed to overwrite an existing skill's category with it.
	var slug string
	var err error
	if kind == models.EdgeTeaches {
		slug, err = h.graph.UpsertSkill(c.Request.Context(), req.SkillName, level, true)
	} else {
		slug, err = h.graph.UpsertSkill(c.Request.Context(), req.SkillName, "Technical", false)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.graph.Link(c.Request.Context(), userID, slug, kind, models.DefaultProficiency); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.ranks.Invalidate(c.Request.Context(), userID)

	resp := gin.H{
		"id":   slug,
		"name": req.SkillName,
	}
	if kind == models.EdgeTeaches {
		resp["level"] = level
	} else {
		resp["level"] = nil
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully added " + req.SkillType + " skill",
		"skill":   resp,
	})
}

// Remove handles POST /remove-skill. Removing an edge that doesn't exist
// is a silent success.
func (h *SkillHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req removeSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	kind, ok := edgeKindFor(req.SkillType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill type. Must be 'teaching' or 'learning'"})
		return
	}

	if err := h.graph.Unlink(c.Request.Context(), userID, req.SkillID, kind); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.ranks.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Successfully removed " + req.SkillType + " skill",
		"skill_id": req.SkillID,
	})
}
