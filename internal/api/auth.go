package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BhattAnsh/KnowZ/internal/auth"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

// AuthHandler owns the two public endpoints. Registration also seeds the
// skill graph from the profile shortcut fields, so a fresh user is
// immediately matchable.
type AuthHandler struct {
	users     repository.UserRepository
	graph     repository.SkillGraphRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	graph repository.SkillGraphRepository,
	jwtSecret string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{users: users, graph: graph, jwtSecret: jwtSecret, logger: logger}
}

type registerRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	PrimarySkill   string `json:"primary_skill"`
	SecondarySkill string `json:"secondary_skill"`
	LearningGoal   string `json:"learning_goal"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	existing, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	user, err := h.users.Create(c.Request.Context(), &models.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   string(hash),
		PrimarySkill:   req.PrimarySkill,
		SecondarySkill: req.SecondarySkill,
		LearningGoal:   req.LearningGoal,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Seed the graph: the primary skill becomes a teaches edge, the
	// learning goal a wants edge. Failures here must not report success.
	if req.PrimarySkill != "" {
		slug, err := h.graph.UpsertSkill(c.Request.Context(), req.PrimarySkill, "Technical", false)
		if err == nil {
			err = h.graph.Link(c.Request.Context(), user.ID, slug, models.EdgeTeaches, models.DefaultProficiency)
		}
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if req.LearningGoal != "" {
		slug, err := h.graph.UpsertSkill(c.Request.Context(), req.LearningGoal, "Technical", false)
		if err == nil {
			err = h.graph.Link(c.Request.Context(), user.ID, slug, models.EdgeWants, 0)
		}
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or password"})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// One generic error for unknown username and wrong password, so the
	// endpoint doesn't confirm which usernames exist.
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, h.jwtSecret, 24*time.Hour)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"user_id":      user.ID,
		"username":     user.Username,
	})
}
