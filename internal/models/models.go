package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a person in the skill-swap network. The profile keeps the
// "one primary thing I teach / one thing I want to learn" shortcut fields
// from registration; the skill graph edges are the source of truth for
// matching.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	PrimarySkill   string    `json:"primary_skill"`
	SecondarySkill string    `json:"secondary_skill"`
	LearningGoal   string    `json:"learning_goal"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary is the public view of a user, safe to hand to other users
// (match popups, pending-match lists).
type Summary struct {
	ID       uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Skill is a node in the bipartite skill graph, keyed by slug.
//
// Two display names that normalize to the same slug are the same skill:
// "Machine Learning" and "machine learning" both live at machine_learning.
type Skill struct {
	Slug     string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Slugify derives a skill's primary key from its display name:
// lowercase, spaces replaced with underscores.
func Slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// EdgeKind distinguishes the two directed user→skill relations.
type EdgeKind string

const (
	// EdgeTeaches means the user can teach the skill. Carries proficiency.
	EdgeTeaches EdgeKind = "teaches"
	// EdgeWants means the user wants to learn the skill.
	EdgeWants EdgeKind = "wants"
)

// DefaultProficiency is what registration and profile updates record on a
// teaching edge when the user doesn't rate themselves.
const DefaultProficiency = 5

// UserSkillSet is one user's row in the scorer's snapshot: who they are
// plus the slug sets on each side of the graph.
type UserSkillSet struct {
	UserID   uuid.UUID
	Username string
	Teaches  []string
	Wants    []string
}

// CandidateMatch is a ranked recommendation from the match scorer.
// Field names follow the wire format the frontend already consumes.
type CandidateMatch struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	MatchScore      int       `json:"match_score"`
	MatchingSkills  []string  `json:"matching_skills"`
	MatchingGoals   []string  `json:"matching_goals"`
	AllSkills       []string  `json:"all_skills"`
	AllGoals        []string  `json:"all_goals"`
	MatchPercentage int       `json:"match_percentage"`
}

// Swipe is one user's current like/pass decision about another.
// One row per (actor, target): re-swiping overwrites the prior decision.
type Swipe struct {
	ActorID   uuid.UUID `json:"user_id"`
	TargetID  uuid.UUID `json:"target_user_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single message inside a matched pair's conversation.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"-"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

// ConversationStats summarizes one matched pair's conversation for the
// matches list: total count against the quota, unread count from the
// partner's side, and the latest message text if any.
type ConversationStats struct {
	MessageCount int
	UnreadCount  int
	LastMessage  *string
}

// PendingMatch is someone who liked the user and hasn't been swiped back
// on yet, annotated with the compatibility percentage for display.
type PendingMatch struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	MatchPercentage int       `json:"match_percentage"`
}

// MatchSummary is one row of the matches list: a mutual match plus the
// state of its bounded conversation.
type MatchSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	LastMessage  *string   `json:"last_message"`
	MessageCount int       `json:"message_count"`
	UnreadCount  int       `json:"unread_count"`
	MaxMessages  int       `json:"max_messages"`
}
