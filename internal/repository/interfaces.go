package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BhattAnsh/KnowZ/internal/models"
)

// Every method takes a context.Context: the stores do network I/O, and the
// caller's deadline/cancellation must reach the database driver.
//
// "Not found" is returned as (nil, nil) on single-row lookups; the caller
// decides whether that is a NotFoundError, a ValidationError, or something
// it may not disclose.

// UserRepository handles user records. Registration-adjacent, but the core
// needs it for swipe validation and public summaries too.
type UserRepository interface {
	// Create inserts a new user and returns it with ID and CreatedAt set.
	Create(ctx context.Context, u *models.User) (*models.User, error)

	// GetByID returns a user, or nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByUsername returns a user by unique username, or nil, nil.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateProfile overwrites the given allowed fields. Keys outside the
	// allowed set are ignored by the implementation.
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]string) error
}

// SkillGraphRepository is the bipartite skill graph: Skill nodes keyed by
// slug plus the teaches/wants edge sets.
type SkillGraphRepository interface {
	// UpsertSkill normalizes name to a slug and creates the skill if absent.
	// Duplicate creation is absorbed silently. The existing category is
	// overwritten only when overwriteCategory is set (the teaching-level
	// update path).
	UpsertSkill(ctx context.Context, name, category string, overwriteCategory bool) (string, error)

	// Link adds a user→skill edge of the given kind. Idempotent: a second
	// call for the same (user, skill, kind) is a no-op. Proficiency is
	// recorded on teaches edges and ignored for wants.
	Link(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind, proficiency int) error

	// Unlink removes the edge if present; absent edges are not an error.
	Unlink(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind) error

	// ReplaceAll removes every edge of kind for the user, then links the
	// single given skill. The full-profile update path ("set THE teaching
	// skill"), as opposed to the additive Link.
	ReplaceAll(ctx context.Context, userID uuid.UUID, kind models.EdgeKind, slug string, proficiency int) error

	// SkillsOf returns the skills on one side of the graph for a user.
	SkillsOf(ctx context.Context, userID uuid.UUID, kind models.EdgeKind) ([]models.Skill, error)

	// SkillSetSnapshot returns every user with their teaches/wants slug
	// sets in one read, so the scorer scans users without N+1 queries.
	// Users with no edges are included with empty sets.
	SkillSetSnapshot(ctx context.Context) ([]models.UserSkillSet, error)
}

// SwipeRepository is the like/pass ledger and the mutual-match derivation
// over it.
type SwipeRepository interface {
	// Record upserts the actor's decision about the target and reports
	// whether it completed a mutual match. The reverse-direction read and
	// the forward write are serialized per pair, so two concurrent likes
	// cannot both miss the match.
	Record(ctx context.Context, actor, target uuid.UUID, liked bool) (mutual bool, err error)

	// IsMutual reports whether both directed liked records exist.
	// Recomputed live from the ledger on every call.
	IsMutual(ctx context.Context, a, b uuid.UUID) (bool, error)

	// MutualPartners returns every user mutually matched with userID.
	MutualPartners(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// PendingLikers returns users who liked userID and have not been
	// liked back by userID yet.
	PendingLikers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// MessageRepository is the append-only per-pair message log.
type MessageRepository interface {
	// CreateWithQuota appends a message if the pair's total count is below
	// maxMessages, atomically: count, compare, and insert run as one unit
	// per pair. At the cap it returns a quota error and writes nothing.
	CreateWithQuota(ctx context.Context, sender, receiver uuid.UUID, text string, maxMessages int) (*models.Message, error)

	// ListAndMarkRead returns the pair's conversation in chronological
	// order and, in the same transaction, marks every unread message from
	// peer to caller as read. Re-fetching is a no-op once all are read.
	ListAndMarkRead(ctx context.Context, caller, peer uuid.UUID) ([]models.Message, error)

	// PairStats returns conversation counters for the matches list.
	PairStats(ctx context.Context, userID, partnerID uuid.UUID) (*models.ConversationStats, error)
}
