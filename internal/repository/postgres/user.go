package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BhattAnsh/KnowZ/internal/models"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, username, email, password_hash, primary_skill, secondary_skill, learning_goal, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.PrimarySkill,
		&u.SecondarySkill,
		&u.LearningGoal,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, primary_skill, secondary_skill, learning_goal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING ` + userColumns

	created, err := scanUser(s.pool.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.PrimarySkill, u.SecondarySkill, u.LearningGoal))
	if err != nil {
		return nil, storeErr("insert user", err)
	}
	return created, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get user", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get user by username", err)
	}
	return u, nil
}

// allowed profile fields, mirroring the columns they map to.
var profileColumns = map[string]string{
	"username":        "username",
	"email":           "email",
	"primary_skill":   "primary_skill",
	"secondary_skill": "secondary_skill",
	"learning_goal":   "learning_goal",
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	sets := make([]string, 0, len(fields))
	args := []any{id}
	for field, value := range fields {
		col, ok := profileColumns[field]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return storeErr("update profile", err)
	}
	return nil
}
