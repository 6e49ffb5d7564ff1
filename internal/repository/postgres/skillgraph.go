package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BhattAnsh/KnowZ/internal/models"
)

// SkillGraphStore holds Skill nodes and the teaches/wants edge sets.
// All writes are idempotent at the SQL level (ON CONFLICT clauses), so a
// repeated link or upsert never surfaces as an error.
type SkillGraphStore struct {
	pool *pgxpool.Pool
}

func NewSkillGraphStore(pool *pgxpool.Pool) *SkillGraphStore {
	return &SkillGraphStore{pool: pool}
}

func (s *SkillGraphStore) UpsertSkill(ctx context.Context, name, category string, overwriteCategory bool) (string, error) {
	slug := models.Slugify(name)

	// The teaching-level update path is the only one allowed to change an
	// existing skill's category; every other path leaves it untouched.
	query := `
		INSERT INTO skills (slug, name, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING`
	if overwriteCategory {
		query = `
			INSERT INTO skills (slug, name, category)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET category = EXCLUDED.category`
	}

	if _, err := s.pool.Exec(ctx, query, slug, name, category); err != nil {
		return "", storeErr("upsert skill", err)
	}
	return slug, nil
}

func (s *SkillGraphStore) Link(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind, proficiency int) error {
	query := `
		INSERT INTO user_skills (user_id, skill_slug, kind, proficiency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, skill_slug, kind) DO NOTHING`

	// Proficiency only means something on a teaches edge.
	var prof *int
	if kind == models.EdgeTeaches {
		prof = &proficiency
	}

	if _, err := s.pool.Exec(ctx, query, userID, slug, string(kind), prof); err != nil {
		return storeErr("link skill", err)
	}
	return nil
}

func (s *SkillGraphStore) Unlink(ctx context.Context, userID uuid.UUID, slug string, kind models.EdgeKind) error {
	query := `
		DELETE FROM user_skills
		WHERE user_id = $1 AND skill_slug = $2 AND kind = $3`

	if _, err := s.pool.Exec(ctx, query, userID, slug, string(kind)); err != nil {
		return storeErr("unlink skill", err)
	}
	return nil
}

func (s *SkillGraphStore) ReplaceAll(ctx context.Context, userID uuid.UUID, kind models.EdgeKind, slug string, proficiency int) error {
	// Delete-all plus single insert must be one transaction: a failure in
	// between would leave the user with no edge of this kind at all.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin replace", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND kind = $2`, userID, string(kind)); err != nil {
		return storeErr("clear edges", err)
	}

	var prof *int
	if kind == models.EdgeTeaches {
		prof = &proficiency
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_skills (user_id, skill_slug, kind, proficiency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, skill_slug, kind) DO NOTHING`,
		userID, slug, string(kind), prof); err != nil {
		return storeErr("insert edge", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit replace", err)
	}
	return nil
}

func (s *SkillGraphStore) SkillsOf(ctx context.Context, userID uuid.UUID, kind models.EdgeKind) ([]models.Skill, error) {
	query := `
		SELECT sk.slug, sk.name, sk.category
		FROM user_skills e
		JOIN skills sk ON sk.slug = e.skill_slug
		WHERE e.user_id = $1 AND e.kind = $2
		ORDER BY sk.slug`

	rows, err := s.pool.Query(ctx, query, userID, string(kind))
	if err != nil {
		return nil, storeErr("list skills", err)
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.Slug, &sk.Name, &sk.Category); err != nil {
			return nil, storeErr("scan skill", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate skills", err)
	}
	return skills, nil
}

func (s *SkillGraphStore) SkillSetSnapshot(ctx context.Context) ([]models.UserSkillSet, error) {
	// One LEFT JOIN pass instead of per-user edge queries: the scorer scans
	// every user, and N+1 round trips would dominate its cost.
	query := `
		SELECT u.id, u.username, e.kind, e.skill_slug
		FROM users u
		LEFT JOIN user_skills e ON e.user_id = u.id
		ORDER BY u.id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("snapshot skill sets", err)
	}
	defer rows.Close()

	snapshot := make([]models.UserSkillSet, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id       uuid.UUID
			username string
			kind     *string
			slug     *string
		)
		if err := rows.Scan(&id, &username, &kind, &slug); err != nil {
			return nil, storeErr("scan skill set", err)
		}

		i, seen := index[id]
		if !seen {
			i = len(snapshot)
			index[id] = i
			snapshot = append(snapshot, models.UserSkillSet{UserID: id, Username: username})
		}
		if kind == nil || slug == nil {
			continue
		}
		switch models.EdgeKind(*kind) {
		case models.EdgeTeaches:
			snapshot[i].Teaches = append(snapshot[i].Teaches, *slug)
		case models.EdgeWants:
			snapshot[i].Wants = append(snapshot[i].Wants, *slug)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate skill sets", err)
	}
	return snapshot, nil
}
