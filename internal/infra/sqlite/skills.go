package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/scaletotop/contentengine/internal/domain"
)

// ─── Skill Pricing Configuration ────────────────────────────────────────────

// UpsertSkillConfig inserts or updates the pricing row for cfg.Name.
// Used at startup to seed built-in skills; an existing row keeps its
// admin-set cost and active flag.
func (db *DB) UpsertSkillConfig(ctx context.Context, cfg domain.SkillConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	_, err := db.db.ExecContext(ctx,
		`INSERT INTO skill_configs (id, name, display_name, description, version, cost, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			description  = excluded.description,
			version      = excluded.version`,
		cfg.ID, cfg.Name, cfg.DisplayName, cfg.Description, cfg.Version, cfg.Cost, boolToInt(cfg.IsActive))
	if err != nil {
		return fmt.Errorf("upsert skill config %q: %w", cfg.Name, err)
	}
	return nil
}

// GetSkillConfig returns the pricing row for the named skill.
func (db *DB) GetSkillConfig(ctx context.Context, name string) (*domain.SkillConfig, error) {
	var cfg domain.SkillConfig
	var active int
	err := db.db.QueryRowContext(ctx,
		`SELECT id, name, display_name, description, version, cost, is_active
		 FROM skill_configs WHERE name = ?`, name).
		Scan(&cfg.ID, &cfg.Name, &cfg.DisplayName, &cfg.Description, &cfg.Version, &cfg.Cost, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSkillNotConfigured
	}
	if err != nil {
		return nil, err
	}
	cfg.IsActive = active != 0
	return &cfg, nil
}

// ListSkillConfigs returns all pricing rows ordered by name.
func (db *DB) ListSkillConfigs(ctx context.Context) ([]domain.SkillConfig, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, name, display_name, description, version, cost, is_active
		 FROM skill_configs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SkillConfig
	for rows.Next() {
		var cfg domain.SkillConfig
		var active int
		if err := rows.Scan(&cfg.ID, &cfg.Name, &cfg.DisplayName, &cfg.Description, &cfg.Version, &cfg.Cost, &active); err != nil {
			return nil, err
		}
		cfg.IsActive = active != 0
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// SetSkillCost updates the per-execution cost of a skill. Takes effect on
// the next charge; in-flight executions already priced are unaffected.
func (db *DB) SetSkillCost(ctx context.Context, name string, cost int64) error {
	if cost < 0 {
		return fmt.Errorf("cost must be non-negative, got %d", cost)
	}
	res, err := db.db.ExecContext(ctx,
		`UPDATE skill_configs SET cost = ? WHERE name = ?`, cost, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSkillNotConfigured
	}
	return nil
}

// SetSkillActive flips the admin kill switch for a skill.
func (db *DB) SetSkillActive(ctx context.Context, name string, active bool) error {
	res, err := db.db.ExecContext(ctx,
		`UPDATE skill_configs SET is_active = ? WHERE name = ?`, boolToInt(active), name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSkillNotConfigured
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
