package daemon

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/scaletotop/contentengine/internal/api"
	"github.com/scaletotop/contentengine/internal/app/executor"
	"github.com/scaletotop/contentengine/internal/domain"
	"github.com/scaletotop/contentengine/internal/infra/sqlite"
	"github.com/scaletotop/contentengine/internal/skills"
)

// Daemon is the assembled engine.
type Daemon struct {
	cfg    Config
	db     *sqlite.DB
	exec   *executor.Executor
	server *http.Server
}

// New assembles the engine from cfg: opens the database, seeds the
// built-in skill pricing rows, and mounts the API.
func New(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	reg := skills.NewRegistry()
	reg.Register(skills.SEOAuditSkill{})
	reg.Register(skills.NewHumanizeSkill(rand.New(rand.NewSource(time.Now().UnixNano()))))

	if err := seedSkillConfigs(db, cfg.Credits); err != nil {
		db.Close()
		return nil, err
	}

	execCfg := executor.Config{MaxConcurrent: cfg.Executor.MaxConcurrent}
	if d, err := time.ParseDuration(cfg.Executor.DefaultTimeout); err == nil {
		execCfg.DefaultTimeout = d
	}
	exec := executor.New(execCfg, reg, db)

	srv := api.NewServer(exec, db, reg)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	return &Daemon{
		cfg:  cfg,
		db:   db,
		exec: exec,
		server: &http.Server{
			Addr:    cfg.API.Addr(),
			Handler: srv.Handler(),
		},
	}, nil
}

// seedSkillConfigs ensures the built-in skills have pricing rows.
// Existing rows keep their admin-set cost and active flag.
func seedSkillConfigs(db *sqlite.DB, credits CreditsConfig) error {
	ctx := context.Background()
	builtins := []domain.SkillConfig{
		{
			Name:        skills.SEOAudit,
			DisplayName: "SEO Audit",
			Description: "Score content against SEO heuristics and AI-pattern detection.",
			Version:     "v1",
			Cost:        0,
			IsActive:    true,
		},
		{
			Name:        skills.Humanize,
			DisplayName: "Humanize",
			Description: "Rewrite content to read less machine-generated.",
			Version:     "v1",
			Cost:        credits.HumanizeCost,
			IsActive:    true,
		},
	}
	for _, cfg := range builtins {
		if err := db.UpsertSkillConfig(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// DB exposes the store for CLI admin commands.
func (d *Daemon) DB() *sqlite.DB { return d.db }

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] listening on %s", d.cfg.API.Addr())
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("[daemon] shut down cleanly")
	return d.db.Close()
}

// Close releases resources without serving. Used by one-shot CLI commands.
func (d *Daemon) Close() error {
	return d.db.Close()
}
