// Package business wires configuration into the concrete components the
// commands run: storage backends, the generation client, and the managers
// on top of them.
package business

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/prepdeck/interview-manager/internal/config"
	"github.com/prepdeck/interview-manager/internal/genai"
	"github.com/prepdeck/interview-manager/internal/interview"
	interviewmemory "github.com/prepdeck/interview-manager/internal/interview/memory"
	interviewsql "github.com/prepdeck/interview-manager/internal/interview/sql"
	interviewvalkey "github.com/prepdeck/interview-manager/internal/interview/valkey"
	"github.com/prepdeck/interview-manager/internal/resume"
	resumememory "github.com/prepdeck/interview-manager/internal/resume/memory"
	resumesql "github.com/prepdeck/interview-manager/internal/resume/sql"

	// Register generation providers.
	_ "github.com/prepdeck/interview-manager/internal/genai/providers"
)

// Components holds the wired application services.
type Components struct {
	Sessions *interview.Manager
	Resumes  *resume.Optimizer
}

// NewComponents builds the components selected by the configuration. The
// returned close function releases storage connections.
func NewComponents(ctx context.Context, cfg *config.Config) (_ *Components, closeFn func(), _ error) {
	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising generation client: %w", err)
	}

	sessionRepo, resumeRepo, closeFn, err := newRepositories(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising storage: %w", err)
	}

	return &Components{
		Sessions: interview.NewManager(sessionRepo, generator),
		Resumes:  resume.NewOptimizer(resumeRepo, generator),
	}, closeFn, nil
}

func newGenerator(cfg *config.Config) (genai.Generator, error) {
	apiKey, err := cfg.Generation.APIKey.Load()
	if err != nil {
		return nil, fmt.Errorf("loading generation API key: %w", err)
	}

	retry := genai.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Generation.MaxAttempts

	return genai.NewClient(genai.EndpointConfig{
		Provider: cfg.Generation.Provider,
		Model:    cfg.Generation.Model,
		BaseURL:  cfg.Generation.BaseURL,
		APIKey:   apiKey,
		Timeout:  cfg.Generation.Timeout,
	}, genai.WithRetryConfig(retry)), nil
}

func newRepositories(ctx context.Context, cfg *config.Config) (interview.Repository, resume.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return interviewmemory.NewRepository(), resumememory.NewRepository(), func() {}, nil

	case "postgres":
		connStr, err := config.MakeConnStr(cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("making dsn from config: %w", err)
		}

		db, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialising pgxpool connection: %w", err)
		}

		return interviewsql.NewRepository(db), resumesql.NewRepository(db), db.Close, nil

	case "valkey":
		valkeyClient, err := newValkeyClient(cfg)
		if err != nil {
			return nil, nil, nil, err
		}

		// Resume results have no valkey representation, keep them in memory.
		return interviewvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix),
			resumememory.NewRepository(), valkeyClient.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newValkeyClient(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := cfg.ValKey.Host.Load()
	if err != nil {
		return nil, fmt.Errorf("loading valkey host: %w", err)
	}

	valkeyUsername, err := cfg.ValKey.User.Load()
	if err != nil {
		return nil, fmt.Errorf("loading valkey username: %w", err)
	}

	valkeyPassword, err := cfg.ValKey.Password.Load()
	if err != nil {
		return nil, fmt.Errorf("loading valkey password: %w", err)
	}

	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{valkeyHost},
		Username:    valkeyUsername,
		Password:    valkeyPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return valkeyClient, nil
}
