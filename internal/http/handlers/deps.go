package handlers

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"shopapi/internal/auth"
	"shopapi/internal/config"
	"shopapi/internal/crypto"
	"shopapi/internal/metrics"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type Deps struct {
	Config   config.Config
	Signer   *auth.Signer
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	HealthHandler *HealthHandler
}

// NewDeps builds every component from the config. Metrics are registered with reg.
func NewDeps(db *sqlx.DB, cfg config.Config, reg *prometheus.Registry) (*Deps, error) {
	userRepo := repos.NewUserRepo(db)
	roleRepo := repos.NewRoleRepo(db)

	hasher, err := crypto.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	signer := auth.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authSvc, err := services.NewAuthService(userRepo, roleRepo, hasher, signer, cfg.AllowSignupRole)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	collector := metrics.NewCollector(reg)

	return &Deps{
		Config:   cfg,
		Signer:   signer,
		Metrics:  collector,
		Gatherer: reg,

		AuthHandler:   &AuthHandler{Auth: authSvc, Metrics: collector},
		UserHandler:   &UserHandler{Users: services.NewUserService(userRepo)},
		HealthHandler: &HealthHandler{DB: db},
	}, nil
}
