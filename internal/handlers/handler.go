package handlers

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"cephai-backend/internal/auth"
	"cephai-backend/internal/config"
	"cephai-backend/internal/inference"
	"cephai-backend/internal/report"
)

// Handler bundles the dependencies every endpoint needs. All of them
// are constructed once at startup and injected here; handlers keep no
// other shared state.
type Handler struct {
	db      *gorm.DB
	cfg     *config.Config
	tokens  *auth.TokenService
	engine  inference.Engine
	reports *report.Generator
	log     zerolog.Logger
}

// New creates a Handler with its injected dependencies.
func New(db *gorm.DB, cfg *config.Config, tokens *auth.TokenService, engine inference.Engine, reports *report.Generator, log zerolog.Logger) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		tokens:  tokens,
		engine:  engine,
		reports: reports,
		log:     log,
	}
}

// resolveArtifactURL turns a storage-relative artifact path into an
// externally fetchable URL.
func (h *Handler) resolveArtifactURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return h.cfg.PublicBaseURL + "/" + relPath
}
