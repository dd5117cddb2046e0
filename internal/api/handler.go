package api

import (
	"github.com/Techlemariam/IronForge-sub002/internal/engine"
	"github.com/Techlemariam/IronForge-sub002/internal/service"
	"github.com/Techlemariam/IronForge-sub002/internal/session"
	"github.com/Techlemariam/IronForge-sub002/internal/storage"
)

// ArenaHandler groups all combat, duel and ladder HTTP handlers.
type ArenaHandler struct {
	repo     storage.Repository
	sessions session.Store
	provider service.AttributeProvider
	src      engine.Source
	fleeCost int64
}

// NewArenaHandler creates the handler set with the given repository,
// session store and configured flee cost.
func NewArenaHandler(repo storage.Repository, sessions session.Store, provider service.AttributeProvider, fleeCost int64) *ArenaHandler {
	return &ArenaHandler{
		repo:     repo,
		sessions: sessions,
		provider: provider,
		src:      engine.SystemSource(),
		fleeCost: fleeCost,
	}
}
