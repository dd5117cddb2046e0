package api

import (
	"errors"
	"net/http"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createDuelRequest struct {
	DefenderID     uint    `json:"defender_id"`
	Variant        string  `json:"variant"`
	ActivityFilter string  `json:"activity_filter"`
	TargetValue    float64 `json:"target_value"`
}

// CreateDuel opens a pending challenge against another account.
func (h *ArenaHandler) CreateDuel(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req createDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DefenderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	d, err := service.CreateChallenge(h.repo, id, req.DefenderID, game.DuelVariant(req.Variant), req.ActivityFilter, req.TargetValue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfChallenge):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSelfChallenge})
		case errors.Is(err, service.ErrUnknownVariant):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownVariant})
		case errors.Is(err, service.ErrInvalidTarget):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidTarget})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrAccountNotFound})
		case errors.Is(err, service.ErrDuplicateChallenge):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrDuplicateChallenge})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
		}
		return
	}
	duelJSON(c, http.StatusCreated, d)
}

// ListDuels returns every duel the authenticated account participates in.
func (h *ArenaHandler) ListDuels(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	duels, err := h.repo.ListDuelsForAccount(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(duels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duels": out})
}

// AcceptDuel activates a pending challenge. Defender only.
func (h *ArenaHandler) AcceptDuel(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	duelID, ok := h.resolveDuelID(c)
	if !ok {
		return
	}

	d, err := service.AcceptChallenge(h.repo, h.provider, duelID, id)
	if err != nil {
		h.duelError(c, err)
		return
	}
	duelJSON(c, http.StatusOK, d)
}

// DeclineDuel terminally declines a pending challenge. Defender only.
func (h *ArenaHandler) DeclineDuel(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	duelID, ok := h.resolveDuelID(c)
	if !ok {
		return
	}

	d, err := service.DeclineChallenge(h.repo, duelID, id)
	if err != nil {
		h.duelError(c, err)
		return
	}
	duelJSON(c, http.StatusOK, d)
}

type duelProgressRequest struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	ElevationM  float64 `json:"elevation_m"`
}

// ReportDuelProgress adds a workout delta to the caller's side of an
// active duel and returns the possibly-completed duel.
func (h *ArenaHandler) ReportDuelProgress(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	duelID, ok := h.resolveDuelID(c)
	if !ok {
		return
	}
	var req duelProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	d, err := service.ReportProgress(h.repo, duelID, id, req.DistanceKm, req.DurationMin, req.ElevationM)
	if err != nil {
		h.duelError(c, err)
		return
	}
	duelJSON(c, http.StatusOK, d)
}

// DuelAction resolves one titan-vs-titan exchange for the caller's side.
func (h *ArenaHandler) DuelAction(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	duelID, ok := h.resolveDuelID(c)
	if !ok {
		return
	}

	d, err := service.ReportDuelAction(h.repo, h.provider, duelID, id, h.src)
	if err != nil {
		h.duelError(c, err)
		return
	}
	duelJSON(c, http.StatusOK, d)
}

// duelJSON writes a single duel with snake_case timestamp keys, matching
// the list endpoints.
func duelJSON(c *gin.Context, status int, d *game.DuelChallenge) {
	out, err := MarshalIntoSnakeTimestamps(d)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
		return
	}
	c.JSON(status, gin.H{"duel": out})
}

// resolveDuelID maps the public duel identifier from the path to the
// internal numeric one. Internal IDs never appear in URLs.
func (h *ArenaHandler) resolveDuelID(c *gin.Context) (uint, bool) {
	publicID := normalizeDuelID(c.Param("duelID"))
	if !duelIDRegex.MatchString(publicID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return 0, false
	}
	d, err := h.repo.GetDuelByPublicID(publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDuelNotFound})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
		}
		return 0, false
	}
	return d.ID, true
}

func (h *ArenaHandler) duelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuelNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDuelNotFound})
	case errors.Is(err, service.ErrNotDefender):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotDefender})
	case errors.Is(err, service.ErrNotAParticipant):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
	case errors.Is(err, service.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotPending})
	case errors.Is(err, service.ErrDuelNotActive):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrDuelNotActive})
	case errors.Is(err, service.ErrInvalidProgress):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidProgress})
	case errors.Is(err, service.ErrUnknownVariant):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownVariant})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDuel})
	}
}
