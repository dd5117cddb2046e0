package api

import (
	"errors"
	"net/http"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/engine"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type startEncounterRequest struct {
	OpponentID uint   `json:"opponent_id"`
	Tier       string `json:"tier"`
}

// StartEncounter seeds a new boss encounter for the authenticated player.
func (h *ArenaHandler) StartEncounter(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req startEncounterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OpponentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	st, boss, err := service.StartEncounter(h.repo, h.sessions, h.provider, id, req.OpponentID, game.Tier(req.Tier))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpponentNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrOpponentNotFound})
		case errors.Is(err, service.ErrInvalidTier):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidTier})
		case errors.Is(err, service.ErrEncounterActive):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrEncounterActive})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartFight})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st, "opponent": boss})
}

type actionRequest struct {
	Action string `json:"action"`
}

// SubmitAction resolves one encounter turn. Victory includes the reward
// grant in the response; the session is gone afterwards either way the
// encounter ends.
func (h *ArenaHandler) SubmitAction(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	st, rewards, err := service.SubmitAction(h.repo, h.sessions, h.provider, id, game.CombatAction(req.Action), h.src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction), errors.Is(err, engine.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAction})
		case errors.Is(err, service.ErrNoActiveEncounter):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoActiveEncounter})
		case errors.Is(err, engine.ErrUltimateNotReady):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
		case errors.Is(err, engine.ErrEncounterOver):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoActiveEncounter})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedResolveAction})
		}
		return
	}

	resp := gin.H{"state": st}
	if rewards != nil {
		resp["rewards"] = rewards
	}
	c.JSON(http.StatusOK, resp)
}

// Flee abandons the live encounter for a flat gold cost.
func (h *ArenaHandler) Flee(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	paid, err := service.Flee(h.repo, h.sessions, id, h.fleeCost)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveEncounter):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoActiveEncounter})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInsufficientFunds})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedResolveAction})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cost_paid": paid})
}
