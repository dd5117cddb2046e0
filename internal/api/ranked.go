package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultLeaderboardLimit = 50

// FindRankedOpponent offers a matchmaking candidate near the caller's
// rating. 204 means nobody else is rated this season yet.
func (h *ArenaHandler) FindRankedOpponent(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	opp, err := service.FindOpponent(h.repo, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFindOpponent})
		return
	}
	if opp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opponent": opp})
}

type matchResultRequest struct {
	OpponentID uint  `json:"opponent_id"`
	Won        *bool `json:"won"`
}

// SubmitMatchResult records a ranked outcome and returns the caller's new
// rating state.
func (h *ArenaHandler) SubmitMatchResult(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req matchResultRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OpponentID == 0 || req.Won == nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	summary, err := service.SubmitMatchResult(h.repo, id, req.OpponentID, *req.Won)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfMatch):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSelfMatch})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrAccountNotFound})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSubmitResult})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": summary})
}

// RankedMe returns the caller's current season standing, creating the
// rating row at the default on first sight.
func (h *ArenaHandler) RankedMe(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	season, err := service.GetOrCreateActiveSeason(h.repo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLadder})
		return
	}
	rating, err := h.repo.GetOrCreateRating(id, season.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLadder})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"season":     season,
		"rating":     rating,
		"rank_label": game.RankLabel(rating.Rating),
	})
}

// Leaderboard returns the season's top ratings. Public endpoint.
func (h *ArenaHandler) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := service.Leaderboard(h.repo, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLadder})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
