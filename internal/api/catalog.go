package api

import (
	"net/http"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/version"

	"github.com/gin-gonic/gin"
)

// ListBosses returns the boss catalog. Public endpoint.
func (h *ArenaHandler) ListBosses(c *gin.Context) {
	bosses, err := h.repo.GetBosses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBosses})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(bosses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBosses})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bosses": out})
}

// Version reports the build metadata baked in at link time.
func (h *ArenaHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    version.Version,
		"commit":     version.Commit,
		"build_date": version.Date,
		"dirty":      version.Dirty,
	})
}
