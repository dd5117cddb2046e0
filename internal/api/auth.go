package api

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
	"github.com/Techlemariam/IronForge-sub002/internal/game"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionTTL = 7 * 24 * time.Hour

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	secure := os.Getenv(constants.EnvSessionSecureCookie) == "1"
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// AuthRequired validates the session cookie and injects the resolved
// account id into the context. No state is touched for unauthenticated
// requests.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.CookieSessionName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set("accountID", claims.AccountID)
		c.Set("username", claims.Sub)
		c.Next()
	}
}

// accountID returns the authenticated account id from the context.
func accountID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("accountID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login resolves (or provisions) an account for the username and issues a
// session token. Upstream identity verification is the surrounding
// application's concern; this mirrors its session issuance.
func (h *ArenaHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUsernameRequired})
		return
	}

	acct, err := h.repo.GetAccountByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateAccount})
			return
		}
		acct = &game.Account{Username: username, Email: req.Email, Level: 1}
		if err := h.repo.CreateAccount(acct); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateAccount})
			return
		}
	}

	token, err := createSessionToken(acct.Username, acct.ID, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}
	setSessionCookie(c, token, sessionTTL)
	c.JSON(http.StatusOK, gin.H{"account_id": acct.ID, "username": acct.Username})
}
