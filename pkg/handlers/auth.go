package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	sessionAuthorized  = "authorized"
	sessionAccessToken = "access_token"
	sessionOAuthState  = "oauth_state"
)

// AuthRequired lets a request through when it carries the bridge token as
// "Authorization: Bearer <token>" or a session from the handshake. The webview
// origin is cross-site to the bridge, so browsers there only send the header.
func (a *API) AuthRequired(c *gin.Context) {
	if a.validBearer(c.GetHeader("Authorization")) {
		c.Next()
		return
	}
	session := sessions.Default(c)
	if ok, _ := session.Get(sessionAuthorized).(bool); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func (a *API) validBearer(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || a.BridgeToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(a.BridgeToken)) == 1
}

// Handshake exchanges the per-process bridge token for a session cookie.
func (a *API) Handshake(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if a.BridgeToken == "" || subtle.ConstantTimeCompare([]byte(req.Token), []byte(a.BridgeToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid bridge token"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionAuthorized, true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GithubLogin starts the OAuth flow used to authorize deploy pushes.
func (a *API) GithubLogin(c *gin.Context) {
	if a.OAuth == nil || a.OAuth.ClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub login is not configured"})
		return
	}
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(sessionOAuthState, state)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	url := a.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (a *API) AuthCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected, _ := session.Get(sessionOAuthState).(string)
	if expected == "" || c.Query("state") != expected {
		c.String(http.StatusBadRequest, "OAuth state mismatch")
		return
	}

	token, err := a.OAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	session.Delete(sessionOAuthState)
	session.Set(sessionAccessToken, token.AccessToken)
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Failed to save session")
		return
	}
	c.String(http.StatusOK, "GitHub login complete, you can close this window.")
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func githubToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionAccessToken).(string)
	return strings.TrimSpace(token)
}
