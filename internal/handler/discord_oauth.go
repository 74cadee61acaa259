package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"modstore/config"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type DiscordOAuthHandler struct {
	cfg     *config.Config
	authSvc *service.AuthService
}

func NewDiscordOAuthHandler(cfg *config.Config, authSvc *service.AuthService) *DiscordOAuthHandler {
	return &DiscordOAuthHandler{cfg: cfg, authSvc: authSvc}
}

func (h *DiscordOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.DiscordClientID,
		ClientSecret: h.cfg.OAuth.DiscordClientSecret,
		RedirectURL:  h.cfg.OAuth.DiscordRedirectURL,
		Scopes:       []string{"identify", "email"},
		Endpoint:     discordEndpoint,
	}
}

// Redirect sends the user to the Discord consent screen with a nonce state.
func (h *DiscordOAuthHandler) Redirect(c *gin.Context) {
	if h.cfg.OAuth.DiscordClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Discord OAuth not configured"})
		return
	}
	state := uuid.New().String()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, h.OAuth2Config().AuthCodeURL(state))
}

type discordUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Verified bool   `json:"verified"`
}

func (u discordUserInfo) avatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
}

// Callback exchanges the code, fetches the Discord profile, creates or
// links the user, and returns JWTs.
func (h *DiscordOAuthHandler) Callback(c *gin.Context) {
	if h.cfg.OAuth.DiscordClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Discord OAuth not configured"})
		return
	}
	state := c.Query("state")
	if cookie, err := c.Cookie("oauth_state"); err != nil || state == "" || cookie != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange failed"})
		return
	}
	client := conf.Client(ctx, tok)
	resp, err := client.Get("https://discord.com/api/users/@me")
	if err != nil || resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user info"})
		return
	}
	defer resp.Body.Close()
	var info discordUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user info"})
		return
	}
	if info.ID == "" || info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discord account has no verified email"})
		return
	}
	u, access, refresh, _, err := h.authSvc.LoginWithDiscord(info.ID, info.Email, info.Username, info.avatarURL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}

// Token accepts a Discord access token obtained by a native client and
// returns JWTs. The token is verified against Discord's API server-side, so
// a forged user id cannot be smuggled in.
func (h *DiscordOAuthHandler) Token(c *gin.Context) {
	if h.cfg.OAuth.DiscordClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Discord OAuth not configured"})
		return
	}
	var req struct {
		AccessToken string `json:"access_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_token required"})
		return
	}
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, "https://discord.com/api/users/@me", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token verification failed"})
		return
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token verification failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid access token"})
		return
	}
	var info discordUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid token response"})
		return
	}
	if info.ID == "" || info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token payload"})
		return
	}
	u, access, refresh, _, err := h.authSvc.LoginWithDiscord(info.ID, info.Email, info.Username, info.avatarURL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}
