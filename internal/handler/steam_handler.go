package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"modstore/config"
	"modstore/internal/middleware"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
)

const steamOpenIDURL = "https://steamcommunity.com/openid/login"

// SteamHandler implements the link-only Steam flow: a signed-in user
// attaches their Steam identity as account metadata. Nothing downstream
// authorizes against it.
type SteamHandler struct {
	cfg     *config.Config
	authSvc *service.AuthService
	http    *http.Client
}

func NewSteamHandler(cfg *config.Config, authSvc *service.AuthService) *SteamHandler {
	return &SteamHandler{cfg: cfg, authSvc: authSvc, http: http.DefaultClient}
}

// Link redirects the signed-in user to Steam's OpenID endpoint. The access
// token rides along in return_to so the callback can identify the account;
// the callback re-validates it like any other credential.
func (h *SteamHandler) Link(c *gin.Context) {
	token, _ := c.Get("access_token")
	returnTo := h.cfg.Steam.ReturnURL + "?token=" + url.QueryEscape(token.(string))
	params := url.Values{
		"openid.ns":         {"http://specs.openid.net/auth/2.0"},
		"openid.mode":       {"checkid_setup"},
		"openid.return_to":  {returnTo},
		"openid.realm":      {h.cfg.Steam.RealmURL},
		"openid.identity":   {"http://specs.openid.net/auth/2.0/identifier_select"},
		"openid.claimed_id": {"http://specs.openid.net/auth/2.0/identifier_select"},
	}
	c.Redirect(http.StatusFound, steamOpenIDURL+"?"+params.Encode())
}

// Callback verifies the OpenID assertion with Steam, fetches the persona,
// and stores the link. Browser-facing: failures land back on the account
// page with an error code.
func (h *SteamHandler) Callback(c *gin.Context) {
	accountURL := h.cfg.Frontend.BaseURL + h.cfg.Frontend.AccountPath
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.Redirect(http.StatusFound, h.cfg.Frontend.BaseURL+h.cfg.Frontend.SignInPath+"?callbackUrl="+url.QueryEscape(h.cfg.Frontend.AccountPath))
		return
	}
	claimedID := c.Query("openid.claimed_id")
	if claimedID == "" {
		c.Redirect(http.StatusFound, accountURL+"?error=steam_auth_failed")
		return
	}
	if !h.verifyAssertion(c) {
		log.Printf("steam link: assertion rejected for user %d", claims.UserID)
		c.Redirect(http.StatusFound, accountURL+"?error=steam_auth_failed")
		return
	}
	steamID := claimedID[strings.LastIndex(claimedID, "/")+1:]
	if steamID == "" {
		c.Redirect(http.StatusFound, accountURL+"?error=invalid_steam_id")
		return
	}
	persona, avatar, err := h.fetchPersona(steamID)
	if err != nil {
		log.Printf("steam link: profile fetch for %s: %v", steamID, err)
		c.Redirect(http.StatusFound, accountURL+"?error=steam_profile_not_found")
		return
	}
	if _, err := h.authSvc.LinkSteam(claims.UserID, steamID, persona, avatar); err != nil {
		if errors.Is(err, service.ErrSteamTaken) {
			c.Redirect(http.StatusFound, accountURL+"?error=steam_already_linked")
			return
		}
		log.Printf("steam link: user %d: %v", claims.UserID, err)
		c.Redirect(http.StatusFound, accountURL+"?error=steam_link_failed")
		return
	}
	c.Redirect(http.StatusFound, accountURL+"?steam=linked")
}

func (h *SteamHandler) Unlink(c *gin.Context) {
	u, err := h.authSvc.UnlinkSteam(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlink steam account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// verifyAssertion replays the OpenID response to Steam with
// mode=check_authentication. Trusting the claimed_id without this step
// would let anyone forge a link.
func (h *SteamHandler) verifyAssertion(c *gin.Context) bool {
	form := url.Values{}
	for key, vals := range c.Request.URL.Query() {
		if strings.HasPrefix(key, "openid.") && len(vals) > 0 {
			form.Set(key, vals[0])
		}
	}
	form.Set("openid.mode", "check_authentication")
	resp, err := h.http.PostForm(steamOpenIDURL, form)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return strings.Contains(string(body), "is_valid:true")
}

func (h *SteamHandler) fetchPersona(steamID string) (name, avatar string, err error) {
	if h.cfg.Steam.APIKey == "" {
		return "", "", fmt.Errorf("steam api key not configured")
	}
	apiURL := fmt.Sprintf("https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
		h.cfg.Steam.APIKey, url.QueryEscape(steamID))
	resp, err := h.http.Get(apiURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("steam api status %d", resp.StatusCode)
	}
	var payload struct {
		Response struct {
			Players []struct {
				PersonaName string `json:"personaname"`
				AvatarFull  string `json:"avatarfull"`
			} `json:"players"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", err
	}
	if len(payload.Response.Players) == 0 {
		return "", "", fmt.Errorf("no player data for %s", steamID)
	}
	p := payload.Response.Players[0]
	return p.PersonaName, p.AvatarFull, nil
}
