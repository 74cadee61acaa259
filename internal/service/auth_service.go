package service

import (
	"errors"
	"strings"
	"time"

	"modstore/config"
	"modstore/internal/auth"
	"modstore/internal/domain"
	"modstore/internal/models"
	"modstore/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrSteamTaken     = errors.New("steam account linked to another user")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(email, username, password string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if u.PasswordHash == "" {
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

func (s *AuthService) Refresh(refreshToken string) (*models.User, string, error) {
	id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	u, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}

// LoginWithDiscord creates or finds the user for a verified Discord
// identity and returns user + tokens + isNew flag. Discord is a primary
// identity: a matching email links the accounts instead of duplicating them.
func (s *AuthService) LoginWithDiscord(discordID, email, username, avatarURL string) (*models.User, string, string, bool, error) {
	u, err := s.userRepo.GetByDiscordID(discordID)
	if err == nil {
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
		return u, access, refresh, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	existing, _ := s.userRepo.GetByEmail(email)
	if existing != nil {
		did := discordID
		existing.DiscordID = &did
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, existing.ID, existing.Email, existing.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, existing.ID)
		return existing, access, refresh, false, nil
	}
	did := discordID
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	u = &models.User{
		Email:     email,
		Username:  username,
		Role:      domain.RoleUser,
		DiscordID: &did,
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		// Username collisions from Discord display names are expected;
		// retry once with a discriminator.
		u.Username = username + "-" + discordID[:min(6, len(discordID))]
		if err := s.userRepo.Create(u); err != nil {
			return nil, "", "", false, err
		}
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, true, nil
}

// LinkSteam stores the verified Steam identity on an existing account.
// The link is informational metadata; it never grants entitlements.
func (s *AuthService) LinkSteam(userID uint, steamID, personaName, avatarURL string) (*models.User, error) {
	if other, err := s.userRepo.GetBySteamID(steamID); err == nil && other.ID != userID {
		return nil, ErrSteamTaken
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	sid := steamID
	now := time.Now()
	u.SteamID = &sid
	u.SteamUsername = personaName
	u.SteamAvatar = avatarURL
	u.SteamLinkedAt = &now
	if err := s.userRepo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) UnlinkSteam(userID uint) (*models.User, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	u.SteamID = nil
	u.SteamUsername = ""
	u.SteamAvatar = ""
	u.SteamLinkedAt = nil
	if err := s.userRepo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}
