package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Config holds Cloudinary credentials plus the token key used for expiring
// delivery URLs (Cloudinary "token-based authentication").
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	AuthKey   string // hex-encoded token key from the Cloudinary console
	Folder    string
}

var overwrite = true

type cloudinaryClient struct {
	cfg      Config
	uploader *uploader.API
	http     *http.Client
}

// NewCloudinaryClient builds a Client storing artifacts as authenticated raw
// assets under cfg.Folder.
func NewCloudinaryClient(cfg Config) (Client, error) {
	c, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(c)
	if err != nil {
		return nil, err
	}
	return &cloudinaryClient{
		cfg:      cfg,
		uploader: up,
		http:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *cloudinaryClient) publicID(objectPath string) string {
	return c.cfg.Folder + "/" + strings.TrimPrefix(objectPath, "/")
}

func (c *cloudinaryClient) Upload(ctx context.Context, r io.Reader, objectPath string) error {
	_, err := c.uploader.Upload(ctx, r, uploader.UploadParams{
		PublicID:     c.publicID(objectPath),
		ResourceType: "raw",
		Type:         "authenticated",
		Overwrite:    &overwrite,
	})
	return err
}

// Exists probes the delivery URL with a short-lived token. Cloudinary's
// admin API is not needed for a yes/no answer.
func (c *cloudinaryClient) Exists(ctx context.Context, objectPath string) (bool, error) {
	url, err := c.SignedDownloadURL(ctx, objectPath, time.Minute, false)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("storage: unexpected status %d probing %s", resp.StatusCode, objectPath)
	}
}

// SignedDownloadURL builds an authenticated delivery URL carrying a
// __cld_token__ that expires after expiresIn. forceDownload adds the
// fl_attachment transformation so browsers save instead of render.
func (c *cloudinaryClient) SignedDownloadURL(_ context.Context, objectPath string, expiresIn time.Duration, forceDownload bool) (string, error) {
	if c.cfg.AuthKey == "" {
		return "", fmt.Errorf("storage: auth key not configured")
	}
	transform := ""
	if forceDownload {
		transform = "fl_attachment/"
	}
	path := fmt.Sprintf("/raw/authenticated/%sv1/%s", transform, c.publicID(objectPath))
	token, err := buildAuthToken(c.cfg.AuthKey, path, time.Now(), expiresIn)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s%s?%s", c.cfg.CloudName, path, token), nil
}

// buildAuthToken implements Cloudinary token-based authentication:
// hmac-sha256 over "st=<start>~exp=<expiry>~acl=<path>" with the hex-decoded
// account token key.
func buildAuthToken(hexKey, aclPath string, now time.Time, expiresIn time.Duration) (string, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return "", fmt.Errorf("storage: bad auth key: %w", err)
	}
	start := now.Unix()
	exp := now.Add(expiresIn).Unix()
	payload := fmt.Sprintf("st=%d~exp=%d~acl=%s", start, exp, aclPath)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	digest := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("__cld_token__=st=%d~exp=%d~acl=%s~hmac=%s", start, exp, aclPath, digest), nil
}
