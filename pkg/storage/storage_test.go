package storage

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestBuildAuthToken(t *testing.T) {
	now := time.Unix(1700000000, 0)
	token, err := buildAuthToken("404142434445464748494a4b4c4d4e4f", "/raw/authenticated/v1/mods/weather-system/weather-system-latest.zip", now, 300*time.Second)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(token, "__cld_token__=st=1700000000~exp=1700000300~acl=") {
		t.Errorf("token %q has wrong window", token)
	}
	if !strings.Contains(token, "~hmac=") {
		t.Errorf("token %q missing hmac", token)
	}
	// Deterministic for fixed inputs.
	again, err := buildAuthToken("404142434445464748494a4b4c4d4e4f", "/raw/authenticated/v1/mods/weather-system/weather-system-latest.zip", now, 300*time.Second)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if token != again {
		t.Error("token generation is not deterministic")
	}
}

func TestBuildAuthToken_BadKey(t *testing.T) {
	if _, err := buildAuthToken("not-hex", "/raw/authenticated/v1/x", time.Now(), time.Minute); err == nil {
		t.Error("expected error for non-hex key")
	}
}

func TestCloudinarySignedURLShape(t *testing.T) {
	c := &cloudinaryClient{cfg: Config{
		CloudName: "demo",
		AuthKey:   "404142434445464748494a4b4c4d4e4f",
		Folder:    "mods",
	}}
	signed, err := c.SignedDownloadURL(context.Background(), "weather-system/weather-system-latest.zip", 300*time.Second, true)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.HasPrefix(signed, "https://res.cloudinary.com/demo/raw/authenticated/fl_attachment/v1/mods/weather-system/weather-system-latest.zip?__cld_token__=") {
		t.Errorf("unexpected URL shape: %q", signed)
	}
	// Without forced download there is no attachment transformation.
	plain, err := c.SignedDownloadURL(context.Background(), "weather-system/weather-system-latest.zip", 300*time.Second, false)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Contains(plain, "fl_attachment") {
		t.Errorf("URL %q should not force download", plain)
	}
}

func TestCloudinarySignedURL_RequiresAuthKey(t *testing.T) {
	c := &cloudinaryClient{cfg: Config{CloudName: "demo", Folder: "mods"}}
	if _, err := c.SignedDownloadURL(context.Background(), "x/y.zip", time.Minute, true); err == nil {
		t.Error("expected error without auth key")
	}
}

func TestMemoryClient(t *testing.T) {
	m := NewMemoryClient()
	ctx := context.Background()

	ok, err := m.Exists(ctx, "weather-system/weather-system-latest.zip")
	if err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := m.Upload(ctx, strings.NewReader("zip"), "weather-system/weather-system-latest.zip"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	ok, err = m.Exists(ctx, "weather-system/weather-system-latest.zip")
	if err != nil || !ok {
		t.Fatalf("after upload: ok=%v err=%v", ok, err)
	}

	signed, err := m.SignedDownloadURL(ctx, "weather-system/weather-system-latest.zip", 300*time.Second, true)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse %q: %v", signed, err)
	}
	exp, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	if err != nil {
		t.Fatalf("expires: %v", err)
	}
	if remaining := time.Until(time.Unix(exp, 0)); remaining > 300*time.Second || remaining <= 0 {
		t.Errorf("expiry window %v", remaining)
	}
}
