package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/coot-trips/tripsort/internal/config"
)

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	store := &TokenStore{dir: filepath.Join(t.TempDir(), "tokens")}

	token, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	saved := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save("test", saved))

	info, err := os.Stat(store.path("test"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, saved.Expiry.Equal(loaded.Expiry))

	// Tokens are per environment
	other, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"))

	token, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_LoadCorrupt(t *testing.T) {
	store := &TokenStore{dir: t.TempDir()}
	require.NoError(t, os.WriteFile(store.path("test"), []byte("{not json"), 0o600))

	_, err := store.Load("test")
	assert.ErrorContains(t, err, "failed to parse token file")
}

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, missingScopes("openid "+ScopeGmailSend+" "+ScopeSheets))
	assert.Equal(t, []string{ScopeGmailSend}, missingScopes("openid "+ScopeSheets))
	assert.Equal(t, []string{ScopeSheets, ScopeGmailSend}, missingScopes(""))
}

func TestGetOAuthConfig(t *testing.T) {
	oauthCfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client",
			ProjectID:               "tripsort",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	cfg, err := GetOAuthConfig(oauthCfg)
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.ClientID)
	assert.Equal(t, []string{ScopeSheets, ScopeGmailSend}, cfg.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
}
