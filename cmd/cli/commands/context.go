package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/clients/gmailclient"
	"github.com/coot-trips/tripsort/pkg/clients/sheetsclient"
	"github.com/coot-trips/tripsort/pkg/core/services"
	"github.com/coot-trips/tripsort/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	// Locker is nil when no redis is configured
	Locker services.RunLocker
	Logger *zap.Logger
	Ctx    context.Context

	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

func (app *AppContext) oauthClientConfig() (*config.OAuthClientConfig, error) {
	if app.oauthCfg != nil {
		return app.oauthCfg, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.oauthCfg = oauthCfg
	return oauthCfg, nil
}

// SheetsClient returns the Google Sheets client, running the OAuth flow on first use.
// Only the roster commands need it, so sorting never prompts for authorization.
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := app.oauthClientConfig()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.sheetsClient = client
	return client, nil
}

// GmailClient returns the Gmail client, sharing the sheets client's token
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}

	sheets, err := app.SheetsClient()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(app.Ctx, app.oauthCfg, sheets.Token())
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}

	app.gmailClient = client
	return client, nil
}
