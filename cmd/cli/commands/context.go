package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/gateway-to-service/internal/config"
	"github.com/jakechorley/gateway-to-service/pkg/clients/gmailclient"
	"github.com/jakechorley/gateway-to-service/pkg/clients/sheetsclient"
	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/core/schedule"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
	"github.com/jakechorley/gateway-to-service/pkg/db"
	"github.com/jakechorley/gateway-to-service/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Engine   *roster.Engine
	Schedule *schedule.Schedule
	Logger   *zap.Logger
	Ctx      context.Context

	// Stdin is shared by confirmations and the interactive session
	Stdin *bufio.Reader

	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// oauth returns an authorised config and token, running the consent flow the first time
func (app *AppContext) oauth() (*oauth2.Config, *oauth2.Token, error) {
	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient(app.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, nil, err
	}

	token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, app.Env, app.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authorise: %w", err)
	}
	return oauthConfig, token, nil
}

// SheetsClient returns the Sheets client, creating it on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthConfig, token, err := app.oauth()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	app.sheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthConfig, token, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return app.sheetsClient, nil
}

// GmailClient returns the Gmail client, creating it on first use
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}
	if app.Cfg.Gmail == nil {
		return nil, fmt.Errorf("gmail is not configured")
	}

	oauthConfig, token, err := app.oauth()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	app.gmailClient, err = gmailclient.NewClient(app.Ctx, oauthConfig, token, app.Cfg.Gmail.UserID, app.Cfg.Gmail.Sender, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return app.gmailClient, nil
}

// meetingDate parses value, or returns the next meeting date when it is empty
func (app *AppContext) meetingDate(value string) (model.Date, error) {
	if value == "" {
		date := app.Schedule.NextMeetingDate(time.Now())
		if date.IsZero() {
			return "", fmt.Errorf("the meeting schedule has no upcoming dates; pass --date")
		}
		return date, nil
	}
	date, err := model.ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return date, nil
}

// confirm returns a prompt that accepts everything when yes is set and asks on
// stdin otherwise
func (app *AppContext) confirm(yes bool) services.ConfirmFunc {
	return func(prompt string) bool {
		if yes {
			return true
		}
		return askYesNo(app.stdin(), os.Stdout, prompt)
	}
}

func (app *AppContext) stdin() *bufio.Reader {
	if app.Stdin == nil {
		app.Stdin = bufio.NewReader(os.Stdin)
	}
	return app.Stdin
}

func askYesNo(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
