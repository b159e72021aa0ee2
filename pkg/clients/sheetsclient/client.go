package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	logger  *zap.Logger
}

// NewClient creates a Sheets client from an authorised OAuth config and token.
// The same token is shared with the Gmail client.
func NewClient(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, logger *zap.Logger) (*Client, error) {
	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service, logger: logger}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	c.logger.Debug("Read sheet values",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("range", sheetRange),
		zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}
