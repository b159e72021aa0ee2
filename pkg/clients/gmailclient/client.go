package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	userID  string
	sender  string
	logger  *zap.Logger

	sendMutex    sync.Mutex
	lastSendTime time.Time
}

// NewClient creates a Gmail client from an authorised OAuth config and token.
// userID defaults to "me"; sender, when set, is used as the From header.
func NewClient(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, userID, sender string, logger *zap.Logger) (*Client, error) {
	httpClient := oauthConfig.Client(ctx, token)

	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	if userID == "" {
		userID = "me"
	}

	return &Client{service: service, userID: userID, sender: sender, logger: logger}, nil
}
