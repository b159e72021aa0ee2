package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OAuthClientConfig is the desktop OAuth client downloaded from the Google Cloud console
type OAuthClientConfig struct {
	Installed *OAuthClientDetails `json:"installed" validate:"required"`
}

type OAuthClientDetails struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris,omitempty"`
}

// LoadOAuthClient finds and loads oauthClient.json (or oauthClient.<env>.json)
func LoadOAuthClient(env string) (*OAuthClientConfig, error) {
	name := "oauthClient.json"
	if env != "" {
		name = fmt.Sprintf("oauthClient.%s.json", env)
	}

	path, err := findConfigFile(name)
	if err != nil {
		return nil, err
	}
	return LoadOAuthClientFromPath(path)
}

func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var cfg OAuthClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &cfg, nil
}
