// Package ghapp authenticates as a GitHub App and produces installation
// scoped clients for reading catalog repositories.
package ghapp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v80/github"
)

// appJWTLifetime is the validity of the app-level JWT. GitHub caps this
// at 10 minutes.
const appJWTLifetime = 9 * time.Minute

type appTransport struct {
	appID      int64
	privateKey any
	base       http.RoundTripper
}

func (t *appTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		// allow for clock drift between us and GitHub
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
		Issuer:    strconv.FormatInt(t.appID, 10),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.privateKey)
	if err != nil {
		return nil, fmt.Errorf("signing app jwt: %w", err)
	}

	req := r.Clone(r.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(req)
}

// NewClient returns a client authenticated as the GitHub App itself.
// serverURL is only required for GitHub Enterprise instances.
func NewClient(appID int64, privateKeyPEM []byte, serverURL string) (*github.Client, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}

	httpClient := &http.Client{
		Transport: &appTransport{
			appID:      appID,
			privateKey: key,
			base:       http.DefaultTransport,
		},
	}

	client := github.NewClient(httpClient)
	if serverURL != "" {
		client, err = client.WithEnterpriseURLs(serverURL, serverURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise urls: %w", err)
		}
	}
	return client, nil
}

// InstallationTokenClient exchanges the app identity for a short-lived
// installation token and returns a client authenticated with it.
func InstallationTokenClient(ctx context.Context, appClient *github.Client, installationID int64) (*github.Client, error) {
	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("creating installation token: %w", err)
	}

	client := github.NewClient(nil).WithAuthToken(token.GetToken())
	if base := appClient.BaseURL.String(); base != "https://api.github.com/" {
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise urls: %w", err)
		}
	}
	return client, nil
}
