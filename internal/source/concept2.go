package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultConcept2BaseURL = "https://log.concept2.com/api"

// Concept2Client fetches rowing workouts from the ergometer logbook. Tokens
// are obtained with the password grant and refreshed when they expire.
type Concept2Client struct {
	username string
	password string
	baseURL  string
	call     *caller

	accessToken string
	tokenExpiry time.Time
}

// NewConcept2Client constructs a client for one logbook account.
func NewConcept2Client(username, password string, retry Retry, logger *slog.Logger) *Concept2Client {
	return &Concept2Client{
		username: username,
		password: password,
		baseURL:  defaultConcept2BaseURL,
		call:     newCaller(nil, retry, logger),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Concept2Client) SetBaseURL(u string) { c.baseURL = u }

type concept2TokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   float64 `json:"expires_in"`
}

// Authenticate obtains an access token with the password grant.
func (c *Concept2Client) Authenticate(ctx context.Context) error {
	form := url.Values{
		"username":   {c.username},
		"password":   {c.password},
		"grant_type": {"password"},
	}
	var tok concept2TokenResponse
	err := c.call.doJSON(ctx, http.MethodPost, c.baseURL+"/auth/token", nil, form.Encode(), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}, &tok)
	if err != nil {
		return fmt.Errorf("concept2 auth: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("concept2 auth: empty access token")
	}
	expires := tok.ExpiresIn
	if expires <= 0 {
		expires = 3600
	}
	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(expires) * time.Second)
	return nil
}

func (c *Concept2Client) ensureToken(ctx context.Context) error {
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}
	return c.Authenticate(ctx)
}

func (c *Concept2Client) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

type concept2ResultsPage struct {
	Data []Concept2Result `json:"data"`
}

// FetchResults returns the raw workouts in the date window.
func (c *Concept2Client) FetchResults(ctx context.Context, from, to string) ([]Concept2Result, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}
	var page concept2ResultsPage
	query := map[string]string{"from": from, "to": to}
	err := c.call.getJSON(ctx, c.baseURL+"/users/me/results", query, c.auth, &page)
	if err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}
	return page.Data, nil
}
