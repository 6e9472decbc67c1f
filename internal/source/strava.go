package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultStravaBaseURL  = "https://www.strava.com/api/v3"
	defaultStravaTokenURL = "https://www.strava.com/oauth/token"
	stravaPageSize        = 100
)

// StravaClient fetches activities from the activity network using a
// long-lived refresh token exchanged for a short-lived access token.
type StravaClient struct {
	clientID     string
	clientSecret string
	refreshToken string
	baseURL      string
	tokenURL     string
	call         *caller

	accessToken string
}

// NewStravaClient constructs an unauthenticated client. Authenticate must be
// called before fetching.
func NewStravaClient(clientID, clientSecret, refreshToken string, retry Retry, logger *slog.Logger) *StravaClient {
	return &StravaClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		baseURL:      defaultStravaBaseURL,
		tokenURL:     defaultStravaTokenURL,
		call:         newCaller(nil, retry, logger),
	}
}

// SetBaseURLs overrides the API and token endpoints. Used by tests.
func (c *StravaClient) SetBaseURLs(api, token string) {
	c.baseURL = api
	c.tokenURL = token
}

type stravaTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the refresh token for an access token.
func (c *StravaClient) Authenticate(ctx context.Context) error {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {c.refreshToken},
		"grant_type":    {"refresh_token"},
	}
	var tok stravaTokenResponse
	err := c.call.doJSON(ctx, http.MethodPost, c.tokenURL, nil, form.Encode(), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}, &tok)
	if err != nil {
		return fmt.Errorf("strava token refresh: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("strava token refresh: empty access token")
	}
	c.accessToken = tok.AccessToken
	return nil
}

func (c *StravaClient) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

type stravaActivityDetail struct {
	SegmentEfforts []StravaSegmentEffort `json:"segment_efforts"`
}

// FetchActivitySegments returns all segment efforts recorded on one
// activity. The detail endpoint nests them under segment_efforts.
func (c *StravaClient) FetchActivitySegments(ctx context.Context, activityID string) ([]StravaSegmentEffort, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("strava client not authenticated")
	}
	var detail stravaActivityDetail
	query := map[string]string{"include_all_efforts": "true"}
	err := c.call.getJSON(ctx, c.baseURL+"/activities/"+activityID, query, c.auth, &detail)
	if err != nil {
		return nil, fmt.Errorf("fetch activity %s segments: %w", activityID, err)
	}
	return detail.SegmentEfforts, nil
}

// FetchActivities pages through all activities after the given instant.
func (c *StravaClient) FetchActivities(ctx context.Context, after time.Time) ([]StravaActivity, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("strava client not authenticated")
	}
	var all []StravaActivity
	for page := 1; ; page++ {
		query := map[string]string{
			"after":    strconv.FormatInt(after.Unix(), 10),
			"per_page": strconv.Itoa(stravaPageSize),
			"page":     strconv.Itoa(page),
		}
		var batch []StravaActivity
		err := c.call.getJSON(ctx, c.baseURL+"/athlete/activities", query, c.auth, &batch)
		if err != nil {
			return nil, fmt.Errorf("fetch activities page %d: %w", page, err)
		}
		all = append(all, batch...)
		if len(batch) < stravaPageSize {
			return all, nil
		}
	}
}
