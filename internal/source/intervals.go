package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

const defaultIntervalsBaseURL = "https://intervals.icu/api/v1"

// IntervalsClient fetches activities, wellness, and the athlete profile from
// the interval-training analytics platform. Authentication is HTTP basic
// with the literal user "API_KEY".
type IntervalsClient struct {
	athleteID string
	apiKey    string
	baseURL   string
	call      *caller
}

// NewIntervalsClient constructs a client for one athlete.
func NewIntervalsClient(athleteID, apiKey string, retry Retry, logger *slog.Logger) *IntervalsClient {
	return &IntervalsClient{
		athleteID: athleteID,
		apiKey:    apiKey,
		baseURL:   defaultIntervalsBaseURL,
		call:      newCaller(nil, retry, logger),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *IntervalsClient) SetBaseURL(u string) { c.baseURL = u }

func (c *IntervalsClient) auth(req *http.Request) {
	req.SetBasicAuth("API_KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// FetchActivities returns raw activity records for the date window, stub
// records included: the merger needs them to build the covered set.
func (c *IntervalsClient) FetchActivities(ctx context.Context, oldest, newest string) ([]IntervalsActivity, error) {
	url := fmt.Sprintf("%s/athlete/%s/activities", c.baseURL, c.athleteID)
	var out []IntervalsActivity
	err := c.call.getJSON(ctx, url, map[string]string{"oldest": oldest, "newest": newest}, c.auth, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	return out, nil
}

// FetchWellness returns raw daily wellness records for the date window.
func (c *IntervalsClient) FetchWellness(ctx context.Context, oldest, newest string) ([]IntervalsWellness, error) {
	url := fmt.Sprintf("%s/athlete/%s/wellness", c.baseURL, c.athleteID)
	var out []IntervalsWellness
	err := c.call.getJSON(ctx, url, map[string]string{"oldest": oldest, "newest": newest}, c.auth, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch wellness: %w", err)
	}
	return out, nil
}

// FetchAthlete returns the athlete profile.
func (c *IntervalsClient) FetchAthlete(ctx context.Context) (IntervalsAthlete, error) {
	url := fmt.Sprintf("%s/athlete/%s", c.baseURL, c.athleteID)
	var out IntervalsAthlete
	if err := c.call.getJSON(ctx, url, nil, c.auth, &out); err != nil {
		return IntervalsAthlete{}, fmt.Errorf("fetch athlete: %w", err)
	}
	return out, nil
}
