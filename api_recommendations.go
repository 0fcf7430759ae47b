package foodsense

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Recommendation is a scored food suggestion.
type Recommendation struct {
	Food   Food    `json:"food"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// PersonalizedRecommendations calls GET /recommendations/personalized using
// the current user's stored preferences.
func (c *Client) PersonalizedRecommendations(ctx context.Context, limit int) ([]Recommendation, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []Recommendation
	if err := c.do(ctx, http.MethodGet, "/recommendations/personalized", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearbyRecommendations calls GET /recommendations/nearby.
func (c *Client) NearbyRecommendations(ctx context.Context, lat, lng float64, limit int) ([]Recommendation, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []Recommendation
	if err := c.do(ctx, http.MethodGet, "/recommendations/nearby", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
