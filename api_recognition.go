package foodsense

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RecognitionResult is one scored prediction for a submitted image.
type RecognitionResult struct {
	FoodID      int64   `json:"food_id"`
	FoodName    string  `json:"food_name"`
	FoodNameEn  string  `json:"food_name_en,omitempty"`
	Confidence  float64 `json:"confidence"`
	Region      string  `json:"region,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// RecognitionResponse is the service reply to an image recognition call.
type RecognitionResponse struct {
	Success       bool                `json:"success"`
	Predictions   []RecognitionResult `json:"predictions"`
	TopPrediction *RecognitionResult  `json:"top_prediction,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// RecognizeImage posts an image to POST /recognition/upload as a multipart
// form and returns the scored predictions.
func (c *Client) RecognizeImage(ctx context.Context, filename string, image io.Reader) (*RecognitionResponse, error) {
	out := &RecognitionResponse{}
	if err := c.upload(ctx, "/recognition/upload", filename, image, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CameraCapture posts a camera frame to POST /recognition/camera, with the
// same contract as RecognizeImage.
func (c *Client) CameraCapture(ctx context.Context, filename string, image io.Reader) (*RecognitionResponse, error) {
	out := &RecognitionResponse{}
	if err := c.upload(ctx, "/recognition/camera", filename, image, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecognitionRecord is one entry of the user's recognition history.
type RecognitionRecord struct {
	ID         int64      `json:"id"`
	ImageURL   string     `json:"image_url"`
	FoodID     *int64     `json:"food_id,omitempty"`
	Label      string     `json:"label,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// RecognitionHistory calls GET /recognition/history for the current user.
func (c *Client) RecognitionHistory(ctx context.Context, limit int) ([]RecognitionRecord, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []RecognitionRecord
	if err := c.do(ctx, http.MethodGet, "/recognition/history", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
