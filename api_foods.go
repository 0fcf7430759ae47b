package foodsense

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Food is the catalogue entry returned by the food endpoints.
type Food struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	NameEn       string   `json:"name_en,omitempty"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Region       string   `json:"region,omitempty"`
	FoodType     string   `json:"food_type,omitempty"`
	Category     string   `json:"category,omitempty"`
	SpicyLevel   int      `json:"spicy_level"`
	IsVegetarian bool     `json:"is_vegetarian"`
	IsVegan      bool     `json:"is_vegan"`
	Calories     float64  `json:"calories,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Images       []string `json:"images,omitempty"`
	ViewCount    int64    `json:"view_count"`
}

// FoodSearchParams filters GET /foods.
type FoodSearchParams struct {
	Query        string
	Region       string
	FoodType     string
	MaxSpicy     *int
	IsVegetarian *bool
	Limit        int
	Offset       int
}

func (p FoodSearchParams) values() url.Values {
	q := url.Values{}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Region != "" {
		q.Set("region", p.Region)
	}
	if p.FoodType != "" {
		q.Set("food_type", p.FoodType)
	}
	if p.MaxSpicy != nil {
		q.Set("max_spicy", strconv.Itoa(*p.MaxSpicy))
	}
	if p.IsVegetarian != nil {
		q.Set("is_vegetarian", strconv.FormatBool(*p.IsVegetarian))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	return q
}

// SearchFoods calls GET /foods.
func (c *Client) SearchFoods(ctx context.Context, params FoodSearchParams) ([]Food, error) {
	var out []Food
	if err := c.do(ctx, http.MethodGet, "/foods", params.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Food calls GET /foods/{id}.
func (c *Client) Food(ctx context.Context, id int64) (*Food, error) {
	out := &Food{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/foods/%d", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FoodBySlug calls GET /foods/slug/{slug}.
func (c *Client) FoodBySlug(ctx context.Context, slug string) (*Food, error) {
	out := &Food{}
	if err := c.do(ctx, http.MethodGet, "/foods/slug/"+url.PathEscape(slug), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularFoods calls GET /foods/popular.
func (c *Client) PopularFoods(ctx context.Context, limit int) ([]Food, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []Food
	if err := c.do(ctx, http.MethodGet, "/foods/popular", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
