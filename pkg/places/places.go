package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	defaultEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultLocation = "Ubajara,CE"
	searchRadius    = "5000"
	language        = "pt-BR"
	maxResults      = 3
)

var ErrSearchFailed = errors.New("places search failed")

type Place struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`
	OpenNow      bool    `json:"open_now"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type IPlaces interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

type Option func(*client)

func WithEndpoint(endpoint string) Option {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

func WithLocation(location string) Option {
	return func(c *client) {
		if location != "" {
			c.location = location
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

type client struct {
	apiKey   string
	endpoint string
	location string
	timeout  time.Duration
}

func New(opts ...Option) IPlaces {
	c := &client{
		apiKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		endpoint: defaultEndpoint,
		location: os.Getenv("PLACES_DEFAULT_LOCATION"),
		timeout:  10 * time.Second,
	}
	if c.location == "" {
		c.location = defaultLocation
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		OpeningHours     *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search runs a text search around the configured location and returns at
// most three places in the order the API ranked them.
func (c *client) Search(ctx context.Context, query string) ([]Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("location", c.location)
	params.Set("radius", searchRadius)
	params.Set("language", language)
	params.Set("key", c.apiKey)

	agent := fiber.Get(c.endpoint)
	agent.QueryString(params.Encode())
	agent.Timeout(c.timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, errs[0])
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("%w: http status %d", ErrSearchFailed, status)
	}

	var resp textSearchResponse
	if err := jsoniter.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	switch resp.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrSearchFailed, resp.Status, resp.ErrorMessage)
	}

	out := make([]Place, 0, maxResults)
	for _, r := range resp.Results {
		if len(out) == maxResults {
			break
		}
		p := Place{
			Name:         r.Name,
			Address:      r.FormattedAddress,
			Rating:       r.Rating,
			TotalRatings: r.UserRatingsTotal,
			Latitude:     r.Geometry.Location.Lat,
			Longitude:    r.Geometry.Location.Lng,
		}
		if r.OpeningHours != nil {
			p.OpenNow = r.OpeningHours.OpenNow
		}
		out = append(out, p)
	}

	return out, nil
}

// CacheKey normalizes query so trivially different spellings share an entry.
func CacheKey(location, query string) string {
	return "places:" + strings.ToLower(location) + ":" + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
