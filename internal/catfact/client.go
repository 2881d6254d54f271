// Package catfact fetches a random fact from the public cat fact API.
package catfact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/oggyb/photoshare/internal/config"
	apperr "github.com/oggyb/photoshare/internal/errors"
)

const DefaultURL = "https://catfact.ninja/fact"

// Fact is the JSON document served by the API.
type Fact struct {
	Fact   string `json:"fact"`
	Length int    `json:"length"`
}

type Client struct {
	client *resty.Client
	url    string
}

// New builds a client bounded by the configured timeout.
func New(cfg *config.Config) *Client {
	url := cfg.CatFact.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.CatFact.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{client: client, url: url}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Fetch returns one fact. Transport failures, non-2xx statuses and empty
// payloads all wrap apperr.ErrExternalService.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetResult(&Fact{}).
		Get(c.url)
	if err != nil {
		return "", fmt.Errorf("fetch cat fact: %w: %w", apperr.ErrExternalService, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("fetch cat fact: %w: status %d", apperr.ErrExternalService, res.StatusCode())
	}

	fact, ok := res.Result().(*Fact)
	if !ok || strings.TrimSpace(fact.Fact) == "" {
		return "", fmt.Errorf("fetch cat fact: %w: empty payload", apperr.ErrExternalService)
	}
	return fact.Fact, nil
}
