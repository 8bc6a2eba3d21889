// Package api implements the client for the generative-language streaming
// API.
package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Client talks to the generative-language REST API. The zero timeout
// default means an open stream runs until the service closes it; callers
// that want a bound pass WithTimeout or a context deadline.
type Client struct {
	httpClient        *http.Client
	apiKey            string
	baseURL           string
	model             models.Model
	systemInstruction string
	temperature       float64
	timeout           time.Duration
	mu                sync.RWMutex
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the model used for requests
func WithModel(model models.Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint. Tests point this at a local
// server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSystemInstruction sets the persona text sent with every request
func WithSystemInstruction(instruction string) ClientOption {
	return func(c *Client) {
		c.systemInstruction = instruction
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithTimeout bounds each request including the whole streamed read
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.ErrMissingAPIKey
	}

	client := &Client{
		apiKey:            apiKey,
		baseURL:           models.DefaultBaseURL,
		model:             models.DefaultModel,
		systemInstruction: models.DefaultSystemInstruction,
		temperature:       models.DefaultTemperature,
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}

	return client, nil
}

// Model returns the model used for requests
func (c *Client) Model() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the model used for subsequent requests
func (c *Client) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// SystemInstruction returns the persona text sent with every request
func (c *Client) SystemInstruction() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.systemInstruction
}

// SetSystemInstruction changes the persona for subsequent requests.
// Callers switch personas between conversations, not mid-exchange.
func (c *Client) SetSystemInstruction(instruction string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systemInstruction = instruction
}

// Temperature returns the sampling temperature
func (c *Client) Temperature() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.temperature
}
