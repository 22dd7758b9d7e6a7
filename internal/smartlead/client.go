// Package smartlead is a client for the campaign platform's internal REST and
// GraphQL APIs. It covers the calls the operator tools need: listing
// campaigns, reading and writing sequence steps, and campaign settings.
package smartlead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/campctl/internal/campaign"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL    = "https://server.smartlead.ai/api/v1"
	DefaultGraphQLURL = "https://fe-gql.smartlead.ai/v1/graphql"
	DefaultTimeout    = 30 * time.Second
	maxRetryLimit     = 5
)

// ErrMissingToken is returned when the client is built without an API token
var ErrMissingToken = errors.New("missing platform API token")

// Config holds the connection settings for the platform
type Config struct {
	BaseURL    string
	GraphQLURL string
	APIToken   string
	Timeout    time.Duration
	MaxRetries int

	// base wait between retries; resty backs off exponentially from it
	RetryWait time.Duration
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request and retry logging
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// Client talks to the platform
type Client struct {
	restyCli   *resty.Client
	graphqlURL string
	logger     *slog.Logger
}

// NewClient creates a client from cfg. Empty URLs and timeouts fall back to
// the defaults; an empty token is an error.
func NewClient(cfg Config, options ...Option) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrMissingToken
	}

	opts := &clientOptions{}
	for _, option := range options {
		option(opts)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	graphqlURL := cfg.GraphQLURL
	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := min(max(cfg.MaxRetries, 0), maxRetryLimit)

	var restyCli *resty.Client
	if opts.httpClient != nil {
		restyCli = resty.NewWithClient(opts.httpClient)
	} else {
		restyCli = resty.New()
	}

	restyCli.SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetAuthToken(cfg.APIToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(retries).
		AddRetryCondition(retryCondition(opts.logger))

	if cfg.RetryWait > 0 {
		restyCli.SetRetryWaitTime(cfg.RetryWait).
			SetRetryMaxWaitTime(cfg.RetryWait * 10)
	}

	if opts.logger != nil {
		restyCli.SetLogger(newRestyLogger(opts.logger))
	}

	return &Client{
		restyCli:   restyCli,
		graphqlURL: graphqlURL,
		logger:     opts.logger,
	}, nil
}

// errorBody is the platform's JSON error envelope
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIError is a failed platform call
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Email Server Error with %s - %s : %s", e.Endpoint, e.Message, e.Detail)
}

func newAPIError(endpoint string, rsp *resty.Response) *APIError {
	apiErr := &APIError{Endpoint: endpoint, StatusCode: rsp.StatusCode()}
	if body, ok := rsp.Error().(*errorBody); ok && body != nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Detail = body.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(rsp.String())
	if apiErr.Message == "" {
		apiErr.Message = rsp.Status()
	}
	return apiErr
}

// ListCampaigns returns every campaign visible to the token
func (c *Client) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	const endpoint = "campaigns"

	var campaigns []campaign.Campaign
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&campaigns).
		SetError(&errorBody{}).
		Get("/campaigns")
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	logResponse(c.logger, endpoint, rsp)

	if rsp.IsError() {
		return nil, newAPIError(endpoint, rsp)
	}
	return campaigns, nil
}

// GetCampaignSequences returns the sequence steps of a campaign, with variants
func (c *Client) GetCampaignSequences(ctx context.Context, campaignID int64) ([]campaign.Sequence, error) {
	if campaignID <= 0 {
		return nil, errors.New("'campaignID' is required")
	}
	endpoint := fmt.Sprintf("campaigns/%d/sequences", campaignID)

	var sequences []campaign.Sequence
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetResult(&sequences).
		SetError(&errorBody{}).
		SetPathParam("campaignID", strconv.FormatInt(campaignID, 10)).
		Get("/campaigns/{campaignID}/sequences")
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign sequences: %w", err)
	}
	logResponse(c.logger, endpoint, rsp)

	if rsp.IsError() {
		return nil, newAPIError(endpoint, rsp)
	}
	return sequences, nil
}

type saveSequencesRequest struct {
	Sequences []campaign.SequenceInput `json:"sequences"`
}

// SaveResponse is the platform's acknowledgement of a sequence write
type SaveResponse struct {
	OK   bool   `json:"ok"`
	Data string `json:"data,omitempty"`
}

// SaveSequences writes sequence steps to a campaign. Inputs with an ID
// overwrite the existing step, inputs without one create a new step.
func (c *Client) SaveSequences(ctx context.Context, campaignID int64, inputs []campaign.SequenceInput) (*SaveResponse, error) {
	if campaignID <= 0 {
		return nil, errors.New("'campaignID' is required")
	}
	if len(inputs) == 0 {
		return nil, errors.New("at least one sequence is required")
	}
	endpoint := fmt.Sprintf("campaigns/%d/sequences", campaignID)

	if c.logger != nil {
		c.logger.Debug("Saving campaign sequences", "campaign_id", campaignID, "sequence_count", len(inputs))
	}

	var saved SaveResponse
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetBody(saveSequencesRequest{Sequences: inputs}).
		SetResult(&saved).
		SetError(&errorBody{}).
		SetPathParam("campaignID", strconv.FormatInt(campaignID, 10)).
		Post("/campaigns/{campaignID}/sequences")
	if err != nil {
		return nil, fmt.Errorf("failed to save campaign sequences: %w", err)
	}
	logResponse(c.logger, endpoint, rsp)

	if rsp.IsError() {
		return nil, newAPIError(endpoint, rsp)
	}
	return &saved, nil
}
