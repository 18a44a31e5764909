package explainer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

// Client for the explanation generator microservice.
// The service turns a ranked plan into free-text prose; the pipeline
// treats it as an opaque black box and proceeds without it on failure.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// ServiceResponse is the standard response format
type ServiceResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *string         `json:"error"`
	Timestamp string          `json:"timestamp"`
}

// ExplainRequest carries everything the generator needs about one plan
type ExplainRequest struct {
	Plan           catalog.Plan           `json:"plan"`
	Rank           int                    `json:"rank"`
	CompositeScore float64                `json:"composite_score"`
	AnnualSavings  float64                `json:"annual_savings"`
	Profile        usage.UsageProfile     `json:"profile"`
	Preferences    domain.UserPreferences `json:"preferences"`
}

// Explanation is the generated prose for one recommended plan
type Explanation struct {
	Summary         string   `json:"summary"`
	Differentiators []string `json:"differentiators"`
	TradeOffs       []string `json:"trade_offs"`
}

// NewClient creates a new explanation service client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "explainer").Logger(),
	}
}

// Explain requests prose for one ranked plan
func (c *Client) Explain(req ExplainRequest) (*Explanation, error) {
	resp, err := c.post("/api/explain", req)
	if err != nil {
		return nil, err
	}

	var explanation Explanation
	if err := json.Unmarshal(resp.Data, &explanation); err != nil {
		return nil, fmt.Errorf("failed to parse explanation: %w", err)
	}

	return &explanation, nil
}

// HealthCheck verifies the service is reachable
func (c *Client) HealthCheck() error {
	_, err := c.get("/health")
	return err
}

// post makes a POST request to the microservice
func (c *Client) post(endpoint string, request interface{}) (*ServiceResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + endpoint
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return c.parseResponse(resp)
}

// get makes a GET request to the microservice
func (c *Client) get(endpoint string) (*ServiceResponse, error) {
	url := c.baseURL + endpoint
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return c.parseResponse(resp)
}

// parseResponse parses the service response
func (c *Client) parseResponse(resp *http.Response) (*ServiceResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result ServiceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		errMsg := "unknown error"
		if result.Error != nil {
			errMsg = *result.Error
		}
		return &result, fmt.Errorf("explainer service error: %s", errMsg)
	}

	return &result, nil
}
