// Package client provides the router client used to reach PAM gateways
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for router requests
const DefaultTimeout = 30 * time.Second

// ErrRouterFailure is returned when the router cannot be reached or reports a failure
var ErrRouterFailure = errors.New("router request failed")

// Client is the interface for the router client
type Client interface {
	// Gateway actions
	DiscoverStart(ctx context.Context, gatewayUID string, inputs actions.DiscoverStartInputs) (*actions.DiscoverStartResult, error)
	DiscoverStatus(ctx context.Context, gatewayUID string, inputs actions.DiscoverStatusInputs) (*actions.DiscoverStatusResult, error)
	DiscoverGet(ctx context.Context, gatewayUID string, inputs actions.DiscoverGetInputs) (*actions.DiscoverGetResult, error)

	// Gateway endpoints
	ListGateways(ctx context.Context) ([]types.Gateway, error)
	ConnectedGateways(ctx context.Context) ([]string, error)

	// Record endpoints
	SetRecordRotation(ctx context.Context, req RecordRotationRequest) error
}

var _ Client = &RouterClient{}

// Options contains configuration options for the router client
type Options struct {
	// BaseURL is the base URL of the router
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// AuthToken is sent as a bearer token when set
	AuthToken string
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// RouterClient implements the Client interface over HTTP
type RouterClient struct {
	baseURL   string
	timeout   time.Duration
	authToken string
}

// NewClient creates a new router client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q must include scheme and host", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &RouterClient{
		baseURL:   opts.BaseURL,
		timeout:   timeout,
		authToken: opts.AuthToken,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *RouterClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.authToken != "" {
		agent.Set("Authorization", "Bearer "+c.authToken)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// execute sends one request and unwraps the router's {status, data} reply into result.
// Nothing is retried: a failed round trip is reported to the caller as is.
func (c *RouterClient) execute(ctx context.Context, method, endpoint string, body, result interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: error sending request: %v", ErrRouterFailure, errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("%w: %w", ErrRouterFailure, &fiber.Error{
			Code:    statusCode,
			Message: string(respBody),
		})
	}

	var resp actions.Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: failed to unmarshal router response: %v", ErrRouterFailure, err)
	}

	if resp.Status != actions.StatusOK {
		if resp.Message != "" {
			return fmt.Errorf("%w: status %q: %s", ErrRouterFailure, resp.Status, resp.Message)
		}
		return fmt.Errorf("%w: status %q", ErrRouterFailure, resp.Status)
	}

	if result == nil {
		return nil
	}

	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w: response has no data", ErrRouterFailure)
	}

	if err := json.Unmarshal(resp.Data, result); err != nil {
		return fmt.Errorf("%w: failed to unmarshal response data: %v", ErrRouterFailure, err)
	}
	return nil
}

// sendAction relays an envelope to its destination gateway
func (c *RouterClient) sendAction(ctx context.Context, env *actions.Envelope, result interface{}) error {
	logger.DebugWithFields("sending gateway action", map[string]interface{}{
		"action":          env.Action.String(),
		"gateway_uid":     env.Destination,
		"conversation_id": env.ConversationID,
	})

	req := ActionRequest{
		MessageType: actions.MessageTypeGeneral,
		IsStreaming: false,
		Action:      env,
	}
	if err := c.execute(ctx, http.MethodPost, routes.GatewayActionURL(env.Destination), req, result); err != nil {
		return fmt.Errorf("%s (conversation %s): %w", env.Action, env.ConversationID, err)
	}
	return nil
}

// Gateway actions implementation

// DiscoverStart asks the gateway to start a discovery job
func (c *RouterClient) DiscoverStart(ctx context.Context, gatewayUID string, inputs actions.DiscoverStartInputs) (*actions.DiscoverStartResult, error) {
	env, err := actions.New(inputs, gatewayUID)
	if err != nil {
		return nil, err
	}
	var result actions.DiscoverStartResult
	if err := c.sendAction(ctx, env, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverStatus asks the gateway for the state of discovery jobs
func (c *RouterClient) DiscoverStatus(ctx context.Context, gatewayUID string, inputs actions.DiscoverStatusInputs) (*actions.DiscoverStatusResult, error) {
	env, err := actions.New(inputs, gatewayUID)
	if err != nil {
		return nil, err
	}
	var result actions.DiscoverStatusResult
	if err := c.sendAction(ctx, env, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverGet fetches the sealed result of a completed discovery job
func (c *RouterClient) DiscoverGet(ctx context.Context, gatewayUID string, inputs actions.DiscoverGetInputs) (*actions.DiscoverGetResult, error) {
	env, err := actions.New(inputs, gatewayUID)
	if err != nil {
		return nil, err
	}
	var result actions.DiscoverGetResult
	if err := c.sendAction(ctx, env, &result); err != nil {
		return nil, err
	}
	if result.Result == "" {
		return nil, fmt.Errorf("%s (conversation %s): %w: response has no result", env.Action, env.ConversationID, ErrRouterFailure)
	}
	return &result, nil
}

// Gateway endpoints implementation

// ListGateways retrieves every gateway of the enterprise
func (c *RouterClient) ListGateways(ctx context.Context) ([]types.Gateway, error) {
	var result GatewaysResult
	if err := c.execute(ctx, http.MethodGet, routes.GatewaysURL(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list gateways: %w", err)
	}
	return result.Gateways, nil
}

// ConnectedGateways retrieves the uids of the gateways connected to the router right now
func (c *RouterClient) ConnectedGateways(ctx context.Context) ([]string, error) {
	var result ConnectedGatewaysResult
	if err := c.execute(ctx, http.MethodGet, routes.ConnectedGatewaysURL(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list connected gateways: %w", err)
	}
	return result.ControllerUIDs, nil
}

// Record endpoints implementation

// SetRecordRotation registers a record for rotation tracking
func (c *RouterClient) SetRecordRotation(ctx context.Context, req RecordRotationRequest) error {
	if err := c.execute(ctx, http.MethodPost, routes.RecordRotationURL(), req, nil); err != nil {
		return fmt.Errorf("failed to set rotation information for record %s: %w", req.RecordUID, err)
	}
	return nil
}
