package mock

import (
	"context"

	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	// Function fields that can be set to mock behavior
	DiscoverStartFn     func(ctx context.Context, gatewayUID string, inputs actions.DiscoverStartInputs) (*actions.DiscoverStartResult, error)
	DiscoverStatusFn    func(ctx context.Context, gatewayUID string, inputs actions.DiscoverStatusInputs) (*actions.DiscoverStatusResult, error)
	DiscoverGetFn       func(ctx context.Context, gatewayUID string, inputs actions.DiscoverGetInputs) (*actions.DiscoverGetResult, error)
	ListGatewaysFn      func(ctx context.Context) ([]types.Gateway, error)
	ConnectedGatewaysFn func(ctx context.Context) ([]string, error)
	SetRecordRotationFn func(ctx context.Context, req client.RecordRotationRequest) error

	// Call tracking for verification
	DiscoverStartCalls []struct {
		GatewayUID string
		Inputs     actions.DiscoverStartInputs
	}
	DiscoverStatusCalls []struct {
		GatewayUID string
		Inputs     actions.DiscoverStatusInputs
	}
	DiscoverGetCalls []struct {
		GatewayUID string
		Inputs     actions.DiscoverGetInputs
	}
	ListGatewaysCalls      int
	ConnectedGatewaysCalls int
	SetRecordRotationCalls []client.RecordRotationRequest
}

// Ensure MockClient implements Client interface
var _ client.Client = (*MockClient)(nil)

// DiscoverStart implements Client
func (m *MockClient) DiscoverStart(ctx context.Context, gatewayUID string, inputs actions.DiscoverStartInputs) (*actions.DiscoverStartResult, error) {
	m.DiscoverStartCalls = append(m.DiscoverStartCalls, struct {
		GatewayUID string
		Inputs     actions.DiscoverStartInputs
	}{gatewayUID, inputs})
	if m.DiscoverStartFn != nil {
		return m.DiscoverStartFn(ctx, gatewayUID, inputs)
	}
	return &actions.DiscoverStartResult{JobID: inputs.JobID}, nil
}

// DiscoverStatus implements Client
func (m *MockClient) DiscoverStatus(ctx context.Context, gatewayUID string, inputs actions.DiscoverStatusInputs) (*actions.DiscoverStatusResult, error) {
	m.DiscoverStatusCalls = append(m.DiscoverStatusCalls, struct {
		GatewayUID string
		Inputs     actions.DiscoverStatusInputs
	}{gatewayUID, inputs})
	if m.DiscoverStatusFn != nil {
		return m.DiscoverStatusFn(ctx, gatewayUID, inputs)
	}
	return &actions.DiscoverStatusResult{JobStatus: []actions.RemoteJobStatus{}}, nil
}

// DiscoverGet implements Client
func (m *MockClient) DiscoverGet(ctx context.Context, gatewayUID string, inputs actions.DiscoverGetInputs) (*actions.DiscoverGetResult, error) {
	m.DiscoverGetCalls = append(m.DiscoverGetCalls, struct {
		GatewayUID string
		Inputs     actions.DiscoverGetInputs
	}{gatewayUID, inputs})
	if m.DiscoverGetFn != nil {
		return m.DiscoverGetFn(ctx, gatewayUID, inputs)
	}
	return nil, client.ErrRouterFailure
}

// ListGateways implements Client
func (m *MockClient) ListGateways(ctx context.Context) ([]types.Gateway, error) {
	m.ListGatewaysCalls++
	if m.ListGatewaysFn != nil {
		return m.ListGatewaysFn(ctx)
	}
	return []types.Gateway{}, nil
}

// ConnectedGateways implements Client
func (m *MockClient) ConnectedGateways(ctx context.Context) ([]string, error) {
	m.ConnectedGatewaysCalls++
	if m.ConnectedGatewaysFn != nil {
		return m.ConnectedGatewaysFn(ctx)
	}
	return []string{}, nil
}

// SetRecordRotation implements Client
func (m *MockClient) SetRecordRotation(ctx context.Context, req client.RecordRotationRequest) error {
	m.SetRecordRotationCalls = append(m.SetRecordRotationCalls, req)
	if m.SetRecordRotationFn != nil {
		return m.SetRecordRotationFn(ctx, req)
	}
	return nil
}
