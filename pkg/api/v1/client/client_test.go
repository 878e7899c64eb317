package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/routes"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Options
		wantErr bool
	}{
		{
			name:    "nil options",
			opts:    nil,
			wantErr: false,
		},
		{
			name: "valid options",
			opts: &Options{
				BaseURL: "http://example.com",
				Timeout: 10 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid base URL",
			opts: &Options{
				BaseURL: "://invalid-url",
			},
			wantErr: true,
		},
		{
			name: "missing host",
			opts: &Options{
				BaseURL: "localhost",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

// routerStub records the last action request it received and answers with a canned body
type routerStub struct {
	lastPath   string
	lastAuth   string
	lastAction map[string]json.RawMessage
	lastBody   []byte
	statusCode int
	reply      string
}

func (s *routerStub) handler(w http.ResponseWriter, r *http.Request) {
	s.lastPath = r.URL.Path
	s.lastAuth = r.Header.Get("Authorization")
	body, _ := io.ReadAll(r.Body)
	s.lastBody = body
	if len(body) > 0 {
		var req map[string]json.RawMessage
		if err := json.Unmarshal(body, &req); err == nil {
			var action map[string]json.RawMessage
			_ = json.Unmarshal(req["action"], &action)
			s.lastAction = action
		}
	}
	code := s.statusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	_, _ = w.Write([]byte(s.reply))
}

func newStubClient(t *testing.T, stub *routerStub) (*RouterClient, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(stub.handler))
	c, err := NewClient(&Options{BaseURL: server.URL, AuthToken: "session"})
	require.NoError(t, err)
	return c.(*RouterClient), server.Close
}

func TestRouterClient_DiscoverStatus(t *testing.T) {
	stub := &routerStub{
		reply: `{"status":"OK","conversationId":"abc","data":{"jobStatus":[
			{"jobId":"DIS1","status":"COMPLETE","startTs":1000,"completeTs":1060},
			{"jobId":"DIS2","status":"IN PROGRESS","startTs":1000}
		]}}`,
	}
	c, closeFn := newStubClient(t, stub)
	defer closeFn()

	result, err := c.DiscoverStatus(context.Background(), "gw1", actions.DiscoverStatusInputs{
		ConfigurationUID: "cfg1",
		JobIDs:           []string{"DIS1", "DIS2"},
	})
	require.NoError(t, err)
	require.Len(t, result.JobStatus, 2)
	assert.Equal(t, types.JobStatusComplete, result.JobStatus[0].Status)
	assert.Equal(t, 1060.0, *result.JobStatus[0].CompleteTs)
	assert.Equal(t, types.JobStatusInProgress, result.JobStatus[1].Status)
	assert.Nil(t, result.JobStatus[1].CompleteTs)

	assert.Equal(t, routes.GatewayActionURL("gw1"), stub.lastPath)
	assert.Equal(t, "Bearer session", stub.lastAuth)
	assert.JSONEq(t, `"discover-status"`, string(stub.lastAction["action"]))
	assert.JSONEq(t, `"gw1"`, string(stub.lastAction["gateway_destination"]))
	assert.JSONEq(t, `true`, string(stub.lastAction["is_scheduled"]))
	assert.JSONEq(t, `{"configurationUid":"cfg1","jobIds":["DIS1","DIS2"]}`, string(stub.lastAction["inputs"]))
	assert.NotEmpty(t, stub.lastAction["conversationId"])

	var req ActionRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &req))
	assert.Equal(t, actions.MessageTypeGeneral, req.MessageType)
	assert.False(t, req.IsStreaming)
}

func TestRouterClient_DiscoverStart(t *testing.T) {
	stub := &routerStub{reply: `{"status":"OK","data":{"jobId":"DIS1","status":"QUEUED"}}`}
	c, closeFn := newStubClient(t, stub)
	defer closeFn()

	result, err := c.DiscoverStart(context.Background(), "gw1", actions.DiscoverStartInputs{
		ConfigurationUID: "cfg1",
		JobID:            "DIS1",
	})
	require.NoError(t, err)
	assert.Equal(t, "DIS1", result.JobID)

	t.Run("invalid inputs are rejected before sending", func(t *testing.T) {
		stub.lastPath = ""
		_, err := c.DiscoverStart(context.Background(), "gw1", actions.DiscoverStartInputs{ConfigurationUID: "cfg1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, actions.ErrInvalidInputs))
		assert.Empty(t, stub.lastPath)
	})
}

func TestRouterClient_DiscoverGet(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		stub := &routerStub{reply: `{"status":"OK","data":{"result":"sealed"}}`}
		c, closeFn := newStubClient(t, stub)
		defer closeFn()

		result, err := c.DiscoverGet(context.Background(), "gw1", actions.DiscoverGetInputs{ConfigurationUID: "cfg1", JobID: "DIS1"})
		require.NoError(t, err)
		assert.Equal(t, "sealed", result.Result)
	})

	t.Run("empty result", func(t *testing.T) {
		stub := &routerStub{reply: `{"status":"OK","data":{}}`}
		c, closeFn := newStubClient(t, stub)
		defer closeFn()

		_, err := c.DiscoverGet(context.Background(), "gw1", actions.DiscoverGetInputs{ConfigurationUID: "cfg1", JobID: "DIS1"})
		assert.True(t, errors.Is(err, ErrRouterFailure))
	})
}

func TestRouterClient_Failures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		reply      string
		checkFiber bool
	}{
		{
			name:       "http error",
			statusCode: http.StatusBadGateway,
			reply:      `gateway offline`,
			checkFiber: true,
		},
		{
			name:  "non ok status",
			reply: `{"status":"ERROR","message":"gateway is not connected"}`,
		},
		{
			name:  "missing data",
			reply: `{"status":"OK"}`,
		},
		{
			name:  "invalid json",
			reply: `{invalid json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &routerStub{statusCode: tt.statusCode, reply: tt.reply}
			c, closeFn := newStubClient(t, stub)
			defer closeFn()

			_, err := c.DiscoverStatus(context.Background(), "gw1", actions.DiscoverStatusInputs{
				ConfigurationUID: "cfg1",
				JobIDs:           []string{},
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRouterFailure))

			if tt.checkFiber {
				var fiberErr *fiber.Error
				require.True(t, errors.As(err, &fiberErr))
				assert.Equal(t, http.StatusBadGateway, fiberErr.Code)
			}
		})
	}
}

func TestRouterClient_Gateways(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		stub := &routerStub{reply: `{"status":"OK","data":{"gateways":[
			{"controllerUid":"gw1","controllerName":"Lab","applicationUid":"app1"}
		]}}`}
		c, closeFn := newStubClient(t, stub)
		defer closeFn()

		gateways, err := c.ListGateways(context.Background())
		require.NoError(t, err)
		require.Len(t, gateways, 1)
		assert.Equal(t, "Lab", gateways[0].ControllerName)
		assert.Equal(t, routes.GatewaysURL(), stub.lastPath)
	})

	t.Run("connected", func(t *testing.T) {
		stub := &routerStub{reply: `{"status":"OK","data":{"controllerUids":["gw1","gw2"]}}`}
		c, closeFn := newStubClient(t, stub)
		defer closeFn()

		uids, err := c.ConnectedGateways(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gw1", "gw2"}, uids)
		assert.Equal(t, routes.ConnectedGatewaysURL(), stub.lastPath)
	})
}

func TestRouterClient_SetRecordRotation(t *testing.T) {
	stub := &routerStub{reply: `{"status":"OK"}`}
	c, closeFn := newStubClient(t, stub)
	defer closeFn()

	resource := "machine1"
	err := c.SetRecordRotation(context.Background(), RecordRotationRequest{
		RecordUID:        "rec1",
		ConfigurationUID: "cfg1",
		ResourceUID:      &resource,
	})
	require.NoError(t, err)
	assert.Equal(t, routes.RecordRotationURL(), stub.lastPath)
	assert.JSONEq(t, `{"recordUid":"rec1","revision":0,"configurationUid":"cfg1","resourceUid":"machine1","schedule":""}`, string(stub.lastBody))
}
