// Package routes defines the router endpoints used by the client
package routes

import (
	"fmt"
	"net/url"
	"strings"
)

// Router base configuration
const (
	// DefaultPort is the default port of a local router
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all router endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL of the router
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Endpoint paths, relative to APIv1Prefix
const (
	// Gateway endpoints
	pathGateways          = "/gateways"
	pathConnectedGateways = "/gateways/connected"
	pathGatewayAction     = "/gateways/:uid/action"

	// Record endpoints
	pathRecordRotation = "/records/rotation"
)

// BuildURL joins the prefix and path, substitutes :params and appends the query
func BuildURL(path string, params map[string]string, queryParams url.Values) string {
	route := APIv1Prefix + path
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, url.PathEscape(value))
	}
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}
	return route
}

// GatewaysURL returns the URL listing every gateway of the enterprise
func GatewaysURL() string {
	return BuildURL(pathGateways, nil, nil)
}

// ConnectedGatewaysURL returns the URL listing the gateways currently connected to the router
func ConnectedGatewaysURL() string {
	return BuildURL(pathConnectedGateways, nil, nil)
}

// GatewayActionURL returns the URL that relays an action envelope to one gateway
func GatewayActionURL(gatewayUID string) string {
	return BuildURL(pathGatewayAction, map[string]string{"uid": gatewayUID}, nil)
}

// RecordRotationURL returns the URL registering a record for rotation tracking
func RecordRotationURL() string {
	return BuildURL(pathRecordRotation, nil, nil)
}
