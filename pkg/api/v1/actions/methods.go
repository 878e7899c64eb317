// Package actions defines the closed set of gateway actions and their envelopes
package actions

// Action names a gateway action
type Action string

// Gateway action constants
const (
	// Discovery actions
	DiscoverStart  Action = "discover-start"
	DiscoverStatus Action = "discover-status"
	DiscoverGet    Action = "discover-get"
)

// String implements fmt.Stringer
func (a Action) String() string {
	return string(a)
}

// IsScheduled reports whether the router queues the action for the gateway
// instead of delivering it only while the gateway is connected
func (a Action) IsScheduled() bool {
	switch a {
	case DiscoverStart, DiscoverStatus, DiscoverGet:
		return true
	default:
		return false
	}
}
