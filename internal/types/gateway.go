package types

import (
	"strings"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// pamResourcesFieldType is the field type that binds a configuration to its gateway and folder
const pamResourcesFieldType = "pamResources"

// Gateway describes a gateway as the router lists it
type Gateway struct {
	ControllerUID  string `json:"controllerUid"`
	ControllerName string `json:"controllerName"`
	ApplicationUID string `json:"applicationUid"`
}

// Matches reports whether id is the gateway uid or, case-insensitively, its name
func (g Gateway) Matches(id string) bool {
	return g.ControllerUID == id || strings.EqualFold(g.ControllerName, id)
}

// ConfigurationFacade reads the gateway binding out of a PAM configuration record
type ConfigurationFacade struct {
	record *models.Record
}

// NewConfigurationFacade wraps a configuration record
func NewConfigurationFacade(record *models.Record) *ConfigurationFacade {
	return &ConfigurationFacade{record: record}
}

func (f *ConfigurationFacade) resources() map[string]interface{} {
	if f.record == nil {
		return nil
	}
	field := f.record.FieldByType(pamResourcesFieldType)
	if field == nil {
		return nil
	}
	v, ok := field.FirstValue()
	if !ok {
		return nil
	}
	m, _ := v.(map[string]interface{})
	return m
}

func (f *ConfigurationFacade) resourceString(key string) string {
	s, _ := f.resources()[key].(string)
	return s
}

// ControllerUID returns the uid of the bound gateway, or "" when none is set
func (f *ConfigurationFacade) ControllerUID() string {
	return f.resourceString("controllerUid")
}

// FolderUID returns the folder where records discovered through this configuration are placed
func (f *ConfigurationFacade) FolderUID() string {
	return f.resourceString("folderUid")
}

// GatewayInfo ties a configuration to its gateway and the application that owns the gateway.
// It is derived per invocation and never persisted.
type GatewayInfo struct {
	Configuration *models.Record
	Facade        *ConfigurationFacade
	Gateway       Gateway
	// Application is nil when the owning application could not be resolved
	Application *models.Application

	// SharedFolderOverride replaces the configuration's folder when set
	SharedFolderOverride string
}

// GatewayUID returns the uid of the gateway
func (g *GatewayInfo) GatewayUID() string {
	return g.Gateway.ControllerUID
}

// ConfigurationUID returns the uid of the configuration record
func (g *GatewayInfo) ConfigurationUID() string {
	return g.Configuration.UID
}

// SharedFolderUID returns the folder new records are placed in
func (g *GatewayInfo) SharedFolderUID() string {
	if g.SharedFolderOverride != "" {
		return g.SharedFolderOverride
	}
	return g.Facade.FolderUID()
}
