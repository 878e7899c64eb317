package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/db/repos"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
)

// GatewayRegistry resolves PAM configurations to the gateways they are bound to
type GatewayRegistry struct {
	recordRepo *repos.RecordRepository
	appRepo    *repos.ApplicationRepository
	router     client.Client

	// gateways is fetched from the router on first use and kept for the lifetime of the registry
	gateways []types.Gateway
}

// NewGatewayRegistry creates a new gateway registry
func NewGatewayRegistry(recordRepo *repos.RecordRepository, appRepo *repos.ApplicationRepository, router client.Client) *GatewayRegistry {
	return &GatewayRegistry{recordRepo: recordRepo, appRepo: appRepo, router: router}
}

// Gateways returns every gateway of the enterprise
func (r *GatewayRegistry) Gateways(ctx context.Context) ([]types.Gateway, error) {
	if r.gateways != nil {
		return r.gateways, nil
	}
	gateways, err := r.router.ListGateways(ctx)
	if err != nil {
		return nil, err
	}
	if gateways == nil {
		gateways = []types.Gateway{}
	}
	r.gateways = gateways
	return gateways, nil
}

// All returns the gateway binding of every PAM configuration record.
// Configurations without a bound gateway, or bound to a gateway the router does not know, are skipped.
func (r *GatewayRegistry) All(ctx context.Context) ([]*types.GatewayInfo, error) {
	configurations, err := r.Configurations(ctx)
	if err != nil {
		return nil, err
	}
	// A router failure aborts the scan
	if _, err := r.Gateways(ctx); err != nil {
		return nil, err
	}

	infos := make([]*types.GatewayInfo, 0, len(configurations))
	for i := range configurations {
		info, err := r.Resolve(ctx, &configurations[i])
		if err != nil {
			logger.Debugf("skipping configuration %s: %v", configurations[i].Title, err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Configurations returns every PAM configuration record, oldest first
func (r *GatewayRegistry) Configurations(ctx context.Context) ([]models.Record, error) {
	return r.recordRepo.FindByType(ctx, models.RecordTypeConfigurationPattern)
}

// ByGateway finds the configuration bound to a gateway given by uid or case-insensitive name.
// When several configurations match, the last one wins.
func (r *GatewayRegistry) ByGateway(ctx context.Context, id string) (*types.GatewayInfo, error) {
	infos, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	var found *types.GatewayInfo
	for _, info := range infos {
		if info.Gateway.Matches(id) {
			if found != nil {
				logger.Debugf("gateway %q matches several configurations, using %s", id, info.ConfigurationUID())
			}
			found = info
		}
	}
	if found == nil {
		return nil, fmt.Errorf("gateway configuration for %s: %w", id, ErrNotFound)
	}
	return found, nil
}

// ByConfiguration resolves a single configuration record
func (r *GatewayRegistry) ByConfiguration(ctx context.Context, configurationUID string) (*types.GatewayInfo, error) {
	record, err := r.recordRepo.GetByUID(ctx, configurationUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("configuration %s: %w", configurationUID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, record)
}

// Resolve binds one configuration record to its gateway and the gateway's application
func (r *GatewayRegistry) Resolve(ctx context.Context, record *models.Record) (*types.GatewayInfo, error) {
	gateways, err := r.Gateways(ctx)
	if err != nil {
		return nil, err
	}

	facade := types.NewConfigurationFacade(record)
	gatewayUID := facade.ControllerUID()
	if gatewayUID == "" {
		return nil, fmt.Errorf("configuration %s does not have a gateway set: %w", record.UID, ErrNotFound)
	}

	var gateway *types.Gateway
	for i := range gateways {
		if gateways[i].ControllerUID == gatewayUID {
			gateway = &gateways[i]
		}
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway %s of configuration %s: %w", gatewayUID, record.UID, ErrNotFound)
	}

	info := &types.GatewayInfo{
		Configuration: record,
		Facade:        facade,
		Gateway:       *gateway,
	}

	app, err := r.appRepo.GetByUID(ctx, gateway.ApplicationUID)
	switch {
	case err == nil:
		info.Application = app
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Debugf("cannot find application %s for gateway %s", gateway.ApplicationUID, gateway.ControllerName)
	default:
		return nil, err
	}
	return info, nil
}
