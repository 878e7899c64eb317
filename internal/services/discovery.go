package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/celestiaorg/pamdiscover/internal/crypto"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
)

// GatewayPresence reports which gateways are connected to the router
type GatewayPresence interface {
	ConnectedGateways(ctx context.Context) ([]string, error)
}

// Discovery coordinates discovery jobs between the vault and the gateways
type Discovery struct {
	registry *GatewayRegistry
	store    *JobStore
	router   client.Client
	minter   Minter
	presence GatewayPresence
	now      func() time.Time
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(
	registry *GatewayRegistry,
	store *JobStore,
	router client.Client,
	minter Minter,
	presence GatewayPresence,
) *Discovery {
	return &Discovery{
		registry: registry,
		store:    store,
		router:   router,
		minter:   minter,
		presence: presence,
		now:      time.Now,
	}
}

// StartOptions selects where a discovery job runs
type StartOptions struct {
	// Gateway is a gateway uid or name
	Gateway string
	// ResourceUID limits the job to one resource when set
	ResourceUID *string
	// ResetAll clears the ledger and ignore list of the configuration first
	ResetAll bool
}

// StartResult is a job that was queued on a gateway
type StartResult struct {
	Job       types.Job
	Info      *types.GatewayInfo
	Connected bool
}

// Start records a new job in the configuration's ledger and asks the gateway to run it.
// The job is saved before it is sent, so a failed dispatch still leaves it in the ledger.
func (d *Discovery) Start(ctx context.Context, opts StartOptions) (*StartResult, error) {
	if opts.Gateway == "" {
		return nil, fmt.Errorf("%w: a gateway is required", ErrValidation)
	}

	info, err := d.registry.ByGateway(ctx, opts.Gateway)
	if err != nil {
		return nil, err
	}

	store, err := d.store.Load(info.Configuration, opts.ResetAll)
	if err != nil {
		return nil, err
	}

	jobID, err := types.NewJobID()
	if err != nil {
		return nil, err
	}
	token, err := crypto.GenerateToken()
	if err != nil {
		return nil, err
	}
	job := types.NewJob(jobID, token, opts.ResourceUID, d.now())
	store.AddJob(job)

	if err := d.store.Save(ctx, info.Configuration, store); err != nil {
		return nil, err
	}

	result := &StartResult{Job: job, Info: info, Connected: d.isConnected(ctx, info.GatewayUID())}
	if !result.Connected {
		logger.Warnf("gateway %s is not connected, the job will start once it connects", info.Gateway.ControllerName)
	}

	if _, err := d.router.DiscoverStart(ctx, info.GatewayUID(), actions.DiscoverStartInputs{
		ConfigurationUID: info.ConfigurationUID(),
		JobID:            job.JobID,
	}); err != nil {
		logger.Errorf("cannot send discovery job %s to gateway %s: %v", job.JobID, info.Gateway.ControllerName, err)
		return result, err
	}

	logger.InfoWithFields("discovery job queued", job.LogFields())
	return result, nil
}

func (d *Discovery) isConnected(ctx context.Context, gatewayUID string) bool {
	if d.presence == nil {
		return true
	}
	connected, err := d.presence.ConnectedGateways(ctx)
	if err != nil {
		logger.Debugf("cannot list connected gateways: %v", err)
		return true
	}
	for _, uid := range connected {
		if uid == gatewayUID {
			return true
		}
	}
	return false
}

// StatusOptions filters a status report
type StatusOptions struct {
	// Gateway limits the report to one gateway uid or name
	Gateway string
	// ResourceUID limits the report to the jobs of one resource
	ResourceUID string
}

// Status polls every gateway for the state of the jobs in its ledger, updates the ledgers and
// returns one row per job. A configuration that cannot be read or polled is skipped.
func (d *Discovery) Status(ctx context.Context, opts StatusOptions) ([]JobReport, error) {
	infos, err := d.registry.All(ctx)
	if err != nil {
		return nil, err
	}

	reports := []JobReport{}
	for _, info := range infos {
		if opts.Gateway != "" && !info.Gateway.Matches(opts.Gateway) {
			continue
		}

		rows, err := d.statusOf(ctx, info, opts.ResourceUID)
		if err != nil {
			logger.Warnf("skipping gateway %s: %v", info.Gateway.ControllerName, err)
			continue
		}
		reports = append(reports, rows...)
	}
	return reports, nil
}

func (d *Discovery) statusOf(ctx context.Context, info *types.GatewayInfo, resourceUID string) ([]JobReport, error) {
	store, err := d.store.Load(info.Configuration, false)
	if err != nil {
		return nil, err
	}

	if resourceUID != "" && !store.HasResource(resourceUID) {
		return nil, nil
	}
	jobIDs := []string{}
	for _, job := range store.Jobs {
		if resourceUID == "" || job.Resource() == resourceUID {
			jobIDs = append(jobIDs, job.JobID)
		}
	}

	logger.Infof("Checking gateway %s ...", info.Gateway.ControllerName)
	status, err := d.router.DiscoverStatus(ctx, info.GatewayUID(), actions.DiscoverStatusInputs{
		ConfigurationUID: info.ConfigurationUID(),
		JobIDs:           jobIDs,
	})
	if err != nil {
		return nil, err
	}

	merged := MergeStatus(store, status.JobStatus)
	if merged.Changed {
		if err := d.store.Save(ctx, info.Configuration, store); err != nil {
			return nil, err
		}
	}

	jobs := make([]types.Job, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		jobs = append(jobs, *store.FindJob(jobID))
	}
	return reportJobs(info, jobs, merged.Unknown), nil
}

// located is a job together with the configuration that owns it
type located struct {
	info  *types.GatewayInfo
	store *types.DiscoveryStore
	job   *types.Job
}

// locate finds the configuration whose ledger holds the job
func (d *Discovery) locate(ctx context.Context, jobID string) (*located, error) {
	configurations, err := d.registry.Configurations(ctx)
	if err != nil {
		return nil, err
	}

	for i := range configurations {
		record := &configurations[i]
		store, job, err := d.store.FindJob(record, jobID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			logger.Debugf("cannot read discovery store of %s: %v", record.Title, err)
			continue
		}

		info, err := d.registry.Resolve(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("discovery job %s gateway: %w", jobID, err)
		}
		return &located{info: info, store: store, job: job}, nil
	}
	return nil, fmt.Errorf("discovery job %s: %w", jobID, ErrNotFound)
}

// GetResult is the decrypted result of a job
type GetResult struct {
	Result *types.DiscoveredObject
	Job    types.Job
	Info   *types.GatewayInfo
}

// Get fetches and decrypts the result of a job
func (d *Discovery) Get(ctx context.Context, jobID string) (*GetResult, error) {
	loc, err := d.locate(ctx, jobID)
	if err != nil {
		return nil, err
	}

	data, err := d.router.DiscoverGet(ctx, loc.info.GatewayUID(), actions.DiscoverGetInputs{
		ConfigurationUID: loc.info.ConfigurationUID(),
		JobID:            loc.job.JobID,
	})
	if err != nil {
		return nil, err
	}

	result, err := crypto.Decrypt(data.Result, loc.job.Token)
	if err != nil {
		logger.ErrorWithFields("cannot decrypt discovery result", loc.job.LogFields())
		return nil, err
	}
	return &GetResult{Result: result, Job: *loc.job, Info: loc.info}, nil
}

// ProcessOptions configures how a job result is turned into records
type ProcessOptions struct {
	JobID string
	// SharedFolderUID places new records in this folder instead of the configuration's
	SharedFolderUID string
	Walker          WalkerOptions
}

// Process fetches the result of a job and walks it, adding the records the operator confirms
func (d *Discovery) Process(ctx context.Context, opts ProcessOptions) (WalkSummary, error) {
	got, err := d.Get(ctx, opts.JobID)
	if err != nil {
		return WalkSummary{}, err
	}

	if opts.SharedFolderUID != "" {
		got.Info.SharedFolderOverride = opts.SharedFolderUID
	}

	walker := NewWalker(d.minter, got.Info, opts.Walker)
	summary, err := walker.Walk(ctx, got.Result, &got.Job)
	if err != nil {
		return summary, err
	}

	fields := got.Job.LogFields()
	fields["added"] = summary.Added
	fields["failed"] = summary.Failed
	fields["quit"] = summary.Quit
	logger.InfoWithFields("discovery result processed", fields)
	return summary, nil
}

// Migrate upgrades the discovery store of every configuration to the current schema
func (d *Discovery) Migrate(ctx context.Context) (int, error) {
	configurations, err := d.registry.Configurations(ctx)
	if err != nil {
		return 0, err
	}
	migrated := 0
	for i := range configurations {
		changed, err := d.store.Migrate(ctx, &configurations[i])
		if err != nil {
			return migrated, err
		}
		if changed {
			migrated++
		}
	}
	return migrated, nil
}
