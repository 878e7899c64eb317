package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/db/repos"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
)

// Custom field holding the discovery store of a configuration record
const (
	StoreFieldLabel = "discoveryStore"
	StoreFieldType  = "text"
)

// JobStore reads and writes the discovery job ledger kept on configuration records.
//
// Every change is written back immediately. Nothing guards against two processes updating the same
// configuration at once: the last writer wins.
type JobStore struct {
	recordRepo *repos.RecordRepository
	syncRepo   *repos.SyncStateRepository
}

// NewJobStore creates a new job store
func NewJobStore(recordRepo *repos.RecordRepository, syncRepo *repos.SyncStateRepository) *JobStore {
	return &JobStore{recordRepo: recordRepo, syncRepo: syncRepo}
}

// Load returns the discovery store of a configuration record.
// A missing or empty field, or forceInit, yields a fresh empty store.
func (s *JobStore) Load(record *models.Record, forceInit bool) (*types.DiscoveryStore, error) {
	if forceInit {
		return types.NewDiscoveryStore(), nil
	}

	field := record.CustomField(StoreFieldLabel)
	if field == nil {
		return types.NewDiscoveryStore(), nil
	}
	raw, _ := field.FirstString()
	if strings.TrimSpace(raw) == "" {
		return types.NewDiscoveryStore(), nil
	}

	store, err := types.ParseDiscoveryStore(raw)
	if err != nil {
		return nil, fmt.Errorf("configuration %s: %w", record.UID, err)
	}
	return store, nil
}

// Save writes the store into the configuration record, persists the record and flags the vault for resync
func (s *JobStore) Save(ctx context.Context, record *models.Record, store *types.DiscoveryStore) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to encode discovery store: %w", err)
	}
	record.SetCustomField(StoreFieldType, StoreFieldLabel, string(data))

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to save discovery store of %s: %w", record.UID, err)
	}
	if err := s.syncRepo.MarkDirty(ctx); err != nil {
		return err
	}

	logger.DebugWithFields("saved discovery store", map[string]interface{}{
		"configuration_uid": record.UID,
		"revision":          record.Revision,
		"jobs":              len(store.Jobs),
	})
	return nil
}

// Migrate upgrades the stored document of a configuration to the current schema and writes it back.
// It reports whether anything had to change.
func (s *JobStore) Migrate(ctx context.Context, record *models.Record) (bool, error) {
	field := record.CustomField(StoreFieldLabel)
	if field == nil {
		return false, nil
	}
	before, _ := field.FirstString()
	if strings.TrimSpace(before) == "" {
		return false, nil
	}

	store, err := s.Load(record, false)
	if err != nil {
		return false, err
	}
	after, err := json.Marshal(store)
	if err != nil {
		return false, fmt.Errorf("failed to encode discovery store: %w", err)
	}
	if sameDocument(before, after) {
		return false, nil
	}
	if err := s.Save(ctx, record, store); err != nil {
		return false, err
	}
	return true, nil
}

// FindJob looks a job up in the store of one configuration record
func (s *JobStore) FindJob(record *models.Record, jobID string) (*types.DiscoveryStore, *types.Job, error) {
	store, err := s.Load(record, false)
	if err != nil {
		return nil, nil, err
	}
	job := store.FindJob(jobID)
	if job == nil {
		return store, nil, fmt.Errorf("discovery job %s: %w", jobID, ErrNotFound)
	}
	return store, job, nil
}

// sameDocument compares two JSON documents by value
func sameDocument(a string, b []byte) bool {
	var x, y interface{}
	if err := json.Unmarshal([]byte(a), &x); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &y); err != nil {
		return false
	}
	return reflect.DeepEqual(x, y)
}
