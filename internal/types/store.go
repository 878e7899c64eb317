package types

import (
	"encoding/json"
	"fmt"
)

// DiscoveryStoreVersion is the current schema version of the discovery store document
const DiscoveryStoreVersion = 1

// Keys of the discovery store document
const (
	storeKeyVersion    = "version"
	storeKeyIgnoreList = "ignoreList"
	storeKeyJobs       = "jobs"
)

// DiscoveryStore is the job ledger of one configuration record.
// It is persisted as a single JSON document in a labelled custom field of that record.
type DiscoveryStore struct {
	Version    int      `json:"version"`
	IgnoreList []string `json:"ignoreList"`
	Jobs       []Job    `json:"jobs"`

	// extra holds top level keys this version does not know about, so a save never drops them
	extra map[string]json.RawMessage
}

// NewDiscoveryStore returns an empty store at the current schema version
func NewDiscoveryStore() *DiscoveryStore {
	return &DiscoveryStore{
		Version:    DiscoveryStoreVersion,
		IgnoreList: []string{},
		Jobs:       []Job{},
	}
}

// ParseDiscoveryStore decodes a stored document and migrates it to the current schema
func ParseDiscoveryStore(raw string) (*DiscoveryStore, error) {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode discovery store: %w", err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	if err := migrateStoreDocument(doc); err != nil {
		return nil, err
	}

	store := &DiscoveryStore{}
	if err := json.Unmarshal(doc[storeKeyVersion], &store.Version); err != nil {
		return nil, fmt.Errorf("invalid discovery store version: %w", err)
	}
	if err := json.Unmarshal(doc[storeKeyIgnoreList], &store.IgnoreList); err != nil {
		return nil, fmt.Errorf("invalid discovery store ignore list: %w", err)
	}
	if err := json.Unmarshal(doc[storeKeyJobs], &store.Jobs); err != nil {
		return nil, fmt.Errorf("invalid discovery store jobs: %w", err)
	}
	if store.IgnoreList == nil {
		store.IgnoreList = []string{}
	}
	if store.Jobs == nil {
		store.Jobs = []Job{}
	}

	for k, v := range doc {
		switch k {
		case storeKeyVersion, storeKeyIgnoreList, storeKeyJobs:
		default:
			if store.extra == nil {
				store.extra = map[string]json.RawMessage{}
			}
			store.extra[k] = v
		}
	}
	return store, nil
}

// storeMigration upgrades a raw document from version to version+1
type storeMigration func(doc map[string]json.RawMessage) error

// storeMigrations is indexed by the version a migration starts from
var storeMigrations = []storeMigration{
	// v0 is the unversioned document written by older clients. Missing keys get their defaults.
	func(doc map[string]json.RawMessage) error {
		if isMissing(doc[storeKeyIgnoreList]) {
			doc[storeKeyIgnoreList] = json.RawMessage(`[]`)
		}
		if isMissing(doc[storeKeyJobs]) {
			doc[storeKeyJobs] = json.RawMessage(`[]`)
		}
		return nil
	},
}

func migrateStoreDocument(doc map[string]json.RawMessage) error {
	version := 0
	if !isMissing(doc[storeKeyVersion]) {
		if err := json.Unmarshal(doc[storeKeyVersion], &version); err != nil {
			return fmt.Errorf("invalid discovery store version: %w", err)
		}
	}
	if version > DiscoveryStoreVersion {
		return fmt.Errorf("discovery store version %d is newer than supported version %d", version, DiscoveryStoreVersion)
	}

	// A current document can still lose a required key to a hand edit, so always re-run the last step.
	if version == DiscoveryStoreVersion && (isMissing(doc[storeKeyIgnoreList]) || isMissing(doc[storeKeyJobs])) {
		version = DiscoveryStoreVersion - 1
	}

	for ; version < DiscoveryStoreVersion; version++ {
		if err := storeMigrations[version](doc); err != nil {
			return fmt.Errorf("failed to migrate discovery store from version %d: %w", version, err)
		}
	}
	doc[storeKeyVersion] = json.RawMessage(fmt.Sprintf("%d", DiscoveryStoreVersion))
	return nil
}

func isMissing(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}

// MarshalJSON writes the known keys plus any preserved unknown keys
func (s *DiscoveryStore) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.extra)+3)
	for k, v := range s.extra {
		doc[k] = v
	}
	ignore := s.IgnoreList
	if ignore == nil {
		ignore = []string{}
	}
	jobs := s.Jobs
	if jobs == nil {
		jobs = []Job{}
	}
	doc[storeKeyVersion] = s.Version
	doc[storeKeyIgnoreList] = ignore
	doc[storeKeyJobs] = jobs
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler by way of ParseDiscoveryStore
func (s *DiscoveryStore) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDiscoveryStore(string(data))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// FindJob returns the job with the given id, or nil
func (s *DiscoveryStore) FindJob(jobID string) *Job {
	for i := range s.Jobs {
		if s.Jobs[i].JobID == jobID {
			return &s.Jobs[i]
		}
	}
	return nil
}

// AddJob appends a job to the ledger
func (s *DiscoveryStore) AddJob(job Job) {
	s.Jobs = append(s.Jobs, job)
}

// HasResource reports whether any job in the ledger is scoped to the resource
func (s *DiscoveryStore) HasResource(resourceUID string) bool {
	for _, job := range s.Jobs {
		if job.Resource() == resourceUID {
			return true
		}
	}
	return false
}
