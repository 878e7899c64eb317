package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
)

func newLedger() *types.DiscoveryStore {
	store := types.NewDiscoveryStore()
	store.AddJob(types.NewJob("DIS1", "token-1", nil, time.Unix(10, 0)))
	store.AddJob(types.NewJob("DIS2", "token-2", strPtr("res1"), time.Unix(20, 0)))
	store.AddJob(types.NewJob("DIS3", "token-3", nil, time.Unix(30, 0)))
	return store
}

func TestMergeStatus(t *testing.T) {
	remote := []actions.RemoteJobStatus{
		{JobID: "DIS1", Status: types.JobStatusComplete, StartTs: floatPtr(100), CompleteTs: floatPtr(160)},
		{JobID: "DIS2", Status: types.JobStatusInProgress, StartTs: floatPtr(120)},
		{JobID: "DIS9", Status: types.JobStatusNotFound},
	}

	store := newLedger()
	result := MergeStatus(store, remote)
	assert.True(t, result.Changed)
	require.Len(t, result.Unknown, 1)
	assert.Equal(t, "DIS9", result.Unknown[0].JobID)
	assert.Len(t, store.Jobs, 3, "remote-only jobs are not added to the ledger")

	job := store.FindJob("DIS1")
	assert.Equal(t, types.JobStatusComplete, job.Status)
	d, ok := job.Duration()
	require.True(t, ok)
	assert.Equal(t, "0:01:00", types.FormatDuration(d))
	assert.Equal(t, "token-1", job.Token)

	job = store.FindJob("DIS2")
	assert.Equal(t, types.JobStatusInProgress, job.Status)
	assert.Equal(t, 120.0, *job.StartedTs)
	assert.Nil(t, job.CompletedTs)

	job = store.FindJob("DIS3")
	assert.Equal(t, types.JobStatusQueued, job.Status, "jobs the gateway does not mention are untouched")
}

func TestMergeStatus_Idempotent(t *testing.T) {
	remote := []actions.RemoteJobStatus{
		{JobID: "DIS1", Status: types.JobStatusComplete, StartTs: floatPtr(100), CompleteTs: floatPtr(160)},
		{JobID: "DIS2", Status: types.JobStatusError},
		{JobID: "DIS7", Status: types.JobStatusQueued},
	}

	once := newLedger()
	MergeStatus(once, remote)

	twice := newLedger()
	MergeStatus(twice, remote)
	second := MergeStatus(twice, remote)

	assert.False(t, second.Changed)
	assert.Equal(t, once.Jobs, twice.Jobs)
}

func TestMergeStatus_RemoteTimestampsAreCopied(t *testing.T) {
	store := newLedger()
	start := 100.0
	remote := []actions.RemoteJobStatus{{JobID: "DIS1", Status: types.JobStatusInProgress, StartTs: &start}}
	MergeStatus(store, remote)

	start = 999
	assert.Equal(t, 100.0, *store.FindJob("DIS1").StartedTs)
}

func TestReportJobs(t *testing.T) {
	info := &types.GatewayInfo{Gateway: types.Gateway{ControllerUID: "gw1", ControllerName: "Lab"}}
	store := newLedger()
	MergeStatus(store, []actions.RemoteJobStatus{
		{JobID: "DIS1", Status: types.JobStatusComplete, StartTs: floatPtr(100), CompleteTs: floatPtr(160)},
	})

	reports := reportJobs(info, store.Jobs[:1], []actions.RemoteJobStatus{{JobID: "DIS9", Status: types.JobStatusNotFound}})
	require.Len(t, reports, 2)

	assert.Equal(t, "Lab", reports[0].GatewayName)
	assert.Equal(t, "gw1", reports[0].GatewayUID)
	assert.Equal(t, "0:01:00", reports[0].Duration)
	assert.True(t, reports[0].Local)
	assert.Equal(t, 10.0, *reports[0].AddedTs)

	assert.Equal(t, "DIS9", reports[1].JobID)
	assert.False(t, reports[1].Local)
	assert.Nil(t, reports[1].AddedTs)
	assert.Empty(t, reports[1].Duration)
}
