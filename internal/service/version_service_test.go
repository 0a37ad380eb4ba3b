package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/models"
)

type stubVersionStore struct {
	createErr error
	listErr   error
	getErr    error

	created []models.VersionRecord
	records []models.VersionRecord
}

func (s *stubVersionStore) Create(_ context.Context, record *models.VersionRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	record.Version = len(s.created) + 1
	s.created = append(s.created, *record)
	return nil
}

func (s *stubVersionStore) List(_ context.Context, _, _ string, _ int) ([]models.VersionRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.records, nil
}

func (s *stubVersionStore) Get(_ context.Context, _, _ string, version int) (*models.VersionRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.records {
		if s.records[i].Version == version {
			return &s.records[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubVersionStore) Latest(_ context.Context, _, _ string) (*models.VersionRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if len(s.records) == 0 {
		return nil, sql.ErrNoRows
	}
	return &s.records[0], nil
}

func TestVersionServiceCreateSequential(t *testing.T) {
	store := &stubVersionStore{}
	svc := NewVersionService(store, nil, zap.NewNop())

	snapshot := map[string]interface{}{"price": 120, "brand": "Michelin"}
	require.True(t, svc.CreateVersion(context.Background(), "tires", "tire-9", snapshot, models.Actor{ID: "user-1"}, nil))
	require.True(t, svc.CreateVersion(context.Background(), "tires", "tire-9", snapshot, models.Actor{ID: "user-1"}, nil))

	require.Len(t, store.created, 2)
	require.Equal(t, 1, store.created[0].Version)
	require.Equal(t, 2, store.created[1].Version)
}

func TestVersionServiceCreateFailSoft(t *testing.T) {
	store := &stubVersionStore{createErr: errors.New("down")}
	svc := NewVersionService(store, nil, zap.NewNop())

	require.False(t, svc.CreateVersion(context.Background(), "tires", "tire-9", map[string]int{"a": 1}, models.Actor{}, nil))
}

func TestVersionServiceCreateNilSnapshot(t *testing.T) {
	store := &stubVersionStore{}
	svc := NewVersionService(store, nil, zap.NewNop())

	require.False(t, svc.CreateVersion(context.Background(), "tires", "tire-9", nil, models.Actor{}, nil))
	require.Empty(t, store.created)
}

func TestVersionServiceSnapshotRoundTrip(t *testing.T) {
	store := &stubVersionStore{}
	svc := NewVersionService(store, nil, zap.NewNop())

	original := map[string]interface{}{"price": 120.5, "sizes": []string{"205/55R16"}}
	require.True(t, svc.CreateVersion(context.Background(), "tires", "tire-9", original, models.Actor{}, nil))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(store.created[0].Snapshot, &decoded))
	require.Equal(t, 120.5, decoded["price"])
}

func TestVersionServiceListDegrades(t *testing.T) {
	store := &stubVersionStore{listErr: errors.New("down")}
	svc := NewVersionService(store, nil, zap.NewNop())

	records, ok := svc.ListVersions(context.Background(), "tires", "tire-9", 10)
	require.False(t, ok)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestVersionServiceListNormalizesLegacySnapshots(t *testing.T) {
	store := &stubVersionStore{records: []models.VersionRecord{
		{Version: 2, Snapshot: json.RawMessage(`{"price":130}`)},
		{Version: 1, Snapshot: json.RawMessage(`not-json at all`)},
	}}
	svc := NewVersionService(store, nil, zap.NewNop())

	records, ok := svc.ListVersions(context.Background(), "tires", "tire-9", 10)
	require.True(t, ok)
	require.Len(t, records, 2)
	require.True(t, json.Valid(records[0].Snapshot))
	require.True(t, json.Valid(records[1].Snapshot))
	require.JSONEq(t, `"not-json at all"`, string(records[1].Snapshot))
}

func TestVersionServiceGetMissingVsFailure(t *testing.T) {
	store := &stubVersionStore{records: []models.VersionRecord{{Version: 1, Snapshot: json.RawMessage(`{}`)}}}
	svc := NewVersionService(store, nil, zap.NewNop())

	record, ok := svc.GetVersion(context.Background(), "tires", "tire-9", 7)
	require.True(t, ok)
	require.Nil(t, record)

	store.getErr = errors.New("down")
	record, ok = svc.GetVersion(context.Background(), "tires", "tire-9", 1)
	require.False(t, ok)
	require.Nil(t, record)
}
