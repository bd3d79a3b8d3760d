package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// activityRepoStub is an in-memory ActivityLogRepository.
type activityRepoStub struct {
	entries []models.ActivityLog
	err     error
}

func (s *activityRepoStub) Create(ctx context.Context, entry *models.ActivityLog) error {
	if s.err != nil {
		return s.err
	}
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *activityRepoStub) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func TestActivityRecordPersistsNormalizedEntry(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, nil, "", testLogger())

	entityID := uint(7)
	svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  " Teacher ",
		Action:     " Grade.Created ",
		EntityType: "Grade",
		EntityID:   &entityID,
		Metadata:   map[string]interface{}{"term": 1},
	})

	require.Len(t, repo.entries, 1)
	stored := repo.entries[0]
	require.Equal(t, "grade.created", stored.Action)
	require.Equal(t, "grade", stored.EntityType)
	require.Equal(t, "teacher", stored.ActorRole)
	require.NotNil(t, stored.EntityID)
	require.Equal(t, uint(7), *stored.EntityID)
}

func TestActivityRecordDropsUnnamedEvents(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, nil, "", testLogger())

	svc.Record(context.Background(), ActivityEntry{ActorID: 1, EntityType: "grade"})
	svc.Record(context.Background(), ActivityEntry{ActorID: 1, Action: "grade.created"})
	require.Empty(t, repo.entries)
}

func TestActivityRecordSwallowsRepositoryErrors(t *testing.T) {
	repo := &activityRepoStub{err: errors.New("db down")}
	svc := NewActivityService(repo, nil, "", testLogger())

	// must not panic or propagate
	svc.Record(context.Background(), ActivityEntry{Action: "grade.created", EntityType: "grade"})
}

func TestActivityList(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, nil, "", testLogger())

	svc.Record(context.Background(), ActivityEntry{ActorID: 2, ActorRole: models.RoleTeacher, Action: "cleanup.completed", EntityType: "grade"})

	entries, err := svc.List(context.Background(), repository.ActivityLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "cleanup.completed", entries[0].Action)
}
