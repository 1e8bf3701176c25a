package service

import (
	"context"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPusher captures live pushes for assertions.
type recordingPusher struct {
	pushes []*domain.Notification
}

func (p *recordingPusher) Push(userID uint, n *domain.Notification) {
	p.pushes = append(p.pushes, n)
}

func TestNotificationCreatePushes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pusher := &recordingPusher{}
	svc := NewNotificationService(f.notificationRepo, pusher)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)

	n, err := svc.Create(ctx, alice, "Workout due", "Leg day today")
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, "Workout due", pusher.pushes[0].Title)

	// No pusher wired is fine too.
	svcNoPush := NewNotificationService(f.notificationRepo, nil)
	_, err = svcNoPush.Create(ctx, alice, "Another", "")
	assert.NoError(t, err)
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewNotificationService(f.notificationRepo, nil)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	bob := f.createUser(t, "bob@example.com", domain.RoleUser)

	n, err := svc.Create(ctx, alice, "Private", "")
	require.NoError(t, err)

	// Foreign notifications read as not found.
	_, err = svc.MarkRead(ctx, bob, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.Delete(ctx, bob, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	read, err := svc.MarkRead(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	list, err := svc.List(ctx, alice, 0, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	require.NoError(t, svc.Delete(ctx, alice, n.ID))
	list, err = svc.List(ctx, alice, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
}
