package service

import (
	"context"
	"testing"

	"keymarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, repo *stubNotificationRepo, userID uint, read bool) *model.Notification {
	t.Helper()
	n := &model.Notification{
		UserID:  userID,
		Type:    model.NotifLowStock,
		Title:   "Low stock",
		Message: "Rice 1kg is below its minimum",
		IsRead:  read,
	}
	n.SetRelated(&model.Reference{Kind: model.RefInventory, ID: "7"})
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestNotificationList_UnreadCountAndRelated(t *testing.T) {
	repo := &stubNotificationRepo{}
	seedNotification(t, repo, 1, false)
	seedNotification(t, repo, 1, true)
	seedNotification(t, repo, 2, false) // other user, not visible

	svc := NewNotificationService(repo)
	resp, err := svc.List(context.Background(), 1, false, 1, 50)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1), resp.Unread)
	require.NotNil(t, resp.Data[0].Related)
	assert.Equal(t, string(model.RefInventory), resp.Data[0].Related.Kind)
	assert.Equal(t, "7", resp.Data[0].Related.ID)
}

func TestNotificationList_UnreadOnly(t *testing.T) {
	repo := &stubNotificationRepo{}
	seedNotification(t, repo, 1, false)
	seedNotification(t, repo, 1, true)

	svc := NewNotificationService(repo)
	resp, err := svc.List(context.Background(), 1, true, 1, 50)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.False(t, resp.Data[0].IsRead)
}

func TestNotificationMarkRead_ScopedToOwner(t *testing.T) {
	repo := &stubNotificationRepo{}
	n := seedNotification(t, repo, 1, false)

	svc := NewNotificationService(repo)

	// another user cannot mark it
	assert.ErrorIs(t, svc.MarkRead(context.Background(), 2, n.ID), ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), 1, n.ID))
	unread, err := repo.CountUnread(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationMarkAllRead(t *testing.T) {
	repo := &stubNotificationRepo{}
	seedNotification(t, repo, 1, false)
	seedNotification(t, repo, 1, false)
	seedNotification(t, repo, 2, false)

	svc := NewNotificationService(repo)
	require.NoError(t, svc.MarkAllRead(context.Background(), 1))

	mine, err := repo.CountUnread(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mine)

	theirs, err := repo.CountUnread(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), theirs)
}
