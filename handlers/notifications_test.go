package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteledger.app/api/config"
	"siteledger.app/api/models"
)

func seedNotifications(t *testing.T, userID uuid.UUID, n int) []models.Notification {
	t.Helper()
	out := make([]models.Notification, 0, n)
	for i := 0; i < n; i++ {
		notif := models.Notification{
			UserID:  userID,
			Type:    "jobAssigned",
			Title:   fmt.Sprintf("Assignment %d", i),
			Message: "You were assigned to a job",
		}
		require.NoError(t, config.DB.Create(&notif).Error)
		out = append(out, notif)
	}
	return out
}

func TestNotificationFeedPagination(t *testing.T) {
	h := setupServer(t)
	owner, token := createOwner(t, "owner@example.com")
	seedNotifications(t, owner.ID, 3)

	rr := do(t, h, "GET", "/api/notifications?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unreadCount"`
		HasMore       bool                  `json:"hasMore"`
	}
	decode(t, rr, &page)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.True(t, page.HasMore)

	rr = do(t, h, "GET", "/api/notifications?limit=2&offset=2", token, nil)
	decode(t, rr, &page)
	assert.Len(t, page.Notifications, 1)
	assert.False(t, page.HasMore)
}

func TestNotificationMarkReadIsScopedToUser(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)
	notifs := seedNotifications(t, owner.ID, 1)

	// another user cannot touch it
	rr := do(t, h, "PUT", "/api/notifications/"+notifs[0].ID.String()+"/read", workerToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, "PUT", "/api/notifications/"+notifs[0].ID.String()+"/read", ownerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var reloaded models.Notification
	require.NoError(t, config.DB.First(&reloaded, "id = ?", notifs[0].ID).Error)
	assert.True(t, reloaded.Read)
}

func TestNotificationReadAllAndDelete(t *testing.T) {
	h := setupServer(t)
	owner, token := createOwner(t, "owner@example.com")
	notifs := seedNotifications(t, owner.ID, 2)

	rr := do(t, h, "PUT", "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var unread int64
	require.NoError(t, config.DB.Model(&models.Notification{}).
		Where("read = ?", false).Count(&unread).Error)
	assert.Zero(t, unread)

	rr = do(t, h, "DELETE", "/api/notifications/"+notifs[0].ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, "DELETE", "/api/notifications/"+notifs[0].ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
