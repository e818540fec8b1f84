package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	"github.com/BruksfildServices01/schedule-assistant/internal/middleware"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type auditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func seedAudit(t *testing.T, db *gorm.DB, sessionID, action, entity string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.AuditLog{
		SessionID: sessionID,
		Action:    action,
		Entity:    entity,
		EntityID:  "apt",
		CreatedAt: at,
	}).Error)
}

func listAudit(t *testing.T, db *gorm.DB, sessionID, query string) (int, auditPage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(&config.Config{}))
	r.GET("/audit-logs", NewAuditLogsHandler(db).List)

	req := httptest.NewRequest(http.MethodGet, "/audit-logs"+query, nil)
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var page auditPage
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	}
	return w.Code, page
}

func day(d, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestAuditLogsScopedToSession(t *testing.T) {
	db := newAuditDB(t)
	seedAudit(t, db, "mine", "appointment_created", "appointment", day(10, 9))
	seedAudit(t, db, "mine", "appointment_removed", "appointment", day(11, 9))
	seedAudit(t, db, "other", "appointment_created", "appointment", day(11, 10))

	code, page := listAudit(t, db, "mine", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Logs, 2)
	assert.Equal(t, "appointment_removed", page.Logs[0].Action, "newest first")
	for _, l := range page.Logs {
		assert.Equal(t, "mine", l.SessionID)
	}

	code, _ = listAudit(t, db, "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuditLogsFilters(t *testing.T) {
	db := newAuditDB(t)
	seedAudit(t, db, "s", "appointment_created", "appointment", day(9, 12))
	seedAudit(t, db, "s", "appointment_created", "appointment", day(10, 23))
	seedAudit(t, db, "s", "appointment_status_changed", "appointment", day(11, 8))
	seedAudit(t, db, "s", "appointments_imported", "calendar", day(12, 8))

	_, page := listAudit(t, db, "s", "?action=appointment_created")
	assert.EqualValues(t, 2, page.Total)

	_, page = listAudit(t, db, "s", "?entity=calendar")
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "appointments_imported", page.Logs[0].Action)

	_, page = listAudit(t, db, "s", "?from=2026-03-10&to=2026-03-11")
	assert.EqualValues(t, 2, page.Total, "to includes the whole day")

	_, page = listAudit(t, db, "s", "?from=not-a-date")
	assert.EqualValues(t, 4, page.Total, "unparseable dates are ignored")
}

func TestAuditLogsPaging(t *testing.T) {
	db := newAuditDB(t)
	for i := 1; i <= 5; i++ {
		seedAudit(t, db, "s", "appointment_created", "appointment", day(i, 9))
	}

	_, page := listAudit(t, db, "s", "?page=2&limit=2")
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Logs, 2)
	assert.True(t, day(3, 9).Equal(page.Logs[0].CreatedAt))
	assert.True(t, day(2, 9).Equal(page.Logs[1].CreatedAt))

	_, page = listAudit(t, db, "s", "?page=0&limit=500")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.Limit)
	assert.Len(t, page.Logs, 5)
}

func TestAuditLogsShowsGormSinkRows(t *testing.T) {
	db := newAuditDB(t)
	d := audit.NewDispatcher(audit.NewGormSink(db), zap.NewNop())
	d.Dispatch(audit.Event{
		SessionID: "s",
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  "apt-1",
		Metadata:  map[string]string{"source": "chat"},
	})
	d.Close()

	_, page := listAudit(t, db, "s", "")
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "apt-1", page.Logs[0].EntityID)
	assert.JSONEq(t, `{"source":"chat"}`, page.Logs[0].Metadata)
}
