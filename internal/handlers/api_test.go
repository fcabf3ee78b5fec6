package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ShehabAlj/shehab-crm/internal/config"
	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/handlers"
	"github.com/ShehabAlj/shehab-crm/internal/models"
	"github.com/ShehabAlj/shehab-crm/internal/server"
	"github.com/ShehabAlj/shehab-crm/internal/sheets"
	"github.com/ShehabAlj/shehab-crm/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSource struct {
	master   []sheets.Lead
	incoming []sheets.Lead
	err      error
}

func (s *stubSource) Leads(ctx context.Context) ([]sheets.Lead, error) {
	return s.master, s.err
}

func (s *stubSource) IncomingLeads(ctx context.Context) ([]sheets.Lead, error) {
	return s.incoming, s.err
}

// newTestServer поднимает полный роутер на sqlite в памяти.
// Хендлеры ходят в общий database.DB, поэтому параллельный запуск
// этих тестов невозможен.
func newTestServer(t *testing.T, src sheets.Source) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	store := crm.NewStore(db)
	handlers.Setup(store, src, nil, nil, 2000)

	cfg := &config.Config{SessionSecret: "test-secret"}
	return server.NewRouter(cfg, telegram.NewGateway("", store))
}

// client гоняет запросы через роутер, сохраняя сессионную куку.
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	if got := w.Result().Cookies(); len(got) > 0 {
		c.cookies = got
	}
	return w
}

func (c *client) mustLogin() {
	c.t.Helper()
	creds := gin.H{"username": "shehab", "password": "secret123"}

	w := c.do(http.MethodPost, "/api/auth/register", creds)
	require.Equal(c.t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/auth/login", creds)
	require.Equal(c.t, http.StatusOK, w.Code)
	require.NotEmpty(c.t, c.cookies)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestLeadLifecycle(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	// создание
	w := c.do(http.MethodPost, "/api/leads", gin.H{
		"clientName":  "Lava Cafe",
		"projectType": "Website",
		"value":       900,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool `json:"success"`
		Lead    struct {
			ID        uint   `json:"id"`
			HeatLevel string `json:"heatLevel"`
			Status    string `json:"status"`
		} `json:"lead"`
	}
	decodeBody(t, w, &created)
	assert.True(t, created.Success)
	assert.Equal(t, "Warm", created.Lead.HeatLevel)
	assert.Equal(t, "New", created.Lead.Status)

	// чтение
	w = c.do(http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var leads []map[string]any
	decodeBody(t, w, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, "Lava Cafe", leads[0]["clientName"])

	// смена стадии через PATCH
	w = c.do(http.MethodPatch, "/api/leads", gin.H{
		"id":     created.Lead.ID,
		"status": "done",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/leads", nil)
	decodeBody(t, w, &leads)
	assert.Equal(t, "Done", leads[0]["status"])

	// журнал зафиксировал оба действия
	w = c.do(http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var logs []map[string]any
	decodeBody(t, w, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, "Moved lead to done", logs[0]["details"])
	assert.Equal(t, "Created lead: Lava Cafe", logs[1]["details"])
}

func TestAPIRequiresSession(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}

	for _, path := range []string{"/api/leads", "/api/financials", "/api/activity"} {
		w := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRegisterValidation(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}

	w := c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "ab", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "shehab", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}

	w := c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "shehab", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/auth/login", gin.H{"username": "shehab", "password": "wrongpass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncFromSheet(t *testing.T) {
	src := &stubSource{master: []sheets.Lead{
		{ID: "2", ClientName: "Lava Cafe", ProjectType: "Website", HeatLevel: models.HeatHot, Status: models.StatusWorking, Value: 1500},
		{ID: "3", ClientName: "Acme", ProjectType: "App", HeatLevel: models.HeatCold, Status: models.StatusNew, Value: 700},
	}}
	c := &client{t: t, r: newTestServer(t, src)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)

	// повтор ничего не добавляет
	w = c.do(http.MethodPost, "/api/sync", nil)
	decodeBody(t, w, &resp)
	assert.Zero(t, resp.Count)
}

func TestSyncWithoutSource(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIncomingLeads(t *testing.T) {
	src := &stubSource{incoming: []sheets.Lead{
		{ID: "incoming-0", ClientName: "Sara", ProjectType: "Website Inquiry", HeatLevel: models.HeatWarm, Status: models.StatusNew, Notes: "Source: Website. Contact: +968"},
	}}
	c := &client{t: t, r: newTestServer(t, src)}
	c.mustLogin()

	w := c.do(http.MethodGet, "/api/leads?type=incoming", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]any
	decodeBody(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "incoming-0", rows[0]["id"])
	assert.Equal(t, "Website Inquiry", rows[0]["projectType"])
}

func TestFinancialsEndpoint(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	for name, v := range map[string]int{"A": 1500, "B": 800} {
		w := c.do(http.MethodPost, "/api/leads", gin.H{"clientName": name, "projectType": "Website", "value": v})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := c.do(http.MethodGet, "/api/financials", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalValue      int            `json:"totalValue"`
		Goal            int            `json:"goal"`
		ProgressPercent int            `json:"progressPercent"`
		ByStatus        map[string]int `json:"byStatus"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 2300, resp.TotalValue)
	assert.Equal(t, 2000, resp.Goal)
	assert.Equal(t, 115, resp.ProgressPercent)
	assert.Equal(t, 2300, resp.ByStatus["New"])
}

func TestFinancialChartRendersPNG(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodGet, "/api/financials/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestProposalWithoutAPIKey(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/proposal", gin.H{"clientName": "Lava Cafe", "projectType": "Website", "value": 900})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Proposal string `json:"proposal"`
	}
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Proposal, "OPENROUTER_API_KEY not found")
}

func TestNextStepEndpoint(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/next-step", gin.H{"notes": "Client asked for a quote last week"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Advice string `json:"advice"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Advice)
}

func TestProjectDetailsRoundTrip(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/leads", gin.H{"clientName": "Lava Cafe", "projectType": "Website"})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Lead struct {
			ID uint `json:"id"`
		} `json:"lead"`
	}
	decodeBody(t, w, &created)

	// пустые детали до первого сохранения
	path := "/api/projects/" + strconv.Itoa(int(created.Lead.ID)) + "/details"
	w = c.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var details struct {
		ChatLogs   string `json:"chatLogs"`
		Milestones []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"milestones"`
	}
	decodeBody(t, w, &details)
	assert.Empty(t, details.ChatLogs)
	assert.Empty(t, details.Milestones)

	w = c.do(http.MethodPut, path, gin.H{
		"chatLogs": "call notes",
		"milestones": []gin.H{
			{"title": "Design", "status": "done"},
			{"title": "Build", "status": "pending"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, path, nil)
	decodeBody(t, w, &details)
	assert.Equal(t, "call notes", details.ChatLogs)
	require.Len(t, details.Milestones, 2)
	assert.Equal(t, "Design", details.Milestones[0].Title)
}

func TestArchiveAnalysisUnknownLead(t *testing.T) {
	c := &client{t: t, r: newTestServer(t, nil)}
	c.mustLogin()

	w := c.do(http.MethodPost, "/api/project/archive", gin.H{"projectId": 999, "proposalContent": "text"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
