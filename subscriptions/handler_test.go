package subscriptions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-backend/metrics"
)

type testAPI struct {
	router  *gin.Engine
	repo    *Repository
	metrics *metrics.Metrics
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := setupTestRepo(t)
	m := metrics.New()
	h := NewHandler(NewService(repo, nil, nil), m, nil)
	r := gin.New()
	h.RegisterRoutes(r)
	return &testAPI{router: r, repo: repo, metrics: m}
}

func (a *testAPI) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/subscribe", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type subscribeResponse struct {
	Message      string        `json:"message"`
	Subscription *Subscription `json:"subscription"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) subscribeResponse {
	t.Helper()
	var resp subscribeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestRoot(t *testing.T) {
	api := setupAPI(t)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend is running ✅", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
}

func TestHealth(t *testing.T) {
	api := setupAPI(t)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"Backend running"}`, w.Body.String())
}

func TestSubscribe_Created(t *testing.T) {
	api := setupAPI(t)

	w := api.post(t, `{"email":"alice@example.com","userName":"Alice","planName":"Standard","durationMonths":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Contains(t, resp.Message, "Alice")
	assert.Equal(t, "Subscription confirmed for Alice", resp.Message)
	require.NotNil(t, resp.Subscription)
	assert.NotEmpty(t, resp.Subscription.ID)
	assert.Equal(t, StatusActive, resp.Subscription.Status)
	assert.False(t, resp.Subscription.CreatedAt.IsZero())
	assert.Equal(t, 1, countRecords(t, api.repo))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Subscriptions.WithLabelValues(metrics.OutcomeCreated)))
}

func TestSubscribe_NumericStringDuration(t *testing.T) {
	api := setupAPI(t)
	w := api.post(t, `{"email":"bob@example.com","userName":"Bob","planName":"Basic","durationMonths":"3"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3, decode(t, w).Subscription.DurationMonths)
}

func TestSubscribe_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"zero duration", `{"email":"a@example.com","userName":"Alice","planName":"Standard","durationMonths":0}`, MsgInvalidDuration},
		{"non numeric duration", `{"email":"a@example.com","userName":"Alice","planName":"Standard","durationMonths":"abc"}`, MsgInvalidDuration},
		{"missing user name", `{"planName":"Standard","durationMonths":1}`, MsgMissingFields},
		{"null duration", `{"userName":"Alice","planName":"Standard","durationMonths":null}`, MsgMissingFields},
		{"empty body", ``, MsgMissingFields},
		{"array body", `[1,2]`, MsgMissingFields},
		{"malformed", `{"userName":`, MsgInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupAPI(t)
			w := api.post(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"message":"`+tt.msg+`"}`, w.Body.String())
			assert.Equal(t, 0, countRecords(t, api.repo))
		})
	}
}

func TestSubscribe_UnknownPlanIsServerError(t *testing.T) {
	api := setupAPI(t)
	w := api.post(t, `{"email":"a@example.com","userName":"Alice","planName":"Gold","durationMonths":1}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())
	assert.Equal(t, 0, countRecords(t, api.repo))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Subscriptions.WithLabelValues(metrics.OutcomeSchema)))
}

func TestSubscribe_DuplicateEmail(t *testing.T) {
	api := setupAPI(t)
	body := `{"email":"alice@example.com","userName":"Alice","planName":"Standard","durationMonths":1}`

	require.Equal(t, http.StatusCreated, api.post(t, body).Code)
	w := api.post(t, body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())
	assert.Equal(t, 1, countRecords(t, api.repo))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Subscriptions.WithLabelValues(metrics.OutcomeDuplicate)))
}

// Same payload the sign-up web client sends: no email field. The store
// requires email, so this is refused; the test pins the current contract.
func TestSubscribe_ClientPayloadWithoutEmail(t *testing.T) {
	api := setupAPI(t)
	w := api.post(t, `{"userName":"alice@example.com","planName":"Premium","durationMonths":1}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "email", "store detail must not leak")
	assert.Equal(t, 0, countRecords(t, api.repo))
}
