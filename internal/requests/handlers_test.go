package requests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := NewSeededStore()
	require.NoError(t, err)

	r := gin.New()
	NewHandler(NewService(store)).RegisterProtectedRoutes(r.Group("/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestHandler_ListRequests(t *testing.T) {
	w := get(setupRouter(t), "/v1/requests")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Incoming []PaymentRequest `json:"incoming"`
		Outgoing []PaymentRequest `json:"outgoing"`
		History  []PaymentRequest `json:"history"`
		Counts   map[string]int   `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Incoming, 1)
	assert.Equal(t, "john.eth", resp.Incoming[0].From)
	assert.Equal(t, "50", resp.Incoming[0].Amount.String())
	require.Len(t, resp.Outgoing, 1)
	assert.Equal(t, "sarah.eth", resp.Outgoing[0].To)
	require.Len(t, resp.History, 1)
	assert.Equal(t, StatusPaid, resp.History[0].Status)
	assert.Equal(t, 1, resp.Counts["history"])
}

func TestHandler_ListRequests_View(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/v1/requests?view=outgoing")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		View     string           `json:"view"`
		Requests []PaymentRequest `json:"requests"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "outgoing", resp.View)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "2", resp.Requests[0].ID)

	w = get(r, "/v1/requests?view=everything")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetRequest(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/v1/requests/2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Request      PaymentRequest `json:"request"`
		Counterparty string         `json:"counterparty"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, Outgoing, resp.Request.Direction)
	assert.Equal(t, "sarah.eth", resp.Counterparty)

	w = get(r, "/v1/requests/99")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
