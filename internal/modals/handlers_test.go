package modals

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterBindings())

	r := gin.New()
	NewHandler(newTestService(t)).RegisterProtectedRoutes(r.Group("/v1"))
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Review(t *testing.T) {
	r := setupRouter(t)

	w := send(r, "POST", "/v1/requests/review", `{"recipient":"vitalik.eth","amount":"10","token":"ETH"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Review Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "vitalik.eth", resp.Review.DisplayName)
	assert.Equal(t, "ETH", resp.Review.Token)
	assert.Equal(t, NetworkFeeNote, resp.Review.NetworkFee)
}

func TestHandler_Review_Invalid(t *testing.T) {
	r := setupRouter(t)

	w := send(r, "POST", "/v1/requests/review", `{"recipient":"vitalik","amount":"10"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string                       `json:"error"`
		Details validation.ValidationErrors `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.NotEmpty(t, resp.Details.Field("recipient"))
}

func TestHandler_Pay(t *testing.T) {
	r := setupRouter(t)

	w := send(r, "GET", "/v1/requests/1/pay", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"recipient":"john.eth"`)

	w = send(r, "POST", "/v1/requests/1/pay", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Receipt Receipt `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, txHashRE, resp.Receipt.TxHash)

	assert.Equal(t, http.StatusConflict, send(r, "POST", "/v1/requests/3/pay", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, "POST", "/v1/requests/9/pay", "").Code)
}

func TestHandler_Decline(t *testing.T) {
	r := setupRouter(t)

	w := send(r, "POST", "/v1/requests/1/decline", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"declined":false`)

	assert.Equal(t, http.StatusNotFound, send(r, "POST", "/v1/requests/9/decline", "").Code)
}
