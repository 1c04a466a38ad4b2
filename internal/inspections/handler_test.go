package inspections

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("shopId", c.GetHeader("X-Shop-Id"))
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Next()
	})
	NewHandler(env.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, env
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shop-Id", "shop-1")
	req.Header.Set("X-User-Id", "tech-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestHandlerInspectionLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/inspections",
		`{"vehicle":{"vin":"1HGCM82633A004352","year":2018,"make":"Honda","model":"Civic"},"customer":{"name":"Dana","phone":"5551234567"}}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var insp Inspection
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &insp))
	assert.Equal(t, StatusDraft, insp.Status)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/items",
		`{"itemType":"brakes","condition":"needs_immediate","measurements":{"pad_thickness_mm":1}}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var added ItemResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &added))
	assert.Equal(t, "critical", string(added.Item.UrgencyLevel))
	assert.Equal(t, "critical", string(added.Inspection.UrgencyLevel))

	resp = doJSON(t, r, http.MethodPut, "/api/v1/inspections/"+insp.ID+"/items/"+added.Item.ID,
		`{"itemType":"brakes","condition":"fair"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/complete", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/items", `{"itemType":"tires","condition":"good"}`)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "invalid_state", decodeError(t, resp))

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/send", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var sent SendResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sent))
	assert.Equal(t, StatusSent, sent.Inspection.Status)
	assert.NotEmpty(t, sent.ShortURL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/reports/"+insp.ID, nil)
	public := httptest.NewRecorder()
	r.ServeHTTP(public, req)
	require.Equal(t, http.StatusOK, public.Code)
	var report PublicReport
	require.NoError(t, json.Unmarshal(public.Body.Bytes(), &report))
	assert.Equal(t, "004352", report.Vehicle.VINTail)
	assert.NotContains(t, public.Body.String(), "5551234567")

	resp = doJSON(t, r, http.MethodGet, "/api/v1/inspections?limit=5", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 5, list.Limit)
	assert.Len(t, list.Items, 1)
}

func TestHandlerErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/inspections", `{"vehicle":`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "validation_error", decodeError(t, resp))

	resp = doJSON(t, r, http.MethodGet, "/api/v1/inspections/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not_found", decodeError(t, resp))

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections", `{}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	var insp Inspection
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &insp))

	resp = doJSON(t, r, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/items", `{"itemType":"brakes","condition":"broken"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "validation_error", decodeError(t, resp))

	resp = doJSON(t, r, http.MethodPut, "/api/v1/inspections/"+insp.ID+"/items/nope", `{"itemType":"brakes","condition":"good"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/reports/"+insp.ID, nil)
	public := httptest.NewRecorder()
	r.ServeHTTP(public, req)
	assert.Equal(t, http.StatusNotFound, public.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/public/reports/abc", nil)
	public = httptest.NewRecorder()
	r.ServeHTTP(public, req)
	assert.Equal(t, http.StatusNotFound, public.Code)
	assert.Equal(t, "not_found", decodeError(t, public))

	resp = doJSON(t, r, http.MethodGet, "/api/v1/inspections", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"items":[]`)
	assert.NotContains(t, resp.Body.String(), `"items":null`)
}
