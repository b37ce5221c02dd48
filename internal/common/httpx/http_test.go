package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
)

func execute(t *testing.T, handler RequestHandler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/builds", strings.NewReader("{}"))
	rr := httptest.NewRecorder()
	WrapHttpRsp(handler).ServeHTTP(rr, req)
	return rr
}

func decodeErrorRsp(t *testing.T, rr *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var rsp struct {
		Result int    `json:"result"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rsp))
	return rsp.Result, rsp.Error
}

func TestWrapHttpRspSuccess(t *testing.T) {
	rr := execute(t, func(r *http.Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK, Response: map[string]string{"status": "ok"}}, nil
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestWrapHttpRspHttpError(t *testing.T) {
	rr := execute(t, func(r *http.Request) (*Response, error) {
		return nil, ErrNotFound("no encrypted package available for this build")
	})
	require.Equal(t, http.StatusNotFound, rr.Code)
	result, errMsg := decodeErrorRsp(t, rr)
	assert.Equal(t, Failure, result)
	assert.Equal(t, "no encrypted package available for this build", errMsg)
}

func TestWrapHttpRspOpaqueInternalError(t *testing.T) {
	base := apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	rr := execute(t, func(r *http.Request) (*Response, error) {
		return nil, base.New("unable to get vendor").Err(errors.New("disk I/O error at /var/lab/lab.db"))
	})
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	// wrapped driver/OS detail never reaches the response body
	result, errMsg := decodeErrorRsp(t, rr)
	assert.Equal(t, Failure, result)
	assert.Equal(t, "unable to get vendor", errMsg)
	assert.NotContains(t, rr.Body.String(), "/var/lab")
}

func TestSendErrorOpaque(t *testing.T) {
	base := apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	rr := httptest.NewRecorder()
	SendError(rr, base.MsgErr("unable to append download event", errors.New("database is locked: /tmp/lab.db")))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	_, errMsg := decodeErrorRsp(t, rr)
	assert.Equal(t, "unable to append download event", errMsg)
	assert.NotContains(t, rr.Body.String(), "/tmp/lab.db")
}
