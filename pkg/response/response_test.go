package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"agentguard/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK(t *testing.T) {
	c, w := setupTestContext()
	c.Set("request_id", "req-123")

	OK(c, gin.H{"status": "APPROVED"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "APPROVED", data["status"])
}

func TestCreated(t *testing.T) {
	c, w := setupTestContext()

	Created(c, gin.H{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_AppError(t *testing.T) {
	c, w := setupTestContext()
	c.Set("request_id", "req-456")

	Error(c, apperror.ErrDuplicateSettlement("ORDER-001"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TXN_003", resp.ErrorCode)
	assert.Contains(t, resp.Message, "ORDER-001")
	assert.Equal(t, "req-456", resp.RequestID)
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := setupTestContext()

	wrapped := fmt.Errorf("handler: %w", apperror.Validation("amount must be positive"))
	Error(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VAL_001", resp.ErrorCode)
}

func TestError_UnknownError(t *testing.T) {
	c, w := setupTestContext()

	Error(c, fmt.Errorf("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_000", resp.ErrorCode)
	// Internal details never leak to the client.
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestError_GeneratesRequestIDWhenMissing(t *testing.T) {
	c, w := setupTestContext()

	Error(c, apperror.Validation("bad input"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
}
