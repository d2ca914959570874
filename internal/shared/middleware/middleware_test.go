package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(handlers []gin.HandlerFunc, headers map[string]string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()

	var captured *gin.Context
	engine := gin.New()
	engine.GET("/probe", append(handlers, func(c *gin.Context) {
		captured = c
		c.Status(http.StatusOK)
	})...)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	engine.ServeHTTP(recorder, req)

	return recorder, captured
}

func TestRequireCaller_MissingHeader(t *testing.T) {
	recorder, _ := performRequest([]gin.HandlerFunc{RequireCaller()}, nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireCaller_InvalidUUID(t *testing.T) {
	recorder, _ := performRequest([]gin.HandlerFunc{RequireCaller()}, map[string]string{
		HeaderUserID: "not-a-uuid",
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireCaller_SetsIdentity(t *testing.T) {
	userID := uuid.New()
	recorder, captured := performRequest([]gin.HandlerFunc{RequireCaller()}, map[string]string{
		HeaderUserID: userID.String(),
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	callerID, ok := CallerID(captured)
	require.True(t, ok)
	assert.Equal(t, userID, callerID)
	assert.False(t, IsAdmin(captured), "role defaults to USER")
}

func TestRequireAdmin_ForbidsRegularUser(t *testing.T) {
	recorder, _ := performRequest([]gin.HandlerFunc{RequireCaller(), RequireAdmin()}, map[string]string{
		HeaderUserID:   uuid.NewString(),
		HeaderUserRole: "USER",
	})

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	recorder, captured := performRequest([]gin.HandlerFunc{RequireCaller(), RequireAdmin()}, map[string]string{
		HeaderUserID:   uuid.NewString(),
		HeaderUserRole: "ADMIN",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, IsAdmin(captured))
}

func TestCallerID_WithoutMiddleware(t *testing.T) {
	recorder, captured := performRequest(nil, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	_, ok := CallerID(captured)
	assert.False(t, ok)
}
