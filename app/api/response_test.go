package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/globeguide/models"
)

func TestAPIResponses(t *testing.T) {
	t.Run("SuccessResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		data := map[string]string{"key": "value"}
		SuccessResponse(c, http.StatusOK, "Success message", data)

		assert.Equal(t, http.StatusOK, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "Success message", response.Message)
		assert.NotNil(t, response.Data)
		assert.Nil(t, response.Error)
	})

	t.Run("SuccessResponseWithMeta", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		data := []string{"item1", "item2"}
		meta := ListMeta{Count: 2}
		SuccessResponseWithMeta(c, http.StatusOK, "Success with meta", data, meta)

		assert.Equal(t, http.StatusOK, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "Success with meta", response.Message)
		assert.NotNil(t, response.Data)
		assert.NotNil(t, response.Meta)
		assert.Nil(t, response.Error)
	})

	t.Run("ErrorResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		details := map[string]string{"field": "error"}
		ErrorResponse(c, http.StatusBadRequest, "TEST_ERROR", "Test error message", details)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.NotNil(t, response.Error)
		assert.Equal(t, "TEST_ERROR", response.Error.Code)
		assert.Equal(t, "Test error message", response.Error.Message)
		assert.NotNil(t, response.Error.Details)
	})

	t.Run("BadRequestResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		details := "Invalid email format"
		BadRequestResponse(c, details)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "BAD_REQUEST", response.Error.Code)
		assert.Equal(t, "Invalid request data", response.Error.Message)
	})

	t.Run("NotFoundResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		NotFoundResponse(c, "User")

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "NOT_FOUND", response.Error.Code)
		assert.Equal(t, "User not found", response.Error.Message)
	})

	t.Run("UnauthorizedResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		UnauthorizedResponse(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "UNAUTHORIZED", response.Error.Code)
		assert.Equal(t, "Unauthorized access", response.Error.Message)
	})

	t.Run("ForbiddenResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		ForbiddenResponse(c, "Access denied")

		assert.Equal(t, http.StatusForbidden, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "FORBIDDEN", response.Error.Code)
		assert.Equal(t, "Access denied", response.Error.Message)
	})

	t.Run("InternalErrorResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		InternalErrorResponse(c, "Database connection failed")

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "INTERNAL_ERROR", response.Error.Code)
		assert.Equal(t, "Database connection failed", response.Error.Message)
	})

	t.Run("UpstreamErrorResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		UpstreamErrorResponse(c, "Country source unavailable")

		assert.Equal(t, http.StatusBadGateway, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "UPSTREAM_ERROR", response.Error.Code)
	})

	t.Run("ConflictResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		ConflictResponse(c, "Email already exists")

		assert.Equal(t, http.StatusConflict, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Success)
		assert.Equal(t, "CONFLICT", response.Error.Code)
		assert.Equal(t, "Email already exists", response.Error.Message)
	})

	t.Run("CreatedResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		data := map[string]string{"id": "123"}
		CreatedResponse(c, "Resource created", data)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "Resource created", response.Message)
	})

	t.Run("UpdatedResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		data := map[string]string{"id": "123"}
		UpdatedResponse(c, "Resource updated", data)

		assert.Equal(t, http.StatusOK, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "Resource updated", response.Message)
	})

	t.Run("ListResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		data := []string{"item1", "item2", "item3"}
		ListResponse(c, "Items retrieved", data, 3)

		assert.Equal(t, http.StatusOK, w.Code)

		var response Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "Items retrieved", response.Message)
		assert.NotNil(t, response.Meta)

		metaBytes, _ := json.Marshal(response.Meta)
		var listMeta ListMeta
		json.Unmarshal(metaBytes, &listMeta)
		assert.Equal(t, 3, listMeta.Count)
	})
}

func TestDomainErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", models.NewValidationError(map[string]string{"email": "must be provided"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", fmt.Errorf("find: %w", models.ErrRecordNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"revoked", models.ErrTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate", models.ErrDuplicateEmail, http.StatusConflict, "CONFLICT"},
		{"upstream", &models.NetworkError{Op: "fetch all countries", Status: 500}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			DomainErrorResponse(c, tt.err, "Profile")

			assert.Equal(t, tt.status, w.Code)
			var response Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			require.NotNil(t, response.Error)
			assert.Equal(t, tt.code, response.Error.Code)
		})
	}

	t.Run("validation details carry fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		DomainErrorResponse(c, models.NewValidationError(map[string]string{"email": "must be provided"}), "User")

		var body struct {
			Error struct {
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "must be provided", body.Error.Details["email"])
	})
}
