package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "Successfully create order",
			body:           validOrderBody(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.NotEmpty(t, data["id"])
				assert.Equal(t, "Ana", data["name"])
				assert.Equal(t, "ana@x.com", data["email"])
				assert.Equal(t, "dress1", data["dressId"])
				assert.Equal(t, float64(2), data["quantity"])
				assert.Equal(t, "received", data["status"])
				assert.NotEmpty(t, data["createdAt"])
				assert.NotContains(t, data, "cancelledAt")
				assert.NotContains(t, data, "completedAt")
			},
		},
		{
			name: "Quantity as numeric string",
			body: func() map[string]interface{} {
				b := validOrderBody()
				b["quantity"] = "3"
				return b
			}(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(3), data["quantity"])
			},
		},
		{
			name: "Fail with missing name",
			body: func() map[string]interface{} {
				b := validOrderBody()
				delete(b, "name")
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with zero quantity",
			body: func() map[string]interface{} {
				b := validOrderBody()
				b["quantity"] = 0
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with malformed JSON",
			body:           `{"name": `,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with empty body",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupControllerTest(t)

			w, response := env.do(t, http.MethodPost, "/api/v1/orders", tt.body, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedError, errorCode(t, response))
				return
			}
			assert.True(t, response["success"].(bool))
			tt.checkResponse(t, response["data"].(map[string]interface{}))
		})
	}
}

func TestListOrders(t *testing.T) {
	env := setupControllerTest(t)
	env.createOrder(t, "ana@x.com")
	env.createOrder(t, "bob@x.com")
	env.createOrder(t, "Ana@X.com")
	admin := env.adminToken(t)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		expectedCount  int
		expectedError  string
	}{
		{"Admin sees every order", "/api/v1/orders", admin, http.StatusOK, 3, ""},
		{"Customer sees own orders", "/api/v1/orders?email=ana@x.com", "", http.StatusOK, 2, ""},
		{"Email match is case-insensitive", "/api/v1/orders?email=BOB@x.com", "", http.StatusOK, 1, ""},
		{"Unknown email sees nothing", "/api/v1/orders?email=eve@x.com", "", http.StatusOK, 0, ""},
		{"Invalid token falls back to email", "/api/v1/orders?email=bob@x.com", "bogus", http.StatusOK, 1, ""},
		{"No token and no email", "/api/v1/orders", "", http.StatusUnauthorized, 0, "UNAUTHORIZED"},
		{"Invalid token and no email", "/api/v1/orders", "bogus", http.StatusUnauthorized, 0, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodGet, tt.path, nil, tt.token)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, response))
				return
			}
			data, ok := response["data"].([]interface{})
			require.True(t, ok, "data should be an array")
			assert.Len(t, data, tt.expectedCount)
		})
	}
}

func TestListOrdersBearerToken(t *testing.T) {
	env := setupControllerTest(t)
	env.createOrder(t, "ana@x.com")
	env.createOrder(t, "bob@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+env.adminToken(t))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"], 2)
}

func TestCancelOrder(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.adminToken(t)

	t.Run("Owner cancels own order", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, response := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", map[string]string{"email": "ANA@x.com"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "cancelled", data["status"])
		assert.NotEmpty(t, data["cancelledAt"])
	})

	t.Run("Cancelling twice is a no-op", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")
		_, first := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", map[string]string{"email": "ana@x.com"}, "")

		w, second := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", map[string]string{"email": "ana@x.com"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			first["data"].(map[string]interface{})["cancelledAt"],
			second["data"].(map[string]interface{})["cancelledAt"])
	})

	t.Run("Admin cancels without a body", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, response := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil, admin)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "cancelled", response["data"].(map[string]interface{})["status"])
	})

	t.Run("Email from query string", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, _ := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel?email=ana@x.com", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Other customer is forbidden", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, response := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", map[string]string{"email": "bob@x.com"}, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, response))
	})

	t.Run("No email is forbidden", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, _ := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown order", func(t *testing.T) {
		w, response := env.do(t, http.MethodPost, "/api/v1/orders/missing/cancel", map[string]string{"email": "ana@x.com"}, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, response))
	})
}

func TestEditOrder(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.adminToken(t)
	id := env.createOrder(t, "ana@x.com")

	tests := []struct {
		name           string
		path           string
		body           any
		token          string
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "Admin edits fields",
			path:           "/api/v1/orders/" + id + "/edit",
			body:           map[string]interface{}{"name": "Ana B", "quantity": 4, "notes": "gift wrap", "createdAt": "1999-01-01T00:00:00Z"},
			token:          admin,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "Ana B", data["name"])
				assert.Equal(t, float64(4), data["quantity"])
				assert.Equal(t, "gift wrap", data["notes"])
				assert.NotEqual(t, "1999-01-01T00:00:00Z", data["createdAt"], "createdAt is not editable")
				assert.NotEmpty(t, data["updatedAt"])
			},
		},
		{
			name:           "Customer is forbidden",
			path:           "/api/v1/orders/" + id + "/edit",
			body:           map[string]interface{}{"name": "Mallory"},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:           "Invalid quantity",
			path:           "/api/v1/orders/" + id + "/edit",
			body:           map[string]interface{}{"quantity": -2},
			token:          admin,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Unknown status",
			path:           "/api/v1/orders/" + id + "/edit",
			body:           map[string]interface{}{"status": "shipped"},
			token:          admin,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Body is not an object",
			path:           "/api/v1/orders/" + id + "/edit",
			body:           `["name"]`,
			token:          admin,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Unknown order",
			path:           "/api/v1/orders/missing/edit",
			body:           map[string]interface{}{"name": "x"},
			token:          admin,
			expectedStatus: http.StatusNotFound,
			expectedError:  "ORDER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodPost, tt.path, tt.body, tt.token)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, response))
				return
			}
			tt.checkResponse(t, response["data"].(map[string]interface{}))
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.adminToken(t)

	t.Run("Admin completes an order", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")

		w, response := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/status", map[string]string{"status": "completed"}, admin)

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "completed", data["status"])
		assert.NotEmpty(t, data["completedAt"])
		assert.NotEmpty(t, data["updatedAt"])
	})

	t.Run("Admin reopens a cancelled order", func(t *testing.T) {
		id := env.createOrder(t, "ana@x.com")
		env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel", map[string]string{"email": "ana@x.com"}, "")

		w, response := env.do(t, http.MethodPost, "/api/v1/orders/"+id+"/status", map[string]string{"status": "received"}, admin)

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "received", data["status"])
		assert.NotEmpty(t, data["cancelledAt"], "cancelledAt is kept as history")
	})

	errorCases := []struct {
		name           string
		path           string
		body           any
		token          string
		expectedStatus int
		expectedError  string
	}{
		{"Customer is forbidden", "/api/v1/orders/x/status", map[string]string{"status": "completed"}, "", http.StatusForbidden, "FORBIDDEN"},
		{"Missing status", "/api/v1/orders/x/status", map[string]string{}, admin, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Unknown status", "/api/v1/orders/x/status", map[string]string{"status": "shipped"}, admin, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Unknown order", "/api/v1/orders/missing/status", map[string]string{"status": "completed"}, admin, http.StatusNotFound, "ORDER_NOT_FOUND"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodPost, tt.path, tt.body, tt.token)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, errorCode(t, response))
		})
	}
}

func TestOrderEndpointsPersistenceFailure(t *testing.T) {
	env := setupControllerTestWithStore(t, failingStore{})
	admin := env.adminToken(t)

	w, response := env.do(t, http.MethodPost, "/api/v1/orders", validOrderBody(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PERSISTENCE_ERROR", errorCode(t, response))
	assert.NotContains(t, w.Body.String(), "storage offline", "Underlying cause should not leak")

	w, response = env.do(t, http.MethodGet, "/api/v1/orders", nil, admin)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PERSISTENCE_ERROR", errorCode(t, response))
}
