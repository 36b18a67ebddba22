package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/handlers"
	"github.com/ammerola/pantry-be/internal/handlers/middleware"
	"github.com/ammerola/pantry-be/test/helpers"
	"github.com/ammerola/pantry-be/test/mocks"
)

const testNamespace = "user-1"

func authed(req *http.Request) *http.Request {
	session := &domain.Session{Token: "tok", UserID: testNamespace, Email: "a@example.com"}
	return req.WithContext(middleware.WithSession(req.Context(), session))
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(body, &response))
	return response["error"]
}

func TestInventoryHandler_GetItem(t *testing.T) {
	rice := helpers.CreateTestItem()

	tests := []struct {
		name           string
		itemName       string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:     "successfully_retrieves_item",
			itemName: "rice",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().Get(gomock.Any(), testNamespace, "rice").Return(&rice, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var item domain.Item
				require.NoError(t, json.Unmarshal(body, &item))
				assert.Equal(t, "rice", item.Name)
				assert.Equal(t, 2, item.Quantity)
			},
		},
		{
			name:     "item_not_found",
			itemName: "beans",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().Get(gomock.Any(), testNamespace, "beans").Return(nil, domain.ErrItemNotFound)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Item not found", decodeError(t, body))
			},
		},
		{
			name:     "store_unavailable",
			itemName: "rice",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().Get(gomock.Any(), testNamespace, "rice").
					Return(nil, domain.NewStoreError("get", errors.New("dial tcp: connection refused")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			validateBody: func(t *testing.T, body []byte) {
				msg := decodeError(t, body)
				assert.Equal(t, "Storage is temporarily unavailable", msg)
				assert.NotContains(t, msg, "dial tcp")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			tt.setupMocks(mockService)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+tt.itemName, nil))
			req.SetPathValue("name", tt.itemName)
			w := httptest.NewRecorder()

			handler.GetItem(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestInventoryHandler_ListItems(t *testing.T) {
	items := helpers.CreateTestItems(3)

	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name:  "search_text_passed_verbatim",
			query: "?search=%20item%20&category=Food",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ListFiltered(gomock.Any(), testNamespace, " item ", "Food").Return(items[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name: "no_filters",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ListFiltered(gomock.Any(), testNamespace, "", "").Return(items, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  3,
		},
		{
			name: "empty_list_is_an_array",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ListFiltered(gomock.Any(), testNamespace, "", "").Return([]domain.Item{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			tt.setupMocks(mockService)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			w := httptest.NewRecorder()
			handler.ListItems(w, authed(httptest.NewRequest(http.MethodGet, "/api/v1/items"+tt.query, nil)))

			require.Equal(t, tt.expectedStatus, w.Code)
			var response struct {
				Items []domain.Item `json:"items"`
				Count int           `json:"count"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedCount, response.Count)
			assert.NotNil(t, response.Items)
			assert.Len(t, response.Items, tt.expectedCount)
		})
	}
}

func TestInventoryHandler_AddItem(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		setupMocks       func(*mocks.MockInventoryService)
		expectedStatus   int
		expectedQuantity int
		expectedError    string
	}{
		{
			name: "creates_new_item",
			body: `{"name":" rice ","category":"Food"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().AddOne(gomock.Any(), testNamespace, " rice ", "Food").Return(1, nil)
			},
			expectedStatus:   http.StatusCreated,
			expectedQuantity: 1,
		},
		{
			name: "increments_existing_item",
			body: `{"name":"rice","category":"Food"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().AddOne(gomock.Any(), testNamespace, "rice", "Food").Return(3, nil)
			},
			expectedStatus:   http.StatusOK,
			expectedQuantity: 3,
		},
		{
			name: "empty_name_rejected",
			body: `{"name":"   ","category":"Food"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().AddOne(gomock.Any(), testNamespace, "   ", "Food").
					Return(0, domain.NewValidationError("name", "item name is required"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "item name is required",
		},
		{
			name:           "malformed_body",
			body:           `{"name":`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "missing_body",
			body:           "",
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Request body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			tt.setupMocks(mockService)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(tt.body)))
			w := httptest.NewRecorder()

			handler.AddItem(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w.Body.Bytes()))
				return
			}
			var response handlers.QuantityResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "rice", response.Name)
			assert.Equal(t, tt.expectedQuantity, response.Quantity)
		})
	}
}

func TestInventoryHandler_RemoveOne(t *testing.T) {
	tests := []struct {
		name           string
		remaining      int
		err            error
		expectedStatus int
		expectDeleted  bool
	}{
		{name: "decrements", remaining: 2, expectedStatus: http.StatusOK},
		{name: "deletes_last_unit", remaining: 0, expectedStatus: http.StatusOK, expectDeleted: true},
		{name: "missing_item", err: domain.ErrItemNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			mockService.EXPECT().RemoveOneOrDelete(gomock.Any(), testNamespace, "rice").Return(tt.remaining, tt.err)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/items/rice/remove-one", nil))
			req.SetPathValue("name", "rice")
			w := httptest.NewRecorder()

			handler.RemoveOne(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.err != nil {
				return
			}
			var response handlers.QuantityResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.remaining, response.Quantity)
			assert.Equal(t, tt.expectDeleted, response.Deleted)
		})
	}
}

func TestInventoryHandler_DeleteItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	mockService.EXPECT().RemoveAll(gomock.Any(), testNamespace, "rice").Return(nil)
	handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

	req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/items/rice", nil))
	req.SetPathValue("name", "rice")
	w := httptest.NewRecorder()

	handler.DeleteItem(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestInventoryHandler_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	summary := domain.Summarize(helpers.CreateTestItems(4))
	mockService.EXPECT().Summary(gomock.Any(), testNamespace).Return(&summary, nil)
	handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

	w := httptest.NewRecorder()
	handler.Summary(w, authed(httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	var response domain.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 4, response.TotalItems)
	assert.Len(t, response.Categories, 4)
}

func TestInventoryHandler_RequiresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := handlers.NewInventoryHandler(mocks.NewMockInventoryService(ctrl), helpers.TestLogger())

	w := httptest.NewRecorder()
	handler.ListItems(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInventoryHandler_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := handlers.NewInventoryHandler(mocks.NewMockInventoryService(ctrl), helpers.TestLogger())

	w := httptest.NewRecorder()
	handler.Categories(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"Food", "Electronics", "Clothing", "Books"}, response["categories"])
	assert.Equal(t, "All", response["filters"][0])
}
