package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Handler_ListOrders(t *testing.T) {
	shipped := *testOrder()
	shipped.ID, shipped.Number, shipped.Status = "1001", "MH-1001", order.StatusShipped
	confirmed := *testOrder()

	testCases := []struct {
		name           string
		mockService    mockOrderService
		query          string
		expectedCode   int
		expectedCalled string
		expectedBody   string
	}{
		{
			name:           "Success - all orders",
			mockService:    mockOrderService{orders: []order.Order{confirmed, shipped}},
			expectedCode:   http.StatusOK,
			expectedCalled: "FindAll",
			expectedBody:   toJSON(t, toOrderDtos([]order.Order{confirmed, shipped})),
		},
		{
			name:           "Success - no orders",
			mockService:    mockOrderService{orders: []order.Order{}},
			expectedCode:   http.StatusOK,
			expectedCalled: "FindAll",
			expectedBody:   `[]`,
		},
		{
			name:           "Success - by status",
			mockService:    mockOrderService{orders: []order.Order{shipped}},
			query:          "?status=shipped",
			expectedCode:   http.StatusOK,
			expectedCalled: "FindByStatus",
			expectedBody:   toJSON(t, toOrderDtos([]order.Order{shipped})),
		},
		{
			name:           "Success - by email",
			mockService:    mockOrderService{orders: []order.Order{confirmed, shipped}},
			query:          "?email=AIKO@example.com",
			expectedCode:   http.StatusOK,
			expectedCalled: "FindByEmail",
			expectedBody:   toJSON(t, toOrderDtos([]order.Order{confirmed, shipped})),
		},
		{
			name:           "Success - by email and status",
			mockService:    mockOrderService{orders: []order.Order{confirmed, shipped}},
			query:          "?email=aiko@example.com&status=shipped",
			expectedCode:   http.StatusOK,
			expectedCalled: "FindByEmail",
			expectedBody:   toJSON(t, toOrderDtos([]order.Order{shipped})),
		},
		{
			name:         "Fail - unknown status",
			query:        "?status=lost",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: `malformed input: unknown order status: "lost"`}),
		},
		{
			name:           "Fail - service error",
			mockService:    mockOrderService{error: errors.New("store down")},
			expectedCode:   http.StatusInternalServerError,
			expectedCalled: "FindAll",
			expectedBody:   toJSON(t, ErrorResponse{Error: "Failed to fetch orders"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			h := NewHandler(nil, nil, nil, &tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders"+tc.query, nil)
			rr := httptest.NewRecorder()

			// when
			newRouter(h).ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedCalled, tc.mockService.called)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_FindOrder(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order found",
			mockService:  mockOrderService{order: testOrder()},
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, toOrderDto(testOrder())),
		},
		{
			name:         "Fail - order not found",
			mockService:  mockOrderService{error: fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, "1000")},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "order not found: 1000"}),
		},
		{
			name:         "Fail - service error",
			mockService:  mockOrderService{error: errors.New("boom")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to retrieve order with ID 1000"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			h := NewHandler(nil, nil, nil, &tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/1000", nil)
			req.SetPathValue("id", "1000")
			rr := httptest.NewRecorder()

			// when
			h.FindOrder(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_UpdateOrder(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		body         string
		expectedCode int
		expectedBody string
		checkPatch   func(t *testing.T, p order.Patch)
	}{
		{
			name:         "Success - status changed",
			mockService:  mockOrderService{order: testOrder()},
			body:         `{"status":"shipped"}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, toOrderDto(testOrder())),
			checkPatch: func(t *testing.T, p order.Patch) {
				require.NotNil(t, p.Status)
				assert.Equal(t, order.StatusShipped, *p.Status)
				assert.Nil(t, p.ShippingAddress)
			},
		},
		{
			name:         "Success - shipping address changed",
			mockService:  mockOrderService{order: testOrder()},
			body:         `{"shippingAddress":{"firstName":"Ken","lastName":"Sato","address":"2 Elm St","city":"Salem","state":"OR","zip":"97301"}}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, toOrderDto(testOrder())),
			checkPatch: func(t *testing.T, p order.Patch) {
				assert.Nil(t, p.Status)
				require.NotNil(t, p.ShippingAddress)
				assert.Equal(t, order.Address{
					FirstName: "Ken", LastName: "Sato", Address: "2 Elm St", City: "Salem", State: "OR", Zip: "97301",
				}, *p.ShippingAddress)
			},
		},
		{
			name:         "Fail - unknown status",
			body:         `{"status":"lost"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: `malformed input: unknown order status: "lost"`}),
		},
		{
			name:         "Fail - invalid body",
			body:         `[]`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Fail - order not found",
			mockService:  mockOrderService{error: fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, "1000")},
			body:         `{"status":"shipped"}`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "order not found: 1000"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			h := NewHandler(nil, nil, nil, &tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/1000", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			newRouter(h).ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			if tc.checkPatch != nil {
				tc.checkPatch(t, tc.mockService.patch)
			}
		})
	}
}

func Test_Handler_DeleteOrder(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order deleted",
			mockService:  mockOrderService{order: testOrder()},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Fail - order not found",
			mockService:  mockOrderService{error: fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, "1000")},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "order not found: 1000"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			h := NewHandler(nil, nil, nil, &tc.mockService, discardLogger())
			rr := httptest.NewRecorder()

			// when
			newRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/orders/1000", nil))

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody == "" {
				assert.Empty(t, rr.Body.String())
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
