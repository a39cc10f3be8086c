package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/inventory-service/internal/apperror"
	"github.com/atelierhq/inventory-service/internal/auth"
	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/item/handler"
	"github.com/atelierhq/inventory-service/internal/model"
	"github.com/atelierhq/inventory-service/pkg/logger"
)

const testSecret = "test-secret"

type fakeUseCase struct {
	listResult  []model.Item
	listErr     error
	lastFilters *dto.ItemFilters

	adjustResult *model.Item
	adjustErr    error
	lastInput    *dto.AdjustStockInput

	txResult []model.StockTransaction
	txErr    error
	lastTxF  *dto.TransactionFilters
}

func (f *fakeUseCase) List(_ context.Context, filters *dto.ItemFilters) ([]model.Item, error) {
	f.lastFilters = filters
	return f.listResult, f.listErr
}

func (f *fakeUseCase) AdjustStock(_ context.Context, input *dto.AdjustStockInput) (*model.Item, error) {
	f.lastInput = input
	return f.adjustResult, f.adjustErr
}

func (f *fakeUseCase) ListTransactions(_ context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	f.lastTxF = filters
	return f.txResult, len(f.txResult), f.txErr
}

func newServer(uc *fakeUseCase) *httptest.Server {
	h := handler.NewItemHandler(uc, logger.NewNop())
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware(testSecret))
		h.Register(api)
	})
	return httptest.NewServer(r)
}

func signToken(t *testing.T, subject, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	res.Body.Close()
	return res, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func Test_Auth_MissingToken(t *testing.T) {
	srv := newServer(&fakeUseCase{})
	defer srv.Close()

	res, body := doRequest(t, http.MethodGet, srv.URL+"/api/items", "", "")

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, string(apperror.KindUnauthorized), errorCode(body))
}

func Test_Auth_InvalidToken(t *testing.T) {
	srv := newServer(&fakeUseCase{})
	defer srv.Close()

	wrongSecret := signToken(t, "user-1", "other-secret")
	res, body := doRequest(t, http.MethodGet, srv.URL+"/api/items", wrongSecret, "")

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, string(apperror.KindUnauthorized), errorCode(body))
}

func Test_ListItems_ParsesFilters(t *testing.T) {
	uc := &fakeUseCase{listResult: []model.Item{}}
	srv := newServer(uc)
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	res, _ := doRequest(t, http.MethodGet,
		srv.URL+"/api/items?search=oak&category_id=2&low_stock_only=true", token, "")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, uc.lastFilters)
	assert.Equal(t, "oak", uc.lastFilters.Search)
	require.NotNil(t, uc.lastFilters.CategoryID)
	assert.Equal(t, int64(2), *uc.lastFilters.CategoryID)
	assert.True(t, uc.lastFilters.LowStockOnly)
}

func Test_ListItems_EmptyResultIsJSONArray(t *testing.T) {
	uc := &fakeUseCase{listResult: nil}
	srv := newServer(uc)
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/items", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var items []model.Item
	require.NoError(t, json.NewDecoder(res.Body).Decode(&items))
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func Test_ListItems_InvalidCategoryID(t *testing.T) {
	srv := newServer(&fakeUseCase{})
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	res, body := doRequest(t, http.MethodGet, srv.URL+"/api/items?category_id=abc", token, "")

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, string(apperror.KindValidation), errorCode(body))
}

func Test_ListItems_InvalidLowStockFlag(t *testing.T) {
	srv := newServer(&fakeUseCase{})
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	res, body := doRequest(t, http.MethodGet, srv.URL+"/api/items?low_stock_only=maybe", token, "")

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, string(apperror.KindValidation), errorCode(body))
}

func Test_AdjustStock_Success(t *testing.T) {
	uc := &fakeUseCase{
		adjustResult: &model.Item{ID: 1, Name: "Oak board", CurrentStock: 7, MinStock: 5},
	}
	srv := newServer(uc)
	defer srv.Close()

	token := signToken(t, "user-42", testSecret)
	res, body := doRequest(t, http.MethodPost, srv.URL+"/api/items/1/adjust", token,
		`{"delta": -3, "notes": "broken in transit"}`)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(7), body["current_stock"])

	require.NotNil(t, uc.lastInput)
	assert.Equal(t, int64(1), uc.lastInput.ItemID)
	assert.Equal(t, int64(-3), uc.lastInput.Delta)
	assert.Equal(t, "broken in transit", uc.lastInput.Notes)
	assert.Equal(t, model.TxTypeAdjustment, uc.lastInput.Type)
	assert.Equal(t, "user-42", uc.lastInput.UserID, "acting user comes from the token subject")
}

func Test_AdjustStock_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		url  string
		body string
	}{
		{name: "missing_delta", url: "/api/items/1/adjust", body: `{"notes": "x"}`},
		{name: "wrong_delta_type", url: "/api/items/1/adjust", body: `{"delta": "three"}`},
		{name: "unknown_field", url: "/api/items/1/adjust", body: `{"delta": 1, "count": 2}`},
		{name: "malformed_json", url: "/api/items/1/adjust", body: `{"delta":`},
		{name: "non_integer_item_id", url: "/api/items/abc/adjust", body: `{"delta": 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			srv := newServer(uc)
			defer srv.Close()

			token := signToken(t, "user-1", testSecret)
			res, body := doRequest(t, http.MethodPost, srv.URL+tc.url, token, tc.body)

			assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
			assert.Equal(t, string(apperror.KindValidation), errorCode(body))
			assert.Nil(t, uc.lastInput, "business logic must not run on invalid input")
		})
	}
}

func Test_AdjustStock_BusinessErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperror.Kind
	}{
		{
			name:       "not_found",
			err:        apperror.New(apperror.KindNotFound, "item not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperror.KindNotFound,
		},
		{
			name:       "negative_stock",
			err:        apperror.Newf(apperror.KindBadRequest, "cannot adjust stock by %d: current stock is %d", -20, 10),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperror.KindBadRequest,
		},
		{
			name:       "conflict",
			err:        apperror.New(apperror.KindConflict, "item is busy, please try again"),
			wantStatus: http.StatusConflict,
			wantCode:   apperror.KindConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(&fakeUseCase{adjustErr: tc.err})
			defer srv.Close()

			token := signToken(t, "user-1", testSecret)
			res, body := doRequest(t, http.MethodPost, srv.URL+"/api/items/1/adjust", token, `{"delta": -20}`)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, string(tc.wantCode), errorCode(body))
		})
	}
}

func Test_AdjustStock_NegativeStockMessageNamesDeltaAndStock(t *testing.T) {
	srv := newServer(&fakeUseCase{
		adjustErr: apperror.Newf(apperror.KindBadRequest, "cannot adjust stock by %d: current stock is %d", -20, 10),
	})
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	_, body := doRequest(t, http.MethodPost, srv.URL+"/api/items/1/adjust", token, `{"delta": -20}`)

	errObj := body["error"].(map[string]any)
	message := errObj["message"].(string)
	assert.Contains(t, message, "-20")
	assert.Contains(t, message, "10")
}

func Test_ListTransactions(t *testing.T) {
	notes := "recount"
	uc := &fakeUseCase{
		txResult: []model.StockTransaction{
			{ID: 1, ItemID: 1, Type: model.TxTypeAdjustment, Quantity: -3, Notes: &notes},
		},
	}
	srv := newServer(uc)
	defer srv.Close()

	token := signToken(t, "user-1", testSecret)
	res, body := doRequest(t, http.MethodGet,
		srv.URL+"/api/items/1/transactions?type=adjustment&page=2&page_size=10", token, "")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	require.NotNil(t, uc.lastTxF)
	assert.Equal(t, int64(1), uc.lastTxF.ItemID)
	assert.Equal(t, model.TxTypeAdjustment, uc.lastTxF.Type)
	assert.Equal(t, 2, uc.lastTxF.Page)
	assert.Equal(t, 10, uc.lastTxF.PageSize)
}
