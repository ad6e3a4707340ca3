package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinarex/internal/domain"
	"dinarex/internal/order"
	"dinarex/internal/pricing"
	"dinarex/pkg/errors"
	"dinarex/pkg/logger"
	"dinarex/pkg/validator"
)

// stubRepository records created orders in memory.
type stubRepository struct {
	created   []*domain.Order
	createErr error
	orders    map[uuid.UUID]*domain.Order
}

func newStubRepository() *stubRepository {
	return &stubRepository{orders: map[uuid.UUID]*domain.Order{}}
}

func (r *stubRepository) Create(ctx context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, o)
	r.orders[o.ID] = o
	return nil
}

func (r *stubRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.ErrOrderNotFound
	}
	return o, nil
}

func (r *stubRepository) FindByReference(ctx context.Context, ref string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.Reference == ref {
			return o, nil
		}
	}
	return nil, errors.ErrOrderNotFound
}

func (r *stubRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return r.created, nil
}

func (r *stubRepository) CountAll(ctx context.Context) (int, error) {
	return len(r.created), nil
}

func (r *stubRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return errors.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func newOrderTestHandler(repo order.Repository) *OrderHandler {
	service := order.NewService(
		repo, nil, nil, nil,
		pricing.DefaultCatalog(),
		decimal.RequireFromString("29.99"),
		nil,
		logger.NewNop(),
	)
	return NewOrderHandler(service, validator.New(), logger.NewNop())
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"personalInfo": map[string]interface{}{
			"fullName": "Jane Citizen",
			"email":    "jane@example.com",
			"mobile":   "0412345678",
			"country":  "Australia",
			"address":  "1 Collins St",
			"city":     "Melbourne",
			"state":    "VIC",
			"postcode": "3000",
		},
		"orderDetails": map[string]interface{}{
			"currency": "25,000 IQD - $186 AUD",
			"quantity": 2,
		},
		"verification": map[string]interface{}{
			"skipIdUpload": true,
			"acceptTerms":  true,
		},
		"payment": map[string]interface{}{
			"method":      "bank_transfer",
			"skipReceipt": true,
		},
	}
}

func postCreate(t *testing.T, h *OrderHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestOrderCreate_Success(t *testing.T) {
	repo := newStubRepository()
	h := newOrderTestHandler(repo)

	rec := postCreate(t, h, validCreateBody())

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.NotEmpty(t, resp["id"])
	assert.Contains(t, resp["reference"], "ORD-")

	require.Len(t, repo.created, 1)
	// 186 × 2 + 19.99 shipping to Australia.
	assert.True(t, repo.created[0].TotalAmount.Equal(decimal.RequireFromString("391.99")),
		"got %s", repo.created[0].TotalAmount)
}

func TestOrderCreate_ValidationErrors(t *testing.T) {
	h := newOrderTestHandler(newStubRepository())

	body := validCreateBody()
	body["personalInfo"].(map[string]interface{})["email"] = "not-an-email"
	body["personalInfo"].(map[string]interface{})["mobile"] = "123"

	rec := postCreate(t, h, body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fields := resp["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "mobile")
}

func TestOrderCreate_UnknownCurrency(t *testing.T) {
	repo := newStubRepository()
	h := newOrderTestHandler(repo)

	body := validCreateBody()
	body["orderDetails"].(map[string]interface{})["currency"] = "5 IQD - $1 AUD"

	rec := postCreate(t, h, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.created)
}

func TestOrderCreate_DuplicateReference(t *testing.T) {
	repo := newStubRepository()
	repo.createErr = errors.ErrOrderAlreadyExists
	h := newOrderTestHandler(repo)

	rec := postCreate(t, h, validCreateBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderCreate_MalformedBody(t *testing.T) {
	h := newOrderTestHandler(newStubRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderNotify_UnknownOrder(t *testing.T) {
	h := newOrderTestHandler(newStubRepository())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/notify", id), nil)
	req = mux.SetURLVars(req, map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.Notify(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderUpdateStatus(t *testing.T) {
	repo := newStubRepository()
	h := newOrderTestHandler(repo)

	rec := postCreate(t, h, validCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := repo.created[0]

	body := bytes.NewBufferString(`{"status":"shipped"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/staff/orders/"+created.ID.String()+"/status", body)
	req = mux.SetURLVars(req, map[string]string{"id": created.ID.String()})
	rec = httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderStatusShipped, created.Status)
}

func TestOrderUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newStubRepository()
	h := newOrderTestHandler(repo)

	id := uuid.New()
	body := bytes.NewBufferString(`{"status":"exploded"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/staff/orders/"+id.String()+"/status", body)
	req = mux.SetURLVars(req, map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderList_Pagination(t *testing.T) {
	repo := newStubRepository()
	h := newOrderTestHandler(repo)

	for i := 0; i < 3; i++ {
		rec := postCreate(t, h, validCreateBody())
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/orders?limit=2&offset=0", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["total"])
	assert.Equal(t, float64(2), resp["limit"])
}
