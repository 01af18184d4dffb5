package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/CRM-api/internal/interfaces/http"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// newAPI monta el router completo sobre el almacenamiento en memoria.
func newAPI(t *testing.T) (*fiber.App, string) {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	settings := crm.Settings{
		Tax:          quote.TaxPolicy{DefaultRate: decimal.RequireFromString("0.20")},
		ValidityDays: 30,
		NumberPrefix: "DEV",
	}
	metrics := crm.NewContactMetricsUseCase(store, nil, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ContactUC:   crm.NewContactUseCase(store, store.Repos(), nil, log),
		MetricsUC:   metrics,
		QuoteUC:     crm.NewQuoteUseCase(store, settings, nil, log),
		LifecycleUC: crm.NewQuoteLifecycleUseCase(store, settings, metrics, nil, nil, nil, log),
		ArchivalUC:  crm.NewArchivalUseCase(store, metrics, nil, log),
		FollowUpUC:  crm.NewFollowUpUseCase(store, nil, log),
		JWTSecret:   testJWTSecret,
	})
	return app, bearer(t, testUserID)
}

func call(t *testing.T, app *fiber.App, auth, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func createContact(t *testing.T, app *fiber.App, auth string) string {
	t.Helper()
	status, raw := call(t, app, auth, http.MethodPost, "/api/contacts", map[string]any{
		"first_name": "Ana", "last_name": "López", "email": "ANA@example.com",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ContactResponse](t, raw).ID
}

func createQuote(t *testing.T, app *fiber.App, auth, contactID string, items ...map[string]any) dto.QuoteResponse {
	t.Helper()
	status, raw := call(t, app, auth, http.MethodPost, "/api/quotes", map[string]any{
		"contact_id": contactID, "title": "Reforma", "items": items,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.QuoteResponse](t, raw)
}

var item = map[string]any{"designation": "Mano de obra", "quantity": 2, "unit_price": 500}

func TestAPI_CicloCompletoYArchivado(t *testing.T) {
	app, auth := newAPI(t)
	contactID := createContact(t, app, auth)

	q := createQuote(t, app, auth, contactID, item)
	assert.Equal(t, "DRAFT", q.Status)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(1200)), q.Total.String())
	draft := createQuote(t, app, auth, contactID, item)

	status, raw := call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/send", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "SENT", decode[dto.QuoteResponse](t, raw).Status)

	status, raw = call(t, app, auth, http.MethodGet, "/api/quotes/follow-ups", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	pending := decode[[]dto.FollowUpResponse](t, raw)
	require.Len(t, pending, 1)
	assert.Equal(t, "good", pending[0].Tier)

	status, raw = call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/status", map[string]string{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, decode[dto.QuoteResponse](t, raw).Locked)

	status, raw = call(t, app, auth, http.MethodPut, "/api/quotes/"+q.ID+"/items", map[string]any{"items": []any{item}})
	assert.Equal(t, http.StatusLocked, status)
	assert.Equal(t, "QUOTE_LOCKED", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = call(t, app, auth, http.MethodDelete, "/api/quotes/"+q.ID, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LEGAL_RETENTION", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = call(t, app, auth, http.MethodPost, "/api/contacts/"+contactID+"/metrics", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "ACTIVE_CLIENT", decode[dto.ContactMetricsResponse](t, raw).Status)

	status, raw = call(t, app, auth, http.MethodDelete, "/api/contacts/"+contactID, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, dto.DeleteContactResponse{ArchivedQuotes: 1, DeletedDrafts: 1}, decode[dto.DeleteContactResponse](t, raw))

	status, _ = call(t, app, auth, http.MethodGet, "/api/contacts/"+contactID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, auth, http.MethodGet, "/api/quotes/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = call(t, app, auth, http.MethodGet, "/api/archives/"+q.ID, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	archived := decode[dto.ArchivedQuoteResponse](t, raw)
	assert.Equal(t, q.Number, archived.Number)

	status, raw = call(t, app, auth, http.MethodGet, "/api/archives?contact_id="+contactID, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Len(t, decode[[]dto.ArchivedQuoteResponse](t, raw), 1)
}

func TestAPI_ErroresDeTransicion(t *testing.T) {
	app, auth := newAPI(t)
	contactID := createContact(t, app, auth)

	empty := createQuote(t, app, auth, contactID)
	status, raw := call(t, app, auth, http.MethodPost, "/api/quotes/"+empty.ID+"/validate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EMPTY_QUOTE", decode[dto.ErrorResponse](t, raw).Code)

	q := createQuote(t, app, auth, contactID, item)
	status, raw = call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/status", map[string]string{"status": "ACCEPTED"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/status", map[string]string{"status": "PAID"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	status, _ = call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, auth, http.MethodGet, "/api/quotes/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)

	other := bearer(t, "otro-usuario")
	status, raw = call(t, app, other, http.MethodGet, "/api/quotes/"+q.ID, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_ArchivarYRestaurar(t *testing.T) {
	app, auth := newAPI(t)
	contactID := createContact(t, app, auth)
	q := createQuote(t, app, auth, contactID, item)
	status, _ := call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/send", nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, auth, http.MethodDelete, "/api/quotes/"+q.ID, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	del := decode[dto.DeleteQuoteResponse](t, raw)
	assert.Equal(t, dto.DeleteActionArchived, del.Action)

	status, raw = call(t, app, auth, http.MethodPost, "/api/quotes/"+q.ID+"/restore", map[string]string{"status": "SENT"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "SENT", decode[dto.QuoteResponse](t, raw).Status)

	status, raw = call(t, app, auth, http.MethodDelete, "/api/quotes/"+q.ID+"?force=true", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, dto.DeleteActionDeleted, decode[dto.DeleteQuoteResponse](t, raw).Action)
}

func TestAPI_ValidacionDeEntrada(t *testing.T) {
	app, auth := newAPI(t)

	status, raw := call(t, app, auth, http.MethodPost, "/api/contacts", map[string]any{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	contactID := createContact(t, app, auth)
	status, _ = call(t, app, auth, http.MethodPost, "/api/quotes", map[string]any{
		"contact_id": contactID,
		"items":      []any{map[string]any{"designation": "X", "quantity": 0, "unit_price": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_FuncionDeUrgencia(t *testing.T) {
	app, auth := newAPI(t)

	status, raw := call(t, app, auth, http.MethodGet, "/api/follow-up?days=7&status=SENT", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	out := decode[dto.FollowUpResponse](t, raw)
	assert.Equal(t, "urgent", out.Tier)
	assert.Equal(t, 100.0, out.Percentage)

	status, raw = call(t, app, auth, http.MethodGet, "/api/follow-up?days=2&status=ACCEPTED", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "none", decode[dto.FollowUpResponse](t, raw).Tier)

	status, _ = call(t, app, auth, http.MethodGet, "/api/follow-up?days=2", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_SinToken(t *testing.T) {
	app, _ := newAPI(t)
	status, _ := call(t, app, "", http.MethodGet, "/api/quotes/follow-ups", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
