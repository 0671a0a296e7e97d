package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

type testServer struct {
	app   *fiber.App
	admin string
	staff string
}

// newTestServer monta la API completa sobre el almacenamiento en memoria, con un admin y un staff.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	st := memory.NewStore()

	authUC := auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	require.NoError(t, authUC.EnsureBootstrapAdmin(ctx, "admin", "admin-password"))
	userUC := usecase.NewUserUseCase(st.Users(), log)
	_, err := userUC.CreateUser(ctx, entity.Actor{UserID: "bootstrap", Role: entity.RoleAdmin}, dto.CreateUserRequest{
		Username: "petugas", Password: "staff-password", Name: "Petugas", Role: entity.RoleStaff,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		UnitUC:      usecase.NewUnitUseCase(st.Units(), st.Items(), log),
		CatalogUC:   inventory.NewCatalogUseCase(st, st.Items(), log),
		InboundUC:   inventory.NewInboundUseCase(st, st.Inbound(), log),
		OutboundUC:  inventory.NewOutboundUseCase(st, st.Outbound(), log),
		LoanUC:      inventory.NewLoanUseCase(st, st.Loans(), log),
		ReconcileUC: inventory.NewReconcileUseCase(st, log),
		DashboardUC: appanalytics.NewDashboardUseCase(st.Items(), st.Loans()),
		JWTSecret:   testJWTSecret,
		Logger:      log,
	})

	s := &testServer{app: app}
	s.admin = s.login(t, "admin", "admin-password")
	s.staff = s.login(t, "petugas", "staff-password")
	return s
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	var out dto.LoginResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// do envía body como JSON y decodifica la respuesta en out (si no es nil).
func (s *testServer) do(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// mutation decodifica el resultado uniforme; Data queda como JSON crudo para decodificarlo aparte.
type mutation struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"field_errors"`
	Data        json.RawMessage     `json:"data"`
}

func (s *testServer) createItem(t *testing.T, name string, stock int) dto.ItemResponse {
	t.Helper()
	var res mutation
	resp := s.do(t, http.MethodPost, "/api/items", s.staff, dto.CreateItemRequest{
		Name: name, InitialStock: stock, UnitOfMeasure: "pcs", StockCategory: entity.StockCategoryRegular,
	}, &res)
	require.Equal(t, http.StatusCreated, resp.StatusCode, res.Message)
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(res.Data, &item))
	return item
}

func TestRouter_LoginAndMe(t *testing.T) {
	s := newTestServer(t)

	var me dto.UserResponse
	resp := s.do(t, http.MethodGet, "/api/auth/me", s.staff, nil, &me)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "petugas", me.Username)
	assert.Equal(t, entity.RoleStaff, me.Role)

	var failed dto.ErrorResponse
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "petugas", Password: "salah-password"}, &failed)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/items", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CreateItemResults(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "Senter", 5)
	assert.Equal(t, 5, item.StockOnHand)

	var dup mutation
	resp := s.do(t, http.MethodPost, "/api/items", s.staff, dto.CreateItemRequest{
		Name: "SENTER", UnitOfMeasure: "pcs", StockCategory: entity.StockCategoryRegular,
	}, &dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, dup.Success)
	assert.Contains(t, dup.Message, "Senter")
	assert.Empty(t, dup.FieldErrors)

	var invalid mutation
	resp = s.do(t, http.MethodPost, "/api/items", s.staff, dto.CreateItemRequest{
		InitialStock: -2, UnitOfMeasure: "pcs", StockCategory: "weekly",
	}, &invalid)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, invalid.Success)
	assert.Contains(t, invalid.FieldErrors, "name")
	assert.Contains(t, invalid.FieldErrors, "initial_stock")
	assert.Contains(t, invalid.FieldErrors, "stock_category")
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "Palu", 1)

	var denied dto.ErrorResponse
	resp := s.do(t, http.MethodDelete, "/api/items/"+item.ID, s.staff, nil, &denied)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", denied.Code)

	resp = s.do(t, http.MethodGet, "/api/reports/reconciliation", s.staff, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/users", s.staff, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var ok mutation
	resp = s.do(t, http.MethodDelete, "/api/items/"+item.ID, s.admin, nil, &ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, ok.Success)

	resp = s.do(t, http.MethodGet, "/api/items/"+item.ID, s.admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_OutboundConflict(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "Lem", 2)

	var res mutation
	resp := s.do(t, http.MethodPost, "/api/outbound", s.staff, dto.CreateOutboundRequest{
		ItemID: item.ID, Quantity: 3, IssuedAt: "2024-04-01", ReasonKind: entity.OutboundReasonConsumed,
	}, &res)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "stock insuficiente")
}

func TestRouter_LoanLifecycle(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "Kursi", 4)

	var created mutation
	resp := s.do(t, http.MethodPost, "/api/loans", s.staff, dto.CreateLoanRequest{
		Borrower: dto.BorrowerDTO{
			IDNumber: "3201234567890001", Name: "Dewi", Category: entity.BorrowerCitizen,
			Phone: "081298765432", Address: "Jl. Mawar 3",
		},
		ItemID: item.ID, Quantity: 4, LoanDate: "2024-04-02",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode, created.Message)
	var loan dto.LoanResponse
	require.NoError(t, json.Unmarshal(created.Data, &loan))

	var summary dto.DashboardSummaryDTO
	s.do(t, http.MethodGet, "/api/dashboard/summary", s.staff, nil, &summary)
	assert.Equal(t, 1, summary.Items)
	assert.Equal(t, 0, summary.TotalStock)
	assert.Equal(t, 1, summary.OutstandingLoans)

	var returned mutation
	resp = s.do(t, http.MethodPost, "/api/loans/"+loan.ID+"/return", s.staff, nil, &returned)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, returned.Success)

	var again mutation
	resp = s.do(t, http.MethodPost, "/api/loans/"+loan.ID+"/return", s.staff, nil, &again)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, again.Success)

	var current dto.ItemResponse
	s.do(t, http.MethodGet, "/api/items/"+item.ID, s.staff, nil, &current)
	assert.Equal(t, 4, current.StockOnHand)

	var report dto.ReconciliationReportDTO
	resp = s.do(t, http.MethodGet, "/api/reports/reconciliation", s.admin, nil, &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, report.Consistent)
	assert.Equal(t, 1, report.Checked)
}

func TestRouter_ListLoansInvalidStatus(t *testing.T) {
	s := newTestServer(t)

	var res dto.ErrorResponse
	resp := s.do(t, http.MethodGet, "/api/loans?status=hilang", s.staff, nil, &res)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION", res.Code)
}

// Un token emitido antes de desactivar la cuenta deja de servir en la siguiente petición.
func TestRouter_DeactivatedUserTokenRejected(t *testing.T) {
	s := newTestServer(t)

	var me dto.UserResponse
	resp := s.do(t, http.MethodGet, "/api/auth/me", s.staff, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res mutation
	resp = s.do(t, http.MethodPost, "/api/users/"+me.ID+"/deactivate", s.admin, nil, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode, res.Message)

	var failed dto.ErrorResponse
	resp = s.do(t, http.MethodGet, "/api/items", s.staff, nil, &failed)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", failed.Code)

	resp = s.do(t, http.MethodGet, "/api/items", s.admin, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
