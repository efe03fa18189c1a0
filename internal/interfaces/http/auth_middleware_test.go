package http_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Siti Kasir"
	testIssuer    = "stock-ledger-test"
	testExpMin    = 60
)

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// actorApp expone el actor que verían los handlers del libro.
func actorApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/actor", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(roles...), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{"user_id": actor.UserID, "user_name": actor.UserName, "role": apphttp.GetRole(c)})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	emptyRole, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, "", testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, pkgjwt.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token sin rol", "Bearer " + emptyRole, http.StatusUnauthorized, "MISSING_ROLE"},
	}
	app := actorApp(pkgjwt.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/actor", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestAuthMiddleware_ActorDesdeClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/actor", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleCashier))
	resp, err := actorApp(pkgjwt.RoleCashier).Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["user_name"])
	assert.Equal(t, pkgjwt.RoleCashier, body["role"])
}

// Matriz de permisos de las rutas del libro: el cajero vende y recibe, el encargado ajusta
// y fija aperturas, solo el administrador purga.
func TestRouter_PermisosPorRol(t *testing.T) {
	a := newAPI(t, nil)
	id := a.createProduct("Susu")

	cases := []struct {
		method, path string
		body         any
		allowed      []string
	}{
		{http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "Teh"},
			[]string{pkgjwt.RoleAdmin, pkgjwt.RoleManager}},
		{http.MethodPost, "/api/inventory/receipts", dto.RecordReceiptRequest{ProductID: id, Quantity: 5, Reason: "Pembelian"},
			[]string{pkgjwt.RoleAdmin, pkgjwt.RoleManager, pkgjwt.RoleCashier}},
		{http.MethodPost, "/api/inventory/adjustments", dto.RecordAdjustmentRequest{ProductID: id, NewStock: 4, Reason: "Stock Opname"},
			[]string{pkgjwt.RoleAdmin, pkgjwt.RoleManager}},
		{http.MethodPut, "/api/inventory/opening-balances/2025-03", dto.SetOpeningStockRequest{ProductID: id, Quantity: 4},
			[]string{pkgjwt.RoleAdmin, pkgjwt.RoleManager}},
		{http.MethodGet, "/api/inventory/activity", nil,
			[]string{pkgjwt.RoleAdmin, pkgjwt.RoleManager}},
		{http.MethodDelete, "/api/inventory/movements?from=2020-01-01&to=2020-02-01", nil,
			[]string{pkgjwt.RoleAdmin}},
	}
	roles := []string{pkgjwt.RoleAdmin, pkgjwt.RoleManager, pkgjwt.RoleCashier}
	for _, tc := range cases {
		for _, role := range roles {
			t.Run(tc.method+" "+tc.path+" "+role, func(t *testing.T) {
				resp := a.do(tc.method, tc.path, role, tc.body)
				defer resp.Body.Close()
				if slices.Contains(tc.allowed, role) {
					assert.Less(t, resp.StatusCode, 300)
				} else {
					assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				}
			})
		}
	}
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, pkgjwt.RoleManager, testIssuer, testExpMin)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testUserName, claims.UserName)
	assert.Equal(t, pkgjwt.RoleManager, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
	_, err = pkgjwt.Generate("", testUserID, testUserName, pkgjwt.RoleManager, testIssuer, testExpMin)
	assert.Error(t, err)
}
