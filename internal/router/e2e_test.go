//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"keymarket/internal/config"
	"keymarket/internal/infra"
	"keymarket/internal/migration"
	"keymarket/internal/model"
	"keymarket/internal/router"
	"keymarket/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func assertAmount(t *testing.T, want string, got string) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err)
	g, err := decimal.NewFromString(got)
	require.NoError(t, err)
	assert.True(t, w.Equal(g), "want %s, got %s", want, got)
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("keymarket_test"),
		tcPostgres.WithUsername("keymarket"),
		tcPostgres.WithPassword("keymarket"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Migrations and seeds run twice on purpose: the second pass must be a
	// no-op against an already-migrated, already-seeded database.
	runner := migration.NewRunner(db)
	require.NoError(t, runner.Up(ctx))
	require.NoError(t, runner.Up(ctx))
	require.NoError(t, migration.VerifyForeignKeys(ctx, db))
	require.NoError(t, seed.Run(ctx, db))
	require.NoError(t, seed.Run(ctx, db))

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{
			"username": seed.DefaultAdminUsername,
			"password": seed.DefaultAdminPassword,
		}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, db: db, token: loginBody.AccessToken}
}

func (env *testEnv) createProduct(t *testing.T, name, barcode string, price float64) uint {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": name, "barcode": barcode, "price": price}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) createInventory(t *testing.T, productID uint, qty, minQty int) uint {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/inventory",
		jsonBody(t, map[string]any{
			"product_id":   productID,
			"quantity":     qty,
			"min_quantity": minQty,
			"location":     "main",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &inv)
	return inv.ID
}

func (env *testEnv) inventoryQuantity(t *testing.T, id uint) int {
	t.Helper()
	resp := do(t, env.server, "GET", fmt.Sprintf("/v1/inventory/%d", id), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inv struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, resp, &inv)
	return inv.Quantity
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_SeedData(t *testing.T) {
	env := setupTestEnv(t)

	// settings singleton exists out of the box
	resp := do(t, env.server, "GET", "/v1/settings", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings struct {
		StoreName    string `json:"store_name"`
		CurrencyCode string `json:"currency_code"`
	}
	decodeJSON(t, resp, &settings)
	assert.NotEmpty(t, settings.StoreName)
	assert.Len(t, settings.CurrencyCode, 3)

	// seed catalog is present and not duplicated by the second seed.Run
	listResp := do(t, env.server, "GET", "/v1/products?limit=200", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Data []struct {
			Barcode string `json:"barcode"`
		} `json:"data"`
	}
	decodeJSON(t, listResp, &list)
	seen := map[string]int{}
	for _, p := range list.Data {
		seen[p.Barcode]++
	}
	for _, p := range seed.DefaultProducts {
		assert.Equal(t, 1, seen[p.Barcode], "seed product %s", p.Barcode)
	}
}

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.createProduct(t, "Soda 500ml", "7890001000001", 2.50)
	invID := env.createInventory(t, prodID, 20, 2)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 3}},
			"payment_method": "cash",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		ReceiptNumber string `json:"receipt_number"`
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
		TotalAmount   string `json:"total_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, model.PaymentPaid, sale.PaymentStatus)
	assert.Equal(t, "R-000001", sale.ReceiptNumber)
	assertAmount(t, "7.50", sale.TotalAmount) // zero default tax rate

	assert.Equal(t, 17, env.inventoryQuantity(t, invID))

	// audit row for the sale
	txResp := do(t, env.server, "GET", fmt.Sprintf("/v1/inventory/transactions?inventory_id=%d", invID), nil, env.token)
	require.Equal(t, http.StatusOK, txResp.StatusCode)
	var txs struct {
		Data []struct {
			Type        string `json:"type"`
			Quantity    int    `json:"quantity"`
			NewQuantity int    `json:"new_quantity"`
		} `json:"data"`
	}
	decodeJSON(t, txResp, &txs)
	require.NotEmpty(t, txs.Data)
	assert.Equal(t, 17, txs.Data[len(txs.Data)-1].NewQuantity)

	// cancel restores stock
	cancelResp := do(t, env.server, "DELETE", "/v1/sales/"+sale.ID,
		jsonBody(t, map[string]any{"reason": "wrong items rung up"}), env.token)
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)
	assert.Equal(t, 20, env.inventoryQuantity(t, invID))

	// second cancel is a conflict
	again := do(t, env.server, "DELETE", "/v1/sales/"+sale.ID,
		jsonBody(t, map[string]any{"reason": "double cancel"}), env.token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
}

func TestE2E_SaleWithTax(t *testing.T) {
	env := setupTestEnv(t)

	putResp := do(t, env.server, "PUT", "/v1/settings",
		jsonBody(t, map[string]any{"tax_rate": 15}), env.token)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	prodID := env.createProduct(t, "Juice 1L", "7890001000002", 10.00)
	env.createInventory(t, prodID, 5, 0)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 2}},
			"payment_method": "credit_card",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		Subtotal    string `json:"subtotal"`
		Tax         string `json:"tax"`
		TotalAmount string `json:"total_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assertAmount(t, "20", sale.Subtotal)
	assertAmount(t, "3", sale.Tax)
	assertAmount(t, "23", sale.TotalAmount)
}

func TestE2E_InsufficientStockRejected(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.createProduct(t, "Batteries AA", "7890001000003", 4.00)
	invID := env.createInventory(t, prodID, 1, 0)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 5}},
			"payment_method": "cash",
		}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)

	// the failed sale must not have touched stock
	assert.Equal(t, 1, env.inventoryQuantity(t, invID))
}

func TestE2E_InventoryDeleteBlockedByHistory(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.createProduct(t, "Matches", "7890001000004", 0.50)
	invID := env.createInventory(t, prodID, 10, 1)

	adjResp := do(t, env.server, "PATCH", fmt.Sprintf("/v1/inventory/%d/stock", invID),
		jsonBody(t, map[string]any{"type": "purchase", "quantity": 5}), env.token)
	require.Equal(t, http.StatusOK, adjResp.StatusCode)
	assert.Equal(t, 15, env.inventoryQuantity(t, invID))

	delResp := do(t, env.server, "DELETE", fmt.Sprintf("/v1/inventory/%d", invID), nil, env.token)
	assert.Equal(t, http.StatusConflict, delResp.StatusCode)
}

func TestE2E_MigrationDownUp(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	runner := migration.NewRunner(env.db)

	// revert the newest migration and re-apply it
	require.NoError(t, runner.Down(ctx, 1))
	statuses, err := runner.StatusAll(ctx)
	require.NoError(t, err)
	assert.False(t, statuses[len(statuses)-1].Applied)

	require.NoError(t, runner.Up(ctx))
	statuses, err = runner.StatusAll(ctx)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %d (%s)", s.Version, s.Name)
	}
	require.NoError(t, migration.VerifyForeignKeys(ctx, env.db))
}

func TestE2E_AuthAndRoles(t *testing.T) {
	env := setupTestEnv(t)

	// wrong password is audited and rejected
	badResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": seed.DefaultAdminUsername, "password": "nope"}), "")
	assert.Equal(t, http.StatusUnauthorized, badResp.StatusCode)

	histResp := do(t, env.server, "GET", "/v1/users/login-history", nil, env.token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var hist struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, histResp, &hist)
	assert.GreaterOrEqual(t, hist.Total, int64(2)) // setup login + failed attempt

	// a cashier cannot administer users
	createResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "cashier9", "name": "Till Nine",
			"password": "till-nine-pass", "role": model.RoleCashier,
		}), env.token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	cashierLogin := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "cashier9", "password": "till-nine-pass"}), "")
	require.Equal(t, http.StatusOK, cashierLogin.StatusCode)
	var cashier struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, cashierLogin, &cashier)

	forbidden := do(t, env.server, "GET", "/v1/users", nil, cashier.AccessToken)
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	noToken := do(t, env.server, "GET", "/v1/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, noToken.StatusCode)
}

func TestE2E_SettingsSingletonEnforcedBySchema(t *testing.T) {
	env := setupTestEnv(t)

	err := env.db.Exec(`INSERT INTO settings (id, store_name) VALUES (2, 'Second Store')`).Error
	require.Error(t, err, "CHECK (id = 1) must reject a second settings row")
}

func TestE2E_EnumChecksEnforcedBySchema(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.createProduct(t, "Enum Check Item", "4000000000001", 3.00)
	invID := env.createInventory(t, prodID, 5, 0)

	err := env.db.Exec(
		`INSERT INTO inventory_transactions
		   (id, inventory_id, user_id, type, quantity, previous_quantity, new_quantity)
		 VALUES (gen_random_uuid(), ?, 1, 'teleport', 1, 5, 6)`, invID).Error
	require.Error(t, err, "type CHECK must reject values outside the transaction enum")

	err = env.db.Exec(
		`INSERT INTO sales (id, user_id, subtotal, tax, discount, total_amount, status)
		 VALUES (gen_random_uuid(), 1, 0, 0, 0, 0, 'voided')`).Error
	require.Error(t, err, "status CHECK must reject values outside the sale enum")
}
