package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/infrastructure/event"
	"github.com/fintrack/backend/internal/infrastructure/persistence"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testNow pins the service clock so due-date math is deterministic
var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

// testServer wires real services over an in-memory database behind a
// gin engine that authenticates every request as a fixed user
type testServer struct {
	engine *gin.Engine
	userID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.LedgerEntryModel{},
		&models.LoanModel{},
		&models.InvestmentModel{},
		&models.RecurringItemModel{},
	))

	log := zap.NewNop()
	clock := func() time.Time { return testNow }

	entryRepo := persistence.NewGormLedgerEntryRepository(db)
	loanRepo := persistence.NewGormLoanRepository(db)
	investmentRepo := persistence.NewGormInvestmentRepository(db)
	recurringRepo := persistence.NewGormRecurringItemRepository(db)

	bus := event.NewInMemoryEventBus(log)
	poster := financeapp.NewIdempotentPoster(entryRepo, log)
	loanService := financeapp.NewLoanService(loanRepo, entryRepo, poster, bus, log, 240).WithClock(clock)
	investmentService := financeapp.NewInvestmentService(investmentRepo, poster, bus, log).WithClock(clock)
	recurringService := financeapp.NewRecurringService(recurringRepo, poster, bus, log).WithClock(clock)
	ledgerService := financeapp.NewLedgerService(entryRepo, bus, log)
	dashboardService := financeapp.NewDashboardService(entryRepo, loanRepo, investmentRepo, recurringRepo, log).WithClock(clock)
	reconciler := financeapp.NewReconciler(loanService, investmentService, recurringService, log)

	userID := uuid.New()
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	})

	finance := engine.Group("/api/v1").Group("/finance")
	NewLedgerHandler(ledgerService).RegisterRoutes(finance)
	NewLoanHandler(loanService).RegisterRoutes(finance)
	NewInvestmentHandler(investmentService).RegisterRoutes(finance)
	NewRecurringHandler(recurringService).RegisterRoutes(finance)
	NewDashboardHandler(dashboardService).RegisterRoutes(finance)
	NewReconcileHandler(reconciler).RegisterRoutes(finance)

	return &testServer{engine: engine, userID: userID}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, "expected success envelope, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
