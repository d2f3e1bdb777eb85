package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/kivalao/backend/internal/application/ledger"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTransactionRouter(handler *TransactionHandler, callerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1/transactions")
	group.Use(asUser(callerID))
	{
		group.GET("/:id", handler.Get)
	}
	return r
}

func newTestTransaction(t *testing.T, referrerID, redeemerID uuid.UUID) *referral.Transaction {
	t.Helper()
	commission, err := valueobject.NewMoney(decimal.RequireFromString("20.00"), valueobject.DefaultCurrency)
	require.NoError(t, err)
	tx, err := referral.NewTransaction(uuid.New(), referrerID, redeemerID, commission, decimal.NewFromInt(200), nil)
	require.NoError(t, err)
	return tx
}

func TestTransactionHandler_Get_Success(t *testing.T) {
	referrerID := uuid.New()
	redeemerID := uuid.New()
	tx := newTestTransaction(t, referrerID, redeemerID)

	referrer, err := identity.NewUser("cafe@example.com", "Password123", "Cafe Aroma", "Nidhal")
	require.NoError(t, err)
	referrer.ID = referrerID
	redeemer, err := identity.NewUser("machines@example.com", "Password123", "Machines GmbH", "Jonas")
	require.NoError(t, err)
	redeemer.ID = redeemerID

	code, err := referral.NewCode("KIVA42", uuid.New(), referrerID, referrerID, "client@example.com", nil, nil)
	require.NoError(t, err)
	code.ID = tx.CodeID

	txRepo := new(MockTransactionRepository)
	codeRepo := new(MockCodeRepository)
	userRepo := new(MockUserRepository)
	txRepo.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)
	codeRepo.On("FindByID", mock.Anything, tx.CodeID).Return(code, nil)
	userRepo.On("FindByIDs", mock.Anything, []uuid.UUID{referrerID, redeemerID}).Return([]*identity.User{referrer, redeemer}, nil)

	service := ledgerapp.NewTransactionService(txRepo, codeRepo, userRepo, zap.NewNop())
	router := setupTransactionRouter(NewTransactionHandler(service), referrerID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+tx.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data TransactionDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, tx.ID, response.Data.ID)
	assert.Equal(t, "KIVA42", response.Data.Code)
	assert.Equal(t, "20.00", response.Data.CommissionAmount)
	assert.Equal(t, "200.00", response.Data.SaleAmount)
	assert.Equal(t, "DUE", response.Data.Status)
	assert.Equal(t, "REFERRER", response.Data.Role)
	require.NotNil(t, response.Data.ReferringPartner)
	assert.Equal(t, "Cafe Aroma", response.Data.ReferringPartner.CompanyName)
	require.NotNil(t, response.Data.RedeemingPartner)
	assert.Equal(t, "Machines GmbH", response.Data.RedeemingPartner.CompanyName)
}

func TestTransactionHandler_Get_NotAParty(t *testing.T) {
	tx := newTestTransaction(t, uuid.New(), uuid.New())

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)

	service := ledgerapp.NewTransactionService(txRepo, new(MockCodeRepository), new(MockUserRepository), zap.NewNop())
	router := setupTransactionRouter(NewTransactionHandler(service), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+tx.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	txID := uuid.New()

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByID", mock.Anything, txID).Return(nil, assert.AnError)

	service := ledgerapp.NewTransactionService(txRepo, new(MockCodeRepository), new(MockUserRepository), zap.NewNop())
	router := setupTransactionRouter(NewTransactionHandler(service), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+txID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_Get_InvalidID(t *testing.T) {
	service := ledgerapp.NewTransactionService(new(MockTransactionRepository), new(MockCodeRepository), new(MockUserRepository), zap.NewNop())
	router := setupTransactionRouter(NewTransactionHandler(service), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
