package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	referralapp "github.com/kivalao/backend/internal/application/referral"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCodeRouter(handler *CodeHandler, callerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1/code")
	group.Use(asUser(callerID))
	{
		group.POST("/generate", handler.Generate)
		group.POST("/validate", handler.Validate)
	}
	return r
}

func newTestOffer(t *testing.T, ownerID, targetID uuid.UUID) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(
		"10% on espresso machines",
		ownerID,
		targetID,
		uuid.New(),
		offer.CommissionTypePercentage,
		decimal.NewFromInt(10),
		"",
	)
	require.NoError(t, err)
	return o
}

func TestCodeHandler_Generate_Success(t *testing.T) {
	referrerID := uuid.New()
	ownerID := uuid.New()
	o := newTestOffer(t, ownerID, referrerID)

	codeRepo := new(MockCodeRepository)
	offerRepo := new(MockOfferRepository)
	offerRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	codeRepo.On("ExistsByCodeString", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	codeRepo.On("Create", mock.Anything, mock.AnythingOfType("*referral.Code")).Return(nil)

	service := referralapp.NewCodeService(codeRepo, offerRepo, referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	router := setupCodeRouter(NewCodeHandler(service), referrerID)

	body, _ := json.Marshal(GenerateCodeRequest{
		OfferID:     o.ID.String(),
		ClientEmail: "client@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data CodeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data.Code, referral.CodeLength)
	assert.Equal(t, o.ID, response.Data.OfferID)
	assert.Equal(t, referrerID, response.Data.ReferringPartnerID)
	assert.Equal(t, "client@example.com", response.Data.ClientEmail)
	assert.Equal(t, "ISSUED", response.Data.Status)
}

func TestCodeHandler_Generate_OfferNotForCaller(t *testing.T) {
	o := newTestOffer(t, uuid.New(), uuid.New())

	offerRepo := new(MockOfferRepository)
	offerRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	codeRepo := new(MockCodeRepository)
	service := referralapp.NewCodeService(codeRepo, offerRepo, referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	// Caller is not the partner the offer targets
	router := setupCodeRouter(NewCodeHandler(service), uuid.New())

	body, _ := json.Marshal(GenerateCodeRequest{
		OfferID:     o.ID.String(),
		ClientEmail: "client@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCodeHandler_Validate_Success(t *testing.T) {
	referrerID := uuid.New()
	ownerID := uuid.New()
	o := newTestOffer(t, ownerID, referrerID)

	code, err := referral.NewCode("KIVA42", o.ID, referrerID, referrerID, "client@example.com", nil, nil)
	require.NoError(t, err)

	codeRepo := new(MockCodeRepository)
	txRepo := new(MockTransactionRepository)
	offerRepo := new(MockOfferRepository)
	codeRepo.On("FindByCodeString", mock.Anything, "KIVA42").Return(code, nil)
	offerRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	codeRepo.On("Update", mock.Anything, code).Return(nil)
	txRepo.On("Create", mock.Anything, mock.AnythingOfType("*referral.Transaction")).Return(nil)

	service := referralapp.NewCodeService(codeRepo, offerRepo, referralapp.NewNoOpTransactionScope(codeRepo, txRepo), nil, nil, zap.NewNop())
	router := setupCodeRouter(NewCodeHandler(service), ownerID)

	body, _ := json.Marshal(ValidateCodeRequest{
		Code:          "KIVA42",
		PurchaseValue: 200,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data ValidateCodeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "KIVA42", response.Data.Code.Value)
	assert.Equal(t, "REDEEMED", response.Data.Code.Status)
	require.NotNil(t, response.Data.Code.RedeemedAt)
	assert.WithinDuration(t, time.Now(), *response.Data.Code.RedeemedAt, time.Minute)

	assert.Equal(t, "20.00", response.Data.Transaction.CommissionAmount)
	assert.Equal(t, "200.00", response.Data.Transaction.SaleAmount)
	assert.Equal(t, "DUE", response.Data.Transaction.Status)
	assert.Equal(t, referrerID, response.Data.Transaction.ReferringPartnerID)
	assert.Equal(t, ownerID, response.Data.Transaction.RedeemingPartnerID)
}

func TestCodeHandler_Validate_AlreadyRedeemed(t *testing.T) {
	referrerID := uuid.New()
	ownerID := uuid.New()
	o := newTestOffer(t, ownerID, referrerID)

	code, err := referral.NewCode("KIVA42", o.ID, referrerID, referrerID, "client@example.com", nil, nil)
	require.NoError(t, err)
	require.NoError(t, code.Redeem(ownerID, time.Now(), nil))

	codeRepo := new(MockCodeRepository)
	codeRepo.On("FindByCodeString", mock.Anything, "KIVA42").Return(code, nil)

	service := referralapp.NewCodeService(codeRepo, new(MockOfferRepository), referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	router := setupCodeRouter(NewCodeHandler(service), ownerID)

	body, _ := json.Marshal(ValidateCodeRequest{
		Code:          "KIVA42",
		PurchaseValue: 200,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCodeHandler_Validate_ExpiredCode(t *testing.T) {
	referrerID := uuid.New()
	ownerID := uuid.New()
	o := newTestOffer(t, ownerID, referrerID)

	expired := time.Now().Add(-time.Hour)
	code, err := referral.NewCode("KIVA42", o.ID, referrerID, referrerID, "client@example.com", &expired, nil)
	require.NoError(t, err)

	codeRepo := new(MockCodeRepository)
	codeRepo.On("FindByCodeString", mock.Anything, "KIVA42").Return(code, nil)

	service := referralapp.NewCodeService(codeRepo, new(MockOfferRepository), referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	router := setupCodeRouter(NewCodeHandler(service), ownerID)

	body, _ := json.Marshal(ValidateCodeRequest{
		Code:          "KIVA42",
		PurchaseValue: 200,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCodeHandler_Validate_NotOfferOwner(t *testing.T) {
	referrerID := uuid.New()
	ownerID := uuid.New()
	o := newTestOffer(t, ownerID, referrerID)

	code, err := referral.NewCode("KIVA42", o.ID, referrerID, referrerID, "client@example.com", nil, nil)
	require.NoError(t, err)

	codeRepo := new(MockCodeRepository)
	offerRepo := new(MockOfferRepository)
	codeRepo.On("FindByCodeString", mock.Anything, "KIVA42").Return(code, nil)
	offerRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	service := referralapp.NewCodeService(codeRepo, offerRepo, referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	// A partner who does not own the offer tries to redeem
	router := setupCodeRouter(NewCodeHandler(service), uuid.New())

	body, _ := json.Marshal(ValidateCodeRequest{
		Code:          "KIVA42",
		PurchaseValue: 200,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCodeHandler_Validate_UnknownCode(t *testing.T) {
	codeRepo := new(MockCodeRepository)
	codeRepo.On("FindByCodeString", mock.Anything, "NOPE99").Return(nil, assert.AnError)

	service := referralapp.NewCodeService(codeRepo, new(MockOfferRepository), referralapp.NewNoOpTransactionScope(codeRepo, new(MockTransactionRepository)), nil, nil, zap.NewNop())
	router := setupCodeRouter(NewCodeHandler(service), uuid.New())

	body, _ := json.Marshal(ValidateCodeRequest{
		Code:          "NOPE99",
		PurchaseValue: 200,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
