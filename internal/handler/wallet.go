package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/domain"
	"hail/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// WalletAmountRequest is the HTTP request body for recharges and withdrawals.
type WalletAmountRequest struct {
	Amount float64 `json:"amount"`
}

// BalanceResponse is the HTTP response for a balance query.
type BalanceResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

// TransactionResponse is the HTTP representation of a ledger entry.
type TransactionResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	RideID        string  `json:"ride_id,omitempty"`
	BalanceBefore float64 `json:"balance_before"`
	BalanceAfter  float64 `json:"balance_after"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// GetBalance handles GET /v1/wallet/:userID/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := c.Param("userID")

	balance, err := h.walletService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// GetTransactions handles GET /v1/wallet/:userID/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	entries, err := h.walletService.GetTransactions(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toTransactionResponse(entry))
	}

	respondJSON(c, http.StatusOK, responses)
}

// Recharge handles POST /v1/wallet/:userID/recharge
func (h *WalletHandler) Recharge(c *gin.Context) {
	var req WalletAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.walletService.Recharge(c.Request.Context(), c.Param("userID"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(entry))
}

// Withdraw handles POST /v1/wallet/:userID/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WalletAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.walletService.Withdraw(c.Request.Context(), c.Param("userID"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(entry))
}

func toTransactionResponse(entry *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            entry.ID,
		UserID:        entry.UserID,
		Amount:        entry.Amount,
		Type:          string(entry.Type),
		Description:   entry.Description,
		RideID:        entry.RideID,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Status:        string(entry.Status),
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}
