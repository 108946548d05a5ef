package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/middleware"
)

// ledgerHandler handles HTTP requests for journals, lines and balances.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes registers journal and account routes. The journal is
// read-only over HTTP except for reversals; entries are posted by workflows.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	journals := rg.Group("/journals")
	{
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/reverse", middleware.RequireOfficer(), h.reverseJournal)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/balance", h.getBalanceByCode)
		accounts.GET("/:accountID/transactions", h.listTransactionsByAccount)
	}

	rg.GET("/members/:memberID/accounts", h.listMemberAccounts)
}

// listJournals godoc
// @Summary List journal entries
// @Description Retrieves journals newest first, optionally filtered by cycle and source.
// @Tags ledger
// @Produce  json
// @Param   cycleID query string false "Cycle ID filter"
// @Param   source query string false "Journal source filter"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /journals [get]
func (h *ledgerHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var cycleID *string
	if v := c.Query("cycleID"); v != "" {
		cycleID = &v
	}
	var source *domain.JournalSource
	if v := c.Query("source"); v != "" {
		s := domain.JournalSource(v)
		source = &s
	}
	var nextToken *string
	if v := c.Query("nextToken"); v != "" {
		nextToken = &v
	}

	journals, token, err := h.ledgerService.ListJournals(c.Request.Context(), cycleID, source, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journals")
		return
	}

	resp := make([]dto.JournalResponse, 0, len(journals))
	for i := range journals {
		resp = append(resp, dto.ToJournalResponse(&journals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"journals": resp, "nextToken": token})
}

// getJournal godoc
// @Summary Get a journal entry with its lines
// @Tags ledger
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *ledgerHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.ledgerService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror-image entry and links the pair. A journal can be reversed once.
// @Tags ledger
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal already reversed"
// @Security BearerAuth
// @Router /journals/{journalID}/reverse [post]
func (h *ledgerHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.ledgerService.ReverseJournal(c.Request.Context(), journalID, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// getBalanceByCode godoc
// @Summary Get a derived account balance
// @Description Sums the account's journal lines; balances are never stored.
// @Tags ledger
// @Produce  json
// @Param   code query string true "Account code"
// @Param   asOf query string false "Balance as of date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/balance [get]
func (h *ledgerHandler) getBalanceByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	var asOf *time.Time
	if v := c.Query("asOf"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must use the YYYY-MM-DD form"})
			return
		}
		asOf = &t
	}

	balance, err := h.ledgerService.GetBalanceByCode(c.Request.Context(), code, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, balance)
}

// listTransactionsByAccount godoc
// @Summary List an account's journal lines
// @Description Retrieves a keyset-paginated page of lines, newest first.
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *ledgerHandler) listTransactionsByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := dto.ListTransactionsParams{Limit: limit}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}

	page, err := h.ledgerService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// listMemberAccounts godoc
// @Summary List a member's ledger accounts
// @Tags ledger
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {array} domain.Account
// @Failure 403 {object} map[string]string "Not the owner"
// @Security BearerAuth
// @Router /members/{memberID}/accounts [get]
func (h *ledgerHandler) listMemberAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if requestingUserID != memberID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	accounts, err := h.ledgerService.ListMemberAccounts(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, accounts)
}
