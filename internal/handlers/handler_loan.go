package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/middleware"
)

// loanHandler handles HTTP requests for loan applications and loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: loanService}
}

// registerLoanRoutes registers loan workflow routes. Approval and rejection
// are officer-only.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("/eligibility", h.getEligibility)
		loans.GET("/:loanID", h.getLoan)

		applications := loans.Group("/applications")
		{
			applications.POST("", h.apply)
			applications.GET("", middleware.RequireOfficer(), h.listApplications)
			applications.GET("/:applicationID", h.getApplication)
			applications.PUT("/:applicationID", h.updateApplication)
			applications.POST("/:applicationID/withdraw", h.withdrawApplication)
			applications.POST("/:applicationID/approve", middleware.RequireOfficer(), h.approveApplication)
			applications.POST("/:applicationID/reject", middleware.RequireOfficer(), h.rejectApplication)
		}
	}

	rg.GET("/members/:memberID/loans", h.listMemberLoans)
}

// getEligibility godoc
// @Summary Get the caller's borrowing envelope
// @Description Computes max loan amount from the savings balance, tier multiplier and cycle cap. Officers may pass memberID to inspect another member.
// @Tags loans
// @Produce  json
// @Param   memberID query string false "Member ID (officers only)"
// @Success 200 {object} dto.LoanEligibilityResponse
// @Security BearerAuth
// @Router /loans/eligibility [get]
func (h *loanHandler) getEligibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if v := c.Query("memberID"); v != "" && v != memberID {
		if !isOfficer(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		memberID = v
	}

	eligibility, err := h.loanService.GetEligibility(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute eligibility")
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

// apply godoc
// @Summary Apply for a loan
// @Description Opens a PENDING application in the active cycle, validated against the member's eligibility and tier interest band.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   application body dto.ApplyLoanRequest true "Application details"
// @Success 201 {object} dto.LoanApplicationResponse
// @Failure 409 {object} map[string]string "Open loan or pending application exists"
// @Security BearerAuth
// @Router /loans/applications [post]
func (h *loanHandler) apply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Apply", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	application, err := h.loanService.Apply(c.Request.Context(), memberID, req, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create application")
		return
	}

	logger.Info("Loan application created", slog.String("application_id", application.ApplicationID))
	c.JSON(http.StatusCreated, dto.ToLoanApplicationResponse(application))
}

// listApplications godoc
// @Summary List loan applications for a cycle
// @Tags loans
// @Produce  json
// @Param   cycleID query string true "Cycle ID"
// @Param   status query string false "Application status filter"
// @Success 200 {array} dto.LoanApplicationResponse
// @Security BearerAuth
// @Router /loans/applications [get]
func (h *loanHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cycleID := c.Query("cycleID")
	if cycleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycleID query parameter is required"})
		return
	}

	var status *domain.LoanApplicationStatus
	if v := c.Query("status"); v != "" {
		s := domain.LoanApplicationStatus(v)
		status = &s
	}

	applications, err := h.loanService.ListApplications(c.Request.Context(), cycleID, status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list applications")
		return
	}

	resp := make([]dto.LoanApplicationResponse, 0, len(applications))
	for i := range applications {
		resp = append(resp, dto.ToLoanApplicationResponse(&applications[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getApplication godoc
// @Summary Get a loan application
// @Tags loans
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.LoanApplicationResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Application not found"
// @Security BearerAuth
// @Router /loans/applications/{applicationID} [get]
func (h *loanHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("applicationID")

	application, err := h.loanService.GetApplicationByID(c.Request.Context(), applicationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get application")
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if application.MemberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanApplicationResponse(application))
}

// updateApplication godoc
// @Summary Update a pending loan application
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   application body dto.UpdateLoanApplicationRequest true "Fields to update"
// @Success 200 {object} dto.LoanApplicationResponse
// @Failure 409 {object} map[string]string "Application is not pending"
// @Security BearerAuth
// @Router /loans/applications/{applicationID} [put]
func (h *loanHandler) updateApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("applicationID")

	var req dto.UpdateLoanApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	application, err := h.loanService.UpdateApplication(c.Request.Context(), applicationID, memberID, req, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update application")
		return
	}

	logger.Info("Loan application updated", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, dto.ToLoanApplicationResponse(application))
}

// withdrawApplication godoc
// @Summary Withdraw a pending loan application
// @Tags loans
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.LoanApplicationResponse
// @Failure 409 {object} map[string]string "Application is not pending"
// @Security BearerAuth
// @Router /loans/applications/{applicationID}/withdraw [post]
func (h *loanHandler) withdrawApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("applicationID")

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	application, err := h.loanService.WithdrawApplication(c.Request.Context(), applicationID, memberID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to withdraw application")
		return
	}

	logger.Info("Loan application withdrawn", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, dto.ToLoanApplicationResponse(application))
}

// approveApplication godoc
// @Summary Approve a loan application and disburse the loan
// @Description Re-checks eligibility, posts the disbursement entry and opens the loan.
// @Tags loans
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 201 {object} dto.LoanResponse
// @Failure 409 {object} map[string]string "Eligibility exceeded or open loan exists"
// @Security BearerAuth
// @Router /loans/applications/{applicationID}/approve [post]
func (h *loanHandler) approveApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("applicationID")

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.ApproveApplication(c.Request.Context(), applicationID, approverID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve application")
		return
	}

	logger.Info("Loan disbursed",
		slog.String("application_id", applicationID),
		slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan, loan.Principal))
}

// rejectApplication godoc
// @Summary Reject a loan application
// @Tags loans
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.LoanApplicationResponse
// @Failure 409 {object} map[string]string "Application is not pending"
// @Security BearerAuth
// @Router /loans/applications/{applicationID}/reject [post]
func (h *loanHandler) rejectApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("applicationID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	application, err := h.loanService.RejectApplication(c.Request.Context(), applicationID, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject application")
		return
	}

	logger.Info("Loan application rejected", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, dto.ToLoanApplicationResponse(application))
}

// getLoan godoc
// @Summary Get a loan with its outstanding balance
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get loan")
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if loan.MemberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// listMemberLoans godoc
// @Summary List a member's loans
// @Tags loans
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {array} dto.LoanResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Security BearerAuth
// @Router /members/{memberID}/loans [get]
func (h *loanHandler) listMemberLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if memberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	loans, err := h.loanService.ListMemberLoans(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, loans)
}
