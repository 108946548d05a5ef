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

// depositHandler handles HTTP requests for deposit proofs.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(depositService portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: depositService}
}

// registerDepositRoutes registers the deposit verification routes. Approval
// and rejection are officer-only.
func registerDepositRoutes(rg *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.submitProof)
		deposits.GET("", middleware.RequireOfficer(), h.listProofsByStatus)
		deposits.GET("/:proofID", h.getProof)
		deposits.POST("/:proofID/approve", middleware.RequireOfficer(), h.approveProof)
		deposits.POST("/:proofID/reject", middleware.RequireOfficer(), h.rejectProof)
	}
}

// submitProof godoc
// @Summary Submit deposit evidence for a declaration
// @Description Attaches a file reference and banked amount to the member's declaration and moves it to PROOF. A late submission raises the configured penalty.
// @Tags deposits
// @Accept  json
// @Produce  json
// @Param   proof body dto.SubmitProofRequest true "Proof details"
// @Success 201 {object} dto.DepositProofResponse
// @Failure 409 {object} map[string]string "A proof is already awaiting review"
// @Security BearerAuth
// @Router /deposits [post]
func (h *depositHandler) submitProof(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitProof", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	proof, err := h.depositService.SubmitProof(c.Request.Context(), memberID, req, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit proof")
		return
	}

	logger.Info("Deposit proof submitted",
		slog.String("proof_id", proof.ProofID),
		slog.String("declaration_id", proof.DeclarationID))
	c.JSON(http.StatusCreated, dto.ToDepositProofResponse(proof))
}

// getProof godoc
// @Summary Get a deposit proof
// @Tags deposits
// @Produce  json
// @Param   proofID path string true "Proof ID"
// @Success 200 {object} dto.DepositProofResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Proof not found"
// @Security BearerAuth
// @Router /deposits/{proofID} [get]
func (h *depositHandler) getProof(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	proofID := c.Param("proofID")

	proof, err := h.depositService.GetProofByID(c.Request.Context(), proofID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get proof")
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if proof.MemberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepositProofResponse(proof))
}

// listProofsByStatus godoc
// @Summary List deposit proofs by status
// @Description Retrieves the review queue, oldest first.
// @Tags deposits
// @Produce  json
// @Param   status query string false "Proof status (defaults to SUBMITTED)"
// @Param   limit query int false "Maximum proofs to return"
// @Success 200 {array} dto.DepositProofResponse
// @Security BearerAuth
// @Router /deposits [get]
func (h *depositHandler) listProofsByStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := domain.DepositProofStatus(c.DefaultQuery("status", string(domain.ProofSubmitted)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	proofs, err := h.depositService.ListProofsByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list proofs")
		return
	}

	resp := make([]dto.DepositProofResponse, 0, len(proofs))
	for i := range proofs {
		resp = append(resp, dto.ToDepositProofResponse(&proofs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// approveProof godoc
// @Summary Approve a deposit proof
// @Description Verifies the banked amount against the declared total, posts the deposit entry, settles penalties oldest first and approves the declaration.
// @Tags deposits
// @Produce  json
// @Param   proofID path string true "Proof ID"
// @Success 200 {object} dto.DepositProofResponse
// @Failure 409 {object} map[string]string "Amount does not match the declaration"
// @Security BearerAuth
// @Router /deposits/{proofID}/approve [post]
func (h *depositHandler) approveProof(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	proofID := c.Param("proofID")

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	proof, err := h.depositService.ApproveProof(c.Request.Context(), proofID, approverID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve proof")
		return
	}

	logger.Info("Deposit proof approved", slog.String("proof_id", proofID))
	c.JSON(http.StatusOK, dto.ToDepositProofResponse(proof))
}

// rejectProof godoc
// @Summary Reject a deposit proof
// @Description Rejects the proof with a comment; the declaration moves to REJECTED so the member can edit and resubmit.
// @Tags deposits
// @Accept  json
// @Produce  json
// @Param   proofID path string true "Proof ID"
// @Param   rejection body dto.RejectProofRequest true "Officer comment"
// @Success 200 {object} dto.DepositProofResponse
// @Failure 404 {object} map[string]string "Proof not found"
// @Security BearerAuth
// @Router /deposits/{proofID}/reject [post]
func (h *depositHandler) rejectProof(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	proofID := c.Param("proofID")

	var req dto.RejectProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectProof", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	proof, err := h.depositService.RejectProof(c.Request.Context(), proofID, req, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject proof")
		return
	}

	logger.Info("Deposit proof rejected", slog.String("proof_id", proofID))
	c.JSON(http.StatusOK, dto.ToDepositProofResponse(proof))
}
