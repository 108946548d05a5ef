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

// penaltyHandler handles HTTP requests for penalties and penalty types.
type penaltyHandler struct {
	penaltyService portssvc.PenaltySvcFacade
}

func newPenaltyHandler(penaltyService portssvc.PenaltySvcFacade) *penaltyHandler {
	return &penaltyHandler{penaltyService: penaltyService}
}

// registerPenaltyRoutes registers penalty lifecycle routes. Raising and
// approving penalties is officer-only; members can view their own.
func registerPenaltyRoutes(rg *gin.RouterGroup, penaltyService portssvc.PenaltySvcFacade) {
	h := newPenaltyHandler(penaltyService)

	penaltyTypes := rg.Group("/penalty-types")
	{
		penaltyTypes.POST("", middleware.RequireOfficer(), h.createPenaltyType)
		penaltyTypes.GET("", h.listPenaltyTypes)
	}

	penalties := rg.Group("/penalties")
	{
		penalties.POST("", middleware.RequireOfficer(), h.raisePenalty)
		penalties.GET("", middleware.RequireOfficer(), h.listPenaltiesByStatus)
		penalties.GET("/:penaltyID", h.getPenalty)
		penalties.POST("/:penaltyID/approve", middleware.RequireOfficer(), h.approvePenalty)
	}

	rg.GET("/members/:memberID/penalties", h.listUnpaidPenalties)
}

// createPenaltyType godoc
// @Summary Create a penalty type
// @Description Configures a fixed-fee penalty type for manual or automatic use.
// @Tags penalties
// @Accept  json
// @Produce  json
// @Param   penaltyType body dto.CreatePenaltyTypeRequest true "Penalty type details"
// @Success 201 {object} domain.PenaltyType
// @Failure 409 {object} map[string]string "Penalty type name already exists"
// @Security BearerAuth
// @Router /penalty-types [post]
func (h *penaltyHandler) createPenaltyType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePenaltyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePenaltyType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	penaltyType, err := h.penaltyService.CreatePenaltyType(c.Request.Context(), req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create penalty type")
		return
	}

	logger.Info("Penalty type created", slog.String("penalty_type_id", penaltyType.PenaltyTypeID))
	c.JSON(http.StatusCreated, penaltyType)
}

// listPenaltyTypes godoc
// @Summary List penalty types
// @Tags penalties
// @Produce  json
// @Success 200 {array} domain.PenaltyType
// @Security BearerAuth
// @Router /penalty-types [get]
func (h *penaltyHandler) listPenaltyTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	types, err := h.penaltyService.ListPenaltyTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list penalty types")
		return
	}

	c.JSON(http.StatusOK, types)
}

// raisePenalty godoc
// @Summary Raise a manual penalty
// @Description Creates a PENDING penalty against a member; approval posts the accrual entry.
// @Tags penalties
// @Accept  json
// @Produce  json
// @Param   penalty body dto.CreatePenaltyRequest true "Penalty details"
// @Success 201 {object} dto.PenaltyResponse
// @Failure 409 {object} map[string]string "Penalty already exists for the period"
// @Security BearerAuth
// @Router /penalties [post]
func (h *penaltyHandler) raisePenalty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RaisePenalty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	penalty, err := h.penaltyService.RaisePenalty(c.Request.Context(), req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to raise penalty")
		return
	}

	logger.Info("Penalty raised",
		slog.String("penalty_id", penalty.PenaltyID),
		slog.String("member_id", penalty.MemberID))
	c.JSON(http.StatusCreated, dto.ToPenaltyResponse(penalty))
}

// listPenaltiesByStatus godoc
// @Summary List penalties by status
// @Tags penalties
// @Produce  json
// @Param   status query string false "Penalty status (defaults to PENDING)"
// @Param   limit query int false "Maximum penalties to return"
// @Success 200 {array} dto.PenaltyResponse
// @Security BearerAuth
// @Router /penalties [get]
func (h *penaltyHandler) listPenaltiesByStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := domain.PenaltyStatus(c.DefaultQuery("status", string(domain.PenaltyPending)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	penalties, err := h.penaltyService.ListPenaltiesByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list penalties")
		return
	}

	resp := make([]dto.PenaltyResponse, 0, len(penalties))
	for i := range penalties {
		resp = append(resp, dto.ToPenaltyResponse(&penalties[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getPenalty godoc
// @Summary Get a penalty record
// @Tags penalties
// @Produce  json
// @Param   penaltyID path string true "Penalty ID"
// @Success 200 {object} dto.PenaltyResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Penalty not found"
// @Security BearerAuth
// @Router /penalties/{penaltyID} [get]
func (h *penaltyHandler) getPenalty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	penaltyID := c.Param("penaltyID")

	penalty, err := h.penaltyService.GetPenaltyByID(c.Request.Context(), penaltyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get penalty")
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if penalty.MemberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPenaltyResponse(penalty))
}

// approvePenalty godoc
// @Summary Approve a pending penalty
// @Description Moves the penalty to APPROVED and posts its accrual entry.
// @Tags penalties
// @Produce  json
// @Param   penaltyID path string true "Penalty ID"
// @Success 200 {object} dto.PenaltyResponse
// @Failure 409 {object} map[string]string "Penalty is not pending"
// @Security BearerAuth
// @Router /penalties/{penaltyID}/approve [post]
func (h *penaltyHandler) approvePenalty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	penaltyID := c.Param("penaltyID")

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	penalty, err := h.penaltyService.ApprovePenalty(c.Request.Context(), penaltyID, approverID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve penalty")
		return
	}

	logger.Info("Penalty approved", slog.String("penalty_id", penaltyID))
	c.JSON(http.StatusOK, dto.ToPenaltyResponse(penalty))
}

// listUnpaidPenalties godoc
// @Summary List a member's unpaid penalties
// @Description Retrieves the member's APPROVED penalties, oldest first.
// @Tags penalties
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {array} dto.PenaltyResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Security BearerAuth
// @Router /members/{memberID}/penalties [get]
func (h *penaltyHandler) listUnpaidPenalties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if memberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	penalties, err := h.penaltyService.ListUnpaidPenalties(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list penalties")
		return
	}

	resp := make([]dto.PenaltyResponse, 0, len(penalties))
	for i := range penalties {
		resp = append(resp, dto.ToPenaltyResponse(&penalties[i]))
	}
	c.JSON(http.StatusOK, resp)
}
