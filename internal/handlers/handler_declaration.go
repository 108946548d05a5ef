package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/middleware"
)

// declarationHandler handles HTTP requests for monthly declarations.
type declarationHandler struct {
	declarationService portssvc.DeclarationSvcFacade
}

func newDeclarationHandler(declarationService portssvc.DeclarationSvcFacade) *declarationHandler {
	return &declarationHandler{declarationService: declarationService}
}

// registerDeclarationRoutes registers declaration workflow routes.
func registerDeclarationRoutes(rg *gin.RouterGroup, declarationService portssvc.DeclarationSvcFacade) {
	h := newDeclarationHandler(declarationService)

	declarations := rg.Group("/declarations")
	{
		declarations.POST("", h.createDeclaration)
		declarations.GET("", middleware.RequireOfficer(), h.listDeclarationsByMonth)
		declarations.GET("/current", h.getCurrentDeclaration)
		declarations.GET("/:declarationID", h.getDeclaration)
		declarations.PUT("/:declarationID", h.updateDeclaration)
	}

	rg.GET("/members/:memberID/declarations", h.listMemberDeclarations)
}

// createDeclaration godoc
// @Summary Create a monthly declaration
// @Description Records the member's intended amounts for an effective month. The first declaration of the cycle posts the annual funding entry; a late declaration raises the configured penalty.
// @Tags declarations
// @Accept  json
// @Produce  json
// @Param   declaration body dto.CreateDeclarationRequest true "Declaration details"
// @Success 201 {object} dto.DeclarationResponse
// @Failure 409 {object} map[string]string "Declaration already exists for month"
// @Failure 422 {object} map[string]string "Declaration phase not open"
// @Security BearerAuth
// @Router /declarations [post]
func (h *declarationHandler) createDeclaration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDeclaration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	declaration, err := h.declarationService.CreateDeclaration(c.Request.Context(), memberID, req, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create declaration")
		return
	}

	logger.Info("Declaration created",
		slog.String("declaration_id", declaration.DeclarationID),
		slog.String("effective_month", req.EffectiveMonth))
	c.JSON(http.StatusCreated, dto.ToDeclarationResponse(declaration))
}

// getCurrentDeclaration godoc
// @Summary Get the caller's declaration for the current month
// @Tags declarations
// @Produce  json
// @Success 200 {object} dto.DeclarationResponse
// @Failure 404 {object} map[string]string "No declaration this month"
// @Security BearerAuth
// @Router /declarations/current [get]
func (h *declarationHandler) getCurrentDeclaration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	declaration, err := h.declarationService.GetCurrentDeclaration(c.Request.Context(), memberID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get current declaration")
		return
	}

	c.JSON(http.StatusOK, dto.ToDeclarationResponse(declaration))
}

// getDeclaration godoc
// @Summary Get a declaration
// @Tags declarations
// @Produce  json
// @Param   declarationID path string true "Declaration ID"
// @Success 200 {object} dto.DeclarationResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Declaration not found"
// @Security BearerAuth
// @Router /declarations/{declarationID} [get]
func (h *declarationHandler) getDeclaration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	declarationID := c.Param("declarationID")

	declaration, err := h.declarationService.GetDeclarationByID(c.Request.Context(), declarationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get declaration")
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if declaration.MemberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDeclarationResponse(declaration))
}

// updateDeclaration godoc
// @Summary Update a declaration's amounts
// @Description PENDING and PROOF declarations are editable by the owner. A REJECTED declaration returns to PENDING on edit. APPROVED declarations need an officer and the current month.
// @Tags declarations
// @Accept  json
// @Produce  json
// @Param   declarationID path string true "Declaration ID"
// @Param   declaration body dto.UpdateDeclarationRequest true "Updated amounts"
// @Success 200 {object} dto.DeclarationResponse
// @Failure 409 {object} map[string]string "Declaration not editable"
// @Security BearerAuth
// @Router /declarations/{declarationID} [put]
func (h *declarationHandler) updateDeclaration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	declarationID := c.Param("declarationID")

	var req dto.UpdateDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDeclaration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	declaration, err := h.declarationService.UpdateDeclaration(c.Request.Context(), declarationID, req, requestingUserID, isOfficer(c), time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update declaration")
		return
	}

	logger.Info("Declaration updated", slog.String("declaration_id", declarationID))
	c.JSON(http.StatusOK, dto.ToDeclarationResponse(declaration))
}

// listMemberDeclarations godoc
// @Summary List a member's declarations in a cycle
// @Tags declarations
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Param   cycleID query string true "Cycle ID"
// @Success 200 {array} dto.DeclarationResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Security BearerAuth
// @Router /members/{memberID}/declarations [get]
func (h *declarationHandler) listMemberDeclarations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	cycleID := c.Query("cycleID")
	if cycleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycleID query parameter is required"})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)
	if memberID != requestingUserID && !isOfficer(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	declarations, err := h.declarationService.ListMemberDeclarations(c.Request.Context(), memberID, cycleID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list declarations")
		return
	}

	resp := make([]dto.DeclarationResponse, 0, len(declarations))
	for i := range declarations {
		resp = append(resp, dto.ToDeclarationResponse(&declarations[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// listDeclarationsByMonth godoc
// @Summary List all declarations for an effective month
// @Tags declarations
// @Produce  json
// @Param   cycleID query string true "Cycle ID"
// @Param   month query string true "Effective month (YYYY-MM)"
// @Success 200 {array} dto.DeclarationResponse
// @Security BearerAuth
// @Router /declarations [get]
func (h *declarationHandler) listDeclarationsByMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cycleID := c.Query("cycleID")
	monthStr := c.Query("month")
	if cycleID == "" || monthStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycleID and month query parameters are required"})
		return
	}

	month, err := time.ParseInLocation("2006-01", monthStr, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must use the YYYY-MM form"})
		return
	}

	declarations, err := h.declarationService.ListDeclarationsByMonth(c.Request.Context(), cycleID, month)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list declarations")
		return
	}

	resp := make([]dto.DeclarationResponse, 0, len(declarations))
	for i := range declarations {
		resp = append(resp, dto.ToDeclarationResponse(&declarations[i]))
	}
	c.JSON(http.StatusOK, resp)
}
