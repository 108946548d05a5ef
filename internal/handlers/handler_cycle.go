package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/middleware"
)

// cycleHandler handles HTTP requests for cycles and their phases.
type cycleHandler struct {
	cycleService portssvc.CycleSvcFacade
}

func newCycleHandler(cycleService portssvc.CycleSvcFacade) *cycleHandler {
	return &cycleHandler{cycleService: cycleService}
}

// registerCycleRoutes registers cycle and phase routes. All lifecycle writes
// are officer-only.
func registerCycleRoutes(rg *gin.RouterGroup, cycleService portssvc.CycleSvcFacade) {
	h := newCycleHandler(cycleService)

	cycles := rg.Group("/cycles")
	{
		cycles.GET("", h.listCycles)
		cycles.GET("/active", h.getActiveCycle)
		cycles.GET("/:cycleID", h.getCycle)
		cycles.GET("/:cycleID/phases", h.listPhases)

		cycles.POST("", middleware.RequireOfficer(), h.createCycle)
		cycles.POST("/:cycleID/activate", middleware.RequireOfficer(), h.activateCycle)
		cycles.POST("/:cycleID/close", middleware.RequireOfficer(), h.closeCycle)
		cycles.POST("/:cycleID/reopen", middleware.RequireOfficer(), h.reopenCycle)
		cycles.POST("/:cycleID/phases", middleware.RequireOfficer(), h.createPhase)
	}

	phases := rg.Group("/phases", middleware.RequireOfficer())
	{
		phases.PUT("/:phaseID", h.updatePhase)
		phases.PUT("/:phaseID/open", h.setPhaseOpen)
	}
}

// createCycle godoc
// @Summary Create a cycle
// @Description Creates a DRAFT cycle for a financial year.
// @Tags cycles
// @Accept  json
// @Produce  json
// @Param   cycle body dto.CreateCycleRequest true "Cycle details"
// @Success 201 {object} dto.CycleResponse
// @Failure 409 {object} map[string]string "Cycle already exists for year"
// @Security BearerAuth
// @Router /cycles [post]
func (h *cycleHandler) createCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCycle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cycle, err := h.cycleService.CreateCycle(c.Request.Context(), req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create cycle")
		return
	}

	logger.Info("Cycle created", slog.String("cycle_id", cycle.CycleID), slog.Int("year", cycle.Year))
	c.JSON(http.StatusCreated, dto.ToCycleResponse(cycle))
}

// listCycles godoc
// @Summary List cycles
// @Tags cycles
// @Produce  json
// @Param   limit query int false "Maximum cycles to return"
// @Success 200 {array} dto.CycleResponse
// @Security BearerAuth
// @Router /cycles [get]
func (h *cycleHandler) listCycles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	cycles, err := h.cycleService.ListCycles(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cycles")
		return
	}

	resp := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		resp = append(resp, dto.ToCycleResponse(&cycles[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getActiveCycle godoc
// @Summary Get the active cycle
// @Tags cycles
// @Produce  json
// @Success 200 {object} dto.CycleResponse
// @Failure 404 {object} map[string]string "No active cycle"
// @Security BearerAuth
// @Router /cycles/active [get]
func (h *cycleHandler) getActiveCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cycle, err := h.cycleService.GetActiveCycle(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get active cycle")
		return
	}

	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle))
}

// getCycle godoc
// @Summary Get a cycle
// @Tags cycles
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 404 {object} map[string]string "Cycle not found"
// @Security BearerAuth
// @Router /cycles/{cycleID} [get]
func (h *cycleHandler) getCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cycle, err := h.cycleService.GetCycleByID(c.Request.Context(), c.Param("cycleID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get cycle")
		return
	}

	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle))
}

func (h *cycleHandler) transition(c *gin.Context, op func(string, string, time.Time) (*dto.CycleResponse, error), logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cycleID := c.Param("cycleID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := op(cycleID, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update cycle")
		return
	}

	logger.Info(logMsg, slog.String("cycle_id", cycleID))
	c.JSON(http.StatusOK, resp)
}

// activateCycle godoc
// @Summary Activate a cycle
// @Description Moves a DRAFT cycle to ACTIVE. Only one cycle may be active.
// @Tags cycles
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 409 {object} map[string]string "Another cycle is active"
// @Security BearerAuth
// @Router /cycles/{cycleID}/activate [post]
func (h *cycleHandler) activateCycle(c *gin.Context) {
	h.transition(c, func(cycleID, userID string, now time.Time) (*dto.CycleResponse, error) {
		cycle, err := h.cycleService.ActivateCycle(c.Request.Context(), cycleID, userID, now)
		if err != nil {
			return nil, err
		}
		resp := dto.ToCycleResponse(cycle)
		return &resp, nil
	}, "Cycle activated")
}

// closeCycle godoc
// @Summary Close a cycle
// @Description Moves an ACTIVE cycle to CLOSED and closes all its phases.
// @Tags cycles
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Security BearerAuth
// @Router /cycles/{cycleID}/close [post]
func (h *cycleHandler) closeCycle(c *gin.Context) {
	h.transition(c, func(cycleID, userID string, now time.Time) (*dto.CycleResponse, error) {
		cycle, err := h.cycleService.CloseCycle(c.Request.Context(), cycleID, userID, now)
		if err != nil {
			return nil, err
		}
		resp := dto.ToCycleResponse(cycle)
		return &resp, nil
	}, "Cycle closed")
}

// reopenCycle godoc
// @Summary Reopen a cycle
// @Description Moves a CLOSED cycle of the current year back to ACTIVE.
// @Tags cycles
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 409 {object} map[string]string "Cycle is not from the current year"
// @Security BearerAuth
// @Router /cycles/{cycleID}/reopen [post]
func (h *cycleHandler) reopenCycle(c *gin.Context) {
	h.transition(c, func(cycleID, userID string, now time.Time) (*dto.CycleResponse, error) {
		cycle, err := h.cycleService.ReopenCycle(c.Request.Context(), cycleID, userID, now)
		if err != nil {
			return nil, err
		}
		resp := dto.ToCycleResponse(cycle)
		return &resp, nil
	}, "Cycle reopened")
}

// createPhase godoc
// @Summary Create a phase within a cycle
// @Description Configures a monthly activity window and its penalty policy.
// @Tags cycles
// @Accept  json
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Param   phase body dto.CreatePhaseRequest true "Phase details"
// @Success 201 {object} dto.PhaseResponse
// @Failure 409 {object} map[string]string "Phase type already exists in cycle"
// @Security BearerAuth
// @Router /cycles/{cycleID}/phases [post]
func (h *cycleHandler) createPhase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cycleID := c.Param("cycleID")

	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePhase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	phase, err := h.cycleService.CreatePhase(c.Request.Context(), cycleID, req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create phase")
		return
	}

	logger.Info("Phase created", slog.String("phase_id", phase.PhaseID), slog.String("phase_type", string(phase.PhaseType)))
	c.JSON(http.StatusCreated, dto.ToPhaseResponse(phase))
}

// listPhases godoc
// @Summary List the phases of a cycle
// @Tags cycles
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {array} dto.PhaseResponse
// @Security BearerAuth
// @Router /cycles/{cycleID}/phases [get]
func (h *cycleHandler) listPhases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	phases, err := h.cycleService.ListPhases(c.Request.Context(), c.Param("cycleID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list phases")
		return
	}

	resp := make([]dto.PhaseResponse, 0, len(phases))
	for i := range phases {
		resp = append(resp, dto.ToPhaseResponse(&phases[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updatePhase godoc
// @Summary Update a phase
// @Tags cycles
// @Accept  json
// @Produce  json
// @Param   phaseID path string true "Phase ID"
// @Param   phase body dto.CreatePhaseRequest true "Phase details"
// @Success 200 {object} dto.PhaseResponse
// @Failure 404 {object} map[string]string "Phase not found"
// @Security BearerAuth
// @Router /phases/{phaseID} [put]
func (h *cycleHandler) updatePhase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phaseID := c.Param("phaseID")

	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePhase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	phase, err := h.cycleService.UpdatePhase(c.Request.Context(), phaseID, req, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update phase")
		return
	}

	logger.Info("Phase updated", slog.String("phase_id", phaseID))
	c.JSON(http.StatusOK, dto.ToPhaseResponse(phase))
}

// setPhaseOpen godoc
// @Summary Open or close a phase
// @Description Opens a phase for member activity, or closes it.
// @Tags cycles
// @Accept  json
// @Produce  json
// @Param   phaseID path string true "Phase ID"
// @Param   state body dto.SetPhaseOpenRequest true "Open flag"
// @Success 200 {object} dto.PhaseResponse
// @Failure 409 {object} map[string]string "Cycle is not active"
// @Security BearerAuth
// @Router /phases/{phaseID}/open [put]
func (h *cycleHandler) setPhaseOpen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phaseID := c.Param("phaseID")

	var req dto.SetPhaseOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetPhaseOpen", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	phase, err := h.cycleService.SetPhaseOpen(c.Request.Context(), phaseID, *req.Open, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update phase state")
		return
	}

	logger.Info("Phase state changed", slog.String("phase_id", phaseID), slog.Bool("open", phase.IsOpen))
	c.JSON(http.StatusOK, dto.ToPhaseResponse(phase))
}
