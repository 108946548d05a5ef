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

// memberHandler handles HTTP requests for the member registry and tiers.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(memberService portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: memberService}
}

// registerMemberRoutes registers member and tier routes. Registry writes are
// officer-only.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/members")
	{
		members.POST("", middleware.RequireOfficer(), h.registerMember)
		members.GET("", h.listMembers)
		members.GET("/:memberID", h.getMember)
		members.PUT("/:memberID/tier", middleware.RequireOfficer(), h.assignTier)
		members.DELETE("/:memberID", middleware.RequireOfficer(), h.deactivateMember)
	}

	tiers := rg.Group("/tiers")
	{
		tiers.POST("", middleware.RequireOfficer(), h.createTier)
		tiers.GET("", h.listTiers)
	}
}

// registerMember godoc
// @Summary Register a new member
// @Description Creates a member and their five ledger accounts.
// @Tags members
// @Accept  json
// @Produce  json
// @Param   member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Officer role required"
// @Failure 409 {object} map[string]string "Email already registered"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) registerMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.RegisterMember(c.Request.Context(), req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register member")
		return
	}

	logger.Info("Member registered", slog.String("member_id", member.MemberID))
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List active members
// @Tags members
// @Produce  json
// @Param   limit query int false "Maximum members to return"
// @Success 200 {array} dto.MemberResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	members, err := h.memberService.ListMembers(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list members")
		return
	}

	resp := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.ToMemberResponse(&members[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getMember godoc
// @Summary Get a member
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get member")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// assignTier godoc
// @Summary Assign a credit rating tier to a member
// @Tags members
// @Accept  json
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Param   tier body dto.AssignTierRequest true "Tier assignment"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member or tier not found"
// @Security BearerAuth
// @Router /members/{memberID}/tier [put]
func (h *memberHandler) assignTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	var req dto.AssignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AssignTier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.AssignTier(c.Request.Context(), memberID, req.TierID, requestingUserID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to assign tier")
		return
	}

	logger.Info("Tier assigned", slog.String("member_id", memberID), slog.String("tier_id", req.TierID))
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// deactivateMember godoc
// @Summary Deactivate a member
// @Tags members
// @Param   memberID path string true "Member ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [delete]
func (h *memberHandler) deactivateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.memberService.DeactivateMember(c.Request.Context(), memberID, requestingUserID, time.Now().UTC()); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate member")
		return
	}

	logger.Info("Member deactivated", slog.String("member_id", memberID))
	c.Status(http.StatusNoContent)
}

// createTier godoc
// @Summary Create a credit rating tier
// @Description Configures a tier with its loan multiplier and interest bands.
// @Tags tiers
// @Accept  json
// @Produce  json
// @Param   tier body dto.CreateTierRequest true "Tier details"
// @Success 201 {object} domain.CreditRatingTier
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tiers [post]
func (h *memberHandler) createTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tier, err := h.memberService.CreateTier(c.Request.Context(), req, creatorID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create tier")
		return
	}

	logger.Info("Tier created", slog.String("tier_id", tier.TierID))
	c.JSON(http.StatusCreated, tier)
}

// listTiers godoc
// @Summary List credit rating tiers
// @Tags tiers
// @Produce  json
// @Success 200 {array} domain.CreditRatingTier
// @Security BearerAuth
// @Router /tiers [get]
func (h *memberHandler) listTiers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tiers, err := h.memberService.ListTiers(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list tiers")
		return
	}

	c.JSON(http.StatusOK, tiers)
}
