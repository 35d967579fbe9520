package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/application/service"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
	"github.com/expenseflow/approval-engine/internal/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the workflow operations over HTTP
type Handler struct {
	claims    service.ClaimService
	processor service.ApprovalProcessor
	resolver  service.PendingResolver
	exporter  *report.Exporter
	rules     port.RuleRepository
	users     port.UserRepository
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	claims service.ClaimService,
	processor service.ApprovalProcessor,
	resolver service.PendingResolver,
	exporter *report.Exporter,
	rules port.RuleRepository,
	users port.UserRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		claims:    claims,
		processor: processor,
		resolver:  resolver,
		exporter:  exporter,
		rules:     rules,
		users:     users,
		logger:    logger,
	}
}

// Register mounts the API routes
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/v1")
	{
		api.POST("/claims", h.SubmitClaim)
		api.GET("/claims/:id", h.GetClaim)
		api.POST("/claims/:id/actions", h.SubmitAction)
		api.GET("/claims/:id/report", h.DownloadReport)
		api.GET("/approvals/pending", h.ListPending)
	}
}

// SubmitClaimRequest is the claim creation payload
type SubmitClaimRequest struct {
	AmountCents int64   `json:"amount_cents" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Description string  `json:"description"`
	RuleID      *string `json:"rule_id"`
}

// SubmitClaim creates a claim for the acting user and initiates its workflow
func (h *Handler) SubmitClaim(c *gin.Context) {
	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	claim, err := h.claims.Submit(c.Request.Context(), user.ID, service.SubmitInput{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
		RuleID:      req.RuleID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetClaim returns a claim with its action trail
func (h *Handler) GetClaim(c *gin.Context) {
	claim, actions, err := h.claims.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim":   claim,
		"actions": actions,
	})
}

// ActionRequest is an approver's decision payload. Override lets an admin
// push a claim through the same state machine without being in the current
// approver set.
type ActionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
	Override bool   `json:"override"`
}

// SubmitAction records the acting user's decision on a claim
func (h *Handler) SubmitAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	claimID := c.Param("id")

	if req.Override {
		if user.Role != entity.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "override requires admin role"})
			return
		}
	} else {
		eligible, err := h.isEligible(c, user, claimID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if !eligible {
			c.JSON(http.StatusForbidden, gin.H{"error": "not an eligible approver for this claim"})
			return
		}
	}

	claim, err := h.processor.Process(c.Request.Context(), claimID, user.ID, entity.Decision(req.Decision), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, claim)
}

// ListPending returns claims awaiting action from the acting user
func (h *Handler) ListPending(c *gin.Context) {
	user := currentUser(c)
	claims, err := h.resolver.PendingFor(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// DownloadReport streams the claim's approval trail as an xlsx workbook
func (h *Handler) DownloadReport(c *gin.Context) {
	claim, actions, err := h.claims.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	f, err := h.exporter.Build(claim, actions)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=claim-%s.xlsx", claim.ID))
	if _, err := f.WriteTo(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", zap.String("claim_id", claim.ID), zap.Error(err))
	}
}

// isEligible replays the shared eligibility check for the claim's current
// state, so the endpoint and the pending listing can never disagree
func (h *Handler) isEligible(c *gin.Context, user *entity.User, claimID string) (bool, error) {
	ctx := c.Request.Context()

	claim, _, err := h.claims.Get(ctx, claimID)
	if err != nil {
		return false, err
	}

	var rule *entity.Rule
	if claim.RuleID != nil {
		rule, err = h.rules.GetByID(ctx, *claim.RuleID)
		if err != nil {
			return false, err
		}
		if rule == nil {
			return false, fmt.Errorf("%w: %s", workflow.ErrRuleNotFound, *claim.RuleID)
		}
	}

	submitter, err := h.users.GetByID(ctx, claim.SubmitterID)
	if err != nil {
		return false, err
	}

	return workflow.IsEligible(user, submitter, claim, rule), nil
}

// respondError maps domain errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrClaimNotFound),
		errors.Is(err, workflow.ErrRuleNotFound),
		errors.Is(err, workflow.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrClaimNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidDecision),
		errors.Is(err, workflow.ErrCommentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrRuleHasNoSteps),
		errors.Is(err, workflow.ErrStepHasNoApprovers):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
