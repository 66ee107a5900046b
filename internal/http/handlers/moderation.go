package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/listora/listora-backend/internal/data/repos"
	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/http/response"
	"github.com/listora/listora-backend/internal/moderation/diff"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/services"
)

type ModerationHandler struct {
	log        *logger.Logger
	moderation services.ModerationService
}

func NewModerationHandler(baseLog *logger.Logger, moderation services.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		log:        baseLog.With("handler", "ModerationHandler"),
		moderation: moderation,
	}
}

// POST /api/entities/:type/:id/changes
func (h *ModerationHandler) SubmitChange(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}

	var proposal diff.ChangeSet
	if err := c.ShouldBindJSON(&proposal); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}

	change, err := h.moderation.SubmitChange(c.Request.Context(), ref, proposal)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"change": change})
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// POST /api/moderation/changes/:id/review
func (h *ModerationHandler) Review(c *gin.Context) {
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil || changeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_id", err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}

	change, err := h.moderation.Review(c.Request.Context(), changeID, req.Approve, strings.TrimSpace(req.Notes))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"change": change})
}

// GET /api/moderation/changes?status=&entity_type=&limit=
func (h *ModerationHandler) ListChanges(c *gin.Context) {
	filter := repos.PendingChangeListFilter{}

	if v := strings.TrimSpace(c.Query("status")); v != "" {
		filter.Status = types.ChangeStatus(v)
	}
	if v := strings.TrimSpace(c.Query("entity_type")); v != "" {
		entityType, err := types.ParseEntityType(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_entity_type", err)
			return
		}
		filter.EntityType = entityType
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		filter.Limit = limit
	}

	summaries, err := h.moderation.ListPending(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"changes": summaries})
}
