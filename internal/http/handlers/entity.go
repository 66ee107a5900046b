package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/http/response"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/services"
)

// EntityHandler exposes the publication gates and the cascade delete.
type EntityHandler struct {
	log        *logger.Logger
	moderation services.ModerationService
}

func NewEntityHandler(baseLog *logger.Logger, moderation services.ModerationService) *EntityHandler {
	return &EntityHandler{
		log:        baseLog.With("handler", "EntityHandler"),
		moderation: moderation,
	}
}

type gateRequest struct {
	Value bool `json:"value"`
}

type bulkGateRequest struct {
	Refs  []entityRefPayload `json:"refs"`
	Value bool               `json:"value"`
}

type entityRefPayload struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

type bulkResultPayload struct {
	Ref   types.EntityRef `json:"ref"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
}

// PUT /api/moderation/entities/:type/:id/approval
func (h *EntityHandler) SetApproval(c *gin.Context) {
	h.setGate(c, h.moderation.SetApproval)
}

// PUT /api/moderation/entities/:type/:id/verification
func (h *EntityHandler) SetVerification(c *gin.Context) {
	h.setGate(c, h.moderation.SetVerification)
}

func (h *EntityHandler) setGate(c *gin.Context, op func(context.Context, types.EntityRef, bool) error) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	var req gateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := op(c.Request.Context(), ref, req.Value); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/moderation/entities/bulk/approval
func (h *EntityHandler) BulkSetApproval(c *gin.Context) {
	h.bulkGate(c, h.moderation.BulkSetApproval)
}

// POST /api/moderation/entities/bulk/verification
func (h *EntityHandler) BulkSetVerification(c *gin.Context) {
	h.bulkGate(c, h.moderation.BulkSetVerification)
}

func (h *EntityHandler) bulkGate(c *gin.Context, op func(context.Context, []types.EntityRef, bool) []services.BulkResult) {
	var req bulkGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if len(req.Refs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "empty_refs", nil)
		return
	}

	refs := make([]types.EntityRef, len(req.Refs))
	for i, rp := range req.Refs {
		entityType, err := types.ParseEntityType(rp.Type)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_entity_type", err)
			return
		}
		refs[i] = types.EntityRef{Type: entityType, ID: rp.ID}
	}

	results := op(c.Request.Context(), refs, req.Value)
	payload := make([]bulkResultPayload, len(results))
	for i, res := range results {
		payload[i] = bulkResultPayload{Ref: res.Ref, OK: res.Err == nil}
		if res.Err != nil {
			payload[i].Error = res.Err.Error()
		}
	}
	response.RespondOK(c, gin.H{"results": payload})
}

// DELETE /api/entities/:type/:id
func (h *EntityHandler) Delete(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	if err := h.moderation.DeleteEntity(c.Request.Context(), ref); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
