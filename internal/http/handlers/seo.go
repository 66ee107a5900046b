package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/http/response"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/services"
)

type SEOHandler struct {
	log *logger.Logger
	seo services.SEOService
}

func NewSEOHandler(baseLog *logger.Logger, seo services.SEOService) *SEOHandler {
	return &SEOHandler{
		log: baseLog.With("handler", "SEOHandler"),
		seo: seo,
	}
}

// GET /api/entities/:type/:id/seo
func (h *SEOHandler) Get(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	meta, err := h.seo.Get(c.Request.Context(), ref)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metadata": meta})
}

// PUT /api/moderation/entities/:type/:id/seo
func (h *SEOHandler) Update(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	var update services.MetadataUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	meta, err := h.seo.Update(c.Request.Context(), ref, update)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metadata": meta})
}

type variantRequest struct {
	Variant string `json:"variant"`
}

// PUT /api/moderation/entities/:type/:id/seo/variant
func (h *SEOHandler) SetActiveVariant(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	meta, err := h.seo.SetActiveVariant(c.Request.Context(), ref, types.Variant(req.Variant))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metadata": meta})
}

// POST /api/moderation/entities/:type/:id/seo/regenerate
func (h *SEOHandler) Regenerate(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	var opts services.RegenerateOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	meta, err := h.seo.Regenerate(c.Request.Context(), ref, opts)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metadata": meta})
}

// POST /api/moderation/entities/:type/:id/seo/rescore
func (h *SEOHandler) Rescore(c *gin.Context) {
	ref, err := parseEntityRef(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity_ref", err)
		return
	}
	meta, err := h.seo.RescoreEntity(c.Request.Context(), ref)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metadata": meta})
}

type bulkRegenerateRequest struct {
	Refs    []entityRefPayload        `json:"refs"`
	Options services.RegenerateOptions `json:"options"`
}

// POST /api/moderation/seo/regenerate
func (h *SEOHandler) BulkRegenerate(c *gin.Context) {
	var req bulkRegenerateRequest
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

	results := h.seo.BulkRegenerate(c.Request.Context(), refs, req.Options)
	payload := make([]bulkResultPayload, len(results))
	for i, res := range results {
		payload[i] = bulkResultPayload{Ref: res.Ref, OK: res.Err == nil}
		if res.Err != nil {
			payload[i].Error = res.Err.Error()
		}
	}
	response.RespondOK(c, gin.H{"results": payload})
}

// GET /api/moderation/seo/report
func (h *SEOHandler) SitewideReport(c *gin.Context) {
	report, err := h.seo.SitewideReport(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
