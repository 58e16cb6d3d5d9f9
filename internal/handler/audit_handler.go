package handler

import (
	"github.com/gin-gonic/gin"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// AuditHandler handles audit log endpoints.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles GET /api/v1/audit
// @Summary List audit entries
// @Description Newest first
// @Tags audit
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.AuditEntry}
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	entries, total, err := h.auditService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
