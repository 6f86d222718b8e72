package handlers

import (
	"net/http"

	"onboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScopeHandler обрабатывает запросы к областям прав HRBP
type ScopeHandler struct{ svc services.PermissionService }

// NewScopeHandler создает новый обработчик областей прав
func NewScopeHandler(svc services.PermissionService) *ScopeHandler {
	return &ScopeHandler{svc: svc}
}

type setScopeReq struct {
	DivisionIDs []uuid.UUID `json:"division_ids"`
}

// SetScope целиком заменяет набор подразделений HRBP
func (h *ScopeHandler) SetScope(c *gin.Context) {
	hrbpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hrbp id"})
		return
	}
	var req setScopeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetScope(actorID(c), hrbpID, req.DivisionIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetScope возвращает набор подразделений HRBP
func (h *ScopeHandler) GetScope(c *gin.Context) {
	hrbpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hrbp id"})
		return
	}
	divisions, err := h.svc.GetScope(actorID(c), hrbpID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"divisions": divisions})
}
