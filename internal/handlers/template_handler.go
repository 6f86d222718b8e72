package handlers

import (
	"net/http"

	"onboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TemplateHandler обрабатывает запросы к шаблонам обучения
type TemplateHandler struct{ svc services.TemplateService }

// NewTemplateHandler создает новый обработчик шаблонов
func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// Assign целиком заменяет шаблон новичка
func (h *TemplateHandler) Assign(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	var req services.AssignTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := h.svc.AssignOrUpdate(actorID(c), newbieID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}

// Get возвращает шаблон новичка
func (h *TemplateHandler) Get(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	template, err := h.svc.GetByNewbie(actorID(c), newbieID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}
