package handlers

import (
	"net/http"

	"onboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TagHandler обрабатывает запросы к подразделениям и городам
type TagHandler struct{ svc services.TagService }

// NewTagHandler создает новый обработчик тегов
func NewTagHandler(svc services.TagService) *TagHandler { return &TagHandler{svc: svc} }

type createTagReq struct {
	Name string `json:"name" binding:"required"`
}

// CreateDivision создает подразделение
func (h *TagHandler) CreateDivision(c *gin.Context) {
	actorID := actorID(c)
	var req createTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	division, err := h.svc.CreateDivision(actorID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"division": division})
}

// ListDivisions возвращает все подразделения
func (h *TagHandler) ListDivisions(c *gin.Context) {
	divisions, err := h.svc.ListDivisions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"divisions": divisions})
}

// DeleteDivision удаляет подразделение
func (h *TagHandler) DeleteDivision(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid division id"})
		return
	}
	if err := h.svc.DeleteDivision(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateCity создает город
func (h *TagHandler) CreateCity(c *gin.Context) {
	var req createTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city, err := h.svc.CreateCity(actorID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city})
}

// ListCities возвращает все города
func (h *TagHandler) ListCities(c *gin.Context) {
	cities, err := h.svc.ListCities()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// DeleteCity удаляет город
func (h *TagHandler) DeleteCity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid city id"})
		return
	}
	if err := h.svc.DeleteCity(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// actorID достает идентификатор вызывающего из контекста запроса
func actorID(c *gin.Context) uuid.UUID {
	val, _ := c.Get("user_id")
	id, _ := val.(uuid.UUID)
	return id
}
