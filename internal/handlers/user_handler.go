package handlers

import (
	"net/http"

	"onboard/internal/models"
	"onboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler обрабатывает запросы к справочнику пользователей
type UserHandler struct{ svc services.UserService }

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(svc services.UserService) *UserHandler { return &UserHandler{svc: svc} }

// CreateUser создает пользователя
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	user, err := h.svc.CreateUser(actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser возвращает пользователя по ID
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.svc.GetUser(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers возвращает пользователей по роли из query-параметра
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := models.UserRole(c.Query("role"))
	users, err := h.svc.ListByRole(actorID(c), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListNewbies возвращает новичков в зоне ответственности вызывающего
func (h *UserHandler) ListNewbies(c *gin.Context) {
	newbies, err := h.svc.ListNewbies(actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newbies": newbies})
}

type assignTutorReq struct {
	TutorID uuid.UUID `json:"tutor_id" binding:"required"`
}

// AssignTutor закрепляет наставника за новичком
func (h *UserHandler) AssignTutor(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	var req assignTutorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AssignTutor(actorID(c), newbieID, req.TutorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
