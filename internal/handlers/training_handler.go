package handlers

import (
	"net/http"

	"onboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrainingHandler обрабатывает запросы прогресса обучения
type TrainingHandler struct {
	progress services.ProgressService
	exams    services.ExamService
}

// NewTrainingHandler создает новый обработчик обучения
func NewTrainingHandler(progress services.ProgressService, exams services.ExamService) *TrainingHandler {
	return &TrainingHandler{progress: progress, exams: exams}
}

// View возвращает сводку обучения новичка
func (h *TrainingHandler) View(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	view, err := h.progress.View(actorID(c), newbieID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"training": view})
}

// ViewAll возвращает сводки по всем новичкам наставника
func (h *TrainingHandler) ViewAll(c *gin.Context) {
	views, err := h.progress.ViewAll(actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainings": views})
}

type submitExamReq struct {
	Answers []services.Answer `json:"answers"`
}

// SubmitExam проверяет ответы новичка на экзамен
func (h *TrainingHandler) SubmitExam(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam id"})
		return
	}
	var req submitExamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.exams.Submit(actorID(c), newbieID, examID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// FinishTask отмечает задание выполненным
func (h *TrainingHandler) FinishTask(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	if err := h.exams.FinishTask(actorID(c), newbieID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FinishSection отмечает раздел курса пройденным
func (h *TrainingHandler) FinishSection(c *gin.Context) {
	newbieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newbie id"})
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	sectionID, err := uuid.Parse(c.Param("section_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}
	if err := h.exams.FinishSection(actorID(c), newbieID, courseID, sectionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
