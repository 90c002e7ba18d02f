package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marina-keet/MiaTech-sub000/internal/database"
	"github.com/marina-keet/MiaTech-sub000/internal/middleware"
	"github.com/marina-keet/MiaTech-sub000/internal/models"
)

// ProjectHandler — административные операции над проектами; их состав
// брокер читает через проверку участия при входе в project-комнаты
type ProjectHandler struct {
	db *database.Database
}

func NewProjectHandler(db *database.Database) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// requireAdmin проверяет роль текущего пользователя и отвечает
// отказом, если он не администратор
func (h *ProjectHandler) requireAdmin(c *gin.Context) bool {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return false
	}

	if user.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return false
	}

	return true
}

// CreateProject создает проект для клиента
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		ClientID string `json:"client_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}

	project := &models.Project{
		Name:     req.Name,
		ClientID: clientID,
	}

	if err := h.db.CreateProject(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, formatProjectResponse(project))
}

// GetProject возвращает проект с составом команды
func (h *ProjectHandler) GetProject(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	project, err := h.db.GetProject(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, formatProjectResponse(project))
}

// AddTeamMember добавляет сотрудника в команду проекта
func (h *ProjectHandler) AddTeamMember(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.AddTeamMember(c.Param("id"), req.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project or user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "team member added"})
}

func formatProjectResponse(project *models.Project) gin.H {
	team := make([]gin.H, 0, len(project.Team))
	for _, member := range project.Team {
		team = append(team, gin.H{
			"id":       member.ID,
			"username": member.Username,
			"role":     member.Role,
		})
	}

	return gin.H{
		"id":         project.ID,
		"name":       project.Name,
		"client_id":  project.ClientID,
		"status":     project.Status,
		"created_at": project.CreatedAt,
		"team":       team,
	}
}
