package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/realty-backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации фейковых данных.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedRequest представляет запрос на генерацию данных.
type SeedRequest struct {
	NumUsers    int `json:"num_users" form:"num_users"`
	NumProjects int `json:"num_projects" form:"num_projects"`
}

// Seed обрабатывает POST /seed. Доступно только в dev окружении.
func (h *SeedHandler) Seed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.NumUsers <= 0 {
		req.NumUsers = 20
	}
	if req.NumUsers > 200 {
		req.NumUsers = 200
	}
	if req.NumProjects < 0 {
		req.NumProjects = 0
	}
	if req.NumProjects == 0 {
		req.NumProjects = 5
	}

	if err := h.seedService.SeedData(c.Request.Context(), req.NumUsers, req.NumProjects); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "данные сгенерированы",
		"num_users":    req.NumUsers,
		"num_projects": req.NumProjects,
	})
}
