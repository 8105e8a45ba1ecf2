package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/realty-backend/internal/dto"
	"github.com/ignatzorin/realty-backend/internal/http/handlers/common"
	"github.com/ignatzorin/realty-backend/internal/service"
)

// CrowdfundingHandler предоставляет HTTP слой краудфандинговых проектов.
type CrowdfundingHandler struct {
	crowdfunding *service.CrowdfundingService
}

// NewCrowdfundingHandler создаёт хэндлер.
func NewCrowdfundingHandler(crowdfunding *service.CrowdfundingService) *CrowdfundingHandler {
	return &CrowdfundingHandler{crowdfunding: crowdfunding}
}

// CreateProject обрабатывает POST /projects.
func (h *CrowdfundingHandler) CreateProject(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.crowdfunding.CreateProject(c.Request.Context(), userID, service.CreateProjectInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		TargetAmountCents:  req.TargetAmountCents,
		MinInvestmentCents: req.MinInvestmentCents,
		Allocation:         req.Allocation,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject обрабатывает GET /projects/:id — проект с агрегатами.
func (h *CrowdfundingHandler) GetProject(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.crowdfunding.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	summary, err := h.crowdfunding.Summary(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectResponse{Project: project, Summary: summary})
}

// ListProjects обрабатывает GET /projects.
func (h *CrowdfundingHandler) ListProjects(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	status := c.Query("status")

	projects, err := h.crowdfunding.ListProjects(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// Pledge обрабатывает POST /projects/:id/pledge.
func (h *CrowdfundingHandler) Pledge(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.PledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pledge, err := h.crowdfunding.Pledge(c.Request.Context(), userID, projectID, req.AmountCents)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pledge)
}

// GetPledge обрабатывает GET /projects/:id/pledge — заявка текущего пользователя.
func (h *CrowdfundingHandler) GetPledge(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pledge, err := h.crowdfunding.GetPledge(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pledge)
}

// CancelPledge обрабатывает DELETE /projects/:id/pledge.
func (h *CrowdfundingHandler) CancelPledge(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.crowdfunding.CancelPledge(c.Request.Context(), userID, projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Vote обрабатывает POST /projects/:id/vote.
func (h *CrowdfundingHandler) Vote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := h.crowdfunding.Vote(c.Request.Context(), userID, projectID, req.VoteType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

// RemoveVote обрабатывает DELETE /projects/:id/vote.
func (h *CrowdfundingHandler) RemoveVote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.crowdfunding.RemoveVote(c.Request.Context(), userID, projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary обрабатывает GET /projects/:id/summary.
func (h *CrowdfundingHandler) Summary(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.crowdfunding.Summary(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
