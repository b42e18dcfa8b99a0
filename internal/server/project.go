package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	projectdomain "github.com/frostline/crm/internal/project/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) CreateProject(c *gin.Context) {
	var req struct {
		CustomerID  string          `json:"customer_id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Budget      decimal.Decimal `json:"budget"`
		StartDate   string          `json:"start_date"`
		ActorID     string          `json:"actor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalTime(req.StartDate, false)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Budget:      req.Budget,
		StartDate:   startDate,
		ActorID:     strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProjects(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.projectSvc.List(c.Request.Context(), projectdomain.ListProjectRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		Status:     projectdomain.ProjectStatus(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetProject(c *gin.Context) {
	item, err := s.projectSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateProject(c *gin.Context) {
	var req struct {
		Status      *string          `json:"status"`
		Description *string          `json:"description"`
		Budget      *decimal.Decimal `json:"budget"`
		EndDate     *string          `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := projectdomain.UpdateProjectRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Description: req.Description,
		Budget:      req.Budget,
	}
	if req.Status != nil {
		status := projectdomain.ProjectStatus(strings.TrimSpace(*req.Status))
		update.Status = &status
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalTime(*req.EndDate, true)
		if err != nil || endDate == nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		update.EndDate = endDate
	}

	resp, err := s.projectSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProjectFinance(c *gin.Context) {
	summary, err := s.projectSvc.Finance(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) ListProjectActivities(c *gin.Context) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, activitydomain.ErrInvalidProject)
		return
	}

	var query struct {
		Limit int `form:"limit,default=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.activitySvc.List(c.Request.Context(), activitydomain.ListRequest{
		ProjectID: projectID,
		Limit:     query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
