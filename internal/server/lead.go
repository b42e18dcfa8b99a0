package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/frostline/crm/internal/lead/domain"
)

func (s *Server) CreateLead(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Source      string `json:"source"`
		Requirement string `json:"requirement"`
		AssignedTo  string `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), leaddomain.CreateLeadRequest{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Source:      strings.TrimSpace(req.Source),
		Requirement: req.Requirement,
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		AssignedTo string `form:"assigned_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.leadSvc.List(c.Request.Context(), leaddomain.ListLeadRequest{
		Status:     leaddomain.LeadStatus(strings.TrimSpace(query.Status)),
		AssignedTo: strings.TrimSpace(query.AssignedTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetLead(c *gin.Context) {
	item, err := s.leadSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateLeadStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.UpdateStatus(c.Request.Context(), leaddomain.UpdateLeadStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: leaddomain.LeadStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConvertLead(c *gin.Context) {
	resp, err := s.leadSvc.Convert(c.Request.Context(), leaddomain.ConvertLeadRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
