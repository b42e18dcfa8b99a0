package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/frostline/crm/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type quotationItemBody struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Notes       string          `json:"notes"`
}

func quotationItems(items []quotationItemBody) []quotationdomain.ItemInput {
	out := make([]quotationdomain.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, quotationdomain.ItemInput{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Category:    strings.TrimSpace(item.Category),
			Unit:        strings.TrimSpace(item.Unit),
			Notes:       item.Notes,
		})
	}
	return out
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req struct {
		CustomerID         string              `json:"customer_id"`
		ProjectID          string              `json:"project_id"`
		Title              string              `json:"title"`
		DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
		TaxRate            decimal.Decimal     `json:"tax_rate"`
		ValidUntil         string              `json:"valid_until"`
		Terms              string              `json:"terms"`
		Notes              string              `json:"notes"`
		Items              []quotationItemBody `json:"items"`
		ActorID            string              `json:"actor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	validUntil, err := parseOptionalTime(req.ValidUntil, true)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), quotationdomain.CreateQuotationRequest{
		CustomerID:         strings.TrimSpace(req.CustomerID),
		ProjectID:          strings.TrimSpace(req.ProjectID),
		Title:              strings.TrimSpace(req.Title),
		DiscountPercentage: req.DiscountPercentage,
		TaxRate:            req.TaxRate,
		ValidUntil:         validUntil,
		Terms:              req.Terms,
		Notes:              req.Notes,
		Items:              quotationItems(req.Items),
		ActorID:            strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status      string `form:"status"`
		CustomerID  string `form:"customer_id"`
		ProjectID   string `form:"project_id"`
		QuoteNumber string `form:"quote_number"`
		LatestOnly  bool   `form:"latest_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.List(c.Request.Context(), quotationdomain.ListQuotationRequest{
		Status:      quotationdomain.QuotationStatus(strings.TrimSpace(query.Status)),
		CustomerID:  strings.TrimSpace(query.CustomerID),
		ProjectID:   strings.TrimSpace(query.ProjectID),
		QuoteNumber: strings.TrimSpace(query.QuoteNumber),
		LatestOnly:  query.LatestOnly,
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Quotations, "page_info": resp.PageInfo})
}

func (s *Server) GetQuotation(c *gin.Context) {
	item, err := s.quotationSvc.GetByID(c.Request.Context(), quotationdomain.GetQuotationRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateQuotationStatus(c *gin.Context) {
	var req struct {
		Status  string `json:"status"`
		Notes   string `json:"notes"`
		ActorID string `json:"actor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.UpdateStatus(c.Request.Context(), quotationdomain.UpdateStatusRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Status:  quotationdomain.QuotationStatus(strings.TrimSpace(req.Status)),
		Notes:   req.Notes,
		ActorID: strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateQuotationVersion(c *gin.Context) {
	var req struct {
		Title              *string             `json:"title"`
		DiscountPercentage *decimal.Decimal    `json:"discount_percentage"`
		TaxRate            *decimal.Decimal    `json:"tax_rate"`
		ValidUntil         *string             `json:"valid_until"`
		Terms              *string             `json:"terms"`
		Notes              *string             `json:"notes"`
		Items              []quotationItemBody `json:"items"`
		ActorID            string              `json:"actor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	changes := quotationdomain.VersionChanges{
		Title:              req.Title,
		DiscountPercentage: req.DiscountPercentage,
		TaxRate:            req.TaxRate,
		Terms:              req.Terms,
		Notes:              req.Notes,
	}
	if req.ValidUntil != nil {
		validUntil, err := parseOptionalTime(*req.ValidUntil, true)
		if err != nil || validUntil == nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		changes.ValidUntil = validUntil
	}
	if req.Items != nil {
		changes.Items = quotationItems(req.Items)
	}

	resp, err := s.quotationSvc.CreateVersion(c.Request.Context(), quotationdomain.CreateVersionRequest{
		OriginalID: strings.TrimSpace(c.Param("id")),
		Changes:    changes,
		ActorID:    strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConvertQuotation(c *gin.Context) {
	var req struct {
		InvoiceType  string           `json:"invoice_type"`
		Percentage   *decimal.Decimal `json:"percentage"`
		DueDate      string           `json:"due_date"`
		PaymentTerms string           `json:"payment_terms"`
		Notes        string           `json:"notes"`
		ActorID      string           `json:"actor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := parseOptionalTime(req.DueDate, true)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.ConvertToInvoice(c.Request.Context(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:      strings.TrimSpace(c.Param("id")),
		InvoiceType:  invoicedomain.InvoiceType(strings.TrimSpace(req.InvoiceType)),
		Percentage:   req.Percentage,
		DueDate:      dueDate,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
		ActorID:      strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
