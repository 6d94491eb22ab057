package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/tourops/backend/internal/application/billing"
)

// DisbursementHandler handles disbursement order API endpoints
type DisbursementHandler struct {
	BaseHandler
	disbursementService *billingapp.DisbursementService
}

// NewDisbursementHandler creates a new DisbursementHandler
func NewDisbursementHandler(disbursementService *billingapp.DisbursementService) *DisbursementHandler {
	return &DisbursementHandler{
		disbursementService: disbursementService,
	}
}

// Create godoc
// @Summary      Create a new disbursement order
// @Description  Batch confirmed payment requests into a single pending disbursement
// @Tags         disbursements
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateDisbursementRequest true "Disbursement creation request"
// @Success      201 {object} dto.Response{data=billingapp.DisbursementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /disbursements [post]
func (h *DisbursementHandler) Create(c *gin.Context) {
	var req billingapp.CreateDisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	d, err := h.disbursementService.CreateDisbursement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, d)
}

// GetByID godoc
// @Summary      Get disbursement order by ID
// @Description  Retrieve a disbursement order with the payment requests it covers
// @Tags         disbursements
// @Produce      json
// @Param        id path string true "Disbursement ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DisbursementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /disbursements/{id} [get]
func (h *DisbursementHandler) GetByID(c *gin.Context) {
	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	d, err := h.disbursementService.GetDisbursementByID(c.Request.Context(), disbursementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}

// List godoc
// @Summary      List disbursement orders
// @Description  Retrieve a paginated list of disbursement orders
// @Tags         disbursements
// @Produce      json
// @Param        search query string false "Search term (disbursement number)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.DisbursementResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /disbursements [get]
func (h *DisbursementHandler) List(c *gin.Context) {
	var filter billingapp.DisbursementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.disbursementService.ListDisbursements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Confirm godoc
// @Summary      Confirm a disbursement order
// @Description  Mark a disbursement as paid; every covered payment request transitions to PAID
// @Tags         disbursements
// @Produce      json
// @Param        id path string true "Disbursement ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DisbursementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /disbursements/{id}/confirm [post]
func (h *DisbursementHandler) Confirm(c *gin.Context) {
	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	d, err := h.disbursementService.ConfirmDisbursement(c.Request.Context(), disbursementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}
