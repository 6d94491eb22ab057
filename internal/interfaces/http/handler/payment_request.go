package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/tourops/backend/internal/application/billing"
)

// PaymentRequestHandler handles payment request API endpoints
type PaymentRequestHandler struct {
	BaseHandler
	requestService *billingapp.PaymentRequestService
}

// NewPaymentRequestHandler creates a new PaymentRequestHandler
func NewPaymentRequestHandler(requestService *billingapp.PaymentRequestService) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		requestService: requestService,
	}
}

// Create godoc
// @Summary      Create a new payment request
// @Description  Submit a supplier payment request against a tour; a pending request already counts as cost
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreatePaymentRequestRequest true "Payment request creation request"
// @Success      201 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests [post]
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var req billingapp.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pr, err := h.requestService.CreatePaymentRequest(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, pr)
}

// GetByID godoc
// @Summary      Get payment request by ID
// @Description  Retrieve a payment request with its line items
// @Tags         payment-requests
// @Produce      json
// @Param        id path string true "Payment Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests/{id} [get]
func (h *PaymentRequestHandler) GetByID(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID format")
		return
	}

	pr, err := h.requestService.GetPaymentRequestByID(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pr)
}

// List godoc
// @Summary      List payment requests
// @Description  Retrieve a paginated list of payment requests with optional filtering
// @Tags         payment-requests
// @Produce      json
// @Param        search query string false "Search term (request number, supplier name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.PaymentRequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests [get]
func (h *PaymentRequestHandler) List(c *gin.Context) {
	var filter billingapp.PaymentRequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.requestService.ListPaymentRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Approve godoc
// @Summary      Approve a payment request
// @Description  Transition a pending payment request to APPROVED
// @Tags         payment-requests
// @Produce      json
// @Param        id path string true "Payment Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests/{id}/approve [post]
func (h *PaymentRequestHandler) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID format")
		return
	}

	pr, err := h.requestService.ApprovePaymentRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pr)
}

// Confirm godoc
// @Summary      Confirm a payment request
// @Description  Transition an approved payment request to CONFIRMED, making it eligible for disbursement
// @Tags         payment-requests
// @Produce      json
// @Param        id path string true "Payment Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests/{id}/confirm [post]
func (h *PaymentRequestHandler) Confirm(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID format")
		return
	}

	pr, err := h.requestService.ConfirmPaymentRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pr)
}

// Reject godoc
// @Summary      Reject a payment request
// @Description  Reject a payment request; its amount stops counting toward tour cost
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment Request ID" format(uuid)
// @Param        request body billingapp.RejectPaymentRequestRequest true "Rejection request"
// @Success      200 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests/{id}/reject [post]
func (h *PaymentRequestHandler) Reject(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID format")
		return
	}

	var req billingapp.RejectPaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pr, err := h.requestService.RejectPaymentRequest(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pr)
}

// Delete godoc
// @Summary      Delete a payment request
// @Description  Soft-delete a payment request; the record stays visible but stops counting toward cost
// @Tags         payment-requests
// @Produce      json
// @Param        id path string true "Payment Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payment-requests/{id} [delete]
func (h *PaymentRequestHandler) Delete(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID format")
		return
	}

	pr, err := h.requestService.DeletePaymentRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pr)
}
