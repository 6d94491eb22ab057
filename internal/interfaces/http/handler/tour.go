package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tourapp "github.com/tourops/backend/internal/application/tour"
)

// TourHandler handles tour-related API endpoints
type TourHandler struct {
	BaseHandler
	tourService *tourapp.TourService
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(tourService *tourapp.TourService) *TourHandler {
	return &TourHandler{
		tourService: tourService,
	}
}

// Create godoc
// @Summary      Create a new tour
// @Description  Create a new tour in DRAFT status
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        request body tourapp.CreateTourRequest true "Tour creation request"
// @Success      201 {object} dto.Response{data=tourapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours [post]
func (h *TourHandler) Create(c *gin.Context) {
	var req tourapp.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	t, err := h.tourService.CreateTour(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, t)
}

// GetByID godoc
// @Summary      Get tour by ID
// @Description  Retrieve a tour with its derived financial fields
// @Tags         tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=tourapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id} [get]
func (h *TourHandler) GetByID(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	t, err := h.tourService.GetTourByID(c.Request.Context(), tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}

// List godoc
// @Summary      List tours
// @Description  Retrieve a paginated list of tours with optional filtering
// @Tags         tours
// @Produce      json
// @Param        search query string false "Search term (tour number, name, destination)"
// @Param        status query string false "Tour status" Enums(DRAFT, OPEN, CLOSED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tourapp.TourResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours [get]
func (h *TourHandler) List(c *gin.Context) {
	var filter tourapp.TourListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.tourService.ListTours(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update a tour
// @Description  Update a tour's descriptive fields; derived financial fields are read-only
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        request body tourapp.UpdateTourRequest true "Tour update request"
// @Success      200 {object} dto.Response{data=tourapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id} [put]
func (h *TourHandler) Update(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	var req tourapp.UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	t, err := h.tourService.UpdateTour(c.Request.Context(), tourID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}

// Open godoc
// @Summary      Open a tour
// @Description  Transition a DRAFT tour to OPEN so orders can be taken
// @Tags         tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=tourapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id}/open [post]
func (h *TourHandler) Open(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	t, err := h.tourService.OpenTour(c.Request.Context(), tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}

// Close godoc
// @Summary      Close a tour
// @Description  Run the closure gate and close the tour if every order is settled. A blocked closure is returned as data, not as an error.
// @Tags         tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=settlement.ClosureResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id}/close [post]
func (h *TourHandler) Close(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	result, err := h.tourService.CloseTour(c.Request.Context(), tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Recalculate godoc
// @Summary      Recalculate a tour
// @Description  Recompute the tour's participant count, revenue, cost and profit from source records
// @Tags         tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=tourapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id}/recalculate [post]
func (h *TourHandler) Recalculate(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	t, err := h.tourService.RecalculateTour(c.Request.Context(), tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}
