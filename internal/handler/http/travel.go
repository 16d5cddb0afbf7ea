package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/handler/http/response"
)

type TravelHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
}

type travelHandlerImpl struct {
	travelService travel.TravelService
}

func NewTravelHandler(travelService travel.TravelService) TravelHandler {
	return &travelHandlerImpl{travelService: travelService}
}

// Create implements TravelHandler.
func (h *travelHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req travel.CreateTravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.travelService.CreateTravelRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Travel request submitted", result)
}

// Decide implements TravelHandler.
func (h *travelHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req travel.DecideTravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.travelService.DecideTravelRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Travel request "+string(result.Status), result)
}

// Get implements TravelHandler.
func (h *travelHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.travelService.GetTravelRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func travelFilterFromQuery(r *http.Request) travel.TravelFilter {
	return travel.TravelFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		Status:     optionalQuery(r, "status"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Page:       intQuery(r, "page", 1),
		Limit:      intQuery(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
}

// ListMine implements TravelHandler.
func (h *travelHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.travelService.ListMyTravelRequests(r.Context(), travelFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListAssigned implements TravelHandler.
func (h *travelHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	result, err := h.travelService.ListAssignedTravelRequests(r.Context(), travelFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
