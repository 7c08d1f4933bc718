package http

import (
	"encoding/json"
	"net/http"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// CustomerHandler defines the customer handler interface
type CustomerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type customerHandlerImpl struct {
	customerService customer.Service
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService customer.Service) CustomerHandler {
	return &customerHandlerImpl{customerService: customerService}
}

func (h *customerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req customer.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.customerService.Create(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Customer created", result)
}

func (h *customerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req customer.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.customerService.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *customerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.customerService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Customer deleted", nil)
}

func (h *customerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.customerService.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *customerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req := customer.ListCustomersRequest{
		Page:     getIntQueryParam(r, "page", 1),
		PageSize: getIntQueryParam(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}

	result, err := h.customerService.List(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
