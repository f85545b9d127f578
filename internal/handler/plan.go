// internal/handler/plan.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// PlanHandler serves the plan purchase flow and the plan catalog mutations.
type PlanHandler struct {
	subscriptionService *service.SubscriptionService
	paymentService      *service.PaymentService
	planService         *service.PlanService
}

func NewPlanHandler(
	subscriptionService *service.SubscriptionService,
	paymentService *service.PaymentService,
	planService *service.PlanService,
) *PlanHandler {
	return &PlanHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
		planService:         planService,
	}
}

type SubscribeInput struct {
	CompanyID uuid.UUID `json:"company_id"`
	PlanID    uuid.UUID `json:"plan_id"`
}

type SubscribeResponse struct {
	BaseResponse
	Subscription *model.Subscription `json:"subscription"`
}

func (h *PlanHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var input SubscribeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	// Owners may only subscribe their own company; super admins any.
	if caller.Role == model.RoleCompanyOwner {
		if caller.CompanyID == nil || *caller.CompanyID != input.CompanyID {
			respondWithError(w, http.StatusForbidden, "Cannot subscribe a company you do not own")
			return
		}
	}

	sub, err := h.subscriptionService.Subscribe(r.Context(), input.CompanyID, input.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompanyNotFound):
			respondWithError(w, http.StatusNotFound, "Company not found")
		case errors.Is(err, domain.ErrPlanNotFound):
			respondWithError(w, http.StatusNotFound, "Plan not found")
		default:
			slog.ErrorContext(r.Context(), "Plan subscription error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, SubscribeResponse{
		BaseResponse: BaseResponse{Ok: true},
		Subscription: sub,
	})
}

type CreateOrderResponse struct {
	BaseResponse
	*service.CreateOrderOutput
}

func (h *PlanHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.paymentService.CreateOrder(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			respondWithError(w, http.StatusBadRequest, "Amount must be positive")
			return
		}
		slog.ErrorContext(r.Context(), "Order creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, CreateOrderResponse{
		BaseResponse:      BaseResponse{Ok: true},
		CreateOrderOutput: output,
	})
}

func (h *PlanHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var input service.VerifyPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.paymentService.VerifyPayment(r.Context(), input); err != nil {
		switch {
		case errors.Is(err, domain.ErrSignatureMismatch):
			respondWithError(w, http.StatusBadRequest, "Payment signature mismatch")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Payment verification error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Payment verified"})
}

func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	var input service.UpdatePlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	plan, err := h.planService.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotFound):
			respondWithError(w, http.StatusNotFound, "Plan not found")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Plan update error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, PlanResponse{
		BaseResponse: BaseResponse{Ok: true},
		Plan:         plan,
	})
}

func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	if err := h.planService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			respondWithError(w, http.StatusNotFound, "Plan not found")
			return
		}
		slog.ErrorContext(r.Context(), "Plan deletion error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted"})
}
