package settlement

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yalshehri/tripsplit/pkg/middleware"
	"github.com/yalshehri/tripsplit/pkg/response"
	"github.com/yalshehri/tripsplit/pkg/validate"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.GetSummary)
	r.Get("/", h.ListByTrip)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/pay", h.MarkAsPaid)

	return r
}

// GetSummary handles GET /settlements/summary?trip_id=
// @Summary      Get settlement summary
// @Description  Compute balances, reconcile pending settlements and return the full settlement picture of a trip
// @Tags         settlements
// @Produce      json
// @Param        trip_id query int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(r.URL.Query().Get("trip_id"), 10, 64)
	if err != nil || tripID <= 0 {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), tripID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTripNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSharesMismatch):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute settlement summary")
		}
		return
	}

	response.JSON(w, http.StatusOK, summary.ToResponse())
}

// ListByTrip handles GET /settlements?trip_id=
// @Summary      List trip settlements
// @Description  Get all settlements of a trip, pending and settled
// @Tags         settlements
// @Produce      json
// @Param        trip_id query int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(r.URL.Query().Get("trip_id"), 10, 64)
	if err != nil || tripID <= 0 {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	settlements, err := h.service.ListByTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list settlements")
		return
	}

	resp := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		resp[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Description  Get a single settlement
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSettlementNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// MarkAsPaid handles POST /settlements/{id}/pay
// @Summary      Mark a settlement as paid
// @Description  Transition a pending settlement to settled; only the from or to participant may do this
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Param        request body MarkPaidRequest false "Optional note"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/pay [post]
func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing participant identity")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	// The body is optional; ContentLength can be -1 on chunked requests, so
	// always attempt the decode and treat an empty body as no note.
	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	settlement, err := h.service.MarkAsPaid(r.Context(), id, actorID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadySettled):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to mark settlement as paid")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}
