package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/predict"
)

const maxBodyBytes = 1 << 20

type apiHandlers struct {
	predictor Predictor
	baselines BaselineLookup
	locations domain.LocationSource
	logger    *slog.Logger
}

// predictRequest uses pointers so that omitted fields fail validation
// instead of silently reading as zero.
type predictRequest struct {
	N           *float64 `json:"N" validate:"required"`
	P           *float64 `json:"P" validate:"required"`
	K           *float64 `json:"K" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Humidity    *float64 `json:"humidity" validate:"required"`
	PH          *float64 `json:"ph" validate:"required"`
	Rainfall    *float64 `json:"rainfall" validate:"required"`
}

func (r predictRequest) features() domain.Features {
	return domain.Features{
		N:           *r.N,
		P:           *r.P,
		K:           *r.K,
		Temperature: *r.Temperature,
		Humidity:    *r.Humidity,
		PH:          *r.PH,
		Rainfall:    *r.Rainfall,
	}
}

func (h *apiHandlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := predict.ValidateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, missingFields(err))
		return
	}

	p, err := h.predictor.Predict(r.Context(), req.features())
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, p)
	case errors.Is(err, predict.ErrInvalidFeatures):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, predict.ErrModelNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("prediction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "prediction failed")
	}
}

func missingFields(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return "missing fields: " + strings.Join(names, ", ")
}

func (h *apiHandlers) handleCrops(w http.ResponseWriter, _ *http.Request) {
	crops := h.predictor.Crops()
	if crops == nil {
		writeError(w, http.StatusServiceUnavailable, predict.ErrModelNotLoaded.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"crops": crops})
}

func (h *apiHandlers) handleBaseline(w http.ResponseWriter, r *http.Request) {
	region := r.PathValue("region")
	b, ok := h.baselines.Lookup(region)
	if !ok {
		writeError(w, http.StatusNotFound, "no baseline for region")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"region":   domain.RegionKey(region),
		"baseline": b,
	})
}

func (h *apiHandlers) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.locations.States(r.Context())
	if err != nil {
		h.logger.Warn("states lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "location service unavailable")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "states": states})
}

func (h *apiHandlers) handleDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.PathValue("state")
	districts, err := h.locations.Districts(r.Context(), state)
	if err != nil {
		h.logger.Warn("districts lookup failed", "state", state, "error", err)
		writeError(w, http.StatusBadGateway, "location service unavailable")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "districts": districts})
}
