// Package api exposes the decode service over HTTP: report fetch and
// decode endpoints plus health and metrics routes.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wxtools/internal/metar"
	"wxtools/internal/observability"
	"wxtools/internal/recon"
	"wxtools/internal/storage/sqlite"
	"wxtools/pkg/logger"
)

// Fetcher retrieves raw products from upstream services.
type Fetcher interface {
	FetchMETAR(ctx context.Context, stationCode string) (string, error)
	FetchRecon(ctx context.Context, productID string) (string, error)
}

// ReportArchive persists and recalls raw reports.
type ReportArchive interface {
	StoreReport(record *sqlite.ReportRecord) (int64, error)
	ReportHistory(station string, limit int) ([]*sqlite.ReportRecord, error)
}

// Handler contains the API handlers
type Handler struct {
	fetcher    Fetcher
	archive    ReportArchive
	metrics    *observability.Metrics
	logger     *logger.Logger
	maxHistory int
}

// NewHandler creates a new API handler
func NewHandler(fetcher Fetcher, archive ReportArchive, metrics *observability.Metrics, log *logger.Logger, maxHistory int) *Handler {
	return &Handler{
		fetcher:    fetcher,
		archive:    archive,
		metrics:    metrics,
		logger:     log.Named("api-handler"),
		maxHistory: maxHistory,
	}
}

// ReportResponse is the decoded report payload returned by the report and
// decode endpoints.
type ReportResponse struct {
	Station   string    `json:"station"`
	RawText   string    `json:"raw_text"`
	Summary   string    `json:"summary"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// ReconResponse is the decoded reconnaissance payload.
type ReconResponse struct {
	RawText      string                   `json:"raw_text"`
	Aircraft     string                   `json:"aircraft"`
	StormName    string                   `json:"storm_name"`
	Basin        string                   `json:"basin"`
	Timestamp    time.Time                `json:"timestamp"`
	Observations []ReconObservationRecord `json:"observations"`
}

// ReconObservationRecord is one flattened observation record.
type ReconObservationRecord struct {
	Timestamp           time.Time `json:"timestamp"`
	Position            string    `json:"position"`
	FlightLevelPressure string    `json:"flight_level_pressure"`
	Temperature         string    `json:"temperature"`
	DewPoint            string    `json:"dew_point"`
	WindSpeed           string    `json:"wind_speed"`
	PositionQuality     string    `json:"position_quality"`
	MetQuality          string    `json:"met_quality"`
}

type decodeRequest struct {
	Raw string `json:"raw"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetReport fetches, decodes, and archives the latest METAR for a station.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	station := chi.URLParam(r, "station")

	fetchStart := time.Now()
	raw, err := h.fetcher.FetchMETAR(r.Context(), station)
	h.metrics.FetchDuration.WithLabelValues("metar").Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		h.metrics.FetchRequests.WithLabelValues("metar", "error").Inc()
		h.logger.Warn("METAR fetch failed",
			logger.String("station", station),
			logger.Error(err))
		h.writeError(w, http.StatusBadGateway, err)
		return
	}
	h.metrics.FetchRequests.WithLabelValues("metar", "success").Inc()

	obs, err := h.decodeMETAR(raw)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	reportType := string(obs.Coded.ReportType)
	if reportType == "" {
		reportType = string(metar.ReportTypeMETAR)
	}

	fetchedAt := time.Now().UTC()
	if _, err := h.archive.StoreReport(&sqlite.ReportRecord{
		Station:    obs.Coded.StationID,
		ReportType: reportType,
		RawText:    raw,
		FetchedAt:  fetchedAt,
	}); err != nil {
		// Archiving is best effort, the decoded report is still returned.
		h.logger.Warn("Failed to archive report",
			logger.String("station", station),
			logger.Error(err))
	} else {
		h.metrics.ReportsArchived.Inc()
	}

	h.writeJSON(w, http.StatusOK, ReportResponse{
		Station:   obs.Coded.StationID,
		RawText:   raw,
		Summary:   obs.Summary(),
		FetchedAt: fetchedAt,
	})
}

// GetReportHistory returns archived reports for a station, newest first.
func (h *Handler) GetReportHistory(w http.ResponseWriter, r *http.Request) {
	station := chi.URLParam(r, "station")

	limit := h.maxHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, &metar.FormatError{Group: "limit", Msg: "limit must be a positive integer"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	records, err := h.archive.ReportHistory(station, limit)
	if err != nil {
		h.logger.Error("Failed to query report history",
			logger.String("station", station),
			logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []*sqlite.ReportRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

// DecodeReport decodes a caller-supplied raw METAR or SPECI.
func (h *Handler) DecodeReport(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Raw == "" {
		h.writeError(w, http.StatusBadRequest, &metar.FormatError{Group: "body", Msg: "expecting a JSON object with a non-empty raw field"})
		return
	}

	obs, err := h.decodeMETAR(req.Raw)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ReportResponse{
		Station: obs.Coded.StationID,
		RawText: req.Raw,
		Summary: obs.Summary(),
	})
}

// DecodeRecon decodes a caller-supplied raw HDOB message.
func (h *Handler) DecodeRecon(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Raw == "" {
		h.writeError(w, http.StatusBadRequest, &metar.FormatError{Group: "body", Msg: "expecting a JSON object with a non-empty raw field"})
		return
	}

	decodeStart := time.Now()
	msg, err := recon.DecodeMessage(req.Raw)
	h.metrics.DecodeDuration.WithLabelValues("recon").Observe(time.Since(decodeStart).Seconds())
	if err != nil {
		h.metrics.DecodeRequests.WithLabelValues("recon", "error").Inc()
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	h.metrics.DecodeRequests.WithLabelValues("recon", "success").Inc()

	resp := ReconResponse{
		RawText:   req.Raw,
		Aircraft:  msg.AircraftDescription(),
		StormName: msg.StormName,
		Basin:     msg.BasinDescription(),
		Timestamp: msg.Timestamp,
	}
	for _, obs := range msg.Observations {
		resp.Observations = append(resp.Observations, ReconObservationRecord{
			Timestamp:           obs.Timestamp,
			Position:            obs.Coordinates.String(),
			FlightLevelPressure: obs.FlightLevelPressure.String(),
			Temperature:         obs.Temperature.String(),
			DewPoint:            obs.DewPoint.String(),
			WindSpeed:           obs.WindSpeed.String(),
			PositionQuality:     obs.PositionQCDescription(),
			MetQuality:          obs.MetQCDescription(),
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeMETAR(raw string) (*metar.Observation, error) {
	decodeStart := time.Now()
	obs, err := metar.Decode(raw)
	h.metrics.DecodeDuration.WithLabelValues("metar").Observe(time.Since(decodeStart).Seconds())
	if err != nil {
		h.metrics.DecodeRequests.WithLabelValues("metar", "error").Inc()
		return nil, err
	}
	h.metrics.DecodeRequests.WithLabelValues("metar", "success").Inc()
	return obs, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
