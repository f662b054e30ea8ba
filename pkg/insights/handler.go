package insights

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type InsightDTO struct {
	Text        string     `json:"text"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetInsight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(InsightToDTO(h.service.Current())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RefreshInsight(w http.ResponseWriter, r *http.Request) {
	log.Debug("Manual insight refresh requested")
	w.Header().Set("Content-Type", "application/json")

	insight := h.service.Refresh(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(InsightToDTO(insight)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func InsightToDTO(insight Insight) InsightDTO {
	var generatedAt *time.Time
	if !insight.GeneratedAt.IsZero() {
		generatedAt = &insight.GeneratedAt
	}
	return InsightDTO{
		Text:        insight.Text,
		GeneratedAt: generatedAt,
	}
}
