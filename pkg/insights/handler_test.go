package insights

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInsight_ReturnsPlaceholderBeforeFirstRefresh(t *testing.T) {
	client := NewStubClient("advice")
	service := NewService(client, defaultTotals, nil, testClock, time.Second)
	defer service.Close()
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	w := httptest.NewRecorder()
	handler.GetInsight(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto InsightDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, PlaceholderText, dto.Text)
	assert.Nil(t, dto.GeneratedAt)
}

func TestRefreshInsight_ReturnsFreshAdvice(t *testing.T) {
	client := NewStubClient("Put 20% aside.")
	service := NewService(client, defaultTotals, nil, testClock, time.Second)
	defer service.Close()
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/insights/refresh", nil)
	w := httptest.NewRecorder()
	handler.RefreshInsight(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto InsightDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "Put 20% aside.", dto.Text)
	require.NotNil(t, dto.GeneratedAt)
	assert.Equal(t, testClock.FixedNow, dto.GeneratedAt.UTC())
}
