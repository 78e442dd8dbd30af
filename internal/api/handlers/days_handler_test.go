package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francolucas/habit-tracker/internal/domain/days"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
)

func newDaysRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := store.NewMemoryStore()
	log := logger.NewLogger()
	catalogRepo := habits.NewRepository(docs)
	catalog := habits.NewService(catalogRepo, log)

	ctx := context.Background()
	seed := []habits.CreateInput{
		{Label: "Floss", Type: habits.TypeBoolean},
		{Label: "Water", Type: habits.TypeNumber, Unit: "l"},
		{Label: "Supplements", Type: habits.TypeMultiEnum, EnumOptions: []string{"Vitamin D", "Zinc"}},
	}
	for _, input := range seed {
		_, err := catalog.Create(ctx, input)
		require.NoError(t, err)
	}

	daysService := days.NewService(days.NewRepository(docs), catalogRepo, log)
	handler := NewDaysHandler(daysService, catalog)

	// Routes registered without the auth middleware; this exercises the
	// handlers, not token checking.
	router := gin.New()
	router.GET("/api/days/:date", handler.GetDay)
	router.GET("/api/days/:date/summary", handler.GetDaySummary)
	router.PUT("/api/days/:date/values/:habitId", handler.SetValue)
	router.POST("/api/days/:date/values/:habitId/toggle", handler.ToggleValue)
	router.PUT("/api/days/:date/note", handler.SaveNote)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func dayData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestGetDayMissing(t *testing.T) {
	router := newDaysRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/days/2025-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := dayData(t, w)
	assert.Equal(t, false, data["exists"])
	assert.Equal(t, "2025-03-01", data["date"])
}

func TestGetDayInvalidDate(t *testing.T) {
	router := newDaysRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/days/march-1st", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetValueDispatch(t *testing.T) {
	router := newDaysRouter(t)

	tests := []struct {
		name    string
		habitID string
		body    string
		check   func(t *testing.T, values map[string]interface{})
	}{
		{
			name:    "boolean",
			habitID: "floss",
			body:    `{"value": true}`,
			check: func(t *testing.T, values map[string]interface{}) {
				assert.Equal(t, true, values["floss"])
			},
		},
		{
			name:    "number from json number",
			habitID: "water",
			body:    `{"value": 2.5}`,
			check: func(t *testing.T, values map[string]interface{}) {
				assert.Equal(t, 2.5, values["water"])
			},
		},
		{
			name:    "number from locale text",
			habitID: "water",
			body:    `{"value": "1.234,56"}`,
			check: func(t *testing.T, values map[string]interface{}) {
				assert.Equal(t, 1234.56, values["water"])
			},
		},
		{
			name:    "multi enum normalizes",
			habitID: "supplements",
			body:    `{"value": ["Vitamin D", "Vitamin D", "  "]}`,
			check: func(t *testing.T, values map[string]interface{}) {
				assert.Equal(t, []interface{}{"Vitamin D"}, values["supplements"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/values/"+tt.habitID, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			data := dayData(t, w)
			values, _ := data["values"].(map[string]interface{})
			tt.check(t, values)
		})
	}
}

func TestSetValueErrors(t *testing.T) {
	router := newDaysRouter(t)

	// Unknown habit
	w := doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/values/nope", `{"value": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Wrong shape for the declared type
	w = doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/values/floss", `{"value": "yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unparseable number text
	w = doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/values/water", `{"value": "a lot"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleEndpoint(t *testing.T) {
	router := newDaysRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/days/2025-03-01/values/floss/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	values, _ := dayData(t, w)["values"].(map[string]interface{})
	assert.Equal(t, true, values["floss"])

	w = doJSON(t, router, http.MethodPost, "/api/days/2025-03-01/values/floss/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	values, _ = dayData(t, w)["values"].(map[string]interface{})
	assert.Equal(t, false, values["floss"])
}

func TestNoteAndSummaryEndpoints(t *testing.T) {
	router := newDaysRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/note", `{"note": "rest day"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rest day", dayData(t, w)["note"])

	w = doJSON(t, router, http.MethodPut, "/api/days/2025-03-01/values/floss", `{"value": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/days/2025-03-01/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := dayData(t, w)
	assert.Equal(t, float64(33), data["rate"])
	completed, _ := data["completed"].(map[string]interface{})
	assert.Equal(t, true, completed["floss"])
	assert.Equal(t, false, completed["water"])
}
