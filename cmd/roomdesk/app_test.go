package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/infra/fixtures"
	ginserver "roomdesk/internal/infra/http/gin"
	"roomdesk/internal/infra/obs"
	"roomdesk/internal/infra/storage/cache"
	"roomdesk/internal/infra/storage/memory"
)

var testNow = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	router *gin.Engine
	outbox *memory.Outbox
}

func newHarness(t *testing.T) harness {
	t.Helper()
	return newHarnessWithDelay(t, 0)
}

func newHarnessWithDelay(t *testing.T, confirmDelay time.Duration) harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rooms, skipped, err := fixtures.LoadRooms(filepath.Join("..", "..", "data", "rooms.json"), "USD")
	require.NoError(t, err)
	require.Empty(t, skipped)

	idem := cache.NewIdempotencyStore(time.Hour, 100)
	t.Cleanup(idem.Close)
	box := memory.NewOutbox()
	app := buildApplication(dependencies{
		Rooms:        memory.NewRoomRepository(rooms...),
		Bookings:     memory.NewBookingRepository(),
		Idempotency:  idem,
		Outbox:       box,
		ConfirmDelay: confirmDelay,
		Now:          func() time.Time { return testNow },
	})
	return harness{
		router: ginserver.NewRouter(obs.Middleware{}, obs.HealthHandlers{}, app.handlers),
		outbox: box,
	}
}

func (h harness) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func itemIDs(t *testing.T, body map[string]any) []string {
	t.Helper()
	items, ok := body["items"].([]any)
	require.True(t, ok)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}

func TestCatalogFilters(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"everything", "", []string{"1", "2", "3", "4", "5", "6"}},
		{"search and type", "?search=suite&type=Executive", []string{"2", "5"}},
		{"search matches category", "?search=STANDARD", []string{"1", "4"}},
		{"occupied", "?availability=Occupied", []string{"3"}},
		{"available suites", "?type=Suite&availability=available", []string{"6"}},
		{"all spelling", "?type=All&availability=All", []string{"1", "2", "3", "4", "5", "6"}},
		{"unknown type", "?type=Penthouse", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, http.MethodGet, "/api/v1/rooms"+tc.query, nil, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.want, itemIDs(t, body))
			meta := body["meta"].(map[string]any)
			assert.EqualValues(t, 6, meta["total"])
			assert.EqualValues(t, len(tc.want), meta["count"])
		})
	}
}

func TestGetRoom(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/v1/rooms/3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Luxury Suite 301", body["name"])
	assert.Equal(t, "Occupied", body["availability"])
	assert.Equal(t, "rooms/room-suite.jpg", body["image_url"])

	rec = h.do(t, http.MethodGet, "/api/v1/rooms/404", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuote(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name   string
		body   map[string]any
		status int
		reason string
		nights float64
		total  float64
	}{
		{"three nights", map[string]any{"check_in": "2030-03-10", "check_out": "2030-03-13", "guests": 2}, http.StatusOK, "", 3, 25500},
		{"partial day rounds up", map[string]any{"check_in": "2030-03-10T00:00:00Z", "check_out": "2030-03-11T01:00:00Z", "guests": 1}, http.StatusOK, "", 2, 17000},
		{"reversed dates", map[string]any{"check_in": "2030-03-13", "check_out": "2030-03-10", "guests": 2}, http.StatusUnprocessableEntity, "invalid_date_range", 0, 0},
		{"missing check out", map[string]any{"check_in": "2030-03-13", "guests": 2}, http.StatusUnprocessableEntity, "invalid_date_range", 0, 0},
		{"too many guests", map[string]any{"check_in": "2030-03-10", "check_out": "2030-03-11", "guests": 3}, http.StatusUnprocessableEntity, "guest_count_out_of_range", 0, 0},
		{"no guests", map[string]any{"check_in": "2030-03-10", "check_out": "2030-03-11", "guests": 0}, http.StatusUnprocessableEntity, "guest_count_out_of_range", 0, 0},
		{"past check in", map[string]any{"check_in": "2030-02-27", "check_out": "2030-03-02", "guests": 1}, http.StatusUnprocessableEntity, "check_in_in_past", 0, 0},
		{"bad date", map[string]any{"check_in": "tomorrow", "check_out": "2030-03-02", "guests": 1}, http.StatusBadRequest, "", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/v1/rooms/1/quote", tc.body, nil)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			body := decode(t, rec)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.nights, body["nights"])
				assert.Equal(t, tc.total, body["total"].(map[string]any)["amount"])
				return
			}
			if tc.reason != "" {
				assert.Equal(t, tc.reason, body["reason"])
			}
		})
	}
}

func TestQuoteFromQueryParameters(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/v1/rooms/2/quote?check_in=2030-03-10&check_out=2030-03-12&guests=3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "300.00 USD", body["total"].(map[string]any)["display"])
}

func bookingBody(roomID string) map[string]any {
	return map[string]any{
		"room_id":          roomID,
		"check_in":         "2030-03-10",
		"check_out":        "2030-03-13",
		"guests":           2,
		"guest_name":       "John Smith",
		"guest_phone":      "+1-555-0123",
		"sponsor_id":       "EMP001",
		"special_requests": "Late check-in requested",
	}
}

func TestCreateBookingFlow(t *testing.T) {
	h := newHarness(t)
	headers := map[string]string{"Idempotency-Key": "abc", "X-Account-Email": "demo@company.com"}

	first := h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("1"), headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	booking := decode(t, first)["booking"].(map[string]any)
	assert.Equal(t, "Confirmed", booking["status"])
	assert.EqualValues(t, 3, booking["nights"])
	assert.EqualValues(t, 25500, booking["total"].(map[string]any)["amount"])
	assert.Equal(t, "Comfort Room 101", booking["room"].(map[string]any)["name"])

	replay := h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("1"), headers)
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, booking["id"], decode(t, replay)["booking"].(map[string]any)["id"])

	list := h.do(t, http.MethodGet, "/api/v1/bookings", nil, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode(t, list)["items"], 1)
	assert.Equal(t, 1, h.outbox.Pending())

	dash := h.do(t, http.MethodGet, "/api/v1/dashboard", nil, map[string]string{"X-Account-Email": "demo@company.com"})
	require.Equal(t, http.StatusOK, dash.Code)
	summary := decode(t, dash)
	assert.Equal(t, "demo@company.com", summary["account"])
	assert.EqualValues(t, 1, summary["total_bookings"])
	assert.EqualValues(t, 1, summary["upcoming_bookings"])
	assert.EqualValues(t, 0, summary["completed_bookings"])
	assert.EqualValues(t, 5, summary["available_rooms"])
	assert.Equal(t, "85.00 USD", summary["starting_from"].(map[string]any)["display"])
}

func TestConcurrentDuplicateBookingIsCreatedOnce(t *testing.T) {
	h := newHarnessWithDelay(t, 200*time.Millisecond)
	headers := map[string]string{"Idempotency-Key": "same-key", "X-Account-Email": "demo@company.com"}

	recs := make([]*httptest.ResponseRecorder, 2)
	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs[i] = h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("1"), headers)
		}()
	}
	wg.Wait()

	ids := make([]any, 0, len(recs))
	for _, rec := range recs {
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode(t, rec)["booking"].(map[string]any)["id"])
	}
	assert.Equal(t, ids[0], ids[1])

	list := h.do(t, http.MethodGet, "/api/v1/bookings", nil, nil)
	require.Len(t, decode(t, list)["items"], 1)
	assert.Equal(t, 1, h.outbox.Pending())
}

func TestReplayedRejectionKeepsReason(t *testing.T) {
	h := newHarness(t)
	headers := map[string]string{"Idempotency-Key": "bad-dates"}
	body := bookingBody("1")
	body["check_out"] = body["check_in"]

	first := h.do(t, http.MethodPost, "/api/v1/bookings", body, headers)
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t, "invalid_date_range", decode(t, first)["reason"])

	again := h.do(t, http.MethodPost, "/api/v1/bookings", body, headers)
	require.Equal(t, http.StatusUnprocessableEntity, again.Code)
	replayed := decode(t, again)
	assert.Equal(t, "invalid_date_range", replayed["reason"])
	assert.Equal(t, true, replayed["replayed"])

	unavailable := h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("3"), map[string]string{"Idempotency-Key": "busy-room"})
	require.Equal(t, http.StatusConflict, unavailable.Code)
	again = h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("3"), map[string]string{"Idempotency-Key": "busy-room"})
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestCreateBookingRejections(t *testing.T) {
	h := newHarness(t)

	missing := bookingBody("1")
	delete(missing, "guest_phone")
	delete(missing, "sponsor_id")
	rec := h.do(t, http.MethodPost, "/api/v1/bookings", missing, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "missing_contact", body["reason"])
	assert.Equal(t, []any{"guest_phone", "sponsor_id"}, body["fields"])

	rec = h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("3"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("404"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	crowded := bookingBody("1")
	crowded["guests"] = 5
	rec = h.do(t, http.MethodPost, "/api/v1/bookings", crowded, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "guest_count_out_of_range", decode(t, rec)["reason"])

	rec = h.do(t, http.MethodPost, "/api/v1/bookings", map[string]any{"check_in": "2030-03-10"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, h.outbox.Pending())
	list := h.do(t, http.MethodGet, "/api/v1/bookings", nil, nil)
	assert.Empty(t, decode(t, list)["items"])
}

func TestAmenitiesAndHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/v1/amenities", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 5)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/livez", nil, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/readyz", nil, nil).Code)
}
