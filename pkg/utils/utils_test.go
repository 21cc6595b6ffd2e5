package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorDetails(rec, http.StatusBadRequest, "Invalid input", "Text cannot be empty")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid input","details":"Text cannot be empty"}`, rec.Body.String())
}

func TestRespondErrorOmitsEmptyDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusServiceUnavailable, "feed unavailable")

	assert.JSONEq(t, `{"error":"feed unavailable"}`, rec.Body.String())
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)

	require.NoError(t, SendSSEEvent(rec, rec, "analysis", map[string]string{"id": "a"}))
	require.NoError(t, SendSSEComment(rec, rec, "ping"))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: analysis\ndata: {\"id\":\"a\"}\n\n: ping\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSendSSEEventRejectsUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	err := SendSSEEvent(rec, rec, "analysis", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
}
