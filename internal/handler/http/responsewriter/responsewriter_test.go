package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())

	require.NotNil(t, wrapped)
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, 0, wrapped.BytesWritten())
	assert.False(t, wrapped.HeaderWritten())
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.WriteHeader(http.StatusBadRequest)
	wrapped.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusBadRequest, wrapped.StatusCode())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, wrapped.HeaderWritten())
}

func TestResponseWriter_WriteCountsBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	n, err := wrapped.Write([]byte(`{"error":`))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = wrapped.Write([]byte(`"x"}`))
	require.NoError(t, err)

	assert.Equal(t, 13, wrapped.BytesWritten())
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, `{"error":"x"}`, rec.Body.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.Flush()
	assert.True(t, rec.Flushed)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	assert.Same(t, rec, wrapped.Unwrap())
}
