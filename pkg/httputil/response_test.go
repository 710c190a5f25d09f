package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusBadRequest, "invalid_input", "Name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "invalid_input", result["error"])
	assert.Equal(t, "Name is required", result["message"])
}

type conflictErr struct{}

func (conflictErr) Error() string   { return "already there" }
func (conflictErr) StatusCode() int { return http.StatusConflict }
func (conflictErr) Hint() string    { return "remove it first" }

func TestWriteTypedError(t *testing.T) {
	t.Parallel()

	t.Run("uses status and hint", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteTypedError(rec, "register_failed", conflictErr{})

		assert.Equal(t, http.StatusConflict, rec.Code)
		var result map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "register_failed", result["error"])
		assert.Equal(t, "remove it first", result["hint"])
	})

	t.Run("unwraps", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteTypedError(rec, "x", errors.Join(errors.New("context"), conflictErr{}))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("plain error is 500", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteTypedError(rec, "x", errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hint")
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var v struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(r, &v, 1024))
	assert.Equal(t, "a", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nme":"a"}`))
	assert.Error(t, DecodeJSON(r, &v, 1024))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.EqualError(t, DecodeJSON(r, &v, 1024), "request body is empty")
}

func TestWriteHelpers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	WriteCreated(rec, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	WriteNotFound(rec, "not_found", "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	WriteBadRequest(rec, "bad", "nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
