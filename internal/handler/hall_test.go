package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postHall(t *testing.T, h *HallHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/theatre-halls", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	return rec
}

// Grid validation runs before any storage access, so a nil repo is safe
// for the rejection paths.
func TestCreateHallRejectsInvalidGrid(t *testing.T) {
	h := NewHallHandler(nil)

	rec := postHall(t, h, `{"name":"Main Stage","rows":0,"seats_in_row":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postHall(t, h, `{"name":"Main Stage","rows":10,"seats_in_row":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postHall(t, h, `{"name":"  ","rows":10,"seats_in_row":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
