package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query        string
		page, size   int
	}{
		{"", 1, 10},
		{"page=3", 3, 10},
		{"page=3&page_size=25", 3, 25},
		{"page=0&page_size=0", 1, 10},
		{"page=-1", 1, 10},
		{"page_size=500", 1, 100},
		{"page=abc&page_size=xyz", 1, 10},
	}
	for _, tc := range cases {
		page, size := pageParams(ctxWithQuery(tc.query))
		assert.Equal(t, tc.page, page, "query %q", tc.query)
		assert.Equal(t, tc.size, size, "query %q", tc.query)
	}
}

func TestIDList(t *testing.T) {
	ids, err := idList("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	ids, err = idList(" 4 , 5 ")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, ids)

	ids, err = idList("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = idList("1,x")
	assert.Error(t, err)

	_, err = idList("0")
	assert.Error(t, err)
}

func TestGetUserIDAcceptsNumericForms(t *testing.T) {
	e := echo.New()
	for _, v := range []interface{}{uint64(42), int(42), int64(42), float64(42), "42"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := getUserID(c)
	assert.Error(t, err)
}
