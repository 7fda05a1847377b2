package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtracker/internal/auth"
	"healthtracker/internal/errors"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// newTestServer returns an echo instance that authenticates every request as
// userID. uuid.Nil leaves the request anonymous.
func newTestServer(userID uuid.UUID) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != uuid.Nil {
				c.Set(ClaimsContextKey, &auth.Claims{UserID: userID})
			}
			return next(c)
		}
	})
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", errors.ErrGoalNotFound, http.StatusNotFound, "NOT_FOUND", "goal not found"},
		{"validation", errors.Validation("title is required"), http.StatusBadRequest, "VALIDATION_ERROR", "title is required"},
		{"not authorized", errors.NotAuthorized("user not authorized"), http.StatusUnauthorized, "NOT_AUTHORIZED", "user not authorized"},
		{"forbidden", errors.ErrAdminCannotLeave, http.StatusForbidden, "FORBIDDEN", errors.ErrAdminCannotLeave.Error()},
		{"internal hides message", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(uuid.New())
			e.GET("/boom", func(c echo.Context) error { return respondError(tt.err) })

			rec := doRequest(e, http.MethodGet, "/boom", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestCurrentUserID_Anonymous(t *testing.T) {
	e := newTestServer(uuid.Nil)
	e.GET("/me", func(c echo.Context) error {
		if _, err := currentUserID(c); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})

	rec := doRequest(e, http.MethodGet, "/me", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	got, err := parseDate("2024-03-05", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, loc), got)

	got, err = parseDate("2024-03-05T10:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)))

	_, err = parseDate("05/03/2024", loc)
	assert.Error(t, err)
}

func TestQueryRange(t *testing.T) {
	e := echo.New()

	t.Run("bare to date covers the whole day", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?from=2024-03-01&to=2024-03-05", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		from, to, err := queryRange(c, time.UTC)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, int(999*time.Millisecond), time.UTC), *to)
	})

	t.Run("absent parameters", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		from, to, err := queryRange(c, time.UTC)

		require.NoError(t, err)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("malformed", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?from=yesterday", nil), httptest.NewRecorder())

		_, _, err := queryRange(c, time.UTC)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
