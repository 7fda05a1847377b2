package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"healthtracker/internal/auth"
	"healthtracker/internal/errors"
)

// ClaimsContextKey is where the auth middleware stores *auth.Claims.
const ClaimsContextKey = "user"

// MessageResponse is returned by endpoints with no other payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error into the JSON error body.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  "VALIDATION_ERROR",
	})
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

// claims returns the session claims placed by the auth middleware.
func claims(c echo.Context) (*auth.Claims, error) {
	cl, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	if !ok || cl == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "no token, authorization denied",
			Code:  "UNAUTHENTICATED",
		})
	}
	return cl, nil
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	cl, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return cl.UserID, nil
}

// pathID parses a uuid path parameter. A malformed id is reported as notFound.
func pathID(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, respondError(notFound)
	}
	return id, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD, the latter taken in loc.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

// queryRange reads optional from/to query parameters. A bare "to" date
// covers the whole day.
func queryRange(c echo.Context, loc *time.Location) (from, to *time.Time, err error) {
	if v := c.QueryParam("from"); v != "" {
		t, perr := parseDate(v, loc)
		if perr != nil {
			return nil, nil, badRequest("from must be RFC 3339 or YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, perr := parseDate(v, loc)
		if perr != nil {
			return nil, nil, badRequest("to must be RFC 3339 or YYYY-MM-DD")
		}
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		to = &t
	}
	return from, to, nil
}
