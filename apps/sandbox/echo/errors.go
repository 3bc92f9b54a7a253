package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

var (
	errMissingToken         = echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	errInvalidToken         = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "forbidden")
	errInvalidCourseID      = echo.NewHTTPError(http.StatusBadRequest, "invalid course id")
	errInvalidUserID        = echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	errInvalidCourseIDParam = echo.NewHTTPError(http.StatusBadRequest, "invalid course_id")
	errCourseNotFound       = echo.NewHTTPError(http.StatusNotFound, course.ErrNotFound.Error())
	errUserNotFound         = echo.NewHTTPError(http.StatusNotFound, user.ErrNotFound.Error())
)

// apiError is the body of every failed response: `{"error": {"message": ..., "fields": ...}}`.
type apiError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body apiError

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				body.Message = msg
			} else {
				body.Message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			body.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				body.Fields[vErr.Field()] = vErr.Translate(core.Translator)
			}
			body.Message = origErr[0].Translate(core.Translator)
			code = http.StatusBadRequest
		case *core.ValidationError:
			if origErr.Fields != nil {
				body.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					body.Fields[fErr.Field] = fErr.Error
				}
			}
			body.Message = origErr.Error()
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			body.Message = http.StatusText(http.StatusInternalServerError)

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.UserID
				usr.Role = claims.Role
			}
			logger.Error(body.Message, errors.Wrap(err, body.Message), usr)
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			body.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"error": body})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
