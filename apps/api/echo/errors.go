package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
)

var (
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

	notFoundErrors = []error{
		course.ErrNotFound,
		course.ErrLessonNotFound,
		course.ErrQuizNotFound,
		category.ErrNotFound,
		progress.ErrNotEnrolled,
	}
)

func isNotFound(err error) bool {
	for _, nfErr := range notFoundErrors {
		if err == nfErr {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if flds := origErr.FieldErrors(); flds != nil {
				message = flds
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if isNotFound(cause) {
				code = http.StatusNotFound
				message = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			reqID := ctx.Response().Header().Get(echo.HeaderXRequestID)
			logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{"request_id": reqID})

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
