package httperr

import (
	"net/http"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, "", msg, detail)
}

func abort(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type UnavailableDetail struct {
	Conflicts   []queries.RangeView `json:"conflicts"`
	Unavailable []queries.RangeView `json:"unavailable"`
}

type mapping struct {
	status int
	code   string
	msg    string
}

var mappings = map[error]mapping{
	errs.ErrValidation:         {http.StatusBadRequest, "validation_error", ""},
	errs.ErrUnauthorized:       {http.StatusUnauthorized, "unauthorized", "Unauthorized"},
	errs.ErrNotFound:           {http.StatusNotFound, "not_found", ""},
	errs.ErrDateUnavailable:    {http.StatusConflict, "date_unavailable", "The requested dates are not available"},
	errs.ErrInvalidTransition:  {http.StatusConflict, "invalid_transition", ""},
	errs.ErrCapacityExceeded:   {http.StatusUnprocessableEntity, "capacity_exceeded", ""},
	errs.ErrSubmissionRejected: {http.StatusTooManyRequests, "submission_rejected", "We could not accept this request. Please try again later"},
	errs.ErrGateway:            {http.StatusBadGateway, "gateway_error", "Payment provider unavailable, please try again"},
	errs.ErrGatewayTimeout:     {http.StatusGatewayTimeout, "gateway_timeout", "Payment provider timed out, please try again"},
}

// Respond maps a usecase error onto the HTTP taxonomy. An empty message in the table
// means the error text is user-facing.
func Respond(c *gin.Context, err error) {
	m, ok := mappings[errs.Classify(err)]
	if !ok {
		abort(c, http.StatusInternalServerError, err, "internal_error", "Internal server error", nil)
		return
	}

	msg := m.msg
	if msg == "" {
		msg = publicMessage(err)
	}

	var detail any
	var unavailable *availability.UnavailableError
	if errs.As(err, &unavailable) {
		detail = UnavailableDetail{
			Conflicts:   queries.RangeViews(unavailable.Conflicts),
			Unavailable: queries.RangeViews(unavailable.Ranges),
		}
	}
	abort(c, m.status, err, m.code, msg, detail)
}

// publicMessage drops wrapping prefixes, keeping the innermost message.
func publicMessage(err error) string {
	for {
		next := errs.UnwrapOnce(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
