package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"citydrive-motors/internal/domain"
)

type Resp struct {
	Code   int               `json:"code"`
	Msg    string            `json:"msg"`
	Data   any               `json:"data,omitempty"`
	Kind   string            `json:"kind,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{Code: http.StatusOK, Msg: "OK", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Resp{Code: http.StatusCreated, Msg: "Created", Data: data})
}

func Unauthorized(c *gin.Context, kind, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Resp{Code: http.StatusUnauthorized, Msg: msg, Kind: kind})
}

// Fail maps a domain error onto its HTTP status and kind. Anything
// outside the taxonomy is an infrastructure fault: the caller gets a
// generic 500, never the underlying error text.
func Fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Resp{
			Code: http.StatusBadRequest, Msg: "validation failed",
			Kind: KindValidation, Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, Resp{
			Code: http.StatusBadRequest, Msg: err.Error(), Kind: KindDuplicateEmail,
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Resp{
			Code: http.StatusUnauthorized, Msg: err.Error(), Kind: KindInvalidCredentials,
		})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, Resp{
			Code: http.StatusUnauthorized, Msg: err.Error(), Kind: KindInvalidToken,
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, Resp{
			Code: http.StatusForbidden, Msg: err.Error(), Kind: KindForbidden,
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, Resp{
			Code: http.StatusNotFound, Msg: err.Error(), Kind: KindNotFound,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, Resp{
			Code: http.StatusInternalServerError, Msg: "internal error", Kind: KindInternal,
		})
	}
}

// BadRequest reports a malformed payload (unparseable JSON, non-numeric
// form field) before validation even runs.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Resp{Code: http.StatusBadRequest, Msg: msg, Kind: KindValidation})
}
