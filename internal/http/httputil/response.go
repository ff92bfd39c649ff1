package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

// ErrorWithData reports a failure together with a partial payload, such as
// the quote of a swap that could not be executed.
func ErrorWithData(c *gin.Context, err error, data interface{}) {
	httpErr := common.ToHTTPError(err)
	c.JSON(httpErr.StatusCode, Response{
		Success: false,
		Data:    data,
		Code:    httpErr.Code,
		Error:   httpErr.Message,
	})
}

// FromError writes err with the status its sentinel maps to.
func FromError(c *gin.Context, err error) {
	ErrorWithData(c, err, nil)
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}
