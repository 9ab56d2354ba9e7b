package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
)

// Envelope represents the common response contract shared with the frontend.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Success: true, Data: data}
	if len(meta) > 0 && len(meta[0]) > 0 {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Error sends a failure response. Only the public view of err reaches the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.Public(err)
	if appErr == nil {
		appErr = appErrors.ErrInternal
	}
	noStore(c)
	c.JSON(appErr.Status, Envelope{Success: false, Message: appErr.Message, Code: appErr.Code})
}

// Abort writes the error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Attachment streams a downloadable payload.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	noStore(c)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
