package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
)

const StatusSuccess = "success"

// Envelope is the body of every mobile API response.
type Envelope struct {
	Status  string   `json:"status"`
	Type    string   `json:"type"`
	Results any      `json:"results,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Resource identifies the route a response belongs to.
type Resource struct {
	Type     string
	Location string
}

func (r Resource) setLocation(c *gin.Context) {
	if r.Location != "" {
		c.Header("Location", r.Location)
	}
}

func RespondSuccess(c *gin.Context, status int, res Resource, statusText string, body any) {
	if statusText == "" {
		statusText = StatusSuccess
	}
	res.setLocation(c)
	c.JSON(status, Envelope{Status: statusText, Type: res.Type, Results: body})
}

func RespondErrors(c *gin.Context, status int, res Resource, errs ...string) {
	if len(errs) == 0 {
		errs = []string{http.StatusText(status)}
	}
	res.setLocation(c)
	c.JSON(status, Envelope{Status: "error", Type: res.Type, Errors: errs})
}

// RespondError renders err, using its status and messages when it is an
// *apierr.Error and a 500 otherwise.
func RespondError(c *gin.Context, res Resource, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.Internal(err)
	}
	_ = c.Error(err)
	msgs := ae.Messages
	if len(msgs) == 0 || (len(msgs) == 1 && msgs[0] == "") {
		msgs = []string{ae.Error()}
	}
	RespondErrors(c, ae.Status, res, msgs...)
}
