package servehttp

import (
	"net/http"

	"landdesk/common"
	"landdesk/domain/submission"
	"landdesk/envelope"
	"landdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterResolutionHandler(r *gin.Engine, workflow submission.WorkflowTraits, middleWares ...gin.HandlerFunc) {
	handler := &resolutionHandler{workflow: workflow, validator: validator.New()}

	g := r.Group("/v1/resolutions", middleWares...)
	g.POST("approvals", handler.handleApprove)
	g.POST("declines", handler.handleDecline)
}

type resolutionHandler struct {
	workflow  submission.WorkflowTraits
	validator *validator.Validate
}

func (h *resolutionHandler) bind(c *gin.Context) *submission.Resolution {
	resolution := submission.Resolution{}
	if err := c.ShouldBindBodyWith(&resolution, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(resolution); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	return &resolution
}

func (h *resolutionHandler) handleApprove(c *gin.Context) {
	resolution := h.bind(c)
	envelope.Run(c, envelope.Event{Kind: "resolution.approve", TargetKind: "submission", TargetID: resolution.CustomID},
		"Approve", func(s *session.Session) error {
			detail, err := h.workflow.Approve(resolution, s)
			if err != nil {
				return err
			}
			c.JSON(http.StatusOK, detail)
			return nil
		})
}

func (h *resolutionHandler) handleDecline(c *gin.Context) {
	resolution := h.bind(c)
	envelope.Run(c, envelope.Event{Kind: "resolution.decline", TargetKind: "submission", TargetID: resolution.CustomID},
		"Decline", func(s *session.Session) error {
			detail, err := h.workflow.Decline(resolution, s)
			if err != nil {
				return err
			}
			c.JSON(http.StatusOK, detail)
			return nil
		})
}
