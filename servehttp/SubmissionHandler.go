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

func RegisterSubmissionHandler(r *gin.Engine, workflow submission.WorkflowTraits, middleWares ...gin.HandlerFunc) {
	handler := &submissionHandler{workflow: workflow, validator: validator.New()}

	g := r.Group("/v1", middleWares...)
	g.POST("/land-requests", handler.handleSubmitRequest)
	g.POST("/activity-reports", handler.handleSubmitActivity)
}

type submissionHandler struct {
	workflow  submission.WorkflowTraits
	validator *validator.Validate
}

func (h *submissionHandler) handleSubmitRequest(c *gin.Context) {
	creation := submission.RequestCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	envelope.Run(c, envelope.Event{Kind: "land-request.submit"}, "SubmitRequest", func(s *session.Session) error {
		record, err := h.workflow.SubmitRequest(&creation, s)
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, record)
		return nil
	})
}

func (h *submissionHandler) handleSubmitActivity(c *gin.Context) {
	creation := submission.ActivityCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	envelope.Run(c, envelope.Event{Kind: "activity-report.submit"}, "SubmitActivity", func(s *session.Session) error {
		record, err := h.workflow.SubmitActivity(&creation, s)
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, record)
		return nil
	})
}
