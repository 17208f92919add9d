package servehttp_test

import (
	"net/http"

	"landdesk/bizerror"
	"landdesk/domain/submission"
	"landdesk/servehttp"
	"landdesk/session"
	"landdesk/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolutionHandler", func() {
	var (
		router   *gin.Engine
		workflow *workflowMock
	)

	BeforeEach(func() {
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		workflow = &workflowMock{}
		servehttp.RegisterResolutionHandler(router, workflow)
	})

	Describe("handleApprove", func() {
		It("should serve an approval and return the outcome", func() {
			var seen *session.Session
			workflow.ApproveFunc = func(resolution *submission.Resolution, s *session.Session) (*submission.ResolutionDetail, error) {
				seen = s
				return &submission.ResolutionDetail{SubmissionID: types.ID(123), Action: submission.ActionApprove,
					State: submission.StateApproved, SubmitterID: "10001", TicketURL: "https://trello.com/c/abc"}, nil
			}

			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/resolutions/approvals",
				`{"customId":"approve-123"}`, &session.Identity{ID: "30001", Name: "bob"})
			status, body := testinfra.ExecuteRequest(req, router)

			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"submissionId":"123","action":"approve","state":"APPROVED",
				"submitterId":"10001","ticketUrl":"https://trello.com/c/abc"}`))
			Expect(seen.Identity.Name).To(Equal("bob"))
		})

		It("should return 409 when the record is already resolved", func() {
			workflow.ApproveFunc = func(resolution *submission.Resolution, s *session.Session) (*submission.ResolutionDetail, error) {
				return nil, &bizerror.ErrAlreadyResolved{State: "APPROVED"}
			}
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/resolutions/approvals",
				`{"customId":"approve-123"}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(ContainSubstring(`"code":"resolution.already_resolved"`))
		})

		It("should return 400 when the correlation id is missing", func() {
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/resolutions/approvals", `{}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})
	})

	Describe("handleDecline", func() {
		It("should serve a decline with its reason", func() {
			var gotReason string
			workflow.DeclineFunc = func(resolution *submission.Resolution, s *session.Session) (*submission.ResolutionDetail, error) {
				gotReason = resolution.Reason
				return &submission.ResolutionDetail{SubmissionID: types.ID(123), Action: submission.ActionDecline,
					State: submission.StateDeclined, SubmitterID: "10001"}, nil
			}
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/resolutions/declines",
				`{"customId":"decline-123","reason":"zoning conflict"}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"state":"DECLINED"`))
			Expect(gotReason).To(Equal("zoning conflict"))
		})
	})
})
