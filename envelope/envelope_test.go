package envelope_test

import (
	"errors"
	"net/http"
	"testing"

	"landdesk/bizerror"
	"landdesk/envelope"
	"landdesk/session"
	"landdesk/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
)

func TestEnvelopeRun(t *testing.T) {
	RegisterTestingT(t)

	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)

	router := gin.New()
	router.Use(bizerror.ErrorHandling())
	router.POST("/ok", func(c *gin.Context) {
		envelope.Run(c, envelope.Event{Kind: "test.ok", TargetKind: "thing", TargetID: "42"}, "DoThing",
			func(s *session.Session) error {
				c.JSON(http.StatusOK, gin.H{"actor": s.Identity.ID})
				return nil
			})
	})
	router.POST("/biz-fail", func(c *gin.Context) {
		envelope.Run(c, envelope.Event{Kind: "test.fail"}, "DoThing", func(s *session.Session) error {
			return &bizerror.ErrAlreadyResolved{State: "APPROVED"}
		})
	})
	router.POST("/fail", func(c *gin.Context) {
		envelope.Run(c, envelope.Event{Kind: "test.fail"}, "DoThing", func(s *session.Session) error {
			return errors.New("dependency blew up")
		})
	})

	t.Run("successful event spans and responds once", func(t *testing.T) {
		tracer.Reset()

		req := testinfra.BuildJSONRequest(http.MethodPost, "/ok", `{}`, &session.Identity{ID: "10001", Name: "alice"})
		status, body := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"actor":"10001"}`))

		spans := tracer.FinishedSpans()
		Expect(len(spans)).To(Equal(1))
		Expect(spans[0].OperationName).To(Equal("DoThing"))
		Expect(spans[0].Tag("event.kind")).To(Equal("test.ok"))
		Expect(spans[0].Tag("actor.id")).To(Equal("10001"))
		Expect(spans[0].Tag("target.kind")).To(Equal("thing"))
		Expect(spans[0].Tag("target.id")).To(Equal("42"))
		Expect(spans[0].Tag("error")).To(BeNil())
	})

	t.Run("failed event marks the span and renders exactly one error body", func(t *testing.T) {
		tracer.Reset()

		req := testinfra.BuildJSONRequest(http.MethodPost, "/biz-fail", `{}`, nil)
		status, body := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(ContainSubstring(`"code":"resolution.already_resolved"`))

		spans := tracer.FinishedSpans()
		Expect(len(spans)).To(Equal(1))
		Expect(spans[0].Tag("error")).To(Equal(true))
	})

	t.Run("unexpected failure is hidden behind the generic notice", func(t *testing.T) {
		tracer.Reset()

		req := testinfra.BuildJSONRequest(http.MethodPost, "/fail", `{}`, nil)
		status, body := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"an unexpected error occurred while processing your request"}`))
		Expect(body).ToNot(ContainSubstring("dependency blew up"))
	})
}
