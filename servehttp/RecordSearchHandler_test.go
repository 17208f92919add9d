package servehttp_test

import (
	"encoding/json"
	"net/http"

	"landdesk/bizerror"
	"landdesk/client/es"
	"landdesk/domain/submission"
	"landdesk/indices"
	"landdesk/servehttp"
	"landdesk/session"
	"landdesk/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecordSearchHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterRecordSearchHandler(router)
	})
	AfterEach(func() {
		es.SearchFunc = es.Search
	})

	It("should answer a filtered search over the audit index", func() {
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			doc, _ := json.Marshal(indices.SubmissionDocument{Submission: submission.Submission{
				ID: types.ID(321), State: submission.StateApproved, SubmitterName: "alice",
			}})
			return &es.ESSearchResult{Hits: es.ESSearchHits{
				Total: es.ESSearchHitsTotal{Value: 1},
				Hits:  []es.ESSearchHit{{Index: index, Id: "321", Source: es.Source(doc)}},
			}}, nil
		}

		req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/submission-records?state=APPROVED", "", nil)
		status, body := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"total":1`))
		Expect(body).To(ContainSubstring(`"submitterName":"alice"`))
	})
})
