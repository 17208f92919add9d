package servehttp_test

import (
	"net/http"

	"landdesk/bizerror"
	"landdesk/domain/district"
	"landdesk/domain/roster"
	"landdesk/servehttp"
	"landdesk/session"
	"landdesk/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type rosterTraitsMock struct {
	ManagersForFunc   func(d district.District, s *session.Session) ([]roster.ManagerAssignment, error)
	AddManagerFunc    func(managerID string, d district.District, memberID string, s *session.Session) (roster.AssignResult, error)
	RemoveManagerFunc func(managerID string, d district.District, s *session.Session) (roster.AssignResult, error)
}

func (m *rosterTraitsMock) ManagersFor(d district.District, s *session.Session) ([]roster.ManagerAssignment, error) {
	return m.ManagersForFunc(d, s)
}
func (m *rosterTraitsMock) AddManager(managerID string, d district.District, memberID string, s *session.Session) (roster.AssignResult, error) {
	return m.AddManagerFunc(managerID, d, memberID, s)
}
func (m *rosterTraitsMock) RemoveManager(managerID string, d district.District, s *session.Session) (roster.AssignResult, error) {
	return m.RemoveManagerFunc(managerID, d, s)
}

var _ = Describe("RosterHandler", func() {
	var (
		router *gin.Engine
		m      *rosterTraitsMock
	)

	BeforeEach(func() {
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		m = &rosterTraitsMock{}
		servehttp.RegisterRosterHandler(router, m)
	})

	Describe("handleQuery", func() {
		It("should list assignments of a district", func() {
			m.ManagersForFunc = func(d district.District, s *session.Session) ([]roster.ManagerAssignment, error) {
				return []roster.ManagerAssignment{{ID: types.ID(1), ManagerID: "20001", District: d, MemberID: "memb-1"}}, nil
			}
			req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/manager-assignments?district=Redwood", "", nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"total":1`))
			Expect(body).To(ContainSubstring(`"managerId":"20001"`))
		})

		It("should reject an unknown district", func() {
			req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/manager-assignments?district=Atlantis", "", nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"submission.invalid_district"`))
		})
	})

	Describe("handleAssign", func() {
		It("should report created for a new assignment", func() {
			m.AddManagerFunc = func(managerID string, d district.District, memberID string, s *session.Session) (roster.AssignResult, error) {
				return roster.AssignResultAdded, nil
			}
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/manager-assignments",
				`{"managerId":"20001","district":"Redwood","memberId":"memb-1"}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(MatchJSON(`{"result":"Added"}`))
		})

		It("should report ok for an assignment that already exists", func() {
			m.AddManagerFunc = func(managerID string, d district.District, memberID string, s *session.Session) (roster.AssignResult, error) {
				return roster.AssignResultAlreadyAssigned, nil
			}
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/manager-assignments",
				`{"managerId":"20001","district":"Redwood"}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"result":"AlreadyAssigned"}`))
		})

		It("should return 400 when validate failed", func() {
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/manager-assignments", `{"managerId":"20001"}`, nil)
			status, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("handleUnassign", func() {
		It("should remove an assignment", func() {
			m.RemoveManagerFunc = func(managerID string, d district.District, s *session.Session) (roster.AssignResult, error) {
				return roster.AssignResultRemoved, nil
			}
			req := testinfra.BuildJSONRequest(http.MethodDelete, "/v1/manager-assignments",
				`{"managerId":"20001","district":"Redwood"}`, nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"result":"Removed"}`))
		})
	})
})
