package servehttp

import (
	"net/http"

	"landdesk/bizerror"
	"landdesk/common"
	"landdesk/domain/district"
	"landdesk/domain/roster"
	"landdesk/envelope"
	"landdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterRosterHandler(r *gin.Engine, m roster.RosterTraits, middleWares ...gin.HandlerFunc) {
	handler := &rosterHandler{roster: m, validator: validator.New()}

	g := r.Group("/v1/manager-assignments", middleWares...)
	g.GET("", handler.handleQuery)
	g.POST("", handler.handleAssign)
	g.DELETE("", handler.handleUnassign)
}

type rosterHandler struct {
	roster    roster.RosterTraits
	validator *validator.Validate
}

type assignmentChange struct {
	ManagerID string `json:"managerId" binding:"required" validate:"required"`
	District  string `json:"district" binding:"required" validate:"required"`
	MemberID  string `json:"memberId"`
}

func (h *rosterHandler) handleQuery(c *gin.Context) {
	d, ok := district.Parse(c.Query("district"))
	if !ok {
		panic(&bizerror.ErrInvalidDistrict{District: c.Query("district")})
	}

	envelope.Run(c, envelope.Event{Kind: "roster.query", TargetKind: "district", TargetID: string(d)},
		"ManagersFor", func(s *session.Session) error {
			assignments, err := h.roster.ManagersFor(d, s)
			if err != nil {
				return err
			}
			c.JSON(http.StatusOK, &common.PagedBody{List: assignments, Total: uint64(len(assignments))})
			return nil
		})
}

func (h *rosterHandler) handleAssign(c *gin.Context) {
	change := assignmentChange{}
	if err := c.ShouldBindBodyWith(&change, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(change); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	d, ok := district.Parse(change.District)
	if !ok {
		panic(&bizerror.ErrInvalidDistrict{District: change.District})
	}

	envelope.Run(c, envelope.Event{Kind: "roster.assign", TargetKind: "district", TargetID: string(d)},
		"AddManager", func(s *session.Session) error {
			result, err := h.roster.AddManager(change.ManagerID, d, change.MemberID, s)
			if err != nil {
				return err
			}
			status := http.StatusCreated
			if result == roster.AssignResultAlreadyAssigned {
				status = http.StatusOK
			}
			c.JSON(status, gin.H{"result": result})
			return nil
		})
}

func (h *rosterHandler) handleUnassign(c *gin.Context) {
	change := assignmentChange{}
	if err := c.ShouldBindBodyWith(&change, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(change); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	d, ok := district.Parse(change.District)
	if !ok {
		panic(&bizerror.ErrInvalidDistrict{District: change.District})
	}

	envelope.Run(c, envelope.Event{Kind: "roster.unassign", TargetKind: "district", TargetID: string(d)},
		"RemoveManager", func(s *session.Session) error {
			result, err := h.roster.RemoveManager(change.ManagerID, d, s)
			if err != nil {
				return err
			}
			c.JSON(http.StatusOK, gin.H{"result": result})
			return nil
		})
}
