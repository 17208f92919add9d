package submission

import (
	"landdesk/domain/district"

	"github.com/fundwit/go-commons/types"
)

type State string

const (
	StateIntake   State = "INTAKE"
	StatePending  State = "PENDING"
	StateApproved State = "APPROVED"
	StateDeclined State = "DECLINED"
)

type Kind string

const (
	KindLandRequest    Kind = "LAND_REQUEST"
	KindActivityReport Kind = "ACTIVITY_REPORT"
)

// Submission is one land-use request or activity report in flight. A row
// reaches PENDING only once an external ticket is linked, and leaves PENDING
// exactly once, through Approve or Decline. Terminal rows are permanent
// records and are never deleted.
type Submission struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Kind  Kind  `json:"kind"`
	State State `json:"state" gorm:"index:idx_state"`

	SubmitterID   string            `json:"submitterId"`
	SubmitterName string            `json:"submitterName"`
	District      district.District `json:"district"`

	BusinessPermit string `json:"businessPermit"`
	BusinessGroup  string `json:"businessGroup"`
	BusinessName   string `json:"businessName"`
	PropertyCount  string `json:"propertyCount"`
	PropertyUse    string `json:"propertyUse"`
	RequestedLand  string `json:"requestedLand"`
	Activity       string `json:"activity" sql:"type:TEXT"`

	TicketID  string `json:"ticketId"`
	TicketURL string `json:"ticketUrl"`
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId" gorm:"index:idx_message"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`

	ResolverID   string          `json:"resolverId"`
	ResolverName string          `json:"resolverName"`
	ResolveTime  types.Timestamp `json:"resolveTime" sql:"type:DATETIME(6)"`
}

func (r *Submission) TableName() string {
	return "submissions"
}

// RequestCreation is the typed land-request form.
type RequestCreation struct {
	BusinessPermit string `json:"businessPermit" binding:"required" validate:"required"`
	BusinessGroup  string `json:"businessGroup" binding:"required" validate:"required"`
	PropertyCount  string `json:"propertyCount" binding:"required" validate:"required"`
	RequestedLand  string `json:"requestedLand" binding:"required" validate:"required"`
	PropertyUse    string `json:"propertyUse" binding:"required" validate:"required"`
}

// ActivityCreation is the typed activity-report form.
type ActivityCreation struct {
	BusinessName   string `json:"businessName" binding:"required" validate:"required"`
	District       string `json:"district" binding:"required" validate:"required"`
	Activity       string `json:"activity" binding:"required" validate:"required"`
	AdditionalInfo string `json:"additionalInfo"`
}

// Resolution is the form a moderator submits after pressing an approve or
// decline control. CustomID carries the <action>-<recordId> correlation.
type Resolution struct {
	CustomID   string `json:"customId" binding:"required" validate:"required"`
	Reason     string `json:"reason"`
	ArtifactID string `json:"artifactId"`
}

type ResolutionDetail struct {
	SubmissionID types.ID `json:"submissionId"`
	Action       Action   `json:"action"`
	State        State    `json:"state"`
	SubmitterID  string   `json:"submitterId"`
	TicketURL    string   `json:"ticketUrl"`
}
