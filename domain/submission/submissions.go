package submission

import (
	"errors"
	"strings"
	"time"

	"landdesk/bizerror"
	"landdesk/client/chat"
	"landdesk/client/trello"
	"landdesk/common"
	"landdesk/domain/district"
	"landdesk/domain/roster"
	"landdesk/persistence"
	"landdesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

const (
	colorPending  = 0x5865F2
	colorApproved = 0x57F287
	colorDeclined = 0xED4245
)

// SubmissionIndexFunc receives every submission worth indexing for audit
// search. Indexing is best effort and never fails a workflow; the default is
// a no-op until the indices package is bootstrapped.
var SubmissionIndexFunc = func(r *Submission, s *session.Session) {}

type WorkflowTraits interface {
	SubmitRequest(creation *RequestCreation, s *session.Session) (*Submission, error)
	SubmitActivity(creation *ActivityCreation, s *session.Session) (*Submission, error)
	Approve(resolution *Resolution, s *session.Session) (*ResolutionDetail, error)
	Decline(resolution *Resolution, s *session.Session) (*ResolutionDetail, error)
}

type SubmissionManager struct {
	dataSource *persistence.DataSourceManager
	districts  *district.Table
	roster     roster.RosterTraits
	tickets    trello.ClientTraits
	surface    chat.SurfaceTraits
	chatConfig *chat.Config

	// publicBaseURL is this service's own externally reachable address,
	// used to build artifact download links placed in notices.
	publicBaseURL string

	idWorker *sonyflake.Sonyflake
}

func NewSubmissionManager(ds *persistence.DataSourceManager, districts *district.Table, rosterManager roster.RosterTraits,
	tickets trello.ClientTraits, surface chat.SurfaceTraits, chatConfig *chat.Config, publicBaseURL string) *SubmissionManager {
	return &SubmissionManager{
		dataSource: ds,
		districts:  districts,
		roster:     rosterManager,
		tickets:    tickets,
		surface:    surface,
		chatConfig: chatConfig,

		publicBaseURL: publicBaseURL,

		idWorker: sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

// SubmitRequest runs the land-request workflow: resolve the referenced
// ticket's district, find its managers, file a fresh intake ticket, announce
// it with approve/decline controls, and link everything to one PENDING
// submission record. Every failing step short-circuits the remainder.
func (m *SubmissionManager) SubmitRequest(creation *RequestCreation, s *session.Session) (*Submission, error) {
	cardID, ok := trello.ExtractCardID(creation.RequestedLand)
	if !ok {
		return nil, &bizerror.ErrInvalidLink{Link: creation.RequestedLand}
	}

	card, err := m.tickets.GetCard(cardID, s)
	if err != nil {
		return nil, err
	}

	d, found := m.districts.ResolveFromListID(card.ListID)
	if !found {
		return nil, &bizerror.ErrDistrictNotFound{ListID: card.ListID}
	}

	managers, err := m.roster.ManagersFor(d, s)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return nil, &bizerror.ErrNoManagersFound{District: string(d)}
	}

	record := Submission{
		ID:    common.NextId(m.idWorker),
		Kind:  KindLandRequest,
		State: StateIntake,

		SubmitterID:   s.Identity.ID,
		SubmitterName: s.Identity.Name,
		District:      d,

		BusinessPermit: creation.BusinessPermit,
		BusinessGroup:  creation.BusinessGroup,
		PropertyCount:  creation.PropertyCount,
		PropertyUse:    creation.PropertyUse,
		RequestedLand:  creation.RequestedLand,

		CreateTime: types.CurrentTimestamp(),
	}
	db := m.dataSource.TracedDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}

	memberIDs := make([]string, 0, len(managers))
	for _, manager := range managers {
		memberIDs = append(memberIDs, manager.MemberID)
	}
	newCard, err := m.tickets.CreateCard(&trello.CardCreation{
		Name:      record.SubmitterName,
		Desc:      requestNarrative(&record),
		LabelIDs:  m.districts.LabelsFor(d),
		MemberIDs: memberIDs,
	}, s)
	if err != nil {
		return nil, err
	}

	// a non-null ticket reference is what makes the record PENDING
	record.TicketID = newCard.ID
	record.TicketURL = newCard.ShortURL
	record.State = StatePending
	if err := db.Model(&Submission{}).Where("id = ?", record.ID).
		Updates(map[string]interface{}{"state": record.State, "ticket_id": record.TicketID, "ticket_url": record.TicketURL}).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}

	message, err := m.surface.PostMessage(m.chatConfig.NotifyChannelID, &chat.OutgoingMessage{
		Content: chat.Mention(record.SubmitterID) + " submitted a new land request\n" + mentionAll(managers),
		Embeds: []chat.Embed{{
			Title: "New Land Request Submission",
			Color: colorPending,
			Fields: []chat.EmbedField{
				{Name: "Submitter", Value: record.SubmitterName, Inline: true},
				{Name: "Property District", Value: string(d), Inline: true},
				{Name: "Business Permit", Value: record.BusinessPermit},
				{Name: "Requested Land", Value: record.RequestedLand},
				{Name: "Ticket", Value: record.TicketURL},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
		Components: []chat.ActionRow{{Type: chat.ComponentActionRow, Components: []chat.Button{
			{Type: chat.ComponentButton, Style: chat.ButtonStyleLink, Label: "Request", URL: record.TicketURL},
			{Type: chat.ComponentButton, Style: chat.ButtonStylePrimary, Label: "Approve", CustomID: CorrelationID(ActionApprove, record.ID)},
			{Type: chat.ComponentButton, Style: chat.ButtonStyleDanger, Label: "Decline", CustomID: CorrelationID(ActionDecline, record.ID)},
		}}},
	}, s)
	if err != nil {
		return nil, err
	}

	record.ChannelID = message.ChannelID
	record.MessageID = message.ID
	if err := db.Model(&Submission{}).Where("id = ?", record.ID).
		Updates(map[string]interface{}{"channel_id": record.ChannelID, "message_id": record.MessageID}).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}

	SubmissionIndexFunc(&record, s)
	return &record, nil
}

// SubmitActivity runs the activity-report workflow: unlike a land request it
// never files a new ticket, it logs against the property's existing record,
// matched by "<district> <business name>".
func (m *SubmissionManager) SubmitActivity(creation *ActivityCreation, s *session.Session) (*Submission, error) {
	d, ok := district.Parse(creation.District)
	if !ok {
		return nil, &bizerror.ErrInvalidDistrict{District: creation.District}
	}

	managers, err := m.roster.ManagersFor(d, s)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return nil, &bizerror.ErrNoManagersFound{District: string(d)}
	}

	query := string(d) + " " + creation.BusinessName
	card, err := m.tickets.SearchCard(query, s)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, &bizerror.ErrNoMatchingTicket{Query: query}
	}

	record := Submission{
		ID:    common.NextId(m.idWorker),
		Kind:  KindActivityReport,
		State: StateIntake,

		SubmitterID:   s.Identity.ID,
		SubmitterName: s.Identity.Name,
		District:      d,

		BusinessName: creation.BusinessName,
		Activity:     creation.Activity,

		TicketID:  card.ID,
		TicketURL: card.ShortURL,

		CreateTime: types.CurrentTimestamp(),
	}

	if err := m.tickets.CommentCard(card.ID, activityComment(&record, creation.AdditionalInfo), s); err != nil {
		return nil, err
	}

	record.State = StatePending
	db := m.dataSource.TracedDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}

	message, err := m.surface.PostMessage(m.chatConfig.TicketChannelID, &chat.OutgoingMessage{
		Content: chat.Mention(record.SubmitterID) + " reported new property activity\n" + mentionAll(managers),
		Embeds: []chat.Embed{{
			Title: "New Property Activity Submission",
			Color: colorPending,
			Fields: []chat.EmbedField{
				{Name: "Business", Value: record.BusinessName, Inline: true},
				{Name: "Submitter", Value: record.SubmitterName, Inline: true},
				{Name: "District", Value: string(d), Inline: true},
				{Name: "Ticket", Value: record.TicketURL},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
		Components: []chat.ActionRow{{Type: chat.ComponentActionRow, Components: []chat.Button{
			{Type: chat.ComponentButton, Style: chat.ButtonStyleLink, Label: "Property Card", URL: record.TicketURL},
		}}},
	}, s)
	if err != nil {
		return nil, err
	}

	record.ChannelID = message.ChannelID
	record.MessageID = message.ID
	if err := db.Model(&Submission{}).Where("id = ?", record.ID).
		Updates(map[string]interface{}{"channel_id": record.ChannelID, "message_id": record.MessageID}).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}

	SubmissionIndexFunc(&record, s)
	return &record, nil
}

func (m *SubmissionManager) Approve(resolution *Resolution, s *session.Session) (*ResolutionDetail, error) {
	return m.resolve(ActionApprove, resolution, s)
}

func (m *SubmissionManager) Decline(resolution *Resolution, s *session.Session) (*ResolutionDetail, error) {
	if strings.TrimSpace(resolution.Reason) == "" {
		return nil, &common.ErrBadParam{Cause: errors.New("a decline reason is required")}
	}
	return m.resolve(ActionDecline, resolution, s)
}

// resolve performs the terminal transition. The state check is authoritative:
// only a PENDING record may transition, exactly once, even when a second
// click races the first. The announcement's controls are stripped afterwards
// as well, so a stale client loses its affordance too.
func (m *SubmissionManager) resolve(action Action, resolution *Resolution, s *session.Session) (*ResolutionDetail, error) {
	parsedAction, id, ok := ParseCorrelationID(resolution.CustomID)
	if !ok || parsedAction != action {
		return nil, &bizerror.ErrBadCorrelation{CustomID: resolution.CustomID}
	}

	db := m.dataSource.TracedDB(s.Context)
	record := Submission{}
	if err := db.Where(&Submission{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	if record.State != StatePending {
		return nil, &bizerror.ErrAlreadyResolved{State: string(record.State)}
	}

	terminalState := StateApproved
	if action == ActionDecline {
		terminalState = StateDeclined
	}

	result := db.Model(&Submission{}).
		Where("id = ? AND state = ?", id, StatePending).
		Updates(map[string]interface{}{
			"state":         terminalState,
			"resolver_id":   s.Identity.ID,
			"resolver_name": s.Identity.Name,
			"resolve_time":  types.CurrentTimestamp(),
		})
	if result.Error != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &bizerror.ErrAlreadyResolved{State: string(StatePending)}
	}

	message, err := m.surface.GetMessage(record.ChannelID, record.MessageID, s)
	if err != nil {
		return nil, err
	}

	submitterID, found := ParseSubmitterMention(message.Content)
	if !found {
		return nil, &bizerror.ErrSubmitterNotFound{MessageID: record.MessageID}
	}

	dmChannelID, err := m.surface.OpenDirectChannel(submitterID, s)
	if err != nil {
		return nil, err
	}

	embed := chat.Embed{Title: "Land Request"}
	if len(message.Embeds) > 0 {
		embed = message.Embeds[0]
	}

	if _, err := m.surface.PostMessage(dmChannelID, m.outcomeNotice(action, resolution, &embed, s), s); err != nil {
		return nil, err
	}

	resolvedEmbed := embed
	footer := "Approved by " + s.Identity.Name
	resolvedEmbed.Color = colorApproved
	if action == ActionDecline {
		footer = "Declined by " + s.Identity.Name
		resolvedEmbed.Color = colorDeclined
		resolvedEmbed.Fields = append(resolvedEmbed.Fields, chat.EmbedField{Name: "Decline Reason", Value: resolution.Reason})
	}
	resolvedEmbed.Footer = &chat.EmbedFooter{Text: footer}
	resolvedEmbed.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if _, err := m.surface.EditMessage(record.ChannelID, record.MessageID, &chat.OutgoingMessage{
		Content:    "This land request has been resolved by " + chat.Mention(s.Identity.ID) + ".",
		Embeds:     []chat.Embed{resolvedEmbed},
		Components: []chat.ActionRow{},
	}, s); err != nil {
		return nil, err
	}

	record.State = terminalState
	record.ResolverID = s.Identity.ID
	record.ResolverName = s.Identity.Name
	record.ResolveTime = types.CurrentTimestamp()
	SubmissionIndexFunc(&record, s)

	return &ResolutionDetail{
		SubmissionID: record.ID,
		Action:       action,
		State:        terminalState,
		SubmitterID:  submitterID,
		TicketURL:    record.TicketURL,
	}, nil
}

func (m *SubmissionManager) outcomeNotice(action Action, resolution *Resolution, embed *chat.Embed, s *session.Session) *chat.OutgoingMessage {
	if action == ActionDecline {
		return &chat.OutgoingMessage{
			Content: "Your land request has been declined by " + chat.Mention(s.Identity.ID) + " for the following reason:\n\n" + resolution.Reason,
			Embeds:  []chat.Embed{*embed},
		}
	}

	content := "Your land request has been approved by " + chat.Mention(s.Identity.ID) + "."
	notice := chat.OutgoingMessage{Content: content, Embeds: []chat.Embed{*embed}}
	if resolution.ArtifactID != "" {
		notice.Components = []chat.ActionRow{{Type: chat.ComponentActionRow, Components: []chat.Button{
			{Type: chat.ComponentButton, Style: chat.ButtonStyleLink, Label: "Property File",
				URL: m.publicBaseURL + "/v1/artifacts/" + resolution.ArtifactID},
		}}}
	}
	return &notice
}

func mentionAll(managers []roster.ManagerAssignment) string {
	mentions := make([]string, 0, len(managers))
	for _, manager := range managers {
		mentions = append(mentions, chat.Mention(manager.ManagerID))
	}
	return strings.Join(mentions, " ")
}

func requestNarrative(r *Submission) string {
	return "# Land Request\n\n" +
		"---\n\n" +
		"**Submitted at**: " + r.CreateTime.Time().UTC().Format(time.RFC1123) + "\n" +
		"**Submitter**: " + r.SubmitterName + "\n" +
		"**Property District**: " + string(r.District) + "\n" +
		"**Property Number**: " + r.PropertyCount + "\n\n" +
		"---\n\n" +
		"**Business Permit**: " + r.BusinessPermit + "\n" +
		"**Business Group**: " + r.BusinessGroup + "\n" +
		"**Requested Property**: " + r.RequestedLand + "\n\n" +
		"---\n\n" +
		"**Property Use**: " + r.PropertyUse
}

func activityComment(r *Submission, additionalInfo string) string {
	return "## Land Activity\n\n" +
		"**Submitted at**: " + r.CreateTime.Time().UTC().Format(time.RFC1123) + "\n" +
		"**Submitter**: " + r.SubmitterName + "\n\n" +
		"**Property District**: " + string(r.District) + "\n" +
		"**Property Activity**: " + r.Activity + "\n\n" +
		"**Additional Information**: " + additionalInfo
}
