package submission

import (
	"regexp"
	"strings"

	"github.com/fundwit/go-commons/types"
)

// Action is the approve/decline verb embedded in an interactive control's
// identifier.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"
)

// CorrelationID renders the identifier an interactive control carries so a
// later resolution event can find its submission: <action>-<recordId>.
func CorrelationID(action Action, id types.ID) string {
	return string(action) + "-" + id.String()
}

// ParseCorrelationID recovers the action and the record identifier from a
// control identifier. Any other shape is a parse failure, not an exception.
func ParseCorrelationID(customID string) (Action, types.ID, bool) {
	for _, action := range []Action{ActionApprove, ActionDecline} {
		prefix := string(action) + "-"
		if !strings.HasPrefix(customID, prefix) {
			continue
		}
		id, err := types.ParseID(customID[len(prefix):])
		if err != nil {
			return "", 0, false
		}
		return action, id, true
	}
	return "", 0, false
}

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// ParseSubmitterMention recovers the submitter's platform identity from an
// announcement's text. Announcements place the submitter mention first, so
// the first well-formed mention token wins; absence is a hard failure for
// the calling workflow step.
func ParseSubmitterMention(content string) (string, bool) {
	match := mentionPattern.FindStringSubmatch(content)
	if match == nil {
		return "", false
	}
	return match[1], true
}
