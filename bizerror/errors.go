package bizerror

import (
	"errors"
	"net/http"

	"landdesk/common"
)

var ErrNotFound = errors.New("not found")

// validation failures. resolved at the step that detects them,
// reported with a corrective message.

type ErrInvalidLink struct {
	Link string
}

func (e *ErrInvalidLink) Error() string {
	return "invalid ticket link: " + e.Link
}
func (e *ErrInvalidLink) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "submission.invalid_link",
		Message: "the provided link is not a valid ticket link"}
}

type ErrInvalidDistrict struct {
	District string
}

func (e *ErrInvalidDistrict) Error() string {
	return "invalid district: " + e.District
}
func (e *ErrInvalidDistrict) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "submission.invalid_district",
		Message: "the district '" + e.District + "' is not a known district", Data: e.District}
}

type ErrBadCorrelation struct {
	CustomID string
}

func (e *ErrBadCorrelation) Error() string {
	return "unparsable correlation id: " + e.CustomID
}
func (e *ErrBadCorrelation) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "resolution.bad_correlation",
		Message: "the interactive control does not carry a recognizable record reference"}
}

type ErrSubmitterNotFound struct {
	MessageID string
}

func (e *ErrSubmitterNotFound) Error() string {
	return "no submitter mention found in message " + e.MessageID
}
func (e *ErrSubmitterNotFound) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusUnprocessableEntity, Code: "resolution.submitter_not_found",
		Message: "could not extract the submitter from the announcement message"}
}

// lookup-miss failures. informational, actionable for the originator.

type ErrDistrictNotFound struct {
	ListID string
}

func (e *ErrDistrictNotFound) Error() string {
	return "no district configured for list " + e.ListID
}
func (e *ErrDistrictNotFound) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusNotFound, Code: "district.not_found",
		Message: "unable to find a district for the referenced ticket"}
}

type ErrNoManagersFound struct {
	District string
}

func (e *ErrNoManagersFound) Error() string {
	return "no managers assigned to district " + e.District
}
func (e *ErrNoManagersFound) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusNotFound, Code: "roster.no_managers",
		Message: "unable to find a district manager for " + e.District, Data: e.District}
}

type ErrNoMatchingTicket struct {
	Query string
}

func (e *ErrNoMatchingTicket) Error() string {
	return "no open ticket matched query '" + e.Query + "'"
}
func (e *ErrNoMatchingTicket) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusNotFound, Code: "ticket.no_match",
		Message: "unable to find a ticket with the query '" + e.Query + "', please ensure the business name is correct", Data: e.Query}
}

// conflict

type ErrAlreadyResolved struct {
	State string
}

func (e *ErrAlreadyResolved) Error() string {
	return "submission already resolved, state is " + e.State
}
func (e *ErrAlreadyResolved) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusConflict, Code: "resolution.already_resolved",
		Message: "this submission has already been resolved", Data: e.State}
}

// dependency failure on the primary store: non-retryable within the request

type ErrStoreUnavailable struct {
	Cause error
}

func (e *ErrStoreUnavailable) Error() string {
	if e.Cause != nil {
		return "record store unavailable: " + e.Cause.Error()
	}
	return "record store unavailable"
}
func (e *ErrStoreUnavailable) Unwrap() error {
	return e.Cause
}
