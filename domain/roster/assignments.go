package roster

import (
	"landdesk/bizerror"
	"landdesk/common"
	"landdesk/domain/district"
	"landdesk/persistence"
	"landdesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// ManagerAssignment ties a bot-platform identity to a district and to the
// member identifier the external ticket system knows them by. Uniquely keyed
// by (manager, district).
type ManagerAssignment struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	ManagerID string            `json:"managerId" gorm:"index:idx_manager_district"`
	District  district.District `json:"district" gorm:"index:idx_manager_district"`
	MemberID  string            `json:"memberId"`

	AssignTime types.Timestamp `json:"assignTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *ManagerAssignment) TableName() string {
	return "manager_assignments"
}

type AssignResult string

const (
	AssignResultAdded           AssignResult = "Added"
	AssignResultAlreadyAssigned AssignResult = "AlreadyAssigned"
	AssignResultRemoved         AssignResult = "Removed"
	AssignResultNotAssigned     AssignResult = "NotAssigned"
)

type RosterTraits interface {
	ManagersFor(d district.District, s *session.Session) ([]ManagerAssignment, error)
	AddManager(managerID string, d district.District, memberID string, s *session.Session) (AssignResult, error)
	RemoveManager(managerID string, d district.District, s *session.Session) (AssignResult, error)
}

type RosterManager struct {
	dataSource *persistence.DataSourceManager
	idWorker   *sonyflake.Sonyflake
}

func NewRosterManager(ds *persistence.DataSourceManager) *RosterManager {
	return &RosterManager{
		dataSource: ds,
		idWorker:   sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

// ManagersFor returns the assignments of a district, oldest first. A district
// without managers yields an empty slice, never nil and never an error.
func (m *RosterManager) ManagersFor(d district.District, s *session.Session) ([]ManagerAssignment, error) {
	assignments := []ManagerAssignment{}
	db := m.dataSource.TracedDB(s.Context)
	if err := db.Where(&ManagerAssignment{District: d}).Order("assign_time ASC").Find(&assignments).Error; err != nil {
		return nil, &bizerror.ErrStoreUnavailable{Cause: err}
	}
	return assignments, nil
}

// AddManager is idempotent: re-adding an existing (manager, district) pair
// reports AlreadyAssigned instead of creating a second row. Implemented as a
// find-then-conditional-insert inside one transaction.
func (m *RosterManager) AddManager(managerID string, d district.District, memberID string, s *session.Session) (AssignResult, error) {
	result := AssignResultAdded
	db := m.dataSource.TracedDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		existing := ManagerAssignment{}
		err := tx.Where(&ManagerAssignment{ManagerID: managerID, District: d}).First(&existing).Error
		if err == nil {
			result = AssignResultAlreadyAssigned
			return nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		record := ManagerAssignment{
			ID:         common.NextId(m.idWorker),
			ManagerID:  managerID,
			District:   d,
			MemberID:   memberID,
			AssignTime: types.CurrentTimestamp(),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", &bizerror.ErrStoreUnavailable{Cause: err}
	}
	return result, nil
}

func (m *RosterManager) RemoveManager(managerID string, d district.District, s *session.Session) (AssignResult, error) {
	result := AssignResultRemoved
	db := m.dataSource.TracedDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		existing := ManagerAssignment{}
		err := tx.Where(&ManagerAssignment{ManagerID: managerID, District: d}).First(&existing).Error
		if gorm.IsRecordNotFoundError(err) {
			result = AssignResultNotAssigned
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Delete(&ManagerAssignment{}, "id = ?", existing.ID).Error
	})
	if err != nil {
		return "", &bizerror.ErrStoreUnavailable{Cause: err}
	}
	return result, nil
}
