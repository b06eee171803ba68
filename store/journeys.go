package store

import (
	"database/sql"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrJourneyDataNotFound = errors.New("journey data not found")
)

type Baby struct {
	BabyId sql.NullString
	Name   sql.NullString
	Age    sql.NullInt64
}

func (Baby) TableName() string {
	return "babies"
}

// JourneyData is the per-owner progress row, one per token subject. Activities
// holds a JSON-encoded list of activity names.
type JourneyData struct {
	OwnerId       sql.NullString
	StarFragments int64
	Activities    string
}

func (JourneyData) TableName() string {
	return "journey_data"
}

type CareLog struct {
	LogId     sql.NullString
	OwnerId   sql.NullString
	Type      sql.NullString
	Details   sql.NullString
	Timestamp sql.NullString
}

func (CareLog) TableName() string {
	return "care_logs"
}

func (s *Store) AddBaby(tx *gorm.DB, baby Baby) (Baby, error) {
	db := s.dbOrTx(tx)

	baby.BabyId = s.newId()
	if err := db.Create(&baby).Error; err != nil {
		return Baby{}, err
	}

	return baby, nil
}

func (s *Store) GetJourneyData(tx *gorm.DB, ownerId string) (JourneyData, error) {
	db := s.dbOrTx(tx)

	data := JourneyData{}
	res := db.Where("owner_id = ?", ownerId).First(&data)
	if res.RecordNotFound() {
		return JourneyData{}, ErrJourneyDataNotFound
	}
	if res.Error != nil {
		return JourneyData{}, res.Error
	}
	return data, nil
}

// UpsertJourneyData replaces the owner's progress row, creating it on first
// write. The two statements run on the caller's transaction when given one.
func (s *Store) UpsertJourneyData(tx *gorm.DB, data JourneyData) (JourneyData, error) {
	db := s.dbOrTx(tx)

	res := db.Table("journey_data").Where("owner_id = ?", data.OwnerId.String).
		Updates(map[string]interface{}{
			"star_fragments": data.StarFragments,
			"activities":     data.Activities,
		})
	if res.Error != nil {
		return JourneyData{}, res.Error
	}
	if res.RowsAffected == 0 {
		if err := db.Create(&data).Error; err != nil {
			return JourneyData{}, err
		}
	}
	return data, nil
}

func (s *Store) AddCareLog(tx *gorm.DB, entry CareLog) (CareLog, error) {
	db := s.dbOrTx(tx)

	entry.LogId = s.newId()
	if err := db.Create(&entry).Error; err != nil {
		return CareLog{}, err
	}

	return entry, nil
}
