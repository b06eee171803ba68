package store

import (
	"database/sql"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrChildNotFound = errors.New("child not found")
)

type Child struct {
	ChildId   sql.NullString
	Name      sql.NullString
	BirthDate time.Time
	ImageUri  sql.NullString
}

func (Child) TableName() string {
	return "children"
}

func (s *Store) AddChild(tx *gorm.DB, child Child) (Child, error) {
	db := s.dbOrTx(tx)

	child.ChildId = s.newId()
	if err := db.Create(&child).Error; err != nil {
		return Child{}, err
	}

	return child, nil
}

func (s *Store) GetChild(tx *gorm.DB, childId string) (Child, error) {
	db := s.dbOrTx(tx)

	child := Child{}
	res := db.Where("child_id = ?", childId).First(&child)
	if res.RecordNotFound() {
		return Child{}, ErrChildNotFound
	}
	if res.Error != nil {
		return Child{}, res.Error
	}
	return child, nil
}

func (s *Store) ListChildrenByIds(tx *gorm.DB, childIds []string) ([]Child, error) {
	db := s.dbOrTx(tx)

	children := []Child{}
	if len(childIds) == 0 {
		return children, nil
	}
	if err := db.Where("child_id in (?)", childIds).Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}
