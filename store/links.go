package store

import (
	"database/sql"

	"github.com/jinzhu/gorm"
)

// ParentChildLink associates one caregiver with one child. The relation is
// many-to-many, a user may link several children over time.
type ParentChildLink struct {
	LinkId  sql.NullString
	UserId  sql.NullString
	ChildId sql.NullString
}

func (ParentChildLink) TableName() string {
	return "parent_child_links"
}

func (s *Store) AddParentChildLink(tx *gorm.DB, link ParentChildLink) (ParentChildLink, error) {
	db := s.dbOrTx(tx)

	link.LinkId = s.newId()
	if err := db.Create(&link).Error; err != nil {
		return ParentChildLink{}, err
	}

	return link, nil
}

func (s *Store) ListParentChildLinks(tx *gorm.DB, userId string) ([]ParentChildLink, error) {
	db := s.dbOrTx(tx)

	links := []ParentChildLink{}
	if err := db.Where("user_id = ?", userId).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
