package store

import (
	"database/sql"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	UserId       sql.NullString
	Name         sql.NullString
	Email        sql.NullString
	PasswordHash sql.NullString
	Relationship sql.NullString
	ImageUri     sql.NullString
}

func (User) TableName() string {
	return "users"
}

func (s *Store) AddUser(tx *gorm.DB, user User) (User, error) {
	db := s.dbOrTx(tx)

	user.UserId = s.newId()
	if err := db.Create(&user).Error; err != nil {
		return User{}, err
	}

	return user, nil
}

func (s *Store) GetUser(tx *gorm.DB, userId string) (User, error) {
	db := s.dbOrTx(tx)

	user := User{}
	res := db.Where("user_id = ?", userId).First(&user)
	if res.RecordNotFound() {
		return User{}, ErrUserNotFound
	}
	if res.Error != nil {
		return User{}, res.Error
	}
	return user, nil
}

func (s *Store) GetUserByEmail(tx *gorm.DB, email string) (User, error) {
	db := s.dbOrTx(tx)

	user := User{}
	res := db.Where("email = ?", email).First(&user)
	if res.RecordNotFound() {
		return User{}, ErrUserNotFound
	}
	if res.Error != nil {
		return User{}, res.Error
	}
	return user, nil
}

// UpdateUser writes only the valid fields of the given user, then reads the
// row back so the caller sees the merged result.
func (s *Store) UpdateUser(tx *gorm.DB, user User) (User, error) {
	db := s.dbOrTx(tx)

	res := db.Table("users").Where("user_id = ?", user.UserId.String).Updates(user)
	if res.Error != nil {
		return User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return s.GetUser(tx, user.UserId.String)
}

func (s *Store) ListUsers(tx *gorm.DB) ([]User, error) {
	db := s.dbOrTx(tx)

	users := []User{}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CountUsers(tx *gorm.DB) (int, error) {
	db := s.dbOrTx(tx)

	count := 0
	if err := db.Table("users").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
