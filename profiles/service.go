package profiles

import (
	"context"
	"time"

	"github.com/MiladArbabi/aurora-baby-mvp/log"
	"github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrChildFieldsRequired = errors.New("Child name and date of birth are required")
	ErrInvalidBirthDate    = errors.New("Invalid date of birth")
)

const birthDateLayout = "2006-01-02"

type Service interface {
	CreateProfile(ctx context.Context, userId string, request CreateProfileRequest) (store.User, store.Child, error)
	GetProfiles(ctx context.Context, userId string) (store.User, []store.Child, error)
}

type ProfileService struct {
	Store interface {
		Tx() *gorm.DB
		GetUser(tx *gorm.DB, userId string) (store.User, error)
		UpdateUser(tx *gorm.DB, user store.User) (store.User, error)
		AddChild(tx *gorm.DB, child store.Child) (store.Child, error)
		ListChildrenByIds(tx *gorm.DB, childIds []string) ([]store.Child, error)
		AddParentChildLink(tx *gorm.DB, link store.ParentChildLink) (store.ParentChildLink, error)
		ListParentChildLinks(tx *gorm.DB, userId string) ([]store.ParentChildLink, error)
	} `inject:""`
	Logger *log.Logger `inject:""`
}

// CreateProfile updates the caregiver row in place and inserts one child plus
// one link. Resubmitting creates a second child and a second link, the flow is
// append-only rather than an upsert.
func (s *ProfileService) CreateProfile(ctx context.Context, userId string, request CreateProfileRequest) (store.User, store.Child, error) {
	if request.ChildName == "" || request.DateOfBirth == "" {
		return store.User{}, store.Child{}, ErrChildFieldsRequired
	}
	birthDate, err := time.Parse(birthDateLayout, request.DateOfBirth)
	if err != nil {
		return store.User{}, store.Child{}, ErrInvalidBirthDate
	}

	tx := s.Store.Tx()
	if tx.Error != nil {
		return store.User{}, store.Child{}, errors.Wrap(tx.Error, "failed to create profile")
	}

	if _, err := s.Store.GetUser(tx, userId); err != nil {
		tx.Rollback()
		return store.User{}, store.Child{}, err
	}

	user, err := s.Store.UpdateUser(tx, store.User{
		UserId:       store.DbNullString(&userId),
		Name:         store.DbNullString(request.ParentName),
		Relationship: store.DbNullString(&request.Relationship),
		ImageUri:     store.DbNullString(request.ParentAvatar),
	})
	if err != nil {
		tx.Rollback()
		return store.User{}, store.Child{}, errors.Wrap(err, "failed to update caregiver")
	}

	child, err := s.Store.AddChild(tx, store.Child{
		Name:      store.DbNullString(&request.ChildName),
		BirthDate: birthDate,
		ImageUri:  store.DbNullString(request.ChildAvatar),
	})
	if err != nil {
		tx.Rollback()
		return store.User{}, store.Child{}, errors.Wrap(err, "failed to add child")
	}

	if _, err := s.Store.AddParentChildLink(tx, store.ParentChildLink{
		UserId:  user.UserId,
		ChildId: child.ChildId,
	}); err != nil {
		tx.Rollback()
		return store.User{}, store.Child{}, errors.Wrap(err, "failed to link child")
	}

	tx.Commit()
	s.Logger.Info(ctx, "profile created", "childId", child.ChildId.String)
	return user, child, nil
}

func (s *ProfileService) GetProfiles(ctx context.Context, userId string) (store.User, []store.Child, error) {
	user, err := s.Store.GetUser(nil, userId)
	if err != nil {
		return store.User{}, nil, err
	}

	links, err := s.Store.ListParentChildLinks(nil, userId)
	if err != nil {
		return store.User{}, nil, errors.Wrap(err, "failed to list links")
	}

	childIds := make([]string, 0, len(links))
	for _, link := range links {
		childIds = append(childIds, link.ChildId.String)
	}

	children, err := s.Store.ListChildrenByIds(nil, childIds)
	if err != nil {
		return store.User{}, nil, errors.Wrap(err, "failed to list children")
	}

	return user, children, nil
}
