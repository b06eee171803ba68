package journeys

import (
	"context"
	"encoding/json"

	"github.com/MiladArbabi/aurora-baby-mvp/log"
	"github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrBabyFieldsRequired = errors.New("Baby name and age are required")
	ErrActivityRequired   = errors.New("Activity is required")
	ErrCareFieldsRequired = errors.New("Care type and timestamp are required")
)

// arUnlockThreshold gates the first piece of AR content.
const arUnlockThreshold = 1

type Progress struct {
	StarFragments int64
	Activities    []string
}

type Service interface {
	Onboard(ctx context.Context, request OnboardRequest) (store.Baby, string, error)
	LogActivity(ctx context.Context, ownerId, activity string) (int64, error)
	GetProgress(ctx context.Context, ownerId string) (Progress, error)
	LogCare(ctx context.Context, ownerId string, request CareLogRequest) (store.CareLog, int64, error)
	AvailableContent(ctx context.Context, ownerId string) ([]string, error)
}

type JourneyService struct {
	Store interface {
		AddBaby(tx *gorm.DB, baby store.Baby) (store.Baby, error)
		GetJourneyData(tx *gorm.DB, ownerId string) (store.JourneyData, error)
		UpsertJourneyData(tx *gorm.DB, data store.JourneyData) (store.JourneyData, error)
		AddCareLog(tx *gorm.DB, entry store.CareLog) (store.CareLog, error)
	} `inject:""`
	Tokens interface {
		Mint(userId string) (string, error)
	} `inject:""`
	Logger *log.Logger `inject:""`
}

func (s *JourneyService) Onboard(ctx context.Context, request OnboardRequest) (store.Baby, string, error) {
	if request.BabyName == "" || request.BabyAge == 0 {
		return store.Baby{}, "", ErrBabyFieldsRequired
	}

	baby, err := s.Store.AddBaby(nil, store.Baby{
		Name: store.DbNullString(&request.BabyName),
		Age:  store.DbNullInt64(&request.BabyAge),
	})
	if err != nil {
		return store.Baby{}, "", errors.Wrap(err, "failed to onboard baby")
	}

	token, err := s.Tokens.Mint(baby.BabyId.String)
	if err != nil {
		return store.Baby{}, "", errors.Wrap(err, "failed to mint token")
	}

	s.Logger.Info(ctx, "onboarded baby", "babyId", baby.BabyId.String)
	return baby, token, nil
}

func (s *JourneyService) LogActivity(ctx context.Context, ownerId, activity string) (int64, error) {
	if activity == "" {
		return 0, ErrActivityRequired
	}

	progress, err := s.progressFor(ownerId)
	if err != nil {
		return 0, err
	}
	progress.Activities = append(progress.Activities, activity)
	progress.StarFragments++

	if err := s.saveProgress(ownerId, progress); err != nil {
		return 0, err
	}
	return progress.StarFragments, nil
}

func (s *JourneyService) GetProgress(ctx context.Context, ownerId string) (Progress, error) {
	return s.progressFor(ownerId)
}

// LogCare inserts a care entry and credits one star fragment. The two writes
// are separate statements, a crash in between leaves the log without credit.
func (s *JourneyService) LogCare(ctx context.Context, ownerId string, request CareLogRequest) (store.CareLog, int64, error) {
	if request.Type == "" || request.Timestamp == "" {
		return store.CareLog{}, 0, ErrCareFieldsRequired
	}

	entry, err := s.Store.AddCareLog(nil, store.CareLog{
		OwnerId:   store.DbNullString(&ownerId),
		Type:      store.DbNullString(&request.Type),
		Details:   store.DbNullString(&request.Details),
		Timestamp: store.DbNullString(&request.Timestamp),
	})
	if err != nil {
		return store.CareLog{}, 0, errors.Wrap(err, "failed to add care log")
	}

	progress, err := s.progressFor(ownerId)
	if err != nil {
		return store.CareLog{}, 0, err
	}
	progress.StarFragments++
	if err := s.saveProgress(ownerId, progress); err != nil {
		return store.CareLog{}, 0, err
	}

	return entry, progress.StarFragments, nil
}

func (s *JourneyService) AvailableContent(ctx context.Context, ownerId string) ([]string, error) {
	progress, err := s.progressFor(ownerId)
	if err != nil {
		return nil, err
	}
	if progress.StarFragments >= arUnlockThreshold {
		return []string{"greeting"}, nil
	}
	return []string{}, nil
}

func (s *JourneyService) progressFor(ownerId string) (Progress, error) {
	data, err := s.Store.GetJourneyData(nil, ownerId)
	if err != nil {
		if errors.Cause(err) == store.ErrJourneyDataNotFound {
			return Progress{Activities: []string{}}, nil
		}
		return Progress{}, errors.Wrap(err, "failed to read journey data")
	}

	activities := []string{}
	if data.Activities != "" {
		if err := json.Unmarshal([]byte(data.Activities), &activities); err != nil {
			return Progress{}, errors.Wrap(err, "corrupt activities row")
		}
	}
	return Progress{StarFragments: data.StarFragments, Activities: activities}, nil
}

func (s *JourneyService) saveProgress(ownerId string, progress Progress) error {
	encoded, err := json.Marshal(progress.Activities)
	if err != nil {
		return errors.Wrap(err, "failed to encode activities")
	}
	_, err = s.Store.UpsertJourneyData(nil, store.JourneyData{
		OwnerId:       store.DbNullString(&ownerId),
		StarFragments: progress.StarFragments,
		Activities:    string(encoded),
	})
	if err != nil {
		return errors.Wrap(err, "failed to save journey data")
	}
	return nil
}
