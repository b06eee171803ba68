package journeys

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MiladArbabi/aurora-baby-mvp/authentication"
	"github.com/MiladArbabi/aurora-baby-mvp/shared"
	"github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPayload = errors.New("Invalid request payload")
)

type OnboardRequest struct {
	BabyName string `json:"babyName"`
	BabyAge  int64  `json:"babyAge"`
}

type BabyTransport struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Age  int64  `json:"age"`
}

type OnboardResponse struct {
	Baby  BabyTransport `json:"baby"`
	Token string        `json:"token"`
}

type ActivityRequest struct {
	Activity string `json:"activity"`
}

type ActivityResponse struct {
	Activity      string `json:"activity"`
	StarFragments int64  `json:"starFragments"`
}

type ProgressResponse struct {
	StarFragments int64    `json:"starFragments"`
	Activities    []string `json:"activities"`
	Unlocks       []string `json:"unlocks"`
}

type CareLogRequest struct {
	Type      string `json:"type"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

type CareEntryTransport struct {
	Id        string `json:"id"`
	UserId    string `json:"userId"`
	Type      string `json:"type"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

type CareLogResponse struct {
	CareEntry     CareEntryTransport `json:"careEntry"`
	StarFragments int64              `json:"starFragments"`
}

type ArContentResponse struct {
	AvailableContent []string `json:"availableContent"`
}

type HandlerFactory struct {
	Service Service `inject:""`
}

func (h *HandlerFactory) Onboard(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeOnboardEndpoint(h.Service),
		decodeOnboardRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) LogActivity(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeLogActivityEndpoint(h.Service),
		decodeActivityRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) Progress(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeProgressEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

func (h *HandlerFactory) LogCare(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeLogCareEndpoint(h.Service),
		decodeCareLogRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) ArContent(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeArContentEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

func makeOnboardEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(OnboardRequest)

		baby, token, err := svc.Onboard(ctx, req)
		if err != nil {
			return nil, err
		}

		return OnboardResponse{
			Baby:  babyToTransport(baby),
			Token: token,
		}, nil
	}
}

func makeLogActivityEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(ActivityRequest)

		starFragments, err := svc.LogActivity(ctx, authentication.GetUserId(ctx), req.Activity)
		if err != nil {
			return nil, err
		}

		return ActivityResponse{
			Activity:      req.Activity,
			StarFragments: starFragments,
		}, nil
	}
}

func makeProgressEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		progress, err := svc.GetProgress(ctx, authentication.GetUserId(ctx))
		if err != nil {
			return nil, err
		}

		return ProgressResponse{
			StarFragments: progress.StarFragments,
			Activities:    progress.Activities,
			Unlocks:       []string{},
		}, nil
	}
}

func makeLogCareEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(CareLogRequest)

		entry, starFragments, err := svc.LogCare(ctx, authentication.GetUserId(ctx), req)
		if err != nil {
			return nil, err
		}

		return CareLogResponse{
			CareEntry:     careEntryToTransport(entry),
			StarFragments: starFragments,
		}, nil
	}
}

func makeArContentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		content, err := svc.AvailableContent(ctx, authentication.GetUserId(ctx))
		if err != nil {
			return nil, err
		}

		return ArContentResponse{AvailableContent: content}, nil
	}
}

func decodeOnboardRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, ErrInvalidPayload
	}
	return request, nil
}

func decodeActivityRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, ErrInvalidPayload
	}
	return request, nil
}

func decodeCareLogRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request CareLogRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, ErrInvalidPayload
	}
	return request, nil
}

func ignorePayload(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

// encode errors from business-logic
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	switch errors.Cause(err).Error() {
	case ErrBabyFieldsRequired.Error(), ErrActivityRequired.Error(),
		ErrCareFieldsRequired.Error(), ErrInvalidPayload.Error():
		shared.HttpError(w, errors.Cause(err).Error(), http.StatusBadRequest)
	default:
		shared.HttpError(w, "Database error", http.StatusInternalServerError)
	}
}

func babyToTransport(baby store.Baby) BabyTransport {
	return BabyTransport{
		Id:   baby.BabyId.String,
		Name: baby.Name.String,
		Age:  baby.Age.Int64,
	}
}

func careEntryToTransport(entry store.CareLog) CareEntryTransport {
	return CareEntryTransport{
		Id:        entry.LogId.String,
		UserId:    entry.OwnerId.String,
		Type:      entry.Type.String,
		Details:   entry.Details.String,
		Timestamp: entry.Timestamp.String,
	}
}
