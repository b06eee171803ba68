package profiles

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MiladArbabi/aurora-baby-mvp/authentication"
	"github.com/MiladArbabi/aurora-baby-mvp/shared"
	"github.com/MiladArbabi/aurora-baby-mvp/store"
	"github.com/MiladArbabi/aurora-baby-mvp/users"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPayload = errors.New("Invalid request payload")
)

type CreateProfileRequest struct {
	Relationship string  `json:"relationship"`
	ParentName   *string `json:"parentName"`
	ChildName    string  `json:"childName"`
	DateOfBirth  string  `json:"dateOfBirth"`
	ParentAvatar *string `json:"parentAvatar"`
	ChildAvatar  *string `json:"childAvatar"`
}

type ChildTransport struct {
	Id          string `json:"_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type CreateProfileResponse struct {
	User  users.UserTransport `json:"user"`
	Child ChildTransport      `json:"child"`
}

type ParentTransport struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Avatar       string `json:"avatar,omitempty"`
}

type ProfilesResponse struct {
	Parent   ParentTransport  `json:"parent"`
	Children []ChildTransport `json:"children"`
}

type HandlerFactory struct {
	Service Service `inject:""`
}

func (h *HandlerFactory) Create(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeCreateEndpoint(h.Service),
		decodeCreateProfileRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) Get(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeGetEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

func makeCreateEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(CreateProfileRequest)

		user, child, err := svc.CreateProfile(ctx, authentication.GetUserId(ctx), req)
		if err != nil {
			return nil, err
		}

		return CreateProfileResponse{
			User:  users.DbToTransport(user),
			Child: childToTransport(child),
		}, nil
	}
}

func makeGetEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		user, children, err := svc.GetProfiles(ctx, authentication.GetUserId(ctx))
		if err != nil {
			return nil, err
		}

		response := ProfilesResponse{
			Parent: ParentTransport{
				Name:         user.Name.String,
				Relationship: user.Relationship.String,
				Avatar:       user.ImageUri.String,
			},
			Children: []ChildTransport{},
		}
		for _, child := range children {
			response.Children = append(response.Children, ChildTransport{
				Id:     child.ChildId.String,
				Name:   child.Name.String,
				Avatar: child.ImageUri.String,
			})
		}
		return response, nil
	}
}

func decodeCreateProfileRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request CreateProfileRequest
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
	case ErrChildFieldsRequired.Error(), ErrInvalidBirthDate.Error(), ErrInvalidPayload.Error():
		shared.HttpError(w, errors.Cause(err).Error(), http.StatusBadRequest)
	case store.ErrUserNotFound.Error():
		shared.HttpError(w, store.ErrUserNotFound.Error(), http.StatusNotFound)
	default:
		shared.HttpError(w, "Database error", http.StatusInternalServerError)
	}
}

func childToTransport(child store.Child) ChildTransport {
	return ChildTransport{
		Id:          child.ChildId.String,
		Name:        child.Name.String,
		DateOfBirth: child.BirthDate.Format(birthDateLayout),
		Avatar:      child.ImageUri.String,
	}
}
