package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MiladArbabi/aurora-baby-mvp/shared"
	"github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPayload = errors.New("Invalid request payload")
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddUserRequest struct {
	Name string `json:"name"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserTransport struct {
	Id           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

type HandlerFactory struct {
	Service Service `inject:""`
}

func (h *HandlerFactory) Register(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeRegisterEndpoint(h.Service),
		decodeRegisterRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) Login(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeLoginEndpoint(h.Service),
		decodeLoginRequest,
		shared.EncodeResponse200,
		opts...,
	)
}

func (h *HandlerFactory) Add(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeAddEndpoint(h.Service),
		decodeAddUserRequest,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) List(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeListEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

func makeRegisterEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(RegisterRequest)

		token, err := svc.Register(ctx, req)
		if err != nil {
			return nil, err
		}

		return TokenResponse{Token: token}, nil
	}
}

func makeLoginEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(LoginRequest)

		token, err := svc.Login(ctx, req)
		if err != nil {
			return nil, err
		}

		return TokenResponse{Token: token}, nil
	}
}

func makeAddEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(AddUserRequest)

		user, err := svc.AddUser(ctx, req)
		if err != nil {
			return nil, err
		}

		return DbToTransport(user), nil
	}
}

func makeListEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		users, err := svc.ListUsers(ctx)
		if err != nil {
			return nil, err
		}

		allUsers := []UserTransport{}
		for _, user := range users {
			allUsers = append(allUsers, DbToTransport(user))
		}
		return allUsers, nil
	}
}

func decodeRegisterRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, ErrInvalidPayload
	}
	return request, nil
}

func decodeLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, ErrInvalidPayload
	}
	return request, nil
}

func decodeAddUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request AddUserRequest
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
	case ErrAllFieldsRequired.Error(), ErrInvalidEmail.Error(), ErrEmailExists.Error(),
		ErrMissingCredentials.Error(), ErrNameRequired.Error(), ErrInvalidPayload.Error():
		shared.HttpError(w, errors.Cause(err).Error(), http.StatusBadRequest)
	case ErrInvalidCredentials.Error():
		shared.HttpError(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	default:
		// persistence detail stays server-side
		shared.HttpError(w, "Database error", http.StatusInternalServerError)
	}
}

func DbToTransport(user store.User) UserTransport {
	return UserTransport{
		Id:           user.UserId.String,
		Name:         user.Name.String,
		Email:        user.Email.String,
		Relationship: user.Relationship.String,
		Avatar:       user.ImageUri.String,
	}
}
