package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/MiladArbabi/aurora-baby-mvp/journeys"
	"github.com/MiladArbabi/aurora-baby-mvp/profiles"
	"github.com/MiladArbabi/aurora-baby-mvp/users"

	"github.com/pkg/errors"
)

// APIError carries the HTTP status and the human-readable message extracted
// from the server's JSON error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CreateProfile(ctx context.Context, request profiles.CreateProfileRequest) (profiles.CreateProfileResponse, error)
	GetProfiles(ctx context.Context) (profiles.ProfilesResponse, error)
	AddUser(ctx context.Context, name string) (users.UserTransport, error)
	ListUsers(ctx context.Context) ([]users.UserTransport, error)
	Onboard(ctx context.Context, babyName string, babyAge int64) (journeys.OnboardResponse, error)

	SetToken(token string)
}

type DefaultClient struct {
	protocol, hostname string
	token              string
}

func NewDefaultClient(protocol, hostname string) Client {
	return &DefaultClient{
		protocol: protocol,
		hostname: hostname,
	}
}

// SetToken stores the bearer token attached to every subsequent request.
func (c *DefaultClient) SetToken(token string) {
	c.token = token
}

func (c *DefaultClient) Register(ctx context.Context, name, email, password string) (string, error) {
	response := users.TokenResponse{}
	err := c.postJSON(ctx, "/api/register", users.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &response)
	if err != nil {
		return "", err
	}
	c.token = response.Token
	return response.Token, nil
}

func (c *DefaultClient) Login(ctx context.Context, email, password string) (string, error) {
	response := users.TokenResponse{}
	err := c.postJSON(ctx, "/api/login", users.LoginRequest{
		Email:    email,
		Password: password,
	}, &response)
	if err != nil {
		return "", err
	}
	c.token = response.Token
	return response.Token, nil
}

func (c *DefaultClient) CreateProfile(ctx context.Context, request profiles.CreateProfileRequest) (profiles.CreateProfileResponse, error) {
	response := profiles.CreateProfileResponse{}
	err := c.postJSON(ctx, "/api/profiles", request, &response)
	return response, err
}

func (c *DefaultClient) GetProfiles(ctx context.Context) (profiles.ProfilesResponse, error) {
	response := profiles.ProfilesResponse{}
	err := c.getJSON(ctx, "/api/profiles", &response)
	return response, err
}

func (c *DefaultClient) AddUser(ctx context.Context, name string) (users.UserTransport, error) {
	response := users.UserTransport{}
	err := c.postJSON(ctx, "/api/users", users.AddUserRequest{Name: name}, &response)
	return response, err
}

func (c *DefaultClient) ListUsers(ctx context.Context) ([]users.UserTransport, error) {
	response := []users.UserTransport{}
	err := c.getJSON(ctx, "/api/users", &response)
	return response, err
}

func (c *DefaultClient) Onboard(ctx context.Context, babyName string, babyAge int64) (journeys.OnboardResponse, error) {
	response := journeys.OnboardResponse{}
	err := c.postJSON(ctx, "/api/onboard", journeys.OnboardRequest{
		BabyName: babyName,
		BabyAge:  babyAge,
	}, &response)
	if err == nil {
		c.token = response.Token
	}
	return response, err
}

func (c *DefaultClient) postJSON(ctx context.Context, path string, body, response interface{}) error {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to json encode the request")
	}

	requestUrl := url.URL{Scheme: c.protocol, Host: c.hostname, Path: path}
	req, err := http.NewRequest(http.MethodPost, requestUrl.String(), bytes.NewReader(requestBody))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.performRequest(ctx, req, response)
}

func (c *DefaultClient) getJSON(ctx context.Context, path string, response interface{}) error {
	requestUrl := url.URL{Scheme: c.protocol, Host: c.hostname, Path: path}
	req, err := http.NewRequest(http.MethodGet, requestUrl.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	return c.performRequest(ctx, req, response)
}

func (c *DefaultClient) performRequest(ctx context.Context, r *http.Request, response interface{}) error {
	r = r.WithContext(ctx)
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		return errors.Wrap(err, "failed to execute the http request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(resp),
		}
	}

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return errors.Wrap(err, "failed to decode json response")
	}
	return nil
}

// extractErrorMessage prefers the server's error/message JSON field and falls
// back to the HTTP status text.
func extractErrorMessage(resp *http.Response) string {
	body, _ := ioutil.ReadAll(resp.Body)

	parsed := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
