package profiles_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/MiladArbabi/aurora-baby-mvp/authentication"
	"github.com/MiladArbabi/aurora-baby-mvp/log"
	. "github.com/MiladArbabi/aurora-baby-mvp/profiles"
	"github.com/MiladArbabi/aurora-baby-mvp/shared"
	"github.com/MiladArbabi/aurora-baby-mvp/shared/mocks"
	"github.com/MiladArbabi/aurora-baby-mvp/store"
	"github.com/MiladArbabi/aurora-baby-mvp/users"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transport", func() {

	var (
		dbCount             int
		concreteDb          *gorm.DB
		concreteStore       *store.Store
		mockStringGenerator *mocks.MockStringGenerator
		tokenService        *authentication.TokenService
		router              *mux.Router
		recorder            *httptest.ResponseRecorder

		janeToken string
	)

	var (
		performRequest = func(method, target, body, token string) {
			var req *http.Request
			if body != "" {
				req = httptest.NewRequest(method, target, strings.NewReader(body))
			} else {
				req = httptest.NewRequest(method, target, nil)
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			router.ServeHTTP(recorder, req)
		}
	)

	BeforeEach(func() {
		dbCount++
		concreteDb = shared.NewTestDbInstance(fmt.Sprintf("profiles_transport_%d", dbCount))

		mockStringGenerator = &mocks.MockStringGenerator{}
		mockStringGenerator.On("GenerateUuid").Return("aaa").Once()
		mockStringGenerator.On("GenerateUuid").Return("bbb").Once()
		mockStringGenerator.On("GenerateUuid").Return("ccc").Once()

		concreteStore = &store.Store{
			Db:              concreteDb,
			StringGenerator: mockStringGenerator,
		}
		Expect(concreteStore.Bootstrap()).To(Succeed())

		tokenService = &authentication.TokenService{
			Config: &shared.AppConfig{JwtSecret: "test-secret"},
		}
		logger := log.NewLogger("test")
		authenticator := &authentication.Authenticator{
			Tokens: tokenService,
			Logger: logger,
		}
		userService := &users.UserService{
			Store:  concreteStore,
			Tokens: tokenService,
			Logger: logger,
		}
		profileService := &ProfileService{
			Store:  concreteStore,
			Logger: logger,
		}
		userHandlerFactory := &users.HandlerFactory{Service: userService}
		profileHandlerFactory := &HandlerFactory{Service: profileService}

		userOpts := []kithttp.ServerOption{
			kithttp.ServerErrorEncoder(users.EncodeError),
		}
		profileOpts := []kithttp.ServerOption{
			kithttp.ServerErrorEncoder(EncodeError),
		}
		router = mux.NewRouter()
		router.Handle("/api/register", userHandlerFactory.Register(userOpts)).Methods(http.MethodPost)
		router.Handle("/api/profiles", authenticator.Verify(profileHandlerFactory.Create(profileOpts))).Methods(http.MethodPost)
		router.Handle("/api/profiles", authenticator.Verify(profileHandlerFactory.Get(profileOpts))).Methods(http.MethodGet)

		recorder = httptest.NewRecorder()
		performRequest(http.MethodPost, "/api/register",
			`{"name":"Jane","email":"jane@x.com","password":"pw123"}`, "")
		Expect(recorder.Code).To(Equal(http.StatusCreated))

		tokenResponse := users.TokenResponse{}
		Expect(json.Unmarshal(recorder.Body.Bytes(), &tokenResponse)).To(Succeed())
		janeToken = tokenResponse.Token

		recorder = httptest.NewRecorder()
	})

	AfterEach(func() {
		concreteDb.Close()
	})

	Context("POST /api/profiles", func() {

		It("should respond 401 without a token", func() {
			performRequest(http.MethodPost, "/api/profiles",
				`{"relationship":"mother","childName":"Emma","dateOfBirth":"2023-05-10"}`, "")
			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(recorder.Body.String()).To(MatchJSON(`{"error": "No token provided"}`))
		})

		It("should respond 403 for a bad token", func() {
			performRequest(http.MethodPost, "/api/profiles",
				`{"relationship":"mother","childName":"Emma","dateOfBirth":"2023-05-10"}`, "garbage")
			Expect(recorder.Code).To(Equal(http.StatusForbidden))
			Expect(recorder.Body.String()).To(MatchJSON(`{"error": "Invalid token"}`))
		})

		It("should respond 201 with the updated caregiver and the new child", func() {
			performRequest(http.MethodPost, "/api/profiles",
				`{"relationship":"mother","childName":"Emma","dateOfBirth":"2023-05-10"}`, janeToken)
			Expect(recorder.Code).To(Equal(http.StatusCreated))
			Expect(recorder.Body.String()).To(MatchJSON(`{
				"user": {
					"_id": "aaa",
					"name": "Jane",
					"email": "jane@x.com",
					"relationship": "mother"
				},
				"child": {
					"_id": "bbb",
					"name": "Emma",
					"dateOfBirth": "2023-05-10"
				}
			}`))
		})

		It("should respond 400 when the child fields are missing", func() {
			performRequest(http.MethodPost, "/api/profiles", `{"relationship":"mother"}`, janeToken)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(MatchJSON(`{"error": "Child name and date of birth are required"}`))
		})

		It("should respond 404 when the token names a missing caregiver", func() {
			ghostToken, err := tokenService.Mint("ghost")
			Expect(err).To(BeNil())

			performRequest(http.MethodPost, "/api/profiles",
				`{"relationship":"mother","childName":"Emma","dateOfBirth":"2023-05-10"}`, ghostToken)
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("GET /api/profiles", func() {

		It("should return an empty children array before setup", func() {
			performRequest(http.MethodGet, "/api/profiles", "", janeToken)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{
				"parent": {"name": "Jane", "relationship": ""},
				"children": []
			}`))
		})

		It("should return the caregiver and the linked children after setup", func() {
			performRequest(http.MethodPost, "/api/profiles",
				`{"relationship":"mother","childName":"Emma","dateOfBirth":"2023-05-10"}`, janeToken)
			Expect(recorder.Code).To(Equal(http.StatusCreated))
			recorder = httptest.NewRecorder()

			performRequest(http.MethodGet, "/api/profiles", "", janeToken)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{
				"parent": {"name": "Jane", "relationship": "mother"},
				"children": [{"_id": "bbb", "name": "Emma"}]
			}`))
		})
	})
})
