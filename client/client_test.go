package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/MiladArbabi/aurora-baby-mvp/client"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("DefaultClient", func() {

	var (
		ctx = context.Background()

		server    *httptest.Server
		apiClient Client

		seenRequests []*http.Request
		seenBearer   string

		respond func(w http.ResponseWriter, r *http.Request)
	)

	var (
		newClientFor = func(s *httptest.Server) Client {
			parsed, err := url.Parse(s.URL)
			Expect(err).To(BeNil())
			return NewDefaultClient(parsed.Scheme, parsed.Host)
		}
	)

	BeforeEach(func() {
		seenRequests = nil
		seenBearer = ""
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequests = append(seenRequests, r)
			seenBearer = r.Header.Get("Authorization")
			respond(w, r)
		}))
		apiClient = newClientFor(server)
	})

	AfterEach(func() {
		server.Close()
	})

	Context("Register", func() {

		It("should store the returned token and reuse it as a bearer header", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/register" {
					w.WriteHeader(http.StatusCreated)
					w.Write([]byte(`{"token":"t1"}`))
					return
				}
				w.Write([]byte(`{"parent":{"name":"Jane","relationship":""},"children":[]}`))
			}

			token, err := apiClient.Register(ctx, "Jane", "jane@x.com", "pw123")
			Expect(err).To(BeNil())
			Expect(token).To(Equal("t1"))

			_, err = apiClient.GetProfiles(ctx)
			Expect(err).To(BeNil())
			Expect(seenBearer).To(Equal("Bearer t1"))
		})

		It("should surface the server's error field", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Email already exists"}`))
			}

			_, err := apiClient.Register(ctx, "Jane", "jane@x.com", "pw123")
			apiErr, ok := err.(*APIError)
			Expect(ok).To(BeTrue())
			Expect(apiErr.Status).To(Equal(http.StatusBadRequest))
			Expect(apiErr.Message).To(Equal("Email already exists"))
		})
	})

	Context("Login", func() {

		It("should not attach a bearer header before any token exists", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"token":"t2"}`))
			}

			_, err := apiClient.Login(ctx, "jane@x.com", "pw123")
			Expect(err).To(BeNil())
			Expect(seenRequests).To(HaveLen(1))
			Expect(seenRequests[0].Header.Get("Authorization")).To(Equal(""))
		})
	})

	Context("Onboard", func() {

		It("should store the minted token", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/onboard" {
					w.WriteHeader(http.StatusCreated)
					w.Write([]byte(`{"baby":{"id":"aaa","name":"Freya","age":8},"token":"t3"}`))
					return
				}
				w.Write([]byte(`{"starFragments":0,"activities":[],"unlocks":[]}`))
			}

			response, err := apiClient.Onboard(ctx, "Freya", 8)
			Expect(err).To(BeNil())
			Expect(response.Baby.Id).To(Equal("aaa"))

			_, err = apiClient.GetProfiles(ctx)
			Expect(err).To(BeNil())
			Expect(seenBearer).To(Equal("Bearer t3"))
		})
	})

	Context("SetToken", func() {

		It("should attach the given token to subsequent requests", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			}
			apiClient.SetToken("stored-token")

			_, err := apiClient.ListUsers(ctx)
			Expect(err).To(BeNil())
			Expect(seenBearer).To(Equal("Bearer stored-token"))
		})
	})

	Context("error message extraction", func() {

		It("should fall back to the message field", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"something broke"}`))
			}

			_, err := apiClient.ListUsers(ctx)
			apiErr, ok := err.(*APIError)
			Expect(ok).To(BeTrue())
			Expect(apiErr.Message).To(Equal("something broke"))
		})

		It("should fall back to the status text for a non-json body", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`upstream says no`))
			}

			_, err := apiClient.ListUsers(ctx)
			apiErr, ok := err.(*APIError)
			Expect(ok).To(BeTrue())
			Expect(apiErr.Message).To(Equal("Bad Gateway"))
		})

		It("should wrap a network failure instead of returning an api error", func() {
			server.Close()

			_, err := apiClient.ListUsers(ctx)
			Expect(err).NotTo(BeNil())

			_, ok := err.(*APIError)
			Expect(ok).To(BeFalse())
		})
	})
})
