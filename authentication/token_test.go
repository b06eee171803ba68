package authentication_test

import (
	"time"

	. "github.com/MiladArbabi/aurora-baby-mvp/authentication"
	"github.com/MiladArbabi/aurora-baby-mvp/shared"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenService", func() {

	var (
		tokenService *TokenService
	)

	BeforeEach(func() {
		tokenService = &TokenService{
			Config: &shared.AppConfig{JwtSecret: "test-secret"},
		}
	})

	Context("Mint then Verify", func() {
		It("should round-trip the user id", func() {
			token, err := tokenService.Mint("aaa")
			Expect(err).To(BeNil())
			Expect(token).NotTo(BeEmpty())

			userId, err := tokenService.Verify(token)
			Expect(err).To(BeNil())
			Expect(userId).To(Equal("aaa"))
		})
	})

	Context("Verify", func() {
		It("should reject a malformed token", func() {
			_, err := tokenService.Verify("not-a-token")
			Expect(err).To(Equal(ErrInvalidToken))
		})

		It("should reject a token signed with another secret", func() {
			other := &TokenService{Config: &shared.AppConfig{JwtSecret: "other-secret"}}
			token, err := other.Mint("aaa")
			Expect(err).To(BeNil())

			_, err = tokenService.Verify(token)
			Expect(err).To(Equal(ErrInvalidToken))
		})

		It("should reject an expired token", func() {
			claims := &Claims{
				UserId: "aaa",
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				},
			}
			expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
			Expect(err).To(BeNil())

			_, err = tokenService.Verify(expired)
			Expect(err).To(Equal(ErrInvalidToken))
		})

		It("should reject a token without a user id", func() {
			token, err := tokenService.Mint("")
			Expect(err).To(BeNil())

			_, err = tokenService.Verify(token)
			Expect(err).To(Equal(ErrInvalidToken))
		})
	})
})
