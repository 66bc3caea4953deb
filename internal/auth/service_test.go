package auth_test

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// mockUserRepo implements auth.UserRepository backed by in-memory maps.
type mockUserRepo struct {
	usersByEmail map[string]*auth.User
	hashes       map[string]string
	tenants      map[string]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail: make(map[string]*auth.User),
		hashes:       make(map[string]string),
		tenants:      make(map[string]int64),
	}
}

func (m *mockUserRepo) addUser(user *auth.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	m.usersByEmail[user.Email] = user
	m.hashes[user.Email] = string(hash)
}

func (m *mockUserRepo) GetPasswordForEmail(email string) (string, string, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return "", "", errors.New("no rows")
	}
	return m.hashes[email], strconv.FormatInt(user.ID, 10), nil
}

func (m *mockUserRepo) GetUser(userID int64) (*auth.User, error) {
	for _, user := range m.usersByEmail {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *mockUserRepo) GetTenantIDByDomain(domain string) (int64, error) {
	id, ok := m.tenants[domain]
	if !ok {
		return 0, errors.New("no rows")
	}
	return id, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockUserRepo
		service *auth.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepo()
		repo.tenants["acme.com"] = 1
		repo.tenants["globex.com"] = 2
		repo.addUser(&auth.User{
			ID:       10,
			TenantID: 1,
			Email:    "alice@acme.com",
			Name:     "Alice Carter",
			Role:     auth.RoleContractor,
		}, "password")

		tokenGen := auth.NewJWTTokenGenerator(
			"access-secret-at-least-32-chars-long!",
			"refresh-secret-at-least-32-chars-long",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		It("should issue tokens for valid credentials on the right tenant", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@acme.com",
				Password: "password",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("10"))
			Expect(claims.TenantID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(auth.RoleContractor))
		})

		It("should refuse a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@acme.com",
				Password: "nope",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should refuse an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "ghost@acme.com",
				Password: "password",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should refuse a domain no tenant claims even with a valid password", func() {
			repo.addUser(&auth.User{
				ID:       11,
				TenantID: 1,
				Email:    "alice@nowhere.io",
				Name:     "Alice Elsewhere",
				Role:     auth.RoleContractor,
			}, "password")

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@nowhere.io",
				Password: "password",
			})
			Expect(err).To(MatchError(auth.ErrTenantUnknown))
		})

		It("should refuse when the domain routes to a different tenant than the user's", func() {
			repo.addUser(&auth.User{
				ID:       12,
				TenantID: 1,
				Email:    "mole@globex.com",
				Name:     "Mole",
				Role:     auth.RoleContractor,
			}, "password")

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "mole@globex.com",
				Password: "password",
			})
			Expect(err).To(MatchError(auth.ErrTenantUnknown))
		})

		It("should validate the payload first", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: "password"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("should exchange a valid refresh token for a new pair", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@acme.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
		})

		It("should refuse garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should refuse refresh for a user that no longer exists", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@acme.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			delete(repo.usersByEmail, "alice@acme.com")

			_, err = service.RefreshTokens(tokens.RefreshToken)
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})
	})

	Describe("HashPassword", func() {
		It("should produce a verifiable bcrypt hash", func() {
			hash, err := service.HashPassword("s3cret-enough")
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.VerifyPassword(hash, "s3cret-enough")).To(Succeed())
			Expect(auth.VerifyPassword(hash, "wrong")).NotTo(Succeed())
		})
	})
})

var _ = Describe("LoginDTO", func() {
	It("should lowercase the routing domain", func() {
		dto := auth.LoginDTO{Email: "Alice@ACME.com"}
		Expect(dto.EmailDomain()).To(Equal("acme.com"))
	})

	It("should return an empty domain for malformed emails", func() {
		Expect(auth.LoginDTO{Email: "no-at-sign"}.EmailDomain()).To(BeEmpty())
		Expect(auth.LoginDTO{Email: "trailing@"}.EmailDomain()).To(BeEmpty())
	})
})
