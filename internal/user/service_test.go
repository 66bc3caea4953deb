package user_test

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users   map[int64]*user.User
	domains map[int64]string
	nextID  int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:   make(map[int64]*user.User),
		domains: map[int64]string{1: "acme.com", 2: "globex.com"},
		nextID:  1,
	}
}

func (m *MockRepository) GetByID(tenantID, userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockRepository) ListByTenant(tenantID int64) ([]*user.User, error) {
	var result []*user.User
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok && u.TenantID == tenantID {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *MockRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) UpdateRole(tenantID, userID int64, role string) error {
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return sql.ErrNoRows
	}
	u.Role = role
	return nil
}

func (m *MockRepository) GetTenantDomain(tenantID int64) (string, error) {
	domain, ok := m.domains[tenantID]
	if !ok {
		return "", errors.New("tenant not found")
	}
	return domain, nil
}

// plainHasher implements user.PasswordHasher without real bcrypt work.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *MockRepository
		service *user.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = user.NewService(repo, plainHasher{}, events.NewEventBus(logger), logger)
	})

	Describe("Create", func() {
		It("should provision a user whose email matches the tenant domain", func() {
			created, err := service.Create(1, user.CreateUserDTO{
				Email:    "Bob@Acme.com",
				Name:     "Bob Nguyen",
				Password: "long-enough-pw",
				Role:     user.RoleContractor,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Email).To(Equal("bob@acme.com"))
			Expect(created.PasswordHash).To(Equal("hashed:long-enough-pw"))
			Expect(created.IsActive).To(BeTrue())
		})

		It("should refuse an email domain outside the tenant", func() {
			_, err := service.Create(1, user.CreateUserDTO{
				Email:    "bob@globex.com",
				Name:     "Bob Nguyen",
				Password: "long-enough-pw",
				Role:     user.RoleContractor,
			})

			Expect(err).To(MatchError(internal.ErrTenantUnknown))
			Expect(repo.users).To(BeEmpty())
		})

		It("should refuse a duplicate email", func() {
			_, err := service.Create(1, user.CreateUserDTO{
				Email:    "bob@acme.com",
				Name:     "Bob Nguyen",
				Password: "long-enough-pw",
				Role:     user.RoleContractor,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(1, user.CreateUserDTO{
				Email:    "bob@acme.com",
				Name:     "Other Bob",
				Password: "long-enough-pw",
				Role:     user.RoleContractor,
			})
			Expect(err).To(HaveOccurred())
			_, isAppErr := internal.IsAppError(err)
			Expect(isAppErr).To(BeTrue())
		})

		It("should reject invalid payloads", func() {
			_, err := service.Create(1, user.CreateUserDTO{
				Email:    "not-an-email",
				Name:     "",
				Password: "short",
				Role:     "SUPERADMIN",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateRole", func() {
		var contractorID int64

		BeforeEach(func() {
			created, err := service.Create(1, user.CreateUserDTO{
				Email: "bob@acme.com", Name: "Bob", Password: "long-enough-pw", Role: user.RoleContractor,
			})
			Expect(err).NotTo(HaveOccurred())
			contractorID = created.ID
		})

		It("should promote a contractor to manager", func() {
			updated, err := service.UpdateRole(1, contractorID, user.UpdateRoleDTO{Role: user.RoleManager})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(user.RoleManager))
			Expect(repo.users[contractorID].Role).To(Equal(user.RoleManager))
		})

		It("should refuse an unknown role", func() {
			_, err := service.UpdateRole(1, contractorID, user.UpdateRoleDTO{Role: "SUPERADMIN"})

			Expect(err).To(HaveOccurred())
			Expect(repo.users[contractorID].Role).To(Equal(user.RoleContractor))
		})

		It("should not touch accounts in another tenant", func() {
			_, err := service.UpdateRole(2, contractorID, user.UpdateRoleDTO{Role: user.RoleManager})

			Expect(err).To(HaveOccurred())
			Expect(repo.users[contractorID].Role).To(Equal(user.RoleContractor))
		})
	})

	Describe("ListByTenant", func() {
		It("should only list accounts inside the tenant", func() {
			_, err := service.Create(1, user.CreateUserDTO{
				Email: "bob@acme.com", Name: "Bob", Password: "long-enough-pw", Role: user.RoleContractor,
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(2, user.CreateUserDTO{
				Email: "dewi@globex.com", Name: "Dewi", Password: "long-enough-pw", Role: user.RoleManager,
			})
			Expect(err).NotTo(HaveOccurred())

			users, err := service.ListByTenant(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Email).To(Equal("bob@acme.com"))
		})
	})
})
