package auth_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	usersByEmail map[string]*auth.User
	usersByID    map[int64]*auth.User
}

func newMockUserRepository(users ...*auth.User) *mockUserRepository {
	m := &mockUserRepository{
		usersByEmail: make(map[string]*auth.User),
		usersByID:    make(map[int64]*auth.User),
	}
	for _, user := range users {
		m.usersByEmail[user.Email] = user
		m.usersByID[user.ID] = user
	}
	return m
}

func (m *mockUserRepository) GetByEmail(email string) (*auth.User, error) {
	user, exists := m.usersByEmail[email]
	if !exists {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (m *mockUserRepository) GetByID(id int64) (*auth.User, error) {
	user, exists := m.usersByID[id]
	if !exists {
		return nil, errors.New("user not found")
	}
	return user, nil
}

var _ = ginkgo.Describe("Service", func() {
	var (
		service *auth.Service
		repo    *mockUserRepository
	)

	const secret = "0123456789abcdef0123456789abcdef"

	ginkgo.BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repo = newMockUserRepository(
			&auth.User{ID: 1, Email: "hr@mail.com", Name: "HR Staff", Role: "hr", IsActive: true, PasswordHash: string(hash)},
			&auth.User{ID: 2, Email: "rizky@mail.com", Name: "Rizky", Role: "employee", EmployeeID: 7, IsActive: true, PasswordHash: string(hash)},
			&auth.User{ID: 3, Email: "gone@mail.com", Name: "Former", Role: "employee", IsActive: false, PasswordHash: string(hash)},
		)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = auth.NewService(repo, secret, 15*time.Minute, logger)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("issues a token for valid credentials", func() {
			token, err := service.Login(auth.LoginDTO{Email: "hr@mail.com", Password: "correct-password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(token.TokenType).To(gomega.Equal("Bearer"))
		})

		ginkgo.It("rejects a wrong password", func() {
			_, err := service.Login(auth.LoginDTO{Email: "hr@mail.com", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthorized))
		})

		ginkgo.It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Login(auth.LoginDTO{Email: "nobody@mail.com", Password: "correct-password"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthorized))
		})

		ginkgo.It("rejects an inactive account", func() {
			_, err := service.Login(auth.LoginDTO{Email: "gone@mail.com", Password: "correct-password"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
		})
	})

	ginkgo.Describe("ParseToken", func() {
		ginkgo.It("round-trips the actor through a signed token", func() {
			token, err := service.Login(auth.LoginDTO{Email: "rizky@mail.com", Password: "correct-password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			actor, err := service.ParseToken(token.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(actor.ID).To(gomega.Equal(int64(2)))
			gomega.Expect(actor.Role).To(gomega.Equal("employee"))
			gomega.Expect(actor.EmployeeID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("rejects a tampered token", func() {
			token, err := service.Login(auth.LoginDTO{Email: "hr@mail.com", Password: "correct-password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ParseToken(token.AccessToken + "x")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a token signed with another secret", func() {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			other := auth.NewService(repo, "another-secret-that-is-long-enough!!", 15*time.Minute, logger)
			token, err := other.Login(auth.LoginDTO{Email: "hr@mail.com", Password: "correct-password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ParseToken(token.AccessToken)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})

var _ = ginkgo.Describe("Role capabilities", func() {
	ginkgo.It("parses only the closed role set", func() {
		for _, valid := range []string{"admin", "hr", "payroll", "employee"} {
			_, ok := auth.ParseRole(valid)
			gomega.Expect(ok).To(gomega.BeTrue(), valid)
		}
		_, ok := auth.ParseRole("superuser")
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.DescribeTable("capability checks per role",
		func(role auth.Role, canList, canProcess, canApprove bool) {
			gomega.Expect(auth.CanViewPayrollList(role)).To(gomega.Equal(canList))
			gomega.Expect(auth.CanProcessPayroll(role)).To(gomega.Equal(canProcess))
			gomega.Expect(auth.CanApprovePayroll(role)).To(gomega.Equal(canApprove))
		},
		ginkgo.Entry("admin", auth.RoleAdmin, true, true, true),
		ginkgo.Entry("hr", auth.RoleHR, true, false, true),
		ginkgo.Entry("payroll", auth.RolePayroll, true, true, false),
		ginkgo.Entry("employee", auth.RoleEmployee, false, false, false),
	)

	ginkgo.It("limits employees to their own records", func() {
		staff := &internal.Actor{ID: 1, Role: "hr"}
		worker := &internal.Actor{ID: 2, Role: "employee", EmployeeID: 7}

		gomega.Expect(auth.CanViewPayrollRecord(staff, 99)).To(gomega.BeTrue())
		gomega.Expect(auth.CanViewPayrollRecord(worker, 7)).To(gomega.BeTrue())
		gomega.Expect(auth.CanViewPayrollRecord(worker, 8)).To(gomega.BeFalse())
	})
})
