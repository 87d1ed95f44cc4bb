package rest_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/notification"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/internal/transport/rest"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

func registeredRoutes() map[string]bool {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := transport.NewBaseHandler(logger)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{}, nil,
		nil,
		auth.NewService(nil, "route-table-secret", time.Hour, logger),
		payroll.NewHandler(base, nil, nil),
		notification.NewHandler(base, nil),
		logger)

	routes := make(map[string]bool)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	})
	Expect(err).NotTo(HaveOccurred())
	return routes
}

var _ = Describe("RegisterAllRoutes", func() {
	var routes map[string]bool

	BeforeEach(func() {
		routes = registeredRoutes()
	})

	It("exposes approve and reject as POST", func() {
		Expect(routes).To(HaveKey("POST /api/v1/payroll/{id}/approve"))
		Expect(routes).To(HaveKey("POST /api/v1/payroll/{id}/reject"))
		Expect(routes).NotTo(HaveKey("PATCH /api/v1/payroll/{id}/approve"))
		Expect(routes).NotTo(HaveKey("PATCH /api/v1/payroll/{id}/reject"))
	})

	It("routes the payroll read and process surface", func() {
		Expect(routes).To(HaveKey("GET /api/v1/payroll/"))
		Expect(routes).To(HaveKey("GET /api/v1/payroll/{id}"))
		Expect(routes).To(HaveKey("GET /api/v1/payroll/{id}/payslip"))
		Expect(routes).To(HaveKey("GET /api/v1/payroll/summary/{year}"))
		Expect(routes).To(HaveKey("POST /api/v1/payroll/process"))
	})

	It("routes notifications and health endpoints", func() {
		Expect(routes).To(HaveKey("GET /api/v1/notifications/"))
		Expect(routes).To(HaveKey("PATCH /api/v1/notifications/{id}/read"))
		Expect(routes).To(HaveKey("GET /api/v1/health"))
	})
})
