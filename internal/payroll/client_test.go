package payroll_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/payroll"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPayroll(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payroll Suite")
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Payroll Client", func() {
	It("should push queued jobs to the provider with auth", func() {
		received := make(chan map[string]interface{}, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/sync"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer provider-key"))

			var payload map[string]interface{}
			Expect(json.NewDecoder(r.Body).Decode(&payload)).To(Succeed())
			received <- payload
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := payroll.NewClient(payroll.Config{
			ProviderURL:  server.URL,
			APIKey:       "provider-key",
			SyncTimeout:  2 * time.Second,
			MaxWorkers:   2,
			JobQueueSize: 10,
		}, testLogger)
		defer client.Shutdown()

		client.Enqueue(payroll.SyncJob{
			Kind:           payroll.JobKindApprovedWeek,
			TenantID:       1,
			ContractorID:   10,
			ContractorName: "Alice Carter",
			WeekStart:      "2024-01-08",
			EntryIDs:       []int64{1, 2},
		})

		var payload map[string]interface{}
		Eventually(received, "3s").Should(Receive(&payload))
		Expect(payload["kind"]).To(Equal(payroll.JobKindApprovedWeek))
		Expect(payload["contractor_name"]).To(Equal("Alice Carter"))
		Expect(payload["week_start"]).To(Equal("2024-01-08"))
	})

	It("should drop jobs instead of blocking when the queue is full", func() {
		// No workers draining: queue capacity 1, second enqueue must not block.
		client := payroll.NewClient(payroll.Config{
			ProviderURL:  "http://127.0.0.1:1",
			SyncTimeout:  time.Second,
			MaxWorkers:   1,
			JobQueueSize: 1,
		}, testLogger)
		defer client.Shutdown()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 50; i++ {
				client.Enqueue(payroll.SyncJob{Kind: payroll.JobKindApprovedWeek, TenantID: 1})
			}
		}()

		Eventually(done, "2s").Should(BeClosed())
	})
})

var _ = Describe("Payroll Event Handler", func() {
	var (
		server   *httptest.Server
		received chan map[string]interface{}
		client   *payroll.Client
		handler  *payroll.EventHandler
	)

	BeforeEach(func() {
		received = make(chan map[string]interface{}, 4)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]interface{}
			json.NewDecoder(r.Body).Decode(&payload)
			received <- payload
			w.WriteHeader(http.StatusOK)
		}))

		client = payroll.NewClient(payroll.Config{
			ProviderURL:  server.URL,
			SyncTimeout:  2 * time.Second,
			MaxWorkers:   2,
			JobQueueSize: 10,
		}, testLogger)
		handler = payroll.NewEventHandler(client, testLogger)
	})

	AfterEach(func() {
		client.Shutdown()
		server.Close()
	})

	It("should enqueue a sync job for approved weeks", func() {
		event := events.NewWeekApprovedEvent(1, 10, "Alice Carter", 20, "2024-01-08", []int64{1, 2})

		Expect(handler.HandleWeekApproved(context.Background(), event)).To(Succeed())

		var payload map[string]interface{}
		Eventually(received, "3s").Should(Receive(&payload))
		Expect(payload["kind"]).To(Equal(payroll.JobKindApprovedWeek))
		Expect(payload["tenant_id"]).To(BeNumerically("==", 1))
	})

	It("should enqueue a provisioning job for new users", func() {
		event := events.NewUserCreatedEvent(1, 11, "bob@acme.com", "Bob Nguyen")

		Expect(handler.HandleUserCreated(context.Background(), event)).To(Succeed())

		var payload map[string]interface{}
		Eventually(received, "3s").Should(Receive(&payload))
		Expect(payload["kind"]).To(Equal(payroll.JobKindNewEmployee))
		Expect(payload["email"]).To(Equal("bob@acme.com"))
	})

	It("should refuse mismatched event types", func() {
		wrong := events.NewUserCreatedEvent(1, 11, "bob@acme.com", "Bob Nguyen")
		Expect(handler.HandleWeekApproved(context.Background(), wrong)).NotTo(Succeed())
	})

	It("should receive jobs routed through the event bus", func() {
		bus := events.NewEventBus(testLogger)
		handler.RegisterEventHandlers(bus)

		err := bus.Publish(context.Background(),
			events.NewWeekApprovedEvent(1, 10, "Alice Carter", 20, "2024-01-08", []int64{1}))
		Expect(err).NotTo(HaveOccurred())

		Eventually(received, "3s").Should(Receive())
	})
})
