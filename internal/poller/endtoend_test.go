package poller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	"github.com/kovtools/checkctl/internal/form"
	"github.com/kovtools/checkctl/internal/poller"
	"github.com/kovtools/checkctl/internal/presenter"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// The full submit-poll-render flow against a fake backend: the first
// poll reports progress, the second turns terminal with a result.
var _ = Describe("Compliance check flow", func() {
	var (
		server     *httptest.Server
		c          client.Console
		submission api.CheckSubmission
		statusHits int32
	)

	BeforeEach(func() {
		submission = api.CheckSubmission{}
		statusHits = 0
		mux := http.NewServeMux()
		mux.HandleFunc("/checks", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&submission)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"check_id": "c-e2e"}`))
		})
		mux.HandleFunc("/checks/c-e2e", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)
			if atomic.AddInt32(&statusHits, 1) == 1 {
				_, _ = w.Write([]byte(`{"status": {"message": "processing", "progress": 40}}`))
				return
			}
			_, _ = w.Write([]byte(`{
				"status": {"message": "completed"},
				"result": [
					{"folder": "week-1", "file": "monday.xlsx", "role": "pedagogue"},
					{"folder": "week-1", "file": "monday.xlsx", "role": "assistant"}
				]
			}`))
		})
		server = httptest.NewServer(mux)

		cfg := client.NewDefault()
		cfg.Service = client.Service{Server: server.URL, Token: "t"}
		var err error
		c, err = client.NewFromConfig(cfg)
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		server.Close()
	})

	It("submits, watches to completion and renders grouped rows", func() {
		slots := form.NewSlotStore(c, form.KeepRemote)
		slots.Bind(form.SlotStaffPlanning, form.DocumentReference{ObjectKey: "uploads/staff"})
		slots.Bind(form.SlotChildPlanning, form.DocumentReference{ObjectKey: "uploads/child"})

		f := form.New(api.JobKindComplianceCheck, slots, c, nil, "checkctl")
		f.FromDate = "01-03-2024"
		f.ToDate = "03-03-2024"

		checkID, err := f.Submit(context.Background())
		Expect(err).To(BeNil())
		Expect(checkID).To(Equal("c-e2e"))
		Expect(submission.Date).To(Equal([]string{"01-03-2024", "02-03-2024", "03-03-2024"}))
		Expect(submission.Source).To(Equal("checkctl"))

		var completions int32
		updates := make(chan poller.Snapshot, 8)
		completed := make(chan *api.JobStatusReply, 1)
		p := poller.New(poller.FetcherFunc(c.FetchCheckStatus),
			poller.WithInterval(10*time.Millisecond),
			poller.WithOnUpdate(func(snapshot poller.Snapshot) {
				updates <- snapshot
			}),
			poller.WithOnComplete(func(jobID string, reply *api.JobStatusReply) {
				atomic.AddInt32(&completions, 1)
				completed <- reply
			}),
		)
		defer p.Stop()
		p.StartWatching(context.Background(), checkID)

		// The immediate first poll publishes the 40% snapshot.
		var snapshot poller.Snapshot
		Eventually(updates, time.Second).Should(Receive(&snapshot))
		Expect(snapshot).To(Equal(poller.Snapshot{
			JobID:    checkID,
			Message:  "processing",
			Progress: 40,
		}))

		var reply *api.JobStatusReply
		Eventually(completed, time.Second).Should(Receive(&reply))
		Expect(atomic.LoadInt32(&completions)).To(Equal(int32(1)))
		Expect(p.State()).To(Equal(poller.StateCompleted))

		rows, err := reply.CheckResult()
		Expect(err).To(BeNil())
		groups := presenter.GroupRows(presenter.CheckRows(rows))
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Tags).To(Equal([]string{"pedagogue", "assistant"}))
	})
})
