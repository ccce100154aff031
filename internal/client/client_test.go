package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/middleware"
	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Client Suite")
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

var _ = Describe("Console client", func() {
	var (
		server   *httptest.Server
		requests []recordedRequest
		respond  func(w http.ResponseWriter, r *http.Request)
		c        client.Console
	)

	BeforeEach(func() {
		requests = nil
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
			requests = append(requests, recordedRequest{
				Method: r.Method,
				Path:   r.URL.EscapedPath(),
				Header: r.Header.Clone(),
				Body:   body,
			})
			respond(w, r)
		}))

		cfg := client.NewDefault()
		cfg.Service = client.Service{Server: server.URL, Token: "secret-token"}
		var err error
		c, err = client.NewFromConfig(cfg)
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		server.Close()
	})

	Context("submitting jobs", func() {
		It("posts a check submission and returns the new id", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"check_id": "c-123"}`))
			}

			staff := "uploads/staff.xlsx"
			id, err := c.SubmitCheck(context.Background(), api.CheckSubmission{
				Date:         []string{"01-03-2024", "02-03-2024"},
				Modules:      []string{"vgc"},
				DocumentKeys: []*string{&staff, nil, nil, nil},
				Source:       "checkctl",
			})
			Expect(err).To(BeNil())
			Expect(id).To(Equal("c-123"))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal(http.MethodPost))
			Expect(requests[0].Path).To(Equal("/checks"))

			var payload map[string]any
			Expect(json.Unmarshal(requests[0].Body, &payload)).To(Succeed())
			Expect(payload["source"]).To(Equal("checkctl"))
			Expect(payload["documentKeys"]).To(Equal([]any{"uploads/staff.xlsx", nil, nil, nil}))
		})

		It("posts a vgc submission to /create-vgc", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"check_id": "v-9"}`))
			}

			id, err := c.SubmitVGC(context.Background(), api.VGCSubmission{Group: "toddlers"})
			Expect(err).To(BeNil())
			Expect(id).To(Equal("v-9"))
			Expect(requests[0].Path).To(Equal("/create-vgc"))
		})

		It("attaches the bearer token and a request id to every call", func() {
			_, err := c.SubmitCheck(context.Background(), api.CheckSubmission{})
			Expect(err).To(BeNil())
			Expect(requests[0].Header.Get("Authorization")).To(Equal("Bearer secret-token"))
			Expect(requests[0].Header.Get(middleware.RequestIDHeader)).NotTo(BeEmpty())
		})
	})

	Context("fetching status", func() {
		It("reads a check status with the raw result preserved", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status": {"message": "completed"}, "result": [{"folder": "week-1", "file": "monday.xlsx", "role": "pedagogue"}]}`))
			}

			reply, err := c.FetchCheckStatus(context.Background(), "c-123")
			Expect(err).To(BeNil())
			Expect(requests[0].Method).To(Equal(http.MethodGet))
			Expect(requests[0].Path).To(Equal("/checks/c-123"))
			Expect(reply.Status.Message).To(Equal("completed"))

			rows, err := reply.CheckResult()
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Folder).To(Equal("week-1"))
		})

		It("reads a vgc status from its own endpoint", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status": {"message": "completed"}, "result": {"vgc_list": [{"child": "Mila", "child_days_present": 3, "fixed_faces": [{"staff": "Anna", "overlap_days": 3, "overlap_minutes": 540, "coverage": 0.8333}]}], "inputs": {}}}`))
			}

			reply, err := c.FetchVGCStatus(context.Background(), "v-9")
			Expect(err).To(BeNil())
			Expect(requests[0].Path).To(Equal("/checks-create-vgc/v-9"))

			result, err := reply.VGCResult()
			Expect(err).To(BeNil())
			Expect(result.VGCList).To(HaveLen(1))
			Expect(result.VGCList[0].FixedFaces[0].Staff).To(Equal("Anna"))
		})
	})

	Context("listing history", func() {
		It("reads the check list", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`[{"check_id": "c-1"}, {"check_id": "c-2", "updatedAt": "2024-03-01"}]`))
			}

			summaries, err := c.ListChecks(context.Background())
			Expect(err).To(BeNil())
			Expect(requests[0].Path).To(Equal("/checks/list"))
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[1].UpdatedAt).To(Equal("2024-03-01"))
		})

		It("reads the vgc list", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`[]`))
			}

			_, err := c.ListVGC(context.Background())
			Expect(err).To(BeNil())
			Expect(requests[0].Path).To(Equal("/checks-create-vgc/list"))
		})
	})

	Context("uploading and deleting documents", func() {
		It("sends the file and document_type as multipart fields", func() {
			dir := GinkgoT().TempDir()
			filePath := filepath.Join(dir, "staff.xlsx")
			Expect(os.WriteFile(filePath, []byte("planning"), 0600)).To(Succeed())

			respond = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
				Expect(r.FormValue("document_type")).To(Equal("staff-planning"))
				file, header, err := r.FormFile("file")
				Expect(err).To(BeNil())
				defer file.Close()
				Expect(header.Filename).To(Equal("staff.xlsx"))

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"objectKey": "uploads/staff.xlsx", "fileUrl": "https://files/staff.xlsx"}`))
			}

			reply, err := c.Upload(context.Background(), filePath, "staff-planning")
			Expect(err).To(BeNil())
			Expect(reply.ObjectKey).To(Equal("uploads/staff.xlsx"))
			Expect(requests[0].Path).To(Equal("/upload"))
		})

		It("deletes by object key", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}

			Expect(c.DeleteFile(context.Background(), "uploads/staff.xlsx")).To(Succeed())
			Expect(requests[0].Method).To(Equal(http.MethodDelete))
			Expect(requests[0].Path).To(Equal("/files/uploads%2Fstaff.xlsx"))
		})
	})

	Context("error taxonomy", func() {
		It("maps 4xx with a detail body onto RequestRejectedError", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"detail": "staff planning is malformed"}`))
			}

			_, err := c.SubmitCheck(context.Background(), api.CheckSubmission{})
			var rejected *client.RequestRejectedError
			Expect(err).To(BeAssignableToTypeOf(rejected))
			rejected = err.(*client.RequestRejectedError)
			Expect(rejected.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(rejected.Detail).To(Equal("staff planning is malformed"))
			Expect(rejected.Error()).To(Equal("staff planning is malformed"))
		})

		It("maps 4xx without a detail body onto a generic rejection", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`not json`))
			}

			_, err := c.SubmitCheck(context.Background(), api.CheckSubmission{})
			rejected, ok := err.(*client.RequestRejectedError)
			Expect(ok).To(BeTrue())
			Expect(rejected.Detail).To(BeEmpty())
			Expect(rejected.Error()).To(ContainSubstring("400"))
		})

		It("maps 5xx onto TransportError", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}

			_, err := c.FetchCheckStatus(context.Background(), "c-123")
			var transport *client.TransportError
			Expect(err).To(BeAssignableToTypeOf(transport))
		})

		It("maps an undecodable 2xx body onto TransportError", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`<html>`))
			}

			_, err := c.FetchCheckStatus(context.Background(), "c-123")
			var transport *client.TransportError
			Expect(err).To(BeAssignableToTypeOf(transport))
		})

		It("maps a network failure onto TransportError", func() {
			server.Close()

			_, err := c.FetchCheckStatus(context.Background(), "c-123")
			var transport *client.TransportError
			Expect(err).To(BeAssignableToTypeOf(transport))
		})
	})
})
