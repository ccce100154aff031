package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/middleware"
	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/pkg/reqid"
)

var _ Console = (*console)(nil)

// Console is the client interface for the compliance backend.
type Console interface {
	// SubmitCheck starts a compliance-check job and returns its id.
	SubmitCheck(ctx context.Context, submission api.CheckSubmission) (string, error)
	// SubmitVGC starts a vgc-list-creation job and returns its id.
	SubmitVGC(ctx context.Context, submission api.VGCSubmission) (string, error)
	FetchCheckStatus(ctx context.Context, id string) (*api.JobStatusReply, error)
	FetchVGCStatus(ctx context.Context, id string) (*api.JobStatusReply, error)
	ListChecks(ctx context.Context) ([]api.CheckSummary, error)
	ListVGC(ctx context.Context) ([]api.CheckSummary, error)
	// Upload binds a local file to a backend object of the given document
	// type and returns its object key.
	Upload(ctx context.Context, filePath string, documentType string) (*api.UploadReply, error)
	// DeleteFile removes an uploaded object. Best-effort; callers may
	// ignore failures.
	DeleteFile(ctx context.Context, objectKey string) error
}

// NewFromConfig returns a new console client from the given config.
func NewFromConfig(config *Config) (Console, error) {
	httpClient, err := NewHTTPClientFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("NewFromConfig: creating HTTP client %w", err)
	}
	return &console{
		client: httpClient,
		server: config.Service.Server,
		token:  config.Service.Token,
	}, nil
}

// NewFromConfigFile returns a new console client using the config read
// from the given file.
func NewFromConfigFile(filename string) (Console, error) {
	config, err := ParseConfigFile(filename)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config)
}

type console struct {
	client *http.Client
	server string
	token  string
}

func (c *console) SubmitCheck(ctx context.Context, submission api.CheckSubmission) (string, error) {
	reply := api.SubmitReply{}
	if err := c.doJSON(ctx, http.MethodPost, "/checks", submission, &reply); err != nil {
		return "", err
	}
	return reply.CheckID, nil
}

func (c *console) SubmitVGC(ctx context.Context, submission api.VGCSubmission) (string, error) {
	reply := api.SubmitReply{}
	if err := c.doJSON(ctx, http.MethodPost, "/create-vgc", submission, &reply); err != nil {
		return "", err
	}
	return reply.CheckID, nil
}

func (c *console) FetchCheckStatus(ctx context.Context, id string) (*api.JobStatusReply, error) {
	reply := &api.JobStatusReply{}
	if err := c.doJSON(ctx, http.MethodGet, "/checks/"+url.PathEscape(id), nil, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *console) FetchVGCStatus(ctx context.Context, id string) (*api.JobStatusReply, error) {
	reply := &api.JobStatusReply{}
	if err := c.doJSON(ctx, http.MethodGet, "/checks-create-vgc/"+url.PathEscape(id), nil, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *console) ListChecks(ctx context.Context) ([]api.CheckSummary, error) {
	var reply []api.CheckSummary
	if err := c.doJSON(ctx, http.MethodGet, "/checks/list", nil, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *console) ListVGC(ctx context.Context) ([]api.CheckSummary, error) {
	var reply []api.CheckSummary
	if err := c.doJSON(ctx, http.MethodGet, "/checks-create-vgc/list", nil, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *console) Upload(ctx context.Context, filePath string, documentType string) (*api.UploadReply, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copying file into multipart: %w", err)
	}
	if err := mw.WriteField("document_type", documentType); err != nil {
		return nil, fmt.Errorf("writing document_type field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	reply := &api.UploadReply{}
	if err := c.send(req, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *console) DeleteFile(ctx context.Context, objectKey string) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+url.PathEscape(objectKey), nil, nil)
}

func (c *console) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	return c.send(req, out)
}

func (c *console) setCommonHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(middleware.RequestIDHeader, reqid.NextRequestID())
}

// send executes the request and maps the response onto the error
// taxonomy: 4xx becomes RequestRejectedError carrying the body's detail
// field, network failures, undecodable bodies and any other non-2xx
// become TransportError.
func (c *console) send(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return NewRequestRejectedError(resp.StatusCode, decodeDetail(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewTransportStatusError(resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewTransportError(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func decodeDetail(body io.Reader) string {
	reply := struct {
		Detail string `json:"detail"`
	}{}
	if err := json.NewDecoder(body).Decode(&reply); err != nil {
		return ""
	}
	return reply.Detail
}
