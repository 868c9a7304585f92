// Package rest implements the Bintray REST API on top of a retrying HTTP client.
//
// Transport errors and 5xx responses are retried by go-retryablehttp; every other
// non-2xx response is mapped to a sentinel from the bintray errors package.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-retryablehttp"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/bintray/internal/api"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
)

// Config holds the settings of a REST client.
type Config struct {
	BaseURL      string
	Username     string
	APIKey       string
	HTTPClient   *http.Client
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
	Logger       *slog.Logger
}

// Client talks to the Bintray REST API.
type Client struct {
	http     *retryablehttp.Client
	baseURL  *url.URL
	username string
	apiKey   string
}

var _ api.API = (*Client)(nil)

// New creates a REST client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, bterrors.NewError("client initialization", fmt.Errorf("parse base URL: %w", err))
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, bterrors.NewValidationError(fmt.Sprintf("base URL %q must be absolute", cfg.BaseURL))
	}

	httpClient := retryablehttp.NewClient()
	if cfg.HTTPClient != nil {
		httpClient.HTTPClient = cfg.HTTPClient
	}
	if cfg.Timeout > 0 {
		httpClient.HTTPClient.Timeout = cfg.Timeout
	}
	httpClient.RetryMax = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		httpClient.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		httpClient.RetryWaitMax = cfg.RetryWaitMax
	}
	// Hand the last response back after retries are exhausted so the status
	// code can be mapped like any other failure.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.Logger = nil
	if cfg.Logger != nil {
		httpClient.Logger = newLeveledLogger(cfg.Logger)
	}

	return &Client{
		http:     httpClient,
		baseURL:  base,
		username: cfg.Username,
		apiKey:   cfg.APIKey,
	}, nil
}

// GetRepository implements api.API.
func (c *Client) GetRepository(ctx context.Context, co domain.Coordinates) (*domain.Repository, error) {
	var repo domain.Repository
	if _, err := c.call(ctx, "get repository", http.MethodGet, repoPath(co), nil, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// CreateRepository implements api.API.
func (c *Client) CreateRepository(ctx context.Context, co domain.Coordinates, repo *domain.Repository) (string, error) {
	return c.call(ctx, "create repository", http.MethodPost, repoPath(co), nil, newRepositoryPayload(repo, true), nil)
}

// UpdateRepository implements api.API.
func (c *Client) UpdateRepository(ctx context.Context, co domain.Coordinates, repo *domain.Repository) (string, error) {
	return c.call(ctx, "update repository", http.MethodPatch, repoPath(co), nil, newRepositoryPayload(repo, false), nil)
}

// GetPackage implements api.API.
func (c *Client) GetPackage(ctx context.Context, co domain.Coordinates) (*domain.Package, error) {
	var pkg domain.Package
	query := url.Values{"attribute_values": {"0"}}
	if _, err := c.call(ctx, "get package", http.MethodGet, packagePath(co), query, nil, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// CreatePackage implements api.API.
func (c *Client) CreatePackage(ctx context.Context, co domain.Coordinates, pkg *domain.Package) (string, error) {
	p := "/packages/" + escape(co.Subject, co.Repository)
	return c.call(ctx, "create package", http.MethodPost, p, nil, newPackagePayload(pkg, true), nil)
}

// UpdatePackage implements api.API.
func (c *Client) UpdatePackage(ctx context.Context, co domain.Coordinates, pkg *domain.Package) (string, error) {
	return c.call(ctx, "update package", http.MethodPatch, packagePath(co), nil, newPackagePayload(pkg, false), nil)
}

// DeletePackage implements api.API.
func (c *Client) DeletePackage(ctx context.Context, co domain.Coordinates) (string, error) {
	return c.call(ctx, "delete package", http.MethodDelete, packagePath(co), nil, nil, nil)
}

// GetVersion implements api.API.
func (c *Client) GetVersion(ctx context.Context, co domain.Coordinates) (*domain.Version, error) {
	var v domain.Version
	if _, err := c.call(ctx, "get version", http.MethodGet, versionPath(co), nil, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVersion implements api.API.
func (c *Client) CreateVersion(ctx context.Context, co domain.Coordinates, v *domain.Version) (string, error) {
	p := packagePath(co) + "/versions"
	return c.call(ctx, "create version", http.MethodPost, p, nil, newVersionPayload(v, true), nil)
}

// UpdateVersion implements api.API.
func (c *Client) UpdateVersion(ctx context.Context, co domain.Coordinates, v *domain.Version) (string, error) {
	return c.call(ctx, "update version", http.MethodPatch, versionPath(co), nil, newVersionPayload(v, false), nil)
}

// DeleteVersion implements api.API.
func (c *Client) DeleteVersion(ctx context.Context, co domain.Coordinates) (string, error) {
	return c.call(ctx, "delete version", http.MethodDelete, versionPath(co), nil, nil, nil)
}

// ListFiles implements api.API.
func (c *Client) ListFiles(ctx context.Context, co domain.Coordinates) ([]domain.Content, error) {
	var files []domain.Content
	query := url.Values{"include_unpublished": {"1"}}
	if _, err := c.call(ctx, "list files", http.MethodGet, versionPath(co)+"/files", query, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadContent implements api.API.
func (c *Client) UploadContent(ctx context.Context, in *api.UploadInput) (string, error) {
	const op = "upload"
	if in == nil || in.Body == nil {
		return "", bterrors.NewValidationError("upload body is required")
	}
	co := in.Coordinates
	p := "/content/" + escape(co.Subject, co.Repository, co.Package, co.Version) + "/" + escapePath(in.Path)

	contentType, err := detectContentType(in.Body)
	if err != nil {
		return "", bterrors.NewPathError(op, in.Path, err)
	}

	query := url.Values{
		"publish":  {boolParam(in.Publish)},
		"override": {boolParam(in.Override)},
	}
	req, err := c.newRequest(ctx, http.MethodPut, p, query, in.Body)
	if err != nil {
		return "", bterrors.NewPathError(op, in.Path, err)
	}
	req.ContentLength = in.Size
	req.Header.Set("Content-Type", contentType)
	if in.GPGPassphrase != "" {
		req.Header.Set("X-GPG-PASSPHRASE", in.GPGPassphrase)
	}
	setListHeader(req, "X-Bintray-Debian-Distribution", in.DebianDistributions)
	setListHeader(req, "X-Bintray-Debian-Component", in.DebianComponents)
	setListHeader(req, "X-Bintray-Debian-Architecture", in.DebianArchitectures)

	return c.do(req, op, in.Path, nil)
}

// DeleteContent implements api.API.
func (c *Client) DeleteContent(ctx context.Context, co domain.Coordinates, path string) (string, error) {
	p := "/content/" + escape(co.Subject, co.Repository) + "/" + escapePath(path)
	return c.call(ctx, "delete content", http.MethodDelete, p, nil, nil, nil)
}

// PublishContent implements api.API.
func (c *Client) PublishContent(ctx context.Context, co domain.Coordinates, in *api.PublishInput) (int, error) {
	body := publishPayload{}
	if in != nil {
		body.Discard = in.Discard
		body.WaitForSeconds = in.WaitForSeconds
	}
	p := "/content/" + escape(co.Subject, co.Repository, co.Package, co.Version) + "/publish"

	var out publishResponse
	if _, err := c.call(ctx, "publish", http.MethodPost, p, nil, body, &out); err != nil {
		return 0, err
	}
	return out.Files, nil
}

// ShowInDownloadList implements api.API. The API answers 400 or 404 while the
// file is not yet known at package level; both are reported as not found.
func (c *Client) ShowInDownloadList(ctx context.Context, co domain.Coordinates, path string, visible bool) (string, error) {
	const op = "show in download list"
	p := "/file_metadata/" + escape(co.Subject, co.Repository) + "/" + escapePath(path)

	req, err := c.newJSONRequest(ctx, http.MethodPut, p, nil, fileMetadataPayload{ListInDownloads: visible})
	if err != nil {
		return "", bterrors.NewPathError(op, path, err)
	}
	warning, err := c.do(req, op, path, nil)
	var e *bterrors.Error
	if errors.As(err, &e) && e.StatusCode == http.StatusBadRequest {
		e.Err = fmt.Errorf("%w: %w", bterrors.ErrNotFound, e.Err)
	}
	return warning, err
}

// DownloadContent implements api.API.
func (c *Client) DownloadContent(ctx context.Context, co domain.Coordinates, path string, w io.Writer) (int64, error) {
	const op = "download"
	p := "/content/" + escape(co.Subject, co.Repository) + "/" + escapePath(path)

	req, err := c.newRequest(ctx, http.MethodGet, p, nil, nil)
	if err != nil {
		return 0, bterrors.NewPathError(op, path, err)
	}
	resp, err := c.send(req)
	if err != nil {
		return 0, bterrors.NewPathError(op, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, bterrors.NewStatusError(op, path, resp.StatusCode, parseStatusBody(body).Message)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, bterrors.NewPathError(op, path, fmt.Errorf("copy body: %w", err))
	}
	return n, nil
}

// call sends a JSON request and decodes a JSON response into out when non-nil.
func (c *Client) call(
	ctx context.Context,
	op, method, p string,
	query url.Values,
	body any,
	out any,
) (string, error) {
	req, err := c.newJSONRequest(ctx, method, p, query, body)
	if err != nil {
		return "", bterrors.NewPathError(op, p, err)
	}
	return c.do(req, op, p, out)
}

func (c *Client) newJSONRequest(
	ctx context.Context,
	method, p string,
	query url.Values,
	body any,
) (*retryablehttp.Request, error) {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	var reqBody any
	if raw != nil {
		reqBody = raw
	}
	req, err := c.newRequest(ctx, method, p, query, reqBody)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// newRequest builds an authenticated request. p must already be escaped.
func (c *Client) newRequest(
	ctx context.Context,
	method, p string,
	query url.Values,
	body any,
) (*retryablehttp.Request, error) {
	u := c.baseURL.JoinPath(p)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiKey)
	}
	return req, nil
}

// do executes req and maps the response. The returned string is the warning
// reported by the server, if any.
func (c *Client) do(req *retryablehttp.Request, op, p string, out any) (string, error) {
	resp, err := c.send(req)
	if err != nil {
		return "", bterrors.NewPathError(op, p, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", bterrors.NewPathError(op, p, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", bterrors.NewStatusError(op, p, resp.StatusCode, parseStatusBody(body).Message)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return "", bterrors.NewPathError(op, p, fmt.Errorf("decode response: %w", err))
		}
	}
	return parseStatusBody(body).Warn, nil
}

// send executes req. When retries are exhausted on a 5xx response the last
// response is returned without error so that its status can be mapped.
func (c *Client) send(req *retryablehttp.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if resp != nil {
		return resp, nil
	}
	if err == nil {
		err = errors.New("no response")
	}
	return nil, err
}

// parseStatusBody extracts message and warning from a response body.
// Bodies that are not JSON objects yield an empty result.
func parseStatusBody(body []byte) statusBody {
	var sb statusBody
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return sb
	}
	_ = json.Unmarshal(trimmed, &sb)
	return sb
}

// detectContentType sniffs the MIME type of r and rewinds it.
func detectContentType(r io.ReadSeeker) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind body: %w", err)
	}
	return mt.String(), nil
}

func setListHeader(req *retryablehttp.Request, name string, values []string) {
	if len(values) > 0 {
		req.Header.Set(name, strings.Join(values, ","))
	}
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func repoPath(co domain.Coordinates) string {
	return "/repos/" + escape(co.Subject, co.Repository)
}

func packagePath(co domain.Coordinates) string {
	return "/packages/" + escape(co.Subject, co.Repository, co.Package)
}

func versionPath(co domain.Coordinates) string {
	return packagePath(co) + "/versions/" + url.PathEscape(co.Version)
}

// escape escapes each segment and joins them with "/".
func escape(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// escapePath normalizes a content path and escapes each of its segments.
func escapePath(p string) string {
	return escape(strings.Split(domain.CleanPath(p), "/")...)
}
