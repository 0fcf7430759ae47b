package foodsense

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Client is the outbound request pipeline for the FoodSense service. Every
// request goes through authTransport, which attaches the bearer token held
// in Storage and reacts to authorization failures. Client never writes
// Storage; that stays with AuthStore.
type Client struct {
	baseURL   string
	http      *http.Client
	transport *authTransport
	logger    Logger
}

// NewClient returns a Client talking to cfg.GetBaseURL().
func NewClient(cfg Config, storage Storage) *Client {
	logger := Logger(defLogger{})
	transport := newAuthTransport(nil, storage, logger)

	return &Client{
		baseURL: strings.TrimRight(cfg.GetBaseURL(), "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.GetRequestTimeout(),
		},
		transport: transport,
		logger:    logger,
	}
}

// WithLogger overrides the client logger.
func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
		c.transport.logger = logger
	}
	return c
}

// WithBaseTransport swaps the underlying RoundTripper, keeping the token
// attachment pipeline in place.
func (c *Client) WithBaseTransport(rt http.RoundTripper) *Client {
	if rt != nil {
		c.transport.base = rt
	}
	return c
}

// OnUnauthorized registers the hook invoked when an authenticated call
// returns 401. The hook receives the bearer token the failed request
// carried. AuthStore registers its teardown here.
func (c *Client) OnUnauthorized(fn func(ctx context.Context, token string)) {
	c.transport.setUnauthorizedHook(fn)
}

// Login calls POST /auth/login and returns the issued token and profile.
func (c *Client) Login(ctx context.Context, payload LoginRequest) (*TokenResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, invalidPayloadError(err)
	}

	out := &TokenResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register calls POST /auth/register and returns the issued token and profile.
func (c *Client) Register(ctx context.Context, payload RegisterRequest) (*TokenResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, invalidPayloadError(err)
	}

	out := &TokenResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me calls GET /auth/me with the persisted token and returns the current
// profile. Used by the bootstrap to validate a restored session.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	out := &UserProfile{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMe calls PUT /auth/me with a partial profile and returns the
// updated profile as the service sees it.
func (c *Client) UpdateMe(ctx context.Context, payload UserUpdate) (*UserProfile, error) {
	if err := payload.Validate(); err != nil {
		return nil, invalidPayloadError(err)
	}

	out := &UserProfile{}
	if err := c.do(ctx, http.MethodPut, "/auth/me", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword calls POST /auth/change-password.
func (c *Client) ChangePassword(ctx context.Context, payload ChangePasswordRequest) error {
	if err := payload.Validate(); err != nil {
		return invalidPayloadError(err)
	}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req, method, path, out)
}

// upload posts a single file as a multipart form, the way the recognition
// endpoints expect images. The service reads the part named "file".
func (c *Client) upload(ctx context.Context, path, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build upload form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to read upload content")
	}
	if err := form.Close(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(req, http.MethodPost, path, out)
}

func (c *Client) send(req *http.Request, method, path string, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return networkError(err, "service unreachable: "+method+" "+path)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.responseError(res, path)
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to decode response body").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}

// serviceError is the service's error envelope.
type serviceError struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) responseError(res *http.Response, path string) error {
	detail := readErrorDetail(res.Body)
	meta := map[string]any{"path": path, "status": res.StatusCode}
	if detail != "" {
		meta["detail"] = detail
	}

	if isAuthEntrypoint(path) {
		if res.StatusCode == http.StatusUnprocessableEntity {
			return goerrors.New("payload rejected by service", goerrors.CategoryValidation).
				WithTextCode(textCodeInvalidPayload).
				WithCode(goerrors.CodeBadRequest).
				WithMetadata(meta)
		}
		return cloneWithMetadata(ErrInvalidCredentials, meta)
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return cloneWithMetadata(ErrSessionRejected, meta)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return goerrors.New("payload rejected by service", goerrors.CategoryValidation).
			WithTextCode(textCodeInvalidPayload).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(meta)
	case http.StatusForbidden:
		return goerrors.New("operation not allowed", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden).
			WithMetadata(meta)
	case http.StatusNotFound:
		return goerrors.New("resource not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(meta)
	default:
		return remoteError(res.StatusCode, "service error on "+path).WithMetadata(meta)
	}
}

func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(data) == 0 {
		return ""
	}

	envelope := serviceError{}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(envelope.Detail, &asString); err == nil {
		return asString
	}
	return string(envelope.Detail)
}
