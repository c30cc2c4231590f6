package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/memory"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
	"github.com/dmitrijs2005/dsstudio/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	t         *testing.T
	handler   http.Handler
	mem       *memory.Manager
	tokens    *auth.TokenService
	mediaRoot string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithPinger(t, stubPinger{})
}

func newTestServerWithPinger(t *testing.T, db Pinger) *testServer {
	t.Helper()
	return newTestServerWith(t, func(o *Options) { o.DB = db })
}

func newTestServerWith(t *testing.T, tweak func(*Options)) *testServer {
	t.Helper()

	mem := memory.NewManager()
	root := t.TempDir()
	st, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	log := logging.Nop{}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenService("rest-test-secret", time.Hour)

	o := Options{
		Users:          services.NewUserService(mem, mem, tokens, hasher, log),
		Profile:        services.NewProfileService(mem, mem, hasher, st, "profile_pictures", log),
		Visualizations: services.NewVisualizationService(mem, mem, log),
		DB:             stubPinger{},
		Logger:         log,
		MediaURL:       "/media",
		MediaRoot:      root,
	}
	if tweak != nil {
		tweak(&o)
	}
	h := NewHandler(o)

	return &testServer{t: t, handler: h.Router(), mem: mem, tokens: tokens, mediaRoot: root}
}

// client keeps the session cookie between calls like a browser would.
type client struct {
	s      *testServer
	cookie *http.Cookie
}

func (s *testServer) client() *client { return &client{s: s} }

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.s.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name != common.AuthCookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) json(method, path string, body any) *httptest.ResponseRecorder {
	c.s.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(c.s.t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *client) upload(path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	c.s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(c.s.t, err)
	_, err = part.Write(data)
	require.NoError(c.s.t, err)
	require.NoError(c.s.t, w.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func (c *client) registerAndLogin(email string) {
	c.s.t.Helper()
	rec := c.json(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Ada", "surname": "Lovelace", "email": email, "password": "password123",
	})
	require.Equal(c.s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(c.s.t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(c.s.t, c.cookie)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int) errorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	e := decode[errorResponse](t, rec)
	require.Equal(t, status, e.StatusCode)
	require.NotEmpty(t, e.Error)
	return e
}

var errDBDown = errors.New("connection refused")
