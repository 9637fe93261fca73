package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/app"
	"github.com/you/usersvc/internal/http/response"
	"github.com/you/usersvc/internal/infrastructure/database"
	testconfig "github.com/you/usersvc/internal/tests/config"
)

// TestServer runs the real router and services over SQLite, miniredis and
// in-memory notification and image providers.
type TestServer struct {
	Server    *httptest.Server
	Client    *http.Client
	Container *app.Container
	Redis     *miniredis.Miniredis
	Notifier  *fakeNotifier
	Images    *fakeImageStore
}

// NewTestServer creates a new test server instance for E2E testing
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testconfig.LoadTestConfig(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	notifier := &fakeNotifier{}
	images := &fakeImageStore{objects: make(map[string][]byte)}

	c := app.Build(cfg, zap.NewNop(), app.Externals{
		DB:         db,
		Redis:      rdb,
		Notifier:   notifier,
		ImageStore: images,
	})
	c.Welcome.Start(context.Background())

	server := httptest.NewServer(c.Router())
	t.Cleanup(func() {
		server.Close()
		c.Welcome.Stop()
		_ = c.Close()
	})

	return &TestServer{
		Server:    server,
		Client:    &http.Client{Timeout: 10 * time.Second},
		Container: c,
		Redis:     mr,
		Notifier:  notifier,
		Images:    images,
	}
}

// apiResponse is a decoded response envelope plus the cookies it set
type apiResponse struct {
	Status  int
	Body    response.Envelope
	Cookies map[string]*http.Cookie
}

// Data returns the envelope data as an object
func (r apiResponse) Data(t *testing.T) map[string]interface{} {
	t.Helper()
	data, ok := r.Body.Data.(map[string]interface{})
	require.Truef(t, ok, "expected object data, got %T (%+v)", r.Body.Data, r.Body)
	return data
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(name, value string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

// PostJSON sends a JSON POST to path
func (s *TestServer) PostJSON(t *testing.T, path string, body interface{}, opts ...requestOption) apiResponse {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.Server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, opts...)
}

// PostFile sends a multipart POST. An empty field sends a form without files.
func (s *TestServer) PostFile(t *testing.T, path, field, filename string, content []byte, opts ...requestOption) apiResponse {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(t, req, opts...)
}

// Get sends a GET to path
func (s *TestServer) Get(t *testing.T, path string) apiResponse {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.Server.URL+path, nil)
	require.NoError(t, err)
	return s.do(t, req)
}

func (s *TestServer) do(t *testing.T, req *http.Request, opts ...requestOption) apiResponse {
	t.Helper()
	for _, opt := range opts {
		opt(req)
	}

	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Cookies: make(map[string]*http.Cookie)}
	require.NoErrorf(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
	for _, ck := range resp.Cookies() {
		out.Cookies[ck.Name] = ck
	}
	return out
}

// OTPFor returns the code currently stored for email
func (s *TestServer) OTPFor(t *testing.T, email string) string {
	t.Helper()
	code, err := s.Redis.Get("otp:" + email)
	require.NoError(t, err)
	return code
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

// fakeNotifier records messages instead of delivering them
type fakeNotifier struct {
	mu     sync.Mutex
	sms    []sentMessage
	emails []sentMessage
}

func (f *fakeNotifier) SendSMS(ctx context.Context, to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sms = append(f.sms, sentMessage{To: to, Body: message})
	return nil
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeNotifier) EmailsTo(to string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return filterTo(f.emails, to)
}

func (f *fakeNotifier) SMSTo(to string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return filterTo(f.sms, to)
}

func filterTo(msgs []sentMessage, to string) []sentMessage {
	var out []sentMessage
	for _, m := range msgs {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

// fakeImageStore keeps uploads in memory
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeImageStore) Upload(ctx context.Context, key string, upload *domain.AvatarUpload) (string, error) {
	content, err := io.ReadAll(upload.Content)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = content
	return "https://images.test/" + key, nil
}

func (f *fakeImageStore) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
