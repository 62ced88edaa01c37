package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"voyago/internal/app/session"
	"voyago/internal/app/store"
	"voyago/internal/configs"
	"voyago/internal/pkg/views"
)

// fakeStore is an in-memory Store with switchable failure modes.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*store.User

	getErr     error
	createErr  error
	replaceErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*store.User)}
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}

	return &store.User{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		WantToGo:     slices.Clone(u.WantToGo),
	}, nil
}

func (f *fakeStore) Create(ctx context.Context, username, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[username]; ok {
		return store.ErrAlreadyExists
	}

	f.users[username] = &store.User{Username: username, PasswordHash: passwordHash, WantToGo: []string{}}
	return nil
}

func (f *fakeStore) ReplaceWantToGo(ctx context.Context, username string, list []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.replaceErr != nil {
		return f.replaceErr
	}

	u, ok := f.users[username]
	if !ok {
		return store.ErrNotFound
	}

	u.WantToGo = slices.Clone(list)
	return nil
}

// seed registers a user directly in the fake store.
func (f *fakeStore) seed(t *testing.T, username, password string, wantToGo ...string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = &store.User{Username: username, PasswordHash: string(hash), WantToGo: wantToGo}
}

// list returns the stored want-to-go list for username.
func (f *fakeStore) list(username string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[username]; ok {
		return slices.Clone(u.WantToGo)
	}
	return nil
}

func newTestDeps(t *testing.T, st store.Store) *AppDeps {
	t.Helper()

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	return &AppDeps{
		Config: &configs.AppConfig{
			Environment:   "test",
			Port:          8080,
			SessionSecret: "test-secret",
			SessionTTL:    time.Hour,
		},
		Sessions: session.NewManager("test-secret", time.Hour),
		Store:    st,
		Views:    renderer,
	}
}

// newTestServer starts the full router with a cookie-keeping client that does
// not follow redirects, so tests can assert on Location headers directly.
func newTestServer(t *testing.T, deps *AppDeps) (*httptest.Server, *http.Client) {
	t.Helper()

	ts := httptest.NewServer(Router(deps))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return ts, client
}

func postForm(t *testing.T, client *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()

	resp, err := client.Post(rawURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, client *http.Client, rawURL string) *http.Response {
	t.Helper()

	resp, err := client.Get(rawURL)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// login drives the credential flow and asserts it succeeds.
func login(t *testing.T, client *http.Client, baseURL, username, password string) {
	t.Helper()

	resp := postForm(t, client, baseURL+"/login", url.Values{"username": {username}, "password": {password}})
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/home", resp.Header.Get("Location"))
}

func TestRegisterThenLoginFlow(t *testing.T) {
	fs := newFakeStore()
	ts, client := newTestServer(t, newTestDeps(t, fs))

	// Register redirects to the login page without logging the user in.
	resp := postForm(t, client, ts.URL+"/register", url.Values{"username": {"alice"}, "password": {"pw1"}})
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The stored password must be hashed, never the plaintext.
	require.Contains(t, fs.users, "alice")
	assert.NotEqual(t, "pw1", fs.users["alice"].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(fs.users["alice"].PasswordHash), []byte("pw1")))

	// The login page shows the one-shot flash exactly once.
	body := readBody(t, get(t, client, ts.URL+"/login"))
	assert.Contains(t, body, "Registration successful. Please log in.")
	body = readBody(t, get(t, client, ts.URL+"/login"))
	assert.NotContains(t, body, "Registration successful.")

	// Registration did not create a session user.
	resp = get(t, client, ts.URL+"/wanttogo")
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	login(t, client, ts.URL, "alice", "pw1")

	body = readBody(t, get(t, client, ts.URL+"/home"))
	assert.Contains(t, body, "Signed in as alice")
}

func TestRegisterDuplicateAndEmpty(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	ts, client := newTestServer(t, newTestDeps(t, fs))

	// Duplicate username yields the shared 400 message regardless of password.
	resp := postForm(t, client, ts.URL+"/register", url.Values{"username": {"alice"}, "password": {"other"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username already exists or fields are empty.")

	// Empty fields yield the same message.
	resp = postForm(t, client, ts.URL+"/register", url.Values{"username": {"   "}, "password": {"pw"}})
	body = readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username already exists or fields are empty.")
}

func TestLoginFailures(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	ts, client := newTestServer(t, newTestDeps(t, fs))

	// Empty fields: 400 with the shared message.
	resp := postForm(t, client, ts.URL+"/login", url.Values{"username": {""}, "password": {""}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password.")

	// Wrong password and unknown user: both 401 with the same message.
	resp = postForm(t, client, ts.URL+"/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	body = readBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password.")

	resp = postForm(t, client, ts.URL+"/login", url.Values{"username": {"nobody"}, "password": {"pw1"}})
	body = readBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password.")
}

func TestLoginStoreDown(t *testing.T) {
	deps := newTestDeps(t, nil)
	ts, client := newTestServer(t, deps)

	resp := postForm(t, client, ts.URL+"/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Database is not ready yet.")
}

func TestAuthGuard(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	ts, client := newTestServer(t, newTestDeps(t, fs))

	// Protected paths redirect anonymous requests to the login page,
	// including paths no route matches.
	for _, path := range []string{"/home", "/hiking", "/paris", "/wanttogo", "/no-such-page"} {
		resp := get(t, client, ts.URL+path)
		readBody(t, resp)
		assert.Equal(t, http.StatusFound, resp.StatusCode, "path %s", path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), "path %s", path)
	}

	// Public paths never redirect.
	for _, path := range []string{"/login", "/registration", "/health"} {
		resp := get(t, client, ts.URL+path)
		readBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "path %s", path)
	}

	login(t, client, ts.URL, "alice", "pw1")

	resp := get(t, client, ts.URL+"/hiking")
	readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// With a session, unmatched paths reach the 404 error page instead.
	resp = get(t, client, ts.URL+"/no-such-page")
	body := readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Not Found")
}

func TestLogoutDestroysSession(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	ts, client := newTestServer(t, newTestDeps(t, fs))

	login(t, client, ts.URL, "alice", "pw1")

	resp := get(t, client, ts.URL+"/logout")
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The old session is gone server-side; protected paths redirect again.
	resp = get(t, client, ts.URL+"/home")
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSearch(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	ts, client := newTestServer(t, newTestDeps(t, fs))
	login(t, client, ts.URL, "alice", "pw1")

	// Case-insensitive: ROME and rome return the same result.
	upper := readBody(t, postForm(t, client, ts.URL+"/search", url.Values{"Search": {"ROME"}}))
	lower := readBody(t, postForm(t, client, ts.URL+"/search", url.Values{"Search": {"rome"}}))
	assert.Equal(t, upper, lower)
	assert.Contains(t, upper, "Rome")
	assert.NotContains(t, upper, "No destinations found.")

	// Substring matches preserve catalog order.
	body := readBody(t, postForm(t, client, ts.URL+"/search", url.Values{"Search": {"island"}}))
	assert.Contains(t, body, "Bali Island")
	assert.Contains(t, body, "Santorini Island")
	assert.Less(t, strings.Index(body, "Bali Island"), strings.Index(body, "Santorini Island"))

	// No match and empty query both render the not-found shape.
	body = readBody(t, postForm(t, client, ts.URL+"/search", url.Values{"Search": {"xyz-nonexistent"}}))
	assert.Contains(t, body, "No destinations found.")
	body = readBody(t, postForm(t, client, ts.URL+"/search", url.Values{"Search": {"   "}}))
	assert.Contains(t, body, "No destinations found.")
}

func TestAuthRateLimit(t *testing.T) {
	fs := newFakeStore()
	ts, client := newTestServer(t, newTestDeps(t, fs))

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}

	var last int
	for i := 0; i < AuthBurst+1; i++ {
		resp := postForm(t, client, ts.URL+"/login", form)
		readBody(t, resp)
		last = resp.StatusCode
	}

	assert.Equal(t, http.StatusTooManyRequests, last, "requests past the burst must be limited")
}

func TestErrorDetailOnlyInDevelopment(t *testing.T) {
	fs := newFakeStore()
	fs.seed(t, "alice", "pw1")
	fs.getErr = io.ErrUnexpectedEOF

	deps := newTestDeps(t, fs)
	ts, client := newTestServer(t, deps)

	// The store error hits before credential checks, so no login is needed;
	// /wanttogo would redirect without a session, but /login POST reaches the
	// lookup directly.
	resp := postForm(t, client, ts.URL+"/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, io.ErrUnexpectedEOF.Error(), "non-development must hide error detail")

	deps.Config.Environment = "development"
	resp = postForm(t, client, ts.URL+"/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	body = readBody(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, io.ErrUnexpectedEOF.Error(), "development must show error detail")
}
