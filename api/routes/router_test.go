package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"github.com/angelmondragon/storyboard-backend/internal/auth"
	"github.com/angelmondragon/storyboard-backend/internal/export"
	"github.com/angelmondragon/storyboard-backend/internal/media"
	"github.com/angelmondragon/storyboard-backend/internal/projects"
	"github.com/angelmondragon/storyboard-backend/internal/sharing"
	"github.com/angelmondragon/storyboard-backend/internal/store/storetest"
	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/metrics"
	"github.com/angelmondragon/storyboard-backend/pkg/storage/localfs"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "event-storyboard", ExpirationMinutes: 60},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"*"}},
		Share: config.ShareConfig{TTL: 336 * time.Hour},
		Media: config.MediaConfig{MaxUploadMB: 1},
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestRouter(t *testing.T, storePing error) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.Nop()
	backend := storetest.SQLite(t)

	blob, err := localfs.New(afero.NewMemMapFs(), "media")
	if err != nil {
		t.Fatalf("blob: %v", err)
	}

	authSvc, err := auth.NewService(auth.ServiceParams{Users: backend.Users, JWTConfig: cfg.JWT, PasswordConfig: cfg.Password})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	projectSvc, err := projects.NewService(projects.ServiceParams{Projects: backend.Projects})
	if err != nil {
		t.Fatalf("project service: %v", err)
	}
	mediaSvc, err := media.NewService(media.ServiceParams{Media: backend.Media, Blob: blob, MaxUploadBytes: cfg.Media.MaxUploadBytes()})
	if err != nil {
		t.Fatalf("media service: %v", err)
	}
	shareSvc, err := sharing.NewService(sharing.ServiceParams{Links: backend.ShareLinks, Projects: backend.Projects, Config: cfg.Share})
	if err != nil {
		t.Fatalf("share service: %v", err)
	}

	reg := prometheus.NewRegistry()
	exportSvc, err := export.NewService(export.ServiceParams{Projects: backend.Projects, Metrics: metrics.NewExportMetrics(reg), Logger: logg})
	if err != nil {
		t.Fatalf("export service: %v", err)
	}

	return NewRouter(cfg, logg, stubPinger{err: storePing}, blob, nil, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), Services{
		Auth:     authSvc,
		Projects: projectSvc,
		Media:    mediaSvc,
		Sharing:  shareSvc,
		Export:   exportSvc,
	})
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonHeaders(token string) map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(env.Data))
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestTestEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodGet, "/test", nil, nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("unexpected /test response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	if rec := do(t, newTestRouter(t, nil), http.MethodGet, "/health/ready", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, newTestRouter(t, errors.New("down")), http.MethodGet, "/health/ready", nil, nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when store is down, got %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/auth/register", strings.NewReader(`{"email":"pat@example.com","password":"pw"}`), jsonHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var token auth.TokenResponse
	decodeData(t, rec, &token)
	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token response %+v", token)
	}

	rec = do(t, h, http.MethodPost, "/auth/register", strings.NewReader(`{"email":"pat@example.com","password":"pw"}`), jsonHeaders(""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"wrong"}`), jsonHeaders(""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/auth/login", strings.NewReader(`{"email":"pat@example.com","password":"pw"}`), jsonHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	form := url.Values{"id_token": {"sso@example.com"}}
	rec = do(t, h, http.MethodPost, "/auth/google", strings.NewReader(form.Encode()), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if rec.Code != http.StatusOK {
		t.Fatalf("google: %d %s", rec.Code, rec.Body.String())
	}
}

func TestProjectShareAndExportFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/auth/register", strings.NewReader(`{"email":"owner@example.com","password":"pw"}`), jsonHeaders(""))
	var token auth.TokenResponse
	decodeData(t, rec, &token)

	body := `{"title":"Launch","slides":[{"text":"Welcome"},{"bg":"#ff0000"}]}`
	rec = do(t, h, http.MethodPost, "/projects", strings.NewReader(body), jsonHeaders(token.AccessToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("create project: %d %s", rec.Code, rec.Body.String())
	}
	var project struct {
		ID      string `json:"id"`
		OwnerID string `json:"owner_id"`
		Title   string `json:"title"`
		Slides  []map[string]any
	}
	decodeData(t, rec, &project)
	if project.ID == "" || project.OwnerID == "" {
		t.Fatalf("expected id and owner from token, got %+v", project)
	}

	rec = do(t, h, http.MethodGet, "/projects?owner_id="+project.OwnerID, nil, nil)
	var list []map[string]any
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("expected one project for owner, got %d", len(list))
	}

	rec = do(t, h, http.MethodPut, "/projects/"+project.ID, strings.NewReader(`{"id":"ignored","title":"Launch v2","slides":[{"text":"Welcome"},{"bg":"#ff0000"}]}`), jsonHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("update project: %d %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &project)
	if project.Title != "Launch v2" {
		t.Fatalf("expected updated title, got %q", project.Title)
	}

	form := url.Values{"project_id": {project.ID}}
	rec = do(t, h, http.MethodPost, "/share", strings.NewReader(form.Encode()), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create share: %d %s", rec.Code, rec.Body.String())
	}
	var link struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decodeData(t, rec, &link)
	if link.Role != "viewer" {
		t.Fatalf("expected viewer role, got %q", link.Role)
	}

	rec = do(t, h, http.MethodGet, "/share/"+link.Token, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve share: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/share/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown token: expected 404, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/export", strings.NewReader(`{"project_id":"`+project.ID+`","format":"images"}`), jsonHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("export images: %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != export.ContentTypeZip {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="slides.zip"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected zip payload")
	}

	rec = do(t, h, http.MethodPost, "/export", strings.NewReader(`{"project_id":"`+project.ID+`"}`), jsonHeaders(""))
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="slides.zip"` {
		t.Fatalf("absent format should export images, got %q (%d)", got, rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/export", strings.NewReader(`{"project_id":"`+project.ID+`","format":"pptx"}`), jsonHeaders(""))
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="storyboard.pptx"` {
		t.Fatalf("unexpected pptx disposition %q (%d)", got, rec.Code)
	}

	cases := []struct {
		body   string
		status int
		code   string
	}{
		{`{"project_id":"` + project.ID + `","format":"video"}`, http.StatusNotImplemented, "NOT_IMPLEMENTED"},
		{`{"project_id":"` + project.ID + `","format":"gif"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{`{"project_id":"` + project.ID + `","format":""}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{`{"project_id":"missing","format":"gif"}`, http.StatusNotFound, "NOT_FOUND"},
		{`{"format":"images"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		rec := do(t, h, http.MethodPost, "/export", strings.NewReader(tc.body), jsonHeaders(""))
		if rec.Code != tc.status || errorCode(t, rec) != tc.code {
			t.Fatalf("%s: expected %d/%s, got %d %s", tc.body, tc.status, tc.code, rec.Code, rec.Body.String())
		}
	}

	rec = do(t, h, http.MethodGet, "/metrics", nil, nil)
	if !strings.Contains(rec.Body.String(), "export_requests_total") {
		t.Fatalf("expected export metrics, got %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodDelete, "/projects/"+project.ID, nil, nil)
	var deleted projects.DeleteResult
	decodeData(t, rec, &deleted)
	if !deleted.Success {
		t.Fatalf("expected delete success")
	}
	if rec := do(t, h, http.MethodGet, "/projects/"+project.ID, nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestMediaUploadAndList(t *testing.T) {
	h := newTestRouter(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("owner_id", "u1")
	_ = mw.WriteField("project_id", "p1")
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("hello storyboard"))
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	rec := do(t, h, http.MethodPost, "/media/upload", &buf, map[string]string{"Content-Type": mw.FormDataContentType()})
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var asset struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	decodeData(t, rec, &asset)
	if asset.Type != "image" || !strings.HasSuffix(asset.URL, "_notes.txt") {
		t.Fatalf("unexpected asset %+v", asset)
	}

	rec = do(t, h, http.MethodGet, "/media?project_id=p1", nil, nil)
	var list []map[string]any
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("expected one asset, got %d", len(list))
	}

	rec = do(t, h, http.MethodPost, "/media/upload", strings.NewReader("not multipart"), map[string]string{"Content-Type": "text/plain"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-multipart upload, got %d", rec.Code)
	}
}
