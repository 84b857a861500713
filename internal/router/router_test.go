package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"radio-go/internal/config"
	"radio-go/internal/models"
	"radio-go/internal/repository"
	"radio-go/internal/service"
	"radio-go/internal/utils"
)

type testServer struct {
	c      *qt.C
	engine *gin.Engine
	db     *gorm.DB
	logs   *logtest.Hook
}

func newTestServer(c *qt.C) *testServer {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Database: config.DatabaseConfig{
			Path:          filepath.Join(c.TempDir(), "radio.db"),
			MaxOpenConns:  1,
			MaxIdleConns:  1,
			BusyTimeoutMS: 5000,
		},
		JWT:  config.JWTConfig{SecretKey: "router-test", Algorithm: "HS256", ExpireMinutes: 60},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
		CORS: config.CORSConfig{Origins: []string{"*"}},
		Seed: config.SeedConfig{Accounts: config.DefaultSeedAccounts()},
	}

	db, err := models.OpenDB(cfg.Database)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = models.Close(db) })
	c.Assert(models.AutoMigrate(db), qt.IsNil)

	logger, hook := logtest.NewNullLogger()

	_, err = service.NewSeeder(repository.NewUserRepository(db), cfg, logger).Seed(context.Background())
	c.Assert(err, qt.IsNil)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())
	return &testServer{c: c, engine: SetupRouter(cfg, jwtManager, logger, db, nil), db: db, logs: hook}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		s.c.Assert(err, qt.IsNil)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, password string) string {
	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	s.c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"tokenType"`
	}
	decode(s.c, w, &resp)
	s.c.Assert(resp.TokenType, qt.Equals, "bearer")
	return resp.Token
}

func decode(c *qt.C, w *httptest.ResponseRecorder, v interface{}) {
	c.Assert(json.Unmarshal(w.Body.Bytes(), v), qt.IsNil, qt.Commentf("body: %s", w.Body.String()))
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)

	w := s.do(http.MethodGet, "/", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Header().Get("X-Request-ID"), qt.Not(qt.Equals), "")

	w = s.do(http.MethodGet, "/healthz", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
}

func TestLogin(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)

	token := s.login("admin", "admin123")
	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var me map[string]interface{}
	decode(c, w, &me)
	c.Assert(me["username"], qt.Equals, "admin")
	c.Assert(me["passwordHash"], qt.IsNil)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	var wrongPassword errorBody
	decode(c, w, &wrongPassword)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ghost", "password": "nope"})
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	var unknownUser errorBody
	decode(c, w, &unknownUser)
	c.Assert(unknownUser, qt.DeepEquals, wrongPassword)

	w = s.do(http.MethodPost, "/api/auth/login", "", `{"username":"admin"}`)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodGet, "/api/auth/me", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
}

func TestAuthorization(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)
	admin := s.login("admin", "admin123")
	moderator := s.login("moderator", "mod123")

	w := s.do(http.MethodPost, "/api/users", admin, map[string]interface{}{"username": "listener", "password": "pw"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	listener := s.login("listener", "pw")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{name: "anonymous users list", method: http.MethodGet, path: "/api/users", want: http.StatusUnauthorized},
		{name: "moderator users list", method: http.MethodGet, path: "/api/users", token: moderator, want: http.StatusForbidden},
		{name: "admin users list", method: http.MethodGet, path: "/api/users", token: admin, want: http.StatusOK},
		{name: "public shows", method: http.MethodGet, path: "/api/shows", want: http.StatusOK},
		{name: "public schedule", method: http.MethodGet, path: "/api/schedule", want: http.StatusOK},
		{name: "anonymous create show", method: http.MethodPost, path: "/api/shows", body: `{"title":"x","createdBy":1}`, want: http.StatusUnauthorized},
		{name: "user create show", method: http.MethodPost, path: "/api/shows", token: listener, body: `{"title":"x","createdBy":1}`, want: http.StatusForbidden},
		{name: "moderator create show", method: http.MethodPost, path: "/api/shows", token: moderator, body: `{"title":"x","createdBy":1}`, want: http.StatusCreated},
		{name: "user create schedule", method: http.MethodPost, path: "/api/schedule", token: listener, body: `{}`, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			c.Assert(w.Code, qt.Equals, tt.want, qt.Commentf("body: %s", w.Body.String()))
		})
	}
}

func TestUserLifecycle(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)
	admin := s.login("admin", "admin123")

	w := s.do(http.MethodPost, "/api/users", admin, map[string]interface{}{
		"username": "host",
		"password": "pw",
		"fullName": "A",
		"email":    "a@x.com",
	})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	var created struct {
		ID       uint     `json:"id"`
		Roles    []string `json:"roles"`
		IsActive bool     `json:"isActive"`
	}
	decode(c, w, &created)
	c.Assert(created.Roles, qt.DeepEquals, []string{"user"})
	c.Assert(created.IsActive, qt.IsTrue)
	c.Assert(w.Body.String(), qt.Not(qt.Contains), "pw")

	w = s.do(http.MethodPost, "/api/users", admin, map[string]interface{}{"username": "host", "password": "other"})
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	path := fmt.Sprintf("/api/users/%d", created.ID)
	w = s.do(http.MethodPut, path, admin, `{"email":"b@x.com"}`)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var updated map[string]interface{}
	decode(c, w, &updated)
	c.Assert(updated["email"], qt.Equals, "b@x.com")
	c.Assert(updated["fullName"], qt.Equals, "A")

	w = s.do(http.MethodPut, path, admin, `{"username":"admin"}`)
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	w = s.do(http.MethodPut, path, admin, `{"roles":[]}`)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodPut, path, admin, `[1,2]`)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodPut, "/api/users/999999", admin, `{"email":"b@x.com"}`)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
	var notFound errorBody
	decode(c, w, &notFound)
	c.Assert(notFound.Code, qt.Equals, http.StatusNotFound)

	w = s.do(http.MethodGet, "/api/users/abc", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodDelete, path, admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusNoContent)
	c.Assert(w.Body.Len(), qt.Equals, 0)

	w = s.do(http.MethodDelete, path, admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func TestShowAndScheduleLifecycle(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)
	moderator := s.login("moderator", "mod123")

	w := s.do(http.MethodPost, "/api/shows", moderator, map[string]interface{}{"title": "Morning Drive", "createdBy": 2})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	var show struct {
		ID          uint   `json:"id"`
		CreatorName string `json:"creatorName"`
	}
	decode(c, w, &show)
	c.Assert(show.CreatorName, qt.Equals, "Moderator")

	w = s.do(http.MethodPost, "/api/shows", moderator, map[string]interface{}{"title": "Ghost", "createdBy": 424242})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/schedule", moderator, map[string]interface{}{
		"showId":    show.ID,
		"dayOfWeek": "monday",
		"startTime": "07:00",
		"endTime":   "09:00",
		"hostId":    2,
	})
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	var item struct {
		ID          uint   `json:"id"`
		DayOfWeek   int    `json:"dayOfWeek"`
		ShowTitle   string `json:"showTitle"`
		HostName    string `json:"hostName"`
		IsRecurring bool   `json:"isRecurring"`
	}
	decode(c, w, &item)
	c.Assert(item.DayOfWeek, qt.Equals, 1)
	c.Assert(item.ShowTitle, qt.Equals, "Morning Drive")
	c.Assert(item.HostName, qt.Equals, "Moderator")
	c.Assert(item.IsRecurring, qt.IsTrue)

	w = s.do(http.MethodPost, "/api/schedule", moderator, map[string]interface{}{
		"showId": show.ID, "dayOfWeek": 1, "startTime": "7am", "endTime": "09:00",
	})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodGet, "/api/schedule?day=1", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var monday []map[string]interface{}
	decode(c, w, &monday)
	c.Assert(monday, qt.HasLen, 1)

	w = s.do(http.MethodGet, "/api/schedule?day=tue", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Equals, "[]")

	w = s.do(http.MethodGet, "/api/schedule?day=funday", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/schedule/%d", item.ID), moderator, `{"isRecurring":false}`)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	decode(c, w, &item)
	c.Assert(item.IsRecurring, qt.IsFalse)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/shows/%d/schedule", show.ID), "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var byShow []map[string]interface{}
	decode(c, w, &byShow)
	c.Assert(byShow, qt.HasLen, 1)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/shows/%d", show.ID), moderator, nil)
	c.Assert(w.Code, qt.Equals, http.StatusNoContent)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/schedule/%d", item.ID), "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/shows/%d/schedule", show.ID), "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func TestTokenFollowsStoredAccount(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)
	admin := s.login("admin", "admin123")

	tests := []struct {
		name   string
		change func(path string) *httptest.ResponseRecorder
		want   int
	}{
		{
			name:   "deactivated",
			change: func(path string) *httptest.ResponseRecorder { return s.do(http.MethodPut, path, admin, `{"isActive":false}`) },
			want:   http.StatusUnauthorized,
		},
		{
			name:   "demoted",
			change: func(path string) *httptest.ResponseRecorder { return s.do(http.MethodPut, path, admin, `{"roles":["user"]}`) },
			want:   http.StatusForbidden,
		},
		{
			name:   "deleted",
			change: func(path string) *httptest.ResponseRecorder { return s.do(http.MethodDelete, path, admin, nil) },
			want:   http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			username := "staff-" + tt.name
			w := s.do(http.MethodPost, "/api/users", admin, map[string]interface{}{
				"username": username,
				"password": "pw",
				"roles":    []string{"admin"},
			})
			c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
			var created struct {
				ID uint `json:"id"`
			}
			decode(c, w, &created)

			token := s.login(username, "pw")
			w = s.do(http.MethodGet, "/api/users", token, nil)
			c.Assert(w.Code, qt.Equals, http.StatusOK)

			w = tt.change(fmt.Sprintf("/api/users/%d", created.ID))
			c.Assert(w.Code < 300, qt.IsTrue, qt.Commentf("body: %s", w.Body.String()))

			w = s.do(http.MethodGet, "/api/users", token, nil)
			c.Assert(w.Code, qt.Equals, tt.want, qt.Commentf("body: %s", w.Body.String()))
		})
	}
}

func TestStoreFailureIsOpaque(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(c)
	c.Assert(models.Close(s.db), qt.IsNil)

	w := s.do(http.MethodGet, "/api/shows", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusInternalServerError)
	var body errorBody
	decode(c, w, &body)
	c.Assert(body.Code, qt.Equals, http.StatusInternalServerError)
	c.Assert(body.Message, qt.Equals, "服务器内部错误")
	c.Assert(w.Body.String(), qt.Not(qt.Contains), "sql")
	c.Assert(w.Body.String(), qt.Not(qt.Contains), "closed")

	var logged *logrus.Entry
	for _, e := range s.logs.AllEntries() {
		if e.Message == "请求处理失败" {
			logged = e
		}
	}
	c.Assert(logged, qt.IsNotNil)
	c.Assert(logged.Level, qt.Equals, logrus.ErrorLevel)
	c.Assert(logged.Data[logrus.ErrorKey], qt.ErrorMatches, ".*closed.*")
	c.Assert(logged.Data["request_id"], qt.Not(qt.Equals), "")
}
