package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

type captured struct {
	method, path, query string
	header              http.Header
	body                []byte
}

// newTestServer answers every request with status & body, recording the last request.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *captured, *int32) {
	t.Helper()
	last := new(captured)
	hits := new(int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		b, _ := io.ReadAll(r.Body)
		*last = captured{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone(), body: b}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, last, hits
}

func TestClient_Request(t *testing.T) {
	t.Run("headers & data unwrapping", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"id":7}}`)
		c := NewClient(srv.URL+"/api/v1", staticToken("tok"))

		data, err := c.Request(context.Background(), http.MethodPost, "/courses", map[string]string{"title": "Go"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7}`, string(data))
		assert.Equal(t, http.MethodPost, last.method)
		assert.Equal(t, "/api/v1/courses", last.path)
		assert.Equal(t, "Bearer tok", last.header.Get("Authorization"))
		assert.Equal(t, "application/json", last.header.Get("Content-Type"))
		assert.NotEmpty(t, last.header.Get("X-Request-ID"))
		assert.JSONEq(t, `{"title":"Go"}`, string(last.body))
	})

	t.Run("anonymous", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":null}`)
		c := NewClient(srv.URL, staticToken(""))

		data, err := c.Request(context.Background(), http.MethodGet, "/roles", nil)
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
		assert.Empty(t, last.header.Get("Authorization"))
	})

	t.Run("no envelope", func(t *testing.T) {
		srv, _, _ := newTestServer(t, http.StatusOK, `{"items":[]}`)
		c := NewClient(srv.URL, nil)

		data, err := c.Request(context.Background(), http.MethodGet, "/roles", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(data))
	})
}

func TestClient_RequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error object", status: http.StatusConflict, body: `{"error":{"message":"Student already enrolled"}}`, wantMsg: "Student already enrolled"},
		{name: "error string", status: http.StatusBadRequest, body: `{"error":"bad input"}`, wantMsg: "bad input"},
		{name: "error string over message", status: http.StatusBadRequest, body: `{"error":"bad input","message":"ignored"}`, wantMsg: "bad input"},
		{name: "message", status: http.StatusForbidden, body: `{"message":"forbidden"}`, wantMsg: "forbidden"},
		{name: "empty error", status: http.StatusBadRequest, body: `{"error":{}}`, wantMsg: core.DefaultRequestErrorMessage},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: core.DefaultRequestErrorMessage},
		{name: "empty body", status: http.StatusInternalServerError, body: ``, wantMsg: core.DefaultRequestErrorMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _, _ := newTestServer(t, tc.status, tc.body)
			c := NewClient(srv.URL, nil)

			_, err := c.Request(context.Background(), http.MethodGet, "/x", nil)
			require.Error(t, err)
			rErr, ok := err.(*core.RequestError)
			require.True(t, ok, "%T", err)
			assert.Equal(t, tc.status, rErr.Status)
			assert.Equal(t, tc.wantMsg, rErr.Message)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c := NewClient(url, nil)

		_, err := c.Request(context.Background(), http.MethodGet, "/me", nil)
		require.Error(t, err)
		rErr, ok := err.(*core.RequestError)
		require.True(t, ok, "%T", err)
		assert.Equal(t, 0, rErr.Status)
		assert.NotEmpty(t, rErr.Message)
	})

	t.Run("unauthorized hook", func(t *testing.T) {
		srv, _, _ := newTestServer(t, http.StatusUnauthorized, `{"error":{"message":"invalid token"}}`)
		c := NewClient(srv.URL, staticToken("expired"))
		var called int
		c.OnUnauthorized(func(context.Context) { called++ })

		_, err := c.Request(context.Background(), http.MethodGet, "/me", nil)
		require.Error(t, err)
		assert.True(t, core.IsUnauthorized(err))
		assert.Equal(t, 1, called)
	})
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []user.User
	}{
		{name: "items", data: `{"items":[{"id":1,"email":"a@b.c","full_name":"A"}],"count":1}`, want: []user.User{{ID: 1, Email: "a@b.c", FullName: "A"}}},
		{name: "bare array", data: `[{"id":2,"email":"d@e.f","full_name":"D"}]`, want: []user.User{{ID: 2, Email: "d@e.f", FullName: "D"}}},
		{name: "missing items", data: `{"count":0}`, want: []user.User{}},
		{name: "null items", data: `{"items":null}`, want: []user.User{}},
		{name: "null", data: `null`, want: []user.User{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []user.User
			require.NoError(t, decodeList(json.RawMessage(tc.data), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClient_Endpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("login", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"access_token":"abc"}}`)
		c := NewClient(srv.URL, nil)

		token, err := c.Login(ctx, user.LoginForm{Email: " Admin@AITU.edu.kz ", Password: "admin123"})
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
		assert.Equal(t, "/auth/login", last.path)
		assert.JSONEq(t, `{"email":"admin@aitu.edu.kz","password":"admin123"}`, string(last.body))
	})

	t.Run("login without token", func(t *testing.T) {
		srv, _, _ := newTestServer(t, http.StatusOK, `{"data":{}}`)
		c := NewClient(srv.URL, nil)

		_, err := c.Login(ctx, user.LoginForm{Email: "a@b.cd", Password: "x"})
		assert.Error(t, err)
	})

	t.Run("me", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK,
			`{"data":{"id":2,"email":"teacher@aitu.edu.kz","full_name":"Teacher","role":"teacher","role_id":2}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		usr, err := c.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/me", last.path)
		assert.True(t, usr.IsTeacher())
		assert.Equal(t, "Teacher", usr.FullName)
	})

	t.Run("me without profile", func(t *testing.T) {
		for _, body := range []string{`{"data":null}`, `{"data":{}}`, `{"data":{"email":"ghost@aitu.edu.kz"}}`} {
			srv, _, _ := newTestServer(t, http.StatusOK, body)
			c := NewClient(srv.URL, staticToken("tok"))

			usr, err := c.Me(ctx)
			assert.Error(t, err, body)
			assert.Equal(t, user.User{}, usr, body)
		}
	})

	t.Run("enroll blocked without student", func(t *testing.T) {
		srv, _, hits := newTestServer(t, http.StatusOK, `{"data":{}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		err := c.Enroll(ctx, 3, course.EnrollForm{})
		require.Error(t, err)
		assert.Equal(t, course.ErrNoStudentSelected.Error(), err.Error())
		assert.Zero(t, atomic.LoadInt32(hits))
	})

	t.Run("enroll", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"message":"enrolled"}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		require.NoError(t, c.Enroll(ctx, 3, course.EnrollForm{StudentID: 5}))
		assert.Equal(t, "/courses/3/enroll", last.path)
		assert.JSONEq(t, `{"student_id":5}`, string(last.body))
	})

	t.Run("enroll conflict", func(t *testing.T) {
		srv, _, _ := newTestServer(t, http.StatusConflict, `{"error":{"message":"Student already enrolled"}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		err := c.Enroll(ctx, 3, course.EnrollForm{StudentID: 5})
		require.Error(t, err)
		assert.Equal(t, "Student already enrolled", err.Error())
	})

	t.Run("mark attendance", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"id":1}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		form := course.NewMarkAttendance(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
		form.StudentID = 5
		require.NoError(t, c.MarkAttendance(ctx, 3, form))
		assert.Equal(t, "/courses/3/attendance", last.path)
		assert.JSONEq(t,
			`{"student_id":5,"lesson_date":"2026-10-17T00:00:00Z","status":"present","note":""}`,
			string(last.body))
	})

	t.Run("my attendance filtered", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK,
			`{"data":{"items":[{"id":1,"course_id":3,"student_id":5,"lesson_date":"2026-10-17T00:00:00Z","status":"late","note":""}],"count":1}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		records, err := c.MyAttendance(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "/my/attendance", last.path)
		assert.Equal(t, "course_id=3", last.query)
		require.Len(t, records, 1)
		assert.Equal(t, course.StatusLate, records[0].Status)
	})

	t.Run("my attendance unfiltered", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"items":[],"count":0}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		records, err := c.MyAttendance(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, last.query)
		assert.Empty(t, records)
	})

	t.Run("students in course bare array", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":[{"id":5,"email":"s@x.io","full_name":"S","role_id":3}]}`)
		c := NewClient(srv.URL, staticToken("tok"))

		students, err := c.StudentsInCourse(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "/courses/3/students", last.path)
		require.Len(t, students, 1)
		assert.True(t, students[0].IsStudent())
	})

	t.Run("update role", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusOK, `{"data":{"message":"updated"}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		require.NoError(t, c.UpdateUserRole(ctx, 4, user.ChangeRole{Role: "Teacher"}))
		assert.Equal(t, http.MethodPatch, last.method)
		assert.Equal(t, "/users/4/role", last.path)
		assert.JSONEq(t, `{"role":"teacher"}`, string(last.body))
	})

	t.Run("create user invalid", func(t *testing.T) {
		srv, _, hits := newTestServer(t, http.StatusOK, `{"data":{"id":9}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		_, err := c.CreateUser(ctx, user.NewUser{FullName: "Ann", Email: "ann@x.io", Password: "secretpass", RoleID: 7})
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
		assert.Zero(t, atomic.LoadInt32(hits))
	})

	t.Run("create course", func(t *testing.T) {
		srv, last, _ := newTestServer(t, http.StatusCreated, `{"data":{"id":11}}`)
		c := NewClient(srv.URL, staticToken("tok"))

		id, err := c.CreateCourse(ctx, course.NewCourse{Title: " Distributed Systems "})
		require.NoError(t, err)
		assert.Equal(t, 11, id)
		assert.JSONEq(t, `{"title":"Distributed Systems"}`, string(last.body))
	})
}
