package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
)

const testSecret = "test-secret"

type testApp struct {
	Server
	users   user.Repository
	courses course.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()
	db := inmemdb.New(inmemdb.WithHashCost(bcrypt.MinCost))
	app := &testApp{
		users:   inmemdb.NewUserRepository(db),
		courses: inmemdb.NewCourseRepository(db),
	}
	if err := inmemdb.Seed(app.users, inmemdb.DefaultSeedUsers...); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	app.Server = NewServer(&Options{
		DisableReqLogs: true,
		SecretKey:      testSecret,
		UserRepo:       app.users,
		CourseRepo:     app.courses,
	})
	return app
}

// seeded users
var (
	adminUser   = user.User{ID: 1, Email: "admin@aitu.edu.kz", FullName: "Admin User", RoleID: user.RoleIDAdmin}
	teacherUser = user.User{ID: 2, Email: "teacher@aitu.edu.kz", FullName: "Teacher User", RoleID: user.RoleIDTeacher}
	studentUser = user.User{ID: 3, Email: "student@aitu.edu.kz", FullName: "Student User", RoleID: user.RoleIDStudent}
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := newTokenizer(testSecret, time.Hour).GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func errBody(msg string) []byte {
	data, _ := json.Marshal(map[string]interface{}{"error": map[string]string{"message": msg}})
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
