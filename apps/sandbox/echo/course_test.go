package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core/course"
)

func listCourses(t *testing.T, app Server, path, token string) []course.Course {
	t.Helper()
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Items []course.Course `json:"items"`
			Count int             `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, resp.Data.Count)
	return resp.Data.Items
}

func Test_courseApi(t *testing.T) {
	app := setup(t)
	adminToken := getToken(t, adminUser)
	teacherToken := getToken(t, teacherUser)
	studentToken := getToken(t, studentUser)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "create as student",
			method:   http.MethodPost,
			path:     "/api/v1/courses",
			token:    studentToken,
			body:     []byte(`{"title": "Go"}`),
			wantCode: http.StatusForbidden,
			wantData: errBody("forbidden"),
		},
		{
			name:     "create without title",
			method:   http.MethodPost,
			path:     "/api/v1/courses",
			token:    teacherToken,
			body:     []byte(`{"title": "  "}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create for caller",
			method:   http.MethodPost,
			path:     "/api/v1/courses",
			token:    teacherToken,
			body:     []byte(`{"title": "Algorithms"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"data": {"id": 1}}`),
		},
		{
			name:     "create for a teacher",
			method:   http.MethodPost,
			path:     "/api/v1/courses",
			token:    adminToken,
			body:     []byte(`{"title": "Databases", "teacher_id": 1}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"data": {"id": 2}}`),
		},
		{
			name:     "enroll with bad course id",
			method:   http.MethodPost,
			path:     "/api/v1/courses/0/enroll",
			token:    teacherToken,
			body:     []byte(`{"student_id": 3}`),
			wantCode: http.StatusBadRequest,
			wantData: errBody("invalid course id"),
		},
		{
			name:     "enroll nobody",
			method:   http.MethodPost,
			path:     "/api/v1/courses/1/enroll",
			token:    teacherToken,
			body:     []byte(`{"student_id": 0}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": {"message": "select a student first", "fields": {"student_id": "student_id must be selected"}}}`),
		},
		{
			name:     "enroll in unknown course",
			method:   http.MethodPost,
			path:     "/api/v1/courses/42/enroll",
			token:    teacherToken,
			body:     []byte(`{"student_id": 3}`),
			wantCode: http.StatusNotFound,
			wantData: errBody(course.ErrNotFound.Error()),
		},
		{
			name:     "available before enrolling",
			method:   http.MethodGet,
			path:     "/api/v1/courses/1/available-students",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"data": {"items": [{"id": 3, "full_name": "Student User", "email": "student@aitu.edu.kz"}], "count": 1}}`),
		},
		{
			name:     "enroll",
			method:   http.MethodPost,
			path:     "/api/v1/courses/1/enroll",
			token:    teacherToken,
			body:     []byte(`{"student_id": 3}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"data": {"status": "enrolled"}}`),
		},
		{
			name:     "enroll again",
			method:   http.MethodPost,
			path:     "/api/v1/courses/1/enroll",
			token:    adminToken,
			body:     []byte(`{"student_id": 3}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"data": {"status": "enrolled"}}`),
		},
		{
			name:     "students",
			method:   http.MethodGet,
			path:     "/api/v1/courses/1/students",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"data": {"items": [{"id": 3, "full_name": "Student User", "email": "student@aitu.edu.kz"}], "count": 1}}`),
		},
		{
			name:     "available after enrolling",
			method:   http.MethodGet,
			path:     "/api/v1/courses/1/available-students",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"data": {"items": [], "count": 0}}`),
		},
		{
			name:     "students as student",
			method:   http.MethodGet,
			path:     "/api/v1/courses/1/students",
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: errBody("forbidden"),
		},
	})

	tests := []struct {
		name    string
		path    string
		token   string
		wantIDs []int
	}{
		{"all courses", "/api/v1/courses", studentToken, []int{2, 1}},
		{"student courses", "/api/v1/my/courses", studentToken, []int{1}},
		{"teacher courses", "/api/v1/my/courses", teacherToken, []int{1}},
		{"admin courses", "/api/v1/my/courses", adminToken, []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := listCourses(t, app, tt.path, tt.token)
			ids := make([]int, 0, len(courses))
			for _, c := range courses {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	crs, err := app.courses.GetCourseByID(1)
	require.NoError(t, err)
	assert.Equal(t, teacherUser.ID, crs.TeacherID)
	assert.False(t, crs.CreatedAt.IsZero())
}
