// Package testutil runs the sandbox API for tests of its clients.
package testutil

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	echoapi "github.com/trezcool/masomo-lms/apps/sandbox/echo"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/api"
	"github.com/trezcool/masomo-lms/storage/credential"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
)

// Sandbox is a seeded in-memory API listening on a local port until the test ends.
type Sandbox struct {
	URL     string // API base URL, ending in /api/v1
	Users   user.Repository
	Courses course.Repository
}

func StartSandbox(t *testing.T) *Sandbox {
	t.Helper()
	db := inmemdb.New(inmemdb.WithHashCost(bcrypt.MinCost))
	sb := &Sandbox{
		Users:   inmemdb.NewUserRepository(db),
		Courses: inmemdb.NewCourseRepository(db),
	}
	if err := inmemdb.Seed(sb.Users, inmemdb.DefaultSeedUsers...); err != nil {
		t.Fatalf("StartSandbox() failed to seed: %v", err)
	}

	srv := httptest.NewServer(echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		SecretKey:      "sandbox-test-secret",
		UserRepo:       sb.Users,
		CourseRepo:     sb.Courses,
	}))
	t.Cleanup(srv.Close)
	sb.URL = srv.URL + "/api/v1"
	return sb
}

// Session is an API client wired to a gate the way the lms command wires them.
type Session struct {
	Client *api.Client
	Gate   *session.Gate
	Store  *credential.InmemStore
}

func (sb *Sandbox) NewSession() *Session {
	store := credential.NewInmemStore()
	client := api.NewClient(sb.URL, store)
	gate := session.NewGate(client, store, nil)
	client.OnUnauthorized(gate.Expire)
	return &Session{Client: client, Gate: gate, Store: store}
}

// CreateUser adds an account directly to the sandbox store.
func (sb *Sandbox) CreateUser(t *testing.T, name, email, pwd string, role user.Role) user.User {
	t.Helper()
	usr, err := sb.Users.CreateUser(user.User{FullName: name, Email: email, RoleID: role.ID()}, pwd)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
