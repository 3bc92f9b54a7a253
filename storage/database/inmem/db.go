// Package inmemdb keeps the sandbox data in process memory.
package inmemdb

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type (
	userRow struct {
		user.User
		PasswordHash []byte
	}

	userTable struct {
		mutex sync.RWMutex
		pk    int
		table map[int]*userRow
	}

	courseTable struct {
		mutex       sync.RWMutex
		coursePK    int
		courses     map[int]*course.Course
		enrollments map[course.Enrollment]time.Time
		attPK       int
		attendance  map[int]*course.AttendanceRecord
	}

	DB struct {
		user     *userTable
		course   *courseTable
		hashCost int
		now      func() time.Time
	}

	Option func(*DB)
)

// WithHashCost sets the bcrypt cost of stored passwords.
func WithHashCost(cost int) Option {
	return func(db *DB) { db.hashCost = cost }
}

// WithClock replaces time.Now for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

func New(opts ...Option) *DB {
	db := &DB{
		user:     &userTable{table: make(map[int]*userRow)},
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		course: &courseTable{
			courses:     make(map[int]*course.Course),
			enrollments: make(map[course.Enrollment]time.Time),
			attendance:  make(map[int]*course.AttendanceRecord),
		},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// SeedUser is an account created by Seed.
type SeedUser struct {
	FullName string
	Email    string
	Password string
	Role     user.Role
}

// DefaultSeedUsers is one account per role.
var DefaultSeedUsers = []SeedUser{
	{"Admin User", "admin@aitu.edu.kz", "admin123", user.RoleAdmin},
	{"Teacher User", "teacher@aitu.edu.kz", "teacher123", user.RoleTeacher},
	{"Student User", "student@aitu.edu.kz", "student123", user.RoleStudent},
}

// Seed creates the given accounts, skipping emails already taken.
func Seed(repo user.Repository, seeds ...SeedUser) error {
	for _, s := range seeds {
		_, err := repo.CreateUser(user.User{FullName: s.FullName, Email: s.Email, RoleID: s.Role.ID()}, s.Password)
		if err != nil && err != user.ErrEmailExists {
			return err
		}
	}
	return nil
}
