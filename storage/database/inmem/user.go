package inmemdb

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-lms/core/user"
)

type userRepository struct {
	db       *userTable
	hashCost int
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user, hashCost: db.hashCost}
}

// query returns users newest first.
func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		users = append(users, row.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users
}

func (repo *userRepository) findByEmail(email string) (*userRow, bool) {
	for _, row := range repo.db.table {
		if row.Email == email {
			return row, true
		}
	}
	return nil, false
}

func (repo *userRepository) CreateUser(usr user.User, password string) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), repo.hashCost)
	if err != nil {
		return user.User{}, errors.Wrap(err, "hashing password")
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	if _, exists := repo.findByEmail(usr.Email); exists {
		return user.User{}, user.ErrEmailExists
	}
	usr.Role = "" // only role_id is stored
	repo.db.pk++
	usr.ID = repo.db.pk
	repo.db.table[usr.ID] = &userRow{User: usr, PasswordHash: hash}
	return usr, nil
}

func (repo *userRepository) Authenticate(email, password string) (user.User, error) {
	repo.db.mutex.RLock()
	row, ok := repo.findByEmail(strings.ToLower(strings.TrimSpace(email)))
	repo.db.mutex.RUnlock()

	if !ok {
		return user.User{}, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(password)); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}
	return row.User, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.User, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) SetUserRole(id int, role user.Role) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	row.RoleID = role.ID()
	return row.User, nil
}
