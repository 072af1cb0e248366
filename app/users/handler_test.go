package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelab/commerce-api/app/auth"
	"github.com/storelab/commerce-api/models"
)

// --- Mock user store ---

type MockUserStore struct {
	Users     map[uint]*models.User
	CreateErr error
	UpdateErr error
	Created   *models.User
	Deleted   *models.User
	nextID    uint
}

func newMockStore(users ...*models.User) *MockUserStore {
	store := &MockUserStore{Users: map[uint]*models.User{}, nextID: 100}
	for _, u := range users {
		store.Users[u.ID] = u
	}
	return store
}

func (m *MockUserStore) Create(user *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, existing := range m.Users {
		if existing.Username == user.Username {
			return models.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.Users[user.ID] = user
	m.Created = user
	return nil
}

func (m *MockUserStore) GetByID(id uint) (*models.User, error) {
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, models.ErrUserNotFound
}

func (m *MockUserStore) List() ([]models.User, error) {
	var users []models.User
	for _, u := range m.Users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *MockUserStore) Update(user *models.User) error {
	return m.UpdateErr
}

func (m *MockUserStore) Delete(user *models.User) error {
	delete(m.Users, user.ID)
	m.Deleted = user
	return nil
}

// actAs injects the caller the way the auth middleware would.
func actAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			auth.SetCurrentUser(c, user)
		}
		c.Next()
	}
}

func newRouter(store *MockUserStore, caller *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store)

	router := gin.New()
	router.Use(actAs(caller))
	router.POST("/register/", handler.HandleRegister)
	router.GET("/users/", handler.HandleList)
	router.GET("/users/:id/", handler.HandleGet)
	router.PATCH("/users/:id/", handler.HandlePatch)
	router.DELETE("/users/:id/", handler.HandleDelete)
	router.GET("/profile/", handler.HandleProfile)
	router.PATCH("/profile/", handler.HandleProfilePatch)
	router.DELETE("/profile/", handler.HandleProfileDelete)
	return router
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const registerBody = `{
	"first_name": "George",
	"last_name": "Clooney",
	"username": "george_user",
	"email": "george@example.com",
	"password": "12345"
}`

func TestHandleRegister(t *testing.T) {
	t.Run("Success creates an unprivileged user", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/register/", registerBody))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"success":"User created successfully."}`, rec.Body.String())

		require.NotNil(t, store.Created)
		assert.False(t, store.Created.IsSuperuser)
		assert.False(t, store.Created.IsStaff)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.Created.Password), []byte("12345")))
	})

	t.Run("Missing fields report required, blank fields report blank", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/register/", `{"username":""}`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var errs map[string][]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errs))
		assert.Equal(t, []string{"This field may not be blank."}, errs["username"])
		assert.Equal(t, []string{"This field is required."}, errs["email"])
		assert.Equal(t, []string{"This field is required."}, errs["password"])
	})

	t.Run("Duplicate username", func(t *testing.T) {
		existing := &models.User{ID: 1, Username: "george_user", Email: "other@example.com"}
		router := newRouter(newMockStore(existing), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/register/", registerBody))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), msgUsernameTaken)
	})
}

func TestHandleGetUser(t *testing.T) {
	owner := &models.User{ID: 1, Username: "owner"}
	admin := &models.User{ID: 2, Username: "admin", IsSuperuser: true}
	stranger := &models.User{ID: 3, Username: "stranger"}

	testCases := []struct {
		name               string
		caller             *models.User
		target             string
		expectedStatusCode int
	}{
		{"Owner reads own record", owner, "/users/1/", http.StatusOK},
		{"Admin reads any record", admin, "/users/1/", http.StatusOK},
		{"Stranger reading existing record is forbidden", stranger, "/users/1/", http.StatusForbidden},
		{"Stranger probing nonexistent record sees not found", stranger, "/users/999/", http.StatusNotFound},
		{"Admin on nonexistent record sees not found", admin, "/users/999/", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockStore(owner, admin, stranger)
			router := newRouter(store, tc.caller)

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedStatusCode == http.StatusNotFound {
				assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
			}
		})
	}
}

func TestHandlePatchUser(t *testing.T) {
	t.Run("Owner updates and password is rehashed", func(t *testing.T) {
		owner := &models.User{ID: 1, Username: "owner", Password: "old-hash"}
		store := newMockStore(owner)
		router := newRouter(store, owner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/users/1/", `{"first_name":"New","password":"fresh"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "New", owner.FirstName)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte("fresh")))
	})

	t.Run("Role flags cannot be escalated through patch", func(t *testing.T) {
		owner := &models.User{ID: 1, Username: "owner"}
		store := newMockStore(owner)
		router := newRouter(store, owner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/users/1/", `{"is_superuser":true}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, owner.IsSuperuser)
	})

	t.Run("Non-owner is forbidden", func(t *testing.T) {
		owner := &models.User{ID: 1, Username: "owner"}
		stranger := &models.User{ID: 3, Username: "stranger"}
		router := newRouter(newMockStore(owner, stranger), stranger)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/users/1/", `{"first_name":"Hacked"}`))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, owner.FirstName)
	})
}

func TestHandleDeleteUser(t *testing.T) {
	owner := &models.User{ID: 1, Username: "owner"}
	admin := &models.User{ID: 2, Username: "admin", IsSuperuser: true}
	store := newMockStore(owner, admin)
	router := newRouter(store, admin)

	req := httptest.NewRequest(http.MethodDelete, "/users/1/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, owner, store.Deleted)
}

func TestHandleProfile(t *testing.T) {
	caller := &models.User{ID: 5, Username: "me", Email: "me@example.com"}
	store := newMockStore(caller)
	router := newRouter(store, caller)

	t.Run("Get returns the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.User
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, uint(5), resp.ID)
		assert.Equal(t, "me", resp.Username)
	})

	t.Run("Password never appears in responses", func(t *testing.T) {
		caller.Password = "secret-hash"
		req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.NotContains(t, rec.Body.String(), "secret-hash")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("Delete removes the account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/profile/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, caller, store.Deleted)
	})
}
