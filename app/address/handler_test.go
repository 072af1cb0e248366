package address

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelab/commerce-api/app/auth"
	"github.com/storelab/commerce-api/models"
)

// --- Mock address store ---

type MockAddressStore struct {
	ByUser  map[uint]*models.Address
	Deleted *models.Address
}

func newMockStore(addresses ...*models.Address) *MockAddressStore {
	store := &MockAddressStore{ByUser: map[uint]*models.Address{}}
	for _, a := range addresses {
		store.ByUser[a.UserID] = a
	}
	return store
}

func (m *MockAddressStore) Create(address *models.Address) error {
	if _, ok := m.ByUser[address.UserID]; ok {
		return models.ErrAddressExists
	}
	address.ID = uint(len(m.ByUser) + 1)
	m.ByUser[address.UserID] = address
	return nil
}

func (m *MockAddressStore) GetByUserID(userID uint) (*models.Address, error) {
	if a, ok := m.ByUser[userID]; ok {
		return a, nil
	}
	return nil, models.ErrAddressNotFound
}

func (m *MockAddressStore) Update(address *models.Address) error { return nil }

func (m *MockAddressStore) Delete(address *models.Address) error {
	delete(m.ByUser, address.UserID)
	m.Deleted = address
	return nil
}

func newRouter(store *MockAddressStore, caller *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetCurrentUser(c, caller)
		c.Next()
	})
	router.POST("/profile/address/", handler.HandleCreate)
	router.GET("/profile/address/", handler.HandleGet)
	router.PATCH("/profile/address/", handler.HandlePatch)
	router.DELETE("/profile/address/", handler.HandleDelete)
	return router
}

func jsonRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/profile/address/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const validAddress = `{
	"state": "SC",
	"city": "Florianópolis",
	"neighbourhood": "Jardim Atlantico",
	"street": "Luis Carlos Prestes",
	"zip_code": "88090250",
	"number": 172,
	"complement": "Casa"
}`

func TestHandleCreateAddress(t *testing.T) {
	caller := &models.User{ID: 1, Username: "user01"}

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, validAddress))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp models.Address
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "SC", resp.State)
		assert.Equal(t, "88090250", resp.ZipCode)
		assert.Equal(t, 172, resp.Number)
		assert.Equal(t, caller.ID, store.ByUser[caller.ID].UserID)
	})

	t.Run("Second address for the same user conflicts", func(t *testing.T) {
		store := newMockStore(&models.Address{ID: 1, UserID: caller.ID})
		router := newRouter(store, caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, validAddress))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"detail":"Address has already been added to this user."}`, rec.Body.String())
	})

	t.Run("Invalid state reports choice error", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, caller)

		body := strings.Replace(validAddress, `"SC"`, `"FFFDDA"`, 1)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "is not a valid choice.")
	})

	t.Run("Zip code must be eight digits", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, caller)

		body := strings.Replace(validAddress, `"88090250"`, `"880902"`, 1)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var errs map[string][]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errs))
		assert.NotEmpty(t, errs["zip_code"])
	})

	t.Run("Empty body reports required fields", func(t *testing.T) {
		store := newMockStore()
		router := newRouter(store, caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPost, `{}`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var errs map[string][]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errs))
		for _, field := range []string{"state", "city", "neighbourhood", "street", "zip_code", "number"} {
			assert.Contains(t, errs, field)
		}
		assert.NotContains(t, errs, "complement")
	})
}

func TestHandleAddressLifecycle(t *testing.T) {
	caller := &models.User{ID: 1, Username: "user01"}
	existing := &models.Address{
		ID: 1, State: "SC", City: "Florianópolis", Neighbourhood: "Jardim Atlantico",
		Street: "Luis Carlos Prestes", ZipCode: "88090250", Number: 172, UserID: 1,
	}

	t.Run("Get without address is not found", func(t *testing.T) {
		router := newRouter(newMockStore(), caller)

		req := httptest.NewRequest(http.MethodGet, "/profile/address/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
	})

	t.Run("Patch without address is not found", func(t *testing.T) {
		router := newRouter(newMockStore(), caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, `{"street":"Rua de update"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
	})

	t.Run("Patch updates supplied fields only", func(t *testing.T) {
		addr := *existing
		router := newRouter(newMockStore(&addr), caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, `{"street":"Rua de update"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Rua de update", addr.Street)
		assert.Equal(t, "SC", addr.State)
	})

	t.Run("Patch with invalid state is rejected", func(t *testing.T) {
		addr := *existing
		router := newRouter(newMockStore(&addr), caller)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPatch, `{"state":"FFFDDA"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "SC", addr.State)
	})

	t.Run("Delete removes the address", func(t *testing.T) {
		addr := *existing
		store := newMockStore(&addr)
		router := newRouter(store, caller)

		req := httptest.NewRequest(http.MethodDelete, "/profile/address/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotNil(t, store.Deleted)
	})
}
