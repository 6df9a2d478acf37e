package farmtest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateInvariants(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantData []int
		hasNext  bool
		hasPrev  bool
		pages    int
	}{
		{"first of three", 1, 2, []int{1, 2}, true, false, 3},
		{"middle", 2, 2, []int{3, 4}, true, true, 3},
		{"partial last", 3, 2, []int{5}, false, true, 3},
		{"past the end", 9, 2, []int{}, false, true, 3},
		{"everything on one page", 1, 10, []int{1, 2, 3, 4, 5}, false, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginate(items, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantData, got.Data)
			assert.Equal(t, tt.page, got.Pagination.CurrentPage)
			assert.Equal(t, tt.hasNext, got.Pagination.HasNext)
			assert.Equal(t, tt.hasPrev, got.Pagination.HasPrevious)
			assert.Equal(t, 5, got.Pagination.TotalItems)
			assert.Equal(t, tt.pages, got.Pagination.TotalPages)
		})
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	got := paginate([]int{}, 1, 10)
	assert.Empty(t, got.Data)
	assert.Equal(t, 0, got.Pagination.TotalItems)
	assert.Equal(t, 0, got.Pagination.TotalPages)
	assert.False(t, got.Pagination.HasNext)
	assert.False(t, got.Pagination.HasPrevious)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesUsableToken(t *testing.T) {
	s := NewServer(Options{Seed: true})

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)

	rec = doJSON(t, s, http.MethodGet, "/api/products", env.Data.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	s := NewServer(Options{Seed: true})

	rec := doJSON(t, s, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFailNextIsConsumedOnce(t *testing.T) {
	s := NewServer(Options{Seed: true})
	token := s.IssueToken(1)
	s.FailNext("list-products")

	rec := doJSON(t, s, http.MethodGet, "/api/products", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/products", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddUserCanLogin(t *testing.T) {
	s := NewServer(Options{})
	_, err := s.AddUser("vendedor", "secreto1", "María López", 2)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "vendedor",
		"password": "secreto1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "vendedor",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
