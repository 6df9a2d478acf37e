// Package farmtest is an in-memory double of the SisFarm backend. It
// implements the REST contract the client consumes so client code and
// tests can run against a real HTTP surface without a deployed
// backend.
package farmtest

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/unrolled/secure"
	"golang.org/x/crypto/bcrypt"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

// Server is the fixture backend. All state is in memory and guarded by
// one mutex; it is safe for concurrent requests.
type Server struct {
	logger *slog.Logger
	router chi.Router

	mu            sync.Mutex
	products      []api.Product
	categories    []api.Category
	presentations []api.Presentation
	customers     []api.Customer
	providers     []api.Provider
	sales         []api.Sale
	purchases     []api.Purchase
	users         []api.User
	roles         []api.Role
	passwords     map[string][]byte
	tokens        map[string]int64
	nextID        map[string]int64
	failures      map[string]int
}

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Seed populates the fixture with a small pharmacy data set when
	// true.
	Seed bool
}

// NewServer builds a fixture server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		logger:    logger,
		passwords: make(map[string][]byte),
		tokens:    make(map[string]int64),
		nextID:    make(map[string]int64),
		failures:  make(map[string]int),
	}
	if opts.Seed {
		s.seed()
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
	})
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(httprate.LimitByIP(300, time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/products", s.handleListProducts)
			r.Get("/products/paginate", s.handleListProductsPage)
			r.Post("/products", s.handleCreateProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)
			r.Post("/products/{id}/stock", s.handleAddStock)

			r.Get("/categories", s.handleListCategories)
			r.Get("/presentations", s.handleListPresentations)
			r.Get("/roles", s.handleListRoles)

			r.Get("/customers", s.handleListCustomersPage)
			r.Post("/customers", s.handleCreateCustomer)

			r.Get("/providers", s.handleListProviders)
			r.Get("/providers/paginate", s.handleListProvidersPage)
			r.Post("/providers", s.handleCreateProvider)
			r.Put("/providers/{id}", s.handleUpdateProvider)
			r.Delete("/providers/{id}", s.handleDeleteProvider)

			r.Post("/sale-products", s.handleCreateSale)
			r.Get("/sale-products", s.handleListSalesPage)
			r.Post("/purchase-products", s.handleCreatePurchase)
			r.Get("/purchase-products", s.handleListPurchasesPage)

			r.Get("/users", s.handleListUsersPage)
			r.Post("/users", s.handleCreateUser)
			r.Put("/users/{id}", s.handleUpdateUser)
			r.Put("/users/{id}/role/{roleID}", s.handleUpdateUserRole)
			r.Delete("/users/{id}", s.handleDeleteUser)
		})
	})
	return r
}

// requireAuth enforces the bearer token issued at login.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			fail(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		s.mu.Lock()
		_, ok := s.tokens[header[len(prefix):]]
		s.mu.Unlock()
		if !ok {
			fail(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailNext makes the next request of the given operation fail with a
// 500. Operations: "create-customer", "create-sale", "create-purchase",
// "list-products".
func (s *Server) FailNext(op string) {
	s.mu.Lock()
	s.failures[op]++
	s.mu.Unlock()
}

// shouldFail consumes one injected failure for op, if any.
func (s *Server) shouldFail(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[op] > 0 {
		s.failures[op]--
		return true
	}
	return false
}

// IssueToken registers a token valid for the given user without going
// through login. Test convenience.
func (s *Server) IssueToken(userID int64) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

func (s *Server) allocID(entity string) int64 {
	s.nextID[entity]++
	return s.nextID[entity]
}

// AddUser registers an operator with a bcrypt-hashed password.
func (s *Server) AddUser(username, password, fullName string, roleID int64) (api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return api.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user := api.User{
		ID:       s.allocID("user"),
		Username: username,
		FullName: fullName,
		RoleID:   roleID,
		Status:   true,
	}
	s.users = append(s.users, user)
	s.passwords[username] = hash
	return user, nil
}
