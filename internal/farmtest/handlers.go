package farmtest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, ok := s.passwords[req.Username]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	var user api.User
	for _, u := range s.users {
		if u.Username == req.Username {
			user = u
			break
		}
	}
	token := uuid.NewString()
	s.tokens[token] = user.ID
	respond(w, http.StatusOK, api.LoginResponse{Token: token, User: user})
}

// ----- products -----

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if s.shouldFail("list-products") {
		fail(w, http.StatusInternalServerError, "injected failure")
		return
	}
	s.mu.Lock()
	out := make([]api.Product, len(s.products))
	copy(out, s.products)
	s.mu.Unlock()
	respond(w, http.StatusOK, out)
}

func (s *Server) handleListProductsPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.products, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProductRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	product := api.Product{
		ID:             s.allocID("product"),
		Code:           req.Code,
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		PresentationID: req.PresentationID,
		Unit:           req.Unit,
		Price:          req.Price,
		Discount:       req.Discount,
		Stock:          req.Stock,
		StockMin:       req.StockMin,
		Description:    req.Description,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	s.products = append(s.products, product)
	s.mu.Unlock()
	respond(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req api.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := &s.products[i]
			p.Name = req.Name
			p.CategoryID = req.CategoryID
			p.PresentationID = req.PresentationID
			p.Unit = req.Unit
			p.Price = req.Price
			p.Discount = req.Discount
			p.StockMin = req.StockMin
			p.Description = req.Description
			respond(w, http.StatusOK, *p)
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			respond(w, http.StatusOK, map[string]int64{"id": id})
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
}

func (s *Server) handleAddStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &req); err != nil || req.Quantity <= 0 {
		fail(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Stock += req.Quantity
			respond(w, http.StatusOK, s.products[i])
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
}

// ----- reference collections -----

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.Unlock()
	respond(w, http.StatusOK, out)
}

func (s *Server) handleListPresentations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.Presentation, len(s.presentations))
	copy(out, s.presentations)
	s.mu.Unlock()
	respond(w, http.StatusOK, out)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.Role, len(s.roles))
	copy(out, s.roles)
	s.mu.Unlock()
	respond(w, http.StatusOK, out)
}

// ----- customers -----

func (s *Server) handleListCustomersPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.customers, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	if s.shouldFail("create-customer") {
		fail(w, http.StatusInternalServerError, "injected failure")
		return
	}
	var req api.CreateCustomerRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.FullName == "" {
		fail(w, http.StatusBadRequest, "full_name is required")
		return
	}
	s.mu.Lock()
	customer := api.Customer{
		ID:       s.allocID("customer"),
		FullName: req.FullName,
		CI:       req.CI,
		Address:  req.Address,
		Phone:    req.Phone,
	}
	s.customers = append(s.customers, customer)
	s.mu.Unlock()
	respond(w, http.StatusCreated, customer)
}

// ----- providers -----

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.Provider, len(s.providers))
	copy(out, s.providers)
	s.mu.Unlock()
	respond(w, http.StatusOK, out)
}

func (s *Server) handleListProvidersPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.providers, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCreateProvider(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProviderRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	provider := api.Provider{
		ID:      s.allocID("provider"),
		Name:    req.Name,
		NIT:     req.NIT,
		Phone:   req.Phone,
		Address: req.Address,
	}
	s.providers = append(s.providers, provider)
	s.mu.Unlock()
	respond(w, http.StatusCreated, provider)
}

func (s *Server) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req api.UpdateProviderRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.providers {
		if s.providers[i].ID == id {
			s.providers[i].Name = req.Name
			s.providers[i].NIT = req.NIT
			s.providers[i].Phone = req.Phone
			s.providers[i].Address = req.Address
			respond(w, http.StatusOK, s.providers[i])
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("provider %d not found", id))
}

func (s *Server) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.providers {
		if s.providers[i].ID == id {
			s.providers = append(s.providers[:i], s.providers[i+1:]...)
			respond(w, http.StatusOK, map[string]int64{"id": id})
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("provider %d not found", id))
}

// ----- transactions -----

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	if s.shouldFail("create-sale") {
		fail(w, http.StatusInternalServerError, "injected failure")
		return
	}
	var req api.CreateSaleRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	if len(req.Items) == 0 {
		fail(w, http.StatusBadRequest, "sale needs at least one item")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customerKnown := false
	for _, c := range s.customers {
		if c.ID == req.CustomerID {
			customerKnown = true
			break
		}
	}
	if !customerKnown {
		fail(w, http.StatusUnprocessableEntity, fmt.Sprintf("customer %d not found", req.CustomerID))
		return
	}

	total := 0.0
	for _, item := range req.Items {
		found := false
		for i := range s.products {
			if s.products[i].ID == item.ProductID {
				if s.products[i].Stock < item.Quantity {
					fail(w, http.StatusUnprocessableEntity, fmt.Sprintf("insufficient stock for product %d", item.ProductID))
					return
				}
				total += float64(item.Quantity) * s.products[i].Price
				found = true
				break
			}
		}
		if !found {
			fail(w, http.StatusUnprocessableEntity, fmt.Sprintf("product %d not found", item.ProductID))
			return
		}
	}
	for _, item := range req.Items {
		for i := range s.products {
			if s.products[i].ID == item.ProductID {
				s.products[i].Stock -= item.Quantity
			}
		}
	}

	sale := api.Sale{
		ID:          s.allocID("sale"),
		CustomerID:  req.CustomerID,
		Total:       total,
		PaymentType: req.PaymentType,
		Status:      "completada",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Items:       req.Items,
	}
	s.sales = append(s.sales, sale)
	respond(w, http.StatusCreated, sale)
}

func (s *Server) handleListSalesPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.sales, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	if s.shouldFail("create-purchase") {
		fail(w, http.StatusInternalServerError, "injected failure")
		return
	}
	var req api.CreatePurchaseRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	if len(req.Items) == 0 {
		fail(w, http.StatusBadRequest, "purchase needs at least one item")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	providerKnown := false
	for _, p := range s.providers {
		if p.ID == req.ProviderID {
			providerKnown = true
			break
		}
	}
	if !providerKnown {
		fail(w, http.StatusUnprocessableEntity, fmt.Sprintf("provider %d not found", req.ProviderID))
		return
	}

	purchaseID := s.allocID("purchase")
	total := 0.0
	items := make([]api.PurchaseItem, len(req.Items))
	for i, item := range req.Items {
		subtotal := float64(item.Quantity) * item.UnitPrice
		total += subtotal
		items[i] = api.PurchaseItem{
			ID:             s.allocID("purchase-item"),
			PurchaseID:     purchaseID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Subtotal:       subtotal,
			ExpirationDate: item.ExpirationDate,
			BatchCode:      item.BatchCode,
		}
		for j := range s.products {
			if s.products[j].ID == item.ProductID {
				s.products[j].Stock += item.Quantity
			}
		}
	}

	purchase := api.Purchase{
		ID:          purchaseID,
		ProviderID:  req.ProviderID,
		Total:       total,
		PaymentType: req.PaymentType,
		Status:      "completada",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Items:       items,
	}
	s.purchases = append(s.purchases, purchase)
	respond(w, http.StatusCreated, purchase)
}

func (s *Server) handleListPurchasesPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.purchases, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

// ----- users -----

func (s *Server) handleListUsersPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	s.mu.Lock()
	result := paginate(s.users, page, pageSize)
	s.mu.Unlock()
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordHash), bcrypt.MinCost)
	if err != nil {
		fail(w, http.StatusInternalServerError, "hash password")
		return
	}
	s.mu.Lock()
	user := api.User{
		ID:       s.allocID("user"),
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		RoleID:   req.RoleID,
		Status:   true,
	}
	s.users = append(s.users, user)
	s.passwords[req.Username] = hash
	s.mu.Unlock()
	respond(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req api.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			if req.FullName != nil {
				s.users[i].FullName = *req.FullName
			}
			if req.Phone != nil {
				s.users[i].Phone = *req.Phone
			}
			if req.Address != nil {
				s.users[i].Address = *req.Address
			}
			if req.Status != nil {
				s.users[i].Status = *req.Status
			}
			respond(w, http.StatusOK, s.users[i])
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
}

func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	roleID, err := idParam(r, "roleID")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid role id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].RoleID = roleID
			respond(w, http.StatusOK, s.users[i])
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			delete(s.passwords, s.users[i].Username)
			s.users = append(s.users[:i], s.users[i+1:]...)
			respond(w, http.StatusOK, map[string]int64{"id": id})
			return
		}
	}
	fail(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
}
