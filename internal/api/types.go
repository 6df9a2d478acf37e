// Package api implements the typed REST client for the SisFarm backend.
package api

// Product is a catalog entry. Price and stock are authoritative on the
// server; the client never mutates a cached Product in place.
type Product struct {
	ID             int64   `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	CategoryID     int64   `json:"category_id"`
	PresentationID int64   `json:"presentation_id"`
	Unit           string  `json:"unit"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"descuento"`
	Stock          int     `json:"stock"`
	StockMin       int     `json:"stock_min"`
	Description    string  `json:"description,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// Category groups products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Presentation is the physical form a product is sold in.
type Presentation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer is a sale counterparty.
type Customer struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	CI       string `json:"ci"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Provider is a purchase counterparty.
type Provider struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// User is a dashboard operator account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	RoleID   int64  `json:"role_id"`
	Status   bool   `json:"status"`
}

// Role names an access level.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SaleItem is a committed sale line.
type SaleItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Sale is a committed sale transaction.
type Sale struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customer_id"`
	UserID      int64      `json:"user_id"`
	Total       float64    `json:"total"`
	PaymentType string     `json:"payment_type"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"created_at,omitempty"`
	Items       []SaleItem `json:"items,omitempty"`
}

// PurchaseItem is a committed purchase line, including lot tracking data.
type PurchaseItem struct {
	ID             int64   `json:"id,omitempty"`
	PurchaseID     int64   `json:"purchase_id,omitempty"`
	ProductID      int64   `json:"product_id"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal,omitempty"`
	ExpirationDate string  `json:"expiration_date"`
	BatchCode      string  `json:"batch_code"`
}

// Purchase is a committed purchase transaction.
type Purchase struct {
	ID          int64          `json:"id"`
	ProviderID  int64          `json:"provider_id"`
	UserID      int64          `json:"user_id"`
	Total       float64        `json:"total"`
	PaymentType string         `json:"payment_type"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at,omitempty"`
	Items       []PurchaseItem `json:"items,omitempty"`
}

// Pagination describes one page of a collection. TotalItems is
// authoritative; a page may come back partial.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
}

// Paginated is one page of entities plus its pagination metadata.
type Paginated[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateCustomerRequest creates a sale counterparty inline.
type CreateCustomerRequest struct {
	FullName string `json:"full_name"`
	CI       string `json:"ci"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// CreateSaleRequest commits a composed sale.
type CreateSaleRequest struct {
	PaymentType string     `json:"payment_type"`
	CustomerID  int64      `json:"customer_id"`
	Items       []SaleItem `json:"items"`
}

// CreatePurchaseItem is one normalized purchase line. ExpirationDate is
// serialized as YYYY-MM-DD.
type CreatePurchaseItem struct {
	ProductID      int64   `json:"product_id"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ExpirationDate string  `json:"expiration_date"`
	BatchCode      string  `json:"batch_code"`
}

// CreatePurchaseRequest commits a composed purchase.
type CreatePurchaseRequest struct {
	ProviderID  int64                `json:"provider_id"`
	PaymentType string               `json:"payment_type"`
	Items       []CreatePurchaseItem `json:"items"`
}

// CreateProductRequest adds a catalog entry.
type CreateProductRequest struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	CategoryID     int64   `json:"category_id"`
	PresentationID int64   `json:"presentation_id"`
	Unit           string  `json:"unit"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"descuento"`
	Stock          int     `json:"stock"`
	StockMin       int     `json:"stock_min"`
	Description    string  `json:"description,omitempty"`
}

// UpdateProductRequest edits an existing catalog entry. Stock is not
// editable here; it moves through purchases and explicit stock additions.
type UpdateProductRequest struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	CategoryID     int64   `json:"category_id"`
	PresentationID int64   `json:"presentation_id"`
	Unit           string  `json:"unit"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"descuento"`
	StockMin       int     `json:"stock_min"`
	Description    string  `json:"description,omitempty"`
}

// CreateProviderRequest adds a purchase counterparty.
type CreateProviderRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProviderRequest edits an existing provider.
type UpdateProviderRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateUserRequest registers an operator account.
type CreateUserRequest struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	PasswordHash string `json:"password_hash"`
	RoleID       int64  `json:"role_id"`
}

// UpdateUserRequest edits an operator account.
type UpdateUserRequest struct {
	ID       int64   `json:"id"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Status   *bool   `json:"status,omitempty"`
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
