package cache

import "fmt"

// Cache keys follow the resource-name (+ page) convention the list
// views key their queries by.
const (
	KeyProducts      = "products"
	KeyCategories    = "categories"
	KeyPresentations = "presentations"
	KeyProviders     = "suppliers"
	KeyRoles         = "roles"

	PrefixProductsPage  = "products-paginate:"
	PrefixCustomersPage = "clients-paginate:"
	PrefixProvidersPage = "suppliers-paginate:"
	PrefixSalesPage     = "sales-paginate:"
	PrefixPurchasesPage = "purchases-paginate:"
	PrefixUsersPage     = "users-paginate:"
)

// PageKey builds the cache key for one page of a paginated collection.
func PageKey(prefix string, page int) string {
	return fmt.Sprintf("%s%d", prefix, page)
}
