package farmtest

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

// seed loads a small pharmacy data set: an admin operator, reference
// collections and a handful of products and providers.
func (s *Server) seed() {
	s.roles = []api.Role{
		{ID: s.allocID("role"), Name: "administrador"},
		{ID: s.allocID("role"), Name: "empleado"},
		{ID: s.allocID("role"), Name: "farmaceutico"},
	}
	s.categories = []api.Category{
		{ID: s.allocID("category"), Name: "Analgésicos"},
		{ID: s.allocID("category"), Name: "Antibióticos"},
		{ID: s.allocID("category"), Name: "Vitaminas"},
		{ID: s.allocID("category"), Name: "Insumos Médicos"},
	}
	s.presentations = []api.Presentation{
		{ID: s.allocID("presentation"), Name: "Tabletas"},
		{ID: s.allocID("presentation"), Name: "Jarabe"},
		{ID: s.allocID("presentation"), Name: "Crema"},
	}
	s.products = []api.Product{
		{ID: s.allocID("product"), Code: "PAR500", Name: "Paracetamol 500mg", CategoryID: 1, PresentationID: 1, Unit: "caja", Price: 5.50, Stock: 120, StockMin: 20},
		{ID: s.allocID("product"), Code: "AMX250", Name: "Amoxicilina 250mg/5ml", CategoryID: 2, PresentationID: 2, Unit: "frasco", Price: 12.00, Stock: 45, StockMin: 10},
		{ID: s.allocID("product"), Code: "VITC1000", Name: "Vitamina C 1000mg", CategoryID: 3, PresentationID: 1, Unit: "caja", Price: 8.75, Stock: 80, StockMin: 15},
		{ID: s.allocID("product"), Code: "IBU400", Name: "Ibuprofeno 400mg", CategoryID: 1, PresentationID: 1, Unit: "caja", Price: 6.00, Stock: 95, StockMin: 20},
		{ID: s.allocID("product"), Code: "ALC70", Name: "Alcohol Antiséptico 70%", CategoryID: 4, PresentationID: 3, Unit: "frasco", Price: 2.50, Stock: 200, StockMin: 30},
	}
	s.providers = []api.Provider{
		{ID: s.allocID("provider"), Name: "Distribuidora Farmacéutica S.A.", NIT: "1023456017", Phone: "70011223", Address: "Av. 6 de Agosto 555"},
		{ID: s.allocID("provider"), Name: "Laboratorios Salud Total Ltda.", NIT: "2034567018", Phone: "70122334", Address: "Calle Comercio 88"},
		{ID: s.allocID("provider"), Name: "Insumos Médicos del Sur", NIT: "3045678019", Phone: "70233445", Address: "Zona Sur, Calle 21"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	admin := api.User{
		ID:       s.allocID("user"),
		Username: "admin",
		FullName: "Juan Pérez",
		Phone:    "555-1234",
		Address:  "Calle Falsa 123",
		RoleID:   1,
		Status:   true,
	}
	s.users = append(s.users, admin)
	s.passwords[admin.Username] = hash
}
