package composer

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/JosCraft/sisfarm-go/internal/ledger"
)

// lineForm mirrors one ledger line for per-line validation before a
// phase transition.
type lineForm struct {
	ProductID int64   `validate:"required,min=1"`
	Quantity  int     `validate:"required,min=1"`
	UnitPrice float64 `validate:"required,gt=0"`
}

var lineMessages = map[string]string{
	"ProductID": "select a product",
	"Quantity":  "quantity must be at least 1",
	"UnitPrice": "unit price must be greater than 0",
}

var lineFieldNames = map[string]string{
	"ProductID": "product_id",
	"Quantity":  "quantity",
	"UnitPrice": "unit_price",
}

// validateLines checks every line of the ledger against the per-line
// rules plus product existence, returning inline errors keyed
// "items.<index>.<field>".
func validateLines(v *validator.Validate, lines []ledger.Line, catalog *Catalog) map[string]string {
	errs := make(map[string]string)
	for i, line := range lines {
		price, _ := line.UnitPrice.Float64()
		form := lineForm{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		}
		if err := v.Struct(form); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				key := fmt.Sprintf("items.%d.%s", i, lineFieldNames[fieldErr.StructField()])
				errs[key] = lineMessages[fieldErr.StructField()]
			}
			continue
		}
		if catalog != nil {
			if _, ok := catalog.Product(line.ProductID); !ok {
				errs[fmt.Sprintf("items.%d.product_id", i)] = "unknown product"
			}
		}
	}
	return errs
}

// fieldErrors flattens validator errors into a field → message map
// using per-struct naming and message tables.
func fieldErrors(err error, names, messages map[string]string) map[string]string {
	errs := make(map[string]string)
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, fieldErr := range validationErrs {
		name := names[fieldErr.StructField()]
		if name == "" {
			name = fieldErr.StructField()
		}
		msg := messages[fieldErr.StructField()]
		if msg == "" {
			msg = "invalid value"
		}
		errs[name] = msg
	}
	return errs
}
