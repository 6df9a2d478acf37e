package farmtest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

// respond writes the {data: ...} envelope every endpoint uses.
func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// fail writes the {message: ...} error envelope.
func fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": message})
}

// decode parses a JSON request body.
func decode(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// pageParams reads ?page and ?page_size with the contract defaults.
func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

// paginate slices items into one page. TotalItems always reflects the
// whole collection, and has_next holds exactly when more pages follow.
func paginate[T any](items []T, page, pageSize int) api.Paginated[T] {
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return api.Paginated[T]{
		Data: data,
		Pagination: api.Pagination{
			CurrentPage: page,
			HasNext:     page < totalPages,
			HasPrevious: page > 1 && total > 0,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	}
}
