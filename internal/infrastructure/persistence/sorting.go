package persistence

import (
	"strings"

	"github.com/styleco/storefront/internal/domain/catalog"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a listing may be ordered by. Anything
// else falls back to the default, so client input never reaches SQL.
type sortColumns struct {
	allowed     map[string]bool
	defaultCol  string
	defaultDesc bool
}

// orderBy resolves a client sort request. id is appended as a tie-breaker so
// paging stays stable when the sort column has duplicates.
func (s sortColumns) orderBy(field, dir string) clause.OrderBy {
	col, desc := s.defaultCol, s.defaultDesc
	if f := strings.TrimSpace(field); s.allowed[f] {
		col = f
		desc = !strings.EqualFold(strings.TrimSpace(dir), "asc")
	}
	return byColumns(column(col, desc), column("id", false))
}

var (
	categorySort = sortColumns{
		allowed:    map[string]bool{"created_at": true, "updated_at": true, "name": true, "slug": true},
		defaultCol: "name",
	}
	userSort = sortColumns{
		allowed:     map[string]bool{"created_at": true, "updated_at": true, "email": true, "full_name": true, "is_admin": true},
		defaultCol:  "created_at",
		defaultDesc: true,
	}
	orderSort = sortColumns{
		allowed:     map[string]bool{"created_at": true, "status": true, "payment_status": true, "total_amount": true},
		defaultCol:  "created_at",
		defaultDesc: true,
	}
)

// productOrderBy maps a storefront sort choice onto columns. Newest first
// breaks price ties.
func productOrderBy(sort catalog.SortBy) clause.OrderBy {
	switch sort {
	case catalog.SortPriceAsc:
		return byColumns(column("price", false), column("created_at", true))
	case catalog.SortPriceDesc:
		return byColumns(column("price", true), column("created_at", true))
	default:
		return byColumns(column("created_at", true))
	}
}

func column(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: desc}
}

func byColumns(cols ...clause.OrderByColumn) clause.OrderBy {
	return clause.OrderBy{Columns: cols}
}
