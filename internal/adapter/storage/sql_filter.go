package storage

import (
	"fmt"
	"strings"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

// whereClause renders filter as a WHERE clause, empty when filter matches
// everything.
func whereClause(filter domain.Filter, placeholder func(n int) string) (string, []interface{}) {
	cond, args := filterConditions(filter, placeholder)
	if cond == "" {
		return "", nil
	}
	return " WHERE " + cond, args
}

// filterConditions renders filter as AND-ed conditions. The stock conditions
// must stay in step with the predicates in domain/stock.go.
func filterConditions(filter domain.Filter, placeholder func(n int) string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(expr string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(expr, placeholder(len(args))))
	}

	if filter.Color != "" {
		add("color = %s", filter.Color)
	}
	if filter.Size != "" {
		add("size = %s", filter.Size)
	}
	if filter.Stock != nil {
		switch filter.Stock.View {
		case domain.ViewAvailable:
			conds = append(conds, "stock > 0")
		case domain.ViewOutOfStock:
			conds = append(conds, "stock = 0")
		case domain.ViewLowStock:
			add("stock < %s", filter.Stock.Threshold)
		}
	}

	return strings.Join(conds, " AND "), args
}

// setClause renders the non-nil patch fields for an UPDATE.
func setClause(patch domain.ShirtPatch, placeholder func(n int) string) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(column string, arg interface{}) {
		args = append(args, arg)
		sets = append(sets, column+" = "+placeholder(len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Size != nil {
		add("size", *patch.Size)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	return sets, args
}

func questionMark(int) string { return "?" }

func dollarN(n int) string { return fmt.Sprintf("$%d", n) }
