// Package option provides composable gorm query modifiers used by
// repositories for range filters, ordering and limits.
package option

import (
	"fmt"

	"gorm.io/gorm"
)

type Operator string

const (
	EQ  Operator = "="
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

func (c Condition) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s %s ?", c.Field, c.Operator), c.Value)
}

func ApplyOperator(c Condition) QueryOption {
	return c
}

type inCondition struct {
	field  string
	values any
}

func (c inCondition) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s IN ?", c.field), c.values)
}

// WithIn filters rows whose field matches any of values.
func WithIn(field string, values any) QueryOption {
	return inCondition{field: field, values: values}
}

type rawWhere struct {
	query string
	args  []any
}

func (w rawWhere) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(w.query, w.args...)
}

// WithWhere applies a raw conditional expression for predicates a single
// Condition cannot express, such as keyset pagination.
func WithWhere(query string, args ...any) QueryOption {
	return rawWhere{query: query, args: args}
}

type orderBy struct {
	expr string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.expr)
}

func WithOrder(expr string) QueryOption {
	return orderBy{expr: expr}
}

type limit struct {
	n int
}

func (l limit) Apply(db *gorm.DB) *gorm.DB {
	if l.n <= 0 {
		return db
	}
	return db.Limit(l.n)
}

func WithLimit(n int) QueryOption {
	return limit{n: n}
}

type preload struct {
	association string
}

func (p preload) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload(p.association)
}

func WithPreload(association string) QueryOption {
	return preload{association: association}
}
