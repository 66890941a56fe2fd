// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across workflow stages:
// column labels, dataset metadata, and per-stage configuration.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies what a column measures, independent of its storage type.
type Category string

const (
	CategoryCategorical Category = "categorical"
	CategoryNumeric     Category = "numeric"
	CategoryDateTime    Category = "date/time"
	CategoryText        Category = "text"
)

// DType is the storage type of a column's values.
type DType string

const (
	TypeInt      DType = "int"
	TypeFloat    DType = "float"
	TypeString   DType = "str"
	TypeBool     DType = "bool"
	TypeText     DType = "text"
	TypeDate     DType = "date"
	TypeTime     DType = "time"
	TypeDatetime DType = "datetime"
)

// categoryTypes lists the storage types each category accepts.
var categoryTypes = map[Category][]DType{
	CategoryCategorical: {TypeString, TypeInt, TypeBool},
	CategoryNumeric:     {TypeInt, TypeFloat},
	CategoryDateTime:    {TypeDate, TypeTime, TypeDatetime},
	CategoryText:        {TypeText, TypeString},
}

// defaultCategory is the category a column falls into right after a cast.
var defaultCategory = map[DType]Category{
	TypeInt:      CategoryNumeric,
	TypeFloat:    CategoryNumeric,
	TypeString:   CategoryCategorical,
	TypeBool:     CategoryCategorical,
	TypeText:     CategoryText,
	TypeDate:     CategoryDateTime,
	TypeTime:     CategoryDateTime,
	TypeDatetime: CategoryDateTime,
}

// castTable lists the storage types each type may be cast to. Datetime
// casts from strings additionally require a parse layout.
var castTable = map[DType][]DType{
	TypeInt:      {TypeFloat, TypeString},
	TypeFloat:    {TypeInt, TypeString},
	TypeString:   {TypeInt, TypeFloat, TypeText, TypeDate, TypeTime, TypeDatetime},
	TypeBool:     {TypeInt, TypeString},
	TypeText:     {TypeString},
	TypeDate:     {TypeString},
	TypeTime:     {TypeString},
	TypeDatetime: {TypeString},
}

// DefaultCategory returns the category assigned to a column after casting
// it to t. Unknown types map to categorical.
func DefaultCategory(t DType) Category {
	if c, ok := defaultCategory[t]; ok {
		return c
	}
	return CategoryCategorical
}

// CanCast reports whether a column of type from may be cast to type to.
func CanCast(from, to DType) bool {
	for _, t := range castTable[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ColumnLabel carries the user-facing metadata for one dataset column.
// Statistic and Algorithm consult it to decide which columns participate.
type ColumnLabel struct {
	// Category is the column's data category.
	Category Category `json:"category" yaml:"category"`

	// Type is the column's storage type.
	Type DType `json:"type" yaml:"type"`

	// IsActive reports whether the column is enabled for downstream stages.
	IsActive bool `json:"is_active" yaml:"is_active"`
}

// NewColumnLabel builds a validated label. Invalid categories, types, or
// category/type combinations are rejected.
func NewColumnLabel(category Category, dtype DType, isActive bool) (ColumnLabel, error) {
	l := ColumnLabel{Category: category, Type: dtype, IsActive: isActive}
	if err := l.Validate(); err != nil {
		return ColumnLabel{}, err
	}
	return l, nil
}

// Validate checks that the category and type are known values and that the
// type is acceptable for the category.
func (l ColumnLabel) Validate() error {
	accepted, ok := categoryTypes[l.Category]
	if !ok {
		return fmt.Errorf("'%s' must be an accepted category: %s", l.Category, acceptedCategories())
	}
	if _, ok := defaultCategory[l.Type]; !ok {
		return fmt.Errorf("'%s' must be an accepted type: %s", l.Type, acceptedTypes())
	}
	for _, t := range accepted {
		if t == l.Type {
			return nil
		}
	}
	return fmt.Errorf("type '%s' does not match category '%s' (accepted: %s)",
		l.Type, l.Category, joinTypes(accepted))
}

// String renders the label the way inspect output prints it.
func (l ColumnLabel) String() string {
	return fmt.Sprintf("category: %s, type: %s, is_active: %t", l.Category, l.Type, l.IsActive)
}

func acceptedCategories() string {
	names := make([]string, 0, len(categoryTypes))
	for c := range categoryTypes {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func acceptedTypes() string {
	names := make([]string, 0, len(defaultCategory))
	for t := range defaultCategory {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func joinTypes(ts []DType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
