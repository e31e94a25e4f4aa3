package entity

import "time"

// Category agrupa productos. El nombre es único.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// DefaultCategories categorías sembradas en una instalación nueva.
var DefaultCategories = []Category{
	{Name: "General", Description: "Productos generales"},
	{Name: "Food & Beverages", Description: "Alimentos y bebidas"},
	{Name: "Electronics", Description: "Electrónica y accesorios"},
	{Name: "Clothing", Description: "Ropa y accesorios"},
	{Name: "Household", Description: "Artículos para el hogar"},
}
