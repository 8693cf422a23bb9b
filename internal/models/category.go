package models

// CategoryType tags a category. Only expense categories exist today.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
)

// DefaultCategoryNames are seeded when the categories table is empty.
var DefaultCategoryNames = []string{
	"Accountant",
	"Stationery",
	"Fiscal Data Operator",
	"Software",
	"Internet",
	"One-off",
}

// Category is a named expense bucket.
type Category struct {
	Base
	Name string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Type CategoryType `gorm:"type:varchar(20);not null;default:expense" json:"type"`
}
