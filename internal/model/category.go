package model

import "github.com/shopspring/decimal"

// UncategorizedID is the sentinel category used for unknown or unresolved references.
const UncategorizedID = "other"

// CategoryDef is a user-defined spending bucket with a budget ceiling.
// Color and Bg are presentation hints and are ignored by ledger logic.
type CategoryDef struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	Bg            string          `json:"bg"`
	InitialBudget decimal.Decimal `json:"initialBudget"`
}

// CategoryDraft is a CategoryDef that has not been assigned an id yet.
type CategoryDraft struct {
	Name          string
	Icon          string
	Color         string
	Bg            string
	InitialBudget decimal.Decimal
}

// Build turns the draft into a CategoryDef with the given id.
func (d CategoryDraft) Build(id string) CategoryDef {
	return CategoryDef{
		ID:            id,
		Name:          d.Name,
		Icon:          d.Icon,
		Color:         d.Color,
		Bg:            d.Bg,
		InitialBudget: d.InitialBudget,
	}
}

// IncomeCategory describes one of the reserved income buckets.
type IncomeCategory struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// IncomeCategories are the reserved ids used for income transactions.
var IncomeCategories = []IncomeCategory{
	{ID: "maas", Name: "Maaş", Icon: "💰", Color: "#22c55e"},
	{ID: "yan_gelir", Name: "Yan Gelir", Icon: "🚀", Color: "#34d399"},
	{ID: "hediye", Name: "Hediye", Icon: "🎁", Color: "#fbbf24"},
	{ID: "diger_gelir", Name: "Diğer Gelir", Icon: "💳", Color: "#60a5fa"},
}

// DefaultIncomeCategoryID is used for income whose source is unknown.
const DefaultIncomeCategoryID = "diger_gelir"

// IsIncomeCategory reports whether id is one of the reserved income ids.
func IsIncomeCategory(id string) bool {
	for _, c := range IncomeCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// DefaultCategories returns the starter category set used for a fresh ledger.
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{ID: "yemek", Name: "Yemek", Icon: "🍴", InitialBudget: decimal.NewFromInt(1200), Color: "#fb923c", Bg: "bg-orange-400"},
		{ID: "ulasim", Name: "Ulaşım", Icon: "🚗", InitialBudget: decimal.NewFromInt(500), Color: "#38bdf8", Bg: "bg-blue-400"},
		{ID: "kira", Name: "Kira", Icon: "🏠", InitialBudget: decimal.NewFromInt(2500), Color: "#f87171", Bg: "bg-red-400"},
		{ID: "alisveris", Name: "Alışveriş", Icon: "🛍️", InitialBudget: decimal.NewFromInt(800), Color: "#f472b6", Bg: "bg-pink-400"},
		{ID: "teknoloji", Name: "Teknoloji", Icon: "💻", InitialBudget: decimal.NewFromInt(1000), Color: "#475569", Bg: "bg-slate-600"},
	}
}

// FindCategory returns the category with the given id.
func FindCategory(categories []CategoryDef, id string) (CategoryDef, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryDef{}, false
}

// ResolveCategory returns a displayable category for id. Orphaned references
// (a category deleted while transactions still point at it) and unknown ids
// resolve to an "other" placeholder that keeps the original id.
func ResolveCategory(categories []CategoryDef, id string) CategoryDef {
	if c, ok := FindCategory(categories, id); ok {
		return c
	}
	for _, ic := range IncomeCategories {
		if ic.ID == id {
			return CategoryDef{ID: ic.ID, Name: ic.Name, Icon: ic.Icon, Color: ic.Color}
		}
	}
	name := id
	if name == "" || name == UncategorizedID {
		name = "Diğer"
	}
	return CategoryDef{ID: id, Name: name, Icon: "💰", Color: "#3b82f6", Bg: "bg-blue-500"}
}
