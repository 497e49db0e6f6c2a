// Package categories seeds custom budget categories into a test ledger
// through the public mutation API.
//
//	cats, err := categories.NewBuilder(t).
//		WithFixture(categories.FixtureStudent).
//		WithCategory(categories.CategorySport, "300").
//		Build(ctx, tl.Store)
package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryName is a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Category names used across tests.
const (
	CategorySport         CategoryName = "Spor"
	CategoryHealth        CategoryName = "Sağlık"
	CategoryEducation     CategoryName = "Eğitim"
	CategoryEntertainment CategoryName = "Eğlence"
	CategoryBills         CategoryName = "Faturalar"
	CategorySubscriptions CategoryName = "Abonelikler"
	CategoryTravel        CategoryName = "Seyahat"
	CategoryPets          CategoryName = "Evcil Hayvan"
)

// Categories is a collection of created test categories.
type Categories []model.CategoryDef

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.CategoryDef {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.CategoryDef {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// IDs returns the category ids in creation order.
func (c Categories) IDs() []string {
	ids := make([]string, len(c))
	for i, cat := range c {
		ids[i] = cat.ID
	}
	return ids
}

// Builder collects categories and creates them in insertion order.
type Builder struct {
	t      *testing.T
	seen   map[CategoryName]bool
	drafts []model.CategoryDraft
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, seen: make(map[CategoryName]bool)}
}

// WithCategory adds a category with the given budget. Names added twice
// are created once.
func (b *Builder) WithCategory(name CategoryName, budget string) *Builder {
	if b.seen[name] {
		return b
	}
	b.seen[name] = true
	b.drafts = append(b.drafts, model.CategoryDraft{
		Name:          name.String(),
		Icon:          "🏷️",
		Color:         "#a3a3a3",
		Bg:            "bg-neutral-400",
		InitialBudget: decimal.RequireFromString(budget),
	})
	return b
}

// WithFixture adds every category of a fixture.
func (b *Builder) WithFixture(f Fixture) *Builder {
	for _, e := range f.Entries {
		b.WithCategory(e.Name, e.Budget)
	}
	return b
}

// Build creates the categories through store.AddCategory.
func (b *Builder) Build(ctx context.Context, store *ledger.Store) (Categories, error) {
	b.t.Helper()

	result := make(Categories, 0, len(b.drafts))
	for _, d := range b.drafts {
		id, err := store.AddCategory(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", d.Name, err)
		}
		result = append(result, d.Build(id))
	}
	return result, nil
}
