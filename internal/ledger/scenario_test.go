package ledger_test

import (
	"context"
	"testing"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/testutil"
	"github.com/Veraticus/parayon/internal/testutil/categories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_StudentMonth(t *testing.T) {
	ctx := context.Background()
	tl := testutil.SetupLedger(t, ledger.WithOpeningBalance(decimal.NewFromInt(5000)))

	cats, err := categories.NewBuilder(t).
		WithFixture(categories.FixtureStudent).
		Build(ctx, tl.Store)
	require.NoError(t, err)
	education := cats.MustFind(t, categories.CategoryEducation)
	fun := cats.MustFind(t, categories.CategoryEntertainment)

	tl.MustAdd(testutil.Income("15000", "maas").DaysAgo(15).Build())
	tl.MustAdd(testutil.Expense("350", education.ID).DaysAgo(3).Note("Kitaplar").Build())
	tl.MustAdd(testutil.Expense("300", fun.ID).DaysAgo(1).Note("Konser").Build())
	tl.MustAdd(testutil.Expense("120", "yemek").Build())
	// Last month; only all-time budgets see it.
	tl.MustAdd(testutil.Expense("90", fun.ID).DaysAgo(40).Build())

	assert.True(t, decimal.NewFromInt(19140).Equal(tl.Store.Balance()), tl.Store.Balance().String())
	require.NoError(t, tl.Store.Verify())

	views := map[string]budget.View{}
	for _, v := range tl.Store.Budgets(budget.AllTime) {
		views[v.Category.ID] = v
	}
	assert.True(t, decimal.NewFromInt(50).Equal(views[education.ID].Available))
	assert.True(t, views[fun.ID].OverBudget())
	assert.True(t, decimal.NewFromInt(-140).Equal(views[fun.ID].Available))
	assert.True(t, decimal.NewFromInt(100).Equal(views[fun.ID].Percent))

	monthly := map[string]budget.View{}
	for _, v := range tl.Store.Budgets(budget.MonthWindow(testutil.Now)) {
		monthly[v.Category.ID] = v
	}
	assert.True(t, decimal.NewFromInt(300).Equal(monthly[fun.ID].Spent))
	assert.True(t, decimal.NewFromInt(-50).Equal(monthly[fun.ID].Available))

	snap := tl.Store.Snapshot()
	series := aggregate.WeeklySeries(snap.Transactions, testutil.Now)
	assert.True(t, decimal.NewFromInt(120).Equal(series[6].Value))
	assert.True(t, decimal.NewFromInt(300).Equal(series[5].Value))
	assert.True(t, decimal.NewFromInt(350).Equal(series[3].Value))
	assert.True(t, decimal.NewFromInt(770).Equal(aggregate.MonthToDateExpense(snap.Transactions, testutil.Now)))

	shares := budget.Breakdown(snap.Transactions, snap.Categories)
	require.NotEmpty(t, shares)
	assert.Equal(t, fun.ID, shares[0].Category.ID)
}

func TestScenario_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	tl := testutil.SetupLedger(t)

	cats, err := categories.NewBuilder(t).
		WithFixture(categories.FixtureHousehold).
		WithCategory(categories.CategoryBills, "9999").
		Build(ctx, tl.Store)
	require.NoError(t, err)
	require.Len(t, cats, 4, "duplicate names are created once")
	bills := cats.MustFind(t, categories.CategoryBills)

	tl.MustAdd(testutil.Expense("420.75", bills.ID).Note("Elektrik").Build())
	_, err = tl.Store.Import(ctx, []model.TransactionDraft{
		testutil.Expense("40", model.UncategorizedID).DaysAgo(2).Build(),
		testutil.Income("100", model.DefaultIncomeCategoryID).DaysAgo(1).Build(),
	})
	require.NoError(t, err)

	deleted, err := tl.Store.DeleteCategory(ctx, bills.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	reloaded := tl.Reload()
	require.NoError(t, reloaded.Verify())
	assert.True(t, tl.Store.Balance().Equal(reloaded.Balance()))

	snap := reloaded.Snapshot()
	assert.Len(t, snap.Transactions, 3)
	assert.Len(t, snap.Categories, len(model.DefaultCategories())+3)

	resolved := model.ResolveCategory(snap.Categories, bills.ID)
	assert.Equal(t, bills.ID, resolved.ID, "orphaned reference keeps its id")
	assert.NotEqual(t, bills.Name, resolved.Name)

	recent := reloaded.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "Elektrik", recent[0].Note)
}
