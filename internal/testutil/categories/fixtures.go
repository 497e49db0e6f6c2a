package categories

// Entry is one category of a fixture.
type Entry struct {
	Name   CategoryName
	Budget string
}

// Fixture is a predefined set of categories for a test scenario.
type Fixture struct {
	Name    string
	Entries []Entry
}

// Predefined fixtures.
var (
	// FixtureMinimal adds a single small budget.
	FixtureMinimal = Fixture{
		Name:    "Minimal",
		Entries: []Entry{{Name: CategorySport, Budget: "300"}},
	}

	// FixtureStudent models a tight monthly budget.
	FixtureStudent = Fixture{
		Name: "Student",
		Entries: []Entry{
			{Name: CategoryEducation, Budget: "400"},
			{Name: CategoryEntertainment, Budget: "250"},
			{Name: CategorySubscriptions, Budget: "120"},
		},
	}

	// FixtureHousehold covers recurring household costs.
	FixtureHousehold = Fixture{
		Name: "Household",
		Entries: []Entry{
			{Name: CategoryBills, Budget: "1500"},
			{Name: CategoryHealth, Budget: "600"},
			{Name: CategoryPets, Budget: "450"},
			{Name: CategoryTravel, Budget: "0"},
		},
	}
)
