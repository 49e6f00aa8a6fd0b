package domain

// Event describes one applied store mutation. Every successful mutation
// emits exactly one event to the root dispatcher.
type Event interface{ Type() string }

// ProductAdded is emitted when a product joins the bank.
type ProductAdded struct {
	ProductID string
	Name      string
}

func (e ProductAdded) Type() string { return "ProductAdded" }

// ProductRenamed is emitted when a bank product gets a new name.
type ProductRenamed struct {
	ProductID string
	OldName   string
	NewName   string
}

func (e ProductRenamed) Type() string { return "ProductRenamed" }

// ProductIconChanged is emitted when a product's icon is replaced.
type ProductIconChanged struct {
	ProductID string
}

func (e ProductIconChanged) Type() string { return "ProductIconChanged" }

// ProductDeleted is emitted when a product leaves the bank and every set and recipe using it.
type ProductDeleted struct {
	ProductID string
}

func (e ProductDeleted) Type() string { return "ProductDeleted" }

// PriceSetAdded is emitted when a new, empty price set is created.
type PriceSetAdded struct {
	PriceSetID string
	Name       string
}

func (e PriceSetAdded) Type() string { return "PriceSetAdded" }

// PriceSetRenamed is emitted when a price set gets a new name.
type PriceSetRenamed struct {
	PriceSetID string
	NewName    string
}

func (e PriceSetRenamed) Type() string { return "PriceSetRenamed" }

// PriceSetDeleted is emitted when a price set is removed. Recipes naming it keep a dangling reference.
type PriceSetDeleted struct {
	PriceSetID string
}

func (e PriceSetDeleted) Type() string { return "PriceSetDeleted" }

// PriceSetCurrencyChanged is emitted when a price set's currency is set or cleared.
type PriceSetCurrencyChanged struct {
	PriceSetID string
	Currency   *Currency
}

func (e PriceSetCurrencyChanged) Type() string { return "PriceSetCurrencyChanged" }

// PriceSetEntriesReconciled is emitted when the products a price set covers are chosen.
type PriceSetEntriesReconciled struct {
	PriceSetID string
	Added      int
	Removed    int
}

func (e PriceSetEntriesReconciled) Type() string { return "PriceSetEntriesReconciled" }

// PriceEntryUpdated is emitted when one entry's price, quantity or unit changes.
type PriceEntryUpdated struct {
	PriceSetID string
	ProductID  string
}

func (e PriceEntryUpdated) Type() string { return "PriceEntryUpdated" }

// RecipeAdded is emitted when a recipe is created.
type RecipeAdded struct {
	RecipeID string
	Name     string
}

func (e RecipeAdded) Type() string { return "RecipeAdded" }

// RecipeUpdated is emitted when a recipe's name, description or yield changes.
type RecipeUpdated struct {
	RecipeID string
}

func (e RecipeUpdated) Type() string { return "RecipeUpdated" }

// RecipeDeleted is emitted when a recipe is removed.
type RecipeDeleted struct {
	RecipeID string
}

func (e RecipeDeleted) Type() string { return "RecipeDeleted" }

// RecipeIngredientsReconciled is emitted when the products a recipe uses are chosen.
type RecipeIngredientsReconciled struct {
	RecipeID string
	Added    int
	Removed  int
}

func (e RecipeIngredientsReconciled) Type() string { return "RecipeIngredientsReconciled" }

// RecipeIngredientUpdated is emitted when one ingredient's amount or unit changes.
type RecipeIngredientUpdated struct {
	RecipeID  string
	ProductID string
}

func (e RecipeIngredientUpdated) Type() string { return "RecipeIngredientUpdated" }

// RecipePriceSetAssigned is emitted when a recipe is tied to a price set. An empty PriceSetID unties it.
type RecipePriceSetAssigned struct {
	RecipeID   string
	PriceSetID string // empty when cleared
}

func (e RecipePriceSetAssigned) Type() string { return "RecipePriceSetAssigned" }

// CurrencySelected is emitted when the store's display currency is set or cleared.
type CurrencySelected struct {
	Currency *Currency
}

func (e CurrencySelected) Type() string { return "CurrencySelected" }

// StateReplaced is emitted when a loaded document replaces the whole state.
type StateReplaced struct {
	Products  int
	PriceSets int
	Recipes   int
}

func (e StateReplaced) Type() string { return "StateReplaced" }
