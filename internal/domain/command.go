package domain

// CommandType classifies what the user wants to do.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdHelp
	CmdQuit
	CmdSave

	CmdListProducts
	CmdAddProduct
	CmdRenameProduct
	CmdSetProductIcon
	CmdDeleteProduct
	CmdFindProducts

	CmdListPriceSets
	CmdAddPriceSet
	CmdRenamePriceSet
	CmdDeletePriceSet
	CmdOpenPriceSet
	CmdCurrency      // store currency, or the open price set's currency
	CmdCoverProducts // choose the products the open price set covers
	CmdSetPrice

	CmdListRecipes
	CmdAddRecipe
	CmdDeleteRecipe
	CmdOpenRecipe
	CmdDescribeRecipe
	CmdSetYield
	CmdUsePriceSet
	CmdClearPriceSet
	CmdChooseIngredients
	CmdSetAmount
	CmdCost
)

// commandNames maps command types to snake_case names.
var commandNames = map[CommandType]string{
	CmdUnknown:           "unknown",
	CmdHelp:              "help",
	CmdQuit:              "quit",
	CmdSave:              "save",
	CmdListProducts:      "list_products",
	CmdAddProduct:        "add_product",
	CmdRenameProduct:     "rename_product",
	CmdSetProductIcon:    "set_product_icon",
	CmdDeleteProduct:     "delete_product",
	CmdFindProducts:      "find_products",
	CmdListPriceSets:     "list_price_sets",
	CmdAddPriceSet:       "add_price_set",
	CmdRenamePriceSet:    "rename_price_set",
	CmdDeletePriceSet:    "delete_price_set",
	CmdOpenPriceSet:      "open_price_set",
	CmdCurrency:          "currency",
	CmdCoverProducts:     "cover_products",
	CmdSetPrice:          "set_price",
	CmdListRecipes:       "list_recipes",
	CmdAddRecipe:         "add_recipe",
	CmdDeleteRecipe:      "delete_recipe",
	CmdOpenRecipe:        "open_recipe",
	CmdDescribeRecipe:    "describe_recipe",
	CmdSetYield:          "set_yield",
	CmdUsePriceSet:       "use_price_set",
	CmdClearPriceSet:     "clear_price_set",
	CmdChooseIngredients: "choose_ingredients",
	CmdSetAmount:         "set_amount",
	CmdCost:              "cost",
}

// String returns a human-readable command type.
func (c CommandType) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Command represents a parsed user action.
type Command struct {
	Type CommandType
	Args []string // positional arguments, already split
	Text string   // free text payload (names, descriptions, search queries)
}
