package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/engine"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/money"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

// ErrQuit is returned by Execute when the user asked to leave.
var ErrQuit = errors.New("quit")

var (
	errNoOpenSet    = errors.New("open a price set first: set open <name>")
	errNoOpenRecipe = errors.New("open a recipe first: recipe open <name>")
)

// Printer receives the handler's output. The terminal UI implements it,
// as does a plain writer for one-shot commands.
type Printer interface {
	PrintTitle(text string)
	PrintLine(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintTable(headers []string, rows [][]string)
}

// Saver flushes unsaved changes.
type Saver interface {
	Flush(ctx context.Context) error
}

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithSaver enables the save command.
func WithSaver(s Saver) HandlerOption {
	return func(h *Handler) {
		h.saver = s
	}
}

// Handler runs commands against the engine and remembers which price set
// or recipe the user is working on. At most one of them is open.
type Handler struct {
	eng   *engine.Engine
	out   Printer
	saver Saver
	log   *logger.Logger

	mu         sync.Mutex
	openSet    string
	openRecipe string
}

// NewHandler creates a handler printing to out.
func NewHandler(eng *engine.Engine, out Printer, log *logger.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{eng: eng, out: out, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Focus names what is currently open, for the status bar.
type Focus struct {
	PriceSet string
	Recipe   string
}

// Focus returns the names of the open price set and recipe.
func (h *Handler) Focus() Focus {
	setID, recipeID := h.open()
	var f Focus
	if setID != "" {
		if ps, err := h.eng.Store().PriceSet(setID); err == nil {
			f.PriceSet = ps.Name
		}
	}
	if recipeID != "" {
		if r, err := h.eng.Store().Recipe(recipeID); err == nil {
			f.Recipe = r.Name
		}
	}
	return f
}

func (h *Handler) open() (setID, recipeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openSet, h.openRecipe
}

func (h *Handler) setOpen(setID, recipeID string) {
	h.mu.Lock()
	h.openSet, h.openRecipe = setID, recipeID
	h.mu.Unlock()
}

// Execute runs one command. It returns ErrQuit when the user is done.
func (h *Handler) Execute(ctx context.Context, cmd *domain.Command) error {
	h.log.Debug("executing %s %v %q", cmd.Type, cmd.Args, cmd.Text)

	switch cmd.Type {
	case domain.CmdHelp:
		h.printHelp()
		return nil
	case domain.CmdQuit:
		return ErrQuit
	case domain.CmdSave:
		return h.save(ctx)

	case domain.CmdListProducts:
		h.listProducts(h.eng.SearchProducts(""))
		return nil
	case domain.CmdFindProducts:
		h.listProducts(h.eng.SearchProducts(cmd.Text))
		return nil
	case domain.CmdAddProduct:
		p, err := h.eng.AddProduct(ctx, engine.ProductInput{Name: cmd.Text})
		if err != nil {
			return err
		}
		h.out.PrintLine(fmt.Sprintf("Added %s.", p.Name))
		return nil
	case domain.CmdRenameProduct:
		p, err := h.product(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.RenameProduct(ctx, p.ID, cmd.Text); err != nil {
			return err
		}
		h.out.PrintLine(fmt.Sprintf("Renamed %s to %s.", p.Name, strings.TrimSpace(cmd.Text)))
		return nil
	case domain.CmdSetProductIcon:
		p, err := h.product(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.SetProductIcon(ctx, p.ID, arg(cmd, 1)); err != nil {
			return err
		}
		h.out.PrintLine(fmt.Sprintf("%s now shows [%s].", p.Name, arg(cmd, 1)))
		return nil
	case domain.CmdDeleteProduct:
		p, err := h.product(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.DeleteProduct(ctx, p.ID); err != nil {
			return err
		}
		h.out.PrintLine(fmt.Sprintf("Deleted %s from the bank, every price set and every recipe.", p.Name))
		return nil

	case domain.CmdListPriceSets:
		h.listPriceSets()
		return nil
	case domain.CmdAddPriceSet:
		ps, err := h.eng.AddPriceSet(ctx, engine.PriceSetInput{Name: cmd.Text, Currency: arg(cmd, 0)})
		if err != nil {
			return err
		}
		h.setOpen(ps.ID, "")
		h.out.PrintLine(fmt.Sprintf("Created price set %s. It is open; choose its products with: cover <product>, ...", ps.Name))
		return nil
	case domain.CmdRenamePriceSet:
		ps, err := h.priceSet(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.RenamePriceSet(ctx, ps.ID, cmd.Text); err != nil {
			return err
		}
		h.out.PrintLine(fmt.Sprintf("Renamed %s to %s.", ps.Name, strings.TrimSpace(cmd.Text)))
		return nil
	case domain.CmdDeletePriceSet:
		ps, err := h.priceSet(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.DeletePriceSet(ctx, ps.ID); err != nil {
			return err
		}
		if setID, _ := h.open(); setID == ps.ID {
			h.setOpen("", "")
		}
		h.out.PrintLine(fmt.Sprintf("Deleted price set %s.", ps.Name))
		return nil
	case domain.CmdOpenPriceSet:
		ps, err := h.priceSet(arg(cmd, 0))
		if err != nil {
			return err
		}
		h.setOpen(ps.ID, "")
		h.showPriceSet(ps)
		return nil
	case domain.CmdCurrency:
		return h.currency(ctx, cmd)
	case domain.CmdCoverProducts:
		return h.cover(ctx, cmd)
	case domain.CmdSetPrice:
		return h.setPrice(ctx, cmd)

	case domain.CmdListRecipes:
		h.listRecipes()
		return nil
	case domain.CmdAddRecipe:
		r, err := h.eng.AddRecipe(ctx, engine.RecipeInput{Name: cmd.Text})
		if err != nil {
			return err
		}
		h.setOpen("", r.ID)
		h.out.PrintLine(fmt.Sprintf("Created recipe %s. It is open; choose its products with: ingredients <product>, ...", r.Name))
		return nil
	case domain.CmdDeleteRecipe:
		r, err := h.recipe(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.DeleteRecipe(ctx, r.ID); err != nil {
			return err
		}
		if _, recipeID := h.open(); recipeID == r.ID {
			h.setOpen("", "")
		}
		h.out.PrintLine(fmt.Sprintf("Deleted recipe %s.", r.Name))
		return nil
	case domain.CmdOpenRecipe:
		r, err := h.recipe(arg(cmd, 0))
		if err != nil {
			return err
		}
		h.setOpen("", r.ID)
		return h.showCost(r.ID)
	case domain.CmdDescribeRecipe:
		return h.describe(ctx, cmd)
	case domain.CmdSetYield:
		return h.yield(ctx, cmd)
	case domain.CmdUsePriceSet:
		recipeID, err := h.requireRecipe()
		if err != nil {
			return err
		}
		ps, err := h.priceSet(arg(cmd, 0))
		if err != nil {
			return err
		}
		if err := h.eng.AssignPriceSet(ctx, recipeID, ps.ID); err != nil {
			return err
		}
		return h.showCost(recipeID)
	case domain.CmdClearPriceSet:
		recipeID, err := h.requireRecipe()
		if err != nil {
			return err
		}
		if err := h.eng.ClearPriceSet(ctx, recipeID); err != nil {
			return err
		}
		h.out.PrintLine("The recipe no longer uses a price set.")
		return nil
	case domain.CmdChooseIngredients:
		return h.ingredients(ctx, cmd)
	case domain.CmdSetAmount:
		return h.amount(ctx, cmd)
	case domain.CmdCost:
		if strings.TrimSpace(cmd.Text) != "" {
			r, err := h.recipe(cmd.Text)
			if err != nil {
				return err
			}
			return h.showCost(r.ID)
		}
		recipeID, err := h.requireRecipe()
		if err != nil {
			return err
		}
		return h.showCost(recipeID)
	}

	if cmd.Text != "" {
		h.out.PrintHint(fmt.Sprintf("I don't know %q. Type help for the list of commands.", cmd.Text))
	}
	return nil
}

func (h *Handler) save(ctx context.Context) error {
	if h.saver == nil {
		return errors.New("saving is not available here")
	}
	if err := h.saver.Flush(ctx); err != nil {
		return errors.Wrap(err, "saving")
	}
	h.out.PrintLine("Saved.")
	return nil
}

// ── price sets ───────────────────────────────────────────────────

func (h *Handler) currency(ctx context.Context, cmd *domain.Command) error {
	code := strings.ToLower(arg(cmd, 0))
	setID, _ := h.open()

	if code == "" {
		cur := "none"
		if c := h.eng.Store().CurrentCurrency(); c != nil {
			cur = fmt.Sprintf("%s (%s)", c, c.Symbol())
		}
		h.out.PrintLine("Display currency: " + cur)
		names := make([]string, 0, len(domain.Currencies))
		for _, c := range domain.Currencies {
			names = append(names, c.String())
		}
		h.out.PrintHint("Available: " + strings.Join(names, ", ") + ", or none")
		return nil
	}
	if code == "none" {
		code = ""
	}

	if setID != "" {
		if err := h.eng.SetPriceSetCurrency(ctx, setID, code); err != nil {
			return err
		}
		h.out.PrintLine("Price set currency updated.")
		return nil
	}
	if err := h.eng.SelectCurrency(ctx, code); err != nil {
		return err
	}
	h.out.PrintLine("Display currency updated.")
	return nil
}

func (h *Handler) cover(ctx context.Context, cmd *domain.Command) error {
	setID, err := h.requireSet()
	if err != nil {
		return err
	}
	ps, err := h.eng.Store().PriceSet(setID)
	if err != nil {
		return err
	}
	if len(cmd.Args) == 0 {
		h.showPriceSet(ps)
		return nil
	}

	ids, err := h.productIDs(cmd.Args)
	if err != nil {
		return err
	}
	diff, err := h.eng.SelectPriceSetProducts(ctx, setID, ids)
	if err != nil {
		return err
	}
	h.out.PrintLine(fmt.Sprintf("%s now covers %d products (%d added, %d removed).", ps.Name, len(ids), diff.Added, diff.Removed))
	if diff.Added > 0 {
		h.out.PrintHint("Set prices with: price <product> <price> per <quantity> <unit>")
	}
	return nil
}

func (h *Handler) setPrice(ctx context.Context, cmd *domain.Command) error {
	setID, err := h.requireSet()
	if err != nil {
		return err
	}
	p, err := h.product(arg(cmd, 0))
	if err != nil {
		return err
	}
	price, err := money.Parse(arg(cmd, 1))
	if err != nil {
		return err
	}
	qty, err := money.Parse(arg(cmd, 2))
	if err != nil {
		return err
	}
	in := engine.PriceInput{Price: price, Quantity: qty, Unit: arg(cmd, 3)}
	if err := h.eng.SetPrice(ctx, setID, p.ID, in); err != nil {
		return err
	}

	ps, err := h.eng.Store().PriceSet(setID)
	if err != nil {
		return err
	}
	e, _ := ps.Entry(p.ID)
	h.out.PrintLine(fmt.Sprintf("%s: %s", p.Name, h.describeEntry(e, h.eng.DisplayCurrency(&ps))))
	return nil
}

func (h *Handler) showPriceSet(ps domain.PriceSet) {
	cur := h.eng.DisplayCurrency(&ps)
	title := ps.Name
	if ps.Currency != nil {
		title += " (" + ps.Currency.String() + ")"
	}
	h.out.PrintTitle(title)
	if len(ps.Entries) == 0 {
		h.out.PrintHint("No products yet. Add some with: cover <product>, ...")
		return
	}

	rows := make([][]string, 0, len(ps.Entries))
	for _, p := range h.eng.Store().Products() {
		e, ok := ps.Entry(p.ID)
		if !ok {
			continue
		}
		rows = append(rows, []string{p.Icon.Label(), p.Name, h.describeEntry(e, cur)})
	}
	h.out.PrintTable([]string{"Icon", "Product", "Price"}, rows)
}

func (h *Handler) describeEntry(e domain.PriceEntry, cur *domain.Currency) string {
	if !e.IsValid() {
		return "not set"
	}
	return fmt.Sprintf("%s per %s %s", money.Format(e.Price, cur), formatQty(e.Quantity), e.Unit.Label())
}

// ── recipes ──────────────────────────────────────────────────────

func (h *Handler) describe(ctx context.Context, cmd *domain.Command) error {
	recipeID, err := h.requireRecipe()
	if err != nil {
		return err
	}
	if cmd.Text == "" {
		r, err := h.eng.Store().Recipe(recipeID)
		if err != nil {
			return err
		}
		if r.Description == "" {
			h.out.PrintHint("No description.")
		} else {
			h.out.PrintLine(r.Description)
		}
		return nil
	}
	desc := cmd.Text
	if err := h.eng.UpdateRecipe(ctx, recipeID, store.RecipeDetails{Description: &desc}); err != nil {
		return err
	}
	h.out.PrintLine("Description updated.")
	return nil
}

func (h *Handler) yield(ctx context.Context, cmd *domain.Command) error {
	recipeID, err := h.requireRecipe()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(arg(cmd, 0))
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "%q is not a whole number", arg(cmd, 0))
	}
	if err := h.eng.UpdateRecipe(ctx, recipeID, store.RecipeDetails{UnitsMade: &n}); err != nil {
		return err
	}
	h.out.PrintLine(fmt.Sprintf("The recipe makes %d.", n))
	return nil
}

func (h *Handler) ingredients(ctx context.Context, cmd *domain.Command) error {
	recipeID, err := h.requireRecipe()
	if err != nil {
		return err
	}
	if len(cmd.Args) == 0 {
		return h.showCost(recipeID)
	}
	ids, err := h.productIDs(cmd.Args)
	if err != nil {
		return err
	}
	diff, err := h.eng.SelectRecipeProducts(ctx, recipeID, ids)
	if err != nil {
		return err
	}
	h.out.PrintLine(fmt.Sprintf("The recipe now uses %d products (%d added, %d removed).", len(ids), diff.Added, diff.Removed))
	if diff.Added > 0 {
		h.out.PrintHint("New ingredients start at 1 pc. Change with: amount <product> <amount> <unit>")
	}
	return nil
}

func (h *Handler) amount(ctx context.Context, cmd *domain.Command) error {
	recipeID, err := h.requireRecipe()
	if err != nil {
		return err
	}
	p, err := h.product(arg(cmd, 0))
	if err != nil {
		return err
	}
	amount, err := money.Parse(arg(cmd, 1))
	if err != nil {
		return err
	}

	unit := arg(cmd, 2)
	if unit == "" {
		r, err := h.eng.Store().Recipe(recipeID)
		if err != nil {
			return err
		}
		if ing, ok := r.Ingredient(p.ID); ok && ing.Unit != nil {
			unit = ing.Unit.String()
		}
	}
	if err := h.eng.SetIngredient(ctx, recipeID, p.ID, engine.IngredientInput{Amount: amount, Unit: unit}); err != nil {
		return err
	}
	v, err := h.eng.Classify(recipeID, p.ID)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("%s: %s %s", p.Name, formatQty(amount), unitLabel(unit))
	if v != domain.Valid {
		line += " (" + v.Message() + ")"
	}
	h.out.PrintLine(line)
	return nil
}

func (h *Handler) showCost(recipeID string) error {
	c, err := h.eng.RecipeCost(recipeID)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (makes %d)", c.Recipe.Name, c.Recipe.UnitsMade)
	if c.PriceSet != nil {
		title += " with " + c.PriceSet.Name
	}
	h.out.PrintTitle(title)
	if c.Recipe.Description != "" {
		h.out.PrintHint(c.Recipe.Description)
	}

	if len(c.Lines) > 0 {
		rows := make([][]string, 0, len(c.Lines))
		for _, l := range c.Lines {
			cost := l.Verdict.Message()
			if l.Verdict == domain.Valid {
				cost = money.Format(l.Cost, c.Currency)
			}
			rows = append(rows, []string{l.ProductName, formatQty(l.Amount) + " " + domain.UnitLabel(l.Unit), cost})
		}
		h.out.PrintTable([]string{"Product", "Amount", "Cost"}, rows)
	}

	switch {
	case c.PriceSet == nil:
		h.out.PrintHint("No price set. Pick one with: use <price set>")
	case c.HasTotal:
		h.out.PrintLine(fmt.Sprintf("Total %s, %s each", money.Format(c.Total, c.Currency), money.Format(c.PerUnit, c.Currency)))
	case len(c.Problems()) == 0:
		h.out.PrintUrgent("No total: the amounts are too large to add up.")
	default:
		h.out.PrintUrgent(fmt.Sprintf("No total: %d of %d ingredients can't be priced.", len(c.Problems()), len(c.Lines)))
	}
	return nil
}

// ── listings ─────────────────────────────────────────────────────

func (h *Handler) listProducts(products []domain.Product) {
	if len(products) == 0 {
		h.out.PrintHint("No products.")
		return
	}
	for i, p := range products {
		h.out.PrintLine(fmt.Sprintf("%d. %s [%s]", i+1, p.Name, p.Icon.Label()))
	}
}

func (h *Handler) listPriceSets() {
	sets := h.eng.Store().PriceSets()
	if len(sets) == 0 {
		h.out.PrintHint("No price sets. Create one with: set add <name>")
		return
	}
	setID, _ := h.open()
	for i, ps := range sets {
		unpriced := 0
		for _, e := range ps.Entries {
			if !e.IsValid() {
				unpriced++
			}
		}
		line := fmt.Sprintf("%d. %s, %d products", i+1, ps.Name, len(ps.Entries))
		if unpriced > 0 {
			line += fmt.Sprintf(", %d unpriced", unpriced)
		}
		if ps.ID == setID {
			line += " (open)"
		}
		h.out.PrintLine(line)
	}
}

func (h *Handler) listRecipes() {
	recipes := h.eng.Store().Recipes()
	if len(recipes) == 0 {
		h.out.PrintHint("No recipes. Create one with: recipe add <name>")
		return
	}
	for i, r := range recipes {
		line := fmt.Sprintf("%d. %s", i+1, r.Name)
		if c, err := h.eng.RecipeCost(r.ID); err == nil && c.HasTotal {
			line += ", " + money.Format(c.Total, c.Currency)
		}
		h.out.PrintLine(line)
	}
}

func (h *Handler) printHelp() {
	h.out.PrintTitle("Commands")
	h.out.PrintTable([]string{"Command", "Does"}, [][]string{
		{"products | find <text>", "list or search the product bank"},
		{"product add <name>", "add a product"},
		{"product rename <p> to <name>", "rename a product"},
		{"product icon <p> <symbol>", "change a product's icon"},
		{"product rm <p>", "delete a product everywhere"},
		{"sets | set add <name> [in usd]", "list or create price sets"},
		{"set open|rename|rm <s>", "work on a price set"},
		{"cover <p>, <p>, ...", "choose the products the open set prices"},
		{"price <p> <price> per [qty] <unit>", "price a product in the open set"},
		{"currency [usd|rub|ils|none]", "currency of the open set, or the display currency"},
		{"recipes | recipe add <name>", "list or create recipes"},
		{"recipe open|rm <r>", "work on a recipe"},
		{"ingredients <p>, <p>, ...", "choose the products the open recipe uses"},
		{"amount <p> <n> [unit]", "set an ingredient amount"},
		{"describe <text> | yield <n>", "edit the open recipe"},
		{"use <s> | unuse", "price the open recipe with a set"},
		{"cost [<r>]", "show what a recipe costs"},
		{"save | quit", "save now, or save and leave"},
	})
	h.out.PrintHint("Products, sets and recipes can be named, partially named, or given by list number.")
}

// ── references ───────────────────────────────────────────────────

func (h *Handler) requireSet() (string, error) {
	setID, _ := h.open()
	if setID == "" {
		return "", errNoOpenSet
	}
	return setID, nil
}

func (h *Handler) requireRecipe() (string, error) {
	_, recipeID := h.open()
	if recipeID == "" {
		return "", errNoOpenRecipe
	}
	return recipeID, nil
}

// product resolves a reference: an exact name first, then a list number
// (1-based, as shown by products), then a partial name.
func (h *Handler) product(ref string) (domain.Product, error) {
	return pick(ref, h.eng.Store().Products(), func(p domain.Product) string { return p.Name }, h.eng.FindProduct)
}

func (h *Handler) priceSet(ref string) (domain.PriceSet, error) {
	return pick(ref, h.eng.Store().PriceSets(), func(ps domain.PriceSet) string { return ps.Name }, h.eng.FindPriceSet)
}

func (h *Handler) recipe(ref string) (domain.Recipe, error) {
	return pick(ref, h.eng.Store().Recipes(), func(r domain.Recipe) string { return r.Name }, h.eng.FindRecipe)
}

// pick lets a name that looks like a number still be found by name.
func pick[T any](ref string, all []T, name func(T) string, find func(string) (T, error)) (T, error) {
	ref = strings.TrimSpace(ref)
	for _, v := range all {
		if strings.EqualFold(name(v), ref) {
			return v, nil
		}
	}
	if n, ok := listIndex(ref); ok && n <= len(all) {
		return all[n-1], nil
	}
	return find(ref)
}

// productIDs resolves a selection. The single word "none" selects nothing.
func (h *Handler) productIDs(refs []string) ([]string, error) {
	if len(refs) == 1 && strings.EqualFold(refs[0], "none") {
		return []string{}, nil
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := h.product(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func listIndex(ref string) (int, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func arg(cmd *domain.Command, i int) string {
	if i < len(cmd.Args) {
		return strings.TrimSpace(cmd.Args[i])
	}
	return ""
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func unitLabel(name string) string {
	u, ok := domain.ParseUnit(name)
	if !ok {
		return "-"
	}
	return u.Label()
}
