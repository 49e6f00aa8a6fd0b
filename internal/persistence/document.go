// Package persistence stores the whole state as one JSON document.
package persistence

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// document is the on-disk shape. Field names are part of the file format.
type document struct {
	CurrentCurrency *string          `json:"currentCurrency"`
	ProductBank     []productRecord  `json:"productBank"`
	PriceSets       []priceSetRecord `json:"priceSets"`
	RecipeList      []recipeRecord   `json:"recipeList"`
}

type iconRecord struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Data []byte `json:"data,omitempty"`
}

type productRecord struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Icon iconRecord `json:"icon"`
}

type priceRecord struct {
	ID       string        `json:"id"`
	Product  productRecord `json:"product"`
	Price    float64       `json:"price"`
	Quantity float64       `json:"quantity"`
	Unit     *string       `json:"unit"`
}

type priceSetRecord struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Currency *string       `json:"currency"`
	Prices   []priceRecord `json:"prices"`
}

type ingredientRecord struct {
	ID      string        `json:"id"`
	Product productRecord `json:"product"`
	Unit    *string       `json:"unit"`
	Amount  float64       `json:"amount"`
}

type recipeRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"recipeDescription"`
	UnitsMade   int                `json:"unitsMade"`
	Products    []ingredientRecord `json:"products"`
	PriceSet    *string            `json:"priceSet"`
}

// Encode serializes the state as an indented JSON document.
func Encode(st *domain.State) ([]byte, error) {
	doc := document{
		CurrentCurrency: currencyName(st.CurrentCurrency),
		ProductBank:     make([]productRecord, 0, len(st.Products)),
		PriceSets:       make([]priceSetRecord, 0, len(st.PriceSets)),
		RecipeList:      make([]recipeRecord, 0, len(st.Recipes)),
	}

	bank := make(map[string]domain.Product, len(st.Products))
	for _, p := range st.Products {
		bank[p.ID] = p
		doc.ProductBank = append(doc.ProductBank, encodeProduct(p))
	}
	embed := func(id string) (productRecord, error) {
		p, ok := bank[id]
		if !ok {
			return productRecord{}, errors.Wrapf(domain.ErrNotFound, "product %s is not in the bank", id)
		}
		return encodeProduct(p), nil
	}

	for _, ps := range st.PriceSets {
		rec := priceSetRecord{
			ID:       ps.ID,
			Name:     ps.Name,
			Currency: currencyName(ps.Currency),
			Prices:   make([]priceRecord, 0, len(ps.Entries)),
		}
		for _, e := range ps.Entries {
			p, err := embed(e.ProductID)
			if err != nil {
				return nil, errors.Wrapf(err, "price set %q", ps.Name)
			}
			rec.Prices = append(rec.Prices, priceRecord{
				ID:       e.ID,
				Product:  p,
				Price:    e.Price,
				Quantity: e.Quantity,
				Unit:     unitName(e.Unit),
			})
		}
		doc.PriceSets = append(doc.PriceSets, rec)
	}

	for _, r := range st.Recipes {
		rec := recipeRecord{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			UnitsMade:   r.UnitsMade,
			Products:    make([]ingredientRecord, 0, len(r.Ingredients)),
		}
		if r.PriceSetID != "" {
			id := r.PriceSetID
			rec.PriceSet = &id
		}
		for _, ing := range r.Ingredients {
			p, err := embed(ing.ProductID)
			if err != nil {
				return nil, errors.Wrapf(err, "recipe %q", r.Name)
			}
			rec.Products = append(rec.Products, ingredientRecord{
				ID:      ing.ID,
				Product: p,
				Unit:    unitName(ing.Unit),
				Amount:  ing.Amount,
			})
		}
		doc.RecipeList = append(doc.RecipeList, rec)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return data, nil
}

// Decode parses a JSON document. Unknown unit or currency names, blank
// names and negative numbers fail the whole decode. A recipe yield below
// one is raised to one with a warning. A price entry or ingredient whose
// product is missing from the bank puts the embedded product back into the
// bank.
func Decode(data []byte, log *logger.Logger) (*domain.State, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}

	st := &domain.State{
		Products:  make([]domain.Product, 0, len(doc.ProductBank)),
		PriceSets: make([]domain.PriceSet, 0, len(doc.PriceSets)),
		Recipes:   make([]domain.Recipe, 0, len(doc.RecipeList)),
	}

	var err error
	if st.CurrentCurrency, err = parseCurrency(doc.CurrentCurrency); err != nil {
		return nil, err
	}

	for _, rec := range doc.ProductBank {
		p, err := decodeProduct(rec)
		if err != nil {
			return nil, err
		}
		st.Products = append(st.Products, p)
	}
	ensure := func(rec productRecord) (string, error) {
		if st.ProductIndex(rec.ID) >= 0 {
			return rec.ID, nil
		}
		p, err := decodeProduct(rec)
		if err != nil {
			return "", err
		}
		log.Warn("product %q referenced but missing from the bank, restoring it", p.Name)
		st.Products = append(st.Products, p)
		return p.ID, nil
	}

	for _, rec := range doc.PriceSets {
		ps := domain.PriceSet{
			ID:      rec.ID,
			Name:    rec.Name,
			Entries: make([]domain.PriceEntry, 0, len(rec.Prices)),
		}
		if err := checkName("price set", rec.ID, rec.Name); err != nil {
			return nil, err
		}
		if ps.Currency, err = parseCurrency(rec.Currency); err != nil {
			return nil, errors.Wrapf(err, "price set %q", rec.Name)
		}
		for _, pr := range rec.Prices {
			productID, err := ensure(pr.Product)
			if err != nil {
				return nil, errors.Wrapf(err, "price set %q", rec.Name)
			}
			unit, err := parseUnit(pr.Unit)
			if err != nil {
				return nil, errors.Wrapf(err, "price set %q", rec.Name)
			}
			if pr.Price < 0 || pr.Quantity < 0 {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "price set %q: negative price %g for %g of %s",
					rec.Name, pr.Price, pr.Quantity, pr.Product.Name)
			}
			ps.Entries = append(ps.Entries, domain.PriceEntry{
				ID:        pr.ID,
				ProductID: productID,
				Price:     pr.Price,
				Quantity:  pr.Quantity,
				Unit:      unit,
			})
		}
		st.PriceSets = append(st.PriceSets, ps)
	}

	for _, rec := range doc.RecipeList {
		r := domain.Recipe{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			UnitsMade:   rec.UnitsMade,
			Ingredients: make([]domain.RecipeIngredient, 0, len(rec.Products)),
		}
		if err := checkName("recipe", rec.ID, rec.Name); err != nil {
			return nil, err
		}
		if r.UnitsMade < 1 {
			log.Warn("recipe %q makes %d units, using 1", rec.Name, rec.UnitsMade)
			r.UnitsMade = 1
		}
		if rec.PriceSet != nil {
			r.PriceSetID = *rec.PriceSet
		}
		for _, ir := range rec.Products {
			productID, err := ensure(ir.Product)
			if err != nil {
				return nil, errors.Wrapf(err, "recipe %q", rec.Name)
			}
			unit, err := parseUnit(ir.Unit)
			if err != nil {
				return nil, errors.Wrapf(err, "recipe %q", rec.Name)
			}
			if ir.Amount < 0 {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "recipe %q: negative amount %g of %s",
					rec.Name, ir.Amount, ir.Product.Name)
			}
			r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{
				ID:        ir.ID,
				ProductID: productID,
				Amount:    ir.Amount,
				Unit:      unit,
			})
		}
		st.Recipes = append(st.Recipes, r)
	}

	return st, nil
}

func encodeProduct(p domain.Product) productRecord {
	rec := productRecord{ID: p.ID, Name: p.Name, Icon: iconRecord{Kind: p.Icon.Kind.String()}}
	switch p.Icon.Kind {
	case domain.IconImage:
		rec.Icon.Data = p.Icon.Image
	default:
		rec.Icon.Name = p.Icon.Name
	}
	return rec
}

func decodeProduct(rec productRecord) (domain.Product, error) {
	if rec.ID == "" {
		return domain.Product{}, errors.Wrapf(domain.ErrInvalidInput, "product %q has no id", rec.Name)
	}
	if err := checkName("product", rec.ID, rec.Name); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{ID: rec.ID, Name: rec.Name}
	switch rec.Icon.Kind {
	case "system", "":
		p.Icon = domain.SymbolicIcon(rec.Icon.Name)
	case "image":
		p.Icon = domain.EmbeddedImage(rec.Icon.Data)
	default:
		return domain.Product{}, errors.Wrapf(domain.ErrInvalidInput, "product %q has unknown icon kind %q", rec.Name, rec.Icon.Kind)
	}
	return p, nil
}

func checkName(kind, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Wrapf(domain.ErrInvalidInput, "%s %s has no name", kind, id)
	}
	return nil
}

func unitName(u *domain.Unit) *string {
	if u == nil {
		return nil
	}
	s := u.String()
	return &s
}

func currencyName(c *domain.Currency) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

func parseUnit(name *string) (*domain.Unit, error) {
	if name == nil {
		return nil, nil
	}
	u, ok := domain.ParseUnit(*name)
	if !ok {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown unit %q", *name)
	}
	return u.Ptr(), nil
}

func parseCurrency(name *string) (*domain.Currency, error) {
	if name == nil {
		return nil, nil
	}
	c, ok := domain.ParseCurrency(*name)
	if !ok {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown currency %q", *name)
	}
	return c.Ptr(), nil
}
