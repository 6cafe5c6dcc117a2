// Package configurator implements the selection wizard that turns a pizza
// size or a combo into a priced cart line.
//
// A session walks flavors → drinks → border → done. Each step is entered
// only when its precondition holds; otherwise it is skipped.
package configurator

import (
	"errors"
	"fmt"
	"strings"

	"pizzaria/internal/cart"
	"pizzaria/internal/models"
	"pizzaria/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrWrongStep        = errors.New("action not allowed in the current step")
	ErrUnknownOption    = errors.New("option is not available for this item")
	ErrTooManyFlavors   = errors.New("maximum number of flavors reached for this size")
	ErrNoFlavorSelected = errors.New("select at least one flavor")
	ErrNoDrinkSelected  = errors.New("select a drink")
	ErrNoBorderSelected = errors.New("select a border option")
	ErrNotFinished      = errors.New("configuration is not finished")

	ErrNoFlavorsAvailable = errors.New("no pizza flavor is available for this item")
)

type Step string

const (
	StepFlavors Step = "flavors"
	StepDrinks  Step = "drinks"
	StepBorder  Step = "border"
	StepDone    Step = "done"
)

// Flavor is a selectable pizza flavor.
type Flavor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}

// Drink is a selectable combo drink.
type Drink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Border is a selectable crust option.
type Border struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Options is the catalog slice offered to a session.
type Options struct {
	Flavors   []Flavor        `json:"flavors"`
	Drinks    []Drink         `json:"drinks"`
	Borders   []Border        `json:"borders"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// Target describes what is being configured.
type Target struct {
	Kind          models.ItemType  `json:"kind"`
	RefID         string           `json:"ref_id,omitempty"`
	Name          string           `json:"name"`
	Size          pricing.SizeSpec `json:"size"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	PizzaCount    int              `json:"pizza_count"`
	IncludesDrink bool             `json:"includes_drink"`
	FreeDelivery  bool             `json:"free_delivery"`
}

// Session is the transient state of one wizard run.
type Session struct {
	ID           string     `json:"id"`
	Target       Target     `json:"target"`
	Options      Options    `json:"options"`
	Step         Step       `json:"step"`
	Pizzas       [][]string `json:"pizzas"`
	Current      int        `json:"current"`
	PremiumCount int        `json:"premium_count"`
	DrinkID      string     `json:"drink_id,omitempty"`
	BorderID     string     `json:"border_id,omitempty"`
}

// NewPizza starts a session for a single pizza of the given size.
func NewPizza(size pricing.SizeSpec, opts Options) (*Session, error) {
	return start(Target{
		Kind:       models.ItemPizza,
		Name:       "Pizza " + string(size.Size),
		Size:       size,
		BasePrice:  size.BasePrice,
		PizzaCount: 1,
	}, opts)
}

// NewCombo starts a session for a combo. Flavor and drink options are
// filtered through the combo's allow-lists: a nil list admits every option,
// an empty list admits none.
func NewCombo(combo models.Combo, opts Options) (*Session, error) {
	size, err := pricing.LookupSize(combo.PizzaSize)
	if err != nil {
		return nil, err
	}
	filtered := opts
	filtered.Flavors = nil
	for _, f := range opts.Flavors {
		if combo.AllowsFlavor(f.ID) {
			filtered.Flavors = append(filtered.Flavors, f)
		}
	}
	filtered.Drinks = nil
	for _, d := range opts.Drinks {
		if combo.AllowsDrink(d.ID) {
			filtered.Drinks = append(filtered.Drinks, d)
		}
	}
	return start(Target{
		Kind:          models.ItemCombo,
		RefID:         combo.ID,
		Name:          combo.Name,
		Size:          size,
		BasePrice:     combo.ComboPrice,
		PizzaCount:    combo.PizzaCount,
		IncludesDrink: combo.IncludesDrink,
		FreeDelivery:  combo.FreeDelivery,
	}, filtered)
}

// start refuses targets with pizzas when no flavor can be picked for them.
func start(target Target, opts Options) (*Session, error) {
	if target.PizzaCount > 0 && len(opts.Flavors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlavorsAvailable, target.Name)
	}
	s := &Session{ID: uuid.New().String(), Target: target, Options: opts}
	s.reset()
	return s, nil
}

func (s *Session) needsFlavors() bool {
	return s.Target.PizzaCount > 0
}

func (s *Session) needsDrinks() bool {
	return s.Target.Kind == models.ItemCombo && s.Target.IncludesDrink && len(s.Options.Drinks) > 0
}

func (s *Session) needsBorder() bool {
	return s.Target.PizzaCount > 0 && len(s.Options.Borders) > 0
}

// enter moves to the first step at or after step whose precondition holds.
func (s *Session) enter(step Step) {
	switch step {
	case StepFlavors:
		if s.needsFlavors() {
			s.Step = StepFlavors
			return
		}
		s.enter(StepDrinks)
	case StepDrinks:
		if s.needsDrinks() {
			s.Step = StepDrinks
			return
		}
		s.enter(StepBorder)
	case StepBorder:
		if s.needsBorder() {
			s.Step = StepBorder
			if s.BorderID == "" {
				s.BorderID = s.defaultBorder()
			}
			return
		}
		s.Step = StepDone
	default:
		s.Step = StepDone
	}
}

func (s *Session) defaultBorder() string {
	for _, b := range s.Options.Borders {
		if b.Price.IsZero() {
			return b.ID
		}
	}
	return ""
}

func (s *Session) reset() {
	n := s.Target.PizzaCount
	if n < 0 {
		n = 0
	}
	s.Pizzas = make([][]string, n)
	s.Current = 0
	s.PremiumCount = 0
	s.DrinkID = ""
	s.BorderID = ""
	s.enter(StepFlavors)
}

// Cancel discards every selection and rewinds to the first step.
func (s *Session) Cancel() {
	s.reset()
}

// MaxFlavors is the flavor limit per pizza.
func (s *Session) MaxFlavors() int {
	return s.Target.Size.MaxFlavors
}

// Selected returns the flavor ids chosen for the pizza being edited.
func (s *Session) Selected() []string {
	if s.Current >= len(s.Pizzas) {
		return nil
	}
	return s.Pizzas[s.Current]
}

// CanSelectMore reports whether another flavor fits the current pizza.
func (s *Session) CanSelectMore() bool {
	return s.Step == StepFlavors && len(s.Selected()) < s.MaxFlavors()
}

// ToggleFlavor selects a flavor for the current pizza, or deselects it if it
// is already selected. Selecting past the size limit fails without touching
// the session.
func (s *Session) ToggleFlavor(id string) error {
	if s.Step != StepFlavors {
		return fmt.Errorf("%w: toggle flavor in %s", ErrWrongStep, s.Step)
	}
	flavor, ok := s.flavor(id)
	if !ok {
		return fmt.Errorf("%w: flavor %s", ErrUnknownOption, id)
	}
	selected := s.Pizzas[s.Current]
	for i, fid := range selected {
		if fid == id {
			s.Pizzas[s.Current] = append(selected[:i:i], selected[i+1:]...)
			if flavor.Premium {
				s.PremiumCount--
			}
			return nil
		}
	}
	if len(selected) >= s.MaxFlavors() {
		return ErrTooManyFlavors
	}
	s.Pizzas[s.Current] = append(selected, id)
	if flavor.Premium {
		s.PremiumCount++
	}
	return nil
}

// SelectDrink picks the combo drink.
func (s *Session) SelectDrink(id string) error {
	if s.Step != StepDrinks {
		return fmt.Errorf("%w: select drink in %s", ErrWrongStep, s.Step)
	}
	if _, ok := s.drink(id); !ok {
		return fmt.Errorf("%w: drink %s", ErrUnknownOption, id)
	}
	s.DrinkID = id
	return nil
}

// SelectBorder picks the border option.
func (s *Session) SelectBorder(id string) error {
	if s.Step != StepBorder {
		return fmt.Errorf("%w: select border in %s", ErrWrongStep, s.Step)
	}
	if _, ok := s.border(id); !ok {
		return fmt.Errorf("%w: border %s", ErrUnknownOption, id)
	}
	s.BorderID = id
	return nil
}

// Next confirms the current step. In the flavor step of a multi-pizza combo
// it advances to the next pizza before leaving the step.
func (s *Session) Next() error {
	switch s.Step {
	case StepFlavors:
		if len(s.Selected()) == 0 {
			return ErrNoFlavorSelected
		}
		if s.Current < len(s.Pizzas)-1 {
			s.Current++
			return nil
		}
		s.enter(StepDrinks)
	case StepDrinks:
		if s.DrinkID == "" {
			return ErrNoDrinkSelected
		}
		s.enter(StepBorder)
	case StepBorder:
		if s.BorderID == "" {
			return ErrNoBorderSelected
		}
		s.Step = StepDone
	default:
		return fmt.Errorf("%w: next in %s", ErrWrongStep, s.Step)
	}
	return nil
}

// Price is the running price of the configured item.
func (s *Session) Price() decimal.Decimal {
	border := decimal.Zero
	if b, ok := s.border(s.BorderID); ok {
		border = b.Price
	}
	if s.Target.Kind == models.ItemCombo {
		return pricing.ComboPrice(s.Target.BasePrice, s.PremiumCount, s.Options.Surcharge, border, s.Target.PizzaCount)
	}
	return pricing.PizzaPrice(s.Target.Size, s.PremiumCount, s.Options.Surcharge, border)
}

// Item composes the finished cart line.
func (s *Session) Item() (cart.Item, error) {
	if s.Step != StepDone {
		return cart.Item{}, ErrNotFinished
	}

	var flavors []string
	for i, ids := range s.Pizzas {
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			f, _ := s.flavor(id)
			names = append(names, f.Name)
		}
		if len(names) == 0 {
			continue
		}
		if len(s.Pizzas) > 1 {
			flavors = append(flavors, fmt.Sprintf("Pizza %d: %s", i+1, strings.Join(names, " / ")))
		} else {
			flavors = append(flavors, names...)
		}
	}

	info := []string{"Size " + string(s.Target.Size.Size)}
	if d, ok := s.drink(s.DrinkID); ok {
		info = append(info, "Drink "+d.Name)
	}
	if b, ok := s.border(s.BorderID); ok && !b.Price.IsZero() {
		info = append(info, "Border "+b.Name)
	}

	name := s.Target.Name
	if s.Target.Kind == models.ItemPizza && len(flavors) > 0 {
		name = fmt.Sprintf("%s - %s", name, strings.Join(flavors, " / "))
	}

	return cart.Item{
		Type:         s.Target.Kind,
		RefID:        s.Target.RefID,
		Name:         name,
		Price:        s.Price(),
		Quantity:     1,
		Flavors:      flavors,
		SizeInfo:     strings.Join(info, ", "),
		FreeDelivery: s.Target.FreeDelivery,
	}, nil
}

func (s *Session) flavor(id string) (Flavor, bool) {
	for _, f := range s.Options.Flavors {
		if f.ID == id {
			return f, true
		}
	}
	return Flavor{}, false
}

func (s *Session) drink(id string) (Drink, bool) {
	for _, d := range s.Options.Drinks {
		if d.ID == id {
			return d, true
		}
	}
	return Drink{}, false
}

func (s *Session) border(id string) (Border, bool) {
	for _, b := range s.Options.Borders {
		if b.ID == id {
			return b, true
		}
	}
	return Border{}, false
}
