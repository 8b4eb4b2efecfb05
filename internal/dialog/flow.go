// Package dialog drives the multi-step item picker as an explicit
// conversation state machine keyed by a session id. Each step takes the
// stored state plus one input and yields the next state and the prompt to
// show, so nothing depends on closures surviving between interactions.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/guildsmith/craftbot/internal/guild"
)

type Step string

const (
	StepCategory Step = "category"
	StepType     Step = "type"
	StepItem     Step = "item"
	StepLevel    Step = "level"
	StepQuality  Step = "quality"
	StepQuantity Step = "quantity"
)

// ErrExpired means the session is gone, either never started or past its
// TTL; the user has to start over.
var ErrExpired = errors.New("dialog session expired")

// State is everything collected so far. Step names the input we are waiting
// for.
type State struct {
	UserID   string `json:"user_id"`
	Step     Step   `json:"step"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Level    string `json:"level,omitempty"`
	Quality  string `json:"quality,omitempty"`
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Prompt is what the UI renders next. Done is set once, together with the
// created order.
type Prompt struct {
	Step    Step         `json:"step,omitempty"`
	Message string       `json:"message"`
	Options []Option     `json:"options,omitempty"`
	Done    bool         `json:"done,omitempty"`
	Order   *guild.Order `json:"order,omitempty"`
}

type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Put(ctx context.Context, sessionID string, st State) error
	Delete(ctx context.Context, sessionID string) error
}

type OrderCreator interface {
	Create(ctx context.Context, requesterID string, sel guild.Selection) (guild.Order, error)
}

type Manager struct {
	Sessions Store
	Catalog  guild.Catalog
	Orders   OrderCreator
}

// Start opens a session for the user and returns the category prompt.
func (m *Manager) Start(ctx context.Context, userID string) (string, Prompt, error) {
	categories, err := m.Catalog.Categories(ctx)
	if err != nil {
		return "", Prompt{}, err
	}
	if len(categories) == 0 {
		return "", Prompt{}, fmt.Errorf("%w: no crafting categories available", guild.ErrValidation)
	}
	sessionID := uuid.NewString()
	st := State{UserID: userID, Step: StepCategory}
	if err := m.Sessions.Put(ctx, sessionID, st); err != nil {
		return "", Prompt{}, err
	}
	return sessionID, Prompt{
		Step:    StepCategory,
		Message: "Step 1: pick the item category",
		Options: valueOptions(categories),
	}, nil
}

// Advance feeds one input into the session and returns the next prompt.
func (m *Manager) Advance(ctx context.Context, sessionID, input string) (Prompt, error) {
	st, err := m.Sessions.Get(ctx, sessionID)
	if err != nil {
		return Prompt{}, err
	}

	var next State
	var prompt Prompt
	switch st.Step {
	case StepCategory:
		next, prompt, err = m.pickCategory(ctx, st, input)
	case StepType:
		next, prompt, err = m.pickType(ctx, st, input)
	case StepItem:
		next, prompt, err = m.pickItem(ctx, st, input)
	case StepLevel:
		next, prompt, err = m.pickLevel(ctx, st, input)
	case StepQuality:
		next, prompt, err = m.pickQuality(ctx, st, input)
	case StepQuantity:
		return m.submit(ctx, sessionID, st, input)
	default:
		return Prompt{}, ErrExpired
	}
	if err != nil {
		return Prompt{}, err
	}
	if err := m.Sessions.Put(ctx, sessionID, next); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

func (m *Manager) pickCategory(ctx context.Context, st State, category string) (State, Prompt, error) {
	types, err := m.Catalog.Types(ctx, category)
	if err != nil {
		return State{}, Prompt{}, err
	}
	if len(types) == 0 {
		return State{}, Prompt{}, fmt.Errorf("%w: no item types in category %q", guild.ErrValidation, category)
	}
	st.Category = category
	st.Step = StepType
	return st, Prompt{
		Step:    StepType,
		Message: fmt.Sprintf("Step 2: pick the type of %s", category),
		Options: valueOptions(types),
	}, nil
}

func (m *Manager) pickType(ctx context.Context, st State, itemType string) (State, Prompt, error) {
	recipes, err := m.Catalog.ByCategoryAndType(ctx, st.Category, itemType)
	if err != nil {
		return State{}, Prompt{}, err
	}
	if len(recipes) == 0 {
		return State{}, Prompt{}, fmt.Errorf("%w: no items of type %q", guild.ErrValidation, itemType)
	}
	opts := make([]Option, 0, len(recipes))
	for _, rec := range recipes {
		opts = append(opts, Option{Label: rec.Name, Value: rec.RecipeID})
	}
	st.Type = itemType
	st.Step = StepItem
	return st, Prompt{
		Step:    StepItem,
		Message: "Step 3: pick the item",
		Options: opts,
	}, nil
}

func (m *Manager) pickItem(ctx context.Context, st State, recipeID string) (State, Prompt, error) {
	rec, err := m.Catalog.ByRecipeID(ctx, recipeID)
	if err != nil {
		return State{}, Prompt{}, fmt.Errorf("%w: unknown item", guild.ErrValidation)
	}
	if len(rec.Variations) == 0 {
		return State{}, Prompt{}, fmt.Errorf("%w: recipe %q has no levels", guild.ErrValidation, recipeID)
	}
	opts := make([]Option, 0, len(rec.Variations))
	for _, v := range rec.Variations {
		opts = append(opts, Option{Label: "Level " + v.LevelName, Value: v.LevelName})
	}
	st.RecipeID = recipeID
	st.Step = StepLevel
	return st, Prompt{
		Step:    StepLevel,
		Message: fmt.Sprintf("Step 4: pick the crafting level for %s", rec.Name),
		Options: opts,
	}, nil
}

func (m *Manager) pickLevel(ctx context.Context, st State, level string) (State, Prompt, error) {
	rec, err := m.Catalog.ByRecipeID(ctx, st.RecipeID)
	if err != nil {
		return State{}, Prompt{}, fmt.Errorf("%w: unknown item", guild.ErrValidation)
	}
	v, ok := rec.Variation(level)
	if !ok || len(v.QualityOptions) == 0 {
		return State{}, Prompt{}, fmt.Errorf("%w: no quality options for level %q", guild.ErrValidation, level)
	}
	opts := make([]Option, 0, len(v.QualityOptions))
	for _, q := range v.QualityOptions {
		opts = append(opts, Option{Label: q.QualityName, Value: q.QualityName})
	}
	st.Level = level
	st.Step = StepQuality
	return st, Prompt{
		Step:    StepQuality,
		Message: "Step 5: pick the desired quality",
		Options: opts,
	}, nil
}

func (m *Manager) pickQuality(ctx context.Context, st State, quality string) (State, Prompt, error) {
	rec, err := m.Catalog.ByRecipeID(ctx, st.RecipeID)
	if err != nil {
		return State{}, Prompt{}, fmt.Errorf("%w: unknown item", guild.ErrValidation)
	}
	v, ok := rec.Variation(st.Level)
	if !ok || !v.HasQuality(quality) {
		return State{}, Prompt{}, fmt.Errorf("%w: quality %q not offered", guild.ErrValidation, quality)
	}
	st.Quality = quality
	st.Step = StepQuantity
	return st, Prompt{
		Step:    StepQuantity,
		Message: fmt.Sprintf("Quality %s. How many do you need?", quality),
	}, nil
}

func (m *Manager) submit(ctx context.Context, sessionID string, st State, input string) (Prompt, error) {
	qty, err := strconv.Atoi(input)
	if err != nil || qty <= 0 {
		return Prompt{}, fmt.Errorf("%w: quantity must be a positive number", guild.ErrValidation)
	}
	o, err := m.Orders.Create(ctx, st.UserID, guild.Selection{
		RecipeID: st.RecipeID,
		Level:    st.Level,
		Quality:  st.Quality,
		Quantity: qty,
	})
	if err != nil {
		return Prompt{}, err
	}
	// best effort: the session has served its purpose either way
	_ = m.Sessions.Delete(ctx, sessionID)
	return Prompt{
		Done:  true,
		Order: &o,
		Message: fmt.Sprintf("Order placed: %s, level %s (%s) x%d for profession %s",
			o.ItemName, o.Level, o.Quality, o.Quantity, o.Profession),
	}, nil
}

func valueOptions(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Label: v, Value: v})
	}
	return opts
}
