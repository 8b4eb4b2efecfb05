package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/guildsmith/craftbot/internal/guild"
)

type memSessions struct {
	states map[string]State
}

func newMemSessions() *memSessions { return &memSessions{states: map[string]State{}} }

func (s *memSessions) Get(_ context.Context, id string) (State, error) {
	st, ok := s.states[id]
	if !ok {
		return State{}, ErrExpired
	}
	return st, nil
}

func (s *memSessions) Put(_ context.Context, id string, st State) error {
	s.states[id] = st
	return nil
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	delete(s.states, id)
	return nil
}

type stubCatalog struct {
	recipe guild.Recipe
}

func (c *stubCatalog) Categories(context.Context) ([]string, error) {
	return []string{"Armadura", "Arma"}, nil
}

func (c *stubCatalog) Types(_ context.Context, category string) ([]string, error) {
	if category != c.recipe.Category {
		return nil, nil
	}
	return []string{c.recipe.Type}, nil
}

func (c *stubCatalog) ByCategoryAndType(_ context.Context, category, itemType string) ([]guild.Recipe, error) {
	if category != c.recipe.Category || itemType != c.recipe.Type {
		return nil, nil
	}
	return []guild.Recipe{c.recipe}, nil
}

func (c *stubCatalog) ByRecipeID(_ context.Context, id string) (guild.Recipe, error) {
	if id != c.recipe.RecipeID {
		return guild.Recipe{}, guild.ErrNotFound
	}
	return c.recipe, nil
}

type stubCreator struct {
	got  guild.Selection
	user string
}

func (c *stubCreator) Create(_ context.Context, requesterID string, sel guild.Selection) (guild.Order, error) {
	c.user, c.got = requesterID, sel
	return guild.Order{
		ID:          "order-1",
		ItemName:    "Alba Robe",
		Level:       sel.Level,
		Quality:     sel.Quality,
		Quantity:    sel.Quantity,
		Profession:  "Sastre",
		RequesterID: requesterID,
		Status:      guild.StatusPending,
	}, nil
}

func newTestManager() (*Manager, *memSessions, *stubCreator) {
	sessions := newMemSessions()
	creator := &stubCreator{}
	m := &Manager{
		Sessions: sessions,
		Catalog: &stubCatalog{recipe: guild.Recipe{
			RecipeID:   "ARM_TELA_ALBA",
			Name:       "Alba Robe",
			Category:   "Armadura",
			Type:       "Tela",
			Profession: "Sastre",
			Variations: []guild.Variation{
				{LevelName: "III", QualityOptions: []guild.QualityOption{{QualityName: "Común"}, {QualityName: "Rara"}}},
			},
		}},
		Orders: creator,
	}
	return m, sessions, creator
}

func TestManager_FullFlow(t *testing.T) {
	ctx := context.Background()
	m, _, creator := newTestManager()

	sessionID, prompt, err := m.Start(ctx, "U1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if prompt.Step != StepCategory || len(prompt.Options) != 2 {
		t.Fatalf("start prompt = %+v", prompt)
	}

	steps := []struct {
		input    string
		wantStep Step
	}{
		{"Armadura", StepType},
		{"Tela", StepItem},
		{"ARM_TELA_ALBA", StepLevel},
		{"III", StepQuality},
		{"Rara", StepQuantity},
	}
	for _, s := range steps {
		prompt, err = m.Advance(ctx, sessionID, s.input)
		if err != nil {
			t.Fatalf("Advance(%q): %v", s.input, err)
		}
		if prompt.Step != s.wantStep {
			t.Errorf("Advance(%q) step = %s, want %s", s.input, prompt.Step, s.wantStep)
		}
	}

	prompt, err = m.Advance(ctx, sessionID, "3")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !prompt.Done || prompt.Order == nil {
		t.Fatalf("final prompt = %+v, want done with order", prompt)
	}
	want := guild.Selection{RecipeID: "ARM_TELA_ALBA", Level: "III", Quality: "Rara", Quantity: 3}
	if creator.got != want {
		t.Errorf("created selection = %+v, want %+v", creator.got, want)
	}
	if creator.user != "U1" {
		t.Errorf("created for %q, want U1", creator.user)
	}

	// the session is gone once the order is placed
	if _, err := m.Advance(ctx, sessionID, "anything"); !errors.Is(err, ErrExpired) {
		t.Errorf("advance after submit error = %v, want ErrExpired", err)
	}
}

func TestManager_Advance_Misses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		inputs []string
	}{
		{"unknown category", []string{"Monturas"}},
		{"unknown type", []string{"Armadura", "Placas"}},
		{"unknown item", []string{"Armadura", "Tela", "ARM_NOPE"}},
		{"unknown level", []string{"Armadura", "Tela", "ARM_TELA_ALBA", "IX"}},
		{"unknown quality", []string{"Armadura", "Tela", "ARM_TELA_ALBA", "III", "Legendaria"}},
		{"bad quantity", []string{"Armadura", "Tela", "ARM_TELA_ALBA", "III", "Rara", "zero"}},
		{"negative quantity", []string{"Armadura", "Tela", "ARM_TELA_ALBA", "III", "Rara", "-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestManager()
			sessionID, _, err := m.Start(ctx, "U1")
			if err != nil {
				t.Fatalf("Start: %v", err)
			}
			for i, input := range tt.inputs {
				_, err = m.Advance(ctx, sessionID, input)
				if i < len(tt.inputs)-1 {
					if err != nil {
						t.Fatalf("Advance(%q): %v", input, err)
					}
					continue
				}
				if !errors.Is(err, guild.ErrValidation) {
					t.Errorf("Advance(%q) error = %v, want ErrValidation", input, err)
				}
			}
		})
	}
}

func TestManager_Advance_Expired(t *testing.T) {
	m, _, _ := newTestManager()
	if _, err := m.Advance(context.Background(), "no-such-session", "Armadura"); !errors.Is(err, ErrExpired) {
		t.Errorf("error = %v, want ErrExpired", err)
	}
}

// A failed step must not corrupt the stored state: the user can retry the
// same step with a valid input.
func TestManager_Advance_RetryAfterMiss(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager()

	sessionID, _, err := m.Start(ctx, "U1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.Advance(ctx, sessionID, "Monturas"); err == nil {
		t.Fatal("expected a miss for unknown category")
	}
	prompt, err := m.Advance(ctx, sessionID, "Armadura")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if prompt.Step != StepType {
		t.Errorf("retry step = %s, want %s", prompt.Step, StepType)
	}
}
