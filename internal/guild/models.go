package guild

import "time"

// Order is one crafting request moving through the status pipeline.
type Order struct {
	ID          string    `json:"id"`
	ItemName    string    `json:"item_name"`
	RecipeID    string    `json:"recipe_id"`
	Level       string    `json:"level"`
	Quality     string    `json:"quality"`
	Quantity    int       `json:"cantidad"`
	Profession  string    `json:"oficio_requerido"`
	RequesterID string    `json:"solicitante_id"`
	AssigneeID  string    `json:"asignado_a_id,omitempty"` // empty until assigned
	Status      Status    `json:"estatus"`
	RequestedAt time.Time `json:"fecha_solicitud"`
}

// InventoryEntry is stock on hand for one item. An entry only exists while
// its quantity is strictly positive.
type InventoryEntry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Recipe is one craftable item from the externally curated catalog.
type Recipe struct {
	RecipeID   string      `json:"recipe_id"`
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Type       string      `json:"type"`
	Profession string      `json:"profession"`
	Variations []Variation `json:"variations"`
}

type Variation struct {
	LevelName      string          `json:"level_name"`
	QualityOptions []QualityOption `json:"quality_options"`
}

type QualityOption struct {
	QualityName string `json:"quality_name"`
}

// Variation returns the level variant with the given name.
func (r Recipe) Variation(levelName string) (Variation, bool) {
	for _, v := range r.Variations {
		if v.LevelName == levelName {
			return v, true
		}
	}
	return Variation{}, false
}

// HasQuality reports whether the variant offers the given quality.
func (v Variation) HasQuality(quality string) bool {
	for _, q := range v.QualityOptions {
		if q.QualityName == quality {
			return true
		}
	}
	return false
}

type Rank string

const (
	RankSupervisor Rank = "SUPERVISOR"
	RankWorker     Rank = "WORKER"
)

// Actor is the per-request view of a caller derived from their role set.
// Profession and Rank are empty when no craft role is recognized.
type Actor struct {
	ID         string
	Profession string
	Rank       Rank
}

func (a Actor) Authorized() bool { return a.Profession != "" }

func (a Actor) IsSupervisor() bool { return a.Rank == RankSupervisor }
