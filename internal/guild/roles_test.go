package guild

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		profession string
		rank       Rank
	}{
		{"supervisor role", []string{"Herrero Maestro"}, "Herrero", RankSupervisor},
		{"worker role", []string{"Sastre"}, "Sastre", RankWorker},
		{"supervisor wins over own worker role", []string{"Sastre", "Sastre Maestro"}, "Sastre", RankSupervisor},
		{"supervisor wins over other worker role", []string{"Joyero", "Cocinero Maestro"}, "Cocinero", RankSupervisor},
		{"two worker roles, table order wins", []string{"Joyero", "Peletero"}, "Peletero", RankWorker},
		{"unrecognized roles", []string{"Moderator", "VIP"}, "", ""},
		{"no roles", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Resolve("user-1", tt.roles)
			if a.ID != "user-1" {
				t.Errorf("Resolve() ID = %q, want %q", a.ID, "user-1")
			}
			if a.Profession != tt.profession {
				t.Errorf("Resolve() profession = %q, want %q", a.Profession, tt.profession)
			}
			if a.Rank != tt.rank {
				t.Errorf("Resolve() rank = %q, want %q", a.Rank, tt.rank)
			}
		})
	}
}

func TestResolve_Stable(t *testing.T) {
	roles := []string{"Cocinero", "Herrero", "Alquimista"}
	first := Resolve("u", roles)
	for i := 0; i < 10; i++ {
		if got := Resolve("u", roles); got != first {
			t.Fatalf("Resolve() not stable: got %+v, want %+v", got, first)
		}
	}
}

func TestActor_Authorized(t *testing.T) {
	if (Actor{ID: "u"}).Authorized() {
		t.Error("actor without profession should not be authorized")
	}
	if !(Actor{ID: "u", Profession: "Herrero", Rank: RankWorker}).Authorized() {
		t.Error("actor with profession should be authorized")
	}
}

func TestWorkerRole(t *testing.T) {
	role, ok := WorkerRole("Herrero")
	if !ok || role != "Herrero" {
		t.Errorf("WorkerRole(Herrero) = %q, %v", role, ok)
	}
	if _, ok := WorkerRole("Cartógrafo"); ok {
		t.Error("WorkerRole should not recognize an unknown profession")
	}
}
