package guild

// roleTable maps recognized guild roles to a profession and rank.
// Order matters: a member holding several craft roles always resolves to the
// first match, supervisor roles before worker roles.
var roleTable = []struct {
	Role       string
	Profession string
	Rank       Rank
}{
	{"Sastre Maestro", "Sastre", RankSupervisor},
	{"Peletero Maestro", "Peletero", RankSupervisor},
	{"Herrero Maestro", "Herrero", RankSupervisor},
	{"Alquimista Maestro", "Alquimista", RankSupervisor},
	{"Cocinero Maestro", "Cocinero", RankSupervisor},
	{"Joyero Maestro", "Joyero", RankSupervisor},
	{"Sastre", "Sastre", RankWorker},
	{"Peletero", "Peletero", RankWorker},
	{"Herrero", "Herrero", RankWorker},
	{"Alquimista", "Alquimista", RankWorker},
	{"Cocinero", "Cocinero", RankWorker},
	{"Joyero", "Joyero", RankWorker},
}

// Resolve derives the caller's profession and rank from their role names.
// Callers with no recognized role get a zero profession and rank and are
// unauthorized for any profession-gated operation.
func Resolve(callerID string, roleNames []string) Actor {
	held := make(map[string]bool, len(roleNames))
	for _, r := range roleNames {
		held[r] = true
	}
	for _, e := range roleTable {
		if held[e.Role] {
			return Actor{ID: callerID, Profession: e.Profession, Rank: e.Rank}
		}
	}
	return Actor{ID: callerID}
}

// WorkerRole returns the role a member must hold to receive assignments in a
// profession. Used to filter artisan candidates when a supervisor assigns.
func WorkerRole(profession string) (string, bool) {
	for _, e := range roleTable {
		if e.Rank == RankWorker && e.Profession == profession {
			return e.Role, true
		}
	}
	return "", false
}
