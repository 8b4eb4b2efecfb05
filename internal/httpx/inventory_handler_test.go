package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guildsmith/craftbot/internal/guild"
)

type stubInventory struct {
	adjustResult guild.AdjustResult
	remaining    int
	entries      []guild.InventoryEntry
	names        []string

	gotName  string
	gotDelta int
	gotStock bool
}

func (s *stubInventory) Adjust(_ context.Context, name string, delta int) (guild.AdjustResult, int, error) {
	s.gotName, s.gotDelta = name, delta
	return s.adjustResult, s.remaining, nil
}

func (s *stubInventory) SetExact(_ context.Context, name string, qty int) (guild.AdjustResult, error) {
	s.gotName, s.gotDelta = name, qty
	return s.adjustResult, nil
}

func (s *stubInventory) ListAll(context.Context) ([]guild.InventoryEntry, error) {
	return s.entries, nil
}

func (s *stubInventory) SearchNames(_ context.Context, q string, onlyInStock bool) ([]string, error) {
	s.gotName, s.gotStock = q, onlyInStock
	return s.names, nil
}

func newInventoryServer(store *stubInventory) *httptest.Server {
	r := NewRouter()
	(&InventoryHandler{Store: store}).Register(r)
	return httptest.NewServer(r)
}

func TestInventoryHandler_RoleGate(t *testing.T) {
	srv := newInventoryServer(&stubInventory{})
	defer srv.Close()

	paths := []struct{ method, path, body string }{
		{http.MethodGet, "/inventory", ""},
		{http.MethodPost, "/inventory/add", `{"item_name":"Sword","cantidad":1}`},
		{http.MethodPost, "/inventory/withdraw", `{"item_name":"Sword","cantidad":1}`},
		{http.MethodPost, "/inventory/set", `{"item_name":"Sword","cantidad":1}`},
	}
	for _, p := range paths {
		resp := doReq(t, p.method, srv.URL+p.path, p.body, "U1", "VIP")
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want 403", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestInventoryHandler_Withdraw(t *testing.T) {
	t.Run("negates the quantity", func(t *testing.T) {
		store := &stubInventory{adjustResult: guild.AdjustSuccess, remaining: 3}
		srv := newInventoryServer(store)
		defer srv.Close()

		resp := doReq(t, http.MethodPost, srv.URL+"/inventory/withdraw",
			`{"item_name":"Sword","cantidad":5}`, "U1", "Herrero")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if store.gotName != "Sword" || store.gotDelta != -5 {
			t.Errorf("Adjust(%q, %d), want (Sword, -5)", store.gotName, store.gotDelta)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		srv := newInventoryServer(&stubInventory{})
		defer srv.Close()
		resp := doReq(t, http.MethodPost, srv.URL+"/inventory/withdraw",
			`{"item_name":"Sword","cantidad":-2}`, "U1", "Herrero")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestInventoryHandler_Add_Deleted(t *testing.T) {
	store := &stubInventory{adjustResult: guild.AdjustDeleted}
	srv := newInventoryServer(store)
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/inventory/add",
		`{"item_name":"Sword","cantidad":2}`, "U1", "Herrero")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Result guild.AdjustResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Result != guild.AdjustDeleted {
		t.Errorf("result = %s, want %s", got.Result, guild.AdjustDeleted)
	}
}

func TestInventoryHandler_Set(t *testing.T) {
	t.Run("rejects negative", func(t *testing.T) {
		srv := newInventoryServer(&stubInventory{})
		defer srv.Close()
		resp := doReq(t, http.MethodPost, srv.URL+"/inventory/set",
			`{"item_name":"Sword","cantidad":-1}`, "U1", "Herrero")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("zero removes the item", func(t *testing.T) {
		store := &stubInventory{adjustResult: guild.AdjustDeleted}
		srv := newInventoryServer(store)
		defer srv.Close()
		resp := doReq(t, http.MethodPost, srv.URL+"/inventory/set",
			`{"item_name":"Sword","cantidad":0}`, "U1", "Herrero")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if store.gotName != "Sword" || store.gotDelta != 0 {
			t.Errorf("SetExact(%q, %d), want (Sword, 0)", store.gotName, store.gotDelta)
		}
	})
}

func TestInventoryHandler_Search(t *testing.T) {
	store := &stubInventory{names: []string{"Iron Sword"}}
	srv := newInventoryServer(store)
	defer srv.Close()

	resp := doReq(t, http.MethodGet, srv.URL+"/inventory/search?q=iro&in_stock=true", "", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.gotName != "iro" || !store.gotStock {
		t.Errorf("SearchNames(%q, %v), want (iro, true)", store.gotName, store.gotStock)
	}
	var got struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Names) != 1 || got.Names[0] != "Iron Sword" {
		t.Errorf("names = %v", got.Names)
	}
}
