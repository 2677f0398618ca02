package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/notify"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "splitledger-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	server := httptest.NewServer(NewRouter(store, jwtManager, notify.LogSender{}))
	t.Cleanup(server.Close)
	return server
}

// request sends a JSON request and decodes the response into out (if non-nil).
func request(t *testing.T, server *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

var phoneSeq int

func registerUser(t *testing.T, server *httptest.Server, email, name string) authResponse {
	t.Helper()
	phoneSeq++
	var resp authResponse
	status := request(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"phone":     fmt.Sprintf("+1555000%04d", phoneSeq),
		"full_name": name,
		"password":  "correct-horse",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register %s returned %d", email, status)
	}
	return resp
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)

	alice := registerUser(t, server, "alice@example.com", "Alice")
	if alice.Token == "" || alice.User.ID == "" {
		t.Fatal("register returned empty token or user ID")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "alice@example.com", "full_name": "Alice 2", "password": "longenough",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("status = %d, want 409", status)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "short@example.com", "full_name": "S", "password": "short",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-password",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("login and fetch profile", func(t *testing.T) {
		var login authResponse
		status := request(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "correct-horse",
		}, &login)
		if status != http.StatusOK {
			t.Fatalf("login returned %d", status)
		}

		var profile struct {
			Email string `json:"email"`
		}
		status = request(t, server, http.MethodGet, "/api/auth/profile", login.Token, nil, &profile)
		if status != http.StatusOK || profile.Email != "alice@example.com" {
			t.Errorf("profile = %d %+v", status, profile)
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		status := request(t, server, http.MethodGet, "/api/groups", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})
}

func TestExpenseAndBalanceFlow(t *testing.T) {
	server := newTestServer(t)

	alice := registerUser(t, server, "alice@example.com", "Alice")
	bob := registerUser(t, server, "bob@example.com", "Bob")
	carol := registerUser(t, server, "carol@example.com", "Carol")

	// Alice creates a group and adds the others.
	var group struct {
		ID string `json:"id"`
	}
	status := request(t, server, http.MethodPost, "/api/groups", alice.Token, map[string]string{
		"name": "Roommates",
	}, &group)
	if status != http.StatusCreated || group.ID == "" {
		t.Fatalf("create group = %d %+v", status, group)
	}

	for _, member := range []authResponse{bob, carol} {
		status := request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/members", alice.Token,
			map[string]string{"user_id": member.User.ID}, nil)
		if status != http.StatusOK {
			t.Fatalf("add member returned %d", status)
		}
	}

	t.Run("outsider cannot see group", func(t *testing.T) {
		dave := registerUser(t, server, "dave@example.com", "Dave")
		status := request(t, server, http.MethodGet, "/api/groups/"+group.ID, dave.Token, nil, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	// Alice pays 100.00 split equally three ways.
	var expense struct {
		ID           string `json:"id"`
		Participants []struct {
			UserID string `json:"user_id"`
			Amount string `json:"amount"`
		} `json:"participants"`
	}
	status = request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/expenses", alice.Token, map[string]any{
		"title":        "Groceries",
		"category":     "food",
		"amount":       "100.00",
		"split_method": "equal",
		"participants": []string{alice.User.ID, bob.User.ID, carol.User.ID},
	}, &expense)
	if status != http.StatusCreated {
		t.Fatalf("create expense returned %d", status)
	}
	if len(expense.Participants) != 3 {
		t.Fatalf("got %d participants, want 3", len(expense.Participants))
	}
	if expense.Participants[2].Amount != "33.34" {
		t.Errorf("last share = %s, want 33.34 (remainder)", expense.Participants[2].Amount)
	}

	t.Run("mismatched exact split rejected", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/expenses", alice.Token, map[string]any{
			"title":        "Broken",
			"amount":       "50.00",
			"split_method": "exact",
			"shares": []map[string]string{
				{"user_id": alice.User.ID, "amount": "20.00"},
				{"user_id": bob.User.ID, "amount": "20.00"},
			},
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	type balanceResponse struct {
		Balances  map[string]string `json:"balances"`
		Transfers []struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount string `json:"amount"`
		} `json:"suggested_transfers"`
		TotalOutstanding string `json:"total_outstanding"`
	}

	t.Run("balance and transfer plan", func(t *testing.T) {
		var balance balanceResponse
		status := request(t, server, http.MethodGet, "/api/groups/"+group.ID+"/balance", bob.Token, nil, &balance)
		if status != http.StatusOK {
			t.Fatalf("balance returned %d", status)
		}

		// Alice fronted 100.00 and owes her own 33.33 share.
		if balance.Balances[alice.User.ID] != "66.67" {
			t.Errorf("alice balance = %s, want 66.67", balance.Balances[alice.User.ID])
		}
		if balance.Balances[carol.User.ID] != "-33.34" {
			t.Errorf("carol balance = %s, want -33.34", balance.Balances[carol.User.ID])
		}
		if len(balance.Transfers) != 2 {
			t.Fatalf("got %d transfers, want 2", len(balance.Transfers))
		}
		// Largest debtor first, everything flows to Alice.
		if balance.Transfers[0].From != carol.User.ID || balance.Transfers[0].To != alice.User.ID {
			t.Errorf("first transfer = %+v, want carol -> alice", balance.Transfers[0])
		}
	})

	t.Run("settlement reduces balance", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/settlements", bob.Token, map[string]any{
			"to_user_id":     alice.User.ID,
			"amount":         "33.33",
			"payment_method": "online",
		}, nil)
		if status != http.StatusCreated {
			t.Fatalf("create settlement returned %d", status)
		}

		var balance balanceResponse
		request(t, server, http.MethodGet, "/api/groups/"+group.ID+"/balance", bob.Token, nil, &balance)
		if balance.Balances[bob.User.ID] != "0.00" {
			t.Errorf("bob balance after settling = %s, want 0.00", balance.Balances[bob.User.ID])
		}
		if len(balance.Transfers) != 1 {
			t.Errorf("got %d transfers after settlement, want 1", len(balance.Transfers))
		}
	})

	t.Run("pairwise debt", func(t *testing.T) {
		var debt struct {
			Amount string `json:"amount"`
		}
		path := fmt.Sprintf("/api/groups/%s/debts/%s", group.ID, alice.User.ID)
		status := request(t, server, http.MethodGet, path, carol.Token, nil, &debt)
		if status != http.StatusOK || debt.Amount != "33.34" {
			t.Errorf("pairwise debt = %d %+v, want 33.34", status, debt)
		}
	})

	t.Run("statistics", func(t *testing.T) {
		var stats struct {
			Count int    `json:"count"`
			Total string `json:"total"`
		}
		status := request(t, server, http.MethodGet, "/api/groups/"+group.ID+"/statistics", alice.Token, nil, &stats)
		if status != http.StatusOK || stats.Count != 1 || stats.Total != "100.00" {
			t.Errorf("statistics = %d %+v", status, stats)
		}
	})

	t.Run("reminder requires admin", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/reminders", bob.Token,
			map[string]string{"user_id": carol.User.ID}, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("admin sends reminder to debtor", func(t *testing.T) {
		status := request(t, server, http.MethodPost, "/api/groups/"+group.ID+"/reminders", alice.Token,
			map[string]string{"user_id": carol.User.ID, "tone": "friendly"}, nil)
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})

	t.Run("deleted expense leaves balance", func(t *testing.T) {
		status := request(t, server, http.MethodDelete, "/api/expenses/"+expense.ID, alice.Token, nil, nil)
		if status != http.StatusOK {
			t.Fatalf("delete returned %d", status)
		}

		var balance balanceResponse
		request(t, server, http.MethodGet, "/api/groups/"+group.ID+"/balance", alice.Token, nil, &balance)
		// Only the settlement remains: Bob paid Alice 33.33 against nothing.
		if balance.Balances[bob.User.ID] != "33.33" {
			t.Errorf("bob balance = %s, want 33.33", balance.Balances[bob.User.ID])
		}
	})
}
