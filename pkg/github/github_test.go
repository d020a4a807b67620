package github

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/nacl/box"
)

// newTestClient returns a Client pointed at a test server serving mux.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient("test-token", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestCurrentUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"jinhae8971"}`)
	})

	client := newTestClient(t, mux)
	login, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if login != "jinhae8971" {
		t.Errorf("CurrentUser() = %q, want %q", login, "jinhae8971")
	}
}

func TestCurrentUser_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	})

	client := newTestClient(t, mux)
	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("CurrentUser() expected error for bad credentials")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false, want true", err)
	}
}

func TestEnsureRepo_Existing(t *testing.T) {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"dash","full_name":"owner/dash"}`)
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		created = true
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, mux)
	outcome, err := client.EnsureRepo(context.Background(), RepoSpec{Owner: "owner", Name: "dash"})
	if err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}
	if outcome != RepoExisted {
		t.Errorf("EnsureRepo() outcome = %v, want RepoExisted", outcome)
	}
	if created {
		t.Error("EnsureRepo() issued a create call for an existing repository")
	}
}

func TestEnsureRepo_CreatesWhenAbsent(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"name":"dash"}`)
	})

	client := newTestClient(t, mux)
	outcome, err := client.EnsureRepo(context.Background(), RepoSpec{
		Owner:       "owner",
		Name:        "dash",
		Private:     false,
		Description: "market dashboard",
	})
	if err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}
	if outcome != RepoCreated {
		t.Errorf("EnsureRepo() outcome = %v, want RepoCreated", outcome)
	}
	if gotBody["name"] != "dash" {
		t.Errorf("create body name = %v, want dash", gotBody["name"])
	}
	if gotBody["description"] != "market dashboard" {
		t.Errorf("create body description = %v", gotBody["description"])
	}
}

func TestEnsureRepo_NameTakenIsSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Repository creation failed.","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`)
	})

	client := newTestClient(t, mux)
	outcome, err := client.EnsureRepo(context.Background(), RepoSpec{Owner: "owner", Name: "dash"})
	if err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}
	if outcome != RepoExisted {
		t.Errorf("EnsureRepo() outcome = %v, want RepoExisted", outcome)
	}
}

func TestEnablePages_AlreadyConfigured(t *testing.T) {
	updated := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/dash/pages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"GitHub Pages is already enabled."}`)
	})
	mux.HandleFunc("PUT /repos/owner/dash/pages", func(w http.ResponseWriter, r *http.Request) {
		updated = true
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)
	err := client.EnablePages(context.Background(), "owner", "dash", PagesSpec{Branch: "main", Path: "/"})
	if err != nil {
		t.Fatalf("EnablePages() error = %v, want nil for already-configured site", err)
	}
	if !updated {
		t.Error("EnablePages() did not fall back to updating the Pages source")
	}
}

func TestEnablePages_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/dash/pages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
	})

	client := newTestClient(t, mux)
	err := client.EnablePages(context.Background(), "owner", "dash", PagesSpec{Branch: "main", Path: "/"})
	if err == nil {
		t.Fatal("EnablePages() expected error for forbidden response")
	}
}

func TestPutSecret_SealsAgainstRepoKey(t *testing.T) {
	pub, priv, err := box.GenerateKey(crand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	var stored struct {
		EncryptedValue string `json:"encrypted_value"`
		KeyID          string `json:"key_id"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash/actions/secrets/public-key", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"key_id":"key-1","key":%q}`, base64.StdEncoding.EncodeToString(pub[:]))
	})
	mux.HandleFunc("PUT /repos/owner/dash/actions/secrets/ANTHROPIC_API_KEY", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
			t.Errorf("decode secret body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, mux)
	if err := client.PutSecret(context.Background(), "owner", "dash", "ANTHROPIC_API_KEY", "sk-ant-secret"); err != nil {
		t.Fatalf("PutSecret() error = %v", err)
	}
	if stored.KeyID != "key-1" {
		t.Errorf("secret key_id = %q, want key-1", stored.KeyID)
	}

	sealed, err := base64.StdEncoding.DecodeString(stored.EncryptedValue)
	if err != nil {
		t.Fatalf("decode sealed value: %v", err)
	}
	plain, ok := box.OpenAnonymous(nil, sealed, pub, priv)
	if !ok {
		t.Fatal("sealed value did not open against the repository key")
	}
	if string(plain) != "sk-ant-secret" {
		t.Errorf("unsealed value = %q, want sk-ant-secret", plain)
	}
}

func TestDispatchWorkflow(t *testing.T) {
	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/dash/actions/workflows/update.yml/dispatches", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Ref string `json:"ref"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode dispatch body: %v", err)
		}
		gotRef = body.Ref
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)
	if err := client.DispatchWorkflow(context.Background(), "owner", "dash", "update.yml", "main"); err != nil {
		t.Fatalf("DispatchWorkflow() error = %v", err)
	}
	if gotRef != "main" {
		t.Errorf("dispatch ref = %q, want main", gotRef)
	}
}

func TestUploadFile_UpdateSendsPriorSHA(t *testing.T) {
	var gotSHA string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash/contents/data/market_data.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"type":"file","sha":"abc123","path":"data/market_data.json"}`)
	})
	mux.HandleFunc("PUT /repos/owner/dash/contents/data/market_data.json", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SHA string `json:"sha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upload body: %v", err)
		}
		gotSHA = body.SHA
		fmt.Fprint(w, `{}`)
	})

	client := newTestClient(t, mux)
	err := client.UploadFile(context.Background(), "owner", "dash", "main", "data/market_data.json", []byte(`{}`), "update data")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if gotSHA != "abc123" {
		t.Errorf("upload sha = %q, want abc123", gotSHA)
	}
}

func TestUploadFile_CreateWhenMissing(t *testing.T) {
	putCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/dash/contents/data/market_data.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("PUT /repos/owner/dash/contents/data/market_data.json", func(w http.ResponseWriter, r *http.Request) {
		putCalled = true
		var body struct {
			SHA *string `json:"sha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upload body: %v", err)
		}
		if body.SHA != nil {
			t.Errorf("create request carried sha %q", *body.SHA)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	})

	client := newTestClient(t, mux)
	err := client.UploadFile(context.Background(), "owner", "dash", "main", "data/market_data.json", []byte(`{}`), "add data")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if !putCalled {
		t.Error("UploadFile() never issued the create request")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sk-ant-api-key", "sk-a****"},
		{"abcd", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
