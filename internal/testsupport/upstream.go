package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Upstream fakes the GitHub API, the raw content host, and the image feed
// on one httptest server, using the default Evolution-X/OTA layout.
//
//	/api/repos/Evolution-X/OTA/branches
//	/api/repos/Evolution-X/OTA/contents/builds?ref=<branch>
//	/raw/Evolution-X/OTA/refs/heads/<branch>/builds/<device>.json
//	/images/<device>.png
type Upstream struct {
	server *httptest.Server

	mu sync.Mutex
	// Branches is returned by the branch listing in order.
	Branches []string
	// BranchStatus forces a status code for the branch listing when non-zero.
	BranchStatus int
	// Devices maps branch to directory entry names.
	Devices map[string][]string
	// Descriptors maps "<branch>/<device>" to the raw document body.
	Descriptors map[string]string
	// Images maps device to PNG bytes.
	Images map[string][]byte

	requests []string
}

// NewUpstream starts the fake server and registers cleanup.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{
		Devices:     map[string][]string{},
		Descriptors: map[string]string{},
		Images:      map[string][]byte{},
	}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.server.Close)
	return u
}

// URL returns the server root.
func (u *Upstream) URL() string {
	return u.server.URL
}

// Requests returns "METHOD path" for every request seen, in order.
func (u *Upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// RequestsWithPrefix counts requests whose path starts with prefix.
func (u *Upstream) RequestsWithPrefix(prefix string) int {
	count := 0
	for _, r := range u.Requests() {
		_, path, _ := strings.Cut(r, " ")
		if strings.HasPrefix(path, prefix) {
			count++
		}
	}
	return count
}

// Descriptor builds a single-entry document body.
func Descriptor(oem, download string, images ...string) string {
	if images == nil {
		images = []string{}
	}
	payload := map[string]any{
		"response": []map[string]any{{
			"oem":                         oem,
			"download":                    download,
			"initial_installation_images": images,
		}},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.Method+" "+r.URL.Path)
	u.mu.Unlock()

	const (
		branchesPath = "/api/repos/Evolution-X/OTA/branches"
		contentsPath = "/api/repos/Evolution-X/OTA/contents/builds"
		rawPrefix    = "/raw/Evolution-X/OTA/refs/heads/"
		imagesPrefix = "/images/"
	)

	u.mu.Lock()
	defer u.mu.Unlock()

	switch {
	case r.URL.Path == branchesPath:
		if u.BranchStatus != 0 && u.BranchStatus != http.StatusOK {
			http.Error(w, "branch listing unavailable", u.BranchStatus)
			return
		}
		entries := make([]map[string]string, 0, len(u.Branches))
		for _, b := range u.Branches {
			entries = append(entries, map[string]string{"name": b})
		}
		writeJSON(w, entries)
	case r.URL.Path == contentsPath:
		names, ok := u.Devices[r.URL.Query().Get("ref")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		entries := make([]map[string]string, 0, len(names))
		for _, name := range names {
			entries = append(entries, map[string]string{"name": name, "type": "file"})
		}
		writeJSON(w, entries)
	case strings.HasPrefix(r.URL.Path, rawPrefix):
		rest := strings.TrimPrefix(r.URL.Path, rawPrefix)
		branch, file, ok := strings.Cut(rest, "/builds/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		body, ok := u.Descriptors[branch+"/"+strings.TrimSuffix(file, ".json")]
		if !ok {
			http.Error(w, "404: Not Found", http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, body)
	case strings.HasPrefix(r.URL.Path, imagesPrefix):
		device := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, imagesPrefix), ".png")
		data, ok := u.Images[device]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
