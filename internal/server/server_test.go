package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdviz/pkg/cluster"
	"github.com/matzehuels/erdviz/pkg/highlight"
	"github.com/matzehuels/erdviz/pkg/locate"
	"github.com/matzehuels/erdviz/pkg/ownership"
	"github.com/matzehuels/erdviz/pkg/pipeline"
)

const schemaDoc = `{
  "name": "shop",
  "entities": [
    {"name": "Invoice", "attributes": [{"name": "id"}, {"name": "user_id"}]},
    {"name": "User", "attributes": [{"name": "id"}]}
  ],
  "relationships": [{"from": "Invoice", "to": "User", "label": "user_id"}]
}`

const rules = `[{"name_in": ["user_id"], "table_color": "#FFEEEE", "row_color": "#FF0000"}]`

func newTestServer(t *testing.T, colors string) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	classifier := &cluster.Classifier{
		Locator:   locate.MapLocator{"Invoice": "/usr/src/app/packs/billing/app/models/invoice.rb"},
		Owners:    ownership.NewRegistry(nil, logger),
		PackRoots: []cluster.Root{"/usr/src/app/packs/"},
	}
	base := pipeline.Options{Colors: highlight.StaticSource(colors), Namespaces: classifier}
	srv := New(pipeline.NewRunner(nil, logger), base, classifier, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response should carry a generated request ID")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, "")
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t, rules)
	resp, err := http.Post(ts.URL+"/render?format=dot", "application/json", strings.NewReader(schemaDoc))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{`label="pack: billing";`, `label="unknown";`, "#FFEEEE", "#FF0000"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("DOT missing %q\n%s", want, body)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		colors string
		url    string
		body   string
		status int
	}{
		{"bad format", "", "/render?format=pdf", schemaDoc, http.StatusBadRequest},
		{"bad schema", "", "/render?format=dot", `{"entities": [`, http.StatusBadRequest},
		{"dangling relationship", "", "/render?format=dot",
			`{"entities": [{"name": "A", "attributes": []}], "relationships": [{"from": "A", "to": "B"}]}`,
			http.StatusBadRequest},
		{"broken color rules", "null", "/render?format=dot", schemaDoc, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.colors)
			resp, err := http.Post(ts.URL+tt.url, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
				t.Errorf("error body = %+v, %v", e, err)
			}
		})
	}
}

func TestNamespaces(t *testing.T) {
	ts := newTestServer(t, "")
	tests := []struct {
		entity string
		want   string
		kind   string
	}{
		{"Invoice", "pack: billing", "pack"},
		{"Ghost", "unknown", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/namespaces/" + tt.entity)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var got namespaceResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Namespace != tt.want || got.Kind != tt.kind {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestColors(t *testing.T) {
	ts := newTestServer(t, rules)
	resp, err := http.Post(ts.URL+"/colors", "application/json", strings.NewReader(`{"names": ["user_id", "email"]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got colorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if c := got.Colors["user_id"]; c.TableColor != "#FFEEEE" || c.RowColor != "#FF0000" {
		t.Errorf("user_id = %+v", c)
	}
	if c := got.Colors["email"]; c.TableColor != highlight.Transparent || c.RowColor != highlight.Transparent {
		t.Errorf("email = %+v", c)
	}
}

func TestColorsBadRequest(t *testing.T) {
	ts := newTestServer(t, rules)
	resp, err := http.Post(ts.URL+"/colors", "application/json", strings.NewReader(`{"attrs": []}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
