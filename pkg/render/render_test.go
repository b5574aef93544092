package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/erdviz/pkg/erd"
	errs "github.com/matzehuels/erdviz/pkg/errors"
)

func sampleSchema() *erd.Schema {
	s := erd.NewSchema("shop")
	acct := s.AddEntity("Account", "accounts")
	acct.AddAttribute(erd.Attribute{Name: "id", Type: "integer", PrimaryKey: true})
	acct.AddAttribute(erd.Attribute{Name: "email", Type: "string", Nullable: true})
	order := s.AddEntity("Order", "orders")
	order.AddAttribute(erd.Attribute{Name: "account_id", Type: "integer"})
	s.AddRelationship(erd.Relationship{From: "Order", To: "Account", Label: "account_id"})
	return s
}

func TestStyleMerge(t *testing.T) {
	base := Style{"margin": 5, "color": "red"}
	got := base.Merge(Style{"color": "blue", "style": "filled"})

	if got["margin"] != 5 || got["color"] != "blue" || got["style"] != "filled" {
		t.Errorf("Merge = %v", got)
	}
	if base["color"] != "red" {
		t.Error("Merge must not modify the receiver")
	}
	if len(Style(nil).Clone()) != 0 {
		t.Error("Clone of nil should be empty")
	}
}

func TestToDOTBase(t *testing.T) {
	dot, err := ToDOT(sampleSchema(), nil, Options{ShowTypes: true, Title: "shop"})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph ERD {",
		"rankdir=LR;",
		`label="shop";`,
		`"Account" [label=<<TABLE BGCOLOR="white"`,
		`<TD ALIGN="left"><U>id</U> <FONT COLOR="grey40">integer</FONT></TD>`,
		`email <FONT COLOR="grey40">string?</FONT>`,
		`"Order" -> "Account" [label="account_id"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "subgraph") {
		t.Error("BaseStyler should not produce clusters")
	}
}

type clusteringStyler struct {
	BaseStyler
	keys map[string]string
	err  error
}

func (c clusteringStyler) ClusterKey(e *erd.Entity) string { return c.keys[e.Name] }

func (c clusteringStyler) ClusterAttributes(e *erd.Entity) (Style, error) {
	if c.err != nil {
		return nil, c.err
	}
	return Style{"style": "filled", "margin": 10}, nil
}

func TestToDOTClusters(t *testing.T) {
	s := sampleSchema()
	s.AddEntity("Invoice", "invoices").AddAttribute(erd.Attribute{Name: "total"})

	styler := clusteringStyler{keys: map[string]string{
		"Account": "pack: billing",
		"Invoice": "pack: billing",
		"Order":   "gem: spree",
	}}
	dot, err := ToDOT(s, styler, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	gem := strings.Index(dot, `label="gem: spree"`)
	pack := strings.Index(dot, `label="pack: billing"`)
	if gem < 0 || pack < 0 {
		t.Fatalf("missing cluster labels:\n%s", dot)
	}
	if gem > pack {
		t.Error("clusters should be ordered by key")
	}
	if !strings.Contains(dot, "margin=10;") || !strings.Contains(dot, `style="filled";`) {
		t.Errorf("cluster attributes not emitted:\n%s", dot)
	}
	if strings.Count(dot, "subgraph") != 2 {
		t.Errorf("want 2 clusters:\n%s", dot)
	}
}

func TestToDOTPropagatesStylerError(t *testing.T) {
	boom := errs.New(errs.ErrCodeConfiguration, "bad rules")
	styler := clusteringStyler{keys: map[string]string{"Account": "x"}, err: boom}

	_, err := ToDOT(sampleSchema(), styler, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("ToDOT error = %v, want %v", err, boom)
	}
}

func TestToDOTEscapesHTML(t *testing.T) {
	s := erd.NewSchema("x")
	s.AddEntity("A<B>", "").AddAttribute(erd.Attribute{Name: "x&y"})
	dot, err := ToDOT(s, BaseStyler{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "A&lt;B&gt;") || !strings.Contains(dot, "x&amp;y") {
		t.Errorf("names not escaped:\n%s", dot)
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"svg", []string{"svg"}, false},
		{"all", []string{"dot", "svg", "png"}, false},
		{"pdf unsupported", []string{"pdf"}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	out, err := Render(context.Background(), "digraph{}", FormatDOT)
	if err != nil || string(out) != "digraph{}" {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
	if _, err := Render(context.Background(), "digraph{}", "gif"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Error("missing viewBox should be left unchanged")
	}
}
