// Package access maps dashboard page paths to the role and permission
// requirements that gate them.
package access

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Redirect targets handed back to the UI
const (
	RedirectLogin        = "/login"
	RedirectSuspended    = "/account-suspended"
	RedirectUnauthorized = "/unauthorized"
)

// Rule gates every path at or below Prefix
type Rule struct {
	Prefix           string `yaml:"prefix" json:"prefix"`
	auth.Requirement `yaml:",inline"`
}

type file struct {
	Public []string `yaml:"public"`
	Routes []Rule   `yaml:"routes"`
}

// Table is an immutable route permission table
type Table struct {
	public []string
	rules  []Rule // longest prefix first
}

// Result is the answer to "may this session open this page"
type Result struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason"`
	Redirect string `json:"redirect,omitempty"`
}

// Load reads the table at filename, or the embedded default when filename is empty
func Load(filename string) (*Table, error) {
	if filename == "" {
		return Parse(defaultRoutes)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read route config: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded table
func Default() *Table {
	t, err := Parse(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("embedded route table is invalid: %v", err))
	}
	return t
}

// Parse builds a Table from YAML
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse route config: %w", err)
	}

	seen := make(map[string]bool, len(f.Routes))
	for i := range f.Routes {
		r := &f.Routes[i]
		r.Prefix = normalize(r.Prefix)
		if seen[r.Prefix] {
			return nil, fmt.Errorf("duplicate route prefix %q", r.Prefix)
		}
		seen[r.Prefix] = true

		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("route %q: unknown role %q", r.Prefix, role)
			}
		}
		for _, p := range r.Permissions {
			if !models.IsValidPermission(p) {
				return nil, fmt.Errorf("route %q: unknown permission %q", r.Prefix, p)
			}
		}
	}

	sort.SliceStable(f.Routes, func(i, j int) bool {
		return len(f.Routes[i].Prefix) > len(f.Routes[j].Prefix)
	})

	public := make([]string, 0, len(f.Public))
	for _, p := range f.Public {
		public = append(public, normalize(p))
	}

	return &Table{public: public, rules: f.Routes}, nil
}

func normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// underPrefix matches on whole path segments, so /admin does not cover /administrator
func underPrefix(p, prefix string) bool {
	if prefix == "/" || p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

// Match returns the most specific rule covering p
func (t *Table) Match(p string) (Rule, bool) {
	p = normalize(p)
	for _, r := range t.rules {
		if underPrefix(p, r.Prefix) {
			return r, true
		}
	}
	return Rule{}, false
}

// RequiresAuth is false only for the public pages
func (t *Table) RequiresAuth(p string) bool {
	p = normalize(p)
	for _, pub := range t.public {
		if underPrefix(p, pub) {
			return false
		}
	}
	return true
}

// RequiresRole returns the roles of the matching rule, or nil
func (t *Table) RequiresRole(p string) []models.Role {
	r, ok := t.Match(p)
	if !ok || len(r.Roles) == 0 {
		return nil
	}
	return r.Roles
}

// Rules returns a copy of the rules, most specific first
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Check decides whether s may open p and where to send it when not
func (t *Table) Check(s *auth.Session, p string) Result {
	p = normalize(p)

	if !t.RequiresAuth(p) {
		return Result{Allowed: true, Reason: auth.ReasonAllowed}
	}

	if s == nil || s.Profile == nil {
		return Result{
			Allowed:  false,
			Reason:   auth.ReasonUnauthenticated,
			Redirect: RedirectLogin + "?redirectTo=" + url.QueryEscape(p),
		}
	}

	rule, ok := t.Match(p)
	if !ok {
		return Result{Allowed: true, Reason: auth.ReasonAllowed}
	}

	d := auth.Decide(s, rule.Requirement)
	res := Result{Allowed: d.Allowed, Reason: d.Reason}

	switch d.Reason {
	case auth.ReasonAllowed:
	case auth.ReasonAccountSuspended, auth.ReasonAccountBanned, auth.ReasonAccountPending:
		res.Redirect = RedirectSuspended
	case auth.ReasonUnauthenticated:
		res.Redirect = RedirectLogin
	default:
		res.Redirect = RedirectUnauthorized
	}
	return res
}
