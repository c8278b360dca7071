package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agridash/models"
)

// Rule describes a per-catalog product substitution override. Some legacy
// catalogs model the same commodity twice (a non-tracked parent plus tracked
// children) or track nothing below the parent at all; the rule table says
// how to correct the resolved product set for those catalogs.
//
// TypeID of zero matches every type of the catalog.
type Rule struct {
	ConfigID     uint   `toml:"config_id"`
	TypeID       uint   `toml:"type_id"`
	UnionNonLeaf bool   `toml:"union_non_leaf"` // union marker-coded non-tracked parents into the set
	Marker       string `toml:"marker"`         // code substring identifying those parents
	RawNonLeaf   bool   `toml:"raw_non_leaf"`   // replace the set with non-tracked products outright
	ShowParent   bool   `toml:"show_parent"`    // display hint: prefix option labels with the parent name
	ShowCode     bool   `toml:"show_code"`      // display hint: show the product code in option labels
}

type ruleFile struct {
	Rule []Rule `toml:"rule"`
}

// Hints are presentation flags derived from the rule table. They never
// change the resolved product set.
type Hints struct {
	ShowParent bool `json:"show_parent"`
	ShowCode   bool `json:"show_code"`
}

const defaultRulesTOML = `# Product substitution rules.
# Add [[rule]] blocks to override product resolution per catalog.
# type_id = 0 matches every type of the catalog.

[[rule]]
config_id = 5
union_non_leaf = true
marker = "FB"

[[rule]]
config_id = 5
type_id = 1
show_code = true

[[rule]]
config_id = 6
type_id = 1
show_code = true

[[rule]]
config_id = 7
type_id = 1
show_code = true

[[rule]]
config_id = 8
show_parent = true

[[rule]]
config_id = 10
show_parent = true

[[rule]]
config_id = 11
show_parent = true

[[rule]]
config_id = 12
show_parent = true

[[rule]]
config_id = 13
type_id = 1
show_code = true

[[rule]]
config_id = 13
type_id = 2
raw_non_leaf = true
show_parent = true
`

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	rules, err := parseRules([]byte(defaultRulesTOML))
	if err != nil {
		panic(err) // built-in table must parse
	}
	return rules
}

// LoadRules reads a rule table from a TOML file. An empty path returns
// the built-in defaults.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return parseRules(data)
}

func parseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules.toml: %w", err)
	}
	for i, r := range f.Rule {
		if r.ConfigID == 0 {
			return nil, fmt.Errorf("rule[%d]: config_id is required", i)
		}
		if r.UnionNonLeaf && r.Marker == "" {
			return nil, fmt.Errorf("rule[%d]: union_non_leaf requires a marker", i)
		}
	}
	return f.Rule, nil
}

// Policy applies the substitution rule table to resolved product sets.
type Policy struct {
	store Store
	rules []Rule
}

// NewPolicy returns a Policy over the given rule table.
func NewPolicy(store Store, rules []Rule) *Policy {
	return &Policy{store: store, rules: rules}
}

// matching returns the rules that apply to the catalog/type pair.
func (p *Policy) matching(configID, typeID uint) []Rule {
	var out []Rule
	for _, r := range p.rules {
		if r.ConfigID != configID {
			continue
		}
		if r.TypeID != 0 && r.TypeID != typeID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Hints returns the display hints for a catalog/type pair.
func (p *Policy) Hints(configID, typeID uint) Hints {
	var h Hints
	for _, r := range p.matching(configID, typeID) {
		h.ShowParent = h.ShowParent || r.ShowParent
		h.ShowCode = h.ShowCode || r.ShowCode
	}
	return h
}

// Apply corrects a resolved leaf product set for the given catalog/type.
// The input is expected to already be leaf-only; rules may union in
// non-tracked parents or replace the set with them entirely.
func (p *Policy) Apply(ctx context.Context, configID, typeID uint, products []models.AbstractProduct) ([]models.AbstractProduct, error) {
	for _, r := range p.matching(configID, typeID) {
		if r.RawNonLeaf {
			return p.store.ProductsByConfig(ctx, configID, typeID, false)
		}
	}

	for _, r := range p.matching(configID, typeID) {
		if !r.UnionNonLeaf {
			continue
		}

		parents, err := p.store.NonLeafProducts(ctx, configID, typeID, r.Marker)
		if err != nil {
			return nil, err
		}

		seen := map[uint]struct{}{}
		var out []models.AbstractProduct
		marker := strings.ToUpper(r.Marker)
		for _, product := range products {
			// Marker-named leaves duplicate the parents pulled in below.
			// Case folded to agree with the ILIKE code match on parents.
			if strings.Contains(strings.ToUpper(product.Name), marker) {
				continue
			}
			seen[product.ID] = struct{}{}
			out = append(out, product)
		}
		for _, product := range parents {
			if _, ok := seen[product.ID]; ok {
				continue
			}
			out = append(out, product)
		}

		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}

	return products, nil
}

// ExpandSelection normalizes a caller-chosen product set for series
// queries: non-tracked parents are replaced by their tracked children,
// except when the parent's catalog carries a raw_non_leaf rule, in which
// case the raw selection is used as-is.
func (p *Policy) ExpandSelection(ctx context.Context, selection []models.AbstractProduct) ([]models.AbstractProduct, error) {
	if len(selection) == 0 {
		return nil, ErrEmptyProductSet
	}

	first := selection[0]
	if !first.TrackItem && first.ConfigID != nil && p.rawByConfig(*first.ConfigID) {
		return selection, nil
	}

	seen := map[uint]struct{}{}
	var out []models.AbstractProduct
	add := func(product models.AbstractProduct) {
		if _, ok := seen[product.ID]; !ok {
			seen[product.ID] = struct{}{}
			out = append(out, product)
		}
	}

	for _, product := range selection {
		if product.TrackItem {
			add(product)
			continue
		}

		children, err := p.store.LeafChildren(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			add(child)
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyProductSet
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *Policy) rawByConfig(configID uint) bool {
	for _, r := range p.rules {
		if r.ConfigID == configID && r.RawNonLeaf {
			return true
		}
	}
	return false
}
