package integrations

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// FieldSpec describes one credential field of a vendor.
type FieldSpec struct {
	Name   string `yaml:"name"`
	Secret bool   `yaml:"secret"`
}

// VendorSpec is one catalog entry.
type VendorSpec struct {
	Kind     Kind        `yaml:"kind"`
	Category Category    `yaml:"category"`
	Fields   []FieldSpec `yaml:"fields"`

	// HostSuffix, when set, constrains the vendor URL host (checked
	// before any network call is made).
	HostSuffix string `yaml:"host_suffix"`

	// RequiresValidation forces a live handshake before persisting.
	RequiresValidation bool `yaml:"requires_validation"`

	// ListPath is the JMESPath applied to the vendor's raw project /
	// repository listing response.
	ListPath string `yaml:"list_path"`
}

// Catalog is the read-only vendor registry loaded from the embedded
// YAML definition.
type Catalog struct {
	byKind map[Kind]VendorSpec
	order  []Kind
}

func LoadCatalog() (*Catalog, error) {
	var doc struct {
		Vendors []VendorSpec `yaml:"vendors"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := &Catalog{byKind: make(map[Kind]VendorSpec, len(doc.Vendors))}
	for _, v := range doc.Vendors {
		if v.Kind == "" || v.Category == "" {
			return nil, fmt.Errorf("catalog: entry missing kind or category")
		}
		if _, dup := c.byKind[v.Kind]; dup {
			return nil, fmt.Errorf("catalog: duplicate kind %q", v.Kind)
		}
		c.byKind[v.Kind] = v
		c.order = append(c.order, v.Kind)
	}
	return c, nil
}

// MustLoadCatalog panics on a broken embedded catalog; the file ships
// with the binary so a failure here is a build defect.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Vendor returns the catalog entry for kind.
func (c *Catalog) Vendor(kind Kind) (VendorSpec, bool) {
	v, ok := c.byKind[kind]
	return v, ok
}

// Kinds lists the vendors of a category in catalog order.
func (c *Catalog) Kinds(cat Category) []Kind {
	var out []Kind
	for _, k := range c.order {
		if c.byKind[k].Category == cat {
			out = append(out, k)
		}
	}
	return out
}

// CategoryOf resolves the category of a vendor kind.
func (c *Catalog) CategoryOf(kind Kind) (Category, bool) {
	v, ok := c.byKind[kind]
	return v.Category, ok
}

// IsSecret reports whether field is secret-tagged for kind. Unknown
// fields are treated as secret so unexpected vendor payload keys are
// never echoed back in clear.
func (c *Catalog) IsSecret(kind Kind, field string) bool {
	v, ok := c.byKind[kind]
	if !ok {
		return true
	}
	for _, f := range v.Fields {
		if f.Name == field {
			return f.Secret
		}
	}
	return true
}
