package templates

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lawn-care-scheduler/internal/domain/calendar"
)

// catalogFile modela el YAML de plantillas que importan los operadores:
//
//	templates:
//	  - name: Season mowing
//	    kind: mowing
//	    min_cooldown_days: 7
//	    priority: 1
//	    periods:
//	      - { start: "04-01", end: "09-30" }
type catalogFile struct {
	Templates []catalogEntry `yaml:"templates"`
}

type catalogEntry struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description"`
	Kind            string            `yaml:"kind"`
	MinCooldownDays int               `yaml:"min_cooldown_days"`
	Priority        int               `yaml:"priority"`
	Periods         []calendar.Period `yaml:"periods"`
}

// LoadCatalog parsea y valida un catálogo YAML.
func LoadCatalog(r io.Reader) ([]Template, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: catalog: %v", ErrInvalidInput, err)
	}

	seen := map[string]struct{}{}
	out := make([]Template, 0, len(f.Templates))
	for _, e := range f.Templates {
		name := strings.TrimSpace(e.Name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrInvalidInput, name)
		}
		seen[name] = struct{}{}

		t := Template{
			Name:            name,
			Kind:            Kind(strings.TrimSpace(e.Kind)),
			MinCooldownDays: e.MinCooldownDays,
			Periods:         e.Periods,
			Priority:        e.Priority,
		}
		if d := strings.TrimSpace(e.Description); d != "" {
			t.Description = &d
		}
		if err := Validate(t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func LoadCatalogFile(path string) ([]Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}
