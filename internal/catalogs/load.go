package catalogs

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caravangame/caravan-api/internal/errors"
)

// Parse decodes a catalog overlay from YAML. Entries with new ids are
// appended; entries whose id already exists replace the existing entry,
// which lets data files retune the defaults without forking them.
func Parse(data []byte, base *Catalog) (*Catalog, error) {
	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog yaml")
	}

	merged := base
	if merged == nil {
		merged = &Catalog{}
	}
	merged.merge(&overlay)
	merged.Index()

	if err := merged.Validate(); err != nil {
		return nil, errors.Wrap(err, "catalog overlay is inconsistent")
	}
	return merged, nil
}

// LoadFile reads a YAML overlay from disk and merges it over base.
func LoadFile(path string, base *Catalog) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied data file
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", path)
	}
	return Parse(data, base)
}

func (c *Catalog) merge(overlay *Catalog) {
	for _, it := range overlay.Items {
		if i := indexOf(c.Items, it.ID, func(x *Item) string { return x.ID }); i >= 0 {
			c.Items[i] = it
		} else {
			c.Items = append(c.Items, it)
		}
	}
	for _, j := range overlay.Jobs {
		if i := indexOf(c.Jobs, j.ID, func(x *Job) string { return x.ID }); i >= 0 {
			c.Jobs[i] = j
		} else {
			c.Jobs = append(c.Jobs, j)
		}
	}
	for _, r := range overlay.Recipes {
		if i := indexOf(c.Recipes, r.ID, func(x *Recipe) string { return x.ID }); i >= 0 {
			c.Recipes[i] = r
		} else {
			c.Recipes = append(c.Recipes, r)
		}
	}
	for _, s := range overlay.Stations {
		if i := indexOf(c.Stations, s.ID, func(x *Station) string { return x.ID }); i >= 0 {
			c.Stations[i] = s
		} else {
			c.Stations = append(c.Stations, s)
		}
	}
	for _, b := range overlay.Biomes {
		if i := indexOf(c.Biomes, b.ID, func(x *Biome) string { return x.ID }); i >= 0 {
			c.Biomes[i] = b
		} else {
			c.Biomes = append(c.Biomes, b)
		}
	}
	for _, s := range overlay.Survivors {
		if i := indexOf(c.Survivors, s.ID, func(x *SurvivorTemplate) string { return x.ID }); i >= 0 {
			c.Survivors[i] = s
		} else {
			c.Survivors = append(c.Survivors, s)
		}
	}
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}
