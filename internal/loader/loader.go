// Package loader reads technology catalogs from YAML, TOML, JSON and JSONC
// files and turns them into catalog definitions.
//
// Malformed entries are logged and skipped so that a data file with one bad
// line still loads; only unreadable or unparsable files are errors.
package loader

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/models"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// ErrUnknownFormat is returned for files whose extension names no supported format
var ErrUnknownFormat = errors.New("loader: unknown catalog format")

// Format is the encoding of a catalog file
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
	FormatJSONC
)

// String returns a string representation of the format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	case FormatJSONC:
		return "jsonc"
	default:
		return "unknown"
	}
}

// FormatForPath picks the format from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// catalogFile is the on-disk shape shared by every format
type catalogFile struct {
	Factions   []string                          `yaml:"factions" toml:"factions" json:"factions"`
	BaseCosts  []int                             `yaml:"base_costs" toml:"base_costs" json:"base_costs"`
	Categories map[string]map[string][]techEntry `yaml:"categories" toml:"categories" json:"categories"`
	Rare       []techEntry                       `yaml:"rare" toml:"rare" json:"rare"`
}

type techEntry struct {
	Name      string     `yaml:"name" toml:"name" json:"name"`
	Category  string     `yaml:"category" toml:"category" json:"category"`
	Level     int        `yaml:"level" toml:"level" json:"level"`
	Component string     `yaml:"component" toml:"component" json:"component"`
	Hull      string     `yaml:"hull" toml:"hull" json:"hull"`
	Building  string     `yaml:"building" toml:"building" json:"building"`
	Only      []string   `yaml:"only" toml:"only" json:"only"`
	Except    []string   `yaml:"except" toml:"except" json:"except"`
	Tradeable *bool      `yaml:"tradeable" toml:"tradeable" json:"tradeable"`
	Family    string     `yaml:"family" toml:"family" json:"family"`
	Next      *nextEntry `yaml:"next" toml:"next" json:"next"`
}

type nextEntry struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Level int    `yaml:"level" toml:"level" json:"level"`
}

// Data is a decoded catalog file
type Data struct {
	Factions    []models.FactionID
	Definitions []models.TechDefinition // catalog order
	BaseCosts   []int                   // nil keeps the built-in table
}

// Catalog builds a catalog from the decoded definitions
func (d *Data) Catalog() (*catalog.Catalog, error) {
	opts := []catalog.Option{catalog.WithFactions(d.Factions...)}
	if d.BaseCosts != nil {
		opts = append(opts, catalog.WithBaseCosts(d.BaseCosts))
	}
	return catalog.New(d.Definitions, opts...)
}

// Parse decodes a catalog file. A nil logger uses slog.Default().
func Parse(data []byte, format Format, logger *slog.Logger) (*Data, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var file catalogFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &file)
	case FormatTOML:
		err = toml.Unmarshal(data, &file)
	case FormatJSON:
		err = json.Unmarshal(data, &file)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(data), &file)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if err != nil {
		return nil, fmt.Errorf("loader: parsing %s catalog: %w", format, err)
	}

	out := &Data{BaseCosts: file.BaseCosts}
	for _, f := range file.Factions {
		if f = strings.TrimSpace(f); f != "" {
			out.Factions = append(out.Factions, models.FactionID(f))
		}
	}

	seen := make(map[string]bool)
	add := func(def models.TechDefinition) {
		if seen[def.Name] {
			logger.Warn("skipping duplicate technology", "name", def.Name)
			return
		}
		seen[def.Name] = true
		out.Definitions = append(out.Definitions, def)
	}

	for _, key := range sortedKeys(file.Categories) {
		if _, err := models.ParseCategory(key); err != nil {
			logger.Warn("skipping unknown category", "category", key)
		}
	}

	for _, cat := range models.AllCategories() {
		levels := file.Categories[cat.String()]
		for _, key := range sortedKeys(levels) {
			if level, err := strconv.Atoi(key); err != nil || level < models.MinLevel || level > models.MaxLevel {
				logger.Warn("skipping invalid level", "category", cat, "level", key)
			}
		}
		for level := models.MinLevel; level <= models.MaxLevel; level++ {
			for _, entry := range levels[strconv.Itoa(level)] {
				entry.Level = level
				def, err := entry.definition(cat, false)
				if err != nil {
					logger.Warn("skipping technology", "category", cat, "level", level, "error", err)
					continue
				}
				add(def)
			}
		}
	}

	for _, entry := range file.Rare {
		cat, err := models.ParseCategory(entry.Category)
		if err != nil {
			logger.Warn("skipping rare technology", "name", entry.Name, "error", err)
			continue
		}
		def, err := entry.definition(cat, true)
		if err != nil {
			logger.Warn("skipping rare technology", "name", entry.Name, "error", err)
			continue
		}
		add(def)
	}

	return out, nil
}

func (e techEntry) definition(cat models.Category, rare bool) (models.TechDefinition, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return models.TechDefinition{}, errors.New("missing name")
	}
	if e.Level < models.MinLevel || e.Level > models.MaxLevel {
		return models.TechDefinition{}, fmt.Errorf("%q: level %d out of range", name, e.Level)
	}

	var artifacts []models.Artifact
	for kind, ref := range map[models.ArtifactKind]string{
		models.ArtifactComponent: e.Component,
		models.ArtifactHull:      e.Hull,
		models.ArtifactBuilding:  e.Building,
	} {
		if ref != "" {
			artifacts = append(artifacts, models.Artifact{Kind: kind, Name: ref})
		}
	}
	if len(artifacts) > 1 {
		return models.TechDefinition{}, fmt.Errorf("%q: names %d artifacts", name, len(artifacts))
	}

	if len(e.Only) > 0 && len(e.Except) > 0 {
		return models.TechDefinition{}, fmt.Errorf("%q: both only and except given", name)
	}

	def := models.TechDefinition{
		Name:      name,
		Category:  cat,
		Level:     e.Level,
		Rare:      rare,
		Tradeable: e.Tradeable == nil || *e.Tradeable,
		Family:    strings.TrimSpace(e.Family),
	}
	if len(artifacts) == 1 {
		def.Artifact = artifacts[0]
	}
	switch {
	case len(e.Only) > 0:
		def.Eligibility = models.OnlyFor(factionIDs(e.Only)...)
	case len(e.Except) > 0:
		def.Eligibility = models.ExceptFor(factionIDs(e.Except)...)
	}
	if rare || len(def.Eligibility.Factions) > 0 {
		def.Tradeable = false
	}
	if e.Next != nil && e.Next.Name != "" {
		def.Chain = models.ChainLink{Next: strings.TrimSpace(e.Next.Name), Level: e.Next.Level}
	}
	return def, nil
}

func factionIDs(names []string) []models.FactionID {
	ids := make([]models.FactionID, 0, len(names))
	for _, n := range names {
		ids = append(ids, models.FactionID(strings.TrimSpace(n)))
	}
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFile reads and decodes a catalog file, picking the format from its extension
func LoadFile(path string, logger *slog.Logger) (*Data, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	d, err := Parse(data, format, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadDefault decodes the catalog compiled into the binary
func LoadDefault(logger *slog.Logger) (*Data, error) {
	return Parse(slices.Clone(defaultCatalog), FormatYAML, logger)
}

var defaultOnce = sync.OnceValues(func() (*catalog.Catalog, error) {
	d, err := LoadDefault(nil)
	if err != nil {
		return nil, err
	}
	return d.Catalog()
})

// DefaultCatalog returns the shared catalog built from the embedded data
func DefaultCatalog() (*catalog.Catalog, error) {
	return defaultOnce()
}

// Load returns the catalog at path, or the embedded default when path is empty
func Load(path string, logger *slog.Logger) (*catalog.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	d, err := LoadFile(path, logger)
	if err != nil {
		return nil, err
	}
	return d.Catalog()
}
