package mods

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultCategory is the reserved category. It always exists and always
// sits last in the category order.
const DefaultCategory = "Unassigned"

var (
	ErrReservedCategory = errors.New("category name is reserved")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyCategory    = errors.New("category name cannot be empty")
)

// Registry is the authoritative store of every mod ever seen for one game,
// plus the user's categories. Mods are keyed by pack name so reinstalling a
// mod reuses its record.
type Registry struct {
	GameKey string `json:"game_key"`

	Mods map[string]*Mod `json:"mods"`

	// Category name to member mod ids, in user order. Only installed mods
	// (non-empty paths) may be members.
	Categories map[string][]string `json:"categories"`

	// Category display order. DefaultCategory is always last.
	CategoriesOrder []string `json:"categories_order"`
}

// NewRegistry returns an empty registry with the reserved category in place.
func NewRegistry(gameKey string) *Registry {
	return &Registry{
		GameKey:         gameKey,
		Mods:            make(map[string]*Mod),
		Categories:      map[string][]string{DefaultCategory: {}},
		CategoriesOrder: []string{DefaultCategory},
	}
}

func registryPath(dir, gameKey string) string {
	return filepath.Join(dir, fmt.Sprintf("registry_%s.json", gameKey))
}

// LoadRegistry reads the persisted registry for a game. Loading is
// permissive: a missing or unparsable file yields a fresh registry instead
// of an error, so a corrupt document never blocks startup.
func LoadRegistry(dir, gameKey string) *Registry {
	data, err := os.ReadFile(registryPath(dir, gameKey))
	if err != nil {
		return NewRegistry(gameKey)
	}

	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		return NewRegistry(gameKey)
	}
	if r.GameKey == "" {
		r.GameKey = gameKey
	}
	if r.Mods == nil {
		r.Mods = make(map[string]*Mod)
	}
	if r.Categories == nil {
		r.Categories = make(map[string][]string)
	}

	// Older documents may predate the reserved category.
	if _, ok := r.Categories[DefaultCategory]; !ok {
		r.Categories[DefaultCategory] = []string{}
	}
	r.pinDefaultCategoryLast()

	return &r
}

// Save persists the registry as pretty-printed JSON.
func (r *Registry) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(registryPath(dir, r.GameKey), data, 0644)
}

// CategoryForMod returns the category holding the given mod id, falling
// back to the reserved category for unknown ids.
func (r *Registry) CategoryForMod(id string) string {
	for cat, ids := range r.Categories {
		for _, member := range ids {
			if member == id {
				return cat
			}
		}
	}
	return DefaultCategory
}

// CreateCategory adds an empty category just before the reserved one.
func (r *Registry) CreateCategory(name string) error {
	if name == "" {
		return ErrEmptyCategory
	}
	if name == DefaultCategory {
		return ErrReservedCategory
	}
	if _, ok := r.Categories[name]; ok {
		return ErrCategoryExists
	}

	r.Categories[name] = []string{}

	pos := len(r.CategoriesOrder)
	if pos > 0 {
		pos--
	}
	r.CategoriesOrder = append(r.CategoriesOrder, "")
	copy(r.CategoriesOrder[pos+1:], r.CategoriesOrder[pos:])
	r.CategoriesOrder[pos] = name

	return nil
}

// RenameCategory renames a category in place, preserving membership and
// order position.
func (r *Registry) RenameCategory(name, newName string) error {
	if name == newName {
		return nil
	}
	if name == DefaultCategory || newName == DefaultCategory {
		return ErrReservedCategory
	}
	if newName == "" {
		return ErrEmptyCategory
	}
	if _, ok := r.Categories[newName]; ok {
		return ErrCategoryExists
	}
	members, ok := r.Categories[name]
	if !ok {
		return ErrCategoryNotFound
	}

	delete(r.Categories, name)
	r.Categories[newName] = members
	for i, cat := range r.CategoriesOrder {
		if cat == name {
			r.CategoriesOrder[i] = newName
			break
		}
	}
	return nil
}

// DeleteCategory removes a category, appending its members to the reserved
// one.
func (r *Registry) DeleteCategory(name string) error {
	if name == DefaultCategory {
		return ErrReservedCategory
	}
	members, ok := r.Categories[name]
	if !ok {
		return ErrCategoryNotFound
	}

	delete(r.Categories, name)
	order := r.CategoriesOrder[:0]
	for _, cat := range r.CategoriesOrder {
		if cat != name {
			order = append(order, cat)
		}
	}
	r.CategoriesOrder = order
	r.Categories[DefaultCategory] = append(r.Categories[DefaultCategory], members...)
	return nil
}

// AssignCategory moves a mod into the given category, removing it from any
// other.
func (r *Registry) AssignCategory(modID, category string) error {
	if _, ok := r.Categories[category]; !ok {
		return ErrCategoryNotFound
	}
	modd, ok := r.Mods[modID]
	if !ok || !modd.Installed() {
		return fmt.Errorf("mod %q is not installed", modID)
	}

	for cat, ids := range r.Categories {
		filtered := ids[:0]
		for _, id := range ids {
			if id != modID {
				filtered = append(filtered, id)
			}
		}
		r.Categories[cat] = filtered
	}
	r.Categories[category] = append(r.Categories[category], modID)
	return nil
}

// Reconcile restores the category invariants after a scan: mods with no
// paths leave every category, installed mods missing from all categories
// join the reserved one, and the reserved category goes back to the end of
// the order.
func (r *Registry) Reconcile() {
	for cat, ids := range r.Categories {
		filtered := ids[:0]
		for _, id := range ids {
			if modd, ok := r.Mods[id]; ok && modd.Installed() {
				filtered = append(filtered, id)
			}
		}
		r.Categories[cat] = filtered
	}

	var toAdd []string
	for id, modd := range r.Mods {
		if modd.Installed() && r.categoryless(id) {
			toAdd = append(toAdd, id)
		}
	}
	if len(toAdd) > 0 {
		// Map iteration order is random; keep the append deterministic.
		sort.Strings(toAdd)
		r.Categories[DefaultCategory] = append(r.Categories[DefaultCategory], toAdd...)
	}

	r.pinDefaultCategoryLast()
}

// PruneAltNameDuplicates removes records whose id matches another record's
// derived legacy name. These appear when a converted legacy mod was scanned
// as its own entry before the conversion was matched up.
func (r *Registry) PruneAltNameDuplicates() {
	var altNames []string
	for _, modd := range r.Mods {
		if alt := modd.AltName(); alt != "" {
			altNames = append(altNames, alt)
		}
	}

	for _, alt := range altNames {
		delete(r.Mods, alt)
		for cat, ids := range r.Categories {
			filtered := ids[:0]
			for _, id := range ids {
				if id != alt {
					filtered = append(filtered, id)
				}
			}
			r.Categories[cat] = filtered
		}
	}
}

// ClearPaths empties every mod's path list. Run before a scan so records of
// uninstalled mods do not keep stale locations.
func (r *Registry) ClearPaths() {
	for _, modd := range r.Mods {
		modd.Paths = nil
	}
}

func (r *Registry) categoryless(id string) bool {
	for _, ids := range r.Categories {
		for _, member := range ids {
			if member == id {
				return false
			}
		}
	}
	return true
}

func (r *Registry) pinDefaultCategoryLast() {
	order := r.CategoriesOrder[:0]
	for _, cat := range r.CategoriesOrder {
		if cat != DefaultCategory {
			order = append(order, cat)
		}
	}
	r.CategoriesOrder = append(order, DefaultCategory)
}
