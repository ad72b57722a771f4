package mods

// StoreKind identifies the marketplace a mod was downloaded from.
type StoreKind string

const (
	StoreNone      StoreKind = "none"
	StoreSteam     StoreKind = "steam"
	StoreEpic      StoreKind = "epic"
	StoreNexus     StoreKind = "nexus"
	StoreModDB     StoreKind = "moddb"
	StoreLoversLab StoreKind = "loverslab"
	StoreGithub    StoreKind = "github"
)

// StoreID is a tagged variant: a marketplace kind plus the platform-specific
// id string. The zero value means "not uploaded to any store".
type StoreID struct {
	Kind StoreKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// NoStore returns the explicit "no store" variant.
func NoStore() StoreID { return StoreID{Kind: StoreNone} }

// Steam returns a Steam workshop store id.
func Steam(id string) StoreID { return StoreID{Kind: StoreSteam, ID: id} }

// IsNone reports whether the mod has no marketplace identity.
func (s StoreID) IsNone() bool { return s.Kind == StoreNone || s.Kind == "" }

// IsSteam reports whether the id points at the Steam workshop.
func (s StoreID) IsSteam() bool { return s.Kind == StoreSteam }

func (s StoreID) String() string {
	if s.IsNone() {
		return "none"
	}
	return string(s.Kind) + ":" + s.ID
}

// ParseStoreDir interprets a content-tier parent directory name as a store
// id folder. Marketplace downloads live each in a folder named after their
// platform id; a purely numeric name is a workshop item id.
func ParseStoreDir(name string) (StoreID, bool) {
	if name == "" {
		return NoStore(), false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return NoStore(), false
		}
	}
	return Steam(name), true
}
