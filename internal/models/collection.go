package models

// CollectionKind identifies the content platform of a collection entry.
type CollectionKind string

const (
	CollectionPackage   CollectionKind = "package"
	CollectionKalite    CollectionKind = "kalite"
	CollectionWikifundi CollectionKind = "wikifundi"
	CollectionAflatoun  CollectionKind = "aflatoun"
	CollectionEdupi     CollectionKind = "edupi"
)

// CollectionEntry is one content item a hotspot image must carry.
type CollectionEntry struct {
	Kind      CollectionKind `json:"kind"`
	PackageID string         `json:"package_id,omitempty"`
	Languages []string       `json:"languages,omitempty"`
	Resources *string        `json:"resources,omitempty"`
}

// Collection is the ordered content descriptor derived from a configuration.
type Collection []CollectionEntry

// PackageIDs returns the ids of every package entry.
func (c Collection) PackageIDs() []string {
	ids := make([]string, 0, len(c))
	for _, entry := range c {
		if entry.Kind == CollectionPackage {
			ids = append(ids, entry.PackageID)
		}
	}
	return ids
}
