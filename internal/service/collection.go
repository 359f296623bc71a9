package service

import "github.com/cardshop/hotspot-api/internal/models"

// CollectionFor derives the content descriptor of cfg. It only reads the
// content-selection block, so repeated calls on an unchanged record are equal.
func CollectionFor(cfg *models.Configuration) models.Collection {
	collection := models.Collection{}
	for _, id := range cfg.ContentZims {
		collection = append(collection, models.CollectionEntry{Kind: models.CollectionPackage, PackageID: id})
	}
	if langs := cfg.KaliteLanguages(); len(langs) > 0 {
		collection = append(collection, models.CollectionEntry{Kind: models.CollectionKalite, Languages: langs})
	}
	if langs := cfg.WikifundiLanguages(); len(langs) > 0 {
		collection = append(collection, models.CollectionEntry{Kind: models.CollectionWikifundi, Languages: langs})
	}
	if cfg.ContentAflatoun {
		langs := append([]string(nil), models.AflatounLanguageCodes...)
		collection = append(collection, models.CollectionEntry{Kind: models.CollectionAflatoun, Languages: langs})
	}
	if cfg.ContentEdupi {
		entry := models.CollectionEntry{Kind: models.CollectionEdupi}
		if cfg.ContentEdupiResources != nil && *cfg.ContentEdupiResources != "" {
			resources := *cfg.ContentEdupiResources
			entry.Resources = &resources
		}
		collection = append(collection, entry)
	}
	return collection
}
