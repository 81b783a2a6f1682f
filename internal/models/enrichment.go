package models

// Enrichment is the optional external metadata for one title.
// Nil pointers mean the source did not report the value.
type Enrichment struct {
	ExternalID   int      `json:"external_id"`
	CollectionID *int     `json:"collection_id,omitempty"`
	TagIDs       []int    `json:"tag_ids,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Popularity   *float64 `json:"popularity,omitempty"`
}
