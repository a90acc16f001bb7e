package domain

import (
	"encoding/json"
	"time"
)

// ClusterItem is one grouped answer, optionally carrying a user rating.
type ClusterItem struct {
	Text   string `json:"text"`
	Rating string `json:"rating,omitempty"`
}

// UnmarshalJSON accepts either a bare string or a {text, rating} object,
// since model output carries plain strings and stored rows carry objects.
func (i *ClusterItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = ClusterItem{Text: s}
		return nil
	}
	type plain ClusterItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = ClusterItem(p)
	return nil
}

// Cluster is a labelled grouping of free-text answers.
type Cluster struct {
	Label       string        `json:"label"`
	Insight     string        `json:"insight"`
	Items       []ClusterItem `json:"items"`
	Proficiency string        `json:"proficiency,omitempty"`
}

// ItemTexts returns the item texts in order.
func (c Cluster) ItemTexts() []string {
	out := make([]string, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Text
	}
	return out
}

// ItemRatings returns the non-empty item ratings in order.
func (c Cluster) ItemRatings() []string {
	var out []string
	for _, it := range c.Items {
		if it.Rating != "" {
			out = append(out, it.Rating)
		}
	}
	return out
}

// TextItems wraps plain strings as unrated items.
func TextItems(texts []string) []ClusterItem {
	out := make([]ClusterItem, len(texts))
	for i, t := range texts {
		out[i] = ClusterItem{Text: t}
	}
	return out
}

// ClusterRecord is a persisted cluster row.
type ClusterRecord struct {
	ID        string
	SessionID string
	Type      ClusterType
	Stage     ClusterStage
	Cluster
	CreatedAt time.Time
}

// Clusters strips persistence fields.
func Clusters(records []*ClusterRecord) []Cluster {
	out := make([]Cluster, 0, len(records))
	for _, r := range records {
		out = append(out, r.Cluster)
	}
	return out
}
