package intelligence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/llm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the per-process cluster result cache.
const DefaultCacheSize = 128

var itemSeparators = regexp.MustCompile(`[\n\-*]`)

// SplitItems joins answers with newlines and re-splits them on newlines,
// dashes and asterisks so pasted bullet lists become separate items.
// Blank pieces are dropped.
func SplitItems(answers []string) []string {
	joined := strings.Join(answers, "\n")
	var out []string
	for _, piece := range itemSeparators.Split(joined, -1) {
		if p := strings.TrimSpace(piece); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type clusterService struct {
	client llm.LLMClient
	cache  *lru.Cache[string, []domain.Cluster]
}

// NewClusterService creates a ClusterService backed by an LLM client.
// Successful results are cached by kind and items when cacheSize > 0.
func NewClusterService(client llm.LLMClient, cacheSize int) ClusterService {
	s := &clusterService{client: client}
	if cacheSize > 0 {
		cache, err := lru.New[string, []domain.Cluster](cacheSize)
		if err == nil {
			s.cache = cache
		}
	}
	return s
}

func (s *clusterService) Cluster(ctx context.Context, answers []string, kind ClusterKind) ([]domain.Cluster, error) {
	items := SplitItems(answers)
	if len(items) == 0 {
		return nil, nil
	}

	key := cacheKey(kind, items)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cloneClusters(cached), nil
		}
	}

	task := llm.TaskClusterFinal
	if kind == KindSkills {
		task = llm.TaskClusterPreview
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: clusterSystemPrompt,
		UserPrompt:   buildClusterPrompt(items, kind),
	})
	if err != nil {
		return nil, fmt.Errorf("clustering %s: %w", kind, err)
	}

	parsed, err := llm.ExtractJSON[clusterResponse](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("clustering %s: %w", kind, err)
	}

	clusters := normalizeClusters(parsed.Clusters)
	if s.cache != nil {
		s.cache.Add(key, cloneClusters(clusters))
	}
	return clusters, nil
}

// normalizeClusters trims labels and drops clusters without one, plus
// blank items. Ratings from the model are discarded.
func normalizeClusters(in []domain.Cluster) []domain.Cluster {
	out := make([]domain.Cluster, 0, len(in))
	for _, c := range in {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			continue
		}
		var texts []string
		for _, it := range c.Items {
			if t := strings.TrimSpace(it.Text); t != "" {
				texts = append(texts, t)
			}
		}
		out = append(out, domain.Cluster{
			Label:   label,
			Insight: strings.TrimSpace(c.Insight),
			Items:   domain.TextItems(texts),
		})
	}
	return out
}

func cloneClusters(in []domain.Cluster) []domain.Cluster {
	out := make([]domain.Cluster, len(in))
	for i, c := range in {
		c.Items = append([]domain.ClusterItem(nil), c.Items...)
		out[i] = c
	}
	return out
}

func cacheKey(kind ClusterKind, items []string) string {
	h := sha256.New()
	for _, it := range items {
		h.Write([]byte(it))
		h.Write([]byte{0})
	}
	return string(kind) + ":" + hex.EncodeToString(h.Sum(nil))
}
