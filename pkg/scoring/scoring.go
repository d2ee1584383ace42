// Package scoring ranks graph entities by combining structural, frequency,
// recency, credibility, and corroboration signals into one composite score.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/linkscope/backend/pkg/analysis"
	"github.com/linkscope/backend/pkg/common"
)

// Config selects and weights the five scoring signals. Weights need not sum
// to one; they are normalized by their own sum. A zero RecencyHalfLifeDays
// disables the recency signal, scoring every entity uniformly.
type Config struct {
	CentralityMetric    string             `json:"centrality_metric"`
	CentralityWeight    float64            `json:"centrality_weight"`
	FrequencyWeight     float64            `json:"frequency_weight"`
	RecencyWeight       float64            `json:"recency_weight"`
	CredibilityWeight   float64            `json:"credibility_weight"`
	CorroborationWeight float64            `json:"corroboration_weight"`
	RecencyHalfLifeDays float64            `json:"recency_half_life_days"`
	TypeMultipliers     map[string]float64 `json:"type_multipliers,omitempty"`
}

// DefaultConfig weights centrality highest and splits the rest across the
// evidence-quality signals.
func DefaultConfig() Config {
	return Config{
		CentralityMetric:    "degree",
		CentralityWeight:    0.3,
		FrequencyWeight:     0.2,
		RecencyWeight:       0.2,
		CredibilityWeight:   0.15,
		CorroborationWeight: 0.15,
	}
}

// EntityScore is one ranked entity with its per-signal component scores.
type EntityScore struct {
	EntityID   string             `json:"entity_id"`
	Label      string             `json:"label"`
	EntityType string             `json:"entity_type"`
	Score      float64            `json:"score"`
	Rank       int                `json:"rank"`
	Components map[string]float64 `json:"components"`
}

// CalculateScores scores every node in the graph. Mentions and ratings are
// optional: without mentions the recency and corroboration signals read 0
// and credibility falls back to a neutral 0.5.
func CalculateScores(
	g common.Graph,
	config Config,
	mentions []common.MentionRecord,
	ratings map[string]float64,
) ([]EntityScore, error) {
	if len(g.Nodes) == 0 {
		return []EntityScore{}, nil
	}

	metric := config.CentralityMetric
	if metric == "" {
		metric = "degree"
	}
	centrality, err := analysis.Centrality(g, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to score centrality: %w", err)
	}
	centralityByEntity := make(map[string]float64, len(centrality))
	for _, r := range centrality {
		centralityByEntity[r.EntityID] = r.Score
	}

	weightSum := config.CentralityWeight + config.FrequencyWeight + config.RecencyWeight +
		config.CredibilityWeight + config.CorroborationWeight
	if weightSum <= 0 {
		config = DefaultConfig()
		config.RecencyHalfLifeDays = 0
		weightSum = config.CentralityWeight + config.FrequencyWeight + config.RecencyWeight +
			config.CredibilityWeight + config.CorroborationWeight
	}

	byEntity := groupMentions(mentions)
	totalDocs := countDistinctDocuments(mentions, g)
	frequency := frequencyScores(g, totalDocs)

	now := time.Now().UTC()
	scores := make([]EntityScore, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		entityMentions := byEntity[node.EntityID]

		components := map[string]float64{
			"centrality":    centralityByEntity[node.EntityID],
			"frequency":     frequency[node.EntityID],
			"recency":       recencyScore(entityMentions, config.RecencyHalfLifeDays, now),
			"credibility":   credibilityScore(entityMentions, ratings),
			"corroboration": corroborationScore(entityMentions),
		}

		composite := (config.CentralityWeight*components["centrality"] +
			config.FrequencyWeight*components["frequency"] +
			config.RecencyWeight*components["recency"] +
			config.CredibilityWeight*components["credibility"] +
			config.CorroborationWeight*components["corroboration"]) / weightSum

		if mult, ok := config.TypeMultipliers[node.EntityType]; ok {
			composite *= mult
		}

		scores = append(scores, EntityScore{
			EntityID:   node.EntityID,
			Label:      node.Label,
			EntityType: node.EntityType,
			Score:      composite,
			Components: components,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].EntityID < scores[j].EntityID
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores, nil
}

func groupMentions(mentions []common.MentionRecord) map[string][]common.MentionRecord {
	out := map[string][]common.MentionRecord{}
	for _, m := range mentions {
		out[m.EntityID] = append(out[m.EntityID], m)
	}
	return out
}

func countDistinctDocuments(mentions []common.MentionRecord, g common.Graph) int {
	docs := map[string]struct{}{}
	for _, m := range mentions {
		if m.DocumentID != "" {
			docs[m.DocumentID] = struct{}{}
		}
	}
	if len(docs) > 0 {
		return len(docs)
	}
	// No mention data: fall back to the widest document count any node
	// carries so the TF-IDF log stays defined.
	maxCount := 1
	for _, n := range g.Nodes {
		if n.DocumentCount > maxCount {
			maxCount = n.DocumentCount
		}
	}
	return maxCount
}

// frequencyScores rewards entities that are frequent yet distinctive:
// document_count * ln(total/document_count + 1), normalized to the maximum.
func frequencyScores(g common.Graph, totalDocs int) map[string]float64 {
	raw := make(map[string]float64, len(g.Nodes))
	maxRaw := 0.0
	for _, n := range g.Nodes {
		if n.DocumentCount <= 0 {
			raw[n.EntityID] = 0
			continue
		}
		v := float64(n.DocumentCount) * math.Log(float64(totalDocs)/float64(n.DocumentCount)+1)
		raw[n.EntityID] = v
		if v > maxRaw {
			maxRaw = v
		}
	}
	if maxRaw == 0 {
		return raw
	}
	for id := range raw {
		raw[id] /= maxRaw
	}
	return raw
}

// recencyScore decays exponentially against the half-life from the most
// recent dated mention. A zero half-life disables the signal (uniform 1).
func recencyScore(mentions []common.MentionRecord, halfLifeDays float64, now time.Time) float64 {
	if halfLifeDays <= 0 {
		return 1.0
	}
	var latest *time.Time
	for _, m := range mentions {
		if m.Date == nil {
			continue
		}
		if latest == nil || m.Date.After(*latest) {
			latest = m.Date
		}
	}
	if latest == nil {
		return 0
	}
	ageDays := now.Sub(*latest).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays * math.Ln2 / halfLifeDays)
}

// credibilityScore averages the source ratings behind an entity's mentions,
// weighted by how often each source mentions it. No ratings means a neutral
// 0.5.
func credibilityScore(mentions []common.MentionRecord, ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return 0.5
	}
	var total, weight float64
	for _, m := range mentions {
		if m.SourceID == "" {
			continue
		}
		if rating, ok := ratings[m.SourceID]; ok {
			total += rating
			weight++
		}
	}
	if weight == 0 {
		return 0.5
	}
	return total / weight
}

// corroborationScore is 1 - 1/sources for entities with two or more
// distinct sources, 0 otherwise. Returns diminish deliberately: the jump
// from one source to two matters far more than ten to eleven.
func corroborationScore(mentions []common.MentionRecord) float64 {
	sources := map[string]struct{}{}
	for _, m := range mentions {
		if m.SourceID != "" {
			sources[m.SourceID] = struct{}{}
		}
	}
	if len(sources) < 2 {
		return 0
	}
	return 1 - 1/float64(len(sources))
}
