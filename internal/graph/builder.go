// Package graph builds the relationship graph linking scam reports that
// share a domain or phone number, and ranks reports for the trending view.
package graph

import (
	"fmt"
	"strings"

	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultPairGroupLimit bounds the pairwise edge expansion. A group of k
// reports sharing one value produces C(k,2) shared edges, which is
// quadratic in k; above the limit only the first k members take part in
// the pairwise pass. Membership edges are never capped.
const DefaultPairGroupLimit = 100

// Builder constructs relationship graphs from report lists
type Builder struct {
	pairGroupLimit int
}

// NewBuilder creates a graph builder. pairGroupLimit <= 0 selects the
// default.
func NewBuilder(pairGroupLimit int) *Builder {
	if pairGroupLimit <= 0 {
		pairGroupLimit = DefaultPairGroupLimit
	}
	return &Builder{pairGroupLimit: pairGroupLimit}
}

// grouping collects report node ids per normalized key, preserving
// first-seen key order so output is deterministic for a given input.
type grouping struct {
	members map[string][]string
	order   []string
}

func newGrouping() *grouping {
	return &grouping{members: make(map[string][]string)}
}

func (g *grouping) add(key, reportID string) {
	if _, ok := g.members[key]; !ok {
		g.order = append(g.order, key)
	}
	g.members[key] = append(g.members[key], reportID)
}

// Build turns a list of reports into a node/edge graph. One node per
// report in input order, one node per distinct normalized domain and
// phone, membership edges from each report to its groups, and pairwise
// shared-domain/shared-phone edges inside each group.
func (b *Builder) Build(reports []models.Report) models.Graph {
	graph := models.Graph{
		Nodes: []models.GraphNode{},
		Links: []models.GraphEdge{},
	}

	domains := newGrouping()
	phones := newGrouping()

	for i, report := range reports {
		reportID := fmt.Sprintf("report-%s", report.ID)
		createdAt := report.CreatedAt
		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:        reportID,
			Label:     fmt.Sprintf("Report %d", i+1),
			Type:      "report",
			Votes:     report.Votes,
			CreatedAt: &createdAt,
		})

		if domain := NormalizeDomain(report.Domain); domain != "" {
			domains.add(domain, reportID)
		}
		if phone := NormalizePhone(report.Phone); phone != "" {
			phones.add(phone, reportID)
		}
	}

	b.emitGroup(&graph, domains, "domain", "shared-domain")
	b.emitGroup(&graph, phones, "phone", "shared-phone")

	return graph
}

func (b *Builder) emitGroup(graph *models.Graph, groups *grouping, nodeType, sharedType string) {
	for _, key := range groups.order {
		members := groups.members[key]
		groupID := fmt.Sprintf("%s-%s", nodeType, key)

		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:    groupID,
			Label: key,
			Type:  nodeType,
			Count: len(members),
		})

		for _, reportID := range members {
			graph.Links = append(graph.Links, models.GraphEdge{
				Source: reportID,
				Target: groupID,
				Type:   nodeType,
			})
		}

		if len(members) < 2 {
			continue
		}

		// Pairwise expansion, bounded for pathological groups
		pairMembers := members
		if len(pairMembers) > b.pairGroupLimit {
			logrus.Warnf("Capping %s pair expansion for %q: %d members, limit %d",
				nodeType, key, len(members), b.pairGroupLimit)
			pairMembers = pairMembers[:b.pairGroupLimit]
		}

		for i := 0; i < len(pairMembers); i++ {
			for j := i + 1; j < len(pairMembers); j++ {
				graph.Links = append(graph.Links, models.GraphEdge{
					Source:     pairMembers[i],
					Target:     pairMembers[j],
					Type:       sharedType,
					SharedData: key,
				})
			}
		}
	}
}

// NormalizeDomain lower-cases and trims a domain so casing and whitespace
// variants group together.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// NormalizePhone trims a phone number before grouping.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
