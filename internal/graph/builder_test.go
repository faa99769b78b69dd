package graph

import (
	"fmt"
	"testing"
	"time"

	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReport(id, domain, phone string) models.Report {
	return models.Report{
		ID:        id,
		Type:      "message",
		Content:   "content",
		Domain:    domain,
		Phone:     phone,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func edgesOfType(graph models.Graph, edgeType string) []models.GraphEdge {
	var edges []models.GraphEdge
	for _, link := range graph.Links {
		if link.Type == edgeType {
			edges = append(edges, link)
		}
	}
	return edges
}

func nodesOfType(graph models.Graph, nodeType string) []models.GraphNode {
	var nodes []models.GraphNode
	for _, node := range graph.Nodes {
		if node.Type == nodeType {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func TestBuild_Empty(t *testing.T) {
	graph := NewBuilder(0).Build(nil)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Links)
	assert.NotNil(t, graph.Nodes)
	assert.NotNil(t, graph.Links)
}

func TestBuild_ReportNodesInInputOrder(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "", ""),
		makeReport("b", "", ""),
		makeReport("c", "", ""),
	}

	graph := NewBuilder(0).Build(reports)

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "report-a", graph.Nodes[0].ID)
	assert.Equal(t, "Report 1", graph.Nodes[0].Label)
	assert.Equal(t, "report-b", graph.Nodes[1].ID)
	assert.Equal(t, "Report 2", graph.Nodes[1].Label)
	assert.Equal(t, "report-c", graph.Nodes[2].ID)
	assert.Empty(t, graph.Links)
}

func TestBuild_SharedDomainPairwiseCompleteness(t *testing.T) {
	// k reports on one domain: exactly k membership edges and C(k,2)
	// shared-domain edges
	for _, k := range []int{2, 3, 5} {
		var reports []models.Report
		for i := 0; i < k; i++ {
			reports = append(reports, makeReport(fmt.Sprintf("r%d", i), "scam-site.com", ""))
		}

		graph := NewBuilder(0).Build(reports)

		domainNodes := nodesOfType(graph, "domain")
		require.Len(t, domainNodes, 1, "k=%d", k)
		assert.Equal(t, "domain-scam-site.com", domainNodes[0].ID)
		assert.Equal(t, k, domainNodes[0].Count)

		assert.Len(t, edgesOfType(graph, "domain"), k, "k=%d", k)
		assert.Len(t, edgesOfType(graph, "shared-domain"), k*(k-1)/2, "k=%d", k)
	}
}

func TestBuild_DomainNormalization(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "Scam-Site.com ", ""),
		makeReport("b", "scam-site.com", ""),
	}

	graph := NewBuilder(0).Build(reports)

	domainNodes := nodesOfType(graph, "domain")
	require.Len(t, domainNodes, 1)
	assert.Equal(t, "scam-site.com", domainNodes[0].Label)
	assert.Equal(t, 2, domainNodes[0].Count)

	shared := edgesOfType(graph, "shared-domain")
	require.Len(t, shared, 1)
	assert.Equal(t, "report-a", shared[0].Source)
	assert.Equal(t, "report-b", shared[0].Target)
	assert.Equal(t, "scam-site.com", shared[0].SharedData)
}

func TestBuild_PhoneGroups(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "", " +1-555-0100"),
		makeReport("b", "", "+1-555-0100 "),
		makeReport("c", "", "+1-555-0199"),
	}

	graph := NewBuilder(0).Build(reports)

	phoneNodes := nodesOfType(graph, "phone")
	require.Len(t, phoneNodes, 2)
	assert.Equal(t, "phone-+1-555-0100", phoneNodes[0].ID)
	assert.Equal(t, 2, phoneNodes[0].Count)
	assert.Equal(t, 1, phoneNodes[1].Count)

	assert.Len(t, edgesOfType(graph, "phone"), 3)

	shared := edgesOfType(graph, "shared-phone")
	require.Len(t, shared, 1)
	assert.Equal(t, "+1-555-0100", shared[0].SharedData)
}

func TestBuild_ReportWithBothFieldsJoinsBothGroups(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "scam.tk", "555"),
		makeReport("b", "scam.tk", ""),
		makeReport("c", "", "555"),
	}

	graph := NewBuilder(0).Build(reports)

	assert.Len(t, nodesOfType(graph, "domain"), 1)
	assert.Len(t, nodesOfType(graph, "phone"), 1)
	assert.Len(t, edgesOfType(graph, "domain"), 2)
	assert.Len(t, edgesOfType(graph, "phone"), 2)
	assert.Len(t, edgesOfType(graph, "shared-domain"), 1)
	assert.Len(t, edgesOfType(graph, "shared-phone"), 1)
}

func TestBuild_BlankFieldsDoNotGroup(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "   ", "  "),
		makeReport("b", "", ""),
	}

	graph := NewBuilder(0).Build(reports)

	assert.Len(t, graph.Nodes, 2) // report nodes only
	assert.Empty(t, graph.Links)
}

func TestBuild_PairExpansionCap(t *testing.T) {
	var reports []models.Report
	for i := 0; i < 10; i++ {
		reports = append(reports, makeReport(fmt.Sprintf("r%d", i), "flood.tk", ""))
	}

	graph := NewBuilder(4).Build(reports)

	// Membership edges are never capped
	assert.Len(t, edgesOfType(graph, "domain"), 10)
	domainNodes := nodesOfType(graph, "domain")
	require.Len(t, domainNodes, 1)
	assert.Equal(t, 10, domainNodes[0].Count)

	// Pairwise pass sees only the first 4 members: C(4,2) edges
	assert.Len(t, edgesOfType(graph, "shared-domain"), 6)
}

func TestBuild_Idempotent(t *testing.T) {
	reports := []models.Report{
		makeReport("a", "scam.tk", "555"),
		makeReport("b", "SCAM.TK", ""),
		makeReport("c", "other.ml", "555"),
	}

	builder := NewBuilder(0)
	first := builder.Build(reports)
	second := builder.Build(reports)

	assert.Equal(t, first, second)
}
