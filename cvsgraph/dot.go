package cvsgraph

import (
	"fmt"

	"github.com/emicklei/dot"
)

// WriteDOT renders one file's item graph as Graphviz DOT, for
// inspecting a container at a pass boundary. Grounded on
// rcowham-gitp4transfer's optional "--graph" debug dump (main.go,
// processCommit/GitParse): a *dot.Graph built with one dot.Node per
// history node and one dot.Edge per structural edge. Not part of the
// rewrite passes themselves -- purely a diagnostic supplementing the
// distilled spec (see SPEC_FULL.md SUPPLEMENTED FEATURES).
func WriteDOT(c *FileItems) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("label", c.FileID)

	nodesByID := make(map[NodeID]dot.Node, len(c.nodes))
	for _, item := range c.IterValues() {
		var label, shape string
		switch n := item.(type) {
		case *Revision:
			label = fmt.Sprintf("%s\n%s/%s", n.Rev, n.LOD, n.ContentType)
			shape = "box"
		case *BranchNode:
			label = fmt.Sprintf("branch %s", n.SymbolID)
			shape = "cds"
		case *TagNode:
			label = fmt.Sprintf("tag %s", n.SymbolID)
			shape = "note"
		}
		nodesByID[item.ID()] = g.Node(string(item.ID())).Attr("label", label).Attr("shape", shape)
	}

	edge := func(from, to NodeID, style string) {
		if from == NullID || to == NullID {
			return
		}
		fromNode, ok1 := nodesByID[from]
		toNode, ok2 := nodesByID[to]
		if !ok1 || !ok2 {
			return
		}
		g.Edge(fromNode, toNode).Attr("style", style)
	}

	for _, item := range c.IterValues() {
		switch n := item.(type) {
		case *Revision:
			edge(n.id, n.NextID, "solid")
			edge(n.id, n.DefaultBranchNext, "dashed")
			for _, bid := range n.BranchIDs().Values() {
				edge(n.id, NodeID(bid), "bold")
			}
			for _, tid := range n.TagIDs().Values() {
				edge(n.id, NodeID(tid), "dotted")
			}
		case *BranchNode:
			edge(n.id, n.FirstCommitID, "solid")
			for _, bid := range n.BranchIDs().Values() {
				edge(n.id, NodeID(bid), "bold")
			}
			for _, tid := range n.TagIDs().Values() {
				edge(n.id, NodeID(tid), "dotted")
			}
		}
	}

	return g
}
