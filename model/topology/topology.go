package topology

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Topology describes the static control-flow shape of a pattern for display
// and participant validation. Execution never consults it for correctness.
type Topology struct {
	Name  string `yaml:"name" json:"name"`
	Nodes []Node `yaml:"nodes" json:"nodes"`
	Edges []Edge `yaml:"edges,omitempty" json:"edges,omitempty"`
}

// Node names a participant slot in the topology graph.
type Node struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Load reads a YAML topology descriptor from the supplied URL or path.
func Load(ctx context.Context, URL string) (*Topology, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology %s: %w", URL, err)
	}
	return Decode(data)
}

// Decode parses a YAML topology descriptor.
func Decode(data []byte) (*Topology, error) {
	topology := &Topology{}
	if err := yaml.Unmarshal(data, topology); err != nil {
		return nil, fmt.Errorf("failed to decode topology: %w", err)
	}
	if err := topology.init(); err != nil {
		return nil, err
	}
	return topology, nil
}

func (t *Topology) init() error {
	if t.Name == "" {
		return fmt.Errorf("topology name is required")
	}
	nodes := t.nodeSet()
	for _, edge := range t.Edges {
		if _, ok := nodes[edge.From]; !ok {
			return fmt.Errorf("topology %s: edge references unknown node %s", t.Name, edge.From)
		}
		if _, ok := nodes[edge.To]; !ok {
			return fmt.Errorf("topology %s: edge references unknown node %s", t.Name, edge.To)
		}
	}
	return nil
}

// Validate checks that every node has a matching participant name.
func (t *Topology) Validate(participants []string) error {
	if t == nil {
		return nil
	}
	present := map[string]bool{}
	for _, name := range participants {
		present[name] = true
	}
	for _, node := range t.Nodes {
		if !present[node.Name] {
			return fmt.Errorf("topology %s: no participant for node %s", t.Name, node.Name)
		}
	}
	return nil
}

func (t *Topology) nodeSet() map[string]bool {
	result := make(map[string]bool, len(t.Nodes))
	for _, node := range t.Nodes {
		result[node.Name] = true
	}
	return result
}
