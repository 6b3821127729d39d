package output

// RuleInfo describes one generated rule for JSON output.
type RuleInfo struct {
	Kind      string   `json:"kind"`
	Target    string   `json:"target"`
	Output    string   `json:"output"`
	DependsOn []string `json:"depends_on,omitempty"`
	Forwarded bool     `json:"forwarded,omitempty"`
}

// GraphNode is a target with its edges.
type GraphNode struct {
	Target    string   `json:"target"`
	DependsOn []string `json:"depends_on,omitempty"`
	UsedBy    []string `json:"used_by,omitempty"`
}

// GraphLevel groups targets with the same depth.
type GraphLevel struct {
	Level   int         `json:"level"`
	Targets []GraphNode `json:"targets"`
}

// GraphOutput is the JSON form of the dependency graph.
type GraphOutput struct {
	Levels       []GraphLevel `json:"levels"`
	TotalTargets int          `json:"total_targets"`
	TotalEdges   int          `json:"total_edges"`
}

// GenerateSummary reports one generation for JSON output.
type GenerateSummary struct {
	Output          string `json:"output"`
	Pairs           int    `json:"pairs"`
	CommonFragments int    `json:"common_fragments"`
	IreeFragments   int    `json:"iree_fragments"`
}
