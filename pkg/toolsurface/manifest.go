package toolsurface

import "sort"

// ManifestTool is one tool's externally-visible description, rendered
// for a connecting agent's tool-discovery step. It omits Handler and
// Capabilities, which are dispatch-internal.
type ManifestTool struct {
	Name        string                 `json:"name"`
	Category    Category               `json:"category"`
	Lane        Lane                   `json:"lane"`
	Mutates     bool                   `json:"mutates"`
	Scopes      []string               `json:"scopes,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Manifest is the full response to a manifest request: the profile it
// was rendered for and the tool descriptions available under it.
type Manifest struct {
	Profile Profile        `json:"profile"`
	Tools   []ManifestTool `json:"tools"`
}

// BuildManifest renders the dispatcher's filtered catalog as a Manifest,
// sorted by tool name for a stable diff across catalog versions.
func (d *Dispatcher) BuildManifest() Manifest {
	specs := d.Manifest()
	tools := make([]ManifestTool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, ManifestTool{
			Name:        spec.Name,
			Category:    spec.Category,
			Lane:        spec.Lane,
			Mutates:     spec.Mutates,
			Scopes:      spec.Scopes,
			InputSchema: spec.InputSchema,
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return Manifest{Profile: d.profile, Tools: tools}
}
