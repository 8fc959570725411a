// Package toolsurface exposes Tuitbot's workflow and toolkit operations
// to an external agent as a versioned catalog of tools, filtered by
// profile and dispatched over a newline-framed stdio channel. Every
// response is wrapped in a uniform envelope; every error is mapped onto
// a closed ErrorCode set (see errors.go).
package toolsurface

import (
	"context"
	"encoding/json"
)

// ToolVersion is stamped into every envelope's meta.tool_version.
const ToolVersion = "1.0.0"

// Category groups a tool by the kind of operation it performs; the
// mutation gateway's policy rules match against this same string.
type Category string

// These values match the category strings the mutation gateway's policy
// rules already match against (see pkg/gateway/policy.go's templateRules
// and the safe template's "delete"/"follow_unfollow" split), so a tool's
// declared Category doubles as the Category on the gateway.Request its
// handler builds.
const (
	CategoryRead           Category = "read"
	CategoryWrite          Category = "write"
	CategoryEngage         Category = "engagement"
	CategoryFollowUnfollow Category = "follow_unfollow"
	CategoryDelete         Category = "delete"
	CategoryList           Category = "list"
	CategoryUtility        Category = "utility"
)

// Lane distinguishes a tool that composes several workflow steps
// (Workflow) from one that exposes a single toolkit primitive (Shared).
type Lane string

const (
	LaneShared   Lane = "Shared"
	LaneWorkflow Lane = "Workflow"
)

// Profile is a named subset of the catalog exposed to a connecting agent.
type Profile string

const (
	ProfileReadonly       Profile = "Readonly"
	ProfileApiReadonly    Profile = "ApiReadonly"
	ProfileWrite          Profile = "Write"
	ProfileAdmin          Profile = "Admin"
	ProfileUtilityReadonly Profile = "Utility-readonly"
	ProfileUtilityWrite   Profile = "Utility-write"
)

// Capabilities names the runtime dependencies a tool's handler reaches
// for, independent of its declared Profiles — used to validate a
// Dependencies value before Dispatch wires it to the catalog.
type Capabilities struct {
	API   bool
	LLM   bool
	Store bool
}

// Handler executes one tool call. params is the raw `params` field of
// the request envelope; the return value becomes envelope.data on
// success. Handlers never construct an Error for dependency-level
// failures — they return the raw error and dispatch.go maps it.
type Handler func(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error)

// ToolSpec is one catalog entry: everything a profile-filtering pass or
// a manifest generator needs to know about a tool without invoking it.
type ToolSpec struct {
	Name         string
	Category     Category
	Lane         Lane
	Mutates      bool
	Capabilities Capabilities
	Scopes       []string
	Profiles     []Profile
	InputSchema  map[string]interface{}
	Handler      Handler
}

func (t ToolSpec) inProfile(p Profile) bool {
	for _, have := range t.Profiles {
		if have == p {
			return true
		}
	}
	return false
}

// schema builds a minimal JSON-Schema object description: props maps
// property name to its own schema fragment, required lists mandatory
// property names.
func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func strField(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intField(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func boolField(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": desc}
}

func strArrayField(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": desc}
}
