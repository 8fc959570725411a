package toolsurface

// RollbackHint is structured guidance the calling agent can execute to
// undo a successful mutation (e.g. "call unlike_tweet with the same id").
type RollbackHint struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// Meta carries envelope metadata common to every response, plus the
// mutation-specific fields present only on a successful mutation.
type Meta struct {
	ToolVersion   string        `json:"tool_version"`
	ElapsedMs     int64         `json:"elapsed_ms"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	Rollback      *RollbackHint `json:"rollback,omitempty"`
}

// Envelope is the uniform shape every tool call response takes.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

func success(data interface{}, elapsed int64) Envelope {
	return Envelope{Success: true, Data: data, Meta: Meta{ToolVersion: ToolVersion, ElapsedMs: elapsed}}
}

func successMutation(data interface{}, elapsed int64, correlationID string, rollback *RollbackHint) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Meta: Meta{
			ToolVersion:   ToolVersion,
			ElapsedMs:     elapsed,
			CorrelationID: correlationID,
			Rollback:      rollback,
		},
	}
}

func failure(err *Error, elapsed int64) Envelope {
	return Envelope{Success: false, Error: err, Meta: Meta{ToolVersion: ToolVersion, ElapsedMs: elapsed}}
}
