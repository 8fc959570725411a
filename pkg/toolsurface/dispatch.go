package toolsurface

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CallRequest is one newline-framed JSON object read from the wire: an
// opaque ID the caller echoes back, the tool name, and its params.
type CallRequest struct {
	ID     string          `json:"id"`
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params"`
}

// CallResponse is the line written back: the echoed ID plus the Envelope.
type CallResponse struct {
	ID string `json:"id"`
	Envelope
}

// Dispatcher holds one profile's filtered catalog indexed by tool name
// and the dependencies every handler in it may call into.
type Dispatcher struct {
	profile Profile
	deps    *Dependencies
	byName  map[string]ToolSpec
	logger  *logrus.Logger
}

// NewDispatcher builds a Dispatcher scoped to profile, wiring every tool
// in that profile's filtered catalog to deps.
func NewDispatcher(profile Profile, deps *Dependencies, logger *logrus.Logger) *Dispatcher {
	d := &Dispatcher{profile: profile, deps: deps, byName: make(map[string]ToolSpec), logger: logger}
	for _, spec := range Filter(Catalog(), profile) {
		d.byName[spec.Name] = spec
	}
	return d
}

// Manifest returns this dispatcher's catalog, for manifest.go to render.
func (d *Dispatcher) Manifest() []ToolSpec {
	out := make([]ToolSpec, 0, len(d.byName))
	for _, spec := range d.byName {
		out = append(out, spec)
	}
	return out
}

// Call executes one request against the dispatcher's catalog, building
// its response envelope. It never panics across handler boundaries: a
// handler panic is recovered and reported as an x_api_error.
func (d *Dispatcher) Call(ctx context.Context, req CallRequest) (resp CallResponse) {
	resp.ID = req.ID
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.WithField("tool", req.Tool).WithField("panic", rec).Error("toolsurface: handler panicked")
			resp.Envelope = failure(newError(ErrXApiError, "handler panicked", false), time.Since(start).Milliseconds())
		}
	}()

	spec, ok := d.byName[req.Tool]
	if !ok {
		resp.Envelope = failure(newError(ErrInvalidInput, "unknown tool: "+req.Tool, false), time.Since(start).Milliseconds())
		return resp
	}

	data, err := spec.Handler(ctx, d.deps, req.Params)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		resp.Envelope = failure(errorFromErr(err), elapsed)
		return resp
	}

	if envelope, isOutcomeResult := outcomeEnvelope(data, elapsed); isOutcomeResult {
		resp.Envelope = envelope
		return resp
	}

	resp.Envelope = success(data, elapsed)
	return resp
}

// Run reads newline-framed JSON CallRequests from r and writes
// CallResponses to w, one per line, until r is exhausted or ctx is
// canceled. Nothing but protocol JSON ever reaches w — any other
// diagnostic output belongs on the Dispatcher's logger, which writes to
// stderr, never stdout.
func (d *Dispatcher) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req CallRequest
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := enc.Encode(CallResponse{
				ID:       "",
				Envelope: failure(newError(ErrInvalidInput, "malformed request: "+err.Error(), false), 0),
			}); encErr != nil {
				return encErr
			}
			continue
		}
		if req.ID == "" {
			req.ID = uuid.New().String()
		}

		resp := d.Call(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}
