// Package report turns evaluation results into host attachments, applying
// the user's severity gate before anything reaches the host.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/modelcheck/modelcheck/pkg/rule"
)

// HostContext is the surface a run reports through. Implementations attach
// results to model objects and record the run's final state.
type HostContext interface {
	// AttachInfo reports an informational annotation for the given object
	// ids: passing results and skip notices.
	AttachInfo(message string, objectIDs []string, metadata map[string]any)

	// AttachResult reports a verdict for the given object ids. Metadata is
	// host-visible annotation; implementations may assume it marshals to
	// JSON (the Reporter guarantees this).
	AttachResult(severity rule.Severity, message string, objectIDs []string, metadata map[string]any)

	// MarkRunSuccess records that the run completed, with a human summary.
	MarkRunSuccess(summary string)

	// MarkRunException records that the run aborted before completing.
	MarkRunException(err error)
}

// JSONLHost is a HostContext that writes one JSON object per attachment,
// suitable for piping into other tooling or capturing in tests.
type JSONLHost struct {
	enc *json.Encoder
	mu  sync.Mutex
}

// NewJSONLHost writes attachments to w as JSON lines.
func NewJSONLHost(w io.Writer) *JSONLHost {
	return &JSONLHost{enc: json.NewEncoder(w)}
}

type hostRecord struct {
	Metadata  map[string]any `json:"metadata,omitempty"`
	Kind      string         `json:"kind"`
	Severity  string         `json:"severity,omitempty"`
	Message   string         `json:"message"`
	ObjectIDs []string       `json:"objectIds,omitempty"`
}

func (h *JSONLHost) AttachInfo(message string, objectIDs []string, metadata map[string]any) {
	h.AttachResult(rule.SeverityInfo, message, objectIDs, metadata)
}

func (h *JSONLHost) AttachResult(severity rule.Severity, message string, objectIDs []string, metadata map[string]any) {
	h.write(hostRecord{
		Kind:      "result",
		Severity:  severity.String(),
		Message:   message,
		ObjectIDs: objectIDs,
		Metadata:  metadata,
	})
}

func (h *JSONLHost) MarkRunSuccess(summary string) {
	h.write(hostRecord{Kind: "run", Severity: "Success", Message: summary})
}

func (h *JSONLHost) MarkRunException(err error) {
	h.write(hostRecord{Kind: "run", Severity: "Exception", Message: fmt.Sprint(err)})
}

func (h *JSONLHost) write(rec hostRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Encode cannot fail here: every field is a plain string or a metadata
	// map already vetted by the Reporter.
	_ = h.enc.Encode(rec)
}
