package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// CallRecord describes one model call for the audit log.
type CallRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Request      string
	Response     string
}

// CallLog receives one record per model call. The store implements this.
type CallLog interface {
	AppendLLMCall(ctx context.Context, rec CallRecord) error
}

// AuditProvider is a decorator recording every call through a CallLog.
type AuditProvider struct {
	inner Provider
	log   CallLog
}

// WithAudit wraps a Provider so every call lands in the audit log.
func WithAudit(p Provider, log CallLog) Provider {
	return &AuditProvider{inner: p, log: log}
}

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := a.inner.Generate(ctx, req)

	rec := CallRecord{
		Provider:  a.inner.ModelID(),
		Model:     a.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		Request:   renderRequest(req),
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.Response = string(resp.Content)
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// The audit row must not fail the turn.
	if logErr := a.log.AppendLLMCall(ctx, rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM call: %v\n", logErr)
	}

	return resp, err
}

func (a *AuditProvider) ModelID() string {
	return a.inner.ModelID()
}

// renderRequest flattens a request into a readable transcript for the log.
func renderRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}

	return b.String()
}
