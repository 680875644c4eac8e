package xtract

import "context"

// ExtractBatch extracts a sequence of payloads in order. The optional cancel
// callback is polled between documents only, never mid-document, so each
// result in the returned slice is complete. A nil cancel never stops early.
// Context cancellation is honored the same way.
func (p *Pipeline) ExtractBatch(ctx context.Context, payloads []Payload, cancel func() bool) []Result {
	results := make([]Result, 0, len(payloads))
	for _, pl := range payloads {
		if ctx.Err() != nil {
			break
		}
		if cancel != nil && cancel() {
			p.logger.Info("batch canceled", "done", len(results), "total", len(payloads))
			break
		}
		results = append(results, p.Extract(ctx, pl))
	}
	return results
}
