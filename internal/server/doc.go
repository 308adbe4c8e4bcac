// Package server exposes the evaluator over HTTP.
//
// Endpoints:
//
//	POST /v1/eval   JSON {"op": "mul", "signed": true, "args": ["3", "-4"]}
//	GET  /v1/eval   ?op=mul&signed=true&arg=3&arg=-4
//	GET  /v1/ops    operation registry
//	GET  /healthz   liveness, version and processor features
//	GET  /metrics   Prometheus exposition
//
// Every route goes through SecurityMiddleware and the metrics middleware.
// Evaluations run inside an OpenTelemetry span taken from the configured
// tracer provider, the global one by default.
package server
