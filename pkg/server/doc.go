// Package server exposes the diagram pipeline over HTTP.
//
// # Endpoints
//
//	GET  /              service banner with the endpoint list
//	GET  /api/health    liveness probe
//	POST /api/generate  {"text": "..."} → extraction result
//	POST /api/render    {"text": "..."} or {"diagram": {...}} → artifact
//
// /api/generate answers with the extraction wire format: a failed
// extraction is a 200 response with "success": false and the extractor's
// message, the way existing frontends expect it. Missing bodies or text are
// 400, transport failures 502, and anything unexpected 500 with a
// "Server error: ..." message.
//
// /api/render takes ?format=svg|png|json (default svg) and optional
// viz_type, scale and max_width fields in the body. The json format answers
// with the summary, the scene and the SVG markup in one document.
//
// Every response carries an X-Request-ID header. Concurrent generate
// requests with identical text share a single extraction.
package server
