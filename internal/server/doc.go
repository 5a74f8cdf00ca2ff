// Package server provides HTTP routing, middleware and handlers for the collection point API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [BasicRouter] registers "METHOD /path" patterns on an [http.ServeMux] and wraps the whole mux with the
// middleware stack, first added outermost:
//   - [Recover] : panics become a 500 JSON body
//   - [RequestID] : X-Request-ID is reused or generated and echoed back
//   - [Logging] : one structured line per request
//   - [CORS] : rs/cors with the configured origins
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing one handler to serve a group of patterns and dispatch on [http.Request.Pattern].
//
//   - [ItemHandler] : GET /items
//   - [PointHandler] : POST /point, GET /point, GET /point/{id}
//   - [GeoHandler] : GET /geo/ufs, GET /geo/ufs/{uf}/cities
//   - [HealthHandler] : GET /health
//
// Uploaded images are served from GET /uploads/ when the disk store is in use.
//
// # Error Mapping
//
// Every error body is JSON with an "error" key:
//   - [models.ValidationErrors] : 400 with "fields"
//   - [models.UnknownItemsError] : 422 with "items"
//   - [shared.ErrPointNotFound] : 404
//   - [shared.ErrUpstream] from geo lookups : 200 with an empty list
//   - anything else : 500, logged
package server
