// Package services implements clients for the external HTTP APIs the registry depends on.
//
// # API Client
//
// [APIService] performs raw GET requests against a base URL. Every request waits on a token-bucket limiter
// so bursts from the HTTP proxy or the terminal client are spread out before they reach the upstream.
//
// # Geography
//
// [GeoService] is the capability consumed by the server and the terminal client. [IBGEService] implements it
// against the IBGE localidades API:
//   - States : GET /localidades/estados?orderBy=nome, sigla → [models.Option]
//   - Cities : GET /localidades/estados/{uf}/municipios?orderBy=nome, nome → [models.Option]
//
// # Error Handling
//
// Transport failures, non-2xx statuses and undecodable bodies are all reported as [shared.ErrUpstream].
// Callers decide whether to degrade to an empty list.
package services
