// Package models defines domain entities and persistence interfaces for the Ecoleta collection point registry.
//
// Entities:
//   - [Item] : Collectible waste category, seeded once and read-only afterwards
//   - [Point] : Collection point with contact, geolocation and image reference
//   - [PointItem] : Association linking a point to the items it accepts
//   - [PointDetail] : Point plus the titles of its items
//
// Inputs and queries:
//   - [PointInput] : Unvalidated create payload; [PointInput.Validate] reports every failing field as [ValidationErrors]
//   - [PointFilter] : Location and item-set filter with intersection semantics
//
// [ItemRepository] and [PointRepository] are implemented by the repositories package over an injected database handle.
package models
