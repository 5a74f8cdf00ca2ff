// Package repositories implements SQLite persistence for the collection point registry.
//
// Each repository is constructed with an injected [*sql.DB]; there is no package-level state.
//
// Key Implementations:
//   - [ItemRepository] : Read-only item catalog plus idempotent seeding of [DefaultItems]
//   - [PointRepository] : Point creation with item associations in a single transaction, detail lookup and
//     intersection filtering by item set
//
// Referential checks happen inside the create transaction: unknown item ids abort the whole write with a
// [models.UnknownItemsError], so no point row or association rows are left behind.
package repositories
