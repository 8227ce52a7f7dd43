// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// entity with ToDomain and FromDomain.
//
// Structure:
//   - base.go: BaseModel and the AutoMigrate list
//   - identity.go: users, sellers, password_resets
//   - listing.go: listings, listing_geos, listing_prices, road_accesses
//   - media.go: images, fullsize_previews, shares
package models
