// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns; each model converts with ToDomain / FromDomain.
//
// Structure:
//   - base.go: BaseModel plus the JSON column types (StringList, AddressJSON)
//   - catalog.go: products and categories
//   - order.go: orders and order_items
//   - identity.go: users
//   - delivery.go: governorate delivery prices
//   - content.go: the storefront hero section
package models
