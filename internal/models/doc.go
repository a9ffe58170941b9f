// Package models defines the core domain models for shopfront.
//
// # Models
//
//   - Item: a catalog entry (immutable once loaded)
//   - Order: a user's order with line items, shipping address and a computed total
//   - LineItem: one priced line on an order
//   - Address: a shipping address
//   - CurrentUser: the single process-wide logged-in user
//   - Session: MCP session metadata used for idle timeout and rate limiting
//
// # Design Principles
//
// 1. **Values, not pointers**: stores hand out copies, so models are plain values
// 2. **Owned state**: nothing outside the owning store keeps a reference to an Order
// 3. **JSON shapes live here**: the struct tags are the wire format of the HTTP API
//
// # Users
//
// Users are identified by email only. There is no user table; the current user is a
// single slot that login overwrites and logout clears.
package models
