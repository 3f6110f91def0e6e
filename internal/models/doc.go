// Package models defines the core domain models for mealsplit.
//
// # Input Models
//
// These are materialized by the storage layer and read by the calculator:
//   - Order: One user's order against a restaurant for one meal slot
//   - OrderLineItem: A purchased menu item with its snapshotted unit price
//   - User: The person placing orders, identified by username
//   - Restaurant: The vendor, carrying the flat delivery fee
//
// # Output Models
//
// These are produced fresh on each billing run and never persisted:
//   - BillingSummary: The per-slot invoice
//   - BillingUser: One user's aggregated items, subtotal and delivery share
//   - BillingItem: A line item copied into the invoice
//
// # Design Principles
//
// 1. **Usernames are billing keys**: grouping uses User.Username verbatim
// 2. **Snapshotted prices**: OrderLineItem.Price is authoritative, MenuItem.Price never is
// 3. **Plain float64 money**: amounts are not rounded until they are rendered
package models
