// Package pricing contains the rate catalog value objects: shipping price
// rules keyed by route, add-on service rules, and the operational settings
// driving storage-fee accrual. The pricing domain services combine these into
// quotes and checkout totals.
package pricing
