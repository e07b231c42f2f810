// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the forwarding system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PriceCalculator: A domain service resolving shipping cost and flat-rate
//     pricing for a parcel from the configured rate table
//   - CartBundler: A domain service grouping paid parcels into shipments by
//     destination, delivery type, and warehouse
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
