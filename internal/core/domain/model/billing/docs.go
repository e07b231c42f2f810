// Package billing contains the Invoice and Transaction aggregates produced at
// checkout. An invoice itemizes shipping, add-on services, storage fees, and
// the shared-shipment discount; the transaction tracks the payment owed for
// one checkout and flips to Paid on the payment webhook.
package billing
