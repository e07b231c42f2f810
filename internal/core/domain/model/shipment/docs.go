// Package shipment contains the Shipment aggregate: a group of paid packages
// bundled at checkout that travel together to one destination. The shipment
// owns the authoritative package membership list and tracks dispatch through
// Created, Started, and Successful.
package shipment
