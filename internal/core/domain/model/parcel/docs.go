// Package parcel contains the Parcel aggregate, the heart of the forwarding
// domain. A parcel is a single physical package moving through intake,
// warehouse arrival, quoting, payment, and one of three terminal outcomes:
// Shipped (Delivery mode), Picked up (Pickup mode), or Returned.
//
// All lifecycle mutations go through transition methods that check the
// expected predecessor status; a mismatch fails with InvalidTransitionError
// and leaves the aggregate untouched. Per-transition timestamps are stamped
// exactly once by the transition reaching the corresponding status.
package parcel
