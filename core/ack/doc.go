// Package ack stores operator acknowledgements of reconciliation items.
//
// Each booking row carries at most one acknowledgement: the fingerprint the
// operator reviewed, when, and by whom. A new acknowledgement overwrites the
// previous one. An acknowledgement suppresses an item only while the item's
// fingerprint still equals the stored one, so any change in the underlying
// facts brings the item back.
package ack
