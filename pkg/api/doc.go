// Package api defines the wire messages of the splitledger.v1 services.
//
// Messages travel as JSON over the Connect protocol. Monetary amounts are
// decimal strings with exactly two fractional digits ("90.00").
package api
