// Package core defines the data model of the transaction admission core:
// signed transactions, their actions, and the asset/address identifiers
// the cost calculator and mempool key on. Block production and action
// execution against state are out of scope; this package models only
// what is needed to decide whether a candidate transaction may enter the
// mempool.
package core
