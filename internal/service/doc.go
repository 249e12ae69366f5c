// Package service implements the garden and journal operations on top of
// the store interfaces. Multi-step mutations run inside a single database
// transaction, so every write is committed before the operation returns.
package service
