// Package mocks provides test doubles for the application's external
// boundaries, such as the remote tip generator.
package mocks
