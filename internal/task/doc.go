// Package task manages in-process background job queuing and execution.
// It runs long-running operations such as remote tip generation on a fixed
// pool of workers so they never block HTTP request handling.
package task
