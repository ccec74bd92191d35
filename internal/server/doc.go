// Package server exposes the mood classifier over HTTP using Echo.
//
// Routes: mood API (classify, examples, teacher panel), health probes and Prometheus metrics.
package server
