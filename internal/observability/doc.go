// Package observability provides the structured logger and Prometheus
// instrumentation shared by the HTTP surface and the data layer.
package observability
