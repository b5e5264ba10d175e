// Package service provides the provider registry for the terminal service.
//
// The registry maintains a catalog of service providers and routes tool
// execution requests ("<service>.<tool>") to the owning provider.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(terminalProvider)
//	result, err := registry.Execute(ctx, "terminal.create", params, appCtx)
package service
