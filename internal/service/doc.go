// Package service routes commands to service providers.
//
// A command names a service and a method. The registry checks the method
// exists and its required parameters are present, runs the provider, and
// turns any error or panic into an error response. Batches run in order with
// each command isolated from the others.
//
// Example Usage:
//
//	registry := service.NewRegistry(logger, metrics)
//	registry.Register(system.NewProvider(launcher, logger))
//	resp := registry.Execute(ctx, types.Command{Name: "SystemManager", Method: "OpenApplication", Parameters: params})
package service
