// Package services provides the centralized service registry for
// memoryd.
//
// Registry pattern for accessing the core collaborators (engine,
// store, capability provider, translator, session manager). Use
// NewRegistry() to create a registry with service instances, then
// accessor methods to retrieve individual services.
package services
