// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// bridge needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [Channel]: Carries one envelope to the host and returns its reply
//   - [Host]: The host side of the ipc_message call
//   - [Store]: The dispatch entry point the bridge injects actions through
//   - [ClassifierRepository]: Persists the host's classifier name
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (HTTP, in-process calls, file system, zerolog).
package ports
