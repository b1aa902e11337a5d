// Package http provides the REST surface of the voice assistant.
//
// Handlers use the Gin framework and return command results in the same
// flattened response shape the WebSocket stream uses. Command failures are
// reported in the body with status 200; only malformed requests get a 4xx.
//
// Endpoints:
//   - Liveness: / and /health
//   - Services: /services?category=
//   - Commands: POST /commands (one command object or an array)
//   - Reminders: /reminders?status=
//   - Notifications: /notifications?limit=&outcome=
//
// Example Usage:
//
//	handlers := http.NewHandlers(registry, scheduler, dispatcher, catalogs, logger)
//	router.GET("/health", handlers.Health)
//	router.POST("/commands", handlers.ExecuteCommands)
package http
