// Package ws streams device commands over a WebSocket.
//
// A client sends "iot" frames carrying a batch of commands and receives one
// "iot_result" frame per batch, with results in command order. Each batch
// runs under a timeout tied to the connection's request context.
//
// Message Types (Client → Server):
//   - iot: commands to execute, with an optional request_id
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - system: welcome frame carrying the connection ID
//   - iot_result: results for one iot frame
//   - pong: keep-alive reply
//   - error: malformed or oversized frame
//
// Example Usage:
//
//	handler := ws.NewHandler(registry, logger, metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
