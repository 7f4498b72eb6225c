// Package api implements the HTTP REST API and WebSocket event stream for
// the TODO mock backend.
//
// This package provides:
//   - Task CRUD, completion toggles and collection stats, served under both
//     /api/todos + /api/stats (the firmware's paths) and /tasks + /stats
//   - A shared-secret key gate applied per route; only fetching a single
//     task is open
//   - WebSocket hub broadcasting task events to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Side channels
//
// Every successful mutation is fanned out to the WebSocket hub, the MQTT
// publisher, the InfluxDB stats recorder and the SQLite audit trail. Each is
// optional, and a failing side channel never changes the HTTP response.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
