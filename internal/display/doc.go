// Package display serves the presentation surface: a websocket feed that
// pushes every pointer change to connected display outputs and a JSON API
// the operator drives the service from. Event delivery is fire-and-forget;
// the engine never waits on a display to acknowledge a render.
package display
