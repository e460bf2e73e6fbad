// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Close codes sent by the /ws handler in the application range (3000-3999).
const (
	BadSubprotocolError websocket.StatusCode = 3000 // client did not request the lucky21 subprotocol
	SessionLostError    websocket.StatusCode = 3001 // session missing from the request context
)
