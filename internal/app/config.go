package app

import (
	"net/http"
	"time"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	RelayURL      string        // relay base URL, e.g. http://localhost:3000
	AppIdentifier string        // sent with every link request
	CardFile      string        // card details JSON; empty uses the placeholder card
	Timeout       time.Duration // per-exchange deadline; 0 means none
	HTTP          *http.Client  // optional; built from Timeout when nil
}
