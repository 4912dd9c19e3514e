package utils

import (
	"net/http"
	"time"
)

// HTTPClient is the shared outbound client (catalog feed, Google userinfo).
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
