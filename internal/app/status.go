package app

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// statusPayload is the wire shape of the /status endpoint.
type statusPayload struct {
	DiscoveryCompleted  bool     `json:"discovery_completed"`
	WellKnownOnly       bool     `json:"well_known_only"`
	AdditionalPathCount int      `json:"additional_path_count"`
	AdditionalPaths     []string `json:"additional_paths"`
}

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler reports the current discovery state.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr)

	paths := a.cache.AdditionalSearchPaths()
	payload := statusPayload{
		DiscoveryCompleted:  a.cache.Completed(),
		WellKnownOnly:       a.cache.WellKnownOnly(),
		AdditionalPathCount: len(paths),
		AdditionalPaths:     paths,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode status payload", "error", err)
	}
}

// startStatusServer initializes and runs the HTTP status server.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/status", a.statusHandler)

	addr := fmt.Sprintf(":%d", port)

	a.logger.Info("Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.logger.Error("Status server failed", "error", err)
	}
}
