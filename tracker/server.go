package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devskill-org/solar-tracker/sun"
)

// WebServer provides HTTP endpoints for health checking, on-demand position
// queries and a WebSocket sample stream
type WebServer struct {
	tracker   *Tracker
	server    *http.Server
	port      int
	startTime time.Time
	upgrader  websocket.Upgrader
	clients   sync.Map
	broadcast chan []byte
	done      chan struct{}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version,omitempty"`
	Tracker   TrackerHealth `json:"tracker"`
	System    SystemHealth  `json:"system"`
}

// TrackerHealth represents tracker-specific health information
type TrackerHealth struct {
	IsRunning      bool       `json:"is_running"`
	SiteName       string     `json:"site_name"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	SampleInterval string     `json:"sample_interval"`
	SampleCount    int64      `json:"sample_count"`
	LastSample     *time.Time `json:"last_sample,omitempty"`
}

// SystemHealth represents system-level health information
type SystemHealth struct {
	Uptime string `json:"uptime"`
}

// PositionResponse represents an on-demand position query result
type PositionResponse struct {
	Time              string  `json:"time"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Azimuth           float64 `json:"azimuth"`
	Altitude          float64 `json:"altitude"`
	AzimuthCompassDeg float64 `json:"azimuth_compass_deg"`
	AltitudeDeg       float64 `json:"altitude_deg"`
}

// NewWebServer creates a new web server for the tracker
func NewWebServer(tracker *Tracker, port int) *WebServer {
	if port <= 0 {
		return nil // Web server disabled
	}

	mux := http.NewServeMux()
	ws := &WebServer{
		tracker:   tracker,
		port:      port,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	// Register API routes
	mux.HandleFunc("/api/health", ws.healthHandler)
	mux.HandleFunc("/api/position", ws.positionHandler)
	mux.HandleFunc("/api/ws", ws.wsHandler)

	return ws
}

// Start starts the web server
func (ws *WebServer) Start() error {
	if ws == nil {
		return nil // Web server disabled
	}

	go ws.handleBroadcasts()

	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.tracker.logger.Printf("Web server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the web server
func (ws *WebServer) Stop(ctx context.Context) error {
	if ws == nil {
		return nil // Web server disabled
	}

	close(ws.done)

	// Close all WebSocket connections
	ws.clients.Range(func(key, value any) bool {
		if conn, ok := key.(*websocket.Conn); ok {
			conn.Close()
		}
		return true
	})

	return ws.server.Shutdown(ctx)
}

// BroadcastSample pushes a sample to all connected WebSocket clients.
func (ws *WebServer) BroadcastSample(sample *Sample) {
	if ws == nil {
		return
	}

	message, err := json.Marshal(sample)
	if err != nil {
		ws.tracker.logger.Printf("Failed to marshal sample: %v", err)
		return
	}

	select {
	case ws.broadcast <- message:
	default:
		// Channel full, drop the sample rather than block the sampler
	}
}

// healthHandler handles the /api/health endpoint
func (ws *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := ws.tracker.GetStatus()
	config := ws.tracker.GetConfig()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
		Tracker: TrackerHealth{
			IsRunning:      status.IsRunning,
			SiteName:       config.SiteName,
			Latitude:       config.Latitude,
			Longitude:      config.Longitude,
			SampleInterval: config.SampleInterval.String(),
			SampleCount:    status.SampleCount,
			LastSample:     status.LastSample,
		},
		System: SystemHealth{
			Uptime: formatUptime(time.Since(ws.startTime)),
		},
	}

	if !status.IsRunning {
		health.Status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// positionHandler handles the /api/position endpoint. Without query
// parameters it computes the current position for the configured site;
// lat, lng and time (RFC3339) parameters override the defaults.
func (ws *WebServer) positionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	config := ws.tracker.GetConfig()
	lat := config.Latitude
	lng := config.Longitude
	at := time.Now()

	query := r.URL.Query()
	if v := query.Get("lat"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid lat parameter: %v", err), http.StatusBadRequest)
			return
		}
		lat = parsed
	}
	if v := query.Get("lng"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid lng parameter: %v", err), http.StatusBadRequest)
			return
		}
		lng = parsed
	}
	if v := query.Get("time"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid time parameter, want RFC3339: %v", err), http.StatusBadRequest)
			return
		}
		at = parsed
	}

	pos, err := sun.GetPosition(at, lat, lng)
	if err != nil {
		var inputErr *sun.InvalidInputError
		if errors.As(err, &inputErr) {
			http.Error(w, inputErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := PositionResponse{
		Time:              at.UTC().Format(time.RFC3339),
		Latitude:          lat,
		Longitude:         lng,
		Azimuth:           pos.Azimuth,
		Altitude:          pos.Altitude,
		AzimuthCompassDeg: CompassAzimuthDeg(pos.Azimuth),
		AltitudeDeg:       pos.Altitude * 180 / math.Pi,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// wsHandler handles WebSocket connections
func (ws *WebServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.tracker.logger.Printf("WebSocket upgrade error: %v", err)
		return
	}

	ws.clients.Store(conn, true)
	ws.tracker.logger.Printf("New WebSocket client connected. Total clients: %d", ws.clientCount())

	// Send the latest sample immediately so clients don't wait a full cycle
	if latest := ws.tracker.Latest(); latest != nil {
		if err := conn.WriteJSON(latest); err != nil {
			ws.tracker.logger.Printf("Failed to send initial sample: %v", err)
		}
	}

	defer func() {
		ws.clients.Delete(conn)
		conn.Close()
		ws.tracker.logger.Printf("WebSocket client disconnected. Total clients: %d", ws.clientCount())
	}()

	// Read messages from client (ping/pong, close)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.tracker.logger.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// handleBroadcasts sends messages to all connected clients
func (ws *WebServer) handleBroadcasts() {
	for {
		select {
		case message := <-ws.broadcast:
			ws.clients.Range(func(key, value any) bool {
				conn, ok := key.(*websocket.Conn)
				if !ok {
					return true
				}

				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					ws.tracker.logger.Printf("WebSocket write error: %v", err)
					conn.Close()
					ws.clients.Delete(conn)
				}
				return true
			})
		case <-ws.done:
			return
		}
	}
}

func (ws *WebServer) clientCount() int {
	count := 0
	ws.clients.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// formatUptime formats a duration as a human-readable uptime string
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
