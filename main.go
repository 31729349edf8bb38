// Command klondike starts the Klondike solitaire server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config and session storage, debug logging, version output,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
	"github.com/wricardo/klondike/transport/mcp"
	"github.com/wricardo/klondike/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Klondike Solitaire Server"
)

// Storage backends accepted by -store
const (
	storeFile     = "file"
	storeRedis    = "redis"
	storePostgres = "postgres"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", getConfigDirDefault(), "Directory containing rule presets")
	sessionsDir  = flag.String("sessions-dir", getSessionsDirDefault(), "Directory for saved sessions (file store)")
	store        = flag.String("store", envOr("SESSION_STORE", storeFile), "Session store: file, redis or postgres")
	sessionTTL   = flag.Duration("session-ttl", 24*time.Hour, "Drop sessions not accessed for this long")
	uuidIDs      = flag.Bool("uuid-ids", false, "Generate UUID session IDs instead of short hex IDs")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	return envOr("CONFIG_DIR", "configs")
}

// getSessionsDirDefault honors SESSIONS_DIR, then the user's XDG data directory.
func getSessionsDirDefault() string {
	return envOr("SESSIONS_DIR", filepath.Join(xdg.DataHome, "klondike", "sessions"))
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  REDIS_URL        Redis URL for -store redis\n")
		fmt.Fprintf(os.Stderr, "  DATABASE_URL     Postgres DSN for -store postgres\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                       # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090            # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -store redis          # Keep sessions in Redis\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp             # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	flag.Parse()

	// Show version if requested
	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	// Setup logging
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}

	switch {
	case envErr == nil:
		log.Info("Loaded environment variables from .env file")
	case !os.IsNotExist(envErr):
		log.WithError(envErr).Warn("Error loading .env file")
	}

	// Determine mode from command
	args := flag.Args()
	mode := "server" // default
	if len(args) > 0 {
		mode = args[0]
	}

	log.Infof("Starting %s v%s (mode: %s)", AppName, Version, mode)

	// Initialize services
	svcs, err := initializeServices(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(svcs.game)

	case "server", "http":
		runHTTPServer(svcs)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(svcs *services) {
	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Create API server
	apiServer := api.NewServer(svcs.game, hub)

	// Setup HTTP server address
	addr := fmt.Sprintf("%s:%d", *host, *port)

	// Create MCP client for /mcp endpoint
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := newRouter(apiServer, mcpClient.GetMCPServer())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go svcs.runMaintenance(ctx)

	var wg sync.WaitGroup

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Check if ngrok should be enabled (from flag or environment)
	ngrokShouldRun := *ngrokEnabled
	if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
		ngrokShouldRun = true
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter)
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Infof("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	// Wait for all goroutines to finish
	wg.Wait()

	if err := svcs.sessions.SaveAllSessions(); err != nil {
		log.WithError(err).Warn("Failed to save sessions on shutdown")
	}
	log.Info("Server stopped")
}

// newRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp.
func newRouter(apiServer http.Handler, mcpServer *server.MCPServer) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is cancelled.
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	// Get auth token from flag or environment (support both naming conventions)
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}

	if authToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Infof("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Infof("Ngrok tunnel established: %s", ngrokURL)
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Warn("Ngrok server error")
	}
	log.Info("Ngrok tunnel closed")
}

// services bundles what initializeServices wires together
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	closers     []func()
}

// Close releases store connections
func (s *services) Close() {
	for _, closeFn := range s.closers {
		closeFn()
	}
}

// initializeServices wires the config manager, the selected session store,
// the session manager and the game service.
func initializeServices(ctx context.Context) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	svcs := &services{}

	persistence, closeFn, err := openStore(ctx, *store, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}
	if closeFn != nil {
		svcs.closers = append(svcs.closers, closeFn)
	}
	svcs.persistence = persistence

	// Create session manager with persistence
	sessionManager := session.NewManagerWithPersistence(persistence)
	sessionManager.SetLogger(log.StandardLogger())
	if *uuidIDs {
		sessionManager.SetIDGenerator(session.UUIDSessionID)
	}
	svcs.sessions = sessionManager

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.WithError(err).Warn("Failed to load persisted sessions")
	}

	svcs.game = service.NewGameServiceWithLogger(sessionManager, configManager, log.StandardLogger())
	return svcs, nil
}

// openStore builds the session store named by kind. The returned func, when
// non-nil, releases its connections.
func openStore(ctx context.Context, kind string, configManager service.ConfigManager) (session.SessionPersistence, func(), error) {
	switch kind {
	case storeFile, "":
		p, err := session.NewFilePersistence(*sessionsDir, configManager)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("dir", *sessionsDir).Info("Using file session store")
		return p, nil, nil

	case storeRedis:
		url := envOr("REDIS_URL", "redis://localhost:6379/0")
		p, err := session.NewRedisPersistence(url, configManager)
		if err != nil {
			return nil, nil, err
		}
		p.SetTTL(*sessionTTL)
		log.Info("Using redis session store")
		return p, func() {
			if err := p.Close(); err != nil {
				log.WithError(err).Warn("Failed to close redis client")
			}
		}, nil

	case storePostgres:
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		p, err := session.NewPostgresPersistence(ctx, dsn, configManager)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using postgres session store")
		return p, p.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// runMaintenance prunes expired sessions and drops in-memory sessions whose
// stored copy was removed behind the server's back.
func (s *services) runMaintenance(ctx context.Context) {
	cleanup := time.NewTicker(1 * time.Hour)
	defer cleanup.Stop()
	storeSync := time.NewTicker(5 * time.Second)
	defer storeSync.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := s.sessions.CleanupExpiredSessions(*sessionTTL); removed > 0 {
				log.Infof("Cleaned up %d expired sessions", removed)
			}
		case <-storeSync.C:
			if pruned := s.pruneOrphans(); pruned > 0 {
				log.Infof("Store sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

// pruneOrphans removes sessions from memory whose stored copy no longer exists.
func (s *services) pruneOrphans() int {
	if s.persistence == nil {
		return 0
	}

	pruned := 0
	for _, sess := range s.sessions.List() {
		if s.persistence.Exists(sess.ID) {
			continue
		}
		if err := s.sessions.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.WithField("session", sess.ID).Debug("Pruned session from memory (stored copy deleted)")
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	var baseURL string

	// First, try to connect to external API server at localhost:8080
	externalURL := "http://localhost:8080"
	log.Infof("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Infof("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		// Start internal HTTP server on a random available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalAddr := listener.Addr().String()
		log.Infof("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, hub),
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("Internal HTTP server error")
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Infof("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
