package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/35niavlys/speedfng/internal/config"
	"github.com/35niavlys/speedfng/internal/effects"
	"github.com/35niavlys/speedfng/internal/mode"
	"github.com/35niavlys/speedfng/internal/net/proto"
	"github.com/35niavlys/speedfng/internal/net/ws"
	"github.com/35niavlys/speedfng/internal/sim"
	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/internal/world"
	"github.com/35niavlys/speedfng/logging"
	loggingSinks "github.com/35niavlys/speedfng/logging/sinks"
)

// Config collects what Run needs from the caller.
type Config struct {
	Logger   telemetry.Logger
	Settings config.Config
	// Stdout receives the console sink. Defaults to os.Stdout.
	Stdout io.Writer
}

// Server is the assembled game server: logging router, game, tick loop and
// websocket endpoint.
type Server struct {
	cfg     config.Config
	logger  telemetry.Logger
	router  *logging.Router
	metrics *logging.Metrics
	jsonOut io.Closer

	game    *world.Game
	mode    *mode.Teams
	fx      *effects.Buffer
	loop    *sim.Loop
	handler *ws.Handler
	mux     *http.ServeMux

	statusMu sync.Mutex
	status   status
}

type status struct {
	Tick    int            `json:"tick"`
	Players []playerStatus `json:"players"`
}

type playerStatus struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Score int    `json:"score"`
	Pause string `json:"pause,omitempty"`
	Alive bool   `json:"alive"`
}

// New wires a server from cfg without starting it.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	settings := cfg.Settings.Normalized()

	grid, err := settings.Grid()
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: settings, logger: logger, metrics: &logging.Metrics{}}

	var sinks []logging.NamedSink
	if settings.Logging.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(stdout, settings.Logging.Console)})
	}
	if settings.Logging.HasSink("json") {
		var out io.Writer = stdout
		if path := settings.Logging.JSON.FilePath; path != "" {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("failed to open json log %s: %w", path, err)
			}
			s.jsonOut = file
			out = file
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(out, settings.Logging.JSON.FlushInterval)})
	}
	router, err := logging.NewRouter(logging.SystemClock, settings.Logging, sinks)
	if err != nil {
		return nil, fmt.Errorf("failed to construct logging router: %w", err)
	}
	s.router = router

	metrics := telemetry.WrapMetrics(s.metrics)
	s.fx = effects.NewBuffer(effects.DefaultLimit)
	s.game = world.NewGame(world.GameConfig{
		TickSpeed:    settings.Server.TickRate,
		Settings:     settings.Game,
		Tuning:       settings.Tuning,
		Weapons:      settings.Weapons,
		Collision:    grid,
		Presentation: s.fx,
		Publisher:    router,
		Logger:       logger,
		Metrics:      metrics,
	})
	s.mode = mode.New(s.game, grid.Spawns(), settings.Mode)
	s.game.SetController(s.mode)

	s.loop = sim.NewLoop(sim.NewGameEngine(s.game), sim.Deps{
		Logger:  logger,
		Metrics: metrics,
	}, sim.LoopConfig{
		TickRate:        settings.Server.TickRate,
		CatchupMaxTicks: settings.Server.CatchupMaxTicks,
		CommandCapacity: settings.Server.CommandCapacity,
		PerActorLimit:   settings.Server.PerActorLimit,
		WarningStep:     settings.Server.CommandCapacity / 4,
	}, sim.LoopHooks{
		NextTick:  func() uint64 { return uint64(s.game.CurrentTick()) + 1 },
		AfterStep: s.afterStep,
		OnQueueWarning: func(length int) {
			logger.Printf("[backpressure] command queue at %d", length)
		},
	})

	s.handler = ws.NewHandler(s.loop, ws.HandlerConfig{
		Logger:        logger,
		Metrics:       metrics,
		MaxClients:    settings.Server.MaxClients,
		AdminPassword: settings.Server.AdminPassword,
		TickSpeed:     settings.Server.TickRate,
		SendQueue:     settings.Server.SendQueue,
		WriteTimeout:  settings.Server.WriteTimeout,
	})

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("/diagnostics", s.diagnostics)
	s.mux.HandleFunc("/ws", s.handler.Handle)
	return s, nil
}

// Handler serves health, diagnostics and the websocket endpoint.
func (s *Server) Handler() http.Handler { return s.mux }

// Loop exposes the tick loop.
func (s *Server) Loop() *sim.Loop { return s.loop }

// afterStep runs on the loop goroutine: it drains the tick's events and sends
// every attached client its own frame.
func (s *Server) afterStep(sim.LoopStepResult) {
	batch := s.fx.Drain()
	tick := s.game.CurrentTick()
	for _, sess := range s.handler.Sessions() {
		snapshot := s.game.Snap(sess.ClientID, sess.Legacy)
		data, err := proto.EncodeFrame(proto.NewFrame(tick, snapshot, batch.For(sess.ClientID)))
		if err != nil {
			s.logger.Printf("failed to encode frame for client %d: %v", sess.ClientID, err)
			continue
		}
		s.handler.Send(sess.ClientID, data)
	}
	s.updateStatus(tick)
}

func (s *Server) updateStatus(tick int) {
	players := s.game.Players()
	next := status{Tick: tick, Players: make([]playerStatus, 0, len(players))}
	for _, p := range players {
		next.Players = append(next.Players, playerStatus{
			ID:    p.ID(),
			Name:  p.Name,
			Team:  s.mode.TeamName(p.Team()),
			Score: s.mode.Score(p.ID()),
			Pause: pauseLabel(p.Pause()),
			Alive: p.Character() != nil,
		})
	}
	s.statusMu.Lock()
	s.status = next
	s.statusMu.Unlock()
}

func pauseLabel(state world.PauseState) string {
	if state == world.PauseNone {
		return ""
	}
	return state.String()
}

func (s *Server) diagnostics(w http.ResponseWriter, r *http.Request) {
	s.statusMu.Lock()
	current := s.status
	s.statusMu.Unlock()

	payload := struct {
		Status     string              `json:"status"`
		ServerTime int64               `json:"serverTime"`
		TickRate   int                 `json:"tickRate"`
		Tick       int                 `json:"tick"`
		Players    []playerStatus      `json:"players"`
		Metrics    map[string]uint64   `json:"metrics"`
		Logging    logging.RouterStats `json:"logging"`
	}{
		Status:     "ok",
		ServerTime: time.Now().UnixMilli(),
		TickRate:   s.cfg.Server.TickRate,
		Tick:       current.Tick,
		Players:    current.Players,
		Metrics:    s.metrics.Snapshot(),
		Logging:    s.router.Stats(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Serve runs the tick loop and the HTTP server on ln until ctx is cancelled
// or either fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.mux}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.loop.Run(ctx)
	})
	group.Go(func() error {
		s.logger.Printf("server listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		s.handler.Close()
		return srv.Shutdown(shutdownCtx)
	})

	err := group.Wait()
	s.close()
	return err
}

func (s *Server) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.router.Close(ctx); err != nil {
		s.logger.Printf("failed to close logging router: %v", err)
	}
	if s.jsonOut != nil {
		s.jsonOut.Close()
	}
}

// Run listens on the configured address and serves until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	s, err := New(cfg)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		s.close()
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}
