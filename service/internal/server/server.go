// Package server exposes games over HTTP and websockets.
package server

import (
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/catalog"
	"github.com/jason-s-yu/gemduel/engine/setup"
	"github.com/jason-s-yu/gemduel/service/internal/auth"
	"github.com/jason-s-yu/gemduel/service/internal/cache"
	"github.com/jason-s-yu/gemduel/service/internal/database"
	"github.com/jason-s-yu/gemduel/service/internal/game"
	"github.com/sirupsen/logrus"
)

// DefaultFinishedTTL is how long a finished game stays reachable when
// Options.FinishedTTL is unset.
const DefaultFinishedTTL = 10 * time.Minute

// Options wires a Server's dependencies. Historian and Store may be nil.
type Options struct {
	Catalog       *catalog.Catalog
	Signer        *auth.Signer
	Historian     *cache.Historian
	Store         database.Store
	AIDelay       time.Duration
	FinishedTTL   time.Duration // Grace period before a finished game is evicted.
	ReplayVersion string
	Logger        logrus.FieldLogger

	// Seed returns the generator seed for each new game.
	Seed func() uint64
}

// Server owns the live games and their connections.
type Server struct {
	opts   Options
	eng    *engine.Engine
	games  *game.Registry
	hub    *Hub
	log    logrus.FieldLogger
	signer *auth.Signer
}

// New builds a server.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Seed == nil {
		opts.Seed = rand.Uint64
	}
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = DefaultFinishedTTL
	}
	if opts.ReplayVersion == "" {
		opts.ReplayVersion = game.DefaultReplayVersion
	}
	return &Server{
		opts:   opts,
		eng:    engine.New(opts.Catalog, engine.WithLogger(opts.Logger)),
		games:  game.NewRegistry(),
		hub:    NewHub(opts.Logger),
		log:    opts.Logger,
		signer: opts.Signer,
	}
}

// Games returns the live game registry.
func (s *Server) Games() *game.Registry { return s.games }

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.InitRouter(r)
	return r
}

// InitRouter registers every route on r.
func (s *Server) InitRouter(r *gin.Engine) {
	r.GET("/healthz", s.health)

	api := r.Group("/games")
	{
		api.POST("", s.createGame)
		api.POST("/:id/join", s.joinGame)
		api.GET("/:id/state", s.requireSeat(), s.gameState)
		api.GET("/:id/replay", s.exportReplay)
		api.POST("/:id/replay", s.requireSeat(), s.importReplay)
		api.GET("/:id/ws", s.serveWS)
	}

	archive := r.Group("/replays")
	{
		archive.GET("", s.listReplays)
		archive.GET("/:id", s.getReplay)
	}
}

// newGame creates and registers a game wired to the hub, historian and
// archive.
func (s *Server) newGame(rules game.Rules) *game.DuelGame {
	rules.AIDelay = s.opts.AIDelay
	g := game.NewDuelGame(s.eng, setup.NewSeeded(s.opts.Catalog, s.opts.Seed()), rules)
	g.ReplayVersion = s.opts.ReplayVersion
	if s.opts.Historian != nil {
		g.Historian = s.opts.Historian
	}
	if s.opts.Store != nil {
		g.Archive = s.opts.Store
	}
	g.BroadcastFn = func(ev game.GameEvent) {
		for _, p := range game.Seats {
			if seat := g.Seat(p); seat != nil && !seat.AI {
				s.hub.Send(seat.PlayerID, ev)
			}
		}
	}
	g.BroadcastToPlayerFn = s.hub.Send
	g.OnGameEnd = func(gameID, winner uuid.UUID, scores map[engine.Player]int) {
		s.log.WithField("game", gameID).Infof("Game %s finished, winner %s, scores %v.", gameID, winner, scores)
		s.evictLater(g)
	}
	s.games.Add(g)
	return g
}

// evictLater drops g from the registry once FinishedTTL has passed and no
// human seat still holds a connection. Pending archive writes finish first.
func (s *Server) evictLater(g *game.DuelGame) {
	time.AfterFunc(s.opts.FinishedTTL, func() {
		g.Mu.Lock()
		watching := false
		for _, p := range game.Seats {
			if seat := g.Seat(p); seat != nil && !seat.AI && s.hub.Connected(seat.PlayerID) {
				watching = true
			}
		}
		g.Mu.Unlock()
		if watching {
			s.evictLater(g)
			return
		}
		g.Wait()
		s.games.Remove(g.ID)
		s.log.WithField("game", g.ID).Infof("Game %s evicted.", g.ID)
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("HTTP request")
	}
}
