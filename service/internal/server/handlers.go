package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/history"
	"github.com/jason-s-yu/gemduel/service/internal/auth"
	"github.com/jason-s-yu/gemduel/service/internal/cache"
	"github.com/jason-s-yu/gemduel/service/internal/database"
	"github.com/jason-s-yu/gemduel/service/internal/game"
)

const claimsKey = "seatClaims"

// CreateGameRequest is the body of POST /games.
type CreateGameRequest struct {
	Draft     bool `json:"draft"`
	AllowUndo bool `json:"allowUndo"`
	Debug     bool `json:"debug"`
	VsAI      bool `json:"vsAi"`
	AIFirst   bool `json:"aiFirst"` // AI takes P1 when VsAI is set.
}

// SeatResponse identifies the caller's seat and carries its token.
type SeatResponse struct {
	GameID   uuid.UUID     `json:"gameId"`
	PlayerID uuid.UUID     `json:"playerId"`
	Seat     engine.Player `json:"seat"`
	Token    string        `json:"token"`
	Started  bool          `json:"started"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": s.games.Len()})
}

func (s *Server) createGame(c *gin.Context) {
	var req CreateGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	g := s.newGame(game.Rules{Draft: req.Draft, AllowUndo: req.AllowUndo, Debug: req.Debug})

	g.Mu.Lock()
	defer g.Mu.Unlock()

	if req.VsAI && req.AIFirst {
		if _, err := g.AddAI(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	resp, err := s.seatPlayer(g)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req.VsAI && !req.AIFirst {
		if _, err := g.AddAI(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if g.Full() {
		if err := g.Start(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	resp.Started = g.Started()
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) joinGame(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()

	resp, err := s.seatPlayer(g)
	if errors.Is(err, game.ErrGameFull) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if g.Full() && !g.Started() {
		if err := g.Start(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	resp.Started = g.Started()
	c.JSON(http.StatusOK, resp)
}

// seatPlayer seats a fresh player id and issues its token.
// Assumes the game lock is held.
func (s *Server) seatPlayer(g *game.DuelGame) (SeatResponse, error) {
	playerID := uuid.New()
	seat, err := g.AddPlayer(playerID)
	if err != nil {
		return SeatResponse{}, err
	}
	token, err := s.signer.Issue(g.ID, playerID, seat)
	if err != nil {
		return SeatResponse{}, err
	}
	return SeatResponse{GameID: g.ID, PlayerID: playerID, Seat: seat, Token: token}, nil
}

func (s *Server) gameState(c *gin.Context) {
	claims := c.MustGet(claimsKey).(auth.SeatClaims)
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}
	g.Mu.Lock()
	state := g.SyncState(claims.Seat)
	g.Mu.Unlock()
	c.JSON(http.StatusOK, state)
}

func (s *Server) exportReplay(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}
	g.Mu.Lock()
	r, err := g.Replay()
	g.Mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) importReplay(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}
	var r history.Replay
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid replay"})
		return
	}
	g.Mu.Lock()
	err := g.ImportReplay(r)
	var seq uint64
	if err == nil {
		seq = g.State().Seq
	}
	g.Mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "imported", "seq": seq})
}

func (s *Server) listReplays(c *gin.Context) {
	if s.opts.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "replay archive is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := s.opts.Store.ListReplays(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replays": recs})
}

// getReplay serves an archived replay, falling back to the cache.
func (s *Server) getReplay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	ctx := c.Request.Context()
	if s.opts.Store != nil {
		rec, err := s.opts.Store.GetReplay(ctx, id)
		if err == nil {
			c.JSON(http.StatusOK, rec.Replay)
			return
		}
		if !errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	r, err := s.opts.Historian.LoadReplay(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "replay not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) lookupGame(c *gin.Context) (*game.DuelGame, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return nil, false
	}
	g, err := s.games.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return g, true
}

// requireSeat verifies the bearer seat token against the :id in the path.
func (s *Server) requireSeat() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := s.signer.Parse(token)
		if err != nil || claims.GameID.String() != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}
