package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/service/internal/auth"
	"github.com/jason-s-yu/gemduel/service/internal/game"
)

// Client message types.
const (
	MsgAction = "action"
	MsgUndo   = "undo"
	MsgRedo   = "redo"
	MsgSync   = "sync"
)

// ClientMessage is one inbound websocket frame.
type ClientMessage struct {
	Type   string           `json:"type"`
	Action *engine.Envelope `json:"action,omitempty"`
}

// serveWS upgrades the request and pumps the seat's messages into the game.
// The seat token travels in the "token" query parameter.
func (s *Server) serveWS(c *gin.Context) {
	claims, err := s.signer.Parse(c.Query("token"))
	if err != nil || claims.GameID.String() != c.Param("id") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
		return
	}
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Warnf("Websocket accept failed for game %s: %v", g.ID, err)
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	detach := s.hub.Register(ctx, claims.PlayerID, conn)

	g.Mu.Lock()
	if seat, seated := g.SeatOf(claims.PlayerID); !seated || seat != claims.Seat {
		g.Mu.Unlock()
		detach()
		conn.Close(websocket.StatusPolicyViolation, "Game not found or you were removed.")
		return
	}
	g.SetConnected(claims.PlayerID, true)
	state := g.SyncState(claims.Seat)
	g.Mu.Unlock()
	s.hub.Send(claims.PlayerID, game.GameEvent{Type: game.EventPrivateSyncState, Seat: claims.Seat, State: &state})

	log := s.log.WithField("game", g.ID).WithField("player", claims.PlayerID)
	log.Infof("Game %s: %s connected as %s.", g.ID, claims.PlayerID, claims.Seat)

	// Detach under the game lock so a reconnect cannot mark the seat live
	// before this handler clears it.
	defer func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if !detach() {
			log.Infof("Game %s: %s connection replaced.", g.ID, claims.PlayerID)
			return
		}
		g.SetConnected(claims.PlayerID, false)
		log.Infof("Game %s: %s disconnected.", g.ID, claims.PlayerID)
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.Warnf("Websocket read failed: %v", err)
			}
			return
		}
		s.handleMessage(g, claims, msg)
	}
}

// handleMessage routes one client frame. Errors are reported to the player
// by the game itself.
func (s *Server) handleMessage(g *game.DuelGame, claims auth.SeatClaims, msg ClientMessage) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	switch msg.Type {
	case MsgAction:
		if msg.Action == nil {
			s.hub.Send(claims.PlayerID, game.GameEvent{Type: game.EventPrivateError, Message: "missing action"})
			return
		}
		_ = g.HandleAction(claims.PlayerID, *msg.Action)
	case MsgUndo:
		_ = g.Undo(claims.PlayerID)
	case MsgRedo:
		_ = g.Redo(claims.PlayerID)
	case MsgSync:
		state := g.SyncState(claims.Seat)
		s.hub.Send(claims.PlayerID, game.GameEvent{Type: game.EventPrivateSyncState, Seat: claims.Seat, State: &state})
	default:
		s.hub.Send(claims.PlayerID, game.GameEvent{Type: game.EventPrivateError, Message: "unknown message type " + msg.Type})
	}
}
