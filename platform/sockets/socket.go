package socket

import (
	"encoding/json"
	"net/http"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/auth"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/queries"
)

const joinOrder = "20060102150405.000000"

type Server struct {
	io       *socketio.Server
	games    *engine.Registry
	roster   queries.Roster
	secret   string
	log      *logrus.Entry
	onFinish func(gameID string, players []string)
}

func playerRoom(gameID, userID string) string {
	return gameID + "." + userID
}

// NewServer wires the socket.io handlers. onFinish, if set, runs after a game
// ends so the caller can clear external state.
func NewServer(games *engine.Registry, roster queries.Roster, secret string, onFinish func(string, []string)) (*Server, error) {
	server, err := socketio.NewServer(nil)
	if err != nil {
		return nil, err
	}
	srv := &Server{
		io:       server,
		games:    games,
		roster:   roster,
		secret:   secret,
		log:      logrus.WithField("component", "sockets"),
		onFinish: onFinish,
	}
	games.Notify = func(gameID, player, text string) {
		server.BroadcastToRoom("/", playerRoom(gameID, player), "trade-message", text)
	}
	games.Broadcast = srv.broadcast

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		srv.log.WithField("conn", s.ID()).Debug("connected")
		return nil
	})

	server.OnEvent("/", "join-game", srv.joinGame)
	server.OnEvent("/", "leave-game", srv.leaveGame)
	server.OnEvent("/", "start-game", srv.startGame)
	for _, event := range commandEvents {
		event := event
		server.OnEvent("/", event, func(s socketio.Conn, raw string) {
			srv.command(s, event, raw)
		})
	}

	server.OnError("/", func(s socketio.Conn, e error) {
		srv.log.WithError(e).Warn("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.log.WithFields(logrus.Fields{"conn": s.ID(), "reason": reason}).Debug("disconnected")
		s.LeaveAll()
	})
	return srv, nil
}

func (srv *Server) reject(s socketio.Conn, err error) {
	s.Emit("error-message", err.Error())
}

// authorize parses the payload and resolves the caller from its token.
func (srv *Server) authorize(s socketio.Conn, raw string) (Request, string, bool) {
	req, err := parseRequest(raw)
	if err != nil {
		srv.reject(s, err)
		return req, "", false
	}
	user, err := auth.Parse(srv.secret, req.Token)
	if err != nil {
		s.Emit("error-message", "User not authenticated")
		return req, "", false
	}
	return req, user, true
}

func (srv *Server) broadcast(gameID string, out []engine.Announcement) {
	for _, a := range out {
		srv.io.BroadcastToRoom("/", gameID, a.Event, a.Text)
	}
}

func (srv *Server) joinGame(s socketio.Conn, raw string) {
	req, user, ok := srv.authorize(s, raw)
	if !ok {
		return
	}
	if !srv.roster.VerifyGame(req.GameID) {
		s.Emit("error-message", "Invalid game")
		s.Emit("failed")
		return
	}
	u, err := srv.roster.GetUser(user)
	if err != nil {
		s.Emit("error-message", "User retrieval failed")
		s.Emit("failed")
		return
	}
	if _, running := srv.games.Get(req.GameID); !running {
		err = srv.roster.CreatePlayer(models.Player{
			Game_id:  req.GameID,
			User_id:  user,
			Username: u.Email,
			Active:   time.Now().UTC().Format(joinOrder),
		})
		if err != nil {
			srv.log.WithError(err).WithField("game", req.GameID).Error("creating player")
			s.Emit("error-message", "Failed creating player")
			s.Emit("failed")
			return
		}
		srv.io.BroadcastToRoom("/", req.GameID, "player-join", u.Email)
	}

	s.Join(req.GameID)
	s.Join(playerRoom(req.GameID, user))
	s.SetContext(user)
	s.Emit("joined-game", srv.io.RoomLen("/", req.GameID))
	srv.log.WithFields(logrus.Fields{"game": req.GameID, "player": user}).Info("joined game")
}

func (srv *Server) leaveGame(s socketio.Conn, raw string) {
	req, user, ok := srv.authorize(s, raw)
	if !ok {
		return
	}
	s.Leave(req.GameID)
	s.Leave(playerRoom(req.GameID, user))

	if err := srv.roster.DeletePlayer(user, req.GameID); err != nil {
		srv.log.WithError(err).WithField("game", req.GameID).Warn("removing player from roster")
	}
	g, running := srv.games.Get(req.GameID)
	if !running {
		srv.io.BroadcastToRoom("/", req.GameID, "player-left", user)
		return
	}
	out, err := g.Drop(user)
	if err != nil {
		srv.reject(s, err)
		return
	}
	srv.broadcast(req.GameID, out)
	if g.Turn().Over {
		srv.finish(req.GameID, g)
	}
}

func (srv *Server) finish(gameID string, g *engine.Game) {
	players := g.Players()
	srv.games.End(gameID)
	if err := srv.roster.CleanUp(gameID); err != nil {
		srv.log.WithError(err).WithField("game", gameID).Warn("cleaning up roster")
	}
	if srv.onFinish != nil {
		srv.onFinish(gameID, players)
	}
	srv.log.WithField("game", gameID).Info("game over")
}

func (srv *Server) startGame(s socketio.Conn, raw string) {
	req, user, ok := srv.authorize(s, raw)
	if !ok {
		return
	}
	log := srv.log.WithFields(logrus.Fields{"game": req.GameID, "player": user})

	players, err := srv.roster.GetPlayers(req.GameID)
	if err != nil || len(players) < 2 {
		log.WithError(err).Warn("cannot start game")
		s.Emit("error-message", "Unable to start game")
		return
	}
	seats := make([]engine.Seat, len(players))
	for i, p := range players {
		seats[i] = engine.Seat{ID: p.User_id, Name: p.Username}
	}
	g, err := srv.games.Start(req.GameID, seats)
	if err != nil {
		srv.reject(s, err)
		return
	}
	if err := srv.roster.MarkStarted(req.GameID); err != nil {
		log.WithError(err).Error("marking game started")
	}

	roster, err := json.Marshal(players)
	if err != nil {
		log.WithError(err).Error("encoding roster")
	}
	srv.io.BroadcastToRoom("/", req.GameID, "game-start", string(roster))
	turn := g.Turn()
	srv.io.BroadcastToRoom("/", req.GameID, "change-turn", turn.Current)
}

func (srv *Server) command(s socketio.Conn, event, raw string) {
	req, user, ok := srv.authorize(s, raw)
	if !ok {
		return
	}
	g, running := srv.games.Get(req.GameID)
	if !running {
		s.Emit("error-message", "Game has not started")
		return
	}

	reply, err := Dispatch(g, user, event, req.Args)
	if err != nil {
		srv.log.WithFields(logrus.Fields{"game": req.GameID, "player": user, "event": event}).WithError(err).Debug("command rejected")
		srv.reject(s, err)
		return
	}
	srv.broadcast(req.GameID, reply.Announcements)
	if reply.Private != "" {
		s.Emit("trade-message", reply.Private)
	}
	if g.Turn().Over {
		srv.finish(req.GameID, g)
	}
}

// ListenAndServe serves socket.io on addr, allowing origin through CORS.
func (srv *Server) ListenAndServe(addr, origin string) error {
	go func() {
		if err := srv.io.Serve(); err != nil {
			srv.log.WithError(err).Error("socket.io serve")
		}
	}()
	defer srv.io.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", srv.io)
	srv.log.WithField("addr", addr).Info("socket.io listening")
	return http.ListenAndServe(addr, c.Handler(mux))
}
