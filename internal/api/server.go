// Package api exposes the impact engine to UI clients over WebSocket.
// Trajectory states stream out on every mission-clock tick; impact
// recomputation, casualty estimation, and deflection planning run on
// demand. The engine itself stays free of any transport concerns.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
)

// isValidOrigin allows same-origin and localhost connections.
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client.
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == originURL.Host {
		return true
	}
	return strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1"
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Client represents one connected UI session. done is closed on
// unregister; send never closes, so async producers (the casualty
// goroutine, broadcasts) can race a disconnect without panicking.
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	done   chan struct{}
	server *Server
}

// Clock is the slice of the mission clock exposed to clients so the UI can
// scrub the countdown.
type Clock interface {
	ElapsedDays() float64
	SetElapsedDays(days float64)
}

// Server manages the engine, the scenario store, and client connections.
type Server struct {
	mu      sync.RWMutex
	clients map[int]*Client
	nextID  int

	engine  *core.Engine
	store   *kb.KnowledgeBase
	clock   Clock
	log     logging.Logger
	metrics *observability.EngineCollector
}

// NewServer wires the API layer and subscribes to scenario-store events so
// trajectory updates reach every connected client.
func NewServer(engine *core.Engine, store *kb.KnowledgeBase, log logging.Logger, metrics *observability.EngineCollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	s := &Server{
		clients: make(map[int]*Client),
		engine:  engine,
		store:   store,
		log:     log,
		metrics: metrics,
	}
	store.Subscribe(func(ev kb.Event) {
		if ev.Type != kb.EventTrajectoryUpdated {
			return
		}
		s.Broadcast(ServerMessage{
			Type: MsgTypeTrajectory,
			Data: s.trajectoryUpdate(ev.Scenario),
		})
	})
	return s
}

// AttachClock makes set_elapsed work. Call before serving; the field is not
// guarded.
func (s *Server) AttachClock(c Clock) {
	s.clock = c
}

// HandleWS upgrades an HTTP request to a WebSocket session.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.nextID++
	client := &Client{
		ID:     s.nextID,
		conn:   conn,
		send:   make(chan ServerMessage, 64),
		done:   make(chan struct{}),
		server: s,
	}
	s.clients[client.ID] = client
	count := len(s.clients)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ConnectedClients.Set(float64(count))
	}
	s.log.Info(r.Context(), "client connected", logging.Int("client_id", client.ID))

	go client.writePump()
	go client.readPump()
}

// Broadcast queues a message to every connected client, dropping it for
// clients whose send buffer is full.
func (s *Server) Broadcast(msg ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	if _, ok := s.clients[c.ID]; ok {
		delete(s.clients, c.ID)
		close(c.done)
	}
	count := len(s.clients)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ConnectedClients.Set(float64(count))
	}
}

func (c *Client) readPump() {
	defer func() {
		c.server.unregister(c)
		c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.server.dispatch(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) dispatch(c *Client, msg ClientMessage) {
	ctx := context.Background()
	switch msg.Type {
	case MsgTypeListScenarios:
		s.handleListScenarios(c)
	case MsgTypeGetImpact:
		s.handleGetImpact(ctx, c, msg)
	case MsgTypeSetImpactPoint:
		s.handleSetImpactPoint(ctx, c, msg)
	case MsgTypeSetElapsed:
		s.handleSetElapsed(c, msg)
	case MsgTypePlanDeflection:
		s.handlePlanDeflection(ctx, c, msg)
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (s *Server) handleListScenarios(c *Client) {
	scenarios := s.store.ListScenarios()
	out := make([]map[string]any, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, map[string]any{
			"id":         sc.ID,
			"name":       sc.Name,
			"diameter_m": sc.Impact.DiameterM,
		})
	}
	c.trySend(ServerMessage{Type: MsgTypeScenarios, Data: out})
}

func (s *Server) handleGetImpact(ctx context.Context, c *Client, msg ClientMessage) {
	var req GetImpactRequest
	if err := unmarshalData(msg, &req); err != nil {
		c.sendError("bad get_impact payload")
		return
	}
	sc := s.store.GetScenario(req.ScenarioID)
	if sc == nil {
		c.sendError("unknown scenario: " + req.ScenarioID)
		return
	}
	res, err := s.engine.ComputeImpactEffects(ctx, sc.Impact)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.trySend(ServerMessage{Type: MsgTypeImpact, Data: res})
}

func (s *Server) handleSetImpactPoint(ctx context.Context, c *Client, msg ClientMessage) {
	var req SetImpactPointRequest
	if err := unmarshalData(msg, &req); err != nil {
		c.sendError("bad set_impact_point payload")
		return
	}
	if err := s.store.SetImpactPoint(req.ScenarioID, req.Latitude, req.Longitude, req.IsWater); err != nil {
		c.sendError(err.Error())
		return
	}
	sc := s.store.GetScenario(req.ScenarioID)
	res, err := s.engine.ComputeImpactEffects(ctx, sc.Impact)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.trySend(ServerMessage{Type: MsgTypeImpact, Data: res})

	// Casualty estimation reads the population raster; run it off the
	// read loop. A newer set_impact_point supersedes this estimate via
	// the estimator's own cancellation, so a stale result simply never
	// arrives.
	go func() {
		est, err := s.engine.EstimateCasualties(ctx, req.Latitude, req.Longitude, res, sc.Impact)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Debug(ctx, "casualty estimate abandoned", logging.String("error", err.Error()))
			}
			return
		}
		c.trySend(ServerMessage{Type: MsgTypeCasualties, Data: CasualtyUpdate{
			ScenarioID: req.ScenarioID,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			Deaths:     est.Deaths,
			Injuries:   est.Injuries,
		}})
	}()
}

func (s *Server) handleSetElapsed(c *Client, msg ClientMessage) {
	var req SetElapsedRequest
	if err := unmarshalData(msg, &req); err != nil {
		c.sendError("bad set_elapsed payload")
		return
	}
	if s.clock == nil {
		c.sendError("mission clock not attached")
		return
	}
	if req.ElapsedDays < 0 {
		c.sendError("elapsed days must be non-negative")
		return
	}
	s.clock.SetElapsedDays(req.ElapsedDays)
}

func (s *Server) handlePlanDeflection(ctx context.Context, c *Client, msg ClientMessage) {
	var req PlanDeflectionRequest
	if err := unmarshalData(msg, &req); err != nil {
		c.sendError("bad plan_deflection payload")
		return
	}
	sc := s.store.GetScenario(req.ScenarioID)
	if sc == nil {
		c.sendError("unknown scenario: " + req.ScenarioID)
		return
	}

	plan := model.MitigationPlan{
		Method:        model.MitigationMethod(req.Method),
		LeadTimeYears: req.LeadTimeYears,
		Params: model.MethodParams{
			ImpactorMassKg:     req.ImpactorMassKg,
			ImpactVelocityMps:  req.ImpactVelocityMps,
			MomentumBeta:       req.MomentumBeta,
			YieldJ:             req.YieldJ,
			CouplingFraction:   req.CouplingFraction,
			ExhaustVelocityMps: req.ExhaustVelocityMps,
			SpacecraftMassKg:   req.SpacecraftMassKg,
			StandoffM:          req.StandoffM,
			DutyCycle:          req.DutyCycle,
			ThrustN:            req.ThrustN,
			OperationFraction:  req.OperationFraction,
		},
	}
	if err := s.store.SetMitigation(req.ScenarioID, plan); err != nil {
		c.sendError(err.Error())
		return
	}

	result := s.engine.PlanDeflection(ctx, sc.Impact, plan)
	c.trySend(ServerMessage{Type: MsgTypeDeflection, Data: result})
}

func (s *Server) trajectoryUpdate(sc model.AsteroidScenario) TrajectoryUpdate {
	return TrajectoryUpdate{
		ScenarioID:           sc.ID,
		DistanceAU:           sc.Trajectory.DistanceAU,
		DistanceKm:           sc.Trajectory.DistanceKm,
		VelocityMps:          sc.Trajectory.VelocityMps,
		TrueAnomalyDeg:       sc.Trajectory.TrueAnomalyDeg,
		TimeToEncounterDays:  sc.Trajectory.TimeToEncounterDays,
		EncounterVelocityMps: sc.Trajectory.EncounterVelocityMps,
		ImpactProbability:    s.engine.ImpactProbability(sc.BPlane),
	}
}

func (c *Client) trySend(msg ServerMessage) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(text string) {
	c.trySend(ServerMessage{Type: MsgTypeError, Data: text})
}

func unmarshalData(msg ClientMessage, v any) error {
	if len(msg.Data) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Data, v)
}
