package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
	"github.com/membranelab/pervaporation/pkg/pervaporation"
)

// Server exposes batch pervaporation simulations over a websocket endpoint.
// Mixtures and membranes are resolved against registries loaded up front;
// clients only name them.
type Server struct {
	cfg       Config
	log       *logrus.Logger
	mixtures  *mixture.Registry
	membranes map[string]membrane.Membrane
	upgrader  websocket.Upgrader
}

// NewServer assembles a server from an explicit configuration and
// already-loaded registries.
func NewServer(cfg Config, log *logrus.Logger, mixtures *mixture.Registry, membranes []membrane.Membrane) *Server {
	byName := make(map[string]membrane.Membrane, len(membranes))
	for _, m := range membranes {
		byName[m.Name] = m
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		mixtures:  mixtures,
		membranes: byName,
		upgrader:  websocket.Upgrader{},
	}
}

// Handler returns the HTTP mux serving the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Serve blocks listening on the configured address.
func (s *Server) Serve() error {
	s.log.WithField("addr", s.cfg.Addr).Info("listening")
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

// serveWs upgrades the request and pumps frames between the connection and
// its hub until the client disconnects.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade")
		return
	}
	defer conn.Close()

	log := s.log.WithField("remote", r.RemoteAddr)
	hub := newHub(s, conn, log)
	go hub.handleRequest()
	go hub.handleResponse()
	defer close(hub.done)

	for {
		var msg Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read frame")
			}
			return
		}
		hub.msg <- msg
	}
}

// simulate resolves the named mixture and membrane and integrates the run.
func (s *Server) simulate(req RunRequest) (pervaporation.ProcessModel, error) {
	if req.Steps > s.cfg.MaxSteps {
		return pervaporation.ProcessModel{}, fmt.Errorf("%d steps exceed the configured limit of %d", req.Steps, s.cfg.MaxSteps)
	}
	mix, err := s.mixtures.Get(req.Mixture)
	if err != nil {
		return pervaporation.ProcessModel{}, err
	}
	memb, ok := s.membranes[req.Membrane]
	if !ok {
		return pervaporation.ProcessModel{}, fmt.Errorf("unknown membrane %q", req.Membrane)
	}

	pv := pervaporation.Pervaporation{Membrane: memb, Mixture: mix}
	if req.Isothermal {
		return pv.IdealIsothermalProcess(req.Conditions, req.Steps, req.StepHours, s.cfg.Precision)
	}
	return pv.IdealNonIsothermalProcess(req.Conditions, req.Steps, req.StepHours, s.cfg.Precision)
}
