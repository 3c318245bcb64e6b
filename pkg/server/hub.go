package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/membranelab/pervaporation/pkg/pervaporation"
)

// Msg is one websocket frame. Requests carry type "start" (Content is a
// RunRequest) or "stop"; responses carry "started", "snapshot", "done",
// "stopped" or "error", with Content holding the payload JSON.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// RunRequest is the payload of a "start" frame: which mixture and membrane
// to pair and how to integrate the batch run.
type RunRequest struct {
	Mixture    string                   `json:"mixture"`
	Membrane   string                   `json:"membrane"`
	Conditions pervaporation.Conditions `json:"conditions"`
	Steps      int                      `json:"steps"`
	StepHours  float64                  `json:"step_hours"`
	Isothermal bool                     `json:"isothermal"`
}

// RunSummary is the payload of the final "done" frame: derived views over
// the whole trajectory.
type RunSummary struct {
	Steps             int       `json:"steps"`
	SeparationFactors []float64 `json:"separation_factors"`
	Selectivities     []float64 `json:"selectivities"`
	TotalFluxes       []float64 `json:"total_fluxes"`
	Psi               []float64 `json:"psi"`
}

// Hub serves one websocket client: it parses request frames, runs at most
// one simulation at a time and streams the trajectory back snapshot by
// snapshot.
type Hub struct {
	srv  *Server
	conn *websocket.Conn
	log  *logrus.Entry

	msg  chan Msg
	out  chan Msg
	done chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newHub(srv *Server, conn *websocket.Conn, log *logrus.Entry) *Hub {
	return &Hub{
		srv:  srv,
		conn: conn,
		log:  log,
		msg:  make(chan Msg, 10),
		out:  make(chan Msg, 64),
		done: make(chan struct{}),
	}
}

// handleResponse is the single writer for the connection.
func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.log.WithError(err).Warn("write frame")
				return
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case "start":
				var req RunRequest
				if err := json.Unmarshal([]byte(msg.Content), &req); err != nil {
					h.fail(fmt.Errorf("parse run request: %w", err))
					continue
				}
				h.startRun(req)
			case "stop":
				h.stopRun()
				h.send(Msg{Type: "stopped"})
			default:
				h.fail(fmt.Errorf("unknown message type %q", msg.Type))
			}
		case <-h.done:
			h.stopRun()
			return
		}
	}
}

// startRun launches the simulation in its own goroutine; a second "start"
// while one is running cancels the first.
func (h *Hub) startRun(req RunRequest) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.cancel = cancel
	h.mu.Unlock()

	go h.run(ctx, req)
}

func (h *Hub) stopRun() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
}

func (h *Hub) run(ctx context.Context, req RunRequest) {
	model, err := h.srv.simulate(req)
	if err != nil {
		h.fail(err)
		return
	}
	h.send(Msg{Type: "started"})

	for _, snap := range model.Snapshots {
		select {
		case <-ctx.Done():
			return
		default:
		}
		data, err := json.Marshal(snap)
		if err != nil {
			h.fail(err)
			return
		}
		h.send(Msg{Type: "snapshot", Content: string(data)})
	}

	summary := RunSummary{
		Steps:             len(model.Snapshots) - 1,
		SeparationFactors: model.SeparationFactors(),
		Selectivities:     model.Selectivities(),
		TotalFluxes:       model.TotalFluxes(),
		Psi:               model.Psi(),
	}
	data, err := json.Marshal(summary)
	if err != nil {
		h.fail(err)
		return
	}
	h.send(Msg{Type: "done", Content: string(data)})
}

func (h *Hub) send(m Msg) {
	select {
	case h.out <- m:
	case <-h.done:
	}
}

func (h *Hub) fail(err error) {
	h.log.WithError(err).Warn("run failed")
	h.send(Msg{Type: "error", Content: err.Error()})
}
