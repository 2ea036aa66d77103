// Package api serves the HTTP routes of a ledger node.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"simple-ledger-go/logging"
	"simple-ledger-go/nodes"
	"simple-ledger-go/p2p"
)

const (
	TRANSACTIONS_NEW_PATH = "/transactions/new"
	MINE_PATH             = "/mine"
	NODES_REGISTER_PATH   = "/nodes/register"
	NODES_RESOLVE_PATH    = "/nodes/resolve"
	METRICS_PATH          = "/metrics"
)

type Server struct {
	echo    *echo.Echo
	address string
	log     logging.Logger
}

// NewServer routes requests for node. The prometheus registry of the node
// is exposed on /metrics when withMetrics is set.
func NewServer(node *nodes.Node, address string, withMetrics bool, log logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(makeLogger(log))

	h := handlers{node: node}
	e.GET(p2p.CHAIN_PATH, h.chain)
	e.POST(TRANSACTIONS_NEW_PATH, h.newTransaction)
	e.GET(MINE_PATH, h.mine)
	e.POST(NODES_REGISTER_PATH, h.registerNodes)
	e.GET(NODES_RESOLVE_PATH, h.resolve)
	if withMetrics {
		e.GET(METRICS_PATH, echo.WrapHandler(node.Metrics().Handler()))
	}

	return &Server{
		echo:    e,
		address: address,
		log:     log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Infof("node is listening at %s", s.address)
	err := s.echo.Start(s.address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func errorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}
		err = c.JSON(status, p2p.ErrorMsg{Error: errorMessage(err)})
		if err != nil {
			log.Warnf("writing error response: %v", err)
		}
	}
}
