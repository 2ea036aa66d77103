package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"simple-ledger-go/nodes"
	"simple-ledger-go/p2p"
	"simple-ledger-go/transactions"
)

const (
	MSG_TX_ADDED      = "Transaction will be added to Block {%d}"
	MSG_FORGED        = "new block found"
	MSG_NODES_ADDED   = "New nodes have been added"
	MSG_REPLACED      = "Our chain was replaced"
	MSG_AUTHORITATIVE = "Our chain is authoritative"
)

type handlers struct {
	node *nodes.Node
}

func (h *handlers) chain(c echo.Context) error {
	msg, err := h.node.GetChain()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *handlers) newTransaction(c echo.Context) error {
	var req transactions.Request
	err := c.Bind(&req)
	if err != nil {
		return err
	}
	index, err := h.node.SubmitTransaction(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p2p.MessageMsg{
		Message: fmt.Sprintf(MSG_TX_ADDED, index),
	})
}

func (h *handlers) mine(c echo.Context) error {
	block, err := h.node.Mine(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p2p.MinedMsg{
		Message:      MSG_FORGED,
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	})
}

func (h *handlers) registerNodes(c echo.Context) error {
	var req p2p.RegisterMsg
	err := c.Bind(&req)
	if err != nil {
		return err
	}
	peers, err := h.node.RegisterPeers(req.Nodes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p2p.RegisteredMsg{
		Message:    MSG_NODES_ADDED,
		TotalNodes: peers,
	})
}

func (h *handlers) resolve(c echo.Context) error {
	replaced, chain, err := h.node.ResolveConsensus(c.Request().Context())
	if err != nil {
		return err
	}
	if replaced {
		return c.JSON(http.StatusOK, p2p.ResolvedMsg{Message: MSG_REPLACED, NewChain: chain})
	}
	return c.JSON(http.StatusOK, p2p.ResolvedMsg{Message: MSG_AUTHORITATIVE, Chain: chain})
}

// statusOf maps node errors onto HTTP status codes.
func statusOf(err error) int {
	var missing transactions.MissingFieldError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &missing),
		errors.Is(err, nodes.ErrNoPeersSupplied),
		errors.Is(err, p2p.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}
