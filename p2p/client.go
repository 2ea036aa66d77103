package p2p

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"simple-ledger-go/common"
)

const (
	DEFAULT_TIMEOUT = 5 * time.Second
	MAX_CHAIN_BYTES = 64 << 20
)

// ChainFetcher downloads the chain a peer currently holds.
type ChainFetcher interface {
	FetchChain(ctx context.Context, peer string) (*ChainMsg, error)
}

type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchChain fails on transport errors, any status but 200, undecodable
// bodies and bodies whose length disagrees with the chain they carry.
func (c *HTTPClient) FetchChain(ctx context.Context, peer string) (*ChainMsg, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ChainURL(peer), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("peer %s answered %s", peer, res.Status)
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MAX_CHAIN_BYTES))
	if err != nil {
		return nil, err
	}
	msg, err := common.Decode[ChainMsg](buf)
	if err != nil {
		return nil, fmt.Errorf("peer %s sent a malformed chain: %w", peer, err)
	}
	if msg.Length != uint64(len(msg.Chain)) {
		return nil, fmt.Errorf(
			"peer %s reported length %d for %d blocks",
			peer, msg.Length, len(msg.Chain),
		)
	}
	return msg, nil
}
