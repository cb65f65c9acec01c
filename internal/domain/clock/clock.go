package clock

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Tick is a reading of the ledger: its time and its sequence number. The
// sequence strictly increases between readings.
type Tick struct {
	Time     time.Time
	Sequence uint64
}

type Clock interface {
	Now(ctx context.Context) (Tick, error)
}

// systemClock reads the local time and takes sequence numbers from a
// snowflake node.
type systemClock struct {
	node *snowflake.Node
}

func NewSystemClock(nodeID int64) (*systemClock, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &systemClock{node: node}, nil
}

func (c *systemClock) Now(context.Context) (Tick, error) {
	id := c.node.Generate()
	return Tick{Time: time.UnixMilli(id.Time()), Sequence: uint64(id.Int64())}, nil
}

// HeaderReader is implemented by ethclient.Client.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
}

// ethClock reads the latest block: its timestamp and its number.
type ethClock struct {
	client HeaderReader
}

func NewEthClock(client HeaderReader) *ethClock {
	return &ethClock{client: client}
}

func (c *ethClock) Now(ctx context.Context) (Tick, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return Tick{}, err
	}

	return Tick{Time: time.Unix(int64(header.Time), 0), Sequence: header.Number.Uint64()}, nil
}

// FixedClock returns the tick it was last set to.
type FixedClock struct {
	mu   sync.Mutex
	tick Tick
}

func NewFixedClock(t time.Time, sequence uint64) *FixedClock {
	return &FixedClock{tick: Tick{Time: t, Sequence: sequence}}
}

func (c *FixedClock) Now(context.Context) (Tick, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick, nil
}

func (c *FixedClock) Set(t time.Time, sequence uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = Tick{Time: t, Sequence: sequence}
}

// Advance moves the time by d and the sequence by one.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = Tick{Time: c.tick.Time.Add(d), Sequence: c.tick.Sequence + 1}
}
