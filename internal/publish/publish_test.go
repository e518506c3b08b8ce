// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package publish

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/swreg/external/rmon"
	"github.com/platinasystems/swreg/external/swerr"
)

var errDown = errors.New("connection refused")

// conn is just enough of a redis server for HMSET and HGETALL.
type conn struct {
	hashes map[string]map[string]string
	err    error
}

func newConn() *conn {
	return &conn{hashes: make(map[string]map[string]string)}
}

func (c *conn) Close() error { return nil }
func (c *conn) Err() error   { return c.err }
func (c *conn) Flush() error { return c.err }

func (c *conn) Send(cmd string, args ...interface{}) error {
	_, err := c.Do(cmd, args...)
	return err
}

func (c *conn) Receive() (interface{}, error) { return nil, c.err }

func (c *conn) Do(cmd string, args ...interface{}) (interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	key := fmt.Sprint(args[0])
	switch cmd {
	case "HMSET":
		h := c.hashes[key]
		if h == nil {
			h = make(map[string]string)
			c.hashes[key] = h
		}
		for i := 1; i+1 < len(args); i += 2 {
			h[fmt.Sprint(args[i])] = fmt.Sprint(args[i+1])
		}
		return "OK", nil
	case "HGETALL":
		var reply []interface{}
		for k, v := range c.hashes[key] {
			reply = append(reply, []byte(k), []byte(v))
		}
		return reply, nil
	}
	return nil, fmt.Errorf("%s: unknown command", cmd)
}

func values() []rmon.Value {
	return []rmon.Value{
		{Counter: rmon.Counters[0], Value: 0x10001},
		{Counter: rmon.Counters[1], Value: 7},
	}
}

func TestPublish(t *testing.T) {
	c := newConn()
	p := New(c, "swreg")
	require.NoError(t, p.Publish(3, rmon.RxTxHistogram, values()))
	assert.Contains(t, c.hashes, "swreg.3.rx-tx")

	m, err := p.Get(3, rmon.RxTxHistogram)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint32{
		rmon.Counters[0].Name: 0x10001,
		rmon.Counters[1].Name: 7,
	}, m)

	// nothing to publish
	require.NoError(t, p.Publish(4, rmon.RxHistogram, nil))
	assert.NotContains(t, c.hashes, "swreg.4.rx")
}

func TestPublishError(t *testing.T) {
	c := newConn()
	c.err = errDown
	p := New(c, "swreg")
	assert.ErrorIs(t, p.Publish(1, rmon.RxHistogram, values()), errDown)
}

func TestKey(t *testing.T) {
	p := New(newConn(), "eth0")
	key, err := p.Key(2, rmon.TxHistogram)
	require.NoError(t, err)
	assert.Equal(t, "eth0.2.tx", key)
	for _, h := range []rmon.Histogram{0, rmon.RxTxHistogram + 1} {
		_, err = p.Key(2, h)
		assert.ErrorIs(t, err, swerr.ErrBadParameter, "%d", h)
		assert.ErrorIs(t, p.Publish(2, h, values()),
			swerr.ErrBadParameter)
		_, err = p.Get(2, h)
		assert.ErrorIs(t, err, swerr.ErrBadParameter)
	}
	assert.Empty(t, p.conn.(*conn).hashes)
}
