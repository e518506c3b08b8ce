// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish copies switch counters to redis hashes.
package publish

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/log"

	"github.com/platinasystems/swreg/external/rmon"
)

const Timeout = 500 * time.Millisecond

// Publisher HMSETs one hash per port, named PREFIX.PORT.HISTOGRAM,
// with a field per counter.
type Publisher struct {
	Prefix string
	conn   redis.Conn
}

// Dial the redis server at addr.
func Dial(addr, prefix string) (*Publisher, error) {
	conn, err := redis.Dial("tcp", addr,
		redis.DialConnectTimeout(Timeout),
		redis.DialReadTimeout(Timeout),
		redis.DialWriteTimeout(Timeout))
	if err != nil {
		return nil, err
	}
	return New(conn, prefix), nil
}

// New publisher on an open connection.
func New(conn redis.Conn, prefix string) *Publisher {
	return &Publisher{Prefix: prefix, conn: conn}
}

func (p *Publisher) Close() error { return p.conn.Close() }

// Key of the port's hash; h must be one of the rmon histogram modes.
func (p *Publisher) Key(port uint8, h rmon.Histogram) (string, error) {
	if err := h.Check(); err != nil {
		return "", err
	}
	return fmt.Sprint(p.Prefix, ".", port, ".", h), nil
}

func (p *Publisher) Publish(port uint8, h rmon.Histogram,
	values []rmon.Value) error {
	key, err := p.Key(port, h)
	if err != nil || len(values) == 0 {
		return err
	}
	args := redis.Args{}.Add(key)
	for _, v := range values {
		args = args.Add(v.Name, v.Value)
	}
	if _, err := p.conn.Do("HMSET", args...); err != nil {
		log.Print("daemon", "err", key, ": ", err)
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Get the port's published counters.
func (p *Publisher) Get(port uint8, h rmon.Histogram) (map[string]uint32,
	error) {
	key, err := p.Key(port, h)
	if err != nil {
		return nil, err
	}
	m, err := redis.StringMap(p.conn.Do("HGETALL", key))
	if err != nil {
		return nil, err
	}
	counters := make(map[string]uint32, len(m))
	for k, s := range m {
		var v uint32
		if _, err = fmt.Sscan(s, &v); err != nil {
			return nil, fmt.Errorf("%s: %q: %w", k, s, err)
		}
		counters[k] = v
	}
	return counters, nil
}
