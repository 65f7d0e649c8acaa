// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ratelimit"
)

// for encoding the RPC arguments
type rpcArguments struct {
	JSONRPC string      `json:"jsonrpc"`
	Id      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// the RPC error response
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// for decoding the RPC reply
type rpcReply struct {
	Id     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// client - JSON-RPC over HTTP POST to a rotating list of nodes
type client struct {
	sync.Mutex

	log     *logger.L
	http    *http.Client
	limiter *rate.Limiter
	retries int

	nodes   []string
	current int
}

func newClient(log *logger.L, nodes []string, timeout time.Duration, retries int, perSecond float64) *client {
	return &client{
		log: log,
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.New(perSecond),
		retries: retries,
		nodes:   append([]string{}, nodes...),
	}
}

// SetNodes - replace the node list
func (c *client) SetNodes(nodes []string) {
	if 0 == len(nodes) {
		return
	}
	c.Lock()
	c.nodes = append([]string{}, nodes...)
	c.current = 0
	c.Unlock()
	c.log.Infof("nodes: %v", nodes)
}

func (c *client) node() string {
	c.Lock()
	defer c.Unlock()
	return c.nodes[c.current%len(c.nodes)]
}

// move to the next node unless another caller already has
func (c *client) rotate(failed string) {
	c.Lock()
	defer c.Unlock()
	if failed == c.nodes[c.current%len(c.nodes)] {
		c.current = (c.current + 1) % len(c.nodes)
	}
}

// call - one RPC, failing over to the next node on transport errors
//
// an error reply from a node is returned immediately
func (c *client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	log := c.log

	arguments := rpcArguments{
		JSONRPC: "2.0",
		Id:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}
	s, err := json.Marshal(arguments)
	if nil != err {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt += 1 {
		if err := ratelimit.Limit(ctx, c.limiter); nil != err {
			return err
		}

		url := c.node()
		log.Debugf("rpc send: %s  to: %s  id: %s", method, url, arguments.Id)

		reply, err := c.post(ctx, url, s)
		if nil != err {
			if nil != ctx.Err() {
				return ctx.Err()
			}
			log.Warnf("rpc: %s  node: %s  attempt: %d  error: %s", method, url, attempt+1, err)
			lastErr = err
			c.rotate(url)
			continue
		}

		if nil != reply.Error {
			log.Errorf("rpc: %s  node: %s  error: %d %s", method, url, reply.Error.Code, reply.Error.Message)
			return fmt.Errorf("%w: %s: %s", fault.RequestFailed, method, reply.Error.Message)
		}

		if nil == result {
			return nil
		}
		if err := json.Unmarshal(reply.Result, result); nil != err {
			return fmt.Errorf("%w: %s: %s", fault.InvalidPayload, method, err)
		}
		return nil
	}

	return fmt.Errorf("%w: %s: %s", fault.RequestFailed, method, lastErr)
}

func (c *client) post(ctx context.Context, url string, s []byte) (*rpcReply, error) {
	request, err := http.NewRequest("POST", url, bytes.NewReader(s))
	if nil != err {
		return nil, err
	}
	request = request.WithContext(ctx)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if nil != err {
		return nil, err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return nil, err
	}

	if http.StatusOK != response.StatusCode {
		return nil, fmt.Errorf("status: %d %q on: %q", response.StatusCode, response.Status, url)
	}

	c.log.Tracef("rpc response body: %s", body)

	reply := &rpcReply{}
	if err := json.Unmarshal(body, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
