// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package qmc5883

import (
	"log"
	"time"
)

// Consumer receives filled scan buffers from the triggered-capture
// path.
type Consumer interface {
	Push(Scan)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(Scan)

func (f ConsumerFunc) Push(s Scan) { f(s) }

// Capture is the periodic triggered-capture path: each trigger firing
// runs the acquisition engine and hands the scan to the consumer. A
// failed cycle is marked done and delivers nothing; the error goes to
// the diagnostic sink instead of a caller, because there is none in
// this context.
type Capture struct {
	dev      *Device
	consumer Consumer
	interval time.Duration
	diag     func(error)

	stop chan struct{}
	done chan struct{}
}

// NewCapture wires a capture path to a device. diag may be nil, in
// which case swallowed errors are logged.
func NewCapture(dev *Device, consumer Consumer, interval time.Duration, diag func(error)) *Capture {
	if diag == nil {
		diag = func(err error) {
			log.Printf("%s: capture cycle dropped: %v", dev.Name(), err)
		}
	}
	return &Capture{
		dev:      dev,
		consumer: consumer,
		interval: interval,
		diag:     diag,
	}
}

// Start begins firing trigger cycles until Stop is called.
func (c *Capture) Start() {
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run()
}

func (c *Capture) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.fire()
		case <-c.stop:
			return
		}
	}
}

// fire runs one trigger cycle. The cycle always completes; delivery
// is skipped on error so the consumer never sees a partial buffer.
func (c *Capture) fire() {
	scan, err := c.dev.ReadScan()
	if err != nil {
		c.diag(err)
		return
	}
	c.consumer.Push(scan)
}

// Stop halts the trigger source and waits for an in-flight cycle to
// finish. Safe to call once after Start.
func (c *Capture) Stop() {
	close(c.stop)
	<-c.done
}
