// Package memory provides an in memory broker client used for testing.
package memory

import "sync"

type Client struct {
	Queues map[string][][]byte
	mu     sync.Mutex
}

// DeclareQueue registers the queue so publishes to it succeed.
func (c *Client) DeclareQueue(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Queues == nil {
		c.Queues = make(map[string][][]byte)
	}

	if _, ok := c.Queues[name]; !ok {
		c.Queues[name] = nil
	}
	return nil
}

// Publish appends the message to the queue.
func (c *Client) Publish(queue string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Queues == nil {
		c.Queues = make(map[string][][]byte)
	}

	c.Queues[queue] = append(c.Queues[queue], msg)
	return nil
}

// Messages returns the messages published to the queue so far.
func (c *Client) Messages(queue string) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]byte, len(c.Queues[queue]))
	copy(out, c.Queues[queue])
	return out
}
