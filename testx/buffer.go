package testx

import (
	"bytes"
	"sync"
)

// ConcurrentBuffer is a bytes.Buffer safe to share between a logger and the
// test reading it.
type ConcurrentBuffer struct {
	b *bytes.Buffer
	m sync.RWMutex
}

func NewConcurrentBuffer() *ConcurrentBuffer {
	return &ConcurrentBuffer{
		b: new(bytes.Buffer),
	}
}

func (c *ConcurrentBuffer) Write(p []byte) (n int, err error) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.b.Write(p)
}

func (c *ConcurrentBuffer) String() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.b.String()
}
