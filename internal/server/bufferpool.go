package server

import "sync"

// bufferPool hands out fixed-size read buffers. A request larger than the
// buffer is truncated at the buffer size.
type bufferPool struct {
	size int
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	p := &bufferPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// Get returns a buffer of exactly the pool size.
func (p *bufferPool) Get() *[]byte {
	buf := p.pool.Get().(*[]byte)
	*buf = (*buf)[:p.size]
	return buf
}

// Put returns a buffer to the pool. Foreign sizes are left to the GC.
func (p *bufferPool) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != p.size {
		return
	}
	clear((*buf)[:p.size])
	p.pool.Put(buf)
}
