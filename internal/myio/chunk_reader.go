package myio

import "io"

type chunkReader struct {
	r    io.Reader
	size int
}

// ChunkReader returns a reader that hands out at most size bytes per Read,
// like a transport delivering a body in small pieces.
func ChunkReader(r io.Reader, size int) io.Reader {
	return &chunkReader{r: r, size: size}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.size {
		p = p[:c.size]
	}
	return c.r.Read(p)
}

// Chunks splits b into pieces of at most size bytes.
func Chunks(b []byte, size int) [][]byte {
	chunks := make([][]byte, 0, len(b)/size+1)
	for len(b) > size {
		chunks = append(chunks, b[:size])
		b = b[size:]
	}
	if len(b) > 0 {
		chunks = append(chunks, b)
	}

	return chunks
}
