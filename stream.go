package formfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

var chunkPool = sync.Pool{
	New: func() interface{} {
		return new([]byte)
	},
}

// Parse reads the body from r and feeds it to the parser until EOF, then calls Close.
// Reading runs ahead of parsing on a separate goroutine; the parser itself is
// still driven sequentially. Cancelling ctx stops reading.
//
// Parse returns as soon as parsing fails or ctx is done, even while a Read on r
// is still blocked. That Read is left to the reading goroutine, which exits
// once it returns.
func (p *Parser) Parse(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	chunks := make(chan *[]byte, 1)

	eg.Go(func() error {
		defer close(chunks)

		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			buf := p.getChunk()
			n, err := r.Read(*buf)
			if n > 0 {
				*buf = (*buf)[:n]
				select {
				case chunks <- buf:
				case <-ctx.Done():
					chunkPool.Put(buf)
					return ctx.Err()
				}
			} else {
				chunkPool.Put(buf)
			}

			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}
		}
	})

	for {
		select {
		case buf, ok := <-chunks:
			if !ok {
				if err := eg.Wait(); err != nil {
					return err
				}
				return p.Close()
			}

			err := p.Feed(*buf)
			chunkPool.Put(buf)
			if err != nil {
				return err
			}
		case <-ctx.Done():
			// the reader failed or the caller gave up
			return context.Cause(ctx)
		}
	}
}

func (p *Parser) getChunk() *[]byte {
	buf, ok := chunkPool.Get().(*[]byte)
	if !ok {
		buf = new([]byte)
	}

	if DataSize(cap(*buf)) < p.readSize {
		*buf = make([]byte, p.readSize)
	}
	*buf = (*buf)[:p.readSize]

	return buf
}
