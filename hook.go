package formfeed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mazrean/formfeed/internal/hookgate"
)

type StreamHookFunc = func(r io.Reader, part Part) error

type streamHook struct {
	fn           StreamHookFunc
	requireParts []string
}

type normalParam struct {
	r    io.Reader
	part Part
}

type deferredParam struct {
	content io.ReadCloser
	part    Part
}

type formGate = hookgate.IGate[string, *normalParam, *deferredParam]

func newFormGate(streamHooks map[string]streamHook, d *deferrer) *hookgate.Gate[string, *normalParam, *deferredParam] {
	gateHooks := make(map[string]hookgate.Hook[string, *normalParam, *deferredParam], len(streamHooks))
	for name, hook := range streamHooks {
		h := gateHook(hook)
		gateHooks[name] = &h
	}

	return hookgate.NewGate(gateHooks, d.run)
}

type gateHook streamHook

func (gh gateHook) Run(p *normalParam) error {
	return gh.fn(p.r, p.part)
}

func (gh gateHook) Replay(p *deferredParam) error {
	defer p.content.Close()

	return gh.fn(p.content, p.part)
}

func (gh gateHook) Requirements() []string {
	return gh.requireParts
}

type memBudget struct {
	mem  DataSize
	file DataSize
}

// deferrer stores a part whose hook is still waiting for its required parts.
// Small parts stay in memory, larger ones are spilled to a shared temp file.
type deferrer struct {
	budget   *memBudget
	offset   int64
	file     *os.File
	filePath string
}

var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func (d *deferrer) run(p *normalParam) (*deferredParam, error) {
	buf, ok := bufPool.Get().(*bytes.Buffer)
	if !ok {
		buf = new(bytes.Buffer)
	}
	buf.Reset()

	memLimit := max(min(d.budget.file, d.budget.mem), 0)
	n, err := io.CopyN(buf, p.r, int64(memLimit)+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to copy: %w", err)
	}

	var content io.ReadCloser
	if DataSize(n) > memLimit {
		if d.file == nil {
			f, err := os.CreateTemp("", "formfeed-")
			if err != nil {
				return nil, fmt.Errorf("failed to create temp file: %w", err)
			}
			d.file = f
			d.filePath = f.Name()
		}

		bufSize, err := io.Copy(d.file, buf)
		if err != nil {
			return nil, fmt.Errorf("failed to write: %w", err)
		}
		bufPool.Put(buf)

		remainSize, err := io.Copy(d.file, p.r)
		if err != nil {
			return nil, fmt.Errorf("failed to copy: %w", err)
		}

		size := bufSize + remainSize
		content = io.NopCloser(io.NewSectionReader(d.file, d.offset, size))
		d.offset += size
	} else {
		bufSize := DataSize(buf.Len())
		d.budget.mem -= bufSize
		d.budget.file -= bufSize

		var once sync.Once
		content = customReadCloser{
			Reader: buf,
			closeFunc: func() error {
				once.Do(func() {
					bufPool.Put(buf)
					d.budget.mem += bufSize
					d.budget.file += bufSize
				})
				return nil
			},
		}
	}

	return &deferredParam{
		content: content,
		part:    p.part,
	}, nil
}

func (d *deferrer) Close() error {
	if d.file == nil {
		return nil
	}

	closeErr := d.file.Close()
	removeErr := os.Remove(d.filePath)
	d.file = nil

	if closeErr != nil || removeErr != nil {
		return errors.Join(closeErr, removeErr)
	}

	return nil
}

type customReadCloser struct {
	io.Reader
	closeFunc func() error
}

func (cc customReadCloser) Close() error {
	return cc.closeFunc()
}
