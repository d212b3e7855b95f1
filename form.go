package formfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Form collects the values of a multipart form and streams registered parts to hooks.
// It is driven by the same Feed/Close protocol as Parser.
type Form struct {
	parser   *Parser
	valueMap map[string][]Value
	hookMap  map[string]streamHook
	parserConfig

	budget   memBudget
	deferrer *deferrer
	gate     formGate

	stream  *fileStream
	fileBuf []byte
	closed  bool
}

type fileStream struct {
	pw *io.PipeWriter
	eg errgroup.Group
}

// NewForm derives the boundary from the Content-Type of header.
func NewForm(header textproto.MIMEHeader, options ...ParserOption) (*Form, error) {
	b, err := BoundaryFromHeader(header)
	if err != nil {
		return nil, err
	}

	return NewFormWithBoundary(b, options...), nil
}

// NewFormWithBoundary returns a form for an already resolved boundary.
func NewFormWithBoundary(b Boundary, options ...ParserOption) *Form {
	f := &Form{
		valueMap:     make(map[string][]Value),
		hookMap:      make(map[string]streamHook),
		parserConfig: newParserConfig(options...),
	}
	f.budget = memBudget{
		mem:  f.maxMemSize,
		file: f.maxMemFileSize,
	}
	f.deferrer = &deferrer{budget: &f.budget}
	f.parser = NewParserWithBoundary(b, HandlerFuncs{
		File:    f.onFile,
		Data:    f.onData,
		Field:   f.onField,
		FileEnd: f.onFileEnd,
	}, options...)

	return f
}

// Feed parses the next chunk of the body.
func (f *Form) Feed(chunk []byte) error {
	return f.parser.Feed(chunk)
}

// Close signals the end of the body and releases buffered parts and temp files.
// Later calls only report the result of the parser.
func (f *Form) Close() error {
	err := f.parser.Close()
	if f.closed {
		return err
	}
	f.closed = true

	if f.stream != nil {
		cause := err
		if cause == nil {
			cause = ErrUnterminatedPart
		}
		if streamErr := f.abortStream(cause); streamErr != nil && !errors.Is(streamErr, cause) {
			err = errors.Join(err, streamErr)
		}
	}

	if g, ok := f.gate.(interface {
		Pending() map[string][]*deferredParam
	}); ok {
		for name, params := range g.Pending() {
			f.logger.Debug("hook %q never ran: required parts missing", name)
			for _, p := range params {
				if closeErr := p.content.Close(); closeErr != nil {
					err = errors.Join(err, closeErr)
				}
			}
		}
	}

	if closeErr := f.deferrer.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to remove temp file: %w", closeErr))
	}

	return err
}

// Parse reads the whole body from r and closes the form.
func (f *Form) Parse(ctx context.Context, r io.Reader) error {
	err := f.parser.Parse(ctx, r)
	closeErr := f.Close()

	switch {
	case err == nil:
		return closeErr
	case closeErr == nil:
		return err
	case errors.Is(closeErr, err):
		return closeErr
	default:
		return errors.Join(err, closeErr)
	}
}

func (f *Form) start() {
	if f.gate == nil {
		f.gate = newFormGate(f.hookMap, f.deferrer)
	}
}

func (f *Form) onFile(part Part) error {
	f.start()

	if !f.gate.IsHookExist(part.FieldName) {
		f.fileBuf = nil
		return f.reserve(DataSize(len(part.FieldName)))
	}

	pr, pw := io.Pipe()
	s := &fileStream{pw: pw}
	s.eg.Go(func() error {
		_, err := f.gate.HookEvent(part.FieldName, &normalParam{
			r:    pr,
			part: part,
		})
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("failed to run or set hook: %w", err)
		}

		// the hook may return before reading everything
		_, _ = io.Copy(io.Discard, pr)

		return nil
	})
	f.stream = s

	return nil
}

func (f *Form) onData(data []byte, _ Part) error {
	if f.stream == nil {
		if err := f.reserve(DataSize(len(data))); err != nil {
			return err
		}
		f.fileBuf = append(f.fileBuf, data...)

		return nil
	}

	if _, err := f.stream.pw.Write(data); err != nil {
		return f.abortStream(err)
	}

	return nil
}

func (f *Form) onFileEnd(part Part) error {
	if s := f.stream; s != nil {
		f.stream = nil
		s.pw.Close()
		if err := s.eg.Wait(); err != nil {
			return err
		}
	} else {
		f.collect(f.fileBuf, part)
		f.fileBuf = nil
	}

	if err := f.gate.KeyEvent(part.FieldName); err != nil {
		return fmt.Errorf("failed to run satisfied hook: %w", err)
	}

	return nil
}

func (f *Form) onField(field Field) error {
	f.start()

	part := Part{
		FieldName:   field.FieldName,
		ContentType: field.Header.Get(headerContentType),
		Header:      field.Header,
	}

	if f.gate.IsHookExist(field.FieldName) {
		_, err := f.gate.HookEvent(field.FieldName, &normalParam{
			r:    strings.NewReader(field.Value),
			part: part,
		})
		if err != nil {
			return fmt.Errorf("failed to run or set hook: %w", err)
		}
	} else {
		if err := f.reserve(DataSize(len(field.FieldName) + len(field.Value))); err != nil {
			return err
		}
		f.collect([]byte(field.Value), part)
	}

	if err := f.gate.KeyEvent(field.FieldName); err != nil {
		return fmt.Errorf("failed to run satisfied hook: %w", err)
	}

	return nil
}

// abortStream stops a running hook stream and returns the error the hook side reported, if any.
func (f *Form) abortStream(cause error) error {
	s := f.stream
	f.stream = nil

	s.pw.CloseWithError(cause)
	if err := s.eg.Wait(); err != nil {
		return err
	}

	return cause
}

func (f *Form) reserve(size DataSize) error {
	if size > f.budget.mem {
		return ErrTooLargeForm
	}
	f.budget.mem -= size

	return nil
}

func (f *Form) collect(content []byte, part Part) {
	f.valueMap[part.FieldName] = append(f.valueMap[part.FieldName], Value{
		content: content,
		part:    part,
	})
}
