package formfeed

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrMissingContentDisposition is returned when a part has no Content-Disposition header.
	ErrMissingContentDisposition = errors.New("missing Content-Disposition header")
	// ErrUnterminatedPart is returned by Close when the input ended before the final boundary.
	ErrUnterminatedPart = errors.New("unterminated part")
	// ErrMalformedHeader is returned when a part header line has no colon.
	ErrMalformedHeader = errors.New("malformed part header")
	// ErrHeaderLineTooLong is returned when a part header line exceeds MaxHeaderLineSize.
	ErrHeaderLineTooLong = errors.New("header line too long")
	// ErrTooManyParts is returned when the parts are more than MaxParts.
	ErrTooManyParts = errors.New("too many parts")
	// ErrTooManyHeaders is returned when the headers are more than MaxHeaders.
	ErrTooManyHeaders = errors.New("too many headers")
	// ErrTooLargeForm is returned when the form is too large for the parser to handle within the memory limit.
	ErrTooLargeForm = errors.New("too large form")
	// ErrParserClosed is returned by Feed after Close.
	ErrParserClosed = errors.New("parser closed")
)

// A delimiter line may be followed by this much transport padding (RFC 2046 LWSP).
const maxTransportPadding = 64

type delimiter int

const (
	delimNone delimiter = iota
	delimPart
	delimFinal
)

// Feed parses the next chunk of the body. Chunks must be passed in order and
// chunk is not retained after Feed returns.
// Once Feed or Close has failed, every later call returns the same error.
// Input after the final boundary is ignored.
//
// A delimiter line is the boundary followed by CRLF. Up to 64 bytes of
// trailing spaces or tabs are tolerated before the CRLF (RFC 2046 transport
// padding), so such a line is not an exact match of the boundary but still
// delimits.
func (p *Parser) Feed(chunk []byte) error {
	switch p.state {
	case stateFailed:
		return p.err
	case stateClosed:
		return ErrParserClosed
	}

	if err := p.feed(chunk); err != nil {
		return p.fail(err)
	}

	return nil
}

// Close signals the end of the input.
// ErrUnterminatedPart is returned unless the final boundary has been seen.
func (p *Parser) Close() error {
	switch p.state {
	case stateFailed:
		return p.err
	case stateClosed, stateEpilogue:
		p.state = stateClosed
		return nil
	case stateInit:
		// a body holding nothing but the final delimiter, without a trailing CRLF
		if !p.lineOverflow && p.matchDelimiter(bytes.TrimSuffix(p.line.Finish(), []byte("\r"))) == delimFinal {
			p.line.Clear()
			p.state = stateClosed
			return nil
		}
	case stateData:
		// the final delimiter may lack its CRLF at the very end of the input
		if p.candidate && p.matchDelimiter(bytes.TrimSuffix(p.data[p.lineStart:], []byte("\r"))) == delimFinal {
			if err := p.endPart(true); err != nil {
				return p.fail(err)
			}
			p.state = stateClosed
			return nil
		}
	}

	err := fmt.Errorf("%w: input ended in %s state", ErrUnterminatedPart, p.state)
	if p.state == stateData {
		err = fmt.Errorf("%w: input ended in part %q", ErrUnterminatedPart, p.part.FieldName)
	}

	return p.fail(err)
}

func (p *Parser) fail(err error) error {
	p.state = stateFailed
	p.err = err
	p.logger.Debug("multipart parsing failed: %v", err)

	return err
}

func (p *Parser) feed(chunk []byte) error {
	for len(chunk) > 0 {
		var (
			n   int
			err error
		)
		switch p.state {
		case stateInit, stateHeaders:
			n, err = p.scanLine(chunk)
		case stateData:
			n, err = p.scanData(chunk)
		case stateEpilogue:
			p.logger.Debug("ignoring %d bytes of epilogue", len(chunk))
			return nil
		default:
			panic(fmt.Sprintf("BUG: unknown state: %v", p.state))
		}
		if err != nil {
			return err
		}

		chunk = chunk[n:]
	}

	return nil
}

// scanLine accumulates a preamble or header line and handles it once its CRLF arrives.
// It returns the number of bytes consumed.
func (p *Parser) scanLine(b []byte) (int, error) {
	for i, c := range b {
		prev := p.prev
		p.prev = c

		if c == '\n' && prev == '\r' {
			return i + 1, p.lineDone()
		}

		if p.lineOverflow {
			continue
		}
		if !p.line.Append(c) {
			if p.state == stateHeaders {
				return i + 1, fmt.Errorf("%w: part %d", ErrHeaderLineTooLong, p.parts)
			}
			// an overlong preamble line cannot be a delimiter
			p.lineOverflow = true
		}
	}

	return len(b), nil
}

func (p *Parser) lineDone() error {
	if p.lineOverflow {
		p.lineOverflow = false
		p.line.Clear()
		return nil
	}

	line := p.line.Finish()
	defer p.line.Clear()
	// drop the CR of the terminator
	if n := len(line); n > 0 {
		line = line[:n-1]
	}

	switch p.state {
	case stateInit:
		switch p.matchDelimiter(line) {
		case delimPart:
			return p.startPart()
		case delimFinal:
			p.logger.Debug("form has no parts")
			p.state = stateEpilogue
		}
		return nil
	case stateHeaders:
		if len(line) == 0 {
			return p.endHeaders()
		}
		return p.addHeader(line)
	default:
		panic(fmt.Sprintf("BUG: line completed in state: %v", p.state))
	}
}

func (p *Parser) startPart() error {
	if p.parts >= p.maxParts {
		return ErrTooManyParts
	}
	p.parts++
	p.state = stateHeaders

	return nil
}

func (p *Parser) addHeader(line []byte) error {
	if p.headers >= p.maxHeaders {
		return ErrTooManyHeaders
	}
	p.headers++

	name, value, ok := parseHeaderLine(line)
	if !ok {
		return fmt.Errorf("%w: part %d: %q", ErrMalformedHeader, p.parts, line)
	}
	p.header[name] = value

	return nil
}

func (p *Parser) endHeaders() error {
	disposition, ok := p.header[headerContentDisposition]
	if !ok {
		return fmt.Errorf("part %d: %w", p.parts, ErrMissingContentDisposition)
	}

	cd := parseContentDisposition(disposition)
	p.part = Part{
		FieldName:   cd.fieldName,
		Filename:    cd.filename,
		ContentType: p.header[headerContentType],
		Header:      p.header,
		file:        cd.hasFilename,
	}

	p.state = stateData
	p.resetData()

	if !p.part.file {
		p.logger.Debug("part %d: field %q started", p.parts, p.part.FieldName)
		return nil
	}

	p.logger.Debug("part %d: file %q (%q) started", p.parts, p.part.FieldName, p.part.Filename)
	if err := p.handler.OnFile(p.part); err != nil {
		return fmt.Errorf("failed to handle file %q: %w", p.part.FieldName, err)
	}

	return nil
}

// scanData appends payload bytes and watches every line for a delimiter.
// It returns the number of bytes consumed.
func (p *Parser) scanData(b []byte) (int, error) {
	for i, c := range b {
		prev := p.prev
		p.prev = c
		p.data = append(p.data, c)

		switch {
		case c == '\n' && prev == '\r':
			end := len(p.data) - 2
			if p.candidate {
				switch p.matchDelimiter(p.data[p.lineStart:end]) {
				case delimPart:
					return i + 1, p.endPart(false)
				case delimFinal:
					return i + 1, p.endPart(true)
				}
			}

			p.delimStart = end
			p.lineStart = len(p.data)
			p.candidate = true
		case p.candidate:
			p.candidate = p.maybeDelimiter(len(p.data)-1-p.lineStart, c, prev)
		}

		if err := p.flush(); err != nil {
			return i + 1, err
		}
	}

	return len(b), nil
}

// maybeDelimiter reports whether the current line can still turn out to be a
// delimiter after c was appended at offset k of the line.
func (p *Parser) maybeDelimiter(k int, c, prev byte) bool {
	part, final := p.boundary.part, p.boundary.final

	switch {
	case prev == '\r':
		// a CR that did not start the terminator
		return false
	case c == '\r':
		return true
	case k < len(part):
		return c == part[k]
	case k < len(final):
		return c == '-' || isPadding(c)
	default:
		return isPadding(c) && k < len(final)+maxTransportPadding
	}
}

func (p *Parser) matchDelimiter(line []byte) delimiter {
	line = bytes.TrimRight(line, " \t")

	switch {
	case bytes.Equal(line, p.boundary.part):
		return delimPart
	case bytes.Equal(line, p.boundary.final):
		return delimFinal
	default:
		return delimNone
	}
}

func isPadding(c byte) bool {
	return c == ' ' || c == '\t'
}

// safeLen returns how many leading bytes of data are known to be payload.
func (p *Parser) safeLen() int {
	if p.candidate {
		return p.delimStart
	}

	// a trailing CR may open the next delimiter
	if n := len(p.data); n > 0 && p.data[n-1] == '\r' {
		return n - 1
	}

	return len(p.data)
}

// flush hands file payload to the handler once a fragment worth of it is pending.
// Flush points depend only on the content, never on how it was chunked.
func (p *Parser) flush() error {
	if DataSize(len(p.data)) < p.fragmentSize {
		return nil
	}

	n := p.safeLen()
	if !p.part.file {
		if p.memUsed+DataSize(n) > p.maxMemSize {
			return fmt.Errorf("%w: field %q", ErrTooLargeForm, p.part.FieldName)
		}
		return nil
	}
	if n == 0 {
		return nil
	}

	if err := p.handler.OnData(p.data[:n], p.part); err != nil {
		return fmt.Errorf("failed to handle data of %q: %w", p.part.FieldName, err)
	}

	rest := copy(p.data, p.data[n:])
	p.data = p.data[:rest]
	p.delimStart = max(p.delimStart-n, 0)
	p.lineStart = max(p.lineStart-n, 0)

	return nil
}

func (p *Parser) endPart(final bool) error {
	payload := p.data[:p.delimStart]

	if p.part.file {
		if len(payload) > 0 {
			if err := p.handler.OnData(payload, p.part); err != nil {
				return fmt.Errorf("failed to handle data of %q: %w", p.part.FieldName, err)
			}
		}
		if p.endFile != nil {
			if err := p.endFile.OnFileEnd(p.part); err != nil {
				return fmt.Errorf("failed to finish file %q: %w", p.part.FieldName, err)
			}
		}
	} else {
		size := DataSize(len(payload))
		if p.memUsed+size > p.maxMemSize {
			return fmt.Errorf("%w: field %q", ErrTooLargeForm, p.part.FieldName)
		}
		p.memUsed += size

		err := p.handler.OnField(Field{
			FieldName: p.part.FieldName,
			Value:     string(payload),
			Header:    p.part.Header,
		})
		if err != nil {
			return fmt.Errorf("failed to handle field %q: %w", p.part.FieldName, err)
		}
	}
	p.logger.Debug("part %d: %q completed", p.parts, p.part.FieldName)

	p.header = PartHeader{}
	p.part = Part{}
	p.resetData()

	if final {
		p.state = stateEpilogue
		return nil
	}

	return p.startPart()
}

func (p *Parser) resetData() {
	// do not keep the buffer of an unusually large field around
	if DataSize(cap(p.data)) > 4*p.fragmentSize {
		p.data = nil
	}
	p.data = p.data[:0]
	p.delimStart = 0
	p.lineStart = 0
	p.candidate = true
}
