package formfeed

import (
	"net/textproto"

	"github.com/indigo-web/utils/arena"
	"github.com/mazrean/formfeed/logging"
)

// Parser is an incremental multipart/form-data parser.
// Body chunks are pushed with Feed in arrival order and parsed parts are reported to a Handler.
// A Parser must not be used from multiple goroutines at once.
type Parser struct {
	boundary Boundary
	handler  Handler
	endFile  FileEndHandler
	parserConfig

	state parserState
	prev  byte
	err   error

	// pending line of the preamble or of a header block
	line         *arena.Arena[byte]
	lineOverflow bool

	header PartHeader
	part   Part

	// data holds payload bytes of the current part that have not been emitted yet.
	// delimStart is where the delimiter candidate (CRLF + current line) begins, lineStart where the current line begins.
	data       []byte
	delimStart int
	lineStart  int
	candidate  bool

	parts   uint
	headers uint
	memUsed DataSize
}

// NewParser derives the boundary from the Content-Type of header and returns a parser reporting to h.
// ErrMalformedContentType is returned when the header carries no boundary.
func NewParser(header textproto.MIMEHeader, h Handler, options ...ParserOption) (*Parser, error) {
	b, err := BoundaryFromHeader(header)
	if err != nil {
		return nil, err
	}

	return NewParserWithBoundary(b, h, options...), nil
}

// NewParserWithBoundary returns a parser for an already resolved boundary.
func NewParserWithBoundary(b Boundary, h Handler, options ...ParserOption) *Parser {
	c := newParserConfig(options...)

	if h == nil {
		h = HandlerFuncs{}
	}
	endFile, _ := h.(FileEndHandler)

	// a padded delimiter line must always fit
	maxLine := max(int(c.maxHeaderLineSize), len(b.final)+maxTransportPadding+1)

	return &Parser{
		boundary:     b,
		handler:      h,
		endFile:      endFile,
		parserConfig: c,
		state:        stateInit,
		line:         arena.NewArena[byte](min(initialLineSize, maxLine), maxLine),
		header:       PartHeader{},
		candidate:    true,
	}
}

type parserConfig struct {
	maxParts          uint
	maxHeaders        uint
	maxHeaderLineSize DataSize
	maxMemSize        DataSize
	maxMemFileSize    DataSize
	fragmentSize      DataSize
	readSize          DataSize
	logger            logging.Logger
}

func newParserConfig(options ...ParserOption) parserConfig {
	c := parserConfig{
		maxParts:          defaultMaxParts,
		maxHeaders:        defaultMaxHeaders,
		maxHeaderLineSize: defaultMaxHeaderLineSize,
		maxMemSize:        defaultMaxMemSize,
		maxMemFileSize:    defaultMaxMemFileSize,
		fragmentSize:      defaultFragmentSize,
		readSize:          defaultReadSize,
		logger:            logging.DefaultLogger,
	}
	for _, opt := range options {
		opt(&c)
	}

	if c.fragmentSize <= 0 {
		c.fragmentSize = defaultFragmentSize
	}
	if c.readSize <= 0 {
		c.readSize = defaultReadSize
	}
	if c.maxHeaderLineSize <= 0 {
		c.maxHeaderLineSize = defaultMaxHeaderLineSize
	}
	if c.logger == nil {
		c.logger = logging.Nop
	}

	return c
}

type ParserOption func(*parserConfig)

type DataSize int64

const (
	_ DataSize = 1 << (iota * 10)
	KB
	MB
	GB
)

const (
	defaultMaxParts          = 10000
	defaultMaxHeaders        = 10000
	defaultMaxHeaderLineSize = 16 * KB
	defaultMaxMemSize        = 32 * MB
	defaultMaxMemFileSize    = 32 * MB
	defaultFragmentSize      = 32 * KB
	defaultReadSize          = 32 * KB

	initialLineSize = 256
)

// WithMaxParts sets the maximum number of parts to be parsed.
// default: 10000
func WithMaxParts(maxParts uint) ParserOption {
	return func(c *parserConfig) {
		c.maxParts = maxParts
	}
}

// WithMaxHeaders sets the maximum number of part headers in the whole body.
// default: 10000
func WithMaxHeaders(maxHeaders uint) ParserOption {
	return func(c *parserConfig) {
		c.maxHeaders = maxHeaders
	}
}

// WithMaxHeaderLineSize sets the maximum length of a single part header line.
// default: 16KB
func WithMaxHeaderLineSize(size DataSize) ParserOption {
	return func(c *parserConfig) {
		c.maxHeaderLineSize = size
	}
}

// WithMaxMemSize sets the maximum memory size to be used for field values.
// default: 32MB
func WithMaxMemSize(maxMemSize DataSize) ParserOption {
	return func(c *parserConfig) {
		c.maxMemSize = maxMemSize
	}
}

// WithMaxMemFileSize sets the maximum memory size a Form buffers for a single file before spilling it to disk.
// default: 32MB
func WithMaxMemFileSize(maxMemFileSize DataSize) ParserOption {
	return func(c *parserConfig) {
		c.maxMemFileSize = maxMemFileSize
	}
}

// WithFragmentSize sets how much file payload is held before it is passed to OnData.
// default: 32KB
func WithFragmentSize(size DataSize) ParserOption {
	return func(c *parserConfig) {
		c.fragmentSize = size
	}
}

// WithReadSize sets the buffer size Parse reads the body with.
// default: 32KB
func WithReadSize(size DataSize) ParserOption {
	return func(c *parserConfig) {
		c.readSize = size
	}
}

// WithLogger sets the logger. nil disables logging.
// default: logging.DefaultLogger
func WithLogger(l logging.Logger) ParserOption {
	return func(c *parserConfig) {
		c.logger = l
	}
}

// Part describes a part of the form, taken from its Content-Disposition and Content-Type headers.
type Part struct {
	FieldName   string
	Filename    string
	ContentType string
	Header      PartHeader

	file bool
}

// IsFile reports whether the part carries a filename parameter.
func (p Part) IsFile() bool {
	return p.file
}

// Field is a completely parsed non-file part.
type Field struct {
	FieldName string
	Value     string
	Header    PartHeader
}

//go:generate go run go.uber.org/mock/mockgen -destination=internal/mock/handler.go -package=mock github.com/mazrean/formfeed Handler

// Handler receives the parts recognized by a Parser.
// Returning an error aborts parsing; the error is returned from Feed wrapped.
type Handler interface {
	// OnFile is called once per file part, before any of its data.
	OnFile(part Part) error
	// OnData is called with successive payload fragments of a file part.
	// data is only valid until OnData returns.
	OnData(data []byte, part Part) error
	// OnField is called once per non-file part with its complete value.
	OnField(field Field) error
}

// FileEndHandler can be implemented by a Handler to learn when a file part is complete.
type FileEndHandler interface {
	OnFileEnd(part Part) error
}

// HandlerFuncs adapts plain functions to Handler. Nil functions are skipped.
type HandlerFuncs struct {
	File    func(part Part) error
	Data    func(data []byte, part Part) error
	Field   func(field Field) error
	FileEnd func(part Part) error
}

func (h HandlerFuncs) OnFile(part Part) error {
	if h.File == nil {
		return nil
	}
	return h.File(part)
}

func (h HandlerFuncs) OnData(data []byte, part Part) error {
	if h.Data == nil {
		return nil
	}
	return h.Data(data, part)
}

func (h HandlerFuncs) OnField(field Field) error {
	if h.Field == nil {
		return nil
	}
	return h.Field(field)
}

func (h HandlerFuncs) OnFileEnd(part Part) error {
	if h.FileEnd == nil {
		return nil
	}
	return h.FileEnd(part)
}
