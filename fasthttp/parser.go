package fasthttpform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/mazrean/formfeed"
	"github.com/valyala/fasthttp"
)

type Parser struct {
	*formfeed.Form
	reader io.Reader
}

// NewParser prepares a form for the request of ctx.
// When the server runs with StreamRequestBody the body is parsed as it arrives.
func NewParser(ctx *fasthttp.RequestCtx, options ...formfeed.ParserOption) (*Parser, error) {
	contentType := string(ctx.Request.Header.ContentType())
	d, _, err := mime.ParseMediaType(contentType)
	if err != nil || d != "multipart/form-data" {
		return nil, http.ErrNotMultipart
	}

	b, err := formfeed.ParseBoundary(contentType)
	if err != nil {
		return nil, errors.Join(http.ErrMissingBoundary, err)
	}

	reader := ctx.RequestBodyStream()
	if reader == nil {
		reader = bytes.NewReader(ctx.PostBody())
	}

	return &Parser{
		Form:   formfeed.NewFormWithBoundary(b, options...),
		reader: reader,
	}, nil
}

func (p *Parser) Parse() error {
	return p.Form.Parse(context.Background(), p.reader)
}
