package httpform

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/textproto"

	"github.com/mazrean/formfeed"
)

type Parser struct {
	*formfeed.Form
	req    *http.Request
	reader io.Reader
}

func NewParser(req *http.Request, options ...formfeed.ParserOption) (*Parser, error) {
	b, err := boundary(req)
	if err != nil {
		return nil, err
	}

	return &Parser{
		Form:   formfeed.NewFormWithBoundary(b, options...),
		req:    req,
		reader: req.Body,
	}, nil
}

// Parse reads the request body until the final boundary.
func (p *Parser) Parse() error {
	return p.Form.Parse(p.req.Context(), p.reader)
}

// Stream parses the request body with the low-level parser, reporting every part to h.
func Stream(req *http.Request, h formfeed.Handler, options ...formfeed.ParserOption) error {
	b, err := boundary(req)
	if err != nil {
		return err
	}

	return formfeed.NewParserWithBoundary(b, h, options...).Parse(req.Context(), req.Body)
}

func boundary(req *http.Request) (formfeed.Boundary, error) {
	contentType := req.Header.Get("Content-Type")
	d, _, err := mime.ParseMediaType(contentType)
	if err != nil || d != "multipart/form-data" {
		return formfeed.Boundary{}, http.ErrNotMultipart
	}

	b, err := formfeed.BoundaryFromHeader(textproto.MIMEHeader(req.Header))
	if err != nil {
		return formfeed.Boundary{}, errors.Join(http.ErrMissingBoundary, err)
	}

	return b, nil
}
