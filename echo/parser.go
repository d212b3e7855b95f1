package echoform

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mazrean/formfeed"
)

type Parser struct {
	*formfeed.Form
	c      echo.Context
	reader io.Reader
}

func NewParser(c echo.Context, options ...formfeed.ParserOption) (*Parser, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	d, _, err := mime.ParseMediaType(contentType)
	if err != nil || d != echo.MIMEMultipartForm {
		return nil, http.ErrNotMultipart
	}

	b, err := formfeed.ParseBoundary(contentType)
	if err != nil {
		return nil, errors.Join(http.ErrMissingBoundary, err)
	}

	return &Parser{
		Form:   formfeed.NewFormWithBoundary(b, options...),
		c:      c,
		reader: c.Request().Body,
	}, nil
}

func (p *Parser) Parse() error {
	return p.Form.Parse(p.c.Request().Context(), p.reader)
}
