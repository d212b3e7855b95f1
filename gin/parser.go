package ginform

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/mazrean/formfeed"
)

type Parser struct {
	*formfeed.Form
	c      *gin.Context
	reader io.Reader
}

func NewParser(c *gin.Context, options ...formfeed.ParserOption) (*Parser, error) {
	contentType := c.GetHeader("Content-Type")
	d, _, err := mime.ParseMediaType(contentType)
	if err != nil || d != binding.MIMEMultipartPOSTForm {
		return nil, http.ErrNotMultipart
	}

	b, err := formfeed.ParseBoundary(contentType)
	if err != nil {
		return nil, errors.Join(http.ErrMissingBoundary, err)
	}

	return &Parser{
		Form:   formfeed.NewFormWithBoundary(b, options...),
		c:      c,
		reader: c.Request.Body,
	}, nil
}

func (p *Parser) Parse() error {
	return p.Form.Parse(p.c.Request.Context(), p.reader)
}
