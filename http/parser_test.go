package httpform_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mazrean/formfeed"
	httpform "github.com/mazrean/formfeed/http"
)

const body = "--boundary\r\n" +
	"Content-Disposition: form-data; name=\"name\"\r\n" +
	"\r\n" +
	"mazrean\r\n" +
	"--boundary\r\n" +
	"Content-Disposition: form-data; name=\"password\"\r\n" +
	"\r\n" +
	"password\r\n" +
	"--boundary\r\n" +
	"Content-Disposition: form-data; name=\"icon\"; filename=\"icon.png\"\r\n" +
	"Content-Type: image/png\r\n" +
	"\r\n" +
	"icon contents\r\n" +
	"--boundary--\r\n"

func TestExample(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")

	rec := httptest.NewRecorder()

	createUserHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status code is wrong: expected: %d, actual: %d\n", http.StatusCreated, rec.Code)
		return
	}

	if user.name != "mazrean" {
		t.Errorf("user name is wrong: expected: mazrean, actual: %s\n", user.name)
	}
	if user.password != "password" {
		t.Errorf("user password is wrong: expected: password, actual: %s\n", user.password)
	}
	if user.icon != "icon contents" {
		t.Errorf("user icon is wrong: expected: icon contents, actual: %s\n", user.icon)
	}
}

func TestNewParser_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		contentType string
		err         error
	}{
		"not multipart": {
			contentType: "application/json",
			err:         http.ErrNotMultipart,
		},
		"no content type": {
			contentType: "",
			err:         http.ErrNotMultipart,
		},
		"no boundary": {
			contentType: "multipart/form-data",
			err:         formfeed.ErrMalformedContentType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			_, err := httpform.NewParser(req)
			if !errors.Is(err, tt.err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", `multipart/form-data; boundary="boundary"`)

	var (
		fields []string
		file   strings.Builder
	)
	err := httpform.Stream(req, formfeed.HandlerFuncs{
		Field: func(field formfeed.Field) error {
			fields = append(fields, field.FieldName+"="+field.Value)
			return nil
		},
		Data: func(data []byte, _ formfeed.Part) error {
			file.Write(data)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(fields, ",") != "name=mazrean,password=password" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if file.String() != "icon contents" {
		t.Errorf("unexpected file: %q", file.String())
	}
}

func createUserHandler(res http.ResponseWriter, req *http.Request) {
	parser, err := httpform.NewParser(req)
	if err != nil {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	err = parser.Register("icon", func(r io.Reader, _ formfeed.Part) error {
		name, _, _ := parser.Value("name")
		password, _, _ := parser.Value("password")

		return saveUser(req.Context(), name, password, r)
	}, formfeed.WithRequiredPart("name"), formfeed.WithRequiredPart("password"))
	if err != nil {
		log.Printf("failed to register: %s\n", err)
		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = parser.Parse()
	if err != nil {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	res.WriteHeader(http.StatusCreated)
}

var (
	user = struct {
		name     string
		password string
		icon     string
	}{}
)

func saveUser(_ context.Context, name string, password string, iconReader io.Reader) error {
	user.name = name
	user.password = password

	sb := strings.Builder{}
	_, err := io.Copy(&sb, iconReader)
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	user.icon = sb.String()

	return nil
}
