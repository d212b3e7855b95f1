package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
	"github.com/mazrean/formfeed"
	httpform "github.com/mazrean/formfeed/http"
	"github.com/mazrean/formfeed/logging"
)

const iconDir = "icons"

var (
	errUnsupportedType = errors.New("content type is not supported")
	errUserExists      = errors.New("user already exists")
)

func main() {
	err := os.MkdirAll(iconDir, 0755)
	if err != nil {
		panic(err)
	}

	err = http.ListenAndServe(":8080", newRouter(iconDir))
	if err != nil {
		panic(err)
	}
}

func newRouter(dir string) http.Handler {
	router := httprouter.New()
	router.POST("/submit", submitHandler(dir))
	router.ServeFiles("/icons/*filepath", http.Dir(dir))

	return router
}

func submitHandler(dir string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		parser, err := httpform.NewParser(r, formfeed.WithMaxMemFileSize(formfeed.MB))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = parser.Register("icon", func(r io.Reader, part formfeed.Part) error {
			if part.ContentType != "image/png" {
				return errUnsupportedType
			}

			id, _, _ := parser.Value("id")
			iconPath := filepath.Join(dir, filepath.Base(id))

			_, err := os.Stat(iconPath)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to check file existence: %w", err)
			}
			if err == nil {
				return errUserExists
			}

			file, err := os.Create(iconPath)
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			defer file.Close()

			_, err = io.Copy(file, r)
			if err != nil {
				return fmt.Errorf("failed to copy: %w", err)
			}

			return nil
		}, formfeed.WithRequiredPart("id"))
		if err != nil {
			http.Error(w, "failed to register hook", http.StatusInternalServerError)
			return
		}

		err = parser.Parse()
		switch {
		case errors.Is(err, errUnsupportedType):
			http.Error(w, errUnsupportedType.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, errUserExists):
			http.Error(w, errUserExists.Error(), http.StatusConflict)
			return
		case err != nil:
			logging.Error("failed to parse form: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}
