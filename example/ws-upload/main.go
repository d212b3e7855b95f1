// ws-upload receives a multipart/form-data body over a websocket.
//
// The client sends the Content-Type as the first text message, the body as
// binary messages of any size and "EOF" as a final text message. The server
// answers with a summary of the parsed form, or with "error: ..." and closes.
package main

import (
	"fmt"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mazrean/formfeed"
	"github.com/mazrean/formfeed/logging"
)

const endOfBody = "EOF"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
}

func main() {
	mux := &http.ServeMux{}
	mux.HandleFunc("/upload", onUpload)

	server := http.Server{
		Addr:    "localhost:8888",
		Handler: mux,
	}
	logging.Info("server exit: %v", server.ListenAndServe())
}

// summary counts what the parser reported.
type summary struct {
	fields map[string]string
	files  map[string]int
}

func (s *summary) handler() formfeed.HandlerFuncs {
	return formfeed.HandlerFuncs{
		Field: func(field formfeed.Field) error {
			s.fields[field.FieldName] = field.Value
			return nil
		},
		File: func(part formfeed.Part) error {
			s.files[part.FieldName] = 0
			return nil
		},
		Data: func(data []byte, part formfeed.Part) error {
			s.files[part.FieldName] += len(data)
			return nil
		},
	}
}

func (s *summary) String() string {
	lines := make([]string, 0, len(s.fields)+len(s.files))
	for name, value := range s.fields {
		lines = append(lines, fmt.Sprintf("field %s=%s", name, value))
	}
	for name, size := range s.files {
		lines = append(lines, fmt.Sprintf("file %s: %d bytes", name, size))
	}
	sort.Strings(lines)

	return strings.Join(lines, "\n")
}

func onUpload(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("upgrade: %v", err)
		return
	}
	defer c.Close()

	result, err := receive(c)
	if err != nil {
		logging.Warn("upload failed: %v", err)
		result = "error: " + err.Error()
	}

	if err := c.WriteMessage(websocket.TextMessage, []byte(result)); err != nil {
		logging.Error("write failed: %v", err)
	}
}

func receive(c *websocket.Conn) (string, error) {
	messageType, message, err := c.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("failed to read content type: %w", err)
	}
	if messageType != websocket.TextMessage {
		return "", fmt.Errorf("expected content type, got message type %d", messageType)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", string(message))

	s := &summary{
		fields: map[string]string{},
		files:  map[string]int{},
	}
	parser, err := formfeed.NewParser(header, s.handler())
	if err != nil {
		return "", err
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}

		switch messageType {
		case websocket.BinaryMessage:
			if err := parser.Feed(message); err != nil {
				return "", err
			}
		case websocket.TextMessage:
			if string(message) != endOfBody {
				return "", fmt.Errorf("unexpected text message %q", message)
			}
			if err := parser.Close(); err != nil {
				return "", err
			}

			return s.String(), nil
		}
	}
}
