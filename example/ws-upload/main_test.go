package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const body = "--X\r\n" +
	"Content-Disposition: form-data; name=\"id\"\r\n" +
	"\r\n" +
	"alice\r\n" +
	"--X\r\n" +
	"Content-Disposition: form-data; name=\"icon\"; filename=\"icon.png\"\r\n" +
	"Content-Type: image/png\r\n" +
	"\r\n" +
	"0123456789\r\n" +
	"--X--\r\n"

// upload sends body in messages of size bytes. A negative size sends no body and no end marker.
func upload(t *testing.T, contentType string, body string, size int) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(onUpload))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/upload"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(contentType)))
	if size >= 0 {
		for len(body) > 0 {
			n := min(size, len(body))
			require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte(body[:n])))
			body = body[n:]
		}
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(endOfBody)))
	}

	messageType, message, err := c.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, messageType)

	return string(message)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 7, len(body)} {
		got := upload(t, "multipart/form-data; boundary=X", body, size)
		require.Equal(t, "field id=alice\nfile icon: 10 bytes", got)
	}
}

func TestUpload_Errors(t *testing.T) {
	t.Parallel()

	got := upload(t, "text/plain", body, -1)
	require.Equal(t, "error: malformed content type", got)

	got = upload(t, "multipart/form-data; boundary=X", body[:40], len(body))
	require.Contains(t, got, "unterminated")
}
