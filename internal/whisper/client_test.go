package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFfakewav"), 0o600))
	return path
}

func newTestClient(serverURL string) *Client {
	client := NewClient("sk-test")
	client.Endpoint = serverURL
	return client
}

func TestTranscribeSendsMultipartFieldsAndAuth(t *testing.T) {
	var gotAuth string
	var gotFields map[string]string
	var gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotFields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotFields[key] = values[0]
		}
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			gotFilename = files[0].Filename
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "kal milte hain"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Transcribe(context.Background(), Request{
		AudioPath: writeTestAudio(t),
		Prompt:    "Roman script mein likho",
	})
	require.NoError(t, err)
	require.Equal(t, "kal milte hain", text)

	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "clip.wav", gotFilename)
	require.Equal(t, DefaultModel, gotFields["model"])
	require.Equal(t, "json", gotFields["response_format"])
	require.Equal(t, "Roman script mein likho", gotFields["prompt"])
	require.NotContains(t, gotFields, "language")
}

func TestTranscribeIncludesLanguageWhenSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "en", r.MultipartForm.Value["language"][0])
		_, _ = w.Write([]byte(`{"text": "hello"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Transcribe(context.Background(), Request{
		AudioPath: writeTestAudio(t),
		Language:  "en",
	})
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestTranscribeMissingKey(t *testing.T) {
	client := NewClient("   ")
	_, err := client.Transcribe(context.Background(), Request{AudioPath: writeTestAudio(t)})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestTranscribeBadCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "Incorrect API key provided"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Transcribe(context.Background(), Request{AudioPath: writeTestAudio(t)})
	require.ErrorIs(t, err, ErrBadCredential)
	require.Contains(t, err.Error(), "Incorrect API key")
}

func TestTranscribeServerErrorCarriesExcerpt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Transcribe(context.Background(), Request{AudioPath: writeTestAudio(t)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
	require.Contains(t, err.Error(), "upstream exploded")
}

func TestTranscribeMissingAudioFile(t *testing.T) {
	client := NewClient("sk-test")
	_, err := client.Transcribe(context.Background(), Request{AudioPath: "/does/not/exist.wav"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "open audio file")
}
