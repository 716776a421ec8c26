package speech_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykushyn/prismiq/internal/speech"
)

func newClient(serverURL string) *speech.Client {
	return speech.NewClient("test-key", serverURL+"/v1", speech.Options{
		TTSModel: "gpt-4o-mini-tts",
		Voice:    "sage",
		Format:   "mp3",
		STTModel: "whisper-1",
	})
}

func TestSynthesize_EmptyInputMakesNoCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	audio := newClient(server.URL).Synthesize(context.Background(), "")
	assert.Nil(t, audio)
	assert.Zero(t, calls)
}

func TestSynthesize_ReturnsAudioBytes(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	audio := newClient(server.URL).Synthesize(context.Background(), "hello learner")

	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "/v1/audio/speech", capturedPath)
}

func TestSynthesize_ProviderFailureYieldsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"voice unavailable"}}`))
	}))
	defer server.Close()

	audio := newClient(server.URL).Synthesize(context.Background(), "hello learner")
	assert.Nil(t, audio)
}

func TestTranscribe_EmptyInputReturnsImmediately(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	text := newClient(server.URL).Transcribe(context.Background(), nil)
	assert.Empty(t, text)
	assert.Zero(t, calls)
}

func TestTranscribe_PostsMultipartAndExtractsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"what produces energy"}`))
	}))
	defer server.Close()

	text := newClient(server.URL).Transcribe(context.Background(), []byte("fake-audio"))
	assert.Equal(t, "what produces energy", text)
}

func TestTranscribe_ProviderFailureYieldsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"unsupported format"}}`))
	}))
	defer server.Close()

	text := newClient(server.URL).Transcribe(context.Background(), []byte("fake-audio"))
	assert.Empty(t, text)
}
