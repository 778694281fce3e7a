package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
)

func TestHTTPPDFConverter_Convert_PostsAndReturnsBody(t *testing.T) {
	var received pdfConvertRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("%PDF-data"))
	}))
	defer srv.Close()

	converter := NewHTTPPDFConverter(srv.URL)
	out, err := converter.Convert(context.Background(), "<html></html>", DefaultPDFMargins)

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-data"), out)
	assert.Equal(t, "<html></html>", received.HTML)
	assert.Equal(t, DefaultPDFMargins.TopMM, received.Margins.TopMM)
}

func TestHTTPPDFConverter_Convert_NonOKStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	converter := NewHTTPPDFConverter(srv.URL)
	_, err := converter.Convert(context.Background(), "<html></html>", DefaultPDFMargins)
	assert.Error(t, err)
}

func TestEmbeddableHTML_InlinesImagesAsDataURIs(t *testing.T) {
	o := sampleOutput()
	o.Images = map[string]article.Image{"hero": {Alt: "hero"}}

	doc, err := EmbeddableHTML(o, article.JobConfig{}, "widgets-explained", "https://acme.example",
		map[string][]byte{"hero": []byte("fake-bytes")},
		map[string]string{"hero": "image/jpeg"},
	)

	require.NoError(t, err)
	assert.Contains(t, doc, "data:image/jpeg;base64,")
	assert.NotContains(t, o.Images["hero"].URL, "data:")
}
