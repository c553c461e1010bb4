package auditor

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newSitemapTestServer() *httptest.Server {
	mux := http.NewServeMux()
	var testServer *httptest.Server
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<sitemap><loc>%s/sitemap-pages.xml</loc></sitemap>
	<sitemap><loc>%s/sitemap-broken.xml</loc></sitemap>
</sitemapindex>`, testServer.URL, testServer.URL)
	})
	mux.HandleFunc("/sitemap-pages.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url><loc>%s/</loc></url>
	<url><loc>%s/about/</loc></url>
	<url><loc>%s/orphan</loc></url>
</urlset>`, testServer.URL, testServer.URL, testServer.URL)
	})
	mux.HandleFunc("/sitemap-broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	testServer = httptest.NewServer(mux)
	return testServer
}

func TestSitemapReader(t *testing.T) {
	testServer := newSitemapTestServer()
	defer testServer.Close()

	canon, _ := NewCanonicalizer(testServer.URL)
	transport := NewHTTPTransport(time.Second, "test-agent")
	urls := NewSitemapReader(transport, canon, 5, nil).Fetch(testServer.URL)

	assert.Len(t, urls, 3)
	assert.True(t, urls[testServer.URL+"/"])
	// canonicalized, trailing slash dropped
	assert.True(t, urls[testServer.URL+"/about"])
	assert.True(t, urls[testServer.URL+"/orphan"])
}

func TestSitemapReaderDepthBound(t *testing.T) {
	// the index points at itself, the depth cap terminates the recursion
	var testServer *httptest.Server
	testServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex>
	<sitemap><loc>%s/sitemap.xml</loc></sitemap>
</sitemapindex>`, testServer.URL)
	}))
	defer testServer.Close()

	canon, _ := NewCanonicalizer(testServer.URL)
	transport := NewHTTPTransport(time.Second, "test-agent")
	urls := NewSitemapReader(transport, canon, 5, nil).Fetch(testServer.URL)
	assert.Empty(t, urls)
}

func TestSitemapReaderTotalFailure(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer testServer.Close()

	canon, _ := NewCanonicalizer(testServer.URL)
	transport := NewHTTPTransport(time.Second, "test-agent")
	urls := NewSitemapReader(transport, canon, 5, nil).Fetch(testServer.URL)
	assert.Empty(t, urls)
}

func TestSitemapReaderUnparseable(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not xml <<<"))
	}))
	defer testServer.Close()

	canon, _ := NewCanonicalizer(testServer.URL)
	transport := NewHTTPTransport(time.Second, "test-agent")
	urls := NewSitemapReader(transport, canon, 5, nil).Fetch(testServer.URL)
	assert.Empty(t, urls)
}
