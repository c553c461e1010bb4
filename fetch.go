package auditor

import (
	"io"
	"net"
	"net/http"
	"time"
)

// Response is the raw outcome of one HTTP request. Redirects are never
// followed by the transport itself, the crawl engine drives them.
type Response struct {
	Status   int
	Headers  http.Header
	FinalURL string
	Body     []byte
}

type Transport interface {
	Fetch(targetURL string) (*Response, error)
}

type HTTPTransport struct {
	agent  string
	client *http.Client
}

func NewHTTPTransport(timeout time.Duration, agent string) *HTTPTransport {
	return &HTTPTransport{
		agent: agent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				Dial: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).Dial,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

func (t *HTTPTransport) Fetch(targetURL string) (*Response, error) {
	req, errRequest := http.NewRequest("GET", targetURL, nil)
	if errRequest != nil {
		return nil, errRequest
	}
	req.Header.Set("User-Agent", t.agent)
	resp, errGet := t.client.Do(req)
	if errGet != nil {
		return nil, errGet
	}
	defer resp.Body.Close()
	body, errRead := io.ReadAll(resp.Body)
	if errRead != nil {
		return nil, errRead
	}
	return &Response{
		Status:   resp.StatusCode,
		Headers:  resp.Header,
		FinalURL: targetURL,
		Body:     body,
	}, nil
}
