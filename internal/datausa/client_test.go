package datausa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePayload = `{
  "data": [
    {"ID State": "04000US39", "State": "Ohio", "ID Year": 2021, "Year": "2021", "Population": 11780017, "Slug State": "ohio"},
    {"ID State": "04000US39", "State": "Ohio", "ID Year": 2020, "Year": 2020, "Population": 11675275, "Slug State": "ohio"},
    {"ID State": "04000US48", "State": "Texas", "ID Year": 2021, "Year": "2021", "Population": 28635442, "Slug State": "texas"}
  ],
  "source": []
}`

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "datausa.io" {
		t.Fatalf("parseBaseURL(\"\") = %q, want https://datausa.io", u.String())
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("mirror.local:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "mirror.local:8080" {
		t.Fatalf("parseBaseURL(bare host) = %q", u.String())
	}
}

func TestClient_FetchPopulationEncodesQueryAndDecodes(t *testing.T) {
	t.Parallel()

	var gotPath, gotDrill, gotMeasures, gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDrill = r.URL.Query().Get("drilldowns")
		gotMeasures = r.URL.Query().Get("measures")
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	records, err := c.FetchPopulation(ctx)
	if err != nil {
		t.Fatalf("FetchPopulation returned error: %v", err)
	}
	if gotPath != "/api/data" || gotDrill != "State" || gotMeasures != "Population" {
		t.Fatalf("request = %s drilldowns=%s measures=%s", gotPath, gotDrill, gotMeasures)
	}
	if !strings.HasPrefix(gotUserAgent, "popview/") {
		t.Fatalf("User-Agent = %q, want popview/*", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	first := records[0]
	if first.State != "Ohio" || first.Year != 2021 || first.YearID != 2021 || first.Population != 11780017 || first.Slug != "ohio" || first.StateID != "04000US39" {
		t.Fatalf("records[0] = %#v", first)
	}
	if records[1].Year != 2020 {
		t.Fatalf("numeric Year not decoded: %#v", records[1])
	}
	if records[2].State != "Texas" {
		t.Fatalf("order not preserved: %#v", records)
	}
}

func TestClient_EmptyDataArray(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	records, err := c.FetchPopulation(context.Background())
	if err != nil {
		t.Fatalf("FetchPopulation returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %#v, want empty", records)
	}
}

func TestClient_HTTPErrorIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchPopulation(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchPopulation error = %v, want ErrNetwork", err)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Status != http.StatusInternalServerError {
		t.Fatalf("NetworkError status = %#v, want 500", netErr)
	}
	if !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("error = %q, want status 500 mention", err.Error())
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewClient(url, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchPopulation(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchPopulation error = %v, want ErrNetwork", err)
	}
	if errors.Is(err, ErrParse) {
		t.Fatalf("transport failure should not match ErrParse")
	}
}

func TestClient_MalformedBodyIsParseError(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":        "{not-json",
		"missing data":    `{"source": []}`,
		"bad year text":   `{"data": [{"State": "Ohio", "Year": "abc"}]}`,
		"nan population":  `{"data": [{"State": "Ohio", "Year": 2021, "Population": "NaN"}]}`,
		"huge population": `{"data": [{"State": "Ohio", "Year": 2021, "Population": 1e300}]}`,
		"fractional year": `{"data": [{"State": "Ohio", "Year": "2020.7"}]}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.FetchPopulation(context.Background())
			if !errors.Is(err, ErrParse) {
				t.Fatalf("FetchPopulation error = %v, want ErrParse", err)
			}
		})
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchPopulation(context.Background()); err == nil {
		t.Fatalf("nil client should return error")
	}
}

func TestWithUserAgent(t *testing.T) {
	c, err := NewClient("", WithUserAgent("popview/test"), WithUserAgent("   "))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.userAgent != "popview/test" {
		t.Fatalf("userAgent = %q, want popview/test", c.userAgent)
	}
}
