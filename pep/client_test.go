package pep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pombreda/argus-pep-api-c/xacml"
)

func TestAuthorizeNoEndpoints(t *testing.T) {
	c := &Client{}
	_, err := c.Authorize(context.Background(), &xacml.Request{})
	if !errors.Is(err, ErrNoEndpointsConfigured) {
		t.Fatalf("got %v, want ErrNoEndpointsConfigured", err)
	}
}

func TestAuthorizeSucceedsOnFirstEndpoint(t *testing.T) {
	resp := &xacml.Response{Results: []xacml.Result{{Decision: xacml.Permit}}}
	body, err := xacml.MarshalResponse(resp)
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	c := &Client{Endpoints: []string{srv.URL}}
	got, err := c.Authorize(context.Background(), &xacml.Request{})
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if got.Results[0].Decision != xacml.Permit {
		t.Fatalf("got decision %s, want Permit", got.Results[0].Decision)
	}
}

func TestAuthorizeFailsOverToSecondEndpoint(t *testing.T) {
	resp := &xacml.Response{Results: []xacml.Result{{Decision: xacml.Deny}}}
	body, err := xacml.MarshalResponse(resp)
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer good.Close()

	// A server that always 500s counts as a reachable-but-unexpected
	// status, which should also trigger failover to the next endpoint.
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	c := &Client{Endpoints: []string{bad.URL, good.URL}}
	got, err := c.Authorize(context.Background(), &xacml.Request{})
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if got.Results[0].Decision != xacml.Deny {
		t.Fatalf("got decision %s, want Deny", got.Results[0].Decision)
	}
}

func TestAuthorizeAllEndpointsFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	c := &Client{Endpoints: []string{bad.URL, bad.URL}}
	_, err := c.Authorize(context.Background(), &xacml.Request{})
	if !errors.Is(err, ErrAllEndpointsFailed) {
		t.Fatalf("got %v, want ErrAllEndpointsFailed", err)
	}
}
