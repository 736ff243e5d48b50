package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ollama/ollama/api"
)

func newOllama(t *testing.T, host string) *OllamaClient {
	t.Helper()
	c, err := NewOllamaClient(host, nil)
	if err != nil {
		t.Fatalf("NewOllamaClient: %v", err)
	}
	return c
}

func collect(t *testing.T, svc Service, req Request) (string, error) {
	t.Helper()
	var sb strings.Builder
	for chunk, err := range svc.Generate(context.Background(), req) {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk.Text)
	}
	return sb.String(), nil
}

func TestOllama_Generate(t *testing.T) {
	var got api.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprintln(w, `{"response":"Hel","done":false}`)
		fmt.Fprintln(w, `{"done":false}`)
		fmt.Fprintln(w, `{"response":"lo","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
		fmt.Fprintln(w, `{"response":"ignored","done":false}`)
	}))
	defer srv.Close()

	svc := newOllama(t, srv.URL+"/")
	text, err := collect(t, svc, Request{Model: "llama2", Prompt: "hi", Temperature: 0.7, TopP: 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello" {
		t.Errorf("text = %q", text)
	}
	if got.Model != "llama2" || got.Prompt != "hi" || got.Stream == nil || !*got.Stream {
		t.Errorf("request = %+v", got)
	}
	if got.Options["temperature"] != 0.7 || got.Options["top_p"] != 0.9 {
		t.Errorf("request = %+v", got)
	}
}

func TestOllama_StreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"partial","done":false}`)
		fmt.Fprintln(w, `{"error":"model crashed"}`)
	}))
	defer srv.Close()

	text, err := collect(t, newOllama(t, srv.URL), Request{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "model crashed") {
		t.Fatalf("err = %v", err)
	}
	if text != "partial" {
		t.Errorf("text = %q", text)
	}
}

func TestOllama_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model 'nope' not found"}`)
	}))
	defer srv.Close()

	_, err := collect(t, newOllama(t, srv.URL), Request{Model: "nope"})
	if err == nil || !strings.Contains(err.Error(), "model 'nope' not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestOllama_StopEarly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, `{"response":"%d","done":false}`+"\n", i)
		}
		fmt.Fprintln(w, `{"done":true}`)
	}))
	defer srv.Close()

	n := 0
	for range newOllama(t, srv.URL).Generate(context.Background(), Request{Model: "m"}) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("consumed %d chunks", n)
	}
}

func TestOllama_ListModelsAndPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, "Ollama is running")
		case "/api/tags":
			fmt.Fprint(w, `{"models":[{"name":"llama2:latest"},{"name":"mistral:7b"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := newOllama(t, srv.URL)
	models, err := svc.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(models, ",") != "llama2:latest,mistral:7b" {
		t.Errorf("models = %v", models)
	}
	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestOllama_PingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := newOllama(t, url).Ping(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestNewOllamaClient_HostWithoutScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Ollama is running")
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	if err := newOllama(t, host).Ping(context.Background()); err != nil {
		t.Errorf("ping %s: %v", host, err)
	}
}

func TestOpenAI_Generate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", part)
		}
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	svc := NewOpenAIClient(srv.URL, "test-key", srv.Client())
	text, err := collect(t, svc, Request{Model: "m", Prompt: "hi", Temperature: 0.5, TopP: 0.8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello" {
		t.Errorf("text = %q", text)
	}
	if body["model"] != "m" || body["temperature"] != 0.5 || body["top_p"] != 0.8 {
		t.Errorf("request body = %v", body)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", body["messages"])
	}
	if m, _ := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "hi" {
		t.Errorf("message = %v", msgs[0])
	}
}

func TestOpenAI_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"id":"llama3","object":"model","created":1,"owned_by":"library"}]}`)
	}))
	defer srv.Close()

	models, err := NewOpenAIClient(srv.URL+"/v1", "", srv.Client()).ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 1 || models[0] != "llama3" {
		t.Errorf("models = %v", models)
	}
}

func TestNew(t *testing.T) {
	if svc, err := New(Params{Host: "http://localhost:11434"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if _, ok := svc.(*OllamaClient); !ok {
		t.Errorf("default backend = %T", svc)
	}
	if svc, err := New(Params{Backend: BackendOpenAI, Host: "http://localhost:11434"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if _, ok := svc.(*OpenAIClient); !ok {
		t.Errorf("openai backend = %T", svc)
	}
	if _, err := New(Params{Backend: "grpc"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
