package handler

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/generator"
	"github.com/joestump/prompt-generator/internal/llm"
	"github.com/joestump/prompt-generator/internal/prompt"
	"github.com/joestump/prompt-generator/internal/session"
)

// scriptedCompleter returns its results in order and counts calls.
type scriptedCompleter struct {
	results []llm.Result
	calls   int
}

func (s *scriptedCompleter) Complete(context.Context, string, string) llm.Result {
	res := s.results[s.calls%len(s.results)]
	s.calls++
	return res
}

type generatorTestEnv struct {
	router    http.Handler
	completer *scriptedCompleter
	cookies   []*http.Cookie
}

func newGeneratorTestEnv(t *testing.T, apiKey string, results ...llm.Result) *generatorTestEnv {
	t.Helper()
	if len(results) == 0 {
		results = []llm.Result{{Text: "unused"}}
	}
	composer, err := prompt.NewComposer(prompt.VariantStructured, "")
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	sc := &scriptedCompleter{results: results}
	router := NewRouter(Deps{
		SessionManager: session.NewSessionManager(session.Backend{}, time.Hour, false),
		Generator:      generator.NewService(composer, sc, apiKey),
		Logger:         zap.NewNop(),
	})
	return &generatorTestEnv{router: router, completer: sc}
}

// do sends a request carrying the env's session cookie and keeps any new one.
func (e *generatorTestEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		e.cookies = got
	}
	return w
}

func (e *generatorTestEnv) submit(t *testing.T, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return e.do(t, req)
}

func (e *generatorTestEnv) index(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
}

func validForm() url.Values {
	return url.Values{
		"objective":     {"Summarize"},
		"topic":         {"The history of quantum computing"},
		"role":          {"physics professor"},
		"format":        {"Bulleted list"},
		"audience":      {"high-school students"},
		"tone":          {"Academic"},
		"extra_context": {"Keep it under 200 words."},
	}
}

func body(w *httptest.ResponseRecorder) string { return html.UnescapeString(w.Body.String()) }

func TestIndex_RendersForm(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk")
	w := env.index(t)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	b := body(w)
	for _, want := range []string{`name="topic"`, `name="role"`, `name="audience"`, "Markdown table", "Brainstorm", "Persuasive"} {
		if !strings.Contains(b, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if strings.Contains(b, `id="prompt-output"`) {
		t.Error("fresh session should not render an output area")
	}
}

func TestGenerate_Success(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Text: "ROLE: physics professor\nTASK: summarize"})

	w := env.submit(t, validForm(), false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	b := body(w)
	if !strings.Contains(b, "ROLE: physics professor\nTASK: summarize") {
		t.Errorf("response missing generated prompt; body = %s", b)
	}
	if !strings.Contains(b, "Copy to clipboard") {
		t.Error("response missing copy control")
	}
	if !strings.Contains(b, `value="physics professor"`) {
		t.Error("submitted values should be echoed back into the form")
	}
	if env.completer.calls != 1 {
		t.Errorf("provider calls = %d, want 1", env.completer.calls)
	}

	// Output survives a re-render.
	if b := body(env.index(t)); !strings.Contains(b, "TASK: summarize") {
		t.Error("output should persist in the session across renders")
	}
}

func TestGenerate_BlankFieldsWarnWithoutCalling(t *testing.T) {
	for _, field := range []string{"topic", "role", "audience"} {
		t.Run(field, func(t *testing.T) {
			env := newGeneratorTestEnv(t, "sk")
			form := validForm()
			form.Set(field, "   ")

			w := env.submit(t, form, false)
			b := body(w)
			if !strings.Contains(b, "alert-warning") || !strings.Contains(b, missingFieldsMessage) {
				t.Errorf("expected a warning flash; body = %s", b)
			}
			if env.completer.calls != 0 {
				t.Errorf("provider calls = %d, want 0", env.completer.calls)
			}
		})
	}
}

func TestGenerate_MissingKeyErrorsWithoutCalling(t *testing.T) {
	env := newGeneratorTestEnv(t, "")

	b := body(env.submit(t, validForm(), false))
	if !strings.Contains(b, "alert-error") || !strings.Contains(b, "OPENROUTER_API_KEY") {
		t.Errorf("expected a configuration error flash; body = %s", b)
	}
	if env.completer.calls != 0 {
		t.Errorf("provider calls = %d, want 0", env.completer.calls)
	}
}

func TestGenerate_InvalidChoice(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk")
	form := validForm()
	form.Set("tone", "Snarky")

	b := body(env.submit(t, form, false))
	if !strings.Contains(b, "alert-warning") || !strings.Contains(b, "Tone") {
		t.Errorf("expected an invalid-choice warning; body = %s", b)
	}
	if env.completer.calls != 0 {
		t.Errorf("provider calls = %d, want 0", env.completer.calls)
	}
}

func TestGenerate_ProviderErrorIsShownAsOutput(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Err: &llm.Error{Kind: llm.KindHTTPStatus, Status: 500, Body: "server exploded"}})

	w := env.submit(t, validForm(), false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	b := body(w)
	if !strings.Contains(b, "HTTP error 500: server exploded") {
		t.Errorf("error description should appear where the result goes; body = %s", b)
	}
}

func TestGenerate_OverwritesPreviousOutput(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Text: "first prompt"}, llm.Result{Text: "second prompt"})

	env.submit(t, validForm(), false)
	b := body(env.submit(t, validForm(), false))
	if !strings.Contains(b, "second prompt") || strings.Contains(b, "first prompt") {
		t.Errorf("second generation should replace the first; body = %s", b)
	}
	b = body(env.index(t))
	if strings.Count(b, `id="prompt-output"`) != 1 || strings.Contains(b, "first prompt") {
		t.Errorf("page should show exactly the latest result; body = %s", b)
	}
}

func TestGenerate_WarningKeepsPreviousOutput(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Text: "kept prompt"})
	env.submit(t, validForm(), false)

	form := validForm()
	form.Set("topic", "")
	b := body(env.submit(t, form, false))
	if !strings.Contains(b, "kept prompt") {
		t.Errorf("a rejected submit must not clear the output slot; body = %s", b)
	}
}

func TestGenerate_HTMXFragment(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Text: "fragment prompt"})

	b := body(env.submit(t, validForm(), true))
	if !strings.HasPrefix(strings.TrimSpace(b), `<section id="result"`) {
		t.Errorf("HTMX response should be the result fragment only; body = %s", b)
	}
	if strings.Contains(b, "<html") {
		t.Error("HTMX response must not include the base layout")
	}
	if !strings.Contains(b, "fragment prompt") {
		t.Error("fragment missing generated prompt")
	}
}

func TestGenerate_EscapesOutput(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk", llm.Result{Text: "<script>alert(1)</script>"})

	raw := env.submit(t, validForm(), false).Body.String()
	if strings.Contains(raw, "<script>alert(1)</script>") {
		t.Error("generated text must be HTML-escaped")
	}
}

func TestHealthz(t *testing.T) {
	env := newGeneratorTestEnv(t, "")
	w := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"configured":false`) {
		t.Errorf("body = %s, want configured=false", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newGeneratorTestEnv(t, "sk")
	w := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestStaticAssets(t *testing.T) {
	env := newGeneratorTestEnv(t, "")
	for _, p := range []string{"/static/css/app.css", "/static/js/app.js"} {
		w := env.do(t, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", p, w.Code, http.StatusOK)
		}
	}
}
