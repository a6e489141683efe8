package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/bonds"
	"github.com/aetherwealth/aether/internal/modules/crypto"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/aetherwealth/aether/internal/modules/shares"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/aetherwealth/aether/pkg/embedded"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testToken = "test-session"

var testUser = &auth.User{ID: testingpkg.TestUserID, Email: "test@example.com", FullName: "Test Investor"}

type fakeSessions struct{}

func (fakeSessions) UserForSession(_ context.Context, token string) (*auth.User, error) {
	if token == testToken {
		return testUser, nil
	}
	return nil, auth.ErrSessionNotFound
}

type mountLog struct {
	mu       sync.Mutex
	mounted  []domain.AssetType
	released []domain.AssetType
}

func (m *mountLog) ProviderMounted(t domain.AssetType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted = append(m.mounted, t)
}

func (m *mountLog) ProviderReleased(t domain.AssetType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, t)
}

type outcomeLog struct {
	mu       sync.Mutex
	outcomes []RenderOutcome
}

func (o *outcomeLog) RecordRender(_ domain.AssetType, outcome RenderOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

type staticTotals map[domain.AssetType]decimal.Decimal

func (s staticTotals) Totals(context.Context, string) (map[domain.AssetType]decimal.Decimal, error) {
	return s, nil
}

type harness struct {
	router   chi.Router
	store    *testingpkg.MockAssetStore
	mounts   *holdings.Mounts
	mountLog *mountLog
	outcomes *outcomeLog
	handler  *Handler
}

type harnessOption func(*Config)

func withDevMode() harnessOption {
	return func(c *Config) {
		c.Gate = auth.NewGate(fakeSessions{}, true, zerolog.Nop())
	}
}

func withAccounts(a Accounts, limiter *auth.LoginLimiter) harnessOption {
	return func(c *Config) {
		c.Accounts = a
		c.Limiter = limiter
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(embedded.Files)
	require.NoError(t, err)
	return r
}

func newTemplate(t *testing.T) *AssetPageTemplate {
	t.Helper()
	return NewAssetPageTemplate(newRenderer(t), view.NewFormatter("USD"),
		bonds.NewConsumer(), shares.NewConsumer(), crypto.NewConsumer())
}

func newHarness(t *testing.T, store *testingpkg.MockAssetStore, opts ...harnessOption) *harness {
	t.Helper()

	mounts := holdings.NewMounts(store, zerolog.Nop())
	ml := &mountLog{}
	mounts.SetObserver(ml)
	outcomes := &outcomeLog{}

	cfg := Config{
		Renderer:  newRenderer(t),
		Formatter: view.NewFormatter("USD"),
		Consumers: []Consumer{bonds.NewConsumer(), shares.NewConsumer(), crypto.NewConsumer()},
		Mounts:    mounts,
		Totals: staticTotals{
			domain.AssetTypeShare:  decimal.NewFromInt(3200),
			domain.AssetTypeBond:   decimal.NewFromInt(710000),
			domain.AssetTypeCrypto: decimal.NewFromInt(40000),
		},
		Gate:     auth.NewGate(fakeSessions{}, false, zerolog.Nop()),
		Recorder: outcomes,
		Log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := NewHandler(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	return &harness{router: r, store: store, mounts: mounts, mountLog: ml, outcomes: outcomes, handler: h}
}

func fixtureStore() *testingpkg.MockAssetStore {
	all := append(testingpkg.NewBondFixtures(), testingpkg.NewShareFixtures()...)
	all = append(all, testingpkg.NewCryptoFixtures()...)
	return testingpkg.NewMockAssetStore(all...)
}

func (h *harness) do(t *testing.T, req *http.Request, signedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	if signedIn {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: testToken})
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return h.do(t, httptest.NewRequest(http.MethodGet, path, nil), true)
}

func postForm(path string, values map[string]string) *http.Request {
	form := make([]string, 0, len(values))
	for k, v := range values {
		form = append(form, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(strings.Join(form, "&")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// textContent returns the visible text of an HTML document with whitespace
// collapsed, so assertions see "Shares & Stocks" rather than its escaped form.
func textContent(t *testing.T, body string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// findAttr reports whether any element carries attribute key=value.
func findAttr(t *testing.T, body, key, value string) bool {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var found bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == key && a.Val == value {
					found = true
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}
