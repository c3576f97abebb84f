//go:build browser

package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/playwright-community/playwright-go"

	"popcorn/services"
	"popcorn/storage"
)

// Drives keyboard shortcuts in headless Chromium. Run with -tags browser;
// needs the Playwright driver installed and network access for htmx.

type browserApp struct {
	BaseURL string
	PW      *playwright.Playwright
	Browser playwright.Browser
}

func newBrowserApp(t *testing.T) *browserApp {
	t.Helper()

	sessions, err := services.NewSessions("browser-secret", false)
	if err != nil {
		t.Fatalf("failed to create sessions: %v", err)
	}
	source := newFakeSource()
	workspaces := services.NewWorkspaces(source, services.NewWatchedRepository(storage.NewMemoryStore()), services.DuplicatesReject)
	srv := httptest.NewServer(NewRouter(Deps{
		Source:     source,
		Sessions:   sessions,
		Workspaces: workspaces,
		CSRFKey:    bytes.Repeat([]byte("c"), 32),
	}))

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})
	return &browserApp{BaseURL: srv.URL, PW: pw, Browser: browser}
}

func (a *browserApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

func waitFor(t *testing.T, page playwright.Page, selector string, state *playwright.WaitForSelectorState) {
	t.Helper()
	if err := page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("waiting for %s: %v", selector, err)
	}
}

func waitForJS(t *testing.T, page playwright.Page, expr string) {
	t.Helper()
	if _, err := page.WaitForFunction(expr, nil, playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("waiting for %s: %v", expr, err)
	}
}

func TestBrowser_KeyboardShortcuts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newBrowserApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if err := page.Locator("#search").Fill("matrix"); err != nil {
		t.Fatalf("failed to type query: %v", err)
	}
	waitFor(t, page, "li.movie", playwright.WaitForSelectorStateVisible)

	if err := page.Locator("li.movie").First().Click(); err != nil {
		t.Fatalf("failed to open movie: %v", err)
	}
	waitFor(t, page, ".details h2", playwright.WaitForSelectorStateVisible)
	waitForJS(t, page, "document.title === 'Movie | The Matrix'")

	// Escape closes the detail panel and restores the title.
	if err := page.Keyboard().Press("Escape"); err != nil {
		t.Fatalf("failed to press Escape: %v", err)
	}
	waitFor(t, page, ".summary", playwright.WaitForSelectorStateVisible)
	waitForJS(t, page, "document.title === 'usePopCorn'")

	// With Escape unbound there is no listener left for it.
	if n, err := page.Locator("#key-Escape").Count(); err != nil || n != 0 {
		t.Fatalf("Escape still bound: count=%d err=%v", n, err)
	}

	// Enter outside the search box clears and focuses it.
	if err := page.Keyboard().Press("Enter"); err != nil {
		t.Fatalf("failed to press Enter: %v", err)
	}
	waitForJS(t, page, "document.activeElement && document.activeElement.id === 'search' && document.activeElement.value === ''")
	waitFor(t, page, "li.movie", playwright.WaitForSelectorStateDetached)
}

func TestBrowser_RateAndAdd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newBrowserApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if err := page.Locator("#search").Fill("matrix"); err != nil {
		t.Fatalf("failed to type query: %v", err)
	}
	waitFor(t, page, "li.movie", playwright.WaitForSelectorStateVisible)
	if err := page.Locator("li.movie").First().Click(); err != nil {
		t.Fatalf("failed to open movie: %v", err)
	}
	waitFor(t, page, ".stars .star", playwright.WaitForSelectorStateVisible)

	if err := page.Locator(".stars .star").Nth(6).Click(); err != nil {
		t.Fatalf("failed to rate: %v", err)
	}
	waitFor(t, page, ".btn-add", playwright.WaitForSelectorStateVisible)
	if err := page.Locator(".btn-add").Click(); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	waitFor(t, page, "li.watched", playwright.WaitForSelectorStateVisible)

	text, err := page.Locator(".summary .avg-user").TextContent()
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	if text != "7.00" {
		t.Fatalf("average user rating = %q, want 7.00", text)
	}

	// The list survives a reload.
	if _, err := page.Reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	waitFor(t, page, "li.watched", playwright.WaitForSelectorStateVisible)
}
