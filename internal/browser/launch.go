package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// userAgent masks the headless build token; sites fingerprint it.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// chromeCandidates are tried in order when CHROME_PATH is not set.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

func findChrome() (string, error) {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p, nil
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no Chrome/Chromium binary found (set CHROME_PATH)")
}

// clearStaleLocks removes profile lock files left behind by an abruptly killed
// browser; Chrome refuses to start on the profile otherwise.
func clearStaleLocks(profileDir string) {
	for _, name := range []string{"SingletonLock", "SingletonCookie", "SingletonSocket"} {
		_ = os.Remove(filepath.Join(profileDir, name))
	}
}

// launchDetached starts Chrome in its own session so it outlives this process,
// then polls the DevTools endpoint for the WebSocket debugger URL.
func launchDetached(ctx context.Context, profileDir string, port int, headless bool) (string, error) {
	bin, err := findChrome()
	if err != nil {
		return "", &LaunchError{Message: "locating browser", Cause: err}
	}

	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return "", &LaunchError{Message: "creating profile dir", Cause: err}
	}
	clearStaleLocks(profileDir)

	args := []string{
		"--remote-debugging-port=" + strconv.Itoa(port),
		"--user-data-dir=" + profileDir,
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-blink-features=AutomationControlled",
		"--disable-infobars",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--no-sandbox",
		"--window-size=1280,900",
		"--user-agent=" + userAgent,
	}
	if headless {
		args = append(args, "--headless=new")
	}
	args = append(args, "about:blank")

	cmd := exec.Command(bin, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return "", &LaunchError{Message: "starting browser process", Cause: err}
	}
	// Detach: the browser is reaped by init, not by us.
	_ = cmd.Process.Release()

	ws, err := waitForDevTools(ctx, port, 15*time.Second)
	if err != nil {
		return "", err
	}
	return ws, nil
}

type devToolsVersion struct {
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// waitForDevTools polls /json/version until the debugger URL appears.
func waitForDevTools(ctx context.Context, port int, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://127.0.0.1:%d/json/version", port)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", &LaunchError{Message: "waiting for devtools", Cause: ctx.Err()}
		case <-time.After(250 * time.Millisecond):
		}

		resp, err := client.Get(url)
		if err != nil {
			continue
		}
		var v devToolsVersion
		err = json.NewDecoder(resp.Body).Decode(&v)
		_ = resp.Body.Close()
		if err == nil && v.WebSocketDebuggerURL != "" {
			return v.WebSocketDebuggerURL, nil
		}
	}
	return "", &LaunchError{Message: fmt.Sprintf("devtools endpoint on port %d never came up", port)}
}
