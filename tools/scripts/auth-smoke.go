// Package main provides a CI-friendly smoke test for the playtube account API.
//
// It validates, against a running server:
//   - register -> 201 with public profile
//   - login -> tokens in body and httpOnly cookies
//   - me with bearer access token
//   - refresh -> rotated token pair
//   - replay of the consumed refresh token -> 401
//   - logout -> cleared cookies, dead session
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8080", "Server base URL")
		username = flag.String("user", fmt.Sprintf("smoke-%d", time.Now().UnixNano()), "Username to register")
		password = flag.String("password", "smoke-test-password", "Password to use")
		timeout  = flag.Duration("timeout", 7*time.Second, "Per-request timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	base, err := url.Parse(strings.TrimRight(*baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		fatalf("invalid -url: %q", *baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookiejar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: *timeout}

	email := *username + "@smoke.invalid"

	// register
	env := mustPost(client, base, "/api/v1/users/register", map[string]string{
		"username": *username,
		"email":    email,
		"fullName": "Smoke Test",
		"password": *password,
	}, http.StatusCreated)
	step(*verbose, "register", env.Message)

	// login
	env = mustPost(client, base, "/api/v1/users/login", map[string]string{
		"username": *username,
		"password": *password,
	}, http.StatusOK)
	var issued tokenPair
	mustDecode(env.Data, &issued)
	if issued.AccessToken == "" || issued.RefreshToken == "" {
		fatalf("login: empty tokens in response")
	}
	if c := cookieNamed(jar, base, "refreshToken"); c == "" {
		fatalf("login: refreshToken cookie not set")
	}
	step(*verbose, "login", env.Message)

	// me
	if err := getMe(client, base, issued.AccessToken); err != nil {
		fatalf("me: %v", err)
	}
	step(*verbose, "me", "profile fetched")

	// refresh rotates
	env = mustPost(client, base, "/api/v1/users/refresh-token", map[string]string{
		"refreshToken": issued.RefreshToken,
	}, http.StatusOK)
	var rotated tokenPair
	mustDecode(env.Data, &rotated)
	if rotated.RefreshToken == "" || rotated.RefreshToken == issued.RefreshToken {
		fatalf("refresh: token was not rotated")
	}
	step(*verbose, "refresh", "pair rotated")

	// replay of the consumed token must be rejected
	clearCookies(client)
	if err := expectUnauthorized(client, base, issued.RefreshToken); err != nil {
		fatalf("replay: %v", err)
	}
	step(*verbose, "replay", "rejected as expected")

	// logout kills the live session
	env = mustPostAuth(client, base, "/api/v1/users/logout", rotated.AccessToken, http.StatusOK)
	step(*verbose, "logout", env.Message)

	clearCookies(client)
	if err := expectUnauthorized(client, base, rotated.RefreshToken); err != nil {
		fatalf("refresh after logout: %v", err)
	}
	step(*verbose, "post-logout", "session dead as expected")

	fmt.Println("auth smoke: OK")
}

func mustPost(client *http.Client, base *url.URL, path string, body map[string]string, wantStatus int) envelope {
	return doPost(client, base, path, body, "", wantStatus)
}

func mustPostAuth(client *http.Client, base *url.URL, path, accessToken string, wantStatus int) envelope {
	return doPost(client, base, path, nil, accessToken, wantStatus)
}

func doPost(client *http.Client, base *url.URL, path string, body map[string]string, accessToken string, wantStatus int) envelope {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fatalf("%s: marshal: %v", path, err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, base.String()+path, buf)
	if err != nil {
		fatalf("%s: %v", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		fatalf("%s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != wantStatus {
		fatalf("%s: status %d (want %d): %s", path, resp.StatusCode, wantStatus, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		fatalf("%s: bad envelope: %v: %s", path, err, raw)
	}
	return env
}

func getMe(client *http.Client, base *url.URL, accessToken string) error {
	req, err := http.NewRequest(http.MethodGet, base.String()+"/api/v1/users/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}
	return nil
}

func expectUnauthorized(client *http.Client, base *url.URL, refreshToken string) error {
	b, _ := json.Marshal(map[string]string{"refreshToken": refreshToken})
	req, err := http.NewRequest(http.MethodPost, base.String()+"/api/v1/users/refresh-token", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("status %d, want 401", resp.StatusCode)
	}
	return nil
}

func mustDecode(raw json.RawMessage, dst any) {
	if err := json.Unmarshal(raw, dst); err != nil {
		fatalf("decode data: %v", err)
	}
}

// cookieNamed reads a cookie by name from the jar for the base URL.
func cookieNamed(jar http.CookieJar, base *url.URL, name string) string {
	for _, c := range jar.Cookies(base) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// clearCookies drops the jar so the next request carries only what the test
// puts in the body. Cookie precedence would otherwise mask replay checks.
func clearCookies(client *http.Client) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookiejar: %v", err)
	}
	client.Jar = jar
}

func step(verbose bool, name, detail string) {
	if verbose {
		fmt.Printf("ok: %-12s %s\n", name, detail)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "auth smoke: "+format+"\n", args...)
	os.Exit(1)
}
