package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// persistentJar wraps a cookiejar.Jar and mirrors the cookies for the API
// origin to a JSON file, so the session credential set by a login survives
// between process runs. With an empty path it degrades to an in-memory jar.
type persistentJar struct {
	inner http.CookieJar
	base  *url.URL
	path  string
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func newPersistentJar(inner http.CookieJar, base *url.URL, path string) *persistentJar {
	return &persistentJar{inner: inner, base: base, path: path}
}

func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
}

func (j *persistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// load restores previously saved cookies. Missing or corrupt files are a
// clean slate, not an error.
func (j *persistentJar) load() {
	if j.path == "" {
		return
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	now := time.Now()
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    sc.Name,
			Value:   sc.Value,
			Path:    sc.Path,
			Expires: sc.Expires,
		})
	}
	j.inner.SetCookies(j.base, cookies)
}

// save writes the current cookies for the API origin back to disk.
func (j *persistentJar) save() {
	if j.path == "" {
		return
	}
	cookies := j.inner.Cookies(j.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(j.path), 0o755)
	_ = os.WriteFile(j.path, data, 0o600)
}

// clear drops the persisted session, used on logout.
func (j *persistentJar) clear() {
	if j.path == "" {
		return
	}
	_ = os.Remove(j.path)
}
