package config

import (
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionCap is the hard ceiling on authenticated session age,
// enforced by the session lifetime middleware independently of token expiry.
const DefaultSessionCap = 5 * time.Hour

type Config struct {
	Addr        string
	DBPath      string
	TokenSecret string
	TokenTTL    time.Duration
	SessionCap  time.Duration
	Debug       bool
}

// ParseFlags builds the configuration from an optional .env file,
// the environment and command line flags, in increasing precedence.
func ParseFlags() (cfg Config, err error) {
	godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envUintOr("PORT", 8080), "listen port number")
	flag.StringVar(&cfg.DBPath, "db-path", envOr("DB_PATH", "formbuilder.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", envUintOr("TOKEN_TTL", 1200), "access token TTL in seconds")
	var cap uint
	flag.UintVar(&cap, "session-cap", envUintOr("SESSION_CAP", uint(DefaultSessionCap/time.Second)), "max authenticated session age in seconds")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("DEBUG") == "true", "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second
	cfg.SessionCap = time.Duration(cap) * time.Second

	return
}

// AuthEnabled reports whether a token secret was configured. Without one the
// auth middleware and the session lifetime guard are skipped entirely: the
// server fails open rather than locking everyone out.
func (cfg Config) AuthEnabled() bool {
	return cfg.TokenSecret != ""
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUintOr(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
