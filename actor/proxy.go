package actor

import (
	"encoding/json"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	proxySessionPattern = regexp.MustCompile(`^[\w.~]+$`)
	proxyGroupPattern   = regexp.MustCompile(`^\w+$`)
)

// ProxyOptions configures ProxyURL. Unset fields fall back to the environment
// and then to the local defaults.
type ProxyOptions struct {
	Password string `json:"password,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Port     int    `json:"port,omitempty"`

	// Session keeps the same exit IP across requests. A string or a number
	// made of letters, digits, "_", "." and "~".
	Session interface{} `json:"session,omitempty"`

	// Groups selects proxy groups; each is letters, digits and "_".
	Groups []string `json:"groups,omitempty"`

	// Deprecated: use Session. Ignored when Session is set.
	ApifyProxySession interface{} `json:"apifyProxySession,omitempty"`

	// Deprecated: use Groups. Ignored when Groups is set.
	ApifyProxyGroups []string `json:"apifyProxyGroups,omitempty"`
}

// proxyConfig is the canonical form of ProxyOptions after defaults and aliases
type proxyConfig struct {
	password string
	hostname string
	port     int
	session  string
	groups   []string
}

// ProxyURL returns the proxy URL for opts, reading defaults from the process environment
func ProxyURL(opts *ProxyOptions) (string, error) {
	return ProxyURLFrom(os.LookupEnv, opts)
}

// ProxyURLFrom returns the proxy URL for opts, reading defaults through lookup.
// The URL has the form http://<username>:<password>@<hostname>:<port> where the
// username encodes the groups and session, or is "auto" when neither is set.
func ProxyURLFrom(lookup LookupFunc, opts *ProxyOptions) (string, error) {
	cfg, err := normalizeProxyOptions(lookup, opts)
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(cfg.username(), cfg.password),
		Host:   net.JoinHostPort(cfg.hostname, strconv.Itoa(cfg.port)),
	}
	return u.String(), nil
}

// NewProxySession returns a random session identifier accepted by ProxyURL
func NewProxySession() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (c *proxyConfig) username() string {
	var parts []string
	if len(c.groups) > 0 {
		parts = append(parts, "groups-"+strings.Join(c.groups, "+"))
	}
	if c.session != "" {
		parts = append(parts, "session-"+c.session)
	}
	if len(parts) == 0 {
		return "auto"
	}
	return strings.Join(parts, ",")
}

func normalizeProxyOptions(lookup LookupFunc, opts *ProxyOptions) (*proxyConfig, error) {
	if opts == nil {
		opts = &ProxyOptions{}
	}

	session := opts.Session
	if session == nil {
		session = opts.ApifyProxySession
	}
	groups := opts.Groups
	if groups == nil {
		groups = opts.ApifyProxyGroups
	}

	cfg := &proxyConfig{
		password: opts.Password,
		hostname: opts.Hostname,
		port:     opts.Port,
		groups:   groups,
	}

	if session != nil {
		s, err := proxySessionString(session)
		if err != nil {
			return nil, err
		}
		if s != "" && !proxySessionPattern.MatchString(s) {
			return nil, invalid("session", "%q may only contain letters, digits, \"_\", \".\" and \"~\"", s)
		}
		cfg.session = s
	}

	for _, g := range groups {
		if !proxyGroupPattern.MatchString(g) {
			return nil, invalid("groups", "%q may only contain letters, digits and \"_\"", g)
		}
	}

	if cfg.password == "" {
		if v, ok := lookup(EnvProxyPassword); ok {
			cfg.password = v
		}
	}
	if cfg.password == "" {
		return nil, invalid("password", "is required, set it in the options or in %s", EnvProxyPassword)
	}

	if cfg.hostname == "" {
		cfg.hostname = LocalProxyHostname
		if v, ok := lookup(EnvProxyHostname); ok && v != "" {
			cfg.hostname = v
		}
	}

	if cfg.port == 0 {
		cfg.port = LocalProxyPort
		if v, ok := lookup(EnvProxyPort); ok && v != "" {
			port, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, invalid("port", "%s=%q is not a number", EnvProxyPort, v)
			}
			cfg.port = port
		}
	}
	if cfg.port < 1 || cfg.port > 65535 {
		return nil, invalid("port", "%d is out of range", cfg.port)
	}

	return cfg, nil
}

// proxySessionString accepts strings and numbers only
func proxySessionString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case int:
		return strconv.FormatInt(int64(s), 10), nil
	case int8:
		return strconv.FormatInt(int64(s), 10), nil
	case int16:
		return strconv.FormatInt(int64(s), 10), nil
	case int32:
		return strconv.FormatInt(int64(s), 10), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	default:
		return "", invalid("session", "must be a string or a number, got %T", v)
	}
}
