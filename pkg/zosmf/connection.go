package zosmf

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Connection addresses one service instance. It is resolved by the caller and
// never changed afterwards.
type Connection struct {
	Scheme   string `validate:"required,oneof=http https mem"`
	Host     string `validate:"required"`
	Port     int    `validate:"min=0,max=65535"`
	User     string `validate:"required_unless=Scheme mem"`
	Password string `validate:"required_with=User"`
}

var defaultPorts = map[string]int{"http": 80, "https": 443}

// ParseConnection builds a Connection from a service URL such as
// https://mainframe:10443 and the credentials to use with it.
func ParseConnection(rawURL, user, password string) (Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "parsing connection url %q", rawURL)
	}

	conn := Connection{Scheme: u.Scheme, Host: u.Hostname(), User: user, Password: password}
	if p := u.Port(); p != "" {
		if conn.Port, err = strconv.Atoi(p); err != nil {
			return Connection{}, fmt.Errorf("invalid port in %q: %w", rawURL, err)
		}
	} else {
		conn.Port = defaultPorts[conn.Scheme]
	}

	if err := conn.Validate(); err != nil {
		return Connection{}, err
	}
	return conn, nil
}

// Validate checks the connection fields.
func (c Connection) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: invalid connection: %v", ErrValidation, err)
	}
	return nil
}

// Address is host:port, or just the host when no port applies.
func (c Connection) Address() string {
	if c.Port == 0 {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL is the base service URL.
func (c Connection) URL() string {
	return c.Scheme + "://" + c.Address()
}

// String never includes the password.
func (c Connection) String() string {
	if c.User == "" {
		return c.URL()
	}
	return c.User + "@" + c.URL()
}
