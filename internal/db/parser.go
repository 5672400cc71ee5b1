package db

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/vvka-141/pgload/pkg/pgload"
)

// BuildConnectionString renders config as a PostgreSQL URI understood by pgxpool.ParseConfig.
func BuildConnectionString(config *pgload.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	u.RawQuery = query.Encode()
	return u.String()
}

// Redacted returns the connection string with the password masked, for verbose logs.
func Redacted(config *pgload.ConnectionConfig) string {
	masked := *config
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return BuildConnectionString(&masked)
}
