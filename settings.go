package wrds

import (
	"fmt"
	"strings"
)

// Defaults for the WRDS shared warehouse. Override the struct fields to
// point at a mirror or a local test instance.
const (
	DefaultDBName = "wrds"
	DefaultHost   = "wrds-pgdata.wharton.upenn.edu"
	DefaultPort   = 9737
)

// Settings holds everything needed to open a session. Username is the only
// required field; empty fields fall back to the WRDS defaults when the DSN
// is built. Password wins over Passfile when both are set. With neither,
// the driver falls back to the platform .pgpass lookup.
//
// Settings is a valid Target: operations given Settings instead of an open
// *Conn connect, run, and close the connection on every exit path.
type Settings struct {
	Username string
	DBName   string
	Host     string
	Port     int
	Password string
	Passfile string
}

// NewSettings returns Settings for username with the WRDS defaults filled
// in explicitly.
func NewSettings(username string) Settings {
	return Settings{
		Username: username,
		DBName:   DefaultDBName,
		Host:     DefaultHost,
		Port:     DefaultPort,
	}
}

func (s Settings) withDefaults() Settings {
	if s.DBName == "" {
		s.DBName = DefaultDBName
	}
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}

// DSN renders the libpq keyword/value connection string.
func (s Settings) DSN() string {
	s = s.withDefaults()

	parts := []string{
		"host=" + dsnValue(s.Host),
		fmt.Sprintf("port=%d", s.Port),
		"dbname=" + dsnValue(s.DBName),
		"user=" + dsnValue(s.Username),
	}
	switch {
	case s.Password != "":
		parts = append(parts, "password="+dsnValue(s.Password))
	case s.Passfile != "":
		parts = append(parts, "passfile="+dsnValue(s.Passfile))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes a value per libpq rules when it contains spaces or
// quotes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
