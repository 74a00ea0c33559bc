package wrds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewSettings("analyst")
	require.Equal(t, "wrds", s.DBName)
	require.Equal(t, "wrds-pgdata.wharton.upenn.edu", s.Host)
	require.Equal(t, 9737, s.Port)
}

func TestDSN_UsernameOnly(t *testing.T) {
	dsn := Settings{Username: "analyst"}.DSN()
	require.Equal(t,
		"host=wrds-pgdata.wharton.upenn.edu port=9737 dbname=wrds user=analyst",
		dsn)
	require.NotContains(t, dsn, "password=")
	require.NotContains(t, dsn, "passfile=")
}

func TestDSN_PasswordWinsOverPassfile(t *testing.T) {
	s := Settings{
		Username: "analyst",
		Password: "hunter2",
		Passfile: "/home/analyst/.pgpass",
	}
	dsn := s.DSN()
	require.Contains(t, dsn, "password=hunter2")
	require.NotContains(t, dsn, "passfile=")
}

func TestDSN_Passfile(t *testing.T) {
	s := Settings{Username: "analyst", Passfile: "/home/analyst/.pgpass"}
	require.Contains(t, s.DSN(), "passfile=/home/analyst/.pgpass")
}

func TestDSN_QuotesAwkwardValues(t *testing.T) {
	s := Settings{Username: "analyst", Password: "pa ss'word"}
	require.Contains(t, s.DSN(), `password='pa ss\'word'`)
}

func TestDSN_OverridesKept(t *testing.T) {
	s := Settings{Username: "analyst", Host: "localhost", Port: 5432, DBName: "scratch"}
	require.Equal(t, "host=localhost port=5432 dbname=scratch user=analyst", s.DSN())
}
