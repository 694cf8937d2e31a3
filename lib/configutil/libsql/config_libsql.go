package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	devenv "uwsched/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct describes where a sqlite database lives, either a local file
// (which may use the <dev_state> prefix) or a remote libsql url.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url" validate:"omitempty,url"`
	AuthToken string `json:"auth_token"`
}

// Parse turns a single command line value into a Struct, values
// starting with libsql://, http:// or https:// are treated as urls.
func Parse(value string) Struct {
	for _, scheme := range []string{"libsql://", "http://", "https://"} {
		if strings.HasPrefix(value, scheme) {
			return Struct{Url: value}
		}
	}
	return Struct{File: value}
}

func (config Struct) openRemote() (*sql.DB, error) {
	dsn := config.Url
	if config.AuthToken != "" {
		parsed, err := url.Parse(config.Url)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", config.AuthToken)
		parsed.RawQuery = query.Encode()
		dsn = parsed.String()
	}
	return sql.Open("libsql", dsn)
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if config.File == ":memory:" {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		// every connection would get its own empty database otherwise
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(dbpath)
	if os.IsNotExist(statErr) {
		f, err := os.Create(dbpath)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
