package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "uwsched/dev/env"
	"uwsched/internal/export"
)

const resultsDb = "<dev_state>/results.db"

func createDb(path, schema string) error {
	dbpath, err := devenv.ResolvePath(path)
	if err != nil {
		return err
	}

	_, err = os.Stat(dbpath)
	if err == nil {
		fmt.Println("database already created at", dbpath)
		return nil
	}

	fmt.Println("creating database at", dbpath)
	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(schema)
	return err
}

func CreateResultsDB() error {
	return createDb(resultsDb, export.Schema)
}

const localConfigTemplate = `{
    // local overrides of uwsched.json5, this file is not committed
    driver: "chrome",
    chrome: {
        // exec_path: "/usr/bin/chromium",
        headful: true,
    },
    http: {
        dump_messages: true,
    },
    database: {
        file: %q,
    },
}
`

// CreateLocalConfig writes a uwsched.local.json5 that records every session
// into the dev database, an existing file is left alone.
func CreateLocalConfig() error {
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return err
	}
	path := filepath.Join(root, "uwsched.local.json5")
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("local config already exists at", path)
		return nil
	}
	fmt.Println("writing local config to", path)
	return os.WriteFile(path, []byte(fmt.Sprintf(localConfigTemplate, resultsDb)), 0644)
}

func PrintConfigLocations() {
	slog.Info("the chrome driver tests are skipped unless UWSCHED_CHROME_TEST=1, set UWSCHED_CHROME_PATH (or put it in .env) if chrome is not on your PATH.")
	slog.Info("telemetry is off until a telemetry.json5 with otlp endpoints exists in the repository root.")
}
