package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"uwsched/internal/export"
	"uwsched/internal/session"
	configlibsql "uwsched/lib/configutil/libsql"
	"uwsched/lib/timezone"
	"uwsched/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var sessionFlags struct {
	echoRaw   bool
	jsonPath  string
	icsPath   string
	termStart string
	db        string
}

func bindSessionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&sessionFlags.echoRaw, "echo-raw", false, "Print the raw text of every results page.")
	cmd.Flags().StringVar(&sessionFlags.jsonPath, "json", "", "Write the total results to a json file.")
	cmd.Flags().StringVar(&sessionFlags.icsPath, "ics", "", "Write the total results to an iCalendar file.")
	cmd.Flags().StringVar(&sessionFlags.termStart, "term-start", "", "The first day of classes for --ics, as YYYY-MM-DD (default from config or today).")
	cmd.Flags().StringVar(&sessionFlags.db, "db", "", "A sqlite file or libsql url to record every query of the session in.")
}

var sessionCmd = &cobra.Command{
	Use:   "session [--json <path>] [--ics <path>] [--db <path or url>]",
	Short: "Interactively look up courses and print everything that was found at the end.",
	RunE:  runSession,
}

func init() {
	bindSessionFlags(sessionCmd)
	rootCmd.AddCommand(sessionCmd)
}

// openStore opens the database given by the --db flag, or the one from the
// config when the flag is empty.
func openStore(cmd *cobra.Command, dbFlag string) (export.Store, bool) {
	dbConfig := cfg.Database
	if dbFlag != "" {
		dbConfig = configlibsql.Parse(dbFlag)
	}
	if dbConfig.File == "" && dbConfig.Url == "" {
		return export.Store{}, false
	}

	db, err := dbConfig.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	store, err := export.OpenStore(cmd.Context(), db)
	if err != nil {
		serviceutil.Fatal("failed to initialize db", err)
	}
	return store, true
}

func runSession(cmd *cobra.Command, args []string) error {
	termStartValue := sessionFlags.termStart
	if termStartValue == "" {
		termStartValue = cfg.TermStart
	}
	termStart, err := parseTermStart(termStartValue)
	if err != nil {
		return err
	}

	store, hasStore := openStore(cmd, sessionFlags.db)
	if hasStore {
		defer store.Close()
	}

	tel := newTelemetryAPI()
	fetcher, err := newFetcher(tel)
	if err != nil {
		serviceutil.Fatal("failed to create fetcher", err)
	}

	startedAt := timezone.Now()
	s := session.New(
		fetcher,
		session.NewLinePrompter(os.Stdin, os.Stdout),
		os.Stdout,
		tel,
		session.Options{EchoRaw: sessionFlags.echoRaw},
	)
	err = s.Run(cmd.Context())
	if err != nil {
		return err
	}

	// the session context may already be cancelled by Ctrl+C, exporting
	// should still happen
	ctx := context.WithoutCancel(cmd.Context())

	if sessionFlags.jsonPath != "" {
		err = export.WriteJSON(sessionFlags.jsonPath, s.Results())
		if err != nil {
			return err
		}
		slog.Info("wrote results", "path", sessionFlags.jsonPath)
	}

	if sessionFlags.icsPath != "" {
		f, err := os.Create(sessionFlags.icsPath)
		if err != nil {
			return fmt.Errorf("create ics file: %w", err)
		}
		defer f.Close()
		count, err := export.WriteICS(f, s.Results(), termStart, tel)
		if err != nil {
			return fmt.Errorf("write ics file: %w", err)
		}
		slog.Info("wrote calendar", "path", sessionFlags.icsPath, "events", count)
	}

	if hasStore && len(s.Outcomes()) > 0 {
		id, err := store.SaveSession(ctx, startedAt, s.Outcomes())
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		slog.Info("recorded session", "id", id, "queries", len(s.Outcomes()))
	}

	return nil
}
