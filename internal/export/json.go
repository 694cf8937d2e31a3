package export

import (
	"fmt"
	"os"
	"uwsched/internal/session"
)

// WriteJSON writes the result set to path with the same formatting that is
// printed at the end of a session.
func WriteJSON(path string, rs session.ResultSet) error {
	out, err := rs.IndentedJSON()
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	err = os.WriteFile(path, []byte(out+"\n"), 0644)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
