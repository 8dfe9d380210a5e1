package metrics

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/AngelCh415/adreport/internal/models"
)

const ActionsFilename = "actions.csv"

var actionsHeader = []string{"level", "name", "action", "change_pct", "reason"}

// WriteActionsCSV writes actions as BOM-prefixed UTF-8 CSV. Pauses leave
// change_pct blank.
func WriteActionsCSV(w io.Writer, actions []models.Action) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(actionsHeader); err != nil {
		return err
	}
	for _, a := range actions {
		change := ""
		if a.ChangePct != nil {
			change = strconv.FormatFloat(*a.ChangePct, 'f', -1, 64)
		}
		if err := cw.Write([]string{a.Level, a.Name, a.Action, change, a.Reason}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
