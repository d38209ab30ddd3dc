// Package output renders ranking results.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/okian/hiscore/internal/domain/types"
)

// Header is the first line of every rendered ranking.
const Header = "rank,player_id,handle_name,score"

// WriteCSV writes the header followed by one line per row. Fields are
// written as is, without CSV quoting.
func WriteCSV(w io.Writer, rows []types.Entry) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%d,%s,%s,%d\n", r.Rank, r.PlayerID, r.HandleName, r.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}
