package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/hiscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV(t *testing.T) {
	Convey("Given a ranking with a tie", t, func() {
		rows := []types.Entry{
			{Rank: 1, PlayerID: "player001", HandleName: "HANDLE_1", Score: 300},
			{Rank: 1, PlayerID: "player002", HandleName: "HANDLE_2", Score: 300},
			{Rank: 3, PlayerID: "player003", HandleName: "HANDLE_3", Score: 0},
		}

		Convey("When it is rendered", func() {
			var buf bytes.Buffer
			err := WriteCSV(&buf, rows)

			Convey("Then the header and every row are written in order", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual, "rank,player_id,handle_name,score\n"+
					"1,player001,HANDLE_1,300\n"+
					"1,player002,HANDLE_2,300\n"+
					"3,player003,HANDLE_3,0\n")
			})
		})
	})

	Convey("Given an empty ranking", t, func() {
		var buf bytes.Buffer
		err := WriteCSV(&buf, nil)

		Convey("Then only the header is written", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, Header+"\n")
		})
	})

	Convey("Given a writer that fails", t, func() {
		err := WriteCSV(failingWriter{}, []types.Entry{{Rank: 1, PlayerID: "p", HandleName: "n", Score: 1}})

		Convey("Then the error is returned", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
