package input

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/hiscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/encoding/japanese"
)

func collect(ctx context.Context, data string, opts ...Option) ([]model.Observation, error) {
	var out []model.Observation
	err := ReadScores(ctx, strings.NewReader(data), func(obs model.Observation) error {
		out = append(out, obs)
		return nil
	}, opts...)
	return out, err
}

func lineOf(err error) int {
	var re *RowError
	if errors.As(err, &re) {
		return re.Line
	}
	return 0
}

func TestReadEntries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid entry file", t, func() {
		data := "player_id,handle_name\nplayer001,HANDLE_1\n\nplayer002,HANDLE_2\n"

		Convey("When it is read", func() {
			roster, err := ReadEntries(ctx, strings.NewReader(data))

			Convey("Then every player is registered and blank lines are skipped", func() {
				So(err, ShouldBeNil)
				So(roster, ShouldResemble, model.Roster{"player001": "HANDLE_1", "player002": "HANDLE_2"})
			})
		})
	})

	Convey("Given a player registered twice", t, func() {
		data := "player_id,handle_name\np1,first\np1,second\n"
		roster, err := ReadEntries(ctx, strings.NewReader(data))

		Convey("Then the last handle name wins", func() {
			So(err, ShouldBeNil)
			So(roster.Len(), ShouldEqual, 1)
			name, _ := roster.Name("p1")
			So(name, ShouldEqual, "second")
		})
	})

	Convey("Given a header-only entry file", t, func() {
		roster, err := ReadEntries(ctx, strings.NewReader("player_id,handle_name\n"))

		Convey("Then the roster is empty", func() {
			So(err, ShouldBeNil)
			So(roster.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given an entry file with a UTF-8 byte order mark", t, func() {
		data := "\xef\xbb\xbfplayer_id,handle_name\np1,name\n"
		roster, err := ReadEntries(ctx, strings.NewReader(data))

		Convey("Then the header still matches", func() {
			So(err, ShouldBeNil)
			So(roster.Has("p1"), ShouldBeTrue)
		})
	})

	Convey("Given quoted fields containing commas", t, func() {
		data := "player_id,handle_name\np1,\"Doe, Jane\"\n"
		roster, err := ReadEntries(ctx, strings.NewReader(data))

		Convey("Then the handle name keeps the comma", func() {
			So(err, ShouldBeNil)
			So(roster["p1"], ShouldEqual, "Doe, Jane")
		})
	})

	Convey("Given malformed entry files", t, func() {
		cases := []struct {
			name string
			data string
			want error
			line int
		}{
			{"empty", "", ErrEmptyFile, 0},
			{"wrong header", "id,name\np1,x\n", ErrInvalidHeader, 1},
			{"header with extra column", "player_id,handle_name,x\n", ErrInvalidHeader, 1},
			{"missing column", "player_id,handle_name\np1\n", ErrColumnCount, 2},
			{"extra column", "player_id,handle_name\np1,x\np2,y,z\n", ErrColumnCount, 3},
			{"empty id", "player_id,handle_name\n,x\n", ErrEmptyPlayerID, 2},
		}
		for _, tc := range cases {
			Convey("When the file is "+tc.name, func() {
				_, err := ReadEntries(ctx, strings.NewReader(tc.data))

				Convey("Then a format error is returned", func() {
					So(errors.Is(err, tc.want), ShouldBeTrue)
					So(errors.Is(err, ErrInvalidFormat), ShouldBeTrue)
					So(lineOf(err), ShouldEqual, tc.line)
				})
			})
		}
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ReadEntries(cctx, strings.NewReader("player_id,handle_name\np1,x\n"))

		Convey("Then the context error is returned", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestReadScores(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid score file", t, func() {
		data := "create_timestamp,player_id,score\n" +
			"2021-01-01 12:00:00,p1,100\n" +
			"\n" +
			"2021-01-02 00:00:00,p2,0\n"

		Convey("When it is streamed", func() {
			got, err := collect(ctx, data)

			Convey("Then each row is delivered in order", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].PlayerID, ShouldEqual, "p1")
				So(got[0].Score, ShouldEqual, int64(100))
				So(got[0].CreatedAt.Equal(time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(got[1].PlayerID, ShouldEqual, "p2")
				So(got[1].Score, ShouldEqual, int64(0))
			})
		})
	})

	Convey("Given a header-only score file", t, func() {
		got, err := collect(ctx, "create_timestamp,player_id,score\n")

		Convey("Then no rows are delivered", func() {
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given malformed score files", t, func() {
		const header = "create_timestamp,player_id,score\n"
		cases := []struct {
			name string
			data string
			want error
			line int
		}{
			{"empty", "", ErrEmptyFile, 0},
			{"wrong header", "timestamp,player_id,score\n", ErrInvalidHeader, 1},
			{"reordered header", "player_id,create_timestamp,score\n", ErrInvalidHeader, 1},
			{"missing column", header + "2021-01-01 00:00:00,p1\n", ErrColumnCount, 2},
			{"slash date", header + "2021/01/01 00:00:00,p1,1\n", ErrInvalidTimestamp, 2},
			{"impossible date", header + "2021-02-30 00:00:00,p1,1\n", ErrInvalidTimestamp, 2},
			{"missing seconds", header + "2021-01-01 00:00,p1,1\n", ErrInvalidTimestamp, 2},
			{"empty id", header + "2021-01-01 00:00:00,,1\n", ErrEmptyPlayerID, 2},
			{"word score", header + "2021-01-01 00:00:00,p1,abc\n", ErrNonNumericScore, 2},
			{"decimal score", header + "2021-01-01 00:00:00,p1,1.5\n", ErrNonNumericScore, 2},
			{"empty score", header + "2021-01-01 00:00:00,p1,\n", ErrNonNumericScore, 2},
			{"negative score", header + "2021-01-01 00:00:00,p1,-1\n", ErrNegativeScore, 2},
			{"late bad row", header + "2021-01-01 00:00:00,p1,1\n\n2021-01-01 00:00:00,p1,x\n", ErrNonNumericScore, 4},
		}
		for _, tc := range cases {
			Convey("When the file has "+tc.name, func() {
				_, err := collect(ctx, tc.data)

				Convey("Then the matching format error is returned", func() {
					So(errors.Is(err, tc.want), ShouldBeTrue)
					So(errors.Is(err, ErrInvalidFormat), ShouldBeTrue)
					So(lineOf(err), ShouldEqual, tc.line)
				})
			})
		}
	})

	Convey("Given a callback that fails", t, func() {
		boom := errors.New("boom")
		data := "create_timestamp,player_id,score\n2021-01-01 00:00:00,p1,1\n2021-01-01 00:00:00,p2,2\n"
		calls := 0
		err := ReadScores(ctx, strings.NewReader(data), func(model.Observation) error {
			calls++
			return boom
		})

		Convey("Then reading stops with the callback error", func() {
			So(errors.Is(err, boom), ShouldBeTrue)
			So(calls, ShouldEqual, 1)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := collect(cctx, "create_timestamp,player_id,score\n2021-01-01 00:00:00,p1,1\n")

		Convey("Then the context error is returned", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestEncodings(t *testing.T) {
	ctx := context.Background()

	Convey("Given a Shift_JIS encoded entry file", t, func() {
		raw, err := japanese.ShiftJIS.NewEncoder().String("player_id,handle_name\np1,テスト\n")
		So(err, ShouldBeNil)

		Convey("When it is read with the shift_jis encoding", func() {
			roster, err := ReadEntries(ctx, strings.NewReader(raw), WithEncoding("shift_jis"))

			Convey("Then handle names are decoded to UTF-8", func() {
				So(err, ShouldBeNil)
				So(roster["p1"], ShouldEqual, "テスト")
			})
		})
	})

	Convey("Given an unknown encoding label", t, func() {
		_, err := ReadEntries(ctx, strings.NewReader("player_id,handle_name\n"), WithEncoding("klingon"))

		Convey("Then ErrUnknownEncoding is returned and it is not a format error", func() {
			So(errors.Is(err, ErrUnknownEncoding), ShouldBeTrue)
			So(errors.Is(err, ErrInvalidFormat), ShouldBeFalse)
			So(Reason(err), ShouldEqual, "unknown_encoding")
		})
	})

	Convey("Given an empty encoding option", t, func() {
		s := newSettings([]Option{WithEncoding("")})

		Convey("Then the default is kept", func() {
			So(s.encoding, ShouldEqual, DefaultEncoding)
		})
	})
}

func TestReason(t *testing.T) {
	Convey("Reason labels wrapped format errors", t, func() {
		So(Reason(&RowError{Line: 2, Err: ErrNegativeScore}), ShouldEqual, "negative_score")
		So(Reason(ErrEmptyFile), ShouldEqual, "empty_file")
		So(Reason(&RowError{Line: 3, Err: ErrMalformedCSV}), ShouldEqual, "malformed_csv")
		So(Reason(errors.New("x")), ShouldEqual, "other")
	})
}

func TestParseScore_Range(t *testing.T) {
	Convey("Given a score wider than int64", t, func() {
		ctx := context.Background()
		_, err := collect(ctx, "create_timestamp,player_id,score\n2021-01-01 00:00:00,p1,99999999999999999999\n")

		Convey("Then it is rejected as out of range, not as non-numeric", func() {
			So(errors.Is(err, ErrScoreOutOfRange), ShouldBeTrue)
			So(errors.Is(err, ErrNonNumericScore), ShouldBeFalse)
			So(errors.Is(err, ErrInvalidFormat), ShouldBeTrue)
			So(lineOf(err), ShouldEqual, 2)
			So(err.Error(), ShouldEqual, "line 2: score is out of range")
			So(Reason(err), ShouldEqual, "score_out_of_range")
		})
	})

	Convey("Given the int64 bounds", t, func() {
		n, err := ParseScore("9223372036854775807")
		So(err, ShouldBeNil)
		So(n, ShouldEqual, int64(9223372036854775807))

		_, err = ParseScore("-99999999999999999999")
		So(errors.Is(err, ErrScoreOutOfRange), ShouldBeTrue)

		_, err = ParseScore("12a")
		So(errors.Is(err, ErrNonNumericScore), ShouldBeTrue)
	})
}

func TestFileHelpers(t *testing.T) {
	ctx := context.Background()

	Convey("Given files on disk", t, func() {
		dir := t.TempDir()
		entry := filepath.Join(dir, "entry.csv")
		score := filepath.Join(dir, "score.csv")
		So(os.WriteFile(entry, []byte("player_id,handle_name\np1,one\n"), 0o600), ShouldBeNil)
		So(os.WriteFile(score, []byte("create_timestamp,player_id,score\n2021-01-01 00:00:00,p1,5\n"), 0o600), ShouldBeNil)

		Convey("Then both helpers read them", func() {
			roster, err := ReadEntriesFile(ctx, entry)
			So(err, ShouldBeNil)
			So(roster.Has("p1"), ShouldBeTrue)

			n := 0
			err = ReadScoresFile(ctx, score, func(model.Observation) error { n++; return nil })
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("Then a missing file reports a not-exist error naming the path", func() {
			missing := filepath.Join(dir, "nope.csv")
			_, err := ReadEntriesFile(ctx, missing)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "open "+missing+": no such file or directory")
			err = ReadScoresFile(ctx, filepath.Join(dir, "nope.csv"), func(model.Observation) error { return nil })
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}
