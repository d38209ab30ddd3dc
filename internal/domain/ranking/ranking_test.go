package ranking_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/okian/hiscore/internal/domain/aggregate"
	"github.com/okian/hiscore/internal/domain/model"
	"github.com/okian/hiscore/internal/domain/ranking"
	"github.com/okian/hiscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// rosterOf registers ids with a derived handle name.
func rosterOf(ids ...string) model.Roster {
	r := make(model.Roster, len(ids))
	for _, id := range ids {
		r[id] = "HANDLE_" + id
	}
	return r
}

func numberedPlayers(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("player%03d", i+1)
	}
	return ids
}

func TestEngine_Scenarios(t *testing.T) {
	Convey("Given a ranking engine with the default cutoff", t, func() {
		engine := ranking.New()
		So(engine.Cutoff(), ShouldEqual, ranking.DefaultCutoff)

		Convey("When two players have distinct scores", func() {
			rows := engine.Compute(rosterOf("A", "B"), map[string]int64{"A": 200, "B": 100})

			Convey("Then they are ranked 1 and 2", func() {
				So(rows, ShouldResemble, []types.Entry{
					{Rank: 1, PlayerID: "A", HandleName: "HANDLE_A", Score: 200},
					{Rank: 2, PlayerID: "B", HandleName: "HANDLE_B", Score: 100},
				})
			})
		})

		Convey("When two players tie at the top", func() {
			rows := engine.Compute(rosterOf("A", "B", "C"), map[string]int64{"A": 100, "B": 100, "C": 50})

			Convey("Then the tie consumes rank 2 and the next player is 3rd", func() {
				So(rows, ShouldResemble, []types.Entry{
					{Rank: 1, PlayerID: "A", HandleName: "HANDLE_A", Score: 100},
					{Rank: 1, PlayerID: "B", HandleName: "HANDLE_B", Score: 100},
					{Rank: 3, PlayerID: "C", HandleName: "HANDLE_C", Score: 50},
				})
			})
		})

		Convey("When eleven players share the same score", func() {
			ids := numberedPlayers(11)
			scores := make(map[string]int64, len(ids))
			for _, id := range ids {
				scores[id] = 100
			}
			rows := engine.Compute(rosterOf(ids...), scores)

			Convey("Then all eleven are returned at rank 1", func() {
				So(len(rows), ShouldEqual, 11)
				for i, row := range rows {
					So(row.Rank, ShouldEqual, 1)
					So(row.PlayerID, ShouldEqual, ids[i])
				}
			})
		})

		Convey("When eleven players have distinct descending scores", func() {
			ids := numberedPlayers(11)
			scores := make(map[string]int64, len(ids))
			for i, id := range ids {
				scores[id] = int64(1000 - (i+1)*10)
			}
			rows := engine.Compute(rosterOf(ids...), scores)

			Convey("Then exactly ten rows are returned", func() {
				So(len(rows), ShouldEqual, 10)
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[0].Score, ShouldEqual, int64(990))
				So(rows[9].Rank, ShouldEqual, 10)
				So(rows[9].Score, ShouldEqual, int64(900))
				for i, row := range rows {
					So(row.Rank, ShouldEqual, i+1)
				}
			})
		})

		Convey("When roster players have no scores", func() {
			rows := engine.Compute(rosterOf("A", "B"), map[string]int64{})

			Convey("Then the ranking is empty but not nil", func() {
				So(rows, ShouldNotBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When an unregistered player has the highest score", func() {
			rows := engine.Compute(rosterOf("A", "B"), map[string]int64{"A": 100, "B": 200, "X": 300})

			Convey("Then it is ignored and does not shift other ranks", func() {
				So(rows, ShouldResemble, []types.Entry{
					{Rank: 1, PlayerID: "B", HandleName: "HANDLE_B", Score: 200},
					{Rank: 2, PlayerID: "A", HandleName: "HANDLE_A", Score: 100},
				})
			})
		})

		Convey("When the roster is empty", func() {
			rows := engine.Compute(model.Roster{}, map[string]int64{"A": 1})

			Convey("Then the ranking is empty", func() {
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When the roster is nil and scores are nil", func() {
			rows := engine.Compute(nil, nil)

			Convey("Then the ranking is empty", func() {
				So(rows, ShouldNotBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestEngine_TieOrdering(t *testing.T) {
	Convey("Given tied players recorded in reverse id order", t, func() {
		agg := aggregate.New()
		agg.Record("player003", 100)
		agg.Record("player002", 100)
		agg.Record("player001", 100)

		rows := ranking.New().Compute(rosterOf("player001", "player002", "player003"), agg.Snapshot())

		Convey("Then ties are ordered by ascending player id", func() {
			So(len(rows), ShouldEqual, 3)
			So(rows[0].PlayerID, ShouldEqual, "player001")
			So(rows[1].PlayerID, ShouldEqual, "player002")
			So(rows[2].PlayerID, ShouldEqual, "player003")
			for _, row := range rows {
				So(row.Rank, ShouldEqual, 1)
			}
		})
	})

	Convey("Given ids that differ in case", t, func() {
		rows := ranking.New().Compute(rosterOf("b", "B", "a"), map[string]int64{"b": 5, "B": 5, "a": 5})

		Convey("Then byte-wise order puts upper case first", func() {
			So(rows[0].PlayerID, ShouldEqual, "B")
			So(rows[1].PlayerID, ShouldEqual, "a")
			So(rows[2].PlayerID, ShouldEqual, "b")
		})
	})
}

func TestEngine_CutoffBoundary(t *testing.T) {
	Convey("Given a default engine", t, func() {
		engine := ranking.New()

		Convey("When the 10th and 11th rows tie", func() {
			ids := numberedPlayers(12)
			scores := make(map[string]int64)
			for i := 0; i < 9; i++ {
				scores[ids[i]] = int64(1000 - i)
			}
			scores[ids[9]] = 500
			scores[ids[10]] = 500
			scores[ids[11]] = 400
			rows := engine.Compute(rosterOf(ids...), scores)

			Convey("Then the whole tie is included and nothing after it", func() {
				So(len(rows), ShouldEqual, 11)
				So(rows[9].Rank, ShouldEqual, 10)
				So(rows[10].Rank, ShouldEqual, 10)
				So(rows[10].Score, ShouldEqual, int64(500))
			})
		})

		Convey("When a tie group straddles the cutoff from row 9", func() {
			ids := numberedPlayers(15)
			scores := make(map[string]int64)
			for i := 0; i < 8; i++ {
				scores[ids[i]] = int64(1000 - i)
			}
			for i := 8; i < 14; i++ {
				scores[ids[i]] = 10
			}
			scores[ids[14]] = 1
			rows := engine.Compute(rosterOf(ids...), scores)

			Convey("Then all six tied rows are emitted at rank 9", func() {
				So(len(rows), ShouldEqual, 14)
				for _, row := range rows[8:] {
					So(row.Rank, ShouldEqual, 9)
					So(row.Score, ShouldEqual, int64(10))
				}
			})
		})

		Convey("When exactly ten rows fill the cutoff and the next group is lower", func() {
			ids := numberedPlayers(13)
			scores := make(map[string]int64)
			for i := 0; i < 10; i++ {
				scores[ids[i]] = 100
			}
			for i := 10; i < 13; i++ {
				scores[ids[i]] = 99
			}
			rows := engine.Compute(rosterOf(ids...), scores)

			Convey("Then the lower group never starts", func() {
				So(len(rows), ShouldEqual, 10)
				So(rows[9].Score, ShouldEqual, int64(100))
			})
		})

		Convey("When fewer than ten players are eligible", func() {
			rows := engine.Compute(rosterOf("A", "B", "C"), map[string]int64{"A": 1, "B": 2, "C": 3})

			Convey("Then all of them are returned", func() {
				So(len(rows), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an engine with a cutoff of 3", t, func() {
		engine := ranking.New(ranking.WithCutoff(3))
		So(engine.Cutoff(), ShouldEqual, 3)

		rows := engine.Compute(rosterOf("A", "B", "C", "D", "E"), map[string]int64{"A": 9, "B": 8, "C": 7, "D": 7, "E": 1})

		Convey("Then the cutoff applies with the same tie rule", func() {
			So(len(rows), ShouldEqual, 4)
			So(rows[2].Rank, ShouldEqual, 3)
			So(rows[3].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given a non-positive cutoff option", t, func() {
		engine := ranking.New(ranking.WithCutoff(0), ranking.WithCutoff(-4))

		Convey("Then the default is kept", func() {
			So(engine.Cutoff(), ShouldEqual, ranking.DefaultCutoff)
		})
	})
}

// reference ranks every eligible player with repeated scans and applies the
// cutoff afterwards.
func reference(roster model.Roster, scores map[string]int64, cutoff int) []types.Entry {
	all := make([]types.Entry, 0)
	for id, s := range scores {
		if name, ok := roster[id]; ok {
			all = append(all, types.Entry{PlayerID: id, HandleName: name, Score: s})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].PlayerID < all[j].PlayerID
	})
	for i := range all {
		better := 0
		for j := range all {
			if all[j].Score > all[i].Score {
				better++
			}
		}
		all[i].Rank = better + 1
	}
	out := make([]types.Entry, 0)
	for i, e := range all {
		if i >= cutoff && e.Rank != all[i-1].Rank {
			break
		}
		out = append(out, e)
	}
	return out
}

func TestEngine_MatchesReference(t *testing.T) {
	Convey("Given random rosters and score streams", t, func() {
		rng := rand.New(rand.NewSource(42))

		for round := 0; round < 200; round++ {
			players := 1 + rng.Intn(40)
			roster := make(model.Roster)
			agg := aggregate.New()
			for p := 0; p < players; p++ {
				id := fmt.Sprintf("p%02d", p)
				if rng.Intn(4) != 0 {
					roster[id] = "name-" + id
				}
				for k := rng.Intn(5); k > 0; k-- {
					agg.Record(id, rng.Int63n(8))
				}
			}
			cutoff := 1 + rng.Intn(12)

			got := ranking.New(ranking.WithCutoff(cutoff)).Compute(roster, agg.Snapshot())
			want := reference(roster, agg.Snapshot(), cutoff)

			So(got, ShouldResemble, want)

			emitted := 0
			for i, row := range got {
				if i == 0 || row.Score != got[i-1].Score {
					So(row.Rank, ShouldEqual, emitted+1)
				} else {
					So(row.Rank, ShouldEqual, got[i-1].Rank)
				}
				emitted++
			}
		}
	})
}
