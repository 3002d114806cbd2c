package levels

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRangeLabel(t *testing.T) {
	Convey("RangeLabel", t, func() {
		So(RangeLabel(Znatok), ShouldEqual, "100")
		So(RangeLabel(Expert), ShouldEqual, "1000-1999")
		So(RangeLabel(Guru), ShouldEqual, "16000-22999")
		So(RangeLabel(IQCapitalist), ShouldEqual, "23000+")
		So(RangeLabel("Новичок"), ShouldEqual, "")

		r, ok := RangeOf(Titan)
		So(ok, ShouldBeTrue)
		So(r, ShouldResemble, Range{Min: 7000, Max: 10999})
	})
}

func TestOrdersAndColors(t *testing.T) {
	Convey("Display orders and colours", t, func() {
		So(PlayersOrder[0], ShouldEqual, IQCapitalist)
		So(Known(PlayersOrder, Znatok), ShouldBeFalse)
		So(Known(TournamentOrder, Znatok), ShouldBeTrue)
		So(Known(TournamentOrder, Korifey), ShouldBeFalse)
		So(DistributionOrder, ShouldHaveLength, 9)

		So(Color(Znatok), ShouldEqual, "#4682B4")
		So(Color("unknown"), ShouldEqual, "#3498db")
	})
}
