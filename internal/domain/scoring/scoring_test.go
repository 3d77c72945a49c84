package scoring_test

import (
	"testing"

	"github.com/okian/finch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// aged ten-year account that qualifies for tier 5 before adjustments.
func tierFiveMetrics() scoring.Metrics {
	return scoring.Metrics{
		AccountAgeDays:    4000,
		Tweets:            500,
		Followers:         100,
		Following:         50,
		Likes:             200,
		TweetRetweetRatio: 0.9,
	}
}

func TestScore(t *testing.T) {
	Convey("Given an account qualifying for tier 5", t, func() {
		m := tierFiveMetrics()

		Convey("The unadjusted score is 5", func() {
			So(scoring.Score(m), ShouldEqual, 5)
		})

		Convey("Verification and a large verified audience add 3 each", func() {
			m.Verified = true
			m.VerifiedFollowers = 15
			So(scoring.Score(m), ShouldEqual, 11)
		})

		Convey("Age exactly at the tier 5 boundary drops to tier 4", func() {
			m.AccountAgeDays = 3650
			So(scoring.Score(m), ShouldEqual, 4)
		})

		Convey("A tweet-to-retweet ratio at the boundary disqualifies every tier", func() {
			m.TweetRetweetRatio = 0.75
			So(scoring.Score(m), ShouldEqual, 0)
		})

		Convey("A follower ratio at the tier 5 boundary falls through to tier 3 and picks up the crowd penalty", func() {
			m.Followers = 120
			m.Following = 100
			So(scoring.Score(m), ShouldEqual, 1)
		})

		Convey("Following nobody reads as an infinite ratio and still qualifies", func() {
			m.Following = 0
			So(scoring.Score(m), ShouldEqual, 5)
		})
	})

	Convey("Given the remaining tier boundaries", t, func() {
		m := tierFiveMetrics()

		Convey("A five-year account with moderate tweets lands in tier 4", func() {
			m.AccountAgeDays = 1900
			m.Tweets = 12000
			So(scoring.Score(m), ShouldEqual, 4)
		})

		Convey("A three-year account under the looser limits lands in tier 3", func() {
			m.AccountAgeDays = 1100
			m.Tweets = 20000
			m.Followers = 2500
			m.Following = 1000
			m.Likes = 0
			So(scoring.Score(m), ShouldEqual, 3)
		})

		Convey("A two-year account lands in tier 2", func() {
			m.AccountAgeDays = 800
			m.Tweets = 5000
			So(scoring.Score(m), ShouldEqual, 2)
		})

		Convey("A one-year account lands in tier 1", func() {
			m.AccountAgeDays = 400
			m.Tweets = 1000
			So(scoring.Score(m), ShouldEqual, 1)
		})

		Convey("A brand new account lands in tier 0", func() {
			m.AccountAgeDays = 100
			So(scoring.Score(m), ShouldEqual, 0)
		})
	})

	Convey("Given the adjustment rules", t, func() {
		Convey("Heavy likers with a crowd-shaped follower ratio can go negative", func() {
			m := scoring.Metrics{
				AccountAgeDays:    100,
				Tweets:            10,
				Followers:         100,
				Following:         100,
				Likes:             5000,
				TweetRetweetRatio: 0.1,
			}
			So(scoring.Score(m), ShouldEqual, -4)
		})

		Convey("A follower ratio inside the crowd band costs 2", func() {
			m := tierFiveMetrics()
			m.Followers = 130
			m.Following = 100
			So(scoring.Score(m), ShouldEqual, 3)
		})

		Convey("Ratios exactly on the crowd band edges are spared", func() {
			m := tierFiveMetrics()
			m.Followers = 150
			m.Following = 100
			So(scoring.Score(m), ShouldEqual, 5)

			m.Followers = 50
			So(scoring.Score(m), ShouldEqual, 0)
		})

		Convey("Zero tweets never triggers the likes penalty", func() {
			m := scoring.Metrics{Likes: 1000000}
			So(scoring.Score(m), ShouldEqual, 0)
		})

		Convey("Verified follower buckets award 0, 1, 2 and 3", func() {
			base := tierFiveMetrics()
			cases := map[int]int{0: 5, 1: 6, 2: 7, 9: 7, 10: 8, 50: 8}
			for vf, want := range cases {
				m := base
				m.VerifiedFollowers = vf
				So(scoring.Score(m), ShouldEqual, want)
			}
		})
	})
}

func TestFollowerRatio(t *testing.T) {
	Convey("Given the follower ratio helper", t, func() {
		Convey("A normal account divides followers by following", func() {
			m := scoring.Metrics{Followers: 100, Following: 50}
			So(m.FollowerRatio(), ShouldEqual, 2.0)
		})

		Convey("No followers and no following reads as zero", func() {
			So(scoring.Metrics{}.FollowerRatio(), ShouldEqual, 0)
		})
	})
}
