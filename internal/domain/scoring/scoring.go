// Package scoring computes a reputation score from a profile metrics snapshot.
package scoring

import "math"

// Thresholds shared by every tier.
const (
	minTweetRetweetRatio = 0.75
	maxLikesPerTweet     = 100
)

// Metrics is the profile snapshot the calculator consumes. The tweet-to-retweet
// ratio is sampled over the most recent 1000 posts: 0 when the account has no
// original tweets, 1 when the sample contains no retweets, otherwise
// tweets/retweets.
type Metrics struct {
	AccountAgeDays    int
	Tweets            int64
	Followers         int64
	Following         int64
	Likes             int64
	Verified          bool
	VerifiedFollowers int
	TweetRetweetRatio float64
}

// FollowerRatio returns followers/following. An account following nobody
// reads as an infinite ratio (or zero when it also has no followers), which
// keeps the tier comparisons and the crowd-follower penalty well defined.
func (m Metrics) FollowerRatio() float64 {
	if m.Following == 0 {
		if m.Followers == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return float64(m.Followers) / float64(m.Following)
}

type tierRule struct {
	tier           int
	minAgeDays     int
	maxTweets      int64
	maxFollowers   int64
	minFollowRatio float64
}

// Evaluated top to bottom; the first matching rule wins. All comparisons are
// strict, so an account exactly at a boundary falls through to the next rule.
var tiers = []tierRule{
	{tier: 5, minAgeDays: 3650, maxTweets: 10000, maxFollowers: 2000, minFollowRatio: 1.2},
	{tier: 4, minAgeDays: 1825, maxTweets: 15000, maxFollowers: 2000, minFollowRatio: 1.2},
	{tier: 3, minAgeDays: 1095, maxTweets: 30000, maxFollowers: 3000, minFollowRatio: 1.0},
	{tier: 2, minAgeDays: 730, maxTweets: 7000, maxFollowers: 2000, minFollowRatio: 1.0},
	{tier: 1, minAgeDays: 365, maxTweets: 3000, maxFollowers: 2000, minFollowRatio: 1.0},
}

// Score maps a metrics snapshot to the account's integer score: a base tier
// from account age and activity, then fixed adjustments. The result is not
// clamped and may be negative.
func Score(m Metrics) int {
	score := baseTier(m)

	if m.Verified {
		score += 3
	}
	if m.Tweets > 0 && float64(m.Likes)/float64(m.Tweets) > maxLikesPerTweet {
		score -= 2
	}
	if ratio := m.FollowerRatio(); ratio > 0.5 && ratio < 1.5 {
		score -= 2
	}
	switch {
	case m.VerifiedFollowers >= 10:
		score += 3
	case m.VerifiedFollowers >= 2:
		score += 2
	case m.VerifiedFollowers == 1:
		score++
	}

	return score
}

func baseTier(m Metrics) int {
	ratio := m.FollowerRatio()
	for _, r := range tiers {
		if m.AccountAgeDays > r.minAgeDays &&
			m.Tweets < r.maxTweets &&
			m.Followers < r.maxFollowers &&
			ratio > r.minFollowRatio &&
			m.TweetRetweetRatio > minTweetRetweetRatio {
			return r.tier
		}
	}
	return 0
}
