package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/okian/finch/internal/domain/scoring"
	"github.com/okian/finch/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.twitter.com/1.1"
	defaultTimeout = 30 * time.Second

	// timelineSample is how many recent posts feed the tweet/retweet ratio.
	timelineSample = 1000
	followersPage  = 200

	// createdAtLayout is the v1.1 timestamp format.
	createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"
)

// Credentials carries the OAuth1 material for the v1.1 API.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Client implements Source against the v1.1 REST API, signing every request
// with OAuth1.
type Client struct {
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
}

// NewClient builds a client with signed transport and configuration options.
func NewClient(creds Credentials, opts ...ClientOption) *Client {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	c := &Client{
		httpClient: cfg.Client(oauth1.NoContext, token),
		baseURL:    defaultBaseURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = defaultTimeout
	}
	return c
}

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root, for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the signed transport, for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock overrides the time source used for account age.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

type userPayload struct {
	ID             int64  `json:"id"`
	ScreenName     string `json:"screen_name"`
	StatusesCount  int64  `json:"statuses_count"`
	FollowersCount int64  `json:"followers_count"`
	FriendsCount   int64  `json:"friends_count"`
	FavouritesCnt  int64  `json:"favourites_count"`
	Verified       bool   `json:"verified"`
	CreatedAt      string `json:"created_at"`
}

type tweetPayload struct {
	Retweeted bool `json:"retweeted"`
}

type followersPayload struct {
	Users      []userPayload `json:"users"`
	NextCursor int64         `json:"next_cursor"`
}

// Lookup resolves a handle into a profile: one users/show call for the
// counts, one timeline sample for the tweet/retweet ratio, and a paged
// followers scan for the verified-follower count.
func (c *Client) Lookup(ctx context.Context, handle string) (Profile, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	user, err := c.showUser(ctx, handle)
	if err != nil {
		return Profile{}, err
	}

	createdAt, err := time.Parse(createdAtLayout, user.CreatedAt)
	if err != nil {
		metrics.RecordFetchError("bad_payload")
		return Profile{}, fmt.Errorf("parse account created_at: %w", err)
	}

	ratio, err := c.tweetRetweetRatio(ctx, handle)
	if err != nil {
		return Profile{}, err
	}

	verifiedFollowers, err := c.verifiedFollowerCount(ctx, handle)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:     user.ID,
		Handle: user.ScreenName,
		Metrics: scoring.Metrics{
			AccountAgeDays:    int(c.now().UTC().Sub(createdAt).Hours() / 24),
			Tweets:            user.StatusesCount,
			Followers:         user.FollowersCount,
			Following:         user.FriendsCount,
			Likes:             user.FavouritesCnt,
			Verified:          user.Verified,
			VerifiedFollowers: verifiedFollowers,
			TweetRetweetRatio: ratio,
		},
	}, nil
}

func (c *Client) showUser(ctx context.Context, handle string) (userPayload, error) {
	var user userPayload
	params := url.Values{"screen_name": {handle}}
	if err := c.get(ctx, "/users/show.json", params, &user); err != nil {
		return userPayload{}, err
	}
	return user, nil
}

// tweetRetweetRatio samples the latest posts. No original tweets reads as 0,
// no retweets in the sample reads as 1.
func (c *Client) tweetRetweetRatio(ctx context.Context, handle string) (float64, error) {
	var timeline []tweetPayload
	params := url.Values{
		"screen_name": {handle},
		"count":       {strconv.Itoa(timelineSample)},
	}
	if err := c.get(ctx, "/statuses/user_timeline.json", params, &timeline); err != nil {
		return 0, err
	}

	var tweets, retweets int
	for _, t := range timeline {
		if t.Retweeted {
			retweets++
		} else {
			tweets++
		}
	}
	switch {
	case tweets == 0:
		return 0, nil
	case retweets == 0:
		return 1, nil
	default:
		return float64(tweets) / float64(retweets), nil
	}
}

func (c *Client) verifiedFollowerCount(ctx context.Context, handle string) (int, error) {
	count := 0
	cursor := int64(-1)
	for cursor != 0 {
		var page followersPayload
		params := url.Values{
			"screen_name": {handle},
			"count":       {strconv.Itoa(followersPage)},
			"cursor":      {strconv.FormatInt(cursor, 10)},
		}
		if err := c.get(ctx, "/followers/list.json", params, &page); err != nil {
			return 0, err
		}
		for _, u := range page.Users {
			if u.Verified {
				count++
			}
		}
		cursor = page.NextCursor
	}
	return count, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordFetchError("transport")
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.RecordFetchError("not_found")
		return fmt.Errorf("fetch %s: %w", path, ErrNotFound)
	case http.StatusTooManyRequests:
		metrics.RecordFetchError("rate_limited")
		return fmt.Errorf("fetch %s: %w", path, ErrRateLimited)
	default:
		metrics.RecordFetchError("upstream")
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordFetchError("bad_payload")
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
