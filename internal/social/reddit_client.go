package social

import (
	"context"
	"cooked/internal/metrics"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const userAgent = "cooked-bot/0.1"

// Post is a social media post mentioning a professor.
type Post struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedditClient searches one subreddit for posts about professors.
// Requests are authenticated with OAuth2 client credentials; tokens are refreshed
// by the oauth2 transport.
type RedditClient struct {
	apiURL    string       // base URL of the OAuth API, e.g. https://oauth.reddit.com
	subreddit string       // subreddit searched, usually the university's
	limit     int          // maximum number of posts returned
	client    *http.Client // authenticated HTTP client
}

// Search returns up to limit posts of the subreddit that mention professor.
func (rc *RedditClient) Search(ctx context.Context, professor string) ([]Post, error) {
	started := time.Now()
	posts, err := rc.search(ctx, professor)
	metrics.ObserveExternalCall("social", started, err)
	if err != nil {
		return nil, fmt.Errorf("social search %q: %w", professor, err)
	}
	return posts, nil
}

func (rc *RedditClient) search(ctx context.Context, professor string) ([]Post, error) {
	query := url.Values{}
	query.Set("q", strconv.Quote(professor))
	query.Set("restrict_sr", "1")
	query.Set("sort", "relevance")
	query.Set("limit", strconv.Itoa(rc.limit))

	endpoint := strings.TrimSuffix(rc.apiURL, "/") + "/r/" + url.PathEscape(rc.subreddit) + "/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("social response error code=%d status=%s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parsePosts(body, rc.limit), nil
}

func parsePosts(body []byte, limit int) []Post {
	children := gjson.GetBytes(body, "data.children.#.data").Array()
	posts := make([]Post, 0, len(children))
	for _, child := range children {
		if limit > 0 && len(posts) == limit {
			break
		}
		permalink := child.Get("permalink").String()
		if permalink != "" && !strings.HasPrefix(permalink, "http") {
			permalink = "https://www.reddit.com" + permalink
		}
		posts = append(posts, Post{
			Title:     child.Get("title").String(),
			URL:       permalink,
			Score:     int(child.Get("score").Int()),
			CreatedAt: time.Unix(child.Get("created_utc").Int(), 0).UTC(),
		})
	}
	return posts
}

// NewRedditClient creates a client authenticated with the given app credentials.
// Parameters:
//   - clientID, clientSecret: application credentials
//   - tokenURL: OAuth2 token endpoint
//   - apiURL: base URL of the OAuth API
//   - subreddit: subreddit to search
//   - limit: maximum number of posts per search
//   - timeout: timeout for a single HTTP request, token requests included
func NewRedditClient(clientID, clientSecret, tokenURL, apiURL, subreddit string, limit int, timeout time.Duration) *RedditClient {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := config.Client(ctx)
	client.Timeout = timeout

	return &RedditClient{
		apiURL:    apiURL,
		subreddit: subreddit,
		limit:     limit,
		client:    client,
	}
}
