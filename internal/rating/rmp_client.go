package rating

import (
	"bytes"
	"context"
	"cooked/internal/metrics"
	"cooked/internal/schedule"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const teacherSearchQuery = `query TeacherSearch($text: String!, $schoolID: ID) {
  newSearch {
    teachers(query: {text: $text, schoolID: $schoolID}) {
      edges {
        node {
          firstName
          lastName
          department
          avgRating
          avgDifficulty
          wouldTakeAgainPercent
          numRatings
        }
      }
    }
  }
}`

// teacher — one search hit from the ratings site.
type teacher struct {
	firstName string
	lastName  string
	rating    schedule.ProfessorRating
}

func (t teacher) fullName() string {
	return normalizeName(t.firstName + " " + t.lastName)
}

// RMPClient looks professors up through the ratings site's GraphQL search.
// One HTTP request is made per lookup, with no retry.
type RMPClient struct {
	url           string       // GraphQL endpoint
	schoolID      string       // school scope of the search
	authorization string       // value of the Authorization header
	client        *http.Client // HTTP client with request timeout
}

// LookupRating searches the school's teachers by name and returns the best match.
// Exact full-name matches win, then last-name matches, then the first hit.
// Returns nil when the search has no hits.
func (c *RMPClient) LookupRating(ctx context.Context, professor string) (*schedule.ProfessorRating, error) {
	started := time.Now()
	teachers, err := c.search(ctx, professor)
	metrics.ObserveExternalCall("ratings", started, err)
	if err != nil {
		return nil, fmt.Errorf("rating lookup %q: %w", professor, err)
	}

	best, found := bestMatch(professor, teachers)
	if !found {
		slog.Debug("[Ratings] professor not found", "professor", professor)
		return nil, nil
	}

	rating := best.rating
	return &rating, nil
}

func (c *RMPClient) search(ctx context.Context, professor string) ([]teacher, error) {
	requestBody, err := json.Marshal(map[string]any{
		"query": teacherSearchQuery,
		"variables": map[string]any{
			"text":     professor,
			"schoolID": c.schoolID,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ratings response error code=%d status=%s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseTeachers(body)
}

func parseTeachers(body []byte) ([]teacher, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("ratings response is not valid JSON")
	}

	if message := gjson.GetBytes(body, "errors.0.message"); message.Exists() {
		return nil, fmt.Errorf("ratings query error: %s", message.String())
	}

	nodes := gjson.GetBytes(body, "data.newSearch.teachers.edges.#.node").Array()
	teachers := make([]teacher, 0, len(nodes))
	for _, node := range nodes {
		teachers = append(teachers, teacher{
			firstName: node.Get("firstName").String(),
			lastName:  node.Get("lastName").String(),
			rating: schedule.ProfessorRating{
				Quality:        node.Get("avgRating").Float(),
				Difficulty:     node.Get("avgDifficulty").Float(),
				WouldTakeAgain: clampPercent(node.Get("wouldTakeAgainPercent").Float()),
				NumRatings:     int(node.Get("numRatings").Int()),
			},
		})
	}
	return teachers, nil
}

func bestMatch(professor string, teachers []teacher) (teacher, bool) {
	if len(teachers) == 0 {
		return teacher{}, false
	}

	wanted := normalizeName(professor)
	for _, t := range teachers {
		if t.fullName() == wanted {
			return t, true
		}
	}

	if fields := strings.Fields(wanted); len(fields) > 0 {
		lastName := fields[len(fields)-1]
		for _, t := range teachers {
			if normalizeName(t.lastName) == lastName {
				return t, true
			}
		}
	}

	return teachers[0], true
}

// normalizeName lower-cases a name, drops accents and punctuation and collapses spaces,
// so "José  Núñez" and "jose nunez" compare equal.
func normalizeName(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}
	name = strings.NewReplacer(".", " ", ",", " ").Replace(strings.ToLower(name))
	return strings.Join(strings.Fields(name), " ")
}

// clampPercent keeps would-take-again in 0..100; the site reports -1 when unknown.
func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// NewRMPClient creates a ratings client.
// Parameters:
//   - url: GraphQL endpoint of the ratings site
//   - schoolID: opaque school identifier used to scope searches
//   - authorization: Authorization header value, may be empty
//   - timeout: timeout for a single HTTP request
func NewRMPClient(url, schoolID, authorization string, timeout time.Duration) *RMPClient {
	return &RMPClient{
		url:           url,
		schoolID:      schoolID,
		authorization: authorization,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}
