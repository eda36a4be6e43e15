package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/Semior001/cryptonews/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/samber/lo"
)

// maxNewsResults is the maximum number of articles taken from a single NewsData response.
const maxNewsResults = 5

// NewsData is a client for the NewsData.io news search API.
type NewsData struct {
	log     *slog.Logger
	rq      *requester.Requester
	token   string
	baseURL string
}

// NewNewsData makes a new NewsData client.
func NewNewsData(lg *slog.Logger, opts ClientOpts) *NewsData {
	return &NewsData{
		log:     lg,
		rq:      newRequester(lg, opts, logx.RoundTripperOpts{SecretParams: []string{"apikey"}}),
		token:   opts.Token,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
	}
}

// Name returns the name of the provider.
func (n *NewsData) Name() string { return "NewsData.io" }

type newsDataResponse struct {
	Status  string          `json:"status"`
	Results json.RawMessage `json:"results"`
}

type newsDataError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// newsDataResult is a single search hit. Fields of unexpected types
// are decoded as empty strings.
type newsDataResult map[string]json.RawMessage

func (r newsDataResult) str(key string) string {
	var v string
	if err := json.Unmarshal(r[key], &v); err != nil {
		return ""
	}
	return v
}

// Fetch searches the news by the coin name behind the query and returns
// at most five articles in the order the provider returned them.
func (n *NewsData) Fetch(ctx context.Context, query string) ([]news.Article, error) {
	term := strings.ToLower(news.Resolve(query))

	q := url.Values{}
	q.Set("apikey", n.token)
	q.Set("q", term)
	q.Set("language", "en")

	var body newsDataResponse
	if err := getJSON(ctx, n.log, n.rq, n.baseURL+"/news?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	if body.Status == "error" {
		var e newsDataError
		if err := json.Unmarshal(body.Results, &e); err != nil {
			return nil, errors.New("newsdata: unknown error")
		}
		return nil, fmt.Errorf("newsdata: %s (%s)", e.Message, e.Code)
	}

	if len(body.Results) == 0 || string(body.Results) == "null" {
		return nil, ErrNoResults
	}

	var results []json.RawMessage
	if err := json.Unmarshal(body.Results, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	if len(results) > maxNewsResults {
		results = results[:maxNewsResults]
	}

	return lo.Map(results, func(raw json.RawMessage, _ int) news.Article {
		var r newsDataResult
		if err := json.Unmarshal(raw, &r); err != nil {
			n.log.WarnContext(ctx, "malformed newsdata result", slog.Any("err", err))
		}
		return news.Article{
			Title:  r.str("title"),
			URL:    r.str("link"),
			Source: r.str("source_id"),
			Date:   r.str("pubDate"),
		}
	}), nil
}
