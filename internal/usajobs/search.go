package usajobs

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const searchPath = "/api/Search"

type SearchParams struct {
	// usaparam is a custom tag for reflect. Please see buildParams.
	Keyword          string   `usaparam:"Keyword" mapstructure:"keyword"`
	LocationName     string   `usaparam:"LocationName" mapstructure:"location-name"`
	ResultsPerPage   string   `usaparam:"ResultsPerPage" mapstructure:"results-per-page"`
	DatePosted       uint     `usaparam:"DatePosted" mapstructure:"date-posted"`
	JobCategoryCodes []string `usaparam:"JobCategoryCode" mapstructure:"job-category-codes"`
}

func (c *Client) search(params *SearchParams) ([]*RawPosting, error) {
	// Set ResultsPerPage max as possible. It should be faster.
	if params.ResultsPerPage == "" {
		params.ResultsPerPage = perPage
	}

	q := buildParams(params)

	env, err := c.getSearch(q)
	if err != nil {
		return nil, err
	}

	items := env.SearchResult.SearchResultItems
	pages := numberOfPages(env)

	c.logger.Debug("got response from USAJOBS",
		zap.Int("found", env.SearchResult.SearchResultCount),
		zap.Int("pages", pages),
	)

	for page := 2; page <= pages; page++ {
		c.logger.Debug("additional request needed", zap.Int("page", page), zap.Int("pages", pages))

		q.Set("Page", strconv.Itoa(page))
		env, err = c.getSearch(q)
		if err != nil {
			return nil, err
		}

		items = append(items, env.SearchResult.SearchResultItems...)
	}

	return c.decodeItems(items), nil
}

// decodeItems turns the loosely typed descriptors into RawPosting records.
// Decode failures are absorbed: whatever fields did decode are kept, the
// rest stay empty for the normalizer to handle.
func (c *Client) decodeItems(items []searchItem) []*RawPosting {
	postings := make([]*RawPosting, 0, len(items))
	for _, item := range items {
		raw := &RawPosting{}
		cfg := &mapstructure.DecoderConfig{
			Metadata: nil,
			Result:   raw,
			TagName:  "json",
		}
		decoder, _ := mapstructure.NewDecoder(cfg)
		if err := decoder.Decode(item.MatchedObjectDescriptor); err != nil {
			c.logger.Debug("partially decoded posting",
				zap.String("matched_object_id", item.MatchedObjectID),
				zap.Error(err),
			)
		}
		postings = append(postings, raw)
	}
	return postings
}

func numberOfPages(env *searchEnvelope) int {
	pages, err := strconv.Atoi(strings.TrimSpace(env.SearchResult.UserArea.NumberOfPages))
	if err != nil || pages < 1 {
		return 1
	}
	return pages
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		key := field.Tag.Get("usaparam")
		if key == "" {
			continue
		}
		switch field.Type.Kind() {
		case reflect.Slice:
			s := reflect.ValueOf(params).Elem().FieldByIndex(field.Index).Interface()
			if v, ok := s.([]string); ok && len(v) > 0 {
				// The API expects a single semicolon-separated value.
				q.Set(key, strings.Join(v, ";"))
			}

		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().FieldByIndex(field.Index).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}

	return q
}
