// Package gallery wires validation, the photo API, normalization and the
// per-session history into the operations the gallery front end calls.
package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/SintaW245/unsplash-gallery/internal/history"
	"github.com/SintaW245/unsplash-gallery/internal/query"
	"github.com/SintaW245/unsplash-gallery/internal/suggest"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// HomePerPage is the size of the home page feed.
const HomePerPage = 20

// ErrNoDownload is returned when a photo carries no download links.
var ErrNoDownload = errors.New("gallery: photo has no download location")

// PhotoAPI is the subset of *unsplash.Client the service needs.
type PhotoAPI interface {
	SearchPhotos(ctx context.Context, params url.Values) (gjson.Result, error)
	SearchCollections(ctx context.Context, q string, page int) (gjson.Result, error)
	SearchUsers(ctx context.Context, q string, page int) (gjson.Result, error)
	NaturePhotos(ctx context.Context, page, perPage int) (gjson.Result, error)
	Photo(ctx context.Context, id string) (gjson.Result, error)
	TrackDownload(ctx context.Context, downloadLocation string) error
}

type Service struct {
	api         PhotoAPI
	validator   *query.Validator
	history     *history.Store
	suggestions *suggest.Index
	log         *logrus.Entry
}

func NewService(api PhotoAPI, validator *query.Validator, hist *history.Store, suggestions *suggest.Index) *Service {
	if validator == nil {
		validator = query.NewValidator()
	}
	if suggestions == nil {
		suggestions = suggest.Default()
	}
	return &Service{
		api:         api,
		validator:   validator,
		history:     hist,
		suggestions: suggestions,
		log:         logrus.WithField("component", "gallery"),
	}
}

type SearchPage struct {
	Query string `json:"query,omitempty"`
	unsplash.SearchResult
	Pagination Pagination `json:"pagination"`
}

type CollectionPage struct {
	Query string `json:"query"`
	unsplash.CollectionResult
	Pagination Pagination `json:"pagination"`
}

type UserPage struct {
	Query string `json:"query"`
	unsplash.UserResult
	Pagination Pagination `json:"pagination"`
}

// Search validates raw, runs the photo search and, on success, records the
// query in the session's history. Invalid queries fail with a
// *query.ValidationError before any request is made; API failures come
// back as *unsplash.APIError.
func (s *Service) Search(ctx context.Context, sessionID, raw string, opts query.SearchOptions) (*SearchPage, error) {
	q, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalized()

	payload, err := s.api.SearchPhotos(ctx, query.BuildSearchParams(q, opts))
	if err != nil {
		return nil, err
	}
	result, err := photoResult(payload, opts.PerPage)
	if err != nil {
		return nil, err
	}

	if sessionID != "" && s.history != nil {
		if err := s.history.Save(ctx, sessionID, q); err != nil {
			s.log.WithError(err).Warn("failed to save search history")
		}
	}

	return &SearchPage{
		Query:        q,
		SearchResult: *result,
		Pagination:   Paginate(opts.Page, opts.PerPage, result.TotalPages, len(result.Items)),
	}, nil
}

// Home returns a page of the nature feed.
func (s *Service) Home(ctx context.Context, page int) (*SearchPage, error) {
	page = max(page, 1)
	payload, err := s.api.NaturePhotos(ctx, page, HomePerPage)
	if err != nil {
		return nil, err
	}
	result, err := photoResult(payload, HomePerPage)
	if err != nil {
		return nil, err
	}
	return &SearchPage{
		SearchResult: *result,
		Pagination:   Paginate(page, HomePerPage, result.TotalPages, len(result.Items)),
	}, nil
}

func (s *Service) Photo(ctx context.Context, id string) (*unsplash.PhotoDetail, error) {
	payload, err := s.api.Photo(ctx, id)
	if err != nil {
		return nil, err
	}
	return unsplash.NormalizeDetail(payload)
}

// TrackDownload reports a download of the photo to the API and returns the
// URL the file can be fetched from.
func (s *Service) TrackDownload(ctx context.Context, id string) (string, error) {
	detail, err := s.Photo(ctx, id)
	if err != nil {
		return "", err
	}
	if detail.Links.DownloadLocation == "" {
		return "", ErrNoDownload
	}
	if err := s.api.TrackDownload(ctx, detail.Links.DownloadLocation); err != nil {
		return "", err
	}
	if detail.Links.Download != "" {
		return detail.Links.Download, nil
	}
	return detail.ImageURLs["full"], nil
}

func (s *Service) Collections(ctx context.Context, raw string, page int) (*CollectionPage, error) {
	q, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	page = max(page, 1)
	payload, err := s.api.SearchCollections(ctx, q, page)
	if err != nil {
		return nil, err
	}

	result, ok := unsplash.NormalizeCollections(payload)
	if !ok {
		total, pages, err := emptyResult(payload)
		if err != nil {
			return nil, err
		}
		result = &unsplash.CollectionResult{Total: total, TotalPages: pages, Items: []unsplash.CollectionSummary{}}
	}
	result.Items = limit(result.Items, unsplash.SecondarySearchPerPage)
	return &CollectionPage{
		Query:            q,
		CollectionResult: *result,
		Pagination:       Paginate(page, unsplash.SecondarySearchPerPage, result.TotalPages, len(result.Items)),
	}, nil
}

func (s *Service) Users(ctx context.Context, raw string, page int) (*UserPage, error) {
	q, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	page = max(page, 1)
	payload, err := s.api.SearchUsers(ctx, q, page)
	if err != nil {
		return nil, err
	}

	result, ok := unsplash.NormalizeUsers(payload)
	if !ok {
		total, pages, err := emptyResult(payload)
		if err != nil {
			return nil, err
		}
		result = &unsplash.UserResult{Total: total, TotalPages: pages, Items: []unsplash.UserSummary{}}
	}
	result.Items = limit(result.Items, unsplash.SecondarySearchPerPage)
	return &UserPage{
		Query:      q,
		UserResult: *result,
		Pagination: Paginate(page, unsplash.SecondarySearchPerPage, result.TotalPages, len(result.Items)),
	}, nil
}

// Suggest never touches the network.
func (s *Service) Suggest(partial string) []string {
	return s.suggestions.Suggest(partial)
}

func (s *Service) Popular() []suggest.PopularGroup {
	return suggest.Popular()
}

func (s *Service) History(ctx context.Context, sessionID string) (history.Log, error) {
	if s.history == nil || sessionID == "" {
		return history.Log{}, nil
	}
	return s.history.Load(ctx, sessionID)
}

func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	if s.history == nil || sessionID == "" {
		return nil
	}
	return s.history.Clear(ctx, sessionID)
}

// photoResult normalizes a photo search payload, keeping at most perPage
// items even when the API sends more.
func photoResult(payload gjson.Result, perPage int) (*unsplash.SearchResult, error) {
	if result, ok := unsplash.Normalize(payload); ok {
		result.Items = limit(result.Items, perPage)
		return result, nil
	}
	total, pages, err := emptyResult(payload)
	if err != nil {
		return nil, err
	}
	return &unsplash.SearchResult{Total: total, TotalPages: pages, Items: []unsplash.PhotoSummary{}}, nil
}

// emptyResult handles payloads the normalizers passed through: an error
// marker stays an error and an empty result list is a search without hits.
func emptyResult(payload gjson.Result) (total, pages int, err error) {
	if unsplash.HasErrorMarker(payload) {
		return 0, 0, &unsplash.APIError{Kind: unsplash.KindUpstream, Status: http.StatusOK, Body: payload.Raw}
	}
	if !payload.Get("results").IsArray() {
		return 0, 0, &unsplash.APIError{Kind: unsplash.KindMalformedResponse, Status: http.StatusOK, Body: payload.Raw}
	}
	return int(max(payload.Get("total").Int(), 0)), int(max(payload.Get("total_pages").Int(), 0)), nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
