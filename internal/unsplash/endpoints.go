package unsplash

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	PathSearchPhotos      = "/search/photos"
	PathSearchCollections = "/search/collections"
	PathSearchUsers       = "/search/users"
	PathPhotos            = "/photos"

	// SecondarySearchPerPage is the page size for collection and user search.
	SecondarySearchPerPage = 10
)

// SearchPhotos expects params built by query.BuildSearchParams.
func (c *Client) SearchPhotos(ctx context.Context, params url.Values) (gjson.Result, error) {
	return c.Request(ctx, PathSearchPhotos, params)
}

func (c *Client) SearchCollections(ctx context.Context, q string, page int) (gjson.Result, error) {
	return c.Request(ctx, PathSearchCollections, secondaryParams(q, page))
}

func (c *Client) SearchUsers(ctx context.Context, q string, page int) (gjson.Result, error) {
	return c.Request(ctx, PathSearchUsers, secondaryParams(q, page))
}

// NaturePhotos is the landscape-oriented nature feed shown on the home page.
func (c *Client) NaturePhotos(ctx context.Context, page, perPage int) (gjson.Result, error) {
	v := url.Values{}
	v.Set("query", "nature")
	v.Set("page", strconv.Itoa(max(page, 1)))
	v.Set("per_page", strconv.Itoa(max(perPage, 1)))
	v.Set("orientation", "landscape")
	return c.Request(ctx, PathSearchPhotos, v)
}

func (c *Client) Photo(ctx context.Context, id string) (gjson.Result, error) {
	if id == "" {
		return gjson.Result{}, ErrMissingPhotoID
	}
	return c.Request(ctx, PathPhotos+"/"+url.PathEscape(id), nil)
}

// TrackDownload pings the download_location URL of a photo, as the API
// guidelines require whenever a photo is downloaded.
// The credential is only ever sent to the API's own host.
func (c *Client) TrackDownload(ctx context.Context, downloadLocation string) error {
	loc, err := url.Parse(downloadLocation)
	if err != nil || !loc.IsAbs() {
		return fmt.Errorf("%w: %q", ErrInvalidDownloadLocation, downloadLocation)
	}
	if base, err := url.Parse(c.baseURL); err == nil && !strings.EqualFold(base.Host, loc.Host) {
		return fmt.Errorf("%w: host %s", ErrInvalidDownloadLocation, loc.Host)
	}
	_, err = c.Request(ctx, downloadLocation, nil)
	return err
}

func secondaryParams(q string, page int) url.Values {
	v := url.Values{}
	v.Set("query", q)
	v.Set("page", strconv.Itoa(max(page, 1)))
	v.Set("per_page", strconv.Itoa(SecondarySearchPerPage))
	return v
}
