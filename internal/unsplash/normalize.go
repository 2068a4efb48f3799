package unsplash

import (
	"net/http"

	"github.com/tidwall/gjson"
)

const untitled = "Untitled"

// Normalize projects a raw search payload into a SearchResult. It reports
// false, leaving the payload for the caller, when raw carries an error
// marker or has no results; an error is never turned into an empty success.
func Normalize(raw gjson.Result) (*SearchResult, bool) {
	results, ok := resultList(raw)
	if !ok {
		return nil, false
	}
	out := &SearchResult{
		Total:      nonNegative(raw.Get("total")),
		TotalPages: nonNegative(raw.Get("total_pages")),
		Items:      make([]PhotoSummary, 0, len(results)),
	}
	for _, p := range results {
		out.Items = append(out.Items, summarize(p))
	}
	return out, true
}

// NormalizeCollections is Normalize for /search/collections.
func NormalizeCollections(raw gjson.Result) (*CollectionResult, bool) {
	results, ok := resultList(raw)
	if !ok {
		return nil, false
	}
	out := &CollectionResult{
		Total:      nonNegative(raw.Get("total")),
		TotalPages: nonNegative(raw.Get("total_pages")),
		Items:      make([]CollectionSummary, 0, len(results)),
	}
	for _, c := range results {
		out.Items = append(out.Items, CollectionSummary{
			ID:          c.Get("id").String(),
			Title:       c.Get("title").String(),
			Description: c.Get("description").String(),
			TotalPhotos: nonNegative(c.Get("total_photos")),
			CoverURL:    c.Get("cover_photo.urls.small").String(),
			Author:      author(c.Get("user"), "small"),
		})
	}
	return out, true
}

// NormalizeUsers is Normalize for /search/users.
func NormalizeUsers(raw gjson.Result) (*UserResult, bool) {
	results, ok := resultList(raw)
	if !ok {
		return nil, false
	}
	out := &UserResult{
		Total:      nonNegative(raw.Get("total")),
		TotalPages: nonNegative(raw.Get("total_pages")),
		Items:      make([]UserSummary, 0, len(results)),
	}
	for _, u := range results {
		out.Items = append(out.Items, UserSummary{
			ID:          u.Get("id").String(),
			Username:    u.Get("username").String(),
			Name:        u.Get("name").String(),
			AvatarURL:   u.Get("profile_image.medium").String(),
			TotalPhotos: nonNegative(u.Get("total_photos")),
		})
	}
	return out, true
}

// NormalizeDetail projects a /photos/{id} payload.
func NormalizeDetail(raw gjson.Result) (*PhotoDetail, error) {
	if HasErrorMarker(raw) {
		return nil, &APIError{Kind: KindUpstream, Status: http.StatusOK, Body: raw.Raw}
	}
	if !raw.IsObject() || optString(raw.Get("id")) == nil {
		return nil, &APIError{Kind: KindMalformedResponse, Status: http.StatusOK, Body: raw.Raw}
	}

	d := &PhotoDetail{
		PhotoSummary:   summarize(raw),
		AltDescription: raw.Get("alt_description").String(),
		Width:          nonNegative(raw.Get("width")),
		Height:         nonNegative(raw.Get("height")),
		Exif: Exif{
			Make:         optString(raw.Get("exif.make")),
			Model:        optString(raw.Get("exif.model")),
			FocalLength:  optString(raw.Get("exif.focal_length")),
			Aperture:     optString(raw.Get("exif.aperture")),
			ExposureTime: optString(raw.Get("exif.exposure_time")),
			ISO:          optInt(raw.Get("exif.iso")),
		},
		Links: Links{
			HTML:             raw.Get("links.html").String(),
			Download:         raw.Get("links.download").String(),
			DownloadLocation: raw.Get("links.download_location").String(),
		},
	}
	// The detail view shows a larger avatar when the API provides one.
	if medium := raw.Get("user.profile_image.medium").String(); medium != "" {
		d.Author.AvatarURL = medium
	}
	return d, nil
}

// HasErrorMarker reports whether a payload describes a failure rather than data.
func HasErrorMarker(raw gjson.Result) bool {
	return raw.IsObject() && (raw.Get("error").Exists() || raw.Get("errors").Exists())
}

func resultList(raw gjson.Result) ([]gjson.Result, bool) {
	if HasErrorMarker(raw) {
		return nil, false
	}
	results := raw.Get("results")
	if !results.IsArray() {
		return nil, false
	}
	list := results.Array()
	if len(list) == 0 {
		return nil, false
	}
	return list, true
}

func summarize(p gjson.Result) PhotoSummary {
	description := untitled
	if s := optNullable(p.Get("description")); s != nil {
		description = *s
	} else if s := optNullable(p.Get("alt_description")); s != nil {
		description = *s
	}

	urls := make(map[string]string)
	p.Get("urls").ForEach(func(size, u gjson.Result) bool {
		urls[size.String()] = u.String()
		return true
	})

	return PhotoSummary{
		ID:          p.Get("id").String(),
		Description: description,
		ImageURLs:   urls,
		Author:      author(p.Get("user"), "small"),
		Likes:       nonNegative(p.Get("likes")),
		Views:       nonNegative(p.Get("views")),
		Downloads:   nonNegative(p.Get("downloads")),
		CreatedAt:   p.Get("created_at").String(),
	}
}

func author(u gjson.Result, avatarSize string) Author {
	return Author{
		Name:      u.Get("name").String(),
		Username:  u.Get("username").String(),
		AvatarURL: u.Get("profile_image." + avatarSize).String(),
	}
}

// optNullable returns nil for absent or null values only.
func optNullable(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	s := r.String()
	return &s
}

// optString also treats the empty string as absent.
func optString(r gjson.Result) *string {
	s := optNullable(r)
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func optInt(r gjson.Result) *int {
	if r.Type != gjson.Number && r.Type != gjson.String {
		return nil
	}
	n := int(r.Int())
	if n <= 0 {
		return nil
	}
	return &n
}

func nonNegative(r gjson.Result) int {
	if n := r.Int(); n > 0 {
		return int(n)
	}
	return 0
}
