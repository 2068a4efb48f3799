package unsplash

// Author is the photographer or owner of a photo or collection.
type Author struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// PhotoSummary is the stable shape of a photo used by listing and search
// views, whatever the upstream payload looked like.
type PhotoSummary struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	ImageURLs   map[string]string `json:"imageUrls"`
	Author      Author            `json:"author"`
	Likes       int               `json:"likes"`
	Views       int               `json:"views"`
	Downloads   int               `json:"downloads"`
	CreatedAt   string            `json:"createdAt"`
}

type SearchResult struct {
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
	Items      []PhotoSummary `json:"items"`
}

// Exif fields are optional one by one; a nil field was not reported.
type Exif struct {
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	FocalLength  *string `json:"focalLength,omitempty"`
	Aperture     *string `json:"aperture,omitempty"`
	ExposureTime *string `json:"exposureTime,omitempty"`
	ISO          *int    `json:"iso,omitempty"`
}

// Camera joins make and model the way the detail view shows it.
func (e Exif) Camera() string {
	switch {
	case e.Make != nil && e.Model != nil:
		return *e.Make + " " + *e.Model
	case e.Make != nil:
		return *e.Make
	case e.Model != nil:
		return *e.Model
	}
	return ""
}

func (e Exif) Empty() bool {
	return e.Make == nil && e.Model == nil && e.FocalLength == nil &&
		e.Aperture == nil && e.ExposureTime == nil && e.ISO == nil
}

type Links struct {
	HTML             string `json:"html,omitempty"`
	Download         string `json:"download,omitempty"`
	DownloadLocation string `json:"downloadLocation,omitempty"`
}

type PhotoDetail struct {
	PhotoSummary
	AltDescription string `json:"altDescription,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Exif           Exif   `json:"exif"`
	Links          Links  `json:"links"`
}

type CollectionSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TotalPhotos int    `json:"totalPhotos"`
	CoverURL    string `json:"coverUrl,omitempty"`
	Author      Author `json:"author"`
}

type CollectionResult struct {
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Items      []CollectionSummary `json:"items"`
}

type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	TotalPhotos int    `json:"totalPhotos"`
}

type UserResult struct {
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
	Items      []UserSummary `json:"items"`
}
