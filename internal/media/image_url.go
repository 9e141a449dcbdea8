package media

import "strings"

// PlaceholderImageURL is shown for products without an image.
const PlaceholderImageURL = "https://via.placeholder.com/150"

// ResolveImageURL turns an image path from the backend into an absolute URL.
// Absolute URLs pass through, "/media" paths are joined to base, and bare
// paths are placed under base + "/media/".
func ResolveImageURL(base, path string) string {
	if path == "" {
		return PlaceholderImageURL
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(path, "/media") {
		return base + path
	}
	return base + "/media/" + strings.TrimLeft(path, "/")
}
