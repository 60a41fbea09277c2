package instructions

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultMirrorTemplate is where users are sent to download builds.
const DefaultMirrorTemplate = "https://sourceforge.net/projects/evolution-x/files/{device}/{version}/"

const downloadSuffix = "download"

// VersionToken extracts the release folder from a build download URL.
//
// Published links have the form .../<device>/<version>/<file>/download, so the
// token is the third path segment from the end. Query strings, fragments, and
// one trailing slash are ignored. A link that names the file directly is read
// as if the trailing download segment were present.
func VersionToken(downloadURL string) (string, error) {
	trimmed := strings.TrimSpace(downloadURL)
	if trimmed == "" {
		return "", errors.New("download url is empty")
	}
	path := trimmed
	if u, err := url.Parse(trimmed); err == nil {
		path = u.Path
	}
	path = strings.TrimSuffix(path, "/")
	segments := strings.Split(path, "/")
	if segments[len(segments)-1] != downloadSuffix {
		segments = append(segments, downloadSuffix)
	}
	if len(segments) < 3 {
		return "", fmt.Errorf("download url %q has too few path segments", downloadURL)
	}
	token := segments[len(segments)-3]
	if token == "" {
		return "", fmt.Errorf("download url %q has an empty version segment", downloadURL)
	}
	return token, nil
}

// MirrorURL fills {device} and {version} in template. An empty template uses
// DefaultMirrorTemplate.
func MirrorURL(template, device, version string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultMirrorTemplate
	}
	return strings.NewReplacer("{device}", device, "{version}", version).Replace(template)
}

// DownloadList names every file the user must fetch: the images, then "rom".
func DownloadList(images []string) string {
	items := make([]string, 0, len(images)+1)
	items = append(items, images...)
	items = append(items, "rom")
	return strings.Join(items, ", ")
}
