package linode

import (
	"context"
	"net/http"
	"regexp"
	"sort"
)

// SystemCreator is the reserved account that owns platform-provided images.
const SystemCreator = "linode"

var kubePattern = regexp.MustCompile(`(?i)kube`)

// Visibility selects public or private images.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Image is a disk image available to the account.
type Image struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Created     string `json:"created"`
	CreatedBy   string `json:"created_by"`
	Deprecated  bool   `json:"deprecated"`
	IsPublic    bool   `json:"is_public"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Vendor      string `json:"vendor"`
}

// ListImages returns a page of images visible to the account.
func (c *Client) ListImages(ctx context.Context, params *ListParams, filter *Filter) (*Page[Image], error) {
	return call[Page[Image]](ctx, c,
		WithMethod(http.MethodGet),
		WithParams(params),
		WithFilter(filter),
		WithURL("/images"),
	)
}

// ImagesByID keys images by identifier. A later duplicate replaces an earlier one.
func ImagesByID(images []Image) map[string]Image {
	keyed := make(map[string]Image, len(images))
	for _, img := range images {
		keyed[img.ID] = img
	}
	return keyed
}

// FilterByVisibility keeps the images whose public flag matches v.
func FilterByVisibility(images map[string]Image, v Visibility) map[string]Image {
	out := make(map[string]Image)
	for id, img := range images {
		switch {
		case v == VisibilityPublic && img.IsPublic:
			out[id] = img
		case v == VisibilityPrivate && !img.IsPublic:
			out[id] = img
		}
	}
	return out
}

// FilterOutSystemKubeImages drops the Kubernetes images published by the
// system account. Kube-labelled images from anyone else are kept.
func FilterOutSystemKubeImages(images map[string]Image) map[string]Image {
	out := make(map[string]Image)
	for id, img := range images {
		if kubePattern.MatchString(img.Label) && img.CreatedBy == SystemCreator {
			continue
		}
		out[id] = img
	}
	return out
}

// SortedImages returns the images ordered by identifier.
func SortedImages(images map[string]Image) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
